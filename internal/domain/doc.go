// Package domain models GRIB2 inventory records and the geolocation field
// appended to them.
//
// # Inventory lines
//
// The upstream decoder emits one line per GRIB2 record, built field by field
// into a shared buffer:
//
//	1:0:d=2024042600:TMP:2 m above ground:anl:
//
// The record id ("1", or "1.2" for a submessage) is the first field. Layout
// and delimiters are owned by the decoder; each field function only appends
// its own text.
//
// # Execution mode
//
// Every field function receives an integer mode. Negative values are setup
// and cleanup passes that must not write output; zero and above produce
// output, with larger values asking for more verbose text.
//
// # Geolocation backends
//
// The geolocation field reports which package converts grid-cell indices to
// latitude/longitude:
//
//	proj4     PROJ.4 library
//	gctpc     General Cartographic Transformation Package (GCTP-C)
//	internal  built-in projection code
//	not_used  no geolocation
//
// The backend is selected at startup (GEOLOCATION_BACKEND) and passed
// explicitly to [ReportGeolocation]; nothing in this package holds it as
// global state.
package domain
