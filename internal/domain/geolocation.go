package domain

import (
	"errors"
	"fmt"
	"strings"
)

// GeolocationBackend identifies the package used to compute the latitude and
// longitude of grid points. It is selected once at startup and read-only
// afterwards.
type GeolocationBackend int

const (
	Proj4Library GeolocationBackend = iota
	GctpcLibrary
	Internal
	NotUsed
)

// ErrUnknownGeolocationBackend is returned when a backend name is not one of
// proj4, gctpc, internal or not_used.
var ErrUnknownGeolocationBackend = errors.New("unknown geolocation backend")

var geolocationTokens = [...]string{
	Proj4Library: "proj4",
	GctpcLibrary: "gctpc",
	Internal:     "internal",
	NotUsed:      "not_used",
}

// GeolocationBackends returns every backend in declaration order.
func GeolocationBackends() []GeolocationBackend {
	return []GeolocationBackend{Proj4Library, GctpcLibrary, Internal, NotUsed}
}

// Token returns the inventory token for b. ok is false for values outside
// the four defined backends.
func (b GeolocationBackend) Token() (token string, ok bool) {
	if !b.Valid() {
		return "", false
	}
	return geolocationTokens[b], true
}

// Valid reports whether b is one of the defined backends.
func (b GeolocationBackend) Valid() bool {
	return b >= Proj4Library && int(b) < len(geolocationTokens)
}

func (b GeolocationBackend) String() string {
	if token, ok := b.Token(); ok {
		return token
	}
	return "unknown"
}

// ParseGeolocationBackend maps a token (case-insensitive) back to its backend.
func ParseGeolocationBackend(s string) (GeolocationBackend, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, b := range GeolocationBackends() {
		if geolocationTokens[b] == name {
			return b, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownGeolocationBackend, s)
}

// ReportGeolocation appends the token for backend to buf when mode is
// non-negative. A negative mode is a setup or cleanup pass and writes nothing.
//
// A backend outside the defined set appends nothing and is not an error, so
// callers that need to distinguish it should check Valid first. The returned
// error is always nil; it exists so the reporter composes with other
// inventory functions.
func ReportGeolocation(mode int, backend GeolocationBackend, buf *strings.Builder) error {
	if mode < 0 {
		return nil
	}
	if token, ok := backend.Token(); ok {
		buf.WriteString(token)
	}
	return nil
}
