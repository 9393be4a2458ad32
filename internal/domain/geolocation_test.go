package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportGeolocation(t *testing.T) {
	tests := []struct {
		name    string
		backend GeolocationBackend
		mode    int
		buf     string
		want    string
	}{
		{name: "proj4 into empty buffer", backend: Proj4Library, mode: 0, buf: "", want: "proj4"},
		{name: "gctpc appends to prefix", backend: GctpcLibrary, mode: 1, buf: "x=", want: "x=gctpc"},
		{name: "negative mode leaves buffer", backend: Internal, mode: -1, buf: "unchanged", want: "unchanged"},
		{name: "not_used into empty buffer", backend: NotUsed, mode: 0, buf: "", want: "not_used"},
		{name: "internal verbose mode", backend: Internal, mode: 2, buf: "1:0:", want: "1:0:internal"},
		{name: "cleanup pass", backend: Proj4Library, mode: -2, buf: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf strings.Builder
			buf.WriteString(tt.buf)

			err := ReportGeolocation(tt.mode, tt.backend, &buf)

			require.NoError(t, err)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestReportGeolocation_EveryBackend(t *testing.T) {
	for _, b := range GeolocationBackends() {
		t.Run(b.String(), func(t *testing.T) {
			token, ok := b.Token()
			require.True(t, ok)

			var out strings.Builder
			require.NoError(t, ReportGeolocation(0, b, &out))
			assert.Equal(t, token, out.String())

			var silent strings.Builder
			silent.WriteString("keep")
			require.NoError(t, ReportGeolocation(-1, b, &silent))
			assert.Equal(t, "keep", silent.String())
		})
	}
}

func TestReportGeolocation_OutOfRangeBackendAppendsNothing(t *testing.T) {
	for _, b := range []GeolocationBackend{-1, 4, 99} {
		var buf strings.Builder
		buf.WriteString("1:0:")

		err := ReportGeolocation(0, b, &buf)

		require.NoError(t, err)
		assert.Equal(t, "1:0:", buf.String())
		assert.False(t, b.Valid())
		assert.Equal(t, "unknown", b.String())
	}
}

func TestParseGeolocationBackend(t *testing.T) {
	t.Run("known tokens", func(t *testing.T) {
		cases := map[string]GeolocationBackend{
			"proj4":    Proj4Library,
			"gctpc":    GctpcLibrary,
			"internal": Internal,
			"not_used": NotUsed,
			" GCTPC ":  GctpcLibrary,
			"Not_Used": NotUsed,
		}
		for in, want := range cases {
			got, err := ParseGeolocationBackend(in)
			require.NoError(t, err, in)
			assert.Equal(t, want, got, in)
		}
	})

	t.Run("unknown token", func(t *testing.T) {
		_, err := ParseGeolocationBackend("wgs84")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnknownGeolocationBackend)
		assert.Contains(t, err.Error(), "wgs84")
	})

	t.Run("empty", func(t *testing.T) {
		_, err := ParseGeolocationBackend("")
		assert.ErrorIs(t, err, ErrUnknownGeolocationBackend)
	})
}

func TestParseGeolocationBackend_RoundTrip(t *testing.T) {
	for _, b := range GeolocationBackends() {
		got, err := ParseGeolocationBackend(b.String())
		require.NoError(t, err)
		assert.Equal(t, b, got)
	}
}
