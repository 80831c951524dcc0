package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_JSONWithService(t *testing.T) {
	t.Cleanup(Reset)
	var buf bytes.Buffer

	log := Init(Options{Level: "debug", Output: &buf, Service: "staff-auth"})
	log.Debug().Str("username", "admin").Msg("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "staff-auth", entry["service"])
	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, "admin", entry["username"])
}

func TestInit_OnlyFirstCallApplies(t *testing.T) {
	t.Cleanup(Reset)
	var first, second bytes.Buffer

	Init(Options{Output: &first})
	Init(Options{Output: &second, Level: "error"})
	l := Get()
	l.Info().Msg("kept")

	assert.NotEmpty(t, first.String())
	assert.Empty(t, second.String())
}

func TestComponent(t *testing.T) {
	t.Cleanup(Reset)
	var buf bytes.Buffer
	Init(Options{Output: &buf})

	l := Component("seed")
	l.Info().Msg("x")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "seed", entry["component"])
}

func TestGet_PanicsBeforeInit(t *testing.T) {
	Reset()
	assert.Panics(t, func() { Get() })
}

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"trace":   zerolog.TraceLevel,
		"DEBUG":   zerolog.DebugLevel,
		" warn ":  zerolog.WarnLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"":        zerolog.InfoLevel,
		"bogus":   zerolog.InfoLevel,
	}
	for in, want := range cases {
		assert.Equal(t, want, parseLevel(in), "parseLevel(%q)", in)
	}
}
