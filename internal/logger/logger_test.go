package logger

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_Level(t *testing.T) {
	t.Cleanup(InitDefault)

	var buf bytes.Buffer
	require.NoError(t, Init(&buf, "warn"))
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())

	log.Info().Msg("hidden")
	log.Warn().Str("input", "prices.csv").Msg("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "prices.csv")
}

func TestInit_EmptyLevelDefaultsToInfo(t *testing.T) {
	t.Cleanup(InitDefault)

	require.NoError(t, Init(&bytes.Buffer{}, ""))
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}

func TestInit_BadLevel(t *testing.T) {
	assert.Error(t, Init(&bytes.Buffer{}, "loud"))
}
