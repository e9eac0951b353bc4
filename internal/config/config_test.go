package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadOrCreateUseDefaultSkipsDisk(t *testing.T) {
	cfg, err := LoadOrCreate(true)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestApplyOverlayOnlyOverridesNonZeroFields(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Apply(Config{MaxRecursionDepth: 500})

	assert.Equal(t, 500, cfg.MaxRecursionDepth)
	assert.Equal(t, DefaultConfig().Features, cfg.Features)
	assert.Equal(t, DefaultConfig().PortBufferSize, cfg.PortBufferSize)
}

func TestApplyOverlayReplacesFeatures(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Apply(Config{Features: []string{"custom"}})
	assert.Equal(t, []string{"custom"}, cfg.Features)
}
