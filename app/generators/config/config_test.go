package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jrazmi/crudgen/app/generators/stencil"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "com.example", cfg.BasePackage)
	assert.Equal(t, ".", cfg.OutputDir)
	assert.Empty(t, cfg.TemplatesDir)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, stencil.DefaultCacheSize, cfg.CacheSize)
	assert.False(t, cfg.Force)
	assert.False(t, cfg.DryRun)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("CRUDGEN_BASE_PACKAGE", "io.shop")
	t.Setenv("CRUDGEN_OUTPUT_DIR", "build/generated")
	t.Setenv("CRUDGEN_WORKERS", "2")
	t.Setenv("CRUDGEN_CACHE_SIZE", "16")
	t.Setenv("CRUDGEN_DRY_RUN", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "io.shop", cfg.BasePackage)
	assert.Equal(t, "build/generated", cfg.OutputDir)
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, 16, cfg.CacheSize)
	assert.True(t, cfg.DryRun)
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name, key, value string
	}{
		{"workers not a number", "CRUDGEN_WORKERS", "lots"},
		{"zero workers", "CRUDGEN_WORKERS", "0"},
		{"negative cache", "CRUDGEN_CACHE_SIZE", "-1"},
		{"force not a bool", "CRUDGEN_FORCE", "maybe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
