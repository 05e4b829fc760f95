package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_WithValidConfigFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	cfg := `{
		"logLevel": "debug",
		"listen": { "port": 9090 },
		"ride": { "speedScale": 1.5, "smoothing": "exponential" }
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "coastersim.cfg.json"), []byte(cfg), 0644))

	err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "debug", GetString("logLevel"))
	assert.Equal(t, 9090, GetInt("listen.port"))
	assert.Equal(t, 1.5, GetFloat64("ride.speedScale"))
	assert.Equal(t, "exponential", GetString("ride.smoothing"))
	// Untouched keys keep their defaults.
	assert.Equal(t, 60, GetInt("sim.tickHz"))
}

func TestLoad_DefaultValues(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "coastersim.cfg.json"), []byte(`{}`), 0644))

	err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "info", GetString("logLevel"))
	assert.Equal(t, 8080, GetInt("listen.port"))
	assert.Equal(t, 60, GetInt("sim.tickHz"))
	assert.Equal(t, 1.0, GetFloat64("ride.speedScale"))
	assert.Equal(t, true, GetBool("ride.chainLift"))
	assert.Equal(t, "timescaled", GetString("ride.smoothing"))
	assert.Equal(t, 17.3, GetFloat64("ride.smoothingRate"))
	assert.Equal(t, 0.25, GetFloat64("ride.smoothingFactor"))
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Cleanup(viper.Reset)

	err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "info", GetString("logLevel"))
	assert.Equal(t, 8080, GetInt("listen.port"))
}

func TestLoad_InvalidJSON(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "coastersim.cfg.json"), []byte(`{not json`), 0644))

	assert.Error(t, Load(dir))
}
