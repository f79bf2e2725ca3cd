package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simtools/dbpfkit/internal/tgi"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dbpfkit.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	viper.Reset()

	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, "dbpfkit.db", cfg.Database)
	assert.Equal(t, 16, cfg.Workers)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Empty(t, cfg.Filter)
	assert.False(t, cfg.NoCache)
}

func TestLoadFromFile(t *testing.T) {
	viper.Reset()

	cfg, err := Load(writeConfig(t, "database: mods.db\nworkers: 4\nfilter: [BHAV, \"0x43545353\"]\nlog_format: json\n"))
	require.NoError(t, err)
	assert.Equal(t, "mods.db", cfg.Database)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, []string{"BHAV", "0x43545353"}, cfg.Filter)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoadEnvOverride(t *testing.T) {
	viper.Reset()
	t.Setenv("DBPFKIT_LOG_LEVEL", "debug")

	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadRejectsBadValues(t *testing.T) {
	viper.Reset()
	_, err := Load(writeConfig(t, "workers: 0\n"))
	require.ErrorContains(t, err, "worker")

	viper.Reset()
	_, err = Load(writeConfig(t, "filter: [NOPE]\n"))
	require.ErrorContains(t, err, "unknown resource type")
}

func TestFilterTypes(t *testing.T) {
	ids, err := FilterTypes(nil)
	require.NoError(t, err)
	assert.Nil(t, ids)

	ids, err = FilterTypes([]string{"bhav", "0x43545353"})
	require.NoError(t, err)
	assert.Equal(t, []tgi.TypeID{tgi.SimanticsBehaviourFunction, tgi.CatalogDescription}, ids)

	ids, err = FilterTypes([]string{"THUB"})
	require.NoError(t, err)
	assert.Len(t, ids, 12)

	_, err = FilterTypes([]string{""})
	require.Error(t, err)

	_, err = FilterTypes([]string{"0xZZ"})
	require.ErrorContains(t, err, "invalid type id")
}
