package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ougirez/mapwizard/internal/pkg/constants"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	v := viper.New()
	path := writeConfig(t, "auth:\n  secret: s3cret\n")

	require.NoError(t, load(v, path))
	assert.Equal(t, ":8080", v.GetString(constants.ViperServerAddrKey))
	assert.Equal(t, 24*time.Hour, v.GetDuration(constants.ViperTokenTTLKey))
	assert.Equal(t, constants.StoreDriverMemory, v.GetString(constants.ViperStoreDriverKey))
	assert.Equal(t, "en", v.GetString(constants.ViperLocaleDefaultKey))
	assert.Equal(t, []string{"en"}, v.GetStringSlice(constants.ViperLocaleSupportedKey))
	assert.False(t, v.GetBool(constants.ViperSortChildPlacesKey))
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("WIZARD_AUTH_SECRET", "from-env")
	t.Setenv("WIZARD_CSV_SAMPLE_SIZE", "7")

	v := viper.New()
	require.NoError(t, load(v, ""))
	assert.Equal(t, "from-env", v.GetString(constants.ViperSecretKey))
	assert.Equal(t, 7, v.GetInt(constants.ViperCsvSampleSizeKey))
}

func TestLoad_Invalid(t *testing.T) {
	v := viper.New()
	path := writeConfig(t, "store:\n  driver: postgres\ncsv:\n  sample_size: 0\n")

	err := load(v, path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "auth.secret is required")
	assert.Contains(t, err.Error(), "store.dsn is required for postgres")
	assert.Contains(t, err.Error(), "csv.sample_size must be positive")
}

func TestLoad_MissingFile(t *testing.T) {
	err := load(viper.New(), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "viper.ReadInConfig")
}
