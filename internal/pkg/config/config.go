package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/ougirez/mapwizard/internal/pkg/constants"
)

const envPrefix = "WIZARD"

func setDefaults(v *viper.Viper) {
	v.SetDefault(constants.ViperServerAddrKey, ":8080")
	v.SetDefault(constants.ViperAllowOriginsKey, []string{"http://localhost:3000"})
	v.SetDefault(constants.ViperLogLevelKey, "info")
	v.SetDefault(constants.ViperLogDevelopmentKey, false)
	v.SetDefault(constants.ViperTokenTTLKey, 24*time.Hour)
	v.SetDefault(constants.ViperStoreDriverKey, constants.StoreDriverMemory)
	v.SetDefault(constants.ViperCsvSampleSizeKey, 100)
	v.SetDefault(constants.ViperCsvDisplayRowsKey, 20)
	v.SetDefault(constants.ViperPreviewRowsKey, 1000)
	v.SetDefault(constants.ViperLocaleDirKey, "locales")
	v.SetDefault(constants.ViperLocaleDefaultKey, "en")
	v.SetDefault(constants.ViperLocaleSupportedKey, []string{"en"})
	v.SetDefault(constants.ViperSortChildPlacesKey, false)
	v.SetDefault(constants.ViperTopicFetchRetriesKey, 3)
}

// Load fills the global viper instance from defaults, the YAML file at path
// (skipped when empty) and WIZARD_* environment variables, then checks it.
func Load(path string) error {
	return load(viper.GetViper(), path)
}

func load(v *viper.Viper, path string) error {
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("viper.ReadInConfig: %w", err)
		}
	}

	return validate(v)
}

func validate(v *viper.Viper) error {
	var errs []error

	if v.GetString(constants.ViperSecretKey) == "" {
		errs = append(errs, fmt.Errorf("%s is required", constants.ViperSecretKey))
	}
	if v.GetDuration(constants.ViperTokenTTLKey) <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive", constants.ViperTokenTTLKey))
	}
	switch driver := v.GetString(constants.ViperStoreDriverKey); driver {
	case constants.StoreDriverMemory:
	case constants.StoreDriverPostgres:
		if v.GetString(constants.ViperStoreDSNKey) == "" {
			errs = append(errs, fmt.Errorf("%s is required for %s", constants.ViperStoreDSNKey, driver))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown %s %q", constants.ViperStoreDriverKey, driver))
	}
	if v.GetInt(constants.ViperCsvSampleSizeKey) <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive", constants.ViperCsvSampleSizeKey))
	}
	if v.GetInt(constants.ViperCsvDisplayRowsKey) < 0 {
		errs = append(errs, fmt.Errorf("%s must not be negative", constants.ViperCsvDisplayRowsKey))
	}
	if len(v.GetStringSlice(constants.ViperLocaleSupportedKey)) == 0 {
		errs = append(errs, fmt.Errorf("%s must list at least one locale", constants.ViperLocaleSupportedKey))
	}

	return errors.Join(errs...)
}
