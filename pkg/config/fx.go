package config

import (
	"os"

	"github.com/pseudomuto/sqlmigrate/pkg/consts"
	"go.uber.org/fx"
)

// ConfigEnvVar overrides the location of the configuration file.
const ConfigEnvVar = "SQLMIGRATE_CONFIG"

var Module = fx.Module("config", fx.Provide(
	// Loads sqlmigrate.yaml (or $SQLMIGRATE_CONFIG) when present. Commands still work from flags
	// alone, so a missing file is the default configuration.
	func() (*Config, error) {
		path := consts.DefaultConfigFile
		if p := os.Getenv(ConfigEnvVar); p != "" {
			path = p
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			return Default(), nil
		}

		return LoadConfigFile(path)
	},
))
