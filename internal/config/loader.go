package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// configName is the config file name without extension.
const configName = ".slowcount"

// configType is the config file format.
const configType = "yaml"

// envPrefix is the environment variable prefix for slowcount settings.
const envPrefix = "SLOWCOUNT"

// Load reads configuration from defaults, an optional config file, SLOWCOUNT_*
// environment variables and finally the given flags, in increasing order of
// precedence. Only flags that were set on the command line override the
// lower layers.
//
// If configPath is non-empty, it is used as the explicit config file path.
// Otherwise, the config file is searched in CWD and $HOME. A missing config
// file is not an error.
func Load(configPath string, flags *pflag.FlagSet) (*Config, error) {
	viperCfg := viper.New()

	applyDefaults(viperCfg)

	viperCfg.SetConfigType(configType)
	viperCfg.SetEnvPrefix(envPrefix)
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viperCfg.AutomaticEnv()

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName(configName)
		viperCfg.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viperCfg.AddConfigPath(home)
		}
	}

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFound) {
			return nil, fmt.Errorf("read config: %w", readErr)
		}
	}

	if flags != nil {
		bindErr := bindFlags(viperCfg, flags)
		if bindErr != nil {
			return nil, fmt.Errorf("bind flags: %w", bindErr)
		}
	}

	var cfg Config

	unmarshalErr := viperCfg.Unmarshal(&cfg)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("unmarshal config: %w", unmarshalErr)
	}

	validateErr := cfg.Validate()
	if validateErr != nil {
		return nil, fmt.Errorf("validate config: %w", validateErr)
	}

	return &cfg, nil
}

// bindFlags binds every flag whose name matches a config key, with dashes in
// flag names mapped to underscores.
func bindFlags(viperCfg *viper.Viper, flags *pflag.FlagSet) error {
	var bindErr error

	flags.VisitAll(func(f *pflag.Flag) {
		key := strings.ReplaceAll(f.Name, "-", "_")
		if !isKey(key) || bindErr != nil {
			return
		}
		bindErr = viperCfg.BindPFlag(key, f)
	})

	return bindErr
}

func isKey(key string) bool {
	switch key {
	case "registers", "iterations", "hash", "include_zero", "strip_newline", "histogram":
		return true
	default:
		return false
	}
}

func applyDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("registers", DefaultRegisters)
	viperCfg.SetDefault("iterations", DefaultIterations)
	viperCfg.SetDefault("hash", DefaultHash)
	viperCfg.SetDefault("include_zero", DefaultIncludeZero)
	viperCfg.SetDefault("strip_newline", DefaultStripNewline)
	viperCfg.SetDefault("histogram", DefaultHistogram)
}
