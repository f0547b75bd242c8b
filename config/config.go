// Package config loads process configuration for the aliquot CLI family:
// defaults, then an optional YAML file and environment variables via
// spf13/viper (grounded in cristian1one-virtual-vectorfs/vvfs/config), with
// CLI flags applied last by the caller.
package config

import (
	"github.com/spf13/viper"

	"github.com/kryc/aliquot/cpuinfo"
)

// Config is the resolved set of process defaults. Callers overlay
// command-line flags on top of this by simply overwriting the fields whose
// flags were explicitly set.
type Config struct {
	CachePath  string
	GapTable   string
	Threads    int
	LedgerPath string
}

// Load reads defaults, then configPath (if non-empty and present), then
// environment variables prefixed ALIQUOT_.
func Load(configPath string) (Config, error) {
	v := viper.New()

	v.SetDefault("cache_path", "")
	v.SetDefault("gap_table", "")
	v.SetDefault("threads", cpuinfo.Threads())
	v.SetDefault("ledger_path", "")

	v.SetEnvPrefix("ALIQUOT")
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
				return Config{}, err
			}
		}
	}

	return Config{
		CachePath:  v.GetString("cache_path"),
		GapTable:   v.GetString("gap_table"),
		Threads:    v.GetInt("threads"),
		LedgerPath: v.GetString("ledger_path"),
	}, nil
}
