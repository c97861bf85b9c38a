package config

import (
	"sharelend/core"

	configUtil "github.com/fox-one/pkg/config"
)

// Load load config file, env SHARELEND_* overrides file values
func Load(configFile string, config *core.Config) error {
	configUtil.AutomaticLoadEnv("SHARELEND")
	if configFile != "" {
		if err := configUtil.LoadYaml(configFile, config); err != nil {
			return err
		}
	}

	config.Defaults()
	return nil
}
