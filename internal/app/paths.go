// Package app provides the application initialization and wiring.
package app

import (
	"github.com/spf13/viper"
)

// ConfigName is the base name of the config file.
const ConfigName = "launcher"

// ConfigureViper sets up viper with standard config file search paths.
// Config file: launcher.yaml
// Search paths (in order): /etc/launcher, ~/.config/launcher, current directory
func ConfigureViper(v *viper.Viper, configPath string) {
	if configPath != "" {
		v.SetConfigFile(configPath)
		return
	}
	v.SetConfigName(ConfigName)
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/launcher")
	v.AddConfigPath("$HOME/.config/launcher")
	v.AddConfigPath(".")
}
