package config

import (
	"github.com/spf13/viper"

	"github.com/teranos/bindgen/parsing"
)

// Default values
const (
	DefaultOutputDir = "generated"
	DefaultIRFile    = "bindgen.yaml"
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("library.name", "")
	v.SetDefault("library.version", "")
	v.SetDefault("library.root", ".")
	v.SetDefault("library.sources", []string{})
	v.SetDefault("library.languages", []string{})

	v.SetDefault("parser.naming_convention", "snake")
	v.SetDefault("parser.ignore_attribute", parsing.DefaultIgnoreAttribute)

	v.SetDefault("generator.output_dir", DefaultOutputDir)
	v.SetDefault("generator.targets", []string{"all"})
	v.SetDefault("generator.ir_file", DefaultIRFile)

	v.SetDefault("log.json", false)
	v.SetDefault("log.verbosity", 0)
}

// Default returns the configuration built from defaults alone
func Default() *Config {
	v := viper.New()
	SetDefaults(v)
	cfg, err := LoadWithViper(v)
	if err != nil {
		// defaults always decode
		panic(err)
	}
	return cfg
}
