// Package config handles objtool configuration loading and management.
package config

// Config holds all objtool settings.
type Config struct {
	Convert ConvertConfig `yaml:"convert"`
	Logging LoggingConfig `yaml:"logging"`
}

// ConvertConfig holds glTF conversion settings.
type ConvertConfig struct {
	Binary    bool   `yaml:"binary"`     // Write .glb instead of .gltf
	OutputDir string `yaml:"output_dir"` // Directory for converted files
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Convert: ConvertConfig{
			Binary:    false,
			OutputDir: ".",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
