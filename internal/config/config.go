// Package config handles export tool configuration loading.
package config

// Config holds all export tool settings.
type Config struct {
	Export  ExportConfig  `yaml:"export"`
	Logging LoggingConfig `yaml:"logging"`
}

// ExportConfig holds export session settings.
type ExportConfig struct {
	RootPath string    `yaml:"root_path"` // Prim path prefix for exported meshes
	Binary   bool      `yaml:"binary"`    // Write GLB instead of JSON glTF
	Frames   []float64 `yaml:"frames"`    // Time samples to write; empty = default sample only
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Export: ExportConfig{
			RootPath: "/root",
			Binary:   true,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
