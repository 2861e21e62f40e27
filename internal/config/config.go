// Package config handles rwtool configuration loading and management.
package config

// Config holds all tool settings.
type Config struct {
	Archives ArchiveConfig `yaml:"archives"`
	Export   ExportConfig  `yaml:"export"`
	Textures TextureConfig `yaml:"textures"`
	Logging  LoggingConfig `yaml:"logging"`
}

// ArchiveConfig holds IMG archive search paths.
type ArchiveConfig struct {
	Paths []string `yaml:"paths"`
}

// ExportConfig holds JSON export settings.
type ExportConfig struct {
	Dir           string `yaml:"dir"`
	Pretty        bool   `yaml:"pretty"`
	IncludePixels bool   `yaml:"include_pixels"`
}

// TextureConfig holds texture decoding settings.
type TextureConfig struct {
	DecodePixels bool `yaml:"decode_pixels"`
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
			Dir:           "out",
			Pretty:        true,
			IncludePixels: false,
		},
		Textures: TextureConfig{
			DecodePixels: true,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
