// Package config loads DATEX CLI configuration.
//
// Values are layered, lowest precedence first: built-in defaults, the
// project's datex.yaml, DATEX_* environment variables and explicitly set
// command-line flags.
package config

import "time"

// Config holds all CLI configuration options.
type Config struct {
	LogLevel       string      `koanf:"log_level"`
	OutputFormat   string      `koanf:"output"`
	DetailedErrors bool        `koanf:"detailed_errors"`
	StatePath      string      `koanf:"state_path"`
	Include        []string    `koanf:"include"`
	Watch          WatchConfig `koanf:"watch"`
	LSP            LSPConfig   `koanf:"lsp"`
	Serve          ServeConfig `koanf:"serve"`

	// ProjectRoot is the directory holding datex.yaml, or the working
	// directory when there is none. It is not read from configuration.
	ProjectRoot string `koanf:"-"`
	// ConfigFile is the config file that was loaded, if any.
	ConfigFile string `koanf:"-"`
}

// WatchConfig configures check --watch.
type WatchConfig struct {
	Debounce time.Duration `koanf:"debounce"`
}

// LSPConfig configures the language server.
type LSPConfig struct {
	// LogFile receives server logs; stdout carries the protocol.
	LogFile string `koanf:"log_file"`
}

// ServeConfig configures the HTTP API.
type ServeConfig struct {
	Addr string `koanf:"addr"`
}

// Default configuration values.
const (
	DefaultLogLevel  = "warn"
	DefaultOutput    = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultStateFile = ".datex/state.db"
	DefaultDebounce  = 200 * time.Millisecond
	DefaultAddr      = "127.0.0.1:7878"
	DefaultInclude   = "**/*.dx"
	ConfigFileName   = "datex.yaml"
)

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		LogLevel:     DefaultLogLevel,
		OutputFormat: DefaultOutput,
		StatePath:    DefaultStateFile,
		Include:      []string{DefaultInclude},
		Watch:        WatchConfig{Debounce: DefaultDebounce},
		Serve:        ServeConfig{Addr: DefaultAddr},
	}
}
