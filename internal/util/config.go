package util

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

type Configuration struct {
	Version   string `toml:"-"`
	BuildDate string `toml:"-"`
	Commit    string `toml:"-"`

	LogLevel string `toml:"log_level"`
	LogFile  string `toml:"log_file"`

	// Trace prints every environment operation and reduction to stderr.
	Trace        bool `toml:"trace"`
	DebugJsonAST bool `toml:"debug_json_ast"`
	DebugTxtAST  bool `toml:"debug_txt_ast"`

	Prompt      string `toml:"prompt"`
	HistoryFile string `toml:"history_file"`
	MaxDepth    int    `toml:"max_depth"`
	NoPrelude   bool   `toml:"no_prelude"`

	Store StoreConfig `toml:"store"`
}

// StoreConfig selects the database that keeps definitions and the transcript.
// An empty Driver disables persistence.
type StoreConfig struct {
	Driver string `toml:"driver"`
	DSN    string `toml:"dsn"`
}

func (s StoreConfig) Enabled() bool { return s.Driver != "" }

func DefaultConfiguration() Configuration {
	return Configuration{
		Version:   "dev",
		BuildDate: "unknown",
		Commit:    "unknown",
		LogLevel:  "none",
		Prompt:    ">> ",
		MaxDepth:  10000,
	}
}

// LoadConfigFile overlays the TOML file at path onto cfg. Keys missing from the
// file keep their current values.
func LoadConfigFile(path string, cfg *Configuration) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("failed to load config '%s': %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("failed to load config '%s': unknown key %q", path, undecoded[0].String())
	}
	return nil
}
