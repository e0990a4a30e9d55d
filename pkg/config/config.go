package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Settings holds every tunable the widget and its transports read.
// Values come from .parley/settings.yaml, PARLEY_* environment
// variables, or the defaults set in setDefaults.
type Settings struct {
	Provider string `mapstructure:"provider"`
	Theme    string `mapstructure:"theme"`

	// ShowThinking gates whether thinking spans are rendered at all.
	ShowThinking bool `mapstructure:"show_thinking"`

	// TypingIndicator selects the pending-response animation: "dots" or "spinner".
	TypingIndicator string `mapstructure:"typing_indicator"`

	// Persistence controls whether history and disclosure toggles
	// survive restarts. PersistenceType picks the backing store:
	// "local" (file), "session"/"memory" (process memory), "redis".
	Persistence     bool   `mapstructure:"persistence"`
	PersistenceType string `mapstructure:"persistence_type"`

	Thinking struct {
		AutoCollapse  bool          `mapstructure:"auto_collapse"`
		CollapseDelay time.Duration `mapstructure:"collapse_delay"`
	} `mapstructure:"thinking"`

	Typewriter struct {
		ChunkSize int `mapstructure:"chunk_size"`
	} `mapstructure:"typewriter"`

	History struct {
		File string `mapstructure:"file"`
	} `mapstructure:"history"`

	Ollama struct {
		URL   string `mapstructure:"url"`
		Model string `mapstructure:"model"`
	} `mapstructure:"ollama"`

	OpenAI struct {
		APIKey  string `mapstructure:"api_key"`
		Model   string `mapstructure:"model"`
		BaseURL string `mapstructure:"base_url"`
	} `mapstructure:"openai"`

	Redis struct {
		URL string `mapstructure:"url"`
	} `mapstructure:"redis"`

	Server struct {
		Listen string `mapstructure:"listen"`
	} `mapstructure:"server"`

	SSE struct {
		Endpoint string `mapstructure:"endpoint"`
	} `mapstructure:"sse"`

	Logging struct {
		Level    string `mapstructure:"level"`
		File     string `mapstructure:"file"`
		Preserve bool   `mapstructure:"preserve"`
	} `mapstructure:"logging"`
}

// Global is the process-wide settings instance populated by Init.
var Global *Settings

// Load unmarshals the current viper state into a Settings value.
func Load() (*Settings, error) {
	var s Settings
	if err := viper.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("unmarshaling settings: %w", err)
	}
	return &s, nil
}

// Get returns the global settings, loading defaults if Init was never called.
func Get() *Settings {
	if Global == nil {
		setDefaults()
		s, err := Load()
		if err != nil {
			s = &Settings{}
		}
		Global = s
	}
	return Global
}
