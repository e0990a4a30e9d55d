package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Init wires viper to the settings file, defaults, and environment,
// then loads the result into Global. cfgFile overrides the default
// .parley/settings.yaml lookup when non-empty.
func Init(cfgFile string) error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(BaseSettingsDir())
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("settings")
	}

	setDefaults()

	viper.SetEnvPrefix("PARLEY")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	bindEnvAliases()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("reading config file: %w", err)
		}
	}

	s, err := Load()
	if err != nil {
		return err
	}
	Global = s
	return nil
}

func setDefaults() {
	viper.SetDefault("provider", "ollama")
	viper.SetDefault("theme", "dark")

	viper.SetDefault("show_thinking", true)
	viper.SetDefault("typing_indicator", "dots")

	viper.SetDefault("persistence", true)
	viper.SetDefault("persistence_type", "local")

	viper.SetDefault("thinking.auto_collapse", false)
	viper.SetDefault("thinking.collapse_delay", 300*time.Millisecond)

	viper.SetDefault("typewriter.chunk_size", 30)

	viper.SetDefault("history.file", BuildSettingsPath("history.json"))

	viper.SetDefault("ollama.url", "http://localhost:11434")
	viper.SetDefault("ollama.model", "llama3.2")

	viper.SetDefault("openai.api_key", "")
	viper.SetDefault("openai.model", "gpt-4o-mini")
	viper.SetDefault("openai.base_url", "")

	viper.SetDefault("redis.url", "")

	viper.SetDefault("server.listen", ":8050")
	viper.SetDefault("sse.endpoint", "http://localhost:8050/api/sse/chat")

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.file", BuildSettingsPath("parley.log"))
	viper.SetDefault("logging.preserve", false)
}

// bindEnvAliases keeps a few commonly exported variables working
// without the PARLEY_ prefix.
func bindEnvAliases() {
	viper.BindEnv("openai.api_key", "PARLEY_OPENAI_API_KEY", "OPENAI_API_KEY")
	viper.BindEnv("ollama.url", "PARLEY_OLLAMA_URL", "OLLAMA_HOST")
	viper.BindEnv("redis.url", "PARLEY_REDIS_URL", "REDIS_URL")
}
