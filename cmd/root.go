package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"parley/pkg/config"
	"parley/pkg/logger"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "parley",
	Short: "Streaming chat widget for the terminal",
	Long: `Parley is a terminal chat widget that talks to a streaming chat
server over SSE. Assistant responses render live, with thinking
sections parsed out of the stream into collapsible blocks.

Run with no arguments to open the widget. Use "parley serve" to run
the server side and "parley history" to print the saved transcript.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runWidget(cmd.Context()); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

// Execute runs the root command. Called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initRuntime)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is .parley/settings.yaml)")

	rootCmd.PersistentFlags().StringP("log-level", "l", "info", "log level (debug, info, warn, error)")
	viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.PersistentFlags().StringP("endpoint", "e", "", "chat stream endpoint URL")
	viper.BindPFlag("sse.endpoint", rootCmd.PersistentFlags().Lookup("endpoint"))

	rootCmd.PersistentFlags().String("theme", "", "color theme (dark or light)")
	viper.BindPFlag("theme", rootCmd.PersistentFlags().Lookup("theme"))

	rootCmd.PersistentFlags().Bool("show-thinking", true, "render thinking sections in assistant replies")
	viper.BindPFlag("show_thinking", rootCmd.PersistentFlags().Lookup("show-thinking"))

	rootCmd.PersistentFlags().Bool("no-persist", false, "keep history and disclosure state in memory only")
	viper.BindPFlag("no_persist", rootCmd.PersistentFlags().Lookup("no-persist"))
}

// initRuntime loads config and the logger before any command runs.
func initRuntime() {
	if err := config.Init(cfgFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	if viper.GetBool("no_persist") {
		viper.Set("persistence", false)
		s, err := config.Load()
		if err == nil {
			config.Global = s
		}
	}

	cfg := config.Get()
	if err := logger.Init(logger.Options{
		Level:    cfg.Logging.Level,
		LogFile:  cfg.Logging.File,
		Preserve: cfg.Logging.Preserve,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
		os.Exit(1)
	}
}
