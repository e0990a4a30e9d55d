package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"parley/pkg/config"
	"parley/pkg/controllers"
	"parley/pkg/headless"
)

var askCmd = &cobra.Command{
	Use:   "ask [prompt]",
	Short: "Send one prompt and print the reply",
	Long: `Send a single prompt to the stream endpoint and print the
reply as it arrives, without opening the widget. The exchange is
saved to the same history the widget uses.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runAsk(cmd.Context(), strings.Join(args, " ")); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(askCmd)
}

func runAsk(ctx context.Context, prompt string) error {
	cfg := config.Get()

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	kv, err := controllers.OpenStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open history store: %w", err)
	}

	err = headless.Run(ctx, headless.Options{
		Endpoint:     cfg.SSE.Endpoint,
		ShowThinking: cfg.ShowThinking,
		Store:        kv,
	}, prompt)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
