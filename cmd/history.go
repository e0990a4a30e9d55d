package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"parley/pkg/chat"
	"parley/pkg/config"
	"parley/pkg/controllers"
	"parley/pkg/tui"
)

var historyWidth int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Print the saved conversation",
	Long: `Render the persisted transcript to stdout. Thinking sections
appear in bordered blocks and fenced code is syntax highlighted.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runHistory(cmd.Context()); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the saved conversation",
	Run: func(cmd *cobra.Command, args []string) {
		if err := runHistoryClear(cmd.Context()); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	historyCmd.Flags().IntVar(&historyWidth, "width", 100, "render width in columns")
	historyCmd.AddCommand(historyClearCmd)
	rootCmd.AddCommand(historyCmd)
}

func runHistory(ctx context.Context) error {
	history, err := loadHistory(ctx)
	if err != nil {
		return err
	}

	messages := history.GetMessages()
	if len(messages) == 0 {
		fmt.Println("No saved messages.")
		return nil
	}

	formatter := tui.NewTranscriptFormatter(historyWidth)
	fmt.Print(formatter.FormatHistory(messages))
	return nil
}

func runHistoryClear(ctx context.Context) error {
	history, err := loadHistory(ctx)
	if err != nil {
		return err
	}

	n := history.Len()
	if err := history.Clear(); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}

	fmt.Printf("Cleared %d messages.\n", n)
	return nil
}

func loadHistory(ctx context.Context) (*chat.History, error) {
	cfg := config.Get()

	kv, err := controllers.OpenStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open history store: %w", err)
	}

	history, err := chat.NewHistory(ctx, kv)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	return history, nil
}
