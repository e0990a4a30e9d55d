package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"parley/pkg/config"
	"parley/pkg/llm"
	"parley/pkg/logger"
	"parley/pkg/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the chat streaming server",
	Long: `Serve the SSE chat endpoint backed by the configured model
provider. The widget connects to this server; it also works for any
EventSource client that speaks the stream protocol.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runServer(cmd.Context()); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	serveCmd.Flags().String("listen", "", "listen address, host:port")
	viper.BindPFlag("server.listen", serveCmd.Flags().Lookup("listen"))

	serveCmd.Flags().String("model", "", "model name for the active provider")
	viper.BindPFlag("model_override", serveCmd.Flags().Lookup("model"))

	rootCmd.AddCommand(serveCmd)
}

func runServer(ctx context.Context) error {
	log := logger.WithComponent("serve")
	cfg := config.Get()

	if model := viper.GetString("model_override"); model != "" {
		cfg.Ollama.Model = model
		cfg.OpenAI.Model = model
	}

	provider, err := llm.FromSettings(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize model provider: %w", err)
	}

	handler := server.NewHandler(provider)

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	srv := &http.Server{
		Addr:    cfg.Server.Listen,
		Handler: cors(handler.Router()),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
		defer stop()
		srv.Shutdown(shutdownCtx)
	}()

	log.Info("Server listening", "addr", cfg.Server.Listen, "provider", provider.Name())
	fmt.Printf("Listening on %s (provider: %s)\n", cfg.Server.Listen, provider.Name())

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	log.Info("Server stopped")
	return nil
}

// cors allows browser widgets served from another origin to reach the
// stream, status and stop endpoints.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
