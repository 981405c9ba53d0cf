package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/syllascan/syllascan/internal/pipeline"
	"github.com/syllascan/syllascan/internal/server"
)

var serveAddr string

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP upload API",
	Long: `Serve starts an HTTP server exposing the extraction pipeline:

  POST /assignments/pdf_upload?use_llm_repair={true|false}
  POST /assignments/text_upload?use_llm_repair={true|false}
  POST /assignments/confirm
  GET  /healthz

Uploads are multipart forms with a single "file" field. Responses carry
the extracted items, a summary, and a review payload for a confirmation
UI.

Example:
  syllascan serve
  syllascan serve --addr :9000
  syllascan serve --llm --llm-provider ollama`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config, :8000)")

	// LLM flags
	serveCmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable the LLM repair pass for use_llm_repair requests")
	serveCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, anthropic, ollama)")
	serveCmd.Flags().StringVar(&llmModel, "llm-model", "gpt-4o-mini", "LLM model name")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}
	if err := applyLLMFlags(cfg); err != nil {
		return err
	}

	p := pipeline.NewPipeline(cfg)

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      server.New(p, cfg),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute, // PDF parsing plus an LLM round trip
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		fmt.Fprintf(os.Stderr, "Listening on %s\n", cfg.Server.Addr)
		if cfg.LLM.Provider != "" {
			fmt.Fprintf(os.Stderr, "LLM repair available via %s/%s\n", cfg.LLM.Provider, cfg.LLM.Model)
		}
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	fmt.Fprintln(os.Stderr, "Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
