package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dkristoff/bibliocr/internal/api"
	"github.com/dkristoff/bibliocr/internal/llm"
	"github.com/dkristoff/bibliocr/internal/mcpserver"
	"github.com/dkristoff/bibliocr/internal/ocr"
	"github.com/dkristoff/bibliocr/internal/store"
)

var serveHTTP string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve MCP tools over stdio",
	Long: `Serve runs the MCP server on stdin/stdout until the client
disconnects. With --http an auxiliary status API is served alongside it.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveHTTP, "http", "", "also serve the status API on this address (e.g. :8080)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	log := newLogger()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveHTTP != "" {
		cfg.HTTPAddr = serveHTTP
	}

	engine := ocr.NewTesseractEngine(cfg.OCRLanguages...)
	client := llm.NewClient(cfg)
	st := store.New(cfg.DBPath)

	srv := mcpserver.NewServer(cfg, engine, client, st, log)

	var httpServer *http.Server
	if cfg.HTTPAddr != "" {
		httpServer = &http.Server{
			Addr:         cfg.HTTPAddr,
			Handler:      api.NewServer(cfg, engine.Name(), client.Stats, log),
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 120 * time.Second,
			IdleTimeout:  60 * time.Second,
		}
		go func() {
			log.Info("status api listening", "addr", cfg.HTTPAddr)
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error("status api error", "error", err)
			}
		}()
	}

	// Shut the status API down on SIGINT/SIGTERM; the MCP loop itself
	// ends when the client closes stdin.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		if httpServer != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			httpServer.Shutdown(shutdownCtx)
		}
		os.Stdin.Close()
	}()

	log.Info("starting bibliocr", "version", mcpserver.Version, "db", cfg.DBPath)
	return srv.Run()
}
