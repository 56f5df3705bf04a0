package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/mondocite/mondocite/internal/config"
	"github.com/mondocite/mondocite/internal/crossref"
	"github.com/mondocite/mondocite/internal/server"
	"github.com/mondocite/mondocite/internal/storage"
	"github.com/spf13/cobra"
)

var (
	serveAddr  string
	serveWatch bool
)

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from listen_addr, else "+config.DefaultListenAddr+")")
	serveCmd.Flags().BoolVar(&serveWatch, "watch", false, "Rebuild the query cache when the JSONL files change")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the library over a JSON HTTP API",
	Long: `Serve the library over a JSON HTTP API.

Endpoints:
  GET  /api/health
  GET  /api/styles
  GET  /api/formats
  GET  /api/citations?q=&type=&favorites=&collection=&tag=&year_from=&year_to=&limit=
  GET  /api/citations/{id}
  GET  /api/citations/{id}/format?style=
  GET  /api/citations/export?id=&format=
  GET  /api/collections
  POST /api/doi  {"doi": "10.xxxx/..."}

The server stops cleanly on SIGINT or SIGTERM.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	// Load .env file if present (for CROSSREF_MAILTO)
	_ = godotenv.Load()

	repoRoot := mustFindRepository()
	logger := newLogger()

	addr := serveAddr
	if addr == "" {
		addr = config.GetListenAddr()
	}

	db := mustOpenDatabase(repoRoot)
	defer db.Close()

	citationsPath := config.CitationsPath(repoRoot)
	collectionsPath := config.CollectionsPath(repoRoot)
	rebuild := func() {
		stats, err := db.RebuildFromJSONL(citationsPath, collectionsPath)
		if err != nil {
			logger.Error("rebuilding query cache", "error", err)
			return
		}
		logger.Info("query cache rebuilt", "citations", stats.Citations, "collections", stats.Collections)
	}
	rebuild()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if serveWatch {
		for _, path := range []string{citationsPath, collectionsPath} {
			if err := storage.Watch(ctx, path, storage.DefaultDebounce, rebuild); err != nil {
				exitWithError(ExitError, "watching %s: %v", path, err)
			}
		}
		logger.Info("watching library files", "dir", config.RepoPath(repoRoot))
	}

	resolver := crossref.NewClient(
		crossref.WithMailto(config.GetCrossrefMailto()),
		crossref.WithLogger(logger),
	)
	srv := server.New(db,
		server.WithAddr(addr),
		server.WithLogger(logger),
		server.WithResolver(resolver),
	)

	if err := srv.Start(ctx); err != nil {
		exitWithError(ExitError, "server: %v", err)
	}
	return nil
}
