// Package main is the entry point for the TremTec site server.
//
// main() stays minimal: load config, build the logger, resolve asset paths,
// hand everything to internal/server. All actual behavior lives in the
// imported packages.
package main

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/marco-souza/tremtec/internal/config"
	"github.com/marco-souza/tremtec/internal/server"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Asset paths are relative to the project root, which is the working
	// directory both under `go run` and in the deployment image.
	templateDir, _ := filepath.Abs("web/templates")
	staticDir, _ := filepath.Abs("web/static")

	// The login directory's data dir must exist before sqlite can create
	// the file. DB_PATH="" disables the directory, so nothing to create.
	if cfg.DBPath != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
			logger.Error("failed to create database directory",
				slog.String("dir", filepath.Dir(cfg.DBPath)),
				slog.String("error", err.Error()),
			)
			os.Exit(1)
		}
	}

	srv, err := server.New(cfg, templateDir, staticDir, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start() blocks until SIGINT/SIGTERM.
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
