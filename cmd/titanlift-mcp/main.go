// titanlift-mcp serves the workout data over MCP (stdio). It reads either
// the local store directly or a running TitanLift server's REST API.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/pedro/titanlift/internal/bus"
	"github.com/pedro/titanlift/internal/config"
	"github.com/pedro/titanlift/internal/mcp"
	"github.com/pedro/titanlift/internal/store"
	"github.com/pedro/titanlift/internal/timer"
	"github.com/pedro/titanlift/internal/workout"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	remoteURL := flag.String("url", "", "base URL of a running TitanLift server (omit for local store)")
	flag.Parse()

	// Logs go to stderr; stdout belongs to the MCP transport.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	var ds mcp.DataSource

	if *remoteURL != "" {
		ds = mcp.NewHTTPClient(*remoteURL)
		log.Info("MCP server starting", "mode", "remote", "url", *remoteURL)
	} else {
		cfg, err := config.Load(*configPath)
		if err != nil {
			log.Error("failed to load config", "error", err)
			os.Exit(1)
		}

		ctx := context.Background()
		var st store.Store
		if cfg.Storage.Driver == "postgres" {
			st, err = store.OpenPostgres(ctx, cfg.Storage.DSN())
		} else {
			st, err = store.OpenSQLite(cfg.Storage.DataDir)
		}
		if err != nil {
			log.Error("failed to open store", "error", err)
			os.Exit(1)
		}
		defer st.Close()

		elapsed := timer.NewElapsed(st, nil)
		ds = workout.New(st, bus.New(), elapsed, log, nil)
		log.Info("MCP server starting", "mode", "local", "driver", cfg.Storage.Driver)
	}

	srv := mcp.New(ds, Version, log)
	if err := mcpserver.ServeStdio(srv); err != nil {
		log.Error("MCP server error", "error", err)
		os.Exit(1)
	}
}
