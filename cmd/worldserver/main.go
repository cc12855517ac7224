// Package main provides the world server binary: the MCP tool server with
// optional gRPC and metrics listeners.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/cory-johannsen/worldbible/internal/config"
	"github.com/cory-johannsen/worldbible/internal/game/bible"
	"github.com/cory-johannsen/worldbible/internal/game/genesis"
	"github.com/cory-johannsen/worldbible/internal/game/registry"
	"github.com/cory-johannsen/worldbible/internal/game/worlds"
	"github.com/cory-johannsen/worldbible/internal/gameserver"
	"github.com/cory-johannsen/worldbible/internal/observability"
	"github.com/cory-johannsen/worldbible/internal/server"
	"github.com/cory-johannsen/worldbible/internal/toolserver"
)

var version = "dev"

func main() {
	start := time.Now()

	configPath := flag.String("config", "", "path to configuration file; empty uses defaults and WORLDBIBLE_* environment")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics, err := observability.NewMetrics(reg)
	if err != nil {
		logger.Fatal("registering metrics", zap.Error(err))
	}

	catalogStart := time.Now()
	catalog, err := genesis.LoadCatalog(cfg.Content.StylesDir)
	if err != nil {
		logger.Fatal("loading style templates", zap.Error(err))
	}
	logger.Info("style templates loaded",
		zap.Int("styles", len(catalog.Styles())),
		zap.String("dir", cfg.Content.StylesDir),
		zap.Duration("elapsed", time.Since(catalogStart)),
	)

	rules := bible.DefaultRules
	if cfg.Validation.StrictConsistency {
		rules = bible.StrictRules
	}
	svc := worlds.NewService(registry.New(), catalog, rules, logger, metrics)

	lifecycle := server.NewLifecycle(logger)

	tools := toolserver.New(svc, logger, version)
	switch cfg.MCP.Transport {
	case toolserver.TransportHTTP:
		lifecycle.Add("mcp", toolserver.NewHTTPService(tools, cfg.MCP.Addr()))
	default:
		lifecycle.Add("mcp", toolserver.NewStdioService(tools))
	}

	if cfg.GRPC.Enabled {
		grpcServer, health := gameserver.NewGRPCServer(gameserver.NewWorldServer(svc, logger), logger)
		lifecycle.Add("grpc", gameserver.NewListener(cfg.GRPC.Addr(), grpcServer, health, logger))
	}
	if cfg.Metrics.Enabled {
		lifecycle.Add("metrics", observability.NewMetricsServer(cfg.Metrics.Addr(), reg, logger))
	}

	logger.Info("world server initialized",
		zap.String("version", version),
		zap.String("mcp_transport", cfg.MCP.Transport),
		zap.Bool("grpc", cfg.GRPC.Enabled),
		zap.Bool("metrics", cfg.Metrics.Enabled),
		zap.Bool("strict_consistency", cfg.Validation.StrictConsistency),
		zap.Duration("startup", time.Since(start)),
	)

	if err := lifecycle.Run(context.Background()); err != nil {
		logger.Error("world server stopped", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}
