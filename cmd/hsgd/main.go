// Command hsgd wires config -> stores -> embedder -> HSG engine -> HTTP
// router -> MCP adapter and runs until signaled, mirroring the teacher's
// karma module being a library consumed by a thin cmd/ binary -
// generalized here into an actual daemon per SPEC_FULL.md §1.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hsgmemory/engine/internal/analytics"
	"github.com/hsgmemory/engine/internal/archive"
	"github.com/hsgmemory/engine/internal/config"
	"github.com/hsgmemory/engine/internal/embedder"
	httptransport "github.com/hsgmemory/engine/internal/http"
	"github.com/hsgmemory/engine/internal/hsg"
	"github.com/hsgmemory/engine/internal/mcpadapter"
	"github.com/hsgmemory/engine/internal/store/metadata"
	"github.com/hsgmemory/engine/internal/store/vector"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	logger, err := newLogger()
	if err != nil {
		return fmt.Errorf("hsgd: logger init: %w", err)
	}
	defer logger.Sync()

	cfg := config.Load(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metaStore, err := newMetadataStore(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("hsgd: metadata store init: %w", err)
	}
	defer metaStore.Close()
	if err := metaStore.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("hsgd: schema init: %w", err)
	}

	vectorStore, err := newVectorStore(cfg, logger)
	if err != nil {
		return fmt.Errorf("hsgd: vector store init: %w", err)
	}

	embed, err := embedder.New(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("hsgd: embedder init: %w", err)
	}

	engine := hsg.New(metaStore, vectorStore, embed, cfg, logger)

	if cfg.PostHogAPIKey != "" {
		recorder, err := analytics.New(cfg.PostHogAPIKey, cfg.PostHogHost, logger)
		if err != nil {
			logger.Warn("hsgd: analytics disabled, client init failed", zap.Error(err))
		} else {
			recorder.Attach(engine)
			defer recorder.Close()
		}
	}

	if cfg.S3ArchiveBucket != "" {
		archiver, err := archive.NewS3Archiver(ctx, cfg.S3ArchiveBucket, cfg.AWSRegion, "", "")
		if err != nil {
			logger.Warn("hsgd: cold archive disabled, s3 client init failed", zap.Error(err))
		} else {
			engine.SetArchiver(archiver)
		}
	}

	engine.StartBackgroundMaintenance(ctx)
	defer func() {
		done := make(chan struct{})
		go func() {
			engine.StopBackgroundMaintenance()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(10 * time.Second):
			logger.Warn("hsgd: background maintenance did not stop within the grace period")
		}
	}()

	app := httptransport.NewRouter(engine, logger)
	mcpServer := mcpadapter.New(engine, logger)
	mcpHTTP := mcpServer.HTTPHandler("mcp")

	go func() {
		addr := fmt.Sprintf(":%d", cfg.Port+1)
		logger.Info("hsgd: mcp server listening", zap.String("addr", addr))
		if err := mcpHTTP.Start(addr); err != nil {
			logger.Error("hsgd: mcp server stopped", zap.Error(err))
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Port)
		logger.Info("hsgd: http server listening", zap.String("addr", addr))
		errCh <- app.Listen(addr)
	}()

	select {
	case <-ctx.Done():
		logger.Info("hsgd: shutdown signal received")
	case err := <-errCh:
		if err != nil {
			logger.Error("hsgd: http server failed", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Warn("hsgd: http shutdown did not complete cleanly", zap.Error(err))
	}
	// mcpHTTP has no graceful-drain hook in this transport (mirrors the
	// teacher's own MCPServer.Start, which never stops its http.Server
	// either); it goes down with the process.
	return nil
}

func newLogger() (*zap.Logger, error) {
	if os.Getenv("ENV") == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func newMetadataStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (metadata.Store, error) {
	switch cfg.MetadataBackend {
	case config.MetadataBackendPostgres:
		return metadata.NewPostgres(ctx, cfg.DatabaseURL, logger)
	default:
		return metadata.NewSQLite(ctx, cfg.DBPath, logger)
	}
}

func newVectorStore(cfg *config.Config, logger *zap.Logger) (vector.Store, error) {
	if cfg.VectorBackend != config.VectorBackendExternal {
		return vector.NewInProc(), nil
	}
	switch cfg.ExternalVectorKind {
	case config.ExternalVectorPinecone:
		return vector.NewPinecone(cfg.PineconeAPIKey, cfg.PineconeIndexHost, logger)
	default:
		return vector.NewUpstash(cfg.UpstashVectorURL, cfg.UpstashVectorToken, logger), nil
	}
}
