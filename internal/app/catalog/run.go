// Package catalog boots the catalog service process.
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	cataloghttp "github.com/shopmesh/shopmesh/internal/domains/catalog/adapters/http"
	catalogmemory "github.com/shopmesh/shopmesh/internal/domains/catalog/adapters/memory"
	catalogpostgres "github.com/shopmesh/shopmesh/internal/domains/catalog/adapters/persistence/postgres"
	catalogapp "github.com/shopmesh/shopmesh/internal/domains/catalog/application"
	catalogports "github.com/shopmesh/shopmesh/internal/domains/catalog/ports"
	platformobservability "github.com/shopmesh/shopmesh/internal/platform/observability"
	platformpostgres "github.com/shopmesh/shopmesh/internal/platform/postgres"
)

// Run boots the catalog HTTP API. The catalog publishes nothing and consumes
// nothing; it only answers queries from the other services.
func Run(ctx context.Context) error {
	const serviceName = "catalog-service"
	cfg := LoadConfig()

	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	db, cleanupDB := platformpostgres.ConnectFromEnv(ctx, logger)
	defer cleanupDB()
	var repo catalogports.Repository = catalogmemory.NewRepository()
	if db != nil {
		repo = catalogpostgres.NewRepository(db)
	}

	catalogService := catalogapp.NewService(repo, logger)

	router := gin.New()
	router.Use(gin.Recovery(), otelgin.Middleware(serviceName))
	cataloghttp.NewHandler(catalogService).Register(router)

	addr := ":" + cfg.Port
	logger.Info("catalog service listening", slog.String("addr", addr))
	if err := router.Run(addr); err != nil {
		logger.Error("catalog service exited", slog.String("addr", addr), slog.String("error", err.Error()))
		return err
	}
	return nil
}
