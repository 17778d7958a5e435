// Package cart boots the cart service process.
package cart

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/shopmesh/shopmesh/internal/app/bootstrap"
	catalogclient "github.com/shopmesh/shopmesh/internal/clients/http/catalog"
	cartshttp "github.com/shopmesh/shopmesh/internal/domains/carts/adapters/http"
	cartsmemory "github.com/shopmesh/shopmesh/internal/domains/carts/adapters/memory"
	cartsmessaging "github.com/shopmesh/shopmesh/internal/domains/carts/adapters/messaging"
	cartspostgres "github.com/shopmesh/shopmesh/internal/domains/carts/adapters/persistence/postgres"
	cartsapp "github.com/shopmesh/shopmesh/internal/domains/carts/application"
	cartsports "github.com/shopmesh/shopmesh/internal/domains/carts/ports"
	platformobservability "github.com/shopmesh/shopmesh/internal/platform/observability"
	platformpostgres "github.com/shopmesh/shopmesh/internal/platform/postgres"
)

// Run boots the cart HTTP API and its checkout error consumer.
func Run(ctx context.Context) error {
	const serviceName = "cart-service"
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
	var repo cartsports.Repository = cartsmemory.NewRepository()
	if db != nil {
		repo = cartspostgres.NewRepository(db)
	}

	broker, err := bootstrap.ConnectBroker(cfg.AMQPURL, logger)
	if err != nil {
		return fmt.Errorf("failed to connect to broker: %w", err)
	}
	defer broker.Close()

	catalog, err := catalogclient.NewClient(cfg.CatalogURL, nil)
	if err != nil {
		return fmt.Errorf("failed to build catalog client: %w", err)
	}

	cartService := cartsapp.NewService(repo, catalog.ForCarts(), broker, logger)
	consumer := cartsmessaging.NewConsumer(logger)
	if err := consumer.Register(ctx, broker); err != nil {
		return fmt.Errorf("failed to register cart consumer: %w", err)
	}

	router := gin.New()
	router.Use(gin.Recovery(), otelgin.Middleware(serviceName))
	cartshttp.NewHandler(cartService).Register(router)

	addr := ":" + cfg.Port
	logger.Info("cart service listening", slog.String("addr", addr))
	if err := router.Run(addr); err != nil {
		logger.Error("cart service exited", slog.String("addr", addr), slog.String("error", err.Error()))
		return err
	}
	return nil
}
