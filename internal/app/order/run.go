// Package order boots the order service process.
package order

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	catalogclient "github.com/shopmesh/shopmesh/internal/clients/http/catalog"
	ordershttp "github.com/shopmesh/shopmesh/internal/domains/orders/adapters/http"
	ordersmemory "github.com/shopmesh/shopmesh/internal/domains/orders/adapters/memory"
	ordersmessaging "github.com/shopmesh/shopmesh/internal/domains/orders/adapters/messaging"
	ordersobs "github.com/shopmesh/shopmesh/internal/domains/orders/adapters/observability"
	orderspostgres "github.com/shopmesh/shopmesh/internal/domains/orders/adapters/persistence/postgres"
	ordersapp "github.com/shopmesh/shopmesh/internal/domains/orders/application"
	ordersports "github.com/shopmesh/shopmesh/internal/domains/orders/ports"
	"github.com/shopmesh/shopmesh/internal/app/bootstrap"
	platformobservability "github.com/shopmesh/shopmesh/internal/platform/observability"
	platformpostgres "github.com/shopmesh/shopmesh/internal/platform/postgres"
)

// Run boots the order HTTP API and its event consumers.
func Run(ctx context.Context) error {
	const serviceName = "order-service"
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
	var repo ordersports.Repository = ordersmemory.NewRepository()
	if db != nil {
		repo = orderspostgres.NewRepository(db)
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

	coreService := ordersapp.NewService(repo, catalog.ForOrders(), broker, logger)
	orderService := ordersobs.New(
		coreService,
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)

	consumer := ordersmessaging.NewConsumer(orderService, broker, logger)
	if err := consumer.Register(ctx, broker); err != nil {
		return fmt.Errorf("failed to register order consumers: %w", err)
	}

	router := gin.New()
	router.Use(gin.Recovery(), otelgin.Middleware(serviceName))
	ordershttp.NewHandler(orderService).Register(router)

	addr := ":" + cfg.Port
	logger.Info("order service listening", slog.String("addr", addr))
	if err := router.Run(addr); err != nil {
		logger.Error("order service exited", slog.String("addr", addr), slog.String("error", err.Error()))
		return err
	}
	return nil
}
