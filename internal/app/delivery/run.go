// Package delivery boots the delivery service process.
package delivery

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/shopmesh/shopmesh/internal/app/bootstrap"
	deliverieshttp "github.com/shopmesh/shopmesh/internal/domains/deliveries/adapters/http"
	deliveriesmemory "github.com/shopmesh/shopmesh/internal/domains/deliveries/adapters/memory"
	deliveriesmessaging "github.com/shopmesh/shopmesh/internal/domains/deliveries/adapters/messaging"
	deliveriesobs "github.com/shopmesh/shopmesh/internal/domains/deliveries/adapters/observability"
	deliveriespostgres "github.com/shopmesh/shopmesh/internal/domains/deliveries/adapters/persistence/postgres"
	deliveriesapp "github.com/shopmesh/shopmesh/internal/domains/deliveries/application"
	deliveriesports "github.com/shopmesh/shopmesh/internal/domains/deliveries/ports"
	platformobservability "github.com/shopmesh/shopmesh/internal/platform/observability"
	platformpostgres "github.com/shopmesh/shopmesh/internal/platform/postgres"
)

// Run boots the delivery HTTP API and its event consumers.
func Run(ctx context.Context) error {
	const serviceName = "delivery-service"
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
	var repo deliveriesports.Repository = deliveriesmemory.NewRepository()
	if db != nil {
		repo = deliveriespostgres.NewRepository(db)
	}

	broker, err := bootstrap.ConnectBroker(cfg.AMQPURL, logger)
	if err != nil {
		return fmt.Errorf("failed to connect to broker: %w", err)
	}
	defer broker.Close()

	coreService := deliveriesapp.NewService(repo, broker, logger)
	deliveryService := deliveriesobs.New(
		coreService,
		deliveriesobs.WithLogger(logger),
		deliveriesobs.WithTracer(instruments.Tracer("internal.deliveries.application")),
		deliveriesobs.WithMeter(instruments.Meter("internal.deliveries.application")),
	)

	consumer := deliveriesmessaging.NewConsumer(deliveryService, logger)
	if err := consumer.Register(ctx, broker); err != nil {
		return fmt.Errorf("failed to register delivery consumers: %w", err)
	}

	router := gin.New()
	router.Use(gin.Recovery(), otelgin.Middleware(serviceName))
	deliverieshttp.NewHandler(deliveryService).Register(router)

	addr := ":" + cfg.Port
	logger.Info("delivery service listening", slog.String("addr", addr))
	if err := router.Run(addr); err != nil {
		logger.Error("delivery service exited", slog.String("addr", addr), slog.String("error", err.Error()))
		return err
	}
	return nil
}
