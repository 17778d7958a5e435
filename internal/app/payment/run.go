// Package payment boots the payment service process.
package payment

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/shopmesh/shopmesh/internal/app/bootstrap"
	"github.com/shopmesh/shopmesh/internal/domains/payments/adapters/external/gateway"
	paymentshttp "github.com/shopmesh/shopmesh/internal/domains/payments/adapters/http"
	paymentsmemory "github.com/shopmesh/shopmesh/internal/domains/payments/adapters/memory"
	paymentsmessaging "github.com/shopmesh/shopmesh/internal/domains/payments/adapters/messaging"
	paymentspostgres "github.com/shopmesh/shopmesh/internal/domains/payments/adapters/persistence/postgres"
	paymentsapp "github.com/shopmesh/shopmesh/internal/domains/payments/application"
	paymentsports "github.com/shopmesh/shopmesh/internal/domains/payments/ports"
	platformobservability "github.com/shopmesh/shopmesh/internal/platform/observability"
	platformpostgres "github.com/shopmesh/shopmesh/internal/platform/postgres"
)

// Run boots the payment HTTP API and its event consumer.
func Run(ctx context.Context) error {
	const serviceName = "payment-service"
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}

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
	var repo paymentsports.Repository = paymentsmemory.NewRepository()
	if db != nil {
		repo = paymentspostgres.NewRepository(db)
	}

	broker, err := bootstrap.ConnectBroker(cfg.AMQPURL, logger)
	if err != nil {
		return fmt.Errorf("failed to connect to broker: %w", err)
	}
	defer broker.Close()

	provider := gateway.New(cfg.Gateway, logger)
	paymentService := paymentsapp.NewService(repo, provider, broker, logger)

	consumer := paymentsmessaging.NewConsumer(paymentService, logger)
	if err := consumer.Register(ctx, broker); err != nil {
		return fmt.Errorf("failed to register payment consumer: %w", err)
	}

	router := gin.New()
	router.Use(gin.Recovery(), otelgin.Middleware(serviceName))
	paymentshttp.NewHandler(paymentService).Register(router)

	addr := ":" + cfg.Port
	logger.Info("payment service listening", slog.String("addr", addr))
	if err := router.Run(addr); err != nil {
		logger.Error("payment service exited", slog.String("addr", addr), slog.String("error", err.Error()))
		return err
	}
	return nil
}
