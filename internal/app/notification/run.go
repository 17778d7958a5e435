// Package notification boots the notification service process.
package notification

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/shopmesh/shopmesh/internal/app/bootstrap"
	orderclient "github.com/shopmesh/shopmesh/internal/clients/http/order"
	notificationshttp "github.com/shopmesh/shopmesh/internal/domains/notifications/adapters/http"
	notificationsmemory "github.com/shopmesh/shopmesh/internal/domains/notifications/adapters/memory"
	notificationsmessaging "github.com/shopmesh/shopmesh/internal/domains/notifications/adapters/messaging"
	notificationspostgres "github.com/shopmesh/shopmesh/internal/domains/notifications/adapters/persistence/postgres"
	notificationsapp "github.com/shopmesh/shopmesh/internal/domains/notifications/application"
	notificationsports "github.com/shopmesh/shopmesh/internal/domains/notifications/ports"
	platformobservability "github.com/shopmesh/shopmesh/internal/platform/observability"
	platformpostgres "github.com/shopmesh/shopmesh/internal/platform/postgres"
)

// Run boots the notification HTTP API and its event fan-in.
func Run(ctx context.Context) error {
	const serviceName = "notification-service"
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
	var repo notificationsports.Repository = notificationsmemory.NewRepository()
	if db != nil {
		repo = notificationspostgres.NewRepository(db)
	}

	broker, err := bootstrap.ConnectBroker(cfg.AMQPURL, logger)
	if err != nil {
		return fmt.Errorf("failed to connect to broker: %w", err)
	}
	defer broker.Close()

	orders, err := orderclient.NewClient(cfg.OrderURL, nil)
	if err != nil {
		return fmt.Errorf("failed to build order client: %w", err)
	}

	notificationService := notificationsapp.NewService(repo, logger)
	consumer := notificationsmessaging.NewConsumer(notificationService, orders, logger)
	if err := consumer.Register(ctx, broker); err != nil {
		return fmt.Errorf("failed to register notification consumers: %w", err)
	}

	router := gin.New()
	router.Use(gin.Recovery(), otelgin.Middleware(serviceName))
	notificationshttp.NewHandler(notificationService).Register(router)

	addr := ":" + cfg.Port
	logger.Info("notification service listening", slog.String("addr", addr))
	if err := router.Run(addr); err != nil {
		logger.Error("notification service exited", slog.String("addr", addr), slog.String("error", err.Error()))
		return err
	}
	return nil
}
