package observability

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	deliveriesdomain "github.com/shopmesh/shopmesh/internal/domains/deliveries/domain"
	deliveriesports "github.com/shopmesh/shopmesh/internal/domains/deliveries/ports"
)

const tracerName = "github.com/shopmesh/shopmesh/internal/domains/deliveries/adapters/observability/service"

// Service decorates the delivery service with tracing, logging, and metrics.
type Service struct {
	inner   deliveriesports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wraps the core delivery service.
func New(inner deliveriesports.Service, opts ...Option) deliveriesports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return s
}

func (s *Service) CreateDelivery(ctx context.Context, orderID, userID uuid.UUID, address string) (*deliveriesdomain.Delivery, error) {
	ctx, span := s.tracer.Start(ctx, "DeliveryService.CreateDelivery",
		trace.WithAttributes(
			attribute.String("order.id", orderID.String()),
			attribute.String("user.id", userID.String()),
		))
	defer span.End()

	result, err := s.inner.CreateDelivery(ctx, orderID, userID, address)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create delivery", slog.String("order.id", orderID.String()))
	}
	s.metrics.recordCreated(ctx)
	s.logInfo(ctx, "delivery created",
		slog.String("delivery.id", result.ID.String()), slog.String("order.id", orderID.String()))
	return result, nil
}

func (s *Service) UpdateStatus(ctx context.Context, deliveryID uuid.UUID, status deliveriesdomain.Status) (*deliveriesdomain.Delivery, error) {
	ctx, span := s.tracer.Start(ctx, "DeliveryService.UpdateStatus",
		trace.WithAttributes(
			attribute.String("delivery.id", deliveryID.String()),
			attribute.String("delivery.status", string(status)),
		))
	defer span.End()

	s.logInfo(ctx, "updating delivery status",
		slog.String("delivery.id", deliveryID.String()), slog.String("status", string(status)))
	result, err := s.inner.UpdateStatus(ctx, deliveryID, status)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update delivery status", slog.String("delivery.id", deliveryID.String()))
	}
	s.metrics.recordStatusChange(ctx, result.Status)
	return result, nil
}

func (s *Service) UpdateStatusByOrder(ctx context.Context, orderID uuid.UUID, status deliveriesdomain.Status) (*deliveriesdomain.Delivery, error) {
	ctx, span := s.tracer.Start(ctx, "DeliveryService.UpdateStatusByOrder",
		trace.WithAttributes(
			attribute.String("order.id", orderID.String()),
			attribute.String("delivery.status", string(status)),
		))
	defer span.End()

	result, err := s.inner.UpdateStatusByOrder(ctx, orderID, status)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update delivery status by order", slog.String("order.id", orderID.String()))
	}
	s.metrics.recordStatusChange(ctx, result.Status)
	return result, nil
}

func (s *Service) GetDelivery(ctx context.Context, deliveryID uuid.UUID) (*deliveriesdomain.Delivery, error) {
	ctx, span := s.tracer.Start(ctx, "DeliveryService.GetDelivery",
		trace.WithAttributes(attribute.String("delivery.id", deliveryID.String())))
	defer span.End()

	result, err := s.inner.GetDelivery(ctx, deliveryID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load delivery", slog.String("delivery.id", deliveryID.String()))
	}
	return result, nil
}

func (s *Service) GetByOrderID(ctx context.Context, orderID uuid.UUID) (*deliveriesdomain.Delivery, error) {
	ctx, span := s.tracer.Start(ctx, "DeliveryService.GetByOrderID",
		trace.WithAttributes(attribute.String("order.id", orderID.String())))
	defer span.End()

	result, err := s.inner.GetByOrderID(ctx, orderID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load delivery by order", slog.String("order.id", orderID.String()))
	}
	return result, nil
}

func (s *Service) ListUserDeliveries(ctx context.Context, userID uuid.UUID) ([]*deliveriesdomain.Delivery, error) {
	ctx, span := s.tracer.Start(ctx, "DeliveryService.ListUserDeliveries",
		trace.WithAttributes(attribute.String("user.id", userID.String())))
	defer span.End()

	result, err := s.inner.ListUserDeliveries(ctx, userID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list user deliveries", slog.String("user.id", userID.String()))
	}
	span.SetAttributes(attribute.Int("deliveries.count", len(result)))
	return result, nil
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

type serviceMetrics struct {
	deliveriesCreated metric.Int64Counter
	statusChanges     metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	deliveriesCreated, _ := m.Int64Counter("deliveries.service.created", metric.WithDescription("Number of deliveries created"))
	statusChanges, _ := m.Int64Counter("deliveries.service.status_changes", metric.WithDescription("Number of delivery status transitions"))
	return serviceMetrics{deliveriesCreated: deliveriesCreated, statusChanges: statusChanges}
}

func (m serviceMetrics) recordCreated(ctx context.Context) {
	if m.deliveriesCreated != nil {
		m.deliveriesCreated.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordStatusChange(ctx context.Context, status deliveriesdomain.Status) {
	if m.statusChanges != nil {
		m.statusChanges.Add(ctx, 1, metric.WithAttributes(attribute.String("delivery.status", string(status))))
	}
}

var _ deliveriesports.Service = (*Service)(nil)
