package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shopmesh/shopmesh/internal/domains/payments/domain"
	"github.com/shopmesh/shopmesh/internal/domains/payments/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists payments in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	repo := &Repository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&paymentRecord{})
	}
	return repo
}

// paymentRecord maps the payment aggregate to a relational table.
type paymentRecord struct {
	ID           uuid.UUID  `gorm:"primaryKey;column:id;type:uuid"`
	OrderID      uuid.UUID  `gorm:"column:order_id;type:uuid;uniqueIndex"`
	Amount       float64    `gorm:"column:amount"`
	Status       string     `gorm:"column:status;type:varchar(32);index"`
	ErrorMessage string     `gorm:"column:error_message"`
	CompletedAt  *time.Time `gorm:"column:completed_at"`
	FailedAt     *time.Time `gorm:"column:failed_at"`
	RefundedAt   *time.Time `gorm:"column:refunded_at"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	UpdatedAt    time.Time  `gorm:"column:updated_at"`
}

func (paymentRecord) TableName() string { return "payments" }

// Save inserts or updates a payment.
func (r *Repository) Save(ctx context.Context, payment *domain.Payment) (*domain.Payment, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, errors.New("payment is nil")
	}
	record := toRecord(payment)
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"status":        record.Status,
				"error_message": record.ErrorMessage,
				"completed_at":  record.CompletedAt,
				"failed_at":     record.FailedAt,
				"refunded_at":   record.RefundedAt,
				"updated_at":    gorm.Expr("NOW()"),
			}),
		}).Create(&record).Error; err != nil {
		return nil, err
	}
	return r.GetByID(ctx, record.ID)
}

// GetByID fetches a payment by identifier.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Payment, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record paymentRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// GetByOrderID fetches the payment attached to an order.
func (r *Repository) GetByOrderID(ctx context.Context, orderID uuid.UUID) (*domain.Payment, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record paymentRecord
	if err := r.db.WithContext(ctx).First(&record, "order_id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres payment repository not configured")
	}
	return nil
}

func toRecord(payment *domain.Payment) paymentRecord {
	return paymentRecord{
		ID:           payment.ID,
		OrderID:      payment.OrderID,
		Amount:       payment.Amount,
		Status:       string(payment.Status),
		ErrorMessage: payment.ErrorMessage,
		CompletedAt:  payment.CompletedAt,
		FailedAt:     payment.FailedAt,
		RefundedAt:   payment.RefundedAt,
		CreatedAt:    payment.CreatedAt,
		UpdatedAt:    payment.UpdatedAt,
	}
}

func (r paymentRecord) toDomain() *domain.Payment {
	return &domain.Payment{
		ID:           r.ID,
		OrderID:      r.OrderID,
		Amount:       r.Amount,
		Status:       domain.Status(r.Status),
		ErrorMessage: r.ErrorMessage,
		CompletedAt:  r.CompletedAt,
		FailedAt:     r.FailedAt,
		RefundedAt:   r.RefundedAt,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}
