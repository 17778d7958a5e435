package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shopmesh/shopmesh/internal/domains/deliveries/domain"
	"github.com/shopmesh/shopmesh/internal/domains/deliveries/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists deliveries in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	repo := &Repository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&deliveryRecord{})
	}
	return repo
}

// deliveryRecord maps the delivery aggregate to a relational table.
type deliveryRecord struct {
	ID             uuid.UUID `gorm:"primaryKey;column:id;type:uuid"`
	OrderID        uuid.UUID `gorm:"column:order_id;type:uuid;uniqueIndex"`
	UserID         uuid.UUID `gorm:"column:user_id;type:uuid;index"`
	Address        string    `gorm:"column:address"`
	Status         string    `gorm:"column:status;type:varchar(32);index"`
	TrackingNumber string    `gorm:"column:tracking_number"`
	CreatedAt      time.Time `gorm:"column:created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at"`
}

func (deliveryRecord) TableName() string { return "deliveries" }

// Save inserts or updates a delivery.
func (r *Repository) Save(ctx context.Context, delivery *domain.Delivery) (*domain.Delivery, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if delivery == nil {
		return nil, errors.New("delivery is nil")
	}
	record := toRecord(delivery)
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"status":          record.Status,
				"tracking_number": record.TrackingNumber,
				"updated_at":      gorm.Expr("NOW()"),
			}),
		}).Create(&record).Error; err != nil {
		return nil, err
	}
	return r.GetByID(ctx, record.ID)
}

// GetByID fetches a delivery by identifier.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Delivery, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record deliveryRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// GetByOrderID fetches the delivery attached to an order.
func (r *Repository) GetByOrderID(ctx context.Context, orderID uuid.UUID) (*domain.Delivery, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record deliveryRecord
	if err := r.db.WithContext(ctx).First(&record, "order_id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// ListByUser returns the user's deliveries, newest first.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Delivery, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []deliveryRecord
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	deliveries := make([]*domain.Delivery, 0, len(records))
	for _, record := range records {
		deliveries = append(deliveries, record.toDomain())
	}
	return deliveries, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres delivery repository not configured")
	}
	return nil
}

func toRecord(delivery *domain.Delivery) deliveryRecord {
	return deliveryRecord{
		ID:             delivery.ID,
		OrderID:        delivery.OrderID,
		UserID:         delivery.UserID,
		Address:        delivery.Address,
		Status:         string(delivery.Status),
		TrackingNumber: delivery.TrackingNumber,
		CreatedAt:      delivery.CreatedAt,
		UpdatedAt:      delivery.UpdatedAt,
	}
}

func (r deliveryRecord) toDomain() *domain.Delivery {
	return &domain.Delivery{
		ID:             r.ID,
		OrderID:        r.OrderID,
		UserID:         r.UserID,
		Address:        r.Address,
		Status:         domain.Status(r.Status),
		TrackingNumber: r.TrackingNumber,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}
