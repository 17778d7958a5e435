package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shopmesh/shopmesh/internal/domains/orders/domain"
	"github.com/shopmesh/shopmesh/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists orders in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	repo := &Repository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&orderRecord{}, &orderItemRecord{})
	}
	return repo
}

// orderRecord maps the order aggregate to a relational table.
type orderRecord struct {
	ID              uuid.UUID `gorm:"primaryKey;column:id;type:uuid"`
	UserID          uuid.UUID `gorm:"column:user_id;type:uuid;index"`
	DeliveryAddress string    `gorm:"column:delivery_address"`
	TotalPrice      float64   `gorm:"column:total_price"`
	Status          string    `gorm:"column:status;type:varchar(32);index"`
	CreatedAt       time.Time `gorm:"column:created_at;index"`
	UpdatedAt       time.Time `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

type orderItemRecord struct {
	ID          int64     `gorm:"primaryKey;autoIncrement;column:id"`
	OrderID     uuid.UUID `gorm:"column:order_id;type:uuid;index"`
	ProductID   int64     `gorm:"column:product_id"`
	ProductName string    `gorm:"column:product_name"`
	UnitPrice   float64   `gorm:"column:unit_price"`
	Quantity    int       `gorm:"column:quantity"`
}

func (orderItemRecord) TableName() string { return "order_items" }

// Save inserts or updates an order and replaces its item rows.
func (r *Repository) Save(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	record := toRecord(order)
	items := toItemRecords(order)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"delivery_address": record.DeliveryAddress,
				"total_price":      record.TotalPrice,
				"status":           record.Status,
				"updated_at":       gorm.Expr("NOW()"),
			}),
		}).Create(&record).Error; err != nil {
			return err
		}
		if err := tx.Where("order_id = ?", record.ID).Delete(&orderItemRecord{}).Error; err != nil {
			return err
		}
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, record.ID)
}

// GetByID fetches an order with its items.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record orderRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	var items []orderItemRecord
	if err := r.db.WithContext(ctx).Where("order_id = ?", id).Find(&items).Error; err != nil {
		return nil, err
	}
	return record.toDomain(items), nil
}

// ListByUser returns a user's orders, oldest first.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []orderRecord
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at").Find(&records).Error; err != nil {
		return nil, err
	}
	return r.attachItems(ctx, records)
}

// List returns all orders, oldest first.
func (r *Repository) List(ctx context.Context) ([]*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []orderRecord
	if err := r.db.WithContext(ctx).Order("created_at").Find(&records).Error; err != nil {
		return nil, err
	}
	return r.attachItems(ctx, records)
}

func (r *Repository) attachItems(ctx context.Context, records []orderRecord) ([]*domain.Order, error) {
	if len(records) == 0 {
		return []*domain.Order{}, nil
	}
	ids := make([]uuid.UUID, 0, len(records))
	for _, record := range records {
		ids = append(ids, record.ID)
	}
	var items []orderItemRecord
	if err := r.db.WithContext(ctx).Where("order_id IN ?", ids).Find(&items).Error; err != nil {
		return nil, err
	}
	byOrder := make(map[uuid.UUID][]orderItemRecord)
	for _, item := range items {
		byOrder[item.OrderID] = append(byOrder[item.OrderID], item)
	}
	orders := make([]*domain.Order, 0, len(records))
	for i := range records {
		orders = append(orders, records[i].toDomain(byOrder[records[i].ID]))
	}
	return orders, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres order repository not configured")
	}
	return nil
}

func toRecord(order *domain.Order) orderRecord {
	return orderRecord{
		ID:              order.ID,
		UserID:          order.UserID,
		DeliveryAddress: order.DeliveryAddress,
		TotalPrice:      order.TotalPrice,
		Status:          string(order.Status),
		CreatedAt:       order.CreatedAt,
		UpdatedAt:       order.UpdatedAt,
	}
}

func toItemRecords(order *domain.Order) []orderItemRecord {
	items := make([]orderItemRecord, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, orderItemRecord{
			OrderID:     order.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
		})
	}
	return items
}

func (r orderRecord) toDomain(items []orderItemRecord) *domain.Order {
	order := &domain.Order{
		ID:              r.ID,
		UserID:          r.UserID,
		DeliveryAddress: r.DeliveryAddress,
		TotalPrice:      r.TotalPrice,
		Status:          domain.Status(r.Status),
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
	for _, item := range items {
		order.Items = append(order.Items, domain.Item{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
		})
	}
	return order
}
