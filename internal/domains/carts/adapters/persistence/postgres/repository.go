package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shopmesh/shopmesh/internal/domains/carts/domain"
	"github.com/shopmesh/shopmesh/internal/domains/carts/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists carts in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	repo := &Repository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&cartRecord{}, &cartItemRecord{})
	}
	return repo
}

// cartRecord maps the cart aggregate to a relational table. One active cart
// per user.
type cartRecord struct {
	ID        uuid.UUID `gorm:"primaryKey;column:id;type:uuid"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;uniqueIndex"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (cartRecord) TableName() string { return "carts" }

type cartItemRecord struct {
	ID          int64     `gorm:"primaryKey;autoIncrement;column:id"`
	CartID      uuid.UUID `gorm:"column:cart_id;type:uuid;index"`
	ProductID   int64     `gorm:"column:product_id"`
	ProductName string    `gorm:"column:product_name"`
	UnitPrice   float64   `gorm:"column:unit_price"`
	Quantity    int       `gorm:"column:quantity"`
}

func (cartItemRecord) TableName() string { return "cart_items" }

// Save inserts or updates a cart and replaces its item rows.
func (r *Repository) Save(ctx context.Context, cart *domain.Cart) (*domain.Cart, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, errors.New("cart is nil")
	}
	record := toRecord(cart)
	items := toItemRecords(cart)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"updated_at": gorm.Expr("NOW()"),
			}),
		}).Create(&record).Error; err != nil {
			return err
		}
		if err := tx.Where("cart_id = ?", record.ID).Delete(&cartItemRecord{}).Error; err != nil {
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
	return r.GetByUser(ctx, cart.UserID)
}

// GetByUser fetches the user's cart with its items.
func (r *Repository) GetByUser(ctx context.Context, userID uuid.UUID) (*domain.Cart, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record cartRecord
	if err := r.db.WithContext(ctx).First(&record, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	var items []cartItemRecord
	if err := r.db.WithContext(ctx).Where("cart_id = ?", record.ID).Find(&items).Error; err != nil {
		return nil, err
	}
	return record.toDomain(items), nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres cart repository not configured")
	}
	return nil
}

func toRecord(cart *domain.Cart) cartRecord {
	return cartRecord{
		ID:        cart.ID,
		UserID:    cart.UserID,
		CreatedAt: cart.CreatedAt,
		UpdatedAt: cart.UpdatedAt,
	}
}

func toItemRecords(cart *domain.Cart) []cartItemRecord {
	items := make([]cartItemRecord, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, cartItemRecord{
			CartID:      cart.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
		})
	}
	return items
}

func (r cartRecord) toDomain(items []cartItemRecord) *domain.Cart {
	cart := &domain.Cart{
		ID:        r.ID,
		UserID:    r.UserID,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	for _, item := range items {
		cart.Items = append(cart.Items, domain.Item{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
		})
	}
	return cart
}
