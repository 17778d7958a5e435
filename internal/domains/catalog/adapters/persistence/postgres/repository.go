package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shopmesh/shopmesh/internal/domains/catalog/domain"
	"github.com/shopmesh/shopmesh/internal/domains/catalog/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists products in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	repo := &Repository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&productRecord{})
	}
	return repo
}

// productRecord maps the product to a relational table. Image URLs use a
// native text[] column; attributes ride along as JSON.
type productRecord struct {
	ID            int64             `gorm:"primaryKey;autoIncrement;column:id"`
	Name          string            `gorm:"column:name;index"`
	Description   string            `gorm:"column:description"`
	Price         float64           `gorm:"column:price"`
	StockQuantity int               `gorm:"column:stock_quantity"`
	Category      string            `gorm:"column:category;type:varchar(64);index"`
	ImageURLs     pq.StringArray    `gorm:"column:image_urls;type:text[]"`
	Attributes    map[string]string `gorm:"column:attributes;serializer:json"`
	CreatedAt     time.Time         `gorm:"column:created_at"`
	UpdatedAt     time.Time         `gorm:"column:updated_at"`
}

func (productRecord) TableName() string { return "products" }

// Save inserts or updates a product. New products receive their id from the
// sequence.
func (r *Repository) Save(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if product == nil {
		return nil, errors.New("product is nil")
	}
	record := toRecord(product)
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"name":           record.Name,
				"description":    record.Description,
				"price":          record.Price,
				"stock_quantity": record.StockQuantity,
				"category":       record.Category,
				"image_urls":     record.ImageURLs,
				"attributes":     record.Attributes,
				"updated_at":     gorm.Expr("NOW()"),
			}),
		}).Create(&record).Error; err != nil {
		return nil, err
	}
	return r.GetByID(ctx, record.ID)
}

// GetByID fetches a product by identifier.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record productRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// GetByIDs fetches the products that exist; missing ids are skipped.
func (r *Repository) GetByIDs(ctx context.Context, ids []int64) ([]*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []*domain.Product{}, nil
	}
	var records []productRecord
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&records).Error; err != nil {
		return nil, err
	}
	return toDomainSlice(records), nil
}

// List returns the catalog, optionally filtered by category, ordered by id.
func (r *Repository) List(ctx context.Context, category string) ([]*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	query := r.db.WithContext(ctx)
	if category != "" {
		query = query.Where("category = ?", category)
	}
	var records []productRecord
	if err := query.Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	return toDomainSlice(records), nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres product repository not configured")
	}
	return nil
}

func toRecord(product *domain.Product) productRecord {
	return productRecord{
		ID:            product.ID,
		Name:          product.Name,
		Description:   product.Description,
		Price:         product.Price,
		StockQuantity: product.Stock,
		Category:      product.Category,
		ImageURLs:     pq.StringArray(product.ImageURLs),
		Attributes:    product.Attributes,
		CreatedAt:     product.CreatedAt,
		UpdatedAt:     product.UpdatedAt,
	}
}

func toDomainSlice(records []productRecord) []*domain.Product {
	products := make([]*domain.Product, 0, len(records))
	for _, record := range records {
		products = append(products, record.toDomain())
	}
	return products
}

func (r productRecord) toDomain() *domain.Product {
	return &domain.Product{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Stock:       r.StockQuantity,
		Category:    r.Category,
		ImageURLs:   []string(r.ImageURLs),
		Attributes:  r.Attributes,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}
