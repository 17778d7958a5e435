package migrations

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Run applies the schema for all bounded contexts. Intended to replace
// adapter-level automigrate so every service binary shares one source of truth.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&orderRecord{},
		&orderItemRecord{},
		&paymentRecord{},
		&deliveryRecord{},
		&notificationRecord{},
		&cartRecord{},
		&cartItemRecord{},
		&productRecord{},
	)
}

// Order schema mirrors the orders Postgres adapter.
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

// Payment schema mirrors the payments Postgres adapter. One payment per order.
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

// Delivery schema mirrors the deliveries Postgres adapter.
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

// Notification schema mirrors the notifications Postgres adapter.
type notificationRecord struct {
	ID        uuid.UUID `gorm:"primaryKey;column:id;type:uuid"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;index:idx_notifications_user_read"`
	OrderID   uuid.UUID `gorm:"column:order_id;type:uuid"`
	Title     string    `gorm:"column:title"`
	Message   string    `gorm:"column:message"`
	Type      string    `gorm:"column:type;type:varchar(32)"`
	Read      bool      `gorm:"column:read;index:idx_notifications_user_read"`
	CreatedAt time.Time `gorm:"column:created_at;index"`
}

func (notificationRecord) TableName() string { return "notifications" }

// Cart schema mirrors the carts Postgres adapter. One active cart per user.
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

// Product schema mirrors the catalog Postgres adapter.
type productRecord struct {
	ID            int64             `gorm:"primaryKey;column:id"`
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
