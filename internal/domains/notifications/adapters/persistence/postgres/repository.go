package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shopmesh/shopmesh/internal/domains/notifications/domain"
	"github.com/shopmesh/shopmesh/internal/domains/notifications/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists notifications in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	repo := &Repository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&notificationRecord{})
	}
	return repo
}

// notificationRecord maps the notification to a relational table. The
// composite index covers the unread-per-user query.
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

// Save inserts or updates a notification.
func (r *Repository) Save(ctx context.Context, notification *domain.Notification) (*domain.Notification, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if notification == nil {
		return nil, errors.New("notification is nil")
	}
	record := toRecord(notification)
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"read": record.Read,
			}),
		}).Create(&record).Error; err != nil {
		return nil, err
	}
	return r.GetByID(ctx, record.ID)
}

// GetByID fetches a notification by identifier.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Notification, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record notificationRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// ListByUser returns the user's notifications, newest first.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Notification, error) {
	return r.list(ctx, r.db.WithContext(ctx).Where("user_id = ?", userID))
}

// ListUnreadByUser returns the user's unread notifications, newest first.
func (r *Repository) ListUnreadByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Notification, error) {
	return r.list(ctx, r.db.WithContext(ctx).Where("user_id = ? AND read = ?", userID, false))
}

func (r *Repository) list(_ context.Context, query *gorm.DB) ([]*domain.Notification, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []notificationRecord
	if err := query.Order("created_at DESC").Find(&records).Error; err != nil {
		return nil, err
	}
	notifications := make([]*domain.Notification, 0, len(records))
	for _, record := range records {
		notifications = append(notifications, record.toDomain())
	}
	return notifications, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres notification repository not configured")
	}
	return nil
}

func toRecord(notification *domain.Notification) notificationRecord {
	return notificationRecord{
		ID:        notification.ID,
		UserID:    notification.UserID,
		OrderID:   notification.OrderID,
		Title:     notification.Title,
		Message:   notification.Message,
		Type:      string(notification.Type),
		Read:      notification.Read,
		CreatedAt: notification.CreatedAt,
	}
}

func (r notificationRecord) toDomain() *domain.Notification {
	return &domain.Notification{
		ID:        r.ID,
		UserID:    r.UserID,
		OrderID:   r.OrderID,
		Title:     r.Title,
		Message:   r.Message,
		Type:      domain.Type(r.Type),
		Read:      r.Read,
		CreatedAt: r.CreatedAt,
	}
}
