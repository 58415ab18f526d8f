package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/suavebarber/booking-core/internal/model"
)

type NotificationRepository interface {
	// Записать уведомление.
	Create(ctx context.Context, n *model.Notification) error
	// Уведомления пользователя, свежие первыми.
	ListByUser(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]model.Notification, error)
	// Пометить уведомление пользователя прочитанным.
	MarkRead(ctx context.Context, id, userID uuid.UUID) error
	// Пометить все уведомления пользователя прочитанными.
	MarkAllRead(ctx context.Context, userID uuid.UUID) error
}

type GormNotificationRepository struct {
	db *gorm.DB
}

func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

func (r *GormNotificationRepository) Create(ctx context.Context, n *model.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *GormNotificationRepository) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
	unreadOnly bool,
) ([]model.Notification, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if unreadOnly {
		q = q.Where("is_read = ?", false)
	}

	var notifications []model.Notification
	if err := q.Order("created_at DESC").Find(&notifications).Error; err != nil {
		return nil, err
	}
	return notifications, nil
}

func (r *GormNotificationRepository) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true).
		Error
}

func (r *GormNotificationRepository) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).
		Error
}
