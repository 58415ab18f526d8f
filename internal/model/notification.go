package model

import (
	"time"

	"github.com/google/uuid"
)

// Категория уведомления.
type NotificationType string

const (
	NotificationTypeInfo         NotificationType = "info"
	NotificationTypeBooking      NotificationType = "booking"
	NotificationTypeAdminBooking NotificationType = "admin-booking"
	NotificationTypeConfirmation NotificationType = "confirmation"
	NotificationTypeCancellation NotificationType = "cancellation"
	NotificationTypeCompletion   NotificationType = "completion"
)

// notifications — производный побочный эффект переходов бронирования,
// в логике резолвера не участвует.
type Notification struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index"`

	Message string           `gorm:"type:text;not null"`
	Type    NotificationType `gorm:"type:varchar(32);not null;default:'info'"`
	IsRead  bool             `gorm:"not null;default:false;index"`

	CreatedAt time.Time `gorm:"not null;index"`

	User *User `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}
