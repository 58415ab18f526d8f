package model

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "Pending"
	BookingStatusConfirmed BookingStatus = "Confirmed"
	BookingStatusDone      BookingStatus = "Done"
	BookingStatusCancelled BookingStatus = "Cancelled"
)

// Кто отменил бронирование.
type CancelActor string

const (
	CancelledByUser  CancelActor = "USER"
	CancelledByAdmin CancelActor = "ADMIN"
)

// Таблица переходов статусов — единственный источник истины для
// жизненного цикла бронирования. Done и Cancelled терминальны.
var bookingTransitions = map[BookingStatus]map[BookingStatus]bool{
	BookingStatusPending: {
		BookingStatusConfirmed: true,
		BookingStatusCancelled: true,
		BookingStatusDone:      true,
	},
	BookingStatusConfirmed: {
		BookingStatusCancelled: true,
		BookingStatusDone:      true,
	},
	BookingStatusDone:      {},
	BookingStatusCancelled: {},
}

// CanTransitionTo — допустим ли переход s -> next.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	return bookingTransitions[s][next]
}

// Terminal — терминальный ли статус. Нетерминальное бронирование
// продолжает занимать свой слот.
func (s BookingStatus) Terminal() bool {
	return s == BookingStatusDone || s == BookingStatusCancelled
}

// NonTerminalStatuses — для SQL-предикатов вида status IN (...).
func NonTerminalStatuses() []BookingStatus {
	return []BookingStatus{BookingStatusPending, BookingStatusConfirmed}
}

// bookings
//
// Частичный уникальный индекс uniq_active_slot на (barber_id, time_slot_id,
// booking_date) по нетерминальным статусам — точка сериализации для гонки
// двух одновременных бронирований одного слота. Пустая дата индексом не
// покрывается: такие строки никогда не блокируют реальные даты.
type Booking struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index"`

	BarberID   uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:uniq_active_slot,priority:1,where:(status = 'Pending' OR status = 'Confirmed') AND booking_date <> ''"`
	TimeSlotID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:uniq_active_slot,priority:2"`

	// Дата записи в формате YYYY-MM-DD.
	BookingDate string `gorm:"type:varchar(10);not null;uniqueIndex:uniq_active_slot,priority:3"`

	Service       string `gorm:"type:varchar(255);not null"`
	PaymentMethod string `gorm:"type:varchar(32)"`
	PaymentRef    string `gorm:"type:varchar(64)"`

	Status BookingStatus `gorm:"type:varchar(32);not null;default:'Pending';index"`

	WalkIn           bool        `gorm:"not null;default:false"`
	ConfirmedByAdmin bool        `gorm:"not null;default:false"`
	CancelledBy      CancelActor `gorm:"type:varchar(16)"`

	BookedAt  time.Time `gorm:"not null;autoCreateTime"`
	UpdatedAt time.Time `gorm:"not null"`

	User     *User     `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	Barber   *Barber   `gorm:"foreignKey:BarberID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	TimeSlot *TimeSlot `gorm:"foreignKey:TimeSlotID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}
