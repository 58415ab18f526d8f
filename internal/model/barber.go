package model

import (
	"time"

	"github.com/google/uuid"
)

// barbers — бронируемый ресурс.
type Barber struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	Name string `gorm:"type:varchar(255);not null"`

	// Дефолтное присутствие. Дата-специфичные исключения
	// живут в barber_presence_overrides.
	Present bool `gorm:"not null;default:true"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`

	Slots []TimeSlot `gorm:"foreignKey:BarberID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// barber_presence_overrides — исключение присутствия на конкретную дату.
// Не больше одной записи на пару (barber_id, date); запись, совпадающая
// с дефолтом барбера, не хранится (collapse-to-default).
type BarberPresenceOverride struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	BarberID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uniq_barber_date,priority:1"`
	Date     string    `gorm:"type:varchar(10);not null;uniqueIndex:uniq_barber_date,priority:2"`

	Present bool `gorm:"not null"`

	CreatedAt time.Time `gorm:"not null"`

	Barber *Barber `gorm:"foreignKey:BarberID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}
