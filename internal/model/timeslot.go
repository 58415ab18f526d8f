package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// time_slots — именованное время дня, принадлежащее барберу.
type TimeSlot struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	BarberID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:uniq_barber_time,priority:1"`

	// Метка времени вида "09:00 AM".
	Time string `gorm:"type:varchar(16);not null;uniqueIndex:uniq_barber_time,priority:2"`

	// Слот действует начиная с этой даты; nil — действует всегда.
	ValidFrom *datatypes.Date `gorm:"type:date"`

	// Дефолтная доступность; дата-специфичные исключения
	// живут в time_slot_availability_overrides.
	Available bool `gorm:"not null;default:true"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`

	Barber *Barber `gorm:"foreignKey:BarberID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// AdmitsDate — входит ли дата (YYYY-MM-DD) в область действия слота.
// Слот, ограниченный будущей датой, невидим до неё и видим с неё и далее.
func (t *TimeSlot) AdmitsDate(date string) bool {
	if t.ValidFrom == nil {
		return true
	}
	from := time.Time(*t.ValidFrom).Format("2006-01-02")
	return from <= date
}

// time_slot_availability_overrides — исключение доступности слота на дату.
// Те же правила уникальности и collapse-to-default, что и у присутствия барбера.
type TimeSlotAvailabilityOverride struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	TimeSlotID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uniq_slot_date,priority:1"`
	Date       string    `gorm:"type:varchar(10);not null;uniqueIndex:uniq_slot_date,priority:2"`

	Available bool `gorm:"not null"`

	CreatedAt time.Time `gorm:"not null"`

	TimeSlot *TimeSlot `gorm:"foreignKey:TimeSlotID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}
