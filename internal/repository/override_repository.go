package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/suavebarber/booking-core/internal/model"
)

// Хранилище дата-специфичных исключений. Исключения существуют только
// как отклонение от дефолта: совпавшие с дефолтом записи удаляются
// на уровне сервиса (collapse-to-default), здесь — только CRUD.
type OverrideRepository interface {
	// Исключение присутствия барбера на дату; nil — исключения нет.
	GetBarberPresence(ctx context.Context, barberID uuid.UUID, date string) (*model.BarberPresenceOverride, error)
	// Все исключения присутствия на дату.
	ListBarberPresence(ctx context.Context, date string) ([]model.BarberPresenceOverride, error)
	// Создать или обновить исключение присутствия.
	UpsertBarberPresence(ctx context.Context, o *model.BarberPresenceOverride) error
	// Удалить исключение присутствия; отсутствие записи — не ошибка.
	DeleteBarberPresence(ctx context.Context, barberID uuid.UUID, date string) error

	// Исключение доступности слота на дату; nil — исключения нет.
	GetSlotAvailability(ctx context.Context, slotID uuid.UUID, date string) (*model.TimeSlotAvailabilityOverride, error)
	// Все исключения доступности на дату для заданных слотов.
	ListSlotAvailability(ctx context.Context, slotIDs []uuid.UUID, date string) ([]model.TimeSlotAvailabilityOverride, error)
	// Создать или обновить исключение доступности.
	UpsertSlotAvailability(ctx context.Context, o *model.TimeSlotAvailabilityOverride) error
	// Удалить исключение доступности; отсутствие записи — не ошибка.
	DeleteSlotAvailability(ctx context.Context, slotID uuid.UUID, date string) error
}

type GormOverrideRepository struct {
	db *gorm.DB
}

func NewGormOverrideRepository(db *gorm.DB) *GormOverrideRepository {
	return &GormOverrideRepository{db: db}
}

func (r *GormOverrideRepository) GetBarberPresence(
	ctx context.Context,
	barberID uuid.UUID,
	date string,
) (*model.BarberPresenceOverride, error) {
	var o model.BarberPresenceOverride
	err := r.db.WithContext(ctx).
		First(&o, "barber_id = ? AND date = ?", barberID, date).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *GormOverrideRepository) ListBarberPresence(
	ctx context.Context,
	date string,
) ([]model.BarberPresenceOverride, error) {
	var overrides []model.BarberPresenceOverride
	err := r.db.WithContext(ctx).
		Where("date = ?", date).
		Find(&overrides).Error
	if err != nil {
		return nil, err
	}
	return overrides, nil
}

func (r *GormOverrideRepository) UpsertBarberPresence(
	ctx context.Context,
	o *model.BarberPresenceOverride,
) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "barber_id"}, {Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{"present"}),
		}).
		Create(o).Error
}

func (r *GormOverrideRepository) DeleteBarberPresence(
	ctx context.Context,
	barberID uuid.UUID,
	date string,
) error {
	return r.db.WithContext(ctx).
		Delete(&model.BarberPresenceOverride{}, "barber_id = ? AND date = ?", barberID, date).
		Error
}

func (r *GormOverrideRepository) GetSlotAvailability(
	ctx context.Context,
	slotID uuid.UUID,
	date string,
) (*model.TimeSlotAvailabilityOverride, error) {
	var o model.TimeSlotAvailabilityOverride
	err := r.db.WithContext(ctx).
		First(&o, "time_slot_id = ? AND date = ?", slotID, date).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *GormOverrideRepository) ListSlotAvailability(
	ctx context.Context,
	slotIDs []uuid.UUID,
	date string,
) ([]model.TimeSlotAvailabilityOverride, error) {
	if len(slotIDs) == 0 {
		return nil, nil
	}
	var overrides []model.TimeSlotAvailabilityOverride
	err := r.db.WithContext(ctx).
		Where("time_slot_id IN ? AND date = ?", slotIDs, date).
		Find(&overrides).Error
	if err != nil {
		return nil, err
	}
	return overrides, nil
}

func (r *GormOverrideRepository) UpsertSlotAvailability(
	ctx context.Context,
	o *model.TimeSlotAvailabilityOverride,
) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "time_slot_id"}, {Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{"available"}),
		}).
		Create(o).Error
}

func (r *GormOverrideRepository) DeleteSlotAvailability(
	ctx context.Context,
	slotID uuid.UUID,
	date string,
) error {
	return r.db.WithContext(ctx).
		Delete(&model.TimeSlotAvailabilityOverride{}, "time_slot_id = ? AND date = ?", slotID, date).
		Error
}
