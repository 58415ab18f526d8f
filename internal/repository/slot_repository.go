package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/suavebarber/booking-core/internal/model"
)

type SlotRepository interface {
	// Создать слот.
	Create(ctx context.Context, slot *model.TimeSlot) error
	// Найти слот по ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.TimeSlot, error)
	// Все слоты барбера.
	ListByBarber(ctx context.Context, barberID uuid.UUID) ([]model.TimeSlot, error)
	// Слот барбера с данной меткой времени; (barber_id, time) уникальна.
	GetByBarberAndTime(ctx context.Context, barberID uuid.UUID, label string) (*model.TimeSlot, error)
	// Сменить метку времени слота.
	UpdateTime(ctx context.Context, id uuid.UUID, label string) error
	// Сменить дефолтную доступность слота.
	UpdateAvailability(ctx context.Context, id uuid.UUID, available bool) error
	// Удалить слот.
	Delete(ctx context.Context, id uuid.UUID) error
}

type GormSlotRepository struct {
	db *gorm.DB
}

func NewGormSlotRepository(db *gorm.DB) *GormSlotRepository {
	return &GormSlotRepository{db: db}
}

func (r *GormSlotRepository) Create(ctx context.Context, slot *model.TimeSlot) error {
	return r.db.WithContext(ctx).Create(slot).Error
}

func (r *GormSlotRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.TimeSlot, error) {
	var slot model.TimeSlot
	if err := r.db.WithContext(ctx).First(&slot, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &slot, nil
}

func (r *GormSlotRepository) ListByBarber(ctx context.Context, barberID uuid.UUID) ([]model.TimeSlot, error) {
	var slots []model.TimeSlot
	if err := r.db.WithContext(ctx).
		Where("barber_id = ?", barberID).
		Find(&slots).Error; err != nil {
		return nil, err
	}
	return slots, nil
}

func (r *GormSlotRepository) GetByBarberAndTime(
	ctx context.Context,
	barberID uuid.UUID,
	label string,
) (*model.TimeSlot, error) {
	var slot model.TimeSlot
	if err := r.db.WithContext(ctx).
		First(&slot, "barber_id = ? AND time = ?", barberID, label).Error; err != nil {
		return nil, err
	}
	return &slot, nil
}

func (r *GormSlotRepository) UpdateTime(ctx context.Context, id uuid.UUID, label string) error {
	return r.db.WithContext(ctx).
		Model(&model.TimeSlot{}).
		Where("id = ?", id).
		Update("time", label).
		Error
}

func (r *GormSlotRepository) UpdateAvailability(ctx context.Context, id uuid.UUID, available bool) error {
	return r.db.WithContext(ctx).
		Model(&model.TimeSlot{}).
		Where("id = ?", id).
		Update("available", available).
		Error
}

func (r *GormSlotRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.TimeSlot{}, "id = ?", id).Error
}
