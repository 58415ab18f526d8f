package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/suavebarber/booking-core/internal/model"
)

type BarberRepository interface {
	// Создать барбера.
	Create(ctx context.Context, barber *model.Barber) error
	// Найти барбера по ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Barber, error)
	// Все барберы по имени.
	List(ctx context.Context) ([]model.Barber, error)
	// Переименовать барбера.
	UpdateName(ctx context.Context, id uuid.UUID, name string) error
	// Сменить дефолтное присутствие.
	UpdatePresence(ctx context.Context, id uuid.UUID, present bool) error
	// Удалить барбера вместе со слотами.
	Delete(ctx context.Context, id uuid.UUID) error
}

// Реализация на GORM.
type GormBarberRepository struct {
	db *gorm.DB
}

func NewGormBarberRepository(db *gorm.DB) *GormBarberRepository {
	return &GormBarberRepository{db: db}
}

func (r *GormBarberRepository) Create(ctx context.Context, barber *model.Barber) error {
	return r.db.WithContext(ctx).Create(barber).Error
}

func (r *GormBarberRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Barber, error) {
	var b model.Barber
	if err := r.db.WithContext(ctx).First(&b, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *GormBarberRepository) List(ctx context.Context) ([]model.Barber, error) {
	var barbers []model.Barber
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&barbers).Error; err != nil {
		return nil, err
	}
	return barbers, nil
}

func (r *GormBarberRepository) UpdateName(ctx context.Context, id uuid.UUID, name string) error {
	return r.db.WithContext(ctx).
		Model(&model.Barber{}).
		Where("id = ?", id).
		Update("name", name).
		Error
}

func (r *GormBarberRepository) UpdatePresence(ctx context.Context, id uuid.UUID, present bool) error {
	return r.db.WithContext(ctx).
		Model(&model.Barber{}).
		Where("id = ?", id).
		Update("present", present).
		Error
}

func (r *GormBarberRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Barber{}, "id = ?", id).Error
}
