package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/suavebarber/booking-core/internal/model"
)

type BookingRepository interface {
	// Создать бронирование.
	Create(ctx context.Context, booking *model.Booking) error
	// Найти бронирование по ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Booking, error)
	// Частичное обновление полей бронирования.
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error
	// Количество нетерминальных бронирований пользователя.
	CountActiveByUser(ctx context.Context, userID uuid.UUID) (int64, error)
	// Нетерминальное бронирование на тройку (барбер, слот, дата);
	// nil — слот свободен. excludeID исключает само бронирование
	// при проверке переноса.
	FindActiveBySlot(ctx context.Context, barberID, slotID uuid.UUID, date string, excludeID uuid.UUID) (*model.Booking, error)
	// ID слотов барбера, занятых нетерминальными бронированиями на дату.
	ListBookedSlotIDs(ctx context.Context, barberID uuid.UUID, date string) ([]uuid.UUID, error)
	// Есть ли у барбера нетерминальные бронирования.
	ExistsActiveByBarber(ctx context.Context, barberID uuid.UUID) (bool, error)
	// Есть ли у слота нетерминальные бронирования.
	ExistsActiveBySlot(ctx context.Context, slotID uuid.UUID) (bool, error)
	// Нетерминальные бронирования пользователя.
	ListActiveByUser(ctx context.Context, userID uuid.UUID) ([]model.Booking, error)
	// Терминальные бронирования пользователя (история).
	ListHistoryByUser(ctx context.Context, userID uuid.UUID) ([]model.Booking, error)
	// Все бронирования; status == "" — только нетерминальные.
	ListAll(ctx context.Context, status model.BookingStatus) ([]model.Booking, error)
}

// Реализация на GORM.
type GormBookingRepository struct {
	db *gorm.DB
}

func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

func (r *GormBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	return r.db.WithContext(ctx).Create(booking).Error
}

func (r *GormBookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	var b model.Booking
	if err := r.db.WithContext(ctx).First(&b, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *GormBookingRepository) UpdateFields(
	ctx context.Context,
	id uuid.UUID,
	fields map[string]any,
) error {
	return r.db.WithContext(ctx).
		Model(&model.Booking{}).
		Where("id = ?", id).
		Updates(fields).
		Error
}

func (r *GormBookingRepository) CountActiveByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Booking{}).
		Where("user_id = ?", userID).
		Where("status IN ?", model.NonTerminalStatuses()).
		Count(&count).Error
	return count, err
}

func (r *GormBookingRepository) FindActiveBySlot(
	ctx context.Context,
	barberID, slotID uuid.UUID,
	date string,
	excludeID uuid.UUID,
) (*model.Booking, error) {
	q := r.db.WithContext(ctx).
		Where("barber_id = ? AND time_slot_id = ? AND booking_date = ?", barberID, slotID, date).
		Where("booking_date IS NOT NULL AND booking_date <> ''").
		Where("status IN ?", model.NonTerminalStatuses())
	if excludeID != uuid.Nil {
		q = q.Where("id <> ?", excludeID)
	}

	var b model.Booking
	err := q.First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *GormBookingRepository) ListBookedSlotIDs(
	ctx context.Context,
	barberID uuid.UUID,
	date string,
) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	// Строки с пустой датой никогда не блокируют конкретный день.
	err := r.db.WithContext(ctx).
		Model(&model.Booking{}).
		Where("barber_id = ? AND booking_date = ?", barberID, date).
		Where("booking_date IS NOT NULL AND booking_date <> ''").
		Where("status IN ?", model.NonTerminalStatuses()).
		Pluck("time_slot_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *GormBookingRepository) ExistsActiveByBarber(ctx context.Context, barberID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Booking{}).
		Where("barber_id = ?", barberID).
		Where("status IN ?", model.NonTerminalStatuses()).
		Count(&count).Error
	return count > 0, err
}

func (r *GormBookingRepository) ExistsActiveBySlot(ctx context.Context, slotID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Booking{}).
		Where("time_slot_id = ?", slotID).
		Where("status IN ?", model.NonTerminalStatuses()).
		Count(&count).Error
	return count > 0, err
}

func (r *GormBookingRepository) ListActiveByUser(ctx context.Context, userID uuid.UUID) ([]model.Booking, error) {
	var bookings []model.Booking
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("status IN ?", model.NonTerminalStatuses()).
		Order("booked_at DESC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *GormBookingRepository) ListHistoryByUser(ctx context.Context, userID uuid.UUID) ([]model.Booking, error) {
	var bookings []model.Booking
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("status NOT IN ?", model.NonTerminalStatuses()).
		Order("booked_at DESC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *GormBookingRepository) ListAll(
	ctx context.Context,
	status model.BookingStatus,
) ([]model.Booking, error) {
	q := r.db.WithContext(ctx).Model(&model.Booking{})
	if status != "" {
		q = q.Where("status = ?", status)
	} else {
		q = q.Where("status IN ?", model.NonTerminalStatuses())
	}

	var bookings []model.Booking
	if err := q.Order("booked_at DESC").Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}
