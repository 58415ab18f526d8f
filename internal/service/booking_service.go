package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/suavebarber/booking-core/internal/model"
	"github.com/suavebarber/booking-core/internal/repository"
	"github.com/suavebarber/booking-core/internal/schedule"
)

// Notifier — приёмник событий жизненного цикла. Вызывается после
// коммита перехода; реализация обязана быть best-effort.
type Notifier interface {
	BookingCreated(ctx context.Context, b *model.Booking)
	BookingConfirmed(ctx context.Context, b *model.Booking)
	BookingCancelled(ctx context.Context, b *model.Booking, actor model.CancelActor)
	BookingCompleted(ctx context.Context, b *model.Booking)
}

// BookingService — журнал бронирований: создание с проверкой квоты и
// конфликтов, переходы статусов по таблице переходов, перенос, walk-in.
//
// Гонка двух бронирований одного слота закрывается не проверкой
// "прочитал-записал", а частичным уникальным индексом на
// (barber_id, time_slot_id, booking_date): проигравшая вставка
// получает ErrSlotConflict из нарушения индекса.
type BookingService struct {
	db           *gorm.DB
	bookings     repository.BookingRepository
	availability *AvailabilityService
	notifier     Notifier
}

func NewBookingService(
	db *gorm.DB,
	bookings repository.BookingRepository,
	availability *AvailabilityService,
	notifier Notifier,
) *BookingService {
	return &BookingService{
		db:           db,
		bookings:     bookings,
		availability: availability,
		notifier:     notifier,
	}
}

type CreateBookingInput struct {
	UserID        uuid.UUID
	BarberID      uuid.UUID
	TimeSlotID    uuid.UUID
	Date          string
	Service       string
	PaymentMethod string
	PaymentRef    string
}

// Create — онлайн-бронирование: валидация, проверка открытости слота
// через резолвер, затем квота + конфликт + вставка одной транзакцией.
func (s *BookingService) Create(ctx context.Context, in CreateBookingInput) (*model.Booking, error) {
	if in.Service == "" || in.PaymentMethod == "" {
		return nil, fmt.Errorf("%w: service and payment method are required", ErrValidation)
	}
	// Для безналичной оплаты обязателен референс платежа.
	if in.PaymentMethod != "cash" && in.PaymentRef == "" {
		return nil, fmt.Errorf("%w: reference number is required for non-cash payments", ErrValidation)
	}

	date, err := schedule.NormalizeDate(in.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	if err := s.availability.SlotOpen(ctx, in.BarberID, in.TimeSlotID, date, uuid.Nil); err != nil {
		return nil, err
	}

	booking := &model.Booking{
		ID:            uuid.New(),
		UserID:        in.UserID,
		BarberID:      in.BarberID,
		TimeSlotID:    in.TimeSlotID,
		BookingDate:   date,
		Service:       in.Service,
		PaymentMethod: in.PaymentMethod,
		PaymentRef:    in.PaymentRef,
		Status:        model.BookingStatusPending,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		bookings := repository.NewGormBookingRepository(tx)

		count, err := bookings.CountActiveByUser(ctx, in.UserID)
		if err != nil {
			return err
		}
		if count >= MaxActiveBookings {
			return fmt.Errorf("%w: maximum of %d active bookings reached", ErrQuotaExceeded, MaxActiveBookings)
		}

		// Ранний дружелюбный отказ; настоящая защита — индекс ниже.
		existing, err := bookings.FindActiveBySlot(ctx, in.BarberID, in.TimeSlotID, date, uuid.Nil)
		if err != nil {
			return err
		}
		if existing != nil {
			return fmt.Errorf("%w: barber is already booked at that time on this date", ErrSlotConflict)
		}

		if err := bookings.Create(ctx, booking); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("%w: barber is already booked at that time on this date", ErrSlotConflict)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.BookingCreated(ctx, booking)
	return booking, nil
}

// Confirm — админ подтверждает бронирование.
func (s *BookingService) Confirm(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	booking, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !booking.Status.CanTransitionTo(model.BookingStatusConfirmed) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrForbiddenTransition, booking.Status, model.BookingStatusConfirmed)
	}

	err = s.bookings.UpdateFields(ctx, id, map[string]any{
		"status":             model.BookingStatusConfirmed,
		"confirmed_by_admin": true,
	})
	if err != nil {
		return nil, err
	}
	booking.Status = model.BookingStatusConfirmed
	booking.ConfirmedByAdmin = true

	s.notifier.BookingConfirmed(ctx, booking)
	return booking, nil
}

// Cancel — отмена бронирования. actorUserID нужен только для
// actor == USER: пользователь может отменить лишь своё бронирование.
func (s *BookingService) Cancel(
	ctx context.Context,
	id uuid.UUID,
	actor model.CancelActor,
	actorUserID uuid.UUID,
) (*model.Booking, error) {
	booking, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor == model.CancelledByUser && booking.UserID != actorUserID {
		return nil, fmt.Errorf("%w: booking belongs to another user", ErrForbiddenTransition)
	}
	if !booking.Status.CanTransitionTo(model.BookingStatusCancelled) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrForbiddenTransition, booking.Status, model.BookingStatusCancelled)
	}

	err = s.bookings.UpdateFields(ctx, id, map[string]any{
		"status":       model.BookingStatusCancelled,
		"cancelled_by": actor,
	})
	if err != nil {
		return nil, err
	}
	booking.Status = model.BookingStatusCancelled
	booking.CancelledBy = actor

	s.notifier.BookingCancelled(ctx, booking, actor)
	return booking, nil
}

// MarkDone — бронирование выполнено.
func (s *BookingService) MarkDone(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	booking, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !booking.Status.CanTransitionTo(model.BookingStatusDone) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrForbiddenTransition, booking.Status, model.BookingStatusDone)
	}

	if err := s.bookings.UpdateFields(ctx, id, map[string]any{
		"status": model.BookingStatusDone,
	}); err != nil {
		return nil, err
	}
	booking.Status = model.BookingStatusDone

	s.notifier.BookingCompleted(ctx, booking)
	return booking, nil
}

// Reschedule — перенос на новую тройку (барбер, слот, дата). Логически
// это отмена + создание, но выполняется мутацией на месте, чтобы
// сохранить идентичность бронирования; статус сбрасывается в Pending.
// Новый слот проверяется резолвером так, как если бы старого
// бронирования не существовало.
func (s *BookingService) Reschedule(
	ctx context.Context,
	id uuid.UUID,
	newBarberID, newSlotID uuid.UUID,
	newDate string,
) (*model.Booking, error) {
	booking, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking.Status.Terminal() {
		return nil, fmt.Errorf("%w: cannot reschedule a %s booking", ErrForbiddenTransition, booking.Status)
	}

	date, err := schedule.NormalizeDate(newDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	if err := s.availability.SlotOpen(ctx, newBarberID, newSlotID, date, booking.ID); err != nil {
		return nil, err
	}

	err = s.bookings.UpdateFields(ctx, id, map[string]any{
		"barber_id":          newBarberID,
		"time_slot_id":       newSlotID,
		"booking_date":       date,
		"status":             model.BookingStatusPending,
		"confirmed_by_admin": false,
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: barber is already booked at that time on this date", ErrSlotConflict)
		}
		return nil, err
	}

	booking.BarberID = newBarberID
	booking.TimeSlotID = newSlotID
	booking.BookingDate = date
	booking.Status = model.BookingStatusPending
	booking.ConfirmedByAdmin = false

	// Перенос заново входит в очередь на подтверждение.
	s.notifier.BookingCreated(ctx, booking)
	return booking, nil
}

type WalkInInput struct {
	CustomerName string
	Service      string
	BarberID     uuid.UUID
	TimeSlotID   uuid.UUID
	Date         string
}

// AddWalkIn — административная запись клиента "с улицы": синтетический
// пользователь и бронирование, рождающееся сразу подтверждённым.
// Квота онлайн-бронирований не применяется, конфликт слота — применяется.
func (s *BookingService) AddWalkIn(ctx context.Context, in WalkInInput) (*model.Booking, error) {
	if strings.TrimSpace(in.CustomerName) == "" || in.Service == "" {
		return nil, fmt.Errorf("%w: customer name and service are required", ErrValidation)
	}

	date, err := schedule.NormalizeDate(in.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	if err := s.availability.SlotOpen(ctx, in.BarberID, in.TimeSlotID, date, uuid.Nil); err != nil {
		return nil, err
	}

	// Одноразовый пароль: аккаунт синтетический, входить в него некому.
	hash, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		ID:           uuid.New(),
		Email:        fmt.Sprintf("walkin_%d_%s@temp.local", time.Now().UnixMilli(), uuid.NewString()[:8]),
		PasswordHash: string(hash),
		Role:         model.RoleUser,
		FullName:     strings.TrimSpace(in.CustomerName),
		IsWalkIn:     true,
	}

	booking := &model.Booking{
		ID:               uuid.New(),
		UserID:           user.ID,
		BarberID:         in.BarberID,
		TimeSlotID:       in.TimeSlotID,
		BookingDate:      date,
		Service:          in.Service,
		Status:           model.BookingStatusConfirmed,
		WalkIn:           true,
		ConfirmedByAdmin: true,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repository.NewGormUserRepository(tx).Create(ctx, user); err != nil {
			return err
		}
		if err := repository.NewGormBookingRepository(tx).Create(ctx, booking); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("%w: barber is already booked at that time on this date", ErrSlotConflict)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return booking, nil
}

// Квота пользователя по онлайн-бронированиям.
type BookingQuota struct {
	Count   int64
	Limit   int
	CanBook bool
}

// ActiveCount — текущее использование квоты пользователем.
func (s *BookingService) ActiveCount(ctx context.Context, userID uuid.UUID) (BookingQuota, error) {
	count, err := s.bookings.CountActiveByUser(ctx, userID)
	if err != nil {
		return BookingQuota{}, err
	}
	return BookingQuota{
		Count:   count,
		Limit:   MaxActiveBookings,
		CanBook: count < MaxActiveBookings,
	}, nil
}

// ListActive — нетерминальные бронирования пользователя.
func (s *BookingService) ListActive(ctx context.Context, userID uuid.UUID) ([]model.Booking, error) {
	return s.bookings.ListActiveByUser(ctx, userID)
}

// ListHistory — завершённые и отменённые бронирования пользователя.
func (s *BookingService) ListHistory(ctx context.Context, userID uuid.UUID) ([]model.Booking, error) {
	return s.bookings.ListHistoryByUser(ctx, userID)
}

// ListAll — админский список; пустой статус — только нетерминальные.
func (s *BookingService) ListAll(ctx context.Context, status model.BookingStatus) ([]model.Booking, error) {
	return s.bookings.ListAll(ctx, status)
}

func (s *BookingService) get(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: booking %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return booking, nil
}
