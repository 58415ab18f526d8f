package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/suavebarber/booking-core/internal/model"
	"github.com/suavebarber/booking-core/internal/repository"
	"github.com/suavebarber/booking-core/internal/schedule"
)

// ScheduleService — администрирование каталога (барберы, слоты) и
// хранилища дата-специфичных исключений.
//
// Политика collapse-to-default: исключение, совпавшее с дефолтом
// сущности, удаляется, а не записывается — исключения существуют
// только как отклонение от дефолта, и разрешение эффективного
// значения остаётся простым "override или дефолт".
type ScheduleService struct {
	barbers   repository.BarberRepository
	slots     repository.SlotRepository
	overrides repository.OverrideRepository
	bookings  repository.BookingRepository
}

func NewScheduleService(
	barbers repository.BarberRepository,
	slots repository.SlotRepository,
	overrides repository.OverrideRepository,
	bookings repository.BookingRepository,
) *ScheduleService {
	return &ScheduleService{
		barbers:   barbers,
		slots:     slots,
		overrides: overrides,
		bookings:  bookings,
	}
}

// SetBarberPresence — отметить барбера присутствующим/отсутствующим
// на конкретную дату.
func (s *ScheduleService) SetBarberPresence(
	ctx context.Context,
	barberID uuid.UUID,
	date string,
	present bool,
) error {
	date, err := schedule.NormalizeDate(date)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	barber, err := s.barbers.GetByID(ctx, barberID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: barber %s", ErrNotFound, barberID)
	}
	if err != nil {
		return err
	}

	if present == barber.Present {
		return s.overrides.DeleteBarberPresence(ctx, barberID, date)
	}
	return s.overrides.UpsertBarberPresence(ctx, &model.BarberPresenceOverride{
		ID:       uuid.New(),
		BarberID: barberID,
		Date:     date,
		Present:  present,
	})
}

// SetTimeslotAvailability — открыть/закрыть слот на конкретную дату.
func (s *ScheduleService) SetTimeslotAvailability(
	ctx context.Context,
	slotID uuid.UUID,
	date string,
	available bool,
) error {
	date, err := schedule.NormalizeDate(date)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	slot, err := s.slots.GetByID(ctx, slotID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: timeslot %s", ErrNotFound, slotID)
	}
	if err != nil {
		return err
	}

	if available == slot.Available {
		return s.overrides.DeleteSlotAvailability(ctx, slotID, date)
	}
	return s.overrides.UpsertSlotAvailability(ctx, &model.TimeSlotAvailabilityOverride{
		ID:         uuid.New(),
		TimeSlotID: slotID,
		Date:       date,
		Available:  available,
	})
}

// AddBarber — завести барбера в каталоге.
func (s *ScheduleService) AddBarber(ctx context.Context, name string) (*model.Barber, error) {
	name = strings.TrimSpace(name)
	if len(name) < 2 {
		return nil, fmt.Errorf("%w: name must be at least 2 characters long", ErrValidation)
	}

	barber := &model.Barber{
		ID:      uuid.New(),
		Name:    name,
		Present: true,
	}
	if err := s.barbers.Create(ctx, barber); err != nil {
		return nil, err
	}
	return barber, nil
}

// RenameBarber — сменить отображаемое имя.
func (s *ScheduleService) RenameBarber(ctx context.Context, id uuid.UUID, name string) error {
	name = strings.TrimSpace(name)
	if len(name) < 2 {
		return fmt.Errorf("%w: name must be at least 2 characters long", ErrValidation)
	}

	if _, err := s.barbers.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: barber %s", ErrNotFound, id)
		}
		return err
	}
	return s.barbers.UpdateName(ctx, id, name)
}

// SetBarberDefaultPresence — сменить дефолтное присутствие барбера.
func (s *ScheduleService) SetBarberDefaultPresence(ctx context.Context, id uuid.UUID, present bool) error {
	if _, err := s.barbers.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: barber %s", ErrNotFound, id)
		}
		return err
	}
	return s.barbers.UpdatePresence(ctx, id, present)
}

// DeleteBarber — удалить барбера. Отказ, пока на него ссылаются
// нетерминальные бронирования.
func (s *ScheduleService) DeleteBarber(ctx context.Context, id uuid.UUID) error {
	if _, err := s.barbers.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: barber %s", ErrNotFound, id)
		}
		return err
	}

	busy, err := s.bookings.ExistsActiveByBarber(ctx, id)
	if err != nil {
		return err
	}
	if busy {
		return fmt.Errorf("%w: barber has active bookings", ErrForbiddenTransition)
	}
	return s.barbers.Delete(ctx, id)
}

// AddTimeslot — новый слот барбера. validFrom опционален: пустая
// строка — слот действует всегда, иначе начиная с указанной даты.
func (s *ScheduleService) AddTimeslot(
	ctx context.Context,
	barberID uuid.UUID,
	label, validFrom string,
) (*model.TimeSlot, error) {
	label, err := schedule.NormalizeTimeLabel(label)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid time format, use format like '09:00 AM' or '02:30 PM'", ErrValidation)
	}

	if _, err := s.barbers.GetByID(ctx, barberID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: barber %s", ErrNotFound, barberID)
		}
		return nil, err
	}

	var from *datatypes.Date
	if validFrom != "" {
		normalized, err := schedule.NormalizeDate(validFrom)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		t, _ := time.Parse(schedule.DateLayout, normalized)
		d := datatypes.Date(t)
		from = &d
	}

	if existing, err := s.slots.GetByBarberAndTime(ctx, barberID, label); err == nil && existing != nil {
		return nil, fmt.Errorf("%w: this timeslot already exists for this barber", ErrValidation)
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	slot := &model.TimeSlot{
		ID:        uuid.New(),
		BarberID:  barberID,
		Time:      label,
		ValidFrom: from,
		Available: true,
	}
	if err := s.slots.Create(ctx, slot); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: this timeslot already exists for this barber", ErrValidation)
		}
		return nil, err
	}
	return slot, nil
}

// UpdateTimeslot — сменить метку времени слота.
func (s *ScheduleService) UpdateTimeslot(ctx context.Context, id uuid.UUID, label string) error {
	label, err := schedule.NormalizeTimeLabel(label)
	if err != nil {
		return fmt.Errorf("%w: invalid time format, use format like '09:00 AM' or '02:30 PM'", ErrValidation)
	}

	slot, err := s.slots.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: timeslot %s", ErrNotFound, id)
	}
	if err != nil {
		return err
	}

	if existing, err := s.slots.GetByBarberAndTime(ctx, slot.BarberID, label); err == nil && existing != nil && existing.ID != id {
		return fmt.Errorf("%w: this time already exists for this barber", ErrValidation)
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if err := s.slots.UpdateTime(ctx, id, label); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: this time already exists for this barber", ErrValidation)
		}
		return err
	}
	return nil
}

// SetTimeslotDefaultAvailability — сменить дефолтную доступность слота.
func (s *ScheduleService) SetTimeslotDefaultAvailability(ctx context.Context, id uuid.UUID, available bool) error {
	if _, err := s.slots.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: timeslot %s", ErrNotFound, id)
		}
		return err
	}
	return s.slots.UpdateAvailability(ctx, id, available)
}

// DeleteTimeslot — удалить слот. Отказ, пока на слот ссылаются
// нетерминальные бронирования.
func (s *ScheduleService) DeleteTimeslot(ctx context.Context, id uuid.UUID) error {
	if _, err := s.slots.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: timeslot %s", ErrNotFound, id)
		}
		return err
	}

	busy, err := s.bookings.ExistsActiveBySlot(ctx, id)
	if err != nil {
		return err
	}
	if busy {
		return fmt.Errorf("%w: cannot delete timeslot with active bookings", ErrForbiddenTransition)
	}
	return s.slots.Delete(ctx, id)
}
