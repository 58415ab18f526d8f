package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/suavebarber/booking-core/internal/model"
	"github.com/suavebarber/booking-core/internal/repository"
	"github.com/suavebarber/booking-core/internal/schedule"
)

// AvailabilityService отвечает на вопрос "какие слоты барбера реально
// бронируемы на дату": дефолты каталога + дата-специфичные исключения
// минус занятые нетерминальными бронированиями слоты. Результат не
// кэшируется — бронирования и исключения меняются конкурентно.
type AvailabilityService struct {
	barbers   repository.BarberRepository
	slots     repository.SlotRepository
	overrides repository.OverrideRepository
	bookings  repository.BookingRepository
}

func NewAvailabilityService(
	barbers repository.BarberRepository,
	slots repository.SlotRepository,
	overrides repository.OverrideRepository,
	bookings repository.BookingRepository,
) *AvailabilityService {
	return &AvailabilityService{
		barbers:   barbers,
		slots:     slots,
		overrides: overrides,
		bookings:  bookings,
	}
}

// AvailableSlots — бронируемые слоты барбера на дату,
// отсортированные по времени дня.
func (s *AvailabilityService) AvailableSlots(
	ctx context.Context,
	barberID uuid.UUID,
	date string,
) ([]model.TimeSlot, error) {
	date, err := schedule.NormalizeDate(date)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	barber, err := s.barbers.GetByID(ctx, barberID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: barber %s", ErrNotFound, barberID)
	}
	if err != nil {
		return nil, err
	}

	present, err := s.effectivePresence(ctx, barber, date)
	if err != nil {
		return nil, err
	}
	if !present {
		return []model.TimeSlot{}, nil
	}

	all, err := s.slots.ListByBarber(ctx, barberID)
	if err != nil {
		return nil, err
	}

	// Область действия слота: без valid_from — всегда,
	// иначе с valid_from и далее.
	candidates := make([]model.TimeSlot, 0, len(all))
	ids := make([]uuid.UUID, 0, len(all))
	for _, slot := range all {
		if slot.AdmitsDate(date) {
			candidates = append(candidates, slot)
			ids = append(ids, slot.ID)
		}
	}

	slotOverrides, err := s.overrides.ListSlotAvailability(ctx, ids, date)
	if err != nil {
		return nil, err
	}
	overrideByID := make(map[uuid.UUID]bool, len(slotOverrides))
	for _, o := range slotOverrides {
		overrideByID[o.TimeSlotID] = o.Available
	}

	bookedIDs, err := s.bookings.ListBookedSlotIDs(ctx, barberID, date)
	if err != nil {
		return nil, err
	}
	booked := make(map[uuid.UUID]bool, len(bookedIDs))
	for _, id := range bookedIDs {
		booked[id] = true
	}

	result := make([]model.TimeSlot, 0, len(candidates))
	for _, slot := range candidates {
		var ovr *bool
		if v, ok := overrideByID[slot.ID]; ok {
			ovr = &v
		}
		if !schedule.Effective(ovr, slot.Available) {
			continue
		}
		if booked[slot.ID] {
			continue
		}
		result = append(result, slot)
	}

	sort.Slice(result, func(i, j int) bool {
		return schedule.LessTime(result[i].Time, result[j].Time)
	})

	return result, nil
}

// SlotOpen проверяет, открыт ли конкретный слот барбера на дату,
// не считая бронирование excludeBookingID (для переноса). Возвращает
// ErrSlotConflict если слот занят, ErrValidation если закрыт расписанием.
func (s *AvailabilityService) SlotOpen(
	ctx context.Context,
	barberID, slotID uuid.UUID,
	date string,
	excludeBookingID uuid.UUID,
) error {
	barber, err := s.barbers.GetByID(ctx, barberID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: barber %s", ErrNotFound, barberID)
	}
	if err != nil {
		return err
	}

	slot, err := s.slots.GetByID(ctx, slotID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: timeslot %s", ErrNotFound, slotID)
	}
	if err != nil {
		return err
	}
	if slot.BarberID != barberID {
		return fmt.Errorf("%w: timeslot does not belong to barber", ErrValidation)
	}

	present, err := s.effectivePresence(ctx, barber, date)
	if err != nil {
		return err
	}
	if !present {
		return fmt.Errorf("%w: barber is not present on %s", ErrValidation, date)
	}

	if !slot.AdmitsDate(date) {
		return fmt.Errorf("%w: timeslot is not yet valid on %s", ErrValidation, date)
	}

	ovr, err := s.overrides.GetSlotAvailability(ctx, slotID, date)
	if err != nil {
		return err
	}
	var ovrVal *bool
	if ovr != nil {
		v := ovr.Available
		ovrVal = &v
	}
	if !schedule.Effective(ovrVal, slot.Available) {
		return fmt.Errorf("%w: timeslot is not available on %s", ErrValidation, date)
	}

	existing, err := s.bookings.FindActiveBySlot(ctx, barberID, slotID, date, excludeBookingID)
	if err != nil {
		return err
	}
	if existing != nil {
		return fmt.Errorf("%w: %s at %s", ErrSlotConflict, date, slot.Time)
	}

	return nil
}

// Барбер с эффективным присутствием на дату.
type EffectiveBarber struct {
	Barber  model.Barber
	Present bool
}

// EffectiveBarbers — все барберы с присутствием, разрешённым для даты.
// Пустая дата — чистые дефолты каталога.
func (s *AvailabilityService) EffectiveBarbers(ctx context.Context, date string) ([]EffectiveBarber, error) {
	barbers, err := s.barbers.List(ctx)
	if err != nil {
		return nil, err
	}

	presenceByBarber := map[uuid.UUID]bool{}
	if date != "" {
		date, err = schedule.NormalizeDate(date)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		overrides, err := s.overrides.ListBarberPresence(ctx, date)
		if err != nil {
			return nil, err
		}
		for _, o := range overrides {
			presenceByBarber[o.BarberID] = o.Present
		}
	}

	result := make([]EffectiveBarber, 0, len(barbers))
	for _, b := range barbers {
		var ovr *bool
		if v, ok := presenceByBarber[b.ID]; ok {
			ovr = &v
		}
		result = append(result, EffectiveBarber{
			Barber:  b,
			Present: schedule.Effective(ovr, b.Present),
		})
	}
	return result, nil
}

func (s *AvailabilityService) effectivePresence(
	ctx context.Context,
	barber *model.Barber,
	date string,
) (bool, error) {
	o, err := s.overrides.GetBarberPresence(ctx, barber.ID, date)
	if err != nil {
		return false, err
	}
	var ovr *bool
	if o != nil {
		v := o.Present
		ovr = &v
	}
	return schedule.Effective(ovr, barber.Present), nil
}
