package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/suavebarber/booking-core/internal/model"
)

func TestAvailableSlots_SortedByTimeOfDay(t *testing.T) {
	env := newTestEnv(t)
	barber := seedBarber(t, env.db, "Marco")

	// Намеренно вперемешку: лексикографический порядок дал бы
	// "01:00 PM" раньше "09:00 AM".
	seedSlot(t, env.db, barber.ID, "01:00 PM")
	seedSlot(t, env.db, barber.ID, "09:00 AM")
	seedSlot(t, env.db, barber.ID, "10:30 AM")

	slots, err := env.availability.AvailableSlots(context.Background(), barber.ID, "2026-09-10")
	if err != nil {
		t.Fatalf("AvailableSlots: %v", err)
	}

	want := []string{"09:00 AM", "10:30 AM", "01:00 PM"}
	if len(slots) != len(want) {
		t.Fatalf("slots len = %d, want %d", len(slots), len(want))
	}
	for i, w := range want {
		if slots[i].Time != w {
			t.Fatalf("slots[%d].Time = %q, want %q", i, slots[i].Time, w)
		}
	}
}

func TestAvailableSlots_BookingBlocksOneDateOnly(t *testing.T) {
	env := newTestEnv(t)
	barber := seedBarber(t, env.db, "Marco")
	slot := seedSlot(t, env.db, barber.ID, "09:00 AM")
	user := seedUser(t, env.db, "client@example.com", model.RoleUser)

	_, err := env.bookings.Create(context.Background(), CreateBookingInput{
		UserID:        user.ID,
		BarberID:      barber.ID,
		TimeSlotID:    slot.ID,
		Date:          "2026-09-10",
		Service:       "Haircut",
		PaymentMethod: "cash",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	booked, err := env.availability.AvailableSlots(context.Background(), barber.ID, "2026-09-10")
	if err != nil {
		t.Fatalf("AvailableSlots booked date: %v", err)
	}
	if len(booked) != 0 {
		t.Fatalf("booked date slots = %d, want 0", len(booked))
	}

	free, err := env.availability.AvailableSlots(context.Background(), barber.ID, "2026-09-11")
	if err != nil {
		t.Fatalf("AvailableSlots free date: %v", err)
	}
	if len(free) != 1 {
		t.Fatalf("free date slots = %d, want 1", len(free))
	}
}

func TestAvailableSlots_CancelRestoresSlot(t *testing.T) {
	env := newTestEnv(t)
	barber := seedBarber(t, env.db, "Marco")
	slot := seedSlot(t, env.db, barber.ID, "09:00 AM")
	user := seedUser(t, env.db, "client@example.com", model.RoleUser)

	booking, err := env.bookings.Create(context.Background(), CreateBookingInput{
		UserID:        user.ID,
		BarberID:      barber.ID,
		TimeSlotID:    slot.ID,
		Date:          "2026-09-10",
		Service:       "Haircut",
		PaymentMethod: "cash",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := env.bookings.Cancel(context.Background(), booking.ID, model.CancelledByUser, user.ID); err != nil {
		t.Fatalf("Cancel: %v", err)
	}

	slots, err := env.availability.AvailableSlots(context.Background(), barber.ID, "2026-09-10")
	if err != nil {
		t.Fatalf("AvailableSlots: %v", err)
	}
	if len(slots) != 1 {
		t.Fatalf("slots after cancel = %d, want 1", len(slots))
	}
}

func TestAvailableSlots_PresenceOverrideEmptiesDate(t *testing.T) {
	env := newTestEnv(t)
	barber := seedBarber(t, env.db, "Marco")
	seedSlot(t, env.db, barber.ID, "09:00 AM")

	if err := env.schedule.SetBarberPresence(context.Background(), barber.ID, "2026-09-10", false); err != nil {
		t.Fatalf("SetBarberPresence: %v", err)
	}

	off, err := env.availability.AvailableSlots(context.Background(), barber.ID, "2026-09-10")
	if err != nil {
		t.Fatalf("AvailableSlots off date: %v", err)
	}
	if len(off) != 0 {
		t.Fatalf("off date slots = %d, want 0", len(off))
	}

	// Соседняя дата исключением не затронута.
	on, err := env.availability.AvailableSlots(context.Background(), barber.ID, "2026-09-11")
	if err != nil {
		t.Fatalf("AvailableSlots on date: %v", err)
	}
	if len(on) != 1 {
		t.Fatalf("on date slots = %d, want 1", len(on))
	}

	// Возврат к дефолту схлопывает исключение — дата снова открыта.
	if err := env.schedule.SetBarberPresence(context.Background(), barber.ID, "2026-09-10", true); err != nil {
		t.Fatalf("SetBarberPresence back: %v", err)
	}
	restored, err := env.availability.AvailableSlots(context.Background(), barber.ID, "2026-09-10")
	if err != nil {
		t.Fatalf("AvailableSlots restored: %v", err)
	}
	if len(restored) != 1 {
		t.Fatalf("restored slots = %d, want 1", len(restored))
	}
}

func TestAvailableSlots_SlotOverrides(t *testing.T) {
	env := newTestEnv(t)
	barber := seedBarber(t, env.db, "Marco")
	slot := seedSlot(t, env.db, barber.ID, "09:00 AM")

	// Дефолтно открытый слот закрыт исключением на одну дату.
	if err := env.schedule.SetTimeslotAvailability(context.Background(), slot.ID, "2026-09-10", false); err != nil {
		t.Fatalf("SetTimeslotAvailability: %v", err)
	}

	closed, err := env.availability.AvailableSlots(context.Background(), barber.ID, "2026-09-10")
	if err != nil {
		t.Fatalf("AvailableSlots closed: %v", err)
	}
	if len(closed) != 0 {
		t.Fatalf("closed date slots = %d, want 0", len(closed))
	}

	other, err := env.availability.AvailableSlots(context.Background(), barber.ID, "2026-09-11")
	if err != nil {
		t.Fatalf("AvailableSlots other: %v", err)
	}
	if len(other) != 1 {
		t.Fatalf("other date slots = %d, want 1", len(other))
	}

	// Дефолтно закрытый слот открывается исключением.
	if err := env.db.Model(&model.TimeSlot{}).Where("id = ?", slot.ID).Update("available", false).Error; err != nil {
		t.Fatalf("close slot: %v", err)
	}
	if err := env.schedule.SetTimeslotAvailability(context.Background(), slot.ID, "2026-09-12", true); err != nil {
		t.Fatalf("open by override: %v", err)
	}

	opened, err := env.availability.AvailableSlots(context.Background(), barber.ID, "2026-09-12")
	if err != nil {
		t.Fatalf("AvailableSlots opened: %v", err)
	}
	if len(opened) != 1 {
		t.Fatalf("opened date slots = %d, want 1", len(opened))
	}
}

func TestAvailableSlots_ValidFromScoping(t *testing.T) {
	env := newTestEnv(t)
	barber := seedBarber(t, env.db, "Marco")

	from := datatypes.Date(time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC))
	slot := &model.TimeSlot{
		ID:        uuid.New(),
		BarberID:  barber.ID,
		Time:      "09:00 AM",
		ValidFrom: &from,
		Available: true,
	}
	if err := env.db.Create(slot).Error; err != nil {
		t.Fatalf("seed slot: %v", err)
	}

	before, err := env.availability.AvailableSlots(context.Background(), barber.ID, "2026-09-14")
	if err != nil {
		t.Fatalf("AvailableSlots before: %v", err)
	}
	if len(before) != 0 {
		t.Fatalf("before valid_from slots = %d, want 0", len(before))
	}

	onward, err := env.availability.AvailableSlots(context.Background(), barber.ID, "2026-09-15")
	if err != nil {
		t.Fatalf("AvailableSlots onward: %v", err)
	}
	if len(onward) != 1 {
		t.Fatalf("on valid_from slots = %d, want 1", len(onward))
	}
}

func TestAvailableSlots_EmptyDateRowNeverBlocks(t *testing.T) {
	env := newTestEnv(t)
	barber := seedBarber(t, env.db, "Marco")
	slot := seedSlot(t, env.db, barber.ID, "09:00 AM")
	user := seedUser(t, env.db, "client@example.com", model.RoleUser)

	// Строка с пустой датой в обход валидации — исторический мусор.
	garbage := &model.Booking{
		ID:          uuid.New(),
		UserID:      user.ID,
		BarberID:    barber.ID,
		TimeSlotID:  slot.ID,
		BookingDate: "",
		Service:     "Haircut",
		Status:      model.BookingStatusPending,
	}
	if err := env.db.Create(garbage).Error; err != nil {
		t.Fatalf("seed garbage booking: %v", err)
	}

	slots, err := env.availability.AvailableSlots(context.Background(), barber.ID, "2026-09-10")
	if err != nil {
		t.Fatalf("AvailableSlots: %v", err)
	}
	if len(slots) != 1 {
		t.Fatalf("slots = %d, want 1: empty-date row must not block real dates", len(slots))
	}

	// Пустая дата не покрыта частичным индексом: вторая такая строка
	// не нарушает уникальность.
	second := &model.Booking{
		ID:          uuid.New(),
		UserID:      user.ID,
		BarberID:    barber.ID,
		TimeSlotID:  slot.ID,
		BookingDate: "",
		Service:     "Haircut",
		Status:      model.BookingStatusPending,
	}
	if err := env.db.Create(second).Error; err != nil {
		t.Fatalf("second empty-date row: %v", err)
	}
}

func TestAvailableSlots_Errors(t *testing.T) {
	env := newTestEnv(t)
	barber := seedBarber(t, env.db, "Marco")

	if _, err := env.availability.AvailableSlots(context.Background(), barber.ID, "not-a-date"); !errors.Is(err, ErrValidation) {
		t.Fatalf("garbage date err = %v, want ErrValidation", err)
	}
	if _, err := env.availability.AvailableSlots(context.Background(), barber.ID, ""); !errors.Is(err, ErrValidation) {
		t.Fatalf("empty date err = %v, want ErrValidation", err)
	}
	if _, err := env.availability.AvailableSlots(context.Background(), uuid.New(), "2026-09-10"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown barber err = %v, want ErrNotFound", err)
	}
}

func TestEffectiveBarbers(t *testing.T) {
	env := newTestEnv(t)
	working := seedBarber(t, env.db, "Marco")
	absent := seedBarber(t, env.db, "Luis")

	if err := env.schedule.SetBarberPresence(context.Background(), absent.ID, "2026-09-10", false); err != nil {
		t.Fatalf("SetBarberPresence: %v", err)
	}

	byID := func(list []EffectiveBarber, id uuid.UUID) *EffectiveBarber {
		for i := range list {
			if list[i].Barber.ID == id {
				return &list[i]
			}
		}
		return nil
	}

	dated, err := env.availability.EffectiveBarbers(context.Background(), "2026-09-10")
	if err != nil {
		t.Fatalf("EffectiveBarbers dated: %v", err)
	}
	if got := byID(dated, working.ID); got == nil || !got.Present {
		t.Fatalf("working barber not present on dated list")
	}
	if got := byID(dated, absent.ID); got == nil || got.Present {
		t.Fatalf("absent barber should be overridden to absent")
	}

	// Без даты — чистые дефолты каталога.
	plain, err := env.availability.EffectiveBarbers(context.Background(), "")
	if err != nil {
		t.Fatalf("EffectiveBarbers plain: %v", err)
	}
	if got := byID(plain, absent.ID); got == nil || !got.Present {
		t.Fatalf("default presence must win when no date given")
	}
}
