package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/suavebarber/booking-core/internal/model"
	"github.com/suavebarber/booking-core/internal/repository"
)

// newTestDB — sqlite in-memory со схемой, повторяющей продовую,
// включая частичный уникальный индекс на активные бронирования.
// TranslateError нужен, чтобы нарушение индекса приходило как
// gorm.ErrDuplicatedKey, как и на реальной базе.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	schema := []string{
		`CREATE TABLE users (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'USER',
			full_name TEXT,
			phone TEXT,
			is_walk_in INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME,
			updated_at DATETIME
		);`,
		`CREATE TABLE barbers (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			present INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME,
			updated_at DATETIME
		);`,
		`CREATE TABLE time_slots (
			id TEXT PRIMARY KEY,
			barber_id TEXT NOT NULL,
			time TEXT NOT NULL,
			valid_from DATE,
			available INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME,
			updated_at DATETIME,
			UNIQUE (barber_id, time)
		);`,
		`CREATE TABLE barber_presence_overrides (
			id TEXT PRIMARY KEY,
			barber_id TEXT NOT NULL,
			date TEXT NOT NULL,
			present INTEGER NOT NULL,
			created_at DATETIME,
			UNIQUE (barber_id, date)
		);`,
		`CREATE TABLE time_slot_availability_overrides (
			id TEXT PRIMARY KEY,
			time_slot_id TEXT NOT NULL,
			date TEXT NOT NULL,
			available INTEGER NOT NULL,
			created_at DATETIME,
			UNIQUE (time_slot_id, date)
		);`,
		`CREATE TABLE bookings (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			barber_id TEXT NOT NULL,
			time_slot_id TEXT NOT NULL,
			booking_date TEXT NOT NULL,
			service TEXT NOT NULL,
			payment_method TEXT,
			payment_ref TEXT,
			status TEXT NOT NULL DEFAULT 'Pending',
			walk_in INTEGER NOT NULL DEFAULT 0,
			confirmed_by_admin INTEGER NOT NULL DEFAULT 0,
			cancelled_by TEXT,
			booked_at DATETIME,
			updated_at DATETIME
		);`,
		`CREATE UNIQUE INDEX uniq_active_slot
			ON bookings (barber_id, time_slot_id, booking_date)
			WHERE (status = 'Pending' OR status = 'Confirmed') AND booking_date <> '';`,
		`CREATE TABLE notifications (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			message TEXT NOT NULL,
			type TEXT NOT NULL DEFAULT 'info',
			is_read INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME
		);`,
	}
	for _, stmt := range schema {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("create schema: %v", err)
		}
	}

	return db
}

// Нотификатор, запоминающий вызовы, — чтобы проверять, что переходы
// дёргают нужные события и не дёргают лишних.
type recordingNotifier struct {
	created   []uuid.UUID
	confirmed []uuid.UUID
	cancelled []uuid.UUID
	completed []uuid.UUID
}

func (n *recordingNotifier) BookingCreated(_ context.Context, b *model.Booking) {
	n.created = append(n.created, b.ID)
}

func (n *recordingNotifier) BookingConfirmed(_ context.Context, b *model.Booking) {
	n.confirmed = append(n.confirmed, b.ID)
}

func (n *recordingNotifier) BookingCancelled(_ context.Context, b *model.Booking, _ model.CancelActor) {
	n.cancelled = append(n.cancelled, b.ID)
}

func (n *recordingNotifier) BookingCompleted(_ context.Context, b *model.Booking) {
	n.completed = append(n.completed, b.ID)
}

type testEnv struct {
	db           *gorm.DB
	availability *AvailabilityService
	bookings     *BookingService
	schedule     *ScheduleService
	notifier     *recordingNotifier
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := newTestDB(t)
	barbers := repository.NewGormBarberRepository(db)
	slots := repository.NewGormSlotRepository(db)
	overrides := repository.NewGormOverrideRepository(db)
	bookings := repository.NewGormBookingRepository(db)

	notifier := &recordingNotifier{}
	availability := NewAvailabilityService(barbers, slots, overrides, bookings)
	return &testEnv{
		db:           db,
		availability: availability,
		bookings:     NewBookingService(db, bookings, availability, notifier),
		schedule:     NewScheduleService(barbers, slots, overrides, bookings),
		notifier:     notifier,
	}
}

func seedBarber(t *testing.T, db *gorm.DB, name string) *model.Barber {
	t.Helper()

	b := &model.Barber{ID: uuid.New(), Name: name, Present: true}
	if err := db.Create(b).Error; err != nil {
		t.Fatalf("seed barber: %v", err)
	}
	return b
}

func seedSlot(t *testing.T, db *gorm.DB, barberID uuid.UUID, label string) *model.TimeSlot {
	t.Helper()

	s := &model.TimeSlot{ID: uuid.New(), BarberID: barberID, Time: label, Available: true}
	if err := db.Create(s).Error; err != nil {
		t.Fatalf("seed slot: %v", err)
	}
	return s
}

func seedUser(t *testing.T, db *gorm.DB, email string, role model.UserRole) *model.User {
	t.Helper()

	u := &model.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: "x",
		Role:         role,
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}
