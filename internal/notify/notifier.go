package notify

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/suavebarber/booking-core/internal/model"
	"github.com/suavebarber/booking-core/internal/repository"
)

// Service рассылает побочные эффекты переходов бронирования:
// in-app уведомления и письма. Все методы fire-and-continue —
// сбой уведомления не должен уронить вызвавший его переход,
// поэтому ошибки здесь логируются и глотаются.
type Service struct {
	notifications repository.NotificationRepository
	users         repository.UserRepository
	barbers       repository.BarberRepository
	slots         repository.SlotRepository
	mailer        Mailer
}

func NewService(
	notifications repository.NotificationRepository,
	users repository.UserRepository,
	barbers repository.BarberRepository,
	slots repository.SlotRepository,
	mailer Mailer,
) *Service {
	return &Service{
		notifications: notifications,
		users:         users,
		barbers:       barbers,
		slots:         slots,
		mailer:        mailer,
	}
}

// BookingCreated — уведомление заявителю и каждому админу.
func (s *Service) BookingCreated(ctx context.Context, b *model.Booking) {
	s.push(ctx, b.UserID, model.NotificationTypeBooking, fmt.Sprintf(
		"Your booking for %s on %s has been submitted and is pending admin confirmation.",
		b.Service, b.BookingDate,
	))

	display := s.userDisplay(ctx, b.UserID)
	s.pushAdmins(ctx, model.NotificationTypeAdminBooking, fmt.Sprintf(
		"%s has booked an appointment for %s on %s.",
		display, b.Service, b.BookingDate,
	))
}

// BookingConfirmed — уведомление заявителю плюс письмо.
func (s *Service) BookingConfirmed(ctx context.Context, b *model.Booking) {
	s.push(ctx, b.UserID, model.NotificationTypeConfirmation, fmt.Sprintf(
		"Your booking for %s on %s has been confirmed!",
		b.Service, b.BookingDate,
	))

	if user, email := s.bookingEmail(ctx, b); user != "" {
		if err := s.mailer.SendConfirmation(ctx, user, email); err != nil {
			log.Printf("notify: confirmation email to %s: %v", user, err)
		}
	}
}

// BookingCancelled — адресат зависит от того, кто отменил:
// админская отмена уведомляет заявителя (плюс письмо),
// пользовательская — всех админов.
func (s *Service) BookingCancelled(ctx context.Context, b *model.Booking, actor model.CancelActor) {
	if actor == model.CancelledByAdmin {
		s.push(ctx, b.UserID, model.NotificationTypeCancellation, fmt.Sprintf(
			"Your booking for %s on %s has been cancelled by admin. Please reschedule if needed.",
			b.Service, b.BookingDate,
		))
		if user, email := s.bookingEmail(ctx, b); user != "" {
			if err := s.mailer.SendCancellation(ctx, user, email); err != nil {
				log.Printf("notify: cancellation email to %s: %v", user, err)
			}
		}
		return
	}

	s.push(ctx, b.UserID, model.NotificationTypeCancellation, fmt.Sprintf(
		"Your booking for %s on %s has been cancelled.",
		b.Service, b.BookingDate,
	))
	s.pushAdmins(ctx, model.NotificationTypeCancellation, fmt.Sprintf(
		"A user cancelled a booking (ID: %s).", b.ID,
	))
}

// BookingCompleted — уведомление заявителю.
func (s *Service) BookingCompleted(ctx context.Context, b *model.Booking) {
	s.push(ctx, b.UserID, model.NotificationTypeCompletion, fmt.Sprintf(
		"Your booking for %s on %s has been completed. Thank you for choosing Suave Barbershop!",
		b.Service, b.BookingDate,
	))
}

func (s *Service) push(ctx context.Context, userID uuid.UUID, typ model.NotificationType, message string) {
	n := &model.Notification{
		ID:      uuid.New(),
		UserID:  userID,
		Message: message,
		Type:    typ,
	}
	if err := s.notifications.Create(ctx, n); err != nil {
		log.Printf("notify: create notification for %s: %v", userID, err)
	}
}

func (s *Service) pushAdmins(ctx context.Context, typ model.NotificationType, message string) {
	admins, err := s.users.ListAdmins(ctx)
	if err != nil {
		log.Printf("notify: list admins: %v", err)
		return
	}
	for _, admin := range admins {
		s.push(ctx, admin.ID, typ, message)
	}
}

func (s *Service) userDisplay(ctx context.Context, userID uuid.UUID) string {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Sprintf("User %s", userID)
	}
	return user.DisplayName()
}

// bookingEmail собирает данные письма; возвращает адрес получателя
// и наполнение. Пустой адрес — письмо не отправляем (walk-in или сбой).
func (s *Service) bookingEmail(ctx context.Context, b *model.Booking) (string, BookingEmail) {
	user, err := s.users.GetByID(ctx, b.UserID)
	if err != nil {
		log.Printf("notify: load user %s: %v", b.UserID, err)
		return "", BookingEmail{}
	}
	if user.IsWalkIn {
		return "", BookingEmail{}
	}

	e := BookingEmail{
		Service:       b.Service,
		Date:          b.BookingDate,
		PaymentMethod: b.PaymentMethod,
	}
	if barber, err := s.barbers.GetByID(ctx, b.BarberID); err == nil {
		e.Barber = barber.Name
	}
	if slot, err := s.slots.GetByID(ctx, b.TimeSlotID); err == nil {
		e.Time = slot.Time
	}
	return user.Email, e
}
