package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

// Данные письма о бронировании.
type BookingEmail struct {
	Service       string
	Barber        string
	Time          string
	Date          string
	PaymentMethod string
}

// Mailer — внешний коллаборатор доставки почты. Вызывается best-effort:
// ошибка отправки логируется и никогда не откатывает переход бронирования.
type Mailer interface {
	SendConfirmation(ctx context.Context, to string, e BookingEmail) error
	SendCancellation(ctx context.Context, to string, e BookingEmail) error
	SendVerificationCode(ctx context.Context, to, code string) error
}

// SMTPMailer — минимальная реализация на net/smtp.
type SMTPMailer struct {
	addr string
	from string
	auth smtp.Auth
}

func NewSMTPMailer(host string, port int, username, password, from string) *SMTPMailer {
	var auth smtp.Auth
	if username != "" {
		auth = smtp.PlainAuth("", username, password, host)
	}
	return &SMTPMailer{
		addr: fmt.Sprintf("%s:%d", host, port),
		from: from,
		auth: auth,
	}
}

func (m *SMTPMailer) SendConfirmation(ctx context.Context, to string, e BookingEmail) error {
	body := fmt.Sprintf(
		"Your appointment has been confirmed!\r\n\r\nService: %s\r\nBarber: %s\r\nTime: %s on %s\r\nPayment: %s\r\n\r\nSee you soon at Suave Barbershop.",
		e.Service, e.Barber, e.Time, e.Date, e.PaymentMethod,
	)
	return m.send(to, "Booking Confirmed - Suave Barbershop", body)
}

func (m *SMTPMailer) SendCancellation(ctx context.Context, to string, e BookingEmail) error {
	body := fmt.Sprintf(
		"We regret to inform you that your appointment has been cancelled due to valid reasons beyond our control.\r\n\r\nService: %s\r\nBarber: %s\r\nTime: %s on %s\r\n\r\nWe would be happy to assist you in rescheduling your appointment at your earliest convenience.",
		e.Service, e.Barber, e.Time, e.Date,
	)
	return m.send(to, "Booking Cancelled - Suave Barbershop", body)
}

func (m *SMTPMailer) SendVerificationCode(ctx context.Context, to, code string) error {
	body := fmt.Sprintf(
		"Your Suave Barbershop verification code is: %s\r\n\r\nThe code expires shortly. If you did not request it, ignore this message.",
		code,
	)
	return m.send(to, "Verification Code - Suave Barbershop", body)
}

func (m *SMTPMailer) send(to, subject, body string) error {
	msg := strings.Join([]string{
		"From: " + m.from,
		"To: " + to,
		"Subject: " + subject,
		"",
		body,
	}, "\r\n")
	return smtp.SendMail(m.addr, m.auth, m.from, []string{to}, []byte(msg))
}

// NopMailer — заглушка для окружений без SMTP.
type NopMailer struct{}

func (NopMailer) SendConfirmation(ctx context.Context, to string, e BookingEmail) error { return nil }
func (NopMailer) SendCancellation(ctx context.Context, to string, e BookingEmail) error { return nil }
func (NopMailer) SendVerificationCode(ctx context.Context, to, code string) error       { return nil }
