package email

import (
	"context"
	"fmt"
	"time"

	"gopkg.in/gomail.v2"

	"github.com/clinigo/agenda-api/internal/config"
	"github.com/clinigo/agenda-api/internal/model"
)

// Service sends appointment notifications. Callers treat it as best-effort.
type Service interface {
	SendBookingConfirmation(ctx context.Context, to string, apt *model.Appointment) error
	SendCancellation(ctx context.Context, to string, apt *model.Appointment) error
}

type smtpService struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPService(cfg config.SMTPConfig) Service {
	return &smtpService{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (s *smtpService) SendBookingConfirmation(ctx context.Context, to string, apt *model.Appointment) error {
	subject := "Confirmacion de cita"
	body := fmt.Sprintf(
		"Su cita ha sido programada para el %s.\nMotivo: %s\n",
		apt.ScheduledAt.Format("02/01/2006 15:04"),
		apt.Reason,
	)
	return s.send(ctx, to, subject, body)
}

func (s *smtpService) SendCancellation(ctx context.Context, to string, apt *model.Appointment) error {
	subject := "Cita cancelada"
	body := fmt.Sprintf(
		"Su cita del %s ha sido cancelada.\n",
		apt.ScheduledAt.Format("02/01/2006 15:04"),
	)
	return s.send(ctx, to, subject, body)
}

func (s *smtpService) send(ctx context.Context, to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", s.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	done := make(chan error, 1)
	go func() {
		done <- s.dialer.DialAndSend(msg)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("failed to send email: %w", err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(10 * time.Second):
		return fmt.Errorf("email send timed out")
	}
}
