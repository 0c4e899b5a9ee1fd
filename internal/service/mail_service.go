package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fadilmartias/recruit-scheduler/internal/config"
	"github.com/fadilmartias/recruit-scheduler/internal/model"
	"golang.org/x/time/rate"
	"gopkg.in/gomail.v2"
)

type MailServiceInterface interface {
	Send(ctx context.Context, email model.Email) error
}

type mailDialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPMailService sends HTML mail over SMTP, paced by a token bucket so bulk
// outreach stays under the provider's sending limits.
type SMTPMailService struct {
	dialer  mailDialer
	from    string
	limiter *rate.Limiter
}

func NewSMTPMailService() *SMTPMailService {
	cfg := config.LoadSMTPConfig()
	return &SMTPMailService{
		dialer:  gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:    cfg.FromEmail,
		limiter: newSendLimiter(cfg.RatePerMinute),
	}
}

func newSendLimiter(perMinute int) *rate.Limiter {
	if perMinute <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1)
}

func (s *SMTPMailService) Send(ctx context.Context, email model.Email) error {
	if len(email.To) == 0 {
		return fmt.Errorf("send mail %q: no recipients", email.Subject)
	}
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("send mail %q: %w", email.Subject, err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email.To...)
	if len(email.Cc) > 0 {
		m.SetHeader("Cc", email.Cc...)
	}
	m.SetHeader("Subject", email.Subject)
	m.SetBody("text/html", email.HTML)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send mail %q to %v: %w", email.Subject, email.To, err)
	}
	slog.Info("mail sent", slog.String("subject", email.Subject), slog.Any("to", email.To))
	return nil
}
