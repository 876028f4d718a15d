package email

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/doomedramen/autopwn-sub010/pkg/debug"
)

// ErrProviderNotConfigured is returned when the email provider is missing
// required settings
var ErrProviderNotConfigured = errors.New("email provider not configured")

// Provider sends a single notification email
type Provider interface {
	Send(ctx context.Context, to, subject, body string) error
}

// Service sends crack notifications through a configured provider. When no
// provider is configured the service is a no-op and NewServiceFromEnv
// returns nil.
type Service struct {
	provider Provider
	to       string
}

// NewService creates a notification service over the given provider
func NewService(provider Provider, to string) *Service {
	return &Service{provider: provider, to: to}
}

// NewServiceFromEnv builds a service from AUTOPWN_EMAIL_* environment
// variables. Returns (nil, nil) when notifications are not configured.
func NewServiceFromEnv() (*Service, error) {
	to := os.Getenv("AUTOPWN_EMAIL_TO")
	providerName := os.Getenv("AUTOPWN_EMAIL_PROVIDER")
	if providerName == "" || to == "" {
		return nil, nil
	}

	var (
		provider Provider
		err      error
	)
	switch providerName {
	case "mailgun":
		provider, err = NewMailgunProvider(
			os.Getenv("AUTOPWN_MAILGUN_DOMAIN"),
			os.Getenv("AUTOPWN_MAILGUN_API_KEY"),
			os.Getenv("AUTOPWN_EMAIL_FROM"),
		)
	case "sendgrid":
		provider, err = NewSendGridProvider(
			os.Getenv("AUTOPWN_SENDGRID_API_KEY"),
			os.Getenv("AUTOPWN_EMAIL_FROM"),
		)
	default:
		return nil, fmt.Errorf("unknown email provider: %s", providerName)
	}
	if err != nil {
		return nil, err
	}

	debug.Info("Crack notifications enabled via %s to %s", providerName, to)
	return NewService(provider, to), nil
}

// NotifyCracked sends a notification for one recovered credential
func (s *Service) NotifyCracked(ctx context.Context, essid, password, filename string) error {
	subject := fmt.Sprintf("Credential recovered for %s", essid)
	body := fmt.Sprintf(
		"Network: %s\nPassword: %s\nHash file: %s\n",
		essid, password, filename,
	)

	if err := s.provider.Send(ctx, s.to, subject, body); err != nil {
		return fmt.Errorf("failed to send crack notification: %w", err)
	}

	debug.Debug("Sent crack notification for %s", essid)
	return nil
}
