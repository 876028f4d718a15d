package email

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// sendgridProvider implements Provider over the SendGrid API
type sendgridProvider struct {
	client *sendgrid.Client
	from   string
}

// NewSendGridProvider creates a SendGrid-backed provider
func NewSendGridProvider(apiKey, from string) (Provider, error) {
	if apiKey == "" || from == "" {
		return nil, ErrProviderNotConfigured
	}

	return &sendgridProvider{
		client: sendgrid.NewSendClient(apiKey),
		from:   from,
	}, nil
}

// Send sends a plain-text email
func (p *sendgridProvider) Send(ctx context.Context, to, subject, body string) error {
	message := mail.NewSingleEmail(
		mail.NewEmail("autopwn", p.from),
		subject,
		mail.NewEmail("", to),
		body,
		body,
	)

	response, err := p.client.SendWithContext(ctx, message)
	if err != nil {
		return err
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid returned status %d: %s", response.StatusCode, response.Body)
	}

	return nil
}
