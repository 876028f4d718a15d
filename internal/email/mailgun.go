package email

import (
	"context"

	"github.com/mailgun/mailgun-go/v4"
)

// mailgunProvider implements Provider over the Mailgun API
type mailgunProvider struct {
	mg   *mailgun.MailgunImpl
	from string
}

// NewMailgunProvider creates a Mailgun-backed provider
func NewMailgunProvider(domain, apiKey, from string) (Provider, error) {
	if domain == "" || apiKey == "" || from == "" {
		return nil, ErrProviderNotConfigured
	}

	return &mailgunProvider{
		mg:   mailgun.NewMailgun(domain, apiKey),
		from: from,
	}, nil
}

// Send sends a plain-text email
func (p *mailgunProvider) Send(ctx context.Context, to, subject, body string) error {
	msg := p.mg.NewMessage(p.from, subject, body, to)
	_, _, err := p.mg.Send(ctx, msg)
	return err
}
