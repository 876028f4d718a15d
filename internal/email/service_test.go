package email

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	to, subject, body string
	err               error
}

func (f *fakeProvider) Send(ctx context.Context, to, subject, body string) error {
	f.to, f.subject, f.body = to, subject, body
	return f.err
}

func TestNotifyCracked(t *testing.T) {
	provider := &fakeProvider{}
	service := NewService(provider, "ops@example.com")

	err := service.NotifyCracked(context.Background(), "HomeWifi", "Sup3rSecret", "capture.hc22000")
	require.NoError(t, err)

	assert.Equal(t, "ops@example.com", provider.to)
	assert.Contains(t, provider.subject, "HomeWifi")
	assert.Contains(t, provider.body, "Sup3rSecret")
	assert.Contains(t, provider.body, "capture.hc22000")
}

func TestNotifyCrackedProviderError(t *testing.T) {
	provider := &fakeProvider{err: errors.New("smtp refused")}
	service := NewService(provider, "ops@example.com")

	err := service.NotifyCracked(context.Background(), "HomeWifi", "pw", "a.hc22000")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "smtp refused")
}

func TestNewServiceFromEnvUnconfigured(t *testing.T) {
	t.Setenv("AUTOPWN_EMAIL_TO", "")
	t.Setenv("AUTOPWN_EMAIL_PROVIDER", "")

	service, err := NewServiceFromEnv()
	require.NoError(t, err)
	assert.Nil(t, service, "notifications default to off")
}

func TestNewServiceFromEnvUnknownProvider(t *testing.T) {
	t.Setenv("AUTOPWN_EMAIL_TO", "ops@example.com")
	t.Setenv("AUTOPWN_EMAIL_PROVIDER", "pigeon")

	_, err := NewServiceFromEnv()
	assert.Error(t, err)
}

func TestNewServiceFromEnvMailgunMissingSettings(t *testing.T) {
	t.Setenv("AUTOPWN_EMAIL_TO", "ops@example.com")
	t.Setenv("AUTOPWN_EMAIL_PROVIDER", "mailgun")
	t.Setenv("AUTOPWN_MAILGUN_DOMAIN", "")
	t.Setenv("AUTOPWN_MAILGUN_API_KEY", "")

	_, err := NewServiceFromEnv()
	assert.ErrorIs(t, err, ErrProviderNotConfigured)
}

func TestNewServiceFromEnvMailgun(t *testing.T) {
	t.Setenv("AUTOPWN_EMAIL_TO", "ops@example.com")
	t.Setenv("AUTOPWN_EMAIL_PROVIDER", "mailgun")
	t.Setenv("AUTOPWN_MAILGUN_DOMAIN", "mg.example.com")
	t.Setenv("AUTOPWN_MAILGUN_API_KEY", "key-123")
	t.Setenv("AUTOPWN_EMAIL_FROM", "autopwn@example.com")

	service, err := NewServiceFromEnv()
	require.NoError(t, err)
	require.NotNil(t, service)
}
