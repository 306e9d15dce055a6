package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("CRM_DATA_DIR", "")
	t.Setenv("CRM_DATABASE_PATH", "")
	t.Setenv("SMTP_HOST", "")
	t.Setenv("SMTP_PORT", "")
	t.Setenv("WHATSAPP_ENABLED", "")
	t.Setenv("GOOGLE_PLACES_TIMEOUT", "")

	cfg := LoadConfig()

	assert.Equal(t, "data", cfg.DataDir)
	assert.Equal(t, "data/contacts.db", cfg.DatabasePath)
	assert.Equal(t, 587, cfg.SMTPPort)
	assert.Equal(t, 10*time.Second, cfg.PlacesTimeout)
	assert.False(t, cfg.WhatsAppEnabled)
	assert.False(t, cfg.MailEnabled())
}

func TestLoadConfig_FromEnv(t *testing.T) {
	t.Setenv("CRM_DATA_DIR", "/var/lib/crm")
	t.Setenv("CRM_DATABASE_PATH", "")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_PORT", "2525")
	t.Setenv("WHATSAPP_ENABLED", "true")
	t.Setenv("GOOGLE_PLACES_TIMEOUT", "3s")
	t.Setenv("SEARCH_DEFAULT_LIMIT", "not-a-number")

	cfg := LoadConfig()

	assert.Equal(t, "/var/lib/crm/contacts.db", cfg.DatabasePath)
	assert.Equal(t, "/var/lib/crm", cfg.WhatsAppDataDir)
	assert.Equal(t, 2525, cfg.SMTPPort)
	assert.Equal(t, 3*time.Second, cfg.PlacesTimeout)
	assert.True(t, cfg.WhatsAppEnabled)
	assert.True(t, cfg.MailEnabled())
	assert.Equal(t, 20, cfg.SearchDefaultLimit)
}
