package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("CONTACTS_PRIMARY_ENV", "production")
	t.Setenv("CONTACTS_PRIMARY_LOG_LEVEL", "debug")
	t.Setenv("CONTACTS_SERVER_PORT", "9090")
	t.Setenv("CONTACTS_SERVER_READ_TIMEOUT", "45")
	t.Setenv("CONTACTS_SERVER_REQUEST_LOGGING", "false")
	t.Setenv("CONTACTS_DATABASE_DRIVER", "pgx")
	t.Setenv("CONTACTS_DATABASE_HOST", "db")
	t.Setenv("CONTACTS_DATABASE_PORT", "5432")
	t.Setenv("CONTACTS_DATABASE_PASSWORD", "secret")
	t.Setenv("CONTACTS_BIRTHDAYS_WINDOW_DAYS", "14")
	t.Setenv("CONTACTS_BIRTHDAYS_TIMEZONE", "Europe/Prague")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "production", cfg.Primary.Env)
	assert.Equal(t, "debug", cfg.Primary.LogLevel)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 45, cfg.Server.ReadTimeout)
	assert.Equal(t, 30, cfg.Server.WriteTimeout)
	assert.False(t, cfg.Server.RequestLogging)
	assert.Equal(t, "pgx", cfg.Database.Driver)
	assert.Equal(t, "db", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "secret", cfg.Database.Password)
	assert.Equal(t, "contacts", cfg.Database.User)
	assert.Equal(t, 14, cfg.Birthdays.WindowDays)
	assert.Equal(t, "Europe/Prague", cfg.Birthdays.Timezone)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"CONTACTS_PRIMARY_ENV", "staging"},
		{"CONTACTS_PRIMARY_LOG_LEVEL", "verbose"},
		{"CONTACTS_SERVER_PORT", "70000"},
		{"CONTACTS_SERVER_PORT", "eighty"},
		{"CONTACTS_DATABASE_DRIVER", "sqlite"},
		{"CONTACTS_BIRTHDAYS_WINDOW_DAYS", "-1"},
		{"CONTACTS_BIRTHDAYS_TIMEZONE", "Mars/Olympus_Mons"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "database.host", envKey("CONTACTS_DATABASE_HOST"))
	assert.Equal(t, "server.read_timeout", envKey("CONTACTS_SERVER_READ_TIMEOUT"))
	assert.Equal(t, "birthdays.window_days", envKey("CONTACTS_BIRTHDAYS_WINDOW_DAYS"))
}
