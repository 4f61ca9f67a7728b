package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
discord:
  token: "abc"
  guild_id: "123"
`))
	require.NoError(t, err)

	assert.Equal(t, "abc", cfg.Discord.Token)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, 2*time.Minute, cfg.TempVoice.ReminderDelay())
	assert.Equal(t, time.Minute, cfg.TempVoice.SweepInterval())
	assert.Equal(t, 10*time.Second, cfg.TempVoice.RefreshInterval())
	assert.Equal(t, 5*time.Minute, cfg.TempVoice.AdvDeleteAfterUnlimited())
	assert.Equal(t, 15*time.Minute, cfg.TempVoice.AdvDeleteAfterFull())
	assert.Equal(t, 10, cfg.TempVoice.Adv.DisplayUsersLimit)
	assert.NotEmpty(t, cfg.TempVoice.SquadNames)
	assert.False(t, cfg.BotStartTime.IsZero())
}

func TestLoadExplicitValuesWin(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
http:
  addr: ":9000"
temp_voice:
  reminder_delay_minutes: 5
  sweep_interval_seconds: 30
  adv:
    delete_after_unlimited_minutes: 1
  squad_names: ["Red", "Blue"]
`))
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.HTTP.Addr)
	assert.Equal(t, 5*time.Minute, cfg.TempVoice.ReminderDelay())
	assert.Equal(t, 30*time.Second, cfg.TempVoice.SweepInterval())
	assert.Equal(t, time.Minute, cfg.TempVoice.AdvDeleteAfterUnlimited())
	assert.Equal(t, []string{"Red", "Blue"}, cfg.TempVoice.SquadNames)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "env-token")
	t.Setenv("DATABASE_DSN", "env-dsn")

	cfg, err := Load(writeConfig(t, `
discord:
  token: "file-token"
database:
  dsn: "file-dsn"
`))
	require.NoError(t, err)

	assert.Equal(t, "env-token", cfg.Discord.Token)
	assert.Equal(t, "env-dsn", cfg.Database.DSN)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
