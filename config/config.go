package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type LoggerConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

type AdvConfig struct {
	DeleteAfterUnlimitedMin int `yaml:"delete_after_unlimited_minutes"`
	DeleteAfterFullMin      int `yaml:"delete_after_full_minutes"`
	DisplayUsersLimit       int `yaml:"display_users_limit"`
}

type TempVoiceConfig struct {
	ReminderDelayMin   int       `yaml:"reminder_delay_minutes"`
	SweepIntervalSec   int       `yaml:"sweep_interval_seconds"`
	RefreshIntervalSec int       `yaml:"settings_refresh_seconds"`
	Adv                AdvConfig `yaml:"adv"`
	SquadNames         []string  `yaml:"squad_names"`
}

func (c TempVoiceConfig) ReminderDelay() time.Duration {
	return time.Duration(c.ReminderDelayMin) * time.Minute
}

func (c TempVoiceConfig) SweepInterval() time.Duration {
	return time.Duration(c.SweepIntervalSec) * time.Second
}

func (c TempVoiceConfig) RefreshInterval() time.Duration {
	return time.Duration(c.RefreshIntervalSec) * time.Second
}

func (c TempVoiceConfig) AdvDeleteAfterUnlimited() time.Duration {
	return time.Duration(c.Adv.DeleteAfterUnlimitedMin) * time.Minute
}

func (c TempVoiceConfig) AdvDeleteAfterFull() time.Duration {
	return time.Duration(c.Adv.DeleteAfterFullMin) * time.Minute
}

type Config struct {
	Discord struct {
		Token    string   `yaml:"token"`
		GuildID  string   `yaml:"guild_id"`
		Status   string   `yaml:"status"`
		ClientID string   `yaml:"client_id"`
		Devs     []string `yaml:"developers"`
		Sharding struct {
			Enabled     bool `yaml:"enabled"`
			TotalShards int  `yaml:"total_shards"`
		} `yaml:"sharding"`
	} `yaml:"discord"`

	Database struct {
		DSN string `yaml:"dsn"`
	} `yaml:"database"`

	HTTP struct {
		Addr string `yaml:"addr"`
	} `yaml:"http"`

	Logger LoggerConfig `yaml:"logger"`

	TempVoice TempVoiceConfig `yaml:"temp_voice"`

	Debug        bool      `yaml:"debug"`
	BotStartTime time.Time `yaml:"-"`
}

func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	file, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(file, &cfg); err != nil {
		return nil, err
	}

	if token := os.Getenv("DISCORD_TOKEN"); token != "" {
		cfg.Discord.Token = token
	}
	if dsn := os.Getenv("DATABASE_DSN"); dsn != "" {
		cfg.Database.DSN = dsn
	}

	cfg.applyDefaults()
	cfg.BotStartTime = time.Now()

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = ":8080"
	}
	if c.TempVoice.ReminderDelayMin == 0 {
		c.TempVoice.ReminderDelayMin = 2
	}
	if c.TempVoice.SweepIntervalSec == 0 {
		c.TempVoice.SweepIntervalSec = 60
	}
	if c.TempVoice.RefreshIntervalSec == 0 {
		c.TempVoice.RefreshIntervalSec = 10
	}
	if c.TempVoice.Adv.DeleteAfterUnlimitedMin == 0 {
		c.TempVoice.Adv.DeleteAfterUnlimitedMin = 5
	}
	if c.TempVoice.Adv.DeleteAfterFullMin == 0 {
		c.TempVoice.Adv.DeleteAfterFullMin = 15
	}
	if c.TempVoice.Adv.DisplayUsersLimit == 0 {
		c.TempVoice.Adv.DisplayUsersLimit = 10
	}
	if len(c.TempVoice.SquadNames) == 0 {
		c.TempVoice.SquadNames = defaultSquadNames
	}
}

var defaultSquadNames = []string{
	"Alpha", "Bravo", "Charlie", "Delta", "Echo", "Foxtrot", "Golf",
	"Hotel", "India", "Juliett", "Kilo", "Lima", "Mike", "November",
	"Oscar", "Papa", "Quebec", "Romeo", "Sierra", "Tango", "Uniform",
	"Victor", "Whiskey", "Xray", "Yankee", "Zulu",
}
