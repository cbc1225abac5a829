package config

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfighcl"
)

type Config struct {
	DiscordToken   string        `hcl:"discord_token" env:"DISCORD_TOKEN"`
	TelegramToken  string        `hcl:"telegram_token" env:"TELEGRAM_TOKEN"`
	CommandPrefix  string        `hcl:"command_prefix" env:"COMMAND_PREFIX" default:"!"`
	SwampImage     string        `hcl:"swamp_image_path" env:"SWAMP_IMAGE_PATH" default:"get-out-of-my-swamp.jpg"`
	CommandTimeout time.Duration `hcl:"command_timeout" env:"COMMAND_TIMEOUT" default:"1m"`

	ReplyRate  float64 `hcl:"reply_rate" env:"REPLY_RATE" default:"1"`
	ReplyBurst int     `hcl:"reply_burst" env:"REPLY_BURST" default:"5"`

	FeedTimeout       time.Duration `hcl:"feed_timeout" env:"FEED_TIMEOUT" default:"30s"`
	AnnounceChannelID string        `hcl:"announce_channel_id" env:"ANNOUNCE_CHANNEL_ID"`
	AnnounceInterval  time.Duration `hcl:"announce_interval" env:"ANNOUNCE_INTERVAL" default:"30m"`

	MetricsListen string `hcl:"metrics_listen" env:"METRICS_LISTEN"`
	Debug         bool   `hcl:"debug" env:"DEBUG"`
}

// DefaultFiles are read in order; later files override earlier ones.
var DefaultFiles = []string{"./config.hcl", "./config.local.hcl"}

var (
	cfg  Config
	once sync.Once
)

// Get loads the configuration from DefaultFiles and the environment once
// and returns it on every call.
func Get() Config {
	once.Do(func() {
		loaded, err := Load(DefaultFiles...)
		if err != nil {
			log.Printf("[ERROR] failed to load config: %v", err)
		}
		cfg = loaded
	})

	return cfg
}

// Load reads the configuration from files and ALBOT_* environment variables.
// Missing files are skipped.
func Load(files ...string) (Config, error) {
	var c Config

	loader := aconfig.LoaderFor(&c, aconfig.Config{
		EnvPrefix:        "ALBOT",
		SkipFlags:        true,
		AllowUnknownEnvs: true,
		Files:            files,
		FileDecoders: map[string]aconfig.FileDecoder{
			".hcl": aconfighcl.New(),
		},
	})

	if err := loader.Load(); err != nil {
		return c, fmt.Errorf("failed to load config: %w", err)
	}

	return c, nil
}

// Validate reports whether at least one transport can be started with the
// loaded settings.
func (c Config) Validate() error {
	if c.DiscordToken == "" && c.TelegramToken == "" {
		return fmt.Errorf("no transport configured: set discord_token or telegram_token")
	}
	if c.CommandPrefix == "" {
		return fmt.Errorf("command_prefix must not be empty")
	}
	if c.CommandTimeout <= 0 {
		return fmt.Errorf("command_timeout must be positive, got %s", c.CommandTimeout)
	}
	if c.FeedTimeout <= 0 {
		return fmt.Errorf("feed_timeout must be positive, got %s", c.FeedTimeout)
	}
	if c.AnnounceChannelID != "" && c.AnnounceInterval <= 0 {
		return fmt.Errorf("announce_interval must be positive, got %s", c.AnnounceInterval)
	}
	return nil
}
