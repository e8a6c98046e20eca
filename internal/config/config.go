package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
)

const (
	DefaultConfigPath     = "config.toml"
	DefaultHTTPAddr       = ":8080"
	DefaultLocaleID       = "pt_BR"
	DefaultVoiceID        = "Vitoria"
	DefaultDataRoot       = "data"
	DefaultPGHost         = "127.0.0.1"
	DefaultPGPort         = 5432
	DefaultPGUser         = "postgres"
	DefaultPGDatabase     = "aumigobot"
	DefaultPGSSLMode      = "disable"
	DefaultSessionTTL     = 72
	DefaultPruneSchedule  = "@hourly"
	DefaultClientTimeout  = 15
	DefaultDonationQRKey  = "images/qrcode_pix.png"
	DefaultExposeInternal = true
)

type Config struct {
	Log       LogConfig       `toml:"log"`
	Server    ServerConfig    `toml:"server"`
	Postgres  PostgresConfig  `toml:"postgres"`
	Twilio    TwilioConfig    `toml:"twilio"`
	Dialogue  DialogueConfig  `toml:"dialogue"`
	Storage   StorageConfig   `toml:"storage"`
	Vision    VisionConfig    `toml:"vision"`
	Speech    SpeechConfig    `toml:"speech"`
	Retention RetentionConfig `toml:"retention"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

type ServerConfig struct {
	Addr string `toml:"addr"`
	// JWTSecret protects the admin API. The webhook and fulfillment
	// endpoints are public regardless.
	JWTSecret string `toml:"jwt_secret"`
	// ExposeInternalErrors echoes failure detail in 500 response bodies.
	// Matches the original behavior; disable in production.
	ExposeInternalErrors bool `toml:"expose_internal_errors"`
}

type PostgresConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	Database string `toml:"database"`
	SSLMode  string `toml:"sslmode"`
}

// TwilioConfig carries the credentials used to fetch inbound media from the
// messaging provider (HTTP basic auth on MediaUrl0).
type TwilioConfig struct {
	AccountSID string `toml:"account_sid"`
	AuthToken  string `toml:"auth_token"`
}

// DialogueConfig identifies the managed dialogue engine bot.
type DialogueConfig struct {
	BaseURL        string `toml:"base_url" validate:"required,url"`
	BotID          string `toml:"bot_id" validate:"required"`
	BotAliasID     string `toml:"bot_alias_id" validate:"required"`
	LocaleID       string `toml:"locale_id"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

type StorageConfig struct {
	DataRoot string `toml:"data_root"`
	// PublicBaseURL is the externally reachable prefix for stored objects
	// (media references handed to the messaging channel must be URLs).
	PublicBaseURL string `toml:"public_base_url"`
	// DonationQRKey is the storage key of the donation PIX QR-code image.
	DonationQRKey string `toml:"donation_qr_key"`
}

type VisionConfig struct {
	BaseURL        string `toml:"base_url"`
	APIKey         string `toml:"api_key"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

type SpeechConfig struct {
	BaseURL        string `toml:"base_url"`
	APIKey         string `toml:"api_key"`
	VoiceID        string `toml:"voice_id"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

type RetentionConfig struct {
	// SessionTTLHours controls when idle dialogue sessions are pruned.
	// Zero disables pruning.
	SessionTTLHours int    `toml:"session_ttl_hours"`
	PruneSchedule   string `toml:"prune_schedule"`
}

func Load(path string) (Config, error) {
	cfg := Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Server: ServerConfig{
			Addr:                 DefaultHTTPAddr,
			ExposeInternalErrors: DefaultExposeInternal,
		},
		Postgres: PostgresConfig{
			Host:     DefaultPGHost,
			Port:     DefaultPGPort,
			User:     DefaultPGUser,
			Database: DefaultPGDatabase,
			SSLMode:  DefaultPGSSLMode,
		},
		Dialogue: DialogueConfig{
			LocaleID:       DefaultLocaleID,
			TimeoutSeconds: DefaultClientTimeout,
		},
		Storage: StorageConfig{
			DataRoot:      DefaultDataRoot,
			DonationQRKey: DefaultDonationQRKey,
		},
		Vision: VisionConfig{
			TimeoutSeconds: DefaultClientTimeout,
		},
		Speech: SpeechConfig{
			VoiceID:        DefaultVoiceID,
			TimeoutSeconds: DefaultClientTimeout,
		},
		Retention: RetentionConfig{
			SessionTTLHours: DefaultSessionTTL,
			PruneSchedule:   DefaultPruneSchedule,
		},
	}

	if path == "" {
		path = DefaultConfigPath
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// Validate checks the fields the serve command cannot run without.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
