package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type AppConfig struct {
	API      *APIConfig      `mapstructure:"api"`
	Gin      *GinConfig      `mapstructure:"gin"`
	Postgres *PostgresConfig `mapstructure:"postgres"`
	Storage  *StorageConfig  `mapstructure:"storage"`
}

type APIConfig struct {
	Environment string `mapstructure:"environment"`
	Port        string `mapstructure:"port"`
	BaseURL     string `mapstructure:"base_url"`
	// PublicBaseURL is where the web client lives; check-in links point there.
	PublicBaseURL      string   `mapstructure:"public_base_url"`
	AllowedCORSDomains []string `mapstructure:"allowed_cors_domains"`
	JWTSigningKey      string   `mapstructure:"jwt_signing_key"`
	OfficerEmails      []string `mapstructure:"officer_emails"`
}

type GinConfig struct {
	Mode string `mapstructure:"mode"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DB       string `mapstructure:"db"`
	SSLMode  string `mapstructure:"sslmode"`
}

type StorageConfig struct {
	Root            string        `mapstructure:"root"`
	PublicURLPrefix string        `mapstructure:"public_url_prefix"`
	UploadTimeout   time.Duration `mapstructure:"upload_timeout"`
}

var errMissingSection = errors.New("config section is missing")

// Load reads the YAML file at path. Every key can be overridden by an
// environment variable named after it, e.g. API_PORT or POSTGRES_HOST.
func Load(path string) (*AppConfig, error) {
	v := newViper(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("v.ReadInConfig -> %w", err)
	}

	return decode(v)
}

// Watch reloads the file at path whenever it changes and hands the new
// config to onChange. Invalid edits are logged and ignored.
func Watch(path string, onChange func(conf *AppConfig)) error {
	v := newViper(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("v.ReadInConfig -> %w", err)
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		conf, err := decode(v)
		if err != nil {
			zap.L().Error("ignoring invalid config change", zap.String("file", e.Name), zap.Error(err))
			return
		}

		zap.L().Info("config reloaded", zap.String("file", e.Name), zap.String("op", e.Op.String()))
		onChange(conf)
	})
	v.WatchConfig()

	return nil
}

func newViper(path string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("api.environment", "development")
	v.SetDefault("api.port", "8080")
	v.SetDefault("api.base_url", "localhost:8080")
	v.SetDefault("api.public_base_url", "http://localhost:5173")
	v.SetDefault("api.allowed_cors_domains", []string{"http://localhost:5173"})
	v.SetDefault("api.jwt_signing_key", "")
	v.SetDefault("api.officer_emails", []string{})
	v.SetDefault("gin.mode", "debug")
	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", "5432")
	v.SetDefault("postgres.user", "postgres")
	v.SetDefault("postgres.password", "")
	v.SetDefault("postgres.db", "clubevents")
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("storage.root", "./data/files")
	v.SetDefault("storage.public_url_prefix", "http://localhost:8080/files")
	v.SetDefault("storage.upload_timeout", 30*time.Second)

	return v
}

func decode(v *viper.Viper) (*AppConfig, error) {
	conf := &AppConfig{}
	if err := v.Unmarshal(conf); err != nil {
		return nil, fmt.Errorf("v.Unmarshal -> %w", err)
	}

	if err := conf.Validate(); err != nil {
		return nil, fmt.Errorf("conf.Validate -> %w", err)
	}

	return conf, nil
}

func (c *AppConfig) Validate() error {
	if c.API == nil || c.Gin == nil || c.Postgres == nil || c.Storage == nil {
		return errMissingSection
	}

	err := validation.ValidateStruct(
		c.API,
		validation.Field(&c.API.Port, validation.Required),
		validation.Field(&c.API.PublicBaseURL, validation.Required),
		validation.Field(&c.API.JWTSigningKey, validation.Required, validation.Length(16, 0)),
	)
	if err != nil {
		return fmt.Errorf("api: %w", err)
	}

	err = validation.ValidateStruct(
		c.Gin,
		validation.Field(&c.Gin.Mode, validation.In("debug", "release", "test")),
	)
	if err != nil {
		return fmt.Errorf("gin: %w", err)
	}

	err = validation.ValidateStruct(
		c.Storage,
		validation.Field(&c.Storage.Root, validation.Required),
		validation.Field(&c.Storage.PublicURLPrefix, validation.Required),
		validation.Field(&c.Storage.UploadTimeout, validation.Required, validation.Min(time.Second)),
	)
	if err != nil {
		return fmt.Errorf("storage: %w", err)
	}

	return nil
}
