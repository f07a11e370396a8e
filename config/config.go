package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	SMTP         SMTPConfig
	SMS          SMSConfig
	Storage      StorageConfig
	Verification VerificationConfig
}

type AppConfig struct {
	Port    string
	Env     string
	BaseURL string
}

type DBConfig struct {
	Host           string
	Port           string
	User           string
	Password       string
	Name           string
	MigrationsPath string
}

// URL returns a connection string usable by golang-migrate.
func (c DBConfig) URL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.User, c.Password, c.Host, c.Port, c.Name,
	)
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

type SMSConfig struct {
	Enabled    bool
	Provider   string
	FromNumber string
}

type StorageConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type VerificationConfig struct {
	TokenTTL        time.Duration
	CleanupInterval time.Duration
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// Environment variables alone are enough; a missing .env is not fatal.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	tokenTTL, err := time.ParseDuration(viper.GetString("VERIFICATION_TOKEN_TTL"))
	if err != nil {
		tokenTTL = 24 * time.Hour
	}

	cleanupInterval, err := time.ParseDuration(viper.GetString("VERIFICATION_CLEANUP_INTERVAL"))
	if err != nil {
		cleanupInterval = time.Hour
	}

	baseURL := viper.GetString("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:3000"
	}

	migrationsPath := viper.GetString("DB_MIGRATIONS_PATH")
	if migrationsPath == "" {
		migrationsPath = "db/migrations"
	}

	smtpPort := viper.GetInt("SMTP_PORT")
	if smtpPort == 0 {
		smtpPort = 587
	}

	bucket := viper.GetString("STORAGE_BUCKET")
	if bucket == "" {
		bucket = "patient-manager"
	}

	config := &Config{
		App: AppConfig{
			Port:    viper.GetString("APP_PORT"),
			Env:     viper.GetString("APP_ENV"),
			BaseURL: baseURL,
		},
		DB: DBConfig{
			Host:           viper.GetString("DB_HOST"),
			Port:           viper.GetString("DB_PORT"),
			User:           viper.GetString("DB_USER"),
			Password:       viper.GetString("DB_PASSWORD"),
			Name:           viper.GetString("DB_NAME"),
			MigrationsPath: migrationsPath,
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		SMTP: SMTPConfig{
			Host:     viper.GetString("SMTP_HOST"),
			Port:     smtpPort,
			User:     viper.GetString("SMTP_USER"),
			Password: viper.GetString("SMTP_PASSWORD"),
			From:     viper.GetString("SMTP_FROM"),
		},
		SMS: SMSConfig{
			Enabled:    viper.GetBool("SMS_ENABLED"),
			Provider:   viper.GetString("SMS_PROVIDER"),
			FromNumber: viper.GetString("SMS_FROM_NUMBER"),
		},
		Storage: StorageConfig{
			Endpoint:  viper.GetString("STORAGE_ENDPOINT"),
			AccessKey: viper.GetString("STORAGE_ACCESS_KEY"),
			SecretKey: viper.GetString("STORAGE_SECRET_KEY"),
			Bucket:    bucket,
			UseSSL:    viper.GetBool("STORAGE_USE_SSL"),
		},
		Verification: VerificationConfig{
			TokenTTL:        tokenTTL,
			CleanupInterval: cleanupInterval,
		},
	}

	return config, nil
}
