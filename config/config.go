package config

import (
	"errors"
	"io/fs"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	DB        DBConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Admin     AdminConfig
	Telegram  TelegramConfig
	Sheets    SheetsConfig
	Sync      SyncConfig
	Session   SessionConfig
	RateLimit RateLimitConfig
}

type AppConfig struct {
	Port       string
	Env        string
	CORSOrigin string
}

type DBConfig struct {
	Host        string
	Port        string
	User        string
	Password    string
	Name        string
	SSLMode     string
	AutoMigrate bool
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret       string
	AccessExpiry time.Duration
}

// AdminConfig holds the single shared dashboard credential.
// PasswordHash takes precedence over Password when both are set.
type AdminConfig struct {
	Username     string
	Password     string
	PasswordHash string
}

type TelegramConfig struct {
	BotToken string
	Debug    bool
}

// SheetsConfig points the sync job at a spreadsheet. Credentials come either
// from a service-account file or from the individual service-account fields.
type SheetsConfig struct {
	SpreadsheetID       string
	CredentialsFile     string
	ProjectID           string
	PrivateKeyID        string
	PrivateKey          string
	ServiceAccountEmail string
	ClientID            string
}

type SyncConfig struct {
	// Interval between scheduled runs. Zero disables the scheduler.
	Interval time.Duration
}

type SessionConfig struct {
	Store string // "memory" or "redis"
	TTL   time.Duration
}

type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
	LoginPerMinute    int
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		// Environment variables alone are enough in containers.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !isMissingFile(err) {
			return nil, err
		}
	}

	accessExpiry, err := time.ParseDuration(viper.GetString("JWT_ACCESS_EXPIRY"))
	if err != nil {
		accessExpiry = 12 * time.Hour
	}

	sessionTTL, err := time.ParseDuration(viper.GetString("SESSION_TTL"))
	if err != nil {
		sessionTTL = 30 * time.Minute
	}

	config := &Config{
		App: AppConfig{
			Port:       viper.GetString("APP_PORT"),
			Env:        viper.GetString("APP_ENV"),
			CORSOrigin: viper.GetString("CORS_ORIGIN"),
		},
		DB: DBConfig{
			Host:        viper.GetString("DB_HOST"),
			Port:        viper.GetString("DB_PORT"),
			User:        viper.GetString("DB_USER"),
			Password:    viper.GetString("DB_PASSWORD"),
			Name:        viper.GetString("DB_NAME"),
			SSLMode:     viper.GetString("DB_SSLMODE"),
			AutoMigrate: viper.GetBool("DB_AUTO_MIGRATE"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:       viper.GetString("JWT_SECRET"),
			AccessExpiry: accessExpiry,
		},
		Admin: AdminConfig{
			Username:     viper.GetString("ADMIN_USERNAME"),
			Password:     viper.GetString("ADMIN_PASSWORD"),
			PasswordHash: viper.GetString("ADMIN_PASSWORD_HASH"),
		},
		Telegram: TelegramConfig{
			BotToken: viper.GetString("TELEGRAM_BOT_TOKEN"),
			Debug:    viper.GetBool("TELEGRAM_DEBUG"),
		},
		Sheets: SheetsConfig{
			SpreadsheetID:       viper.GetString("GOOGLE_SHEET_ID"),
			CredentialsFile:     viper.GetString("GOOGLE_CREDENTIALS_FILE"),
			ProjectID:           viper.GetString("GOOGLE_PROJECT_ID"),
			PrivateKeyID:        viper.GetString("GOOGLE_PRIVATE_KEY_ID"),
			PrivateKey:          viper.GetString("GOOGLE_PRIVATE_KEY"),
			ServiceAccountEmail: viper.GetString("GOOGLE_SERVICE_ACCOUNT_EMAIL"),
			ClientID:            viper.GetString("GOOGLE_CLIENT_ID"),
		},
		Sync: SyncConfig{
			Interval: time.Duration(viper.GetInt("AUTO_SYNC_INTERVAL")) * time.Minute,
		},
		Session: SessionConfig{
			Store: viper.GetString("SESSION_STORE"),
			TTL:   sessionTTL,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: viper.GetFloat64("RATE_LIMIT_RPS"),
			Burst:             viper.GetInt("RATE_LIMIT_BURST"),
			LoginPerMinute:    viper.GetInt("LOGIN_RATE_LIMIT_PER_MIN"),
		},
	}

	return config, nil
}

func setDefaults() {
	viper.SetDefault("APP_PORT", "5000")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("CORS_ORIGIN", "http://localhost:3000")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_NAME", "healthmon_db")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("DB_AUTO_MIGRATE", true)
	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("ADMIN_USERNAME", "admin")
	viper.SetDefault("AUTO_SYNC_INTERVAL", 5)
	viper.SetDefault("SESSION_STORE", "redis")
	viper.SetDefault("RATE_LIMIT_RPS", 5)
	viper.SetDefault("RATE_LIMIT_BURST", 20)
	viper.SetDefault("LOGIN_RATE_LIMIT_PER_MIN", 5)
}

func isMissingFile(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
