package utils

import (
	"errors"
	"fmt"
	"os"
	"time"

	"cinema-ticketing/internal/data/entity"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

type Config struct {
	App         AppConfig
	Database    DatabaseConfig
	Session     SessionConfig
	Admin       AdminConfig
	Redis       RedisConfig
	AMQP        AMQPConfig
	Reservation ReservationConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

type SessionConfig struct {
	ExpiryHours int
}

// AdminConfig seeds the first admin account; empty Email disables it.
type AdminConfig struct {
	Email    string
	Password string
}

type RedisConfig struct {
	Addr       string
	Password   string
	DB         int
	SeatMapTTL time.Duration
}

type AMQPConfig struct {
	URL   string
	Queue string
}

type ReservationConfig struct {
	ClaimPolicy      string
	ScreeningBuffer  time.Duration
	ScreeningLead    time.Duration
	DefaultSeatPrice decimal.Decimal
}

func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")

	// Set defaults
	v.SetDefault("APP_NAME", "cinema-ticketing")
	v.SetDefault("PORT", "8080")
	v.SetDefault("DEBUG", false)
	v.SetDefault("LOG_PATH", "logs/")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("SESSION_EXPIRY_HOURS", 24)
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("SEATMAP_CACHE_TTL", "30s")
	v.SetDefault("AMQP_QUEUE", "cinema.events")
	v.SetDefault("RESERVATION_CLAIM_POLICY", "exclusive")
	v.SetDefault("SCREENING_BUFFER_MINUTES", 15)
	v.SetDefault("SCREENING_LEAD_MINUTES", 15)
	v.SetDefault("DEFAULT_SEAT_PRICE", "500.00")

	// .env is optional, plain environment variables are enough
	if err := v.ReadInConfig(); err != nil && !errors.Is(err, os.ErrNotExist) {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	v.AutomaticEnv()

	price, err := decimal.NewFromString(v.GetString("DEFAULT_SEAT_PRICE"))
	if err != nil {
		return nil, fmt.Errorf("parse DEFAULT_SEAT_PRICE: %w", err)
	}
	price, err = entity.NormalizePrice(price)
	if err != nil {
		return nil, fmt.Errorf("DEFAULT_SEAT_PRICE %s: %w", v.GetString("DEFAULT_SEAT_PRICE"), err)
	}

	config := &Config{
		App: AppConfig{
			Name:    v.GetString("APP_NAME"),
			Port:    v.GetString("PORT"),
			Debug:   v.GetBool("DEBUG"),
			LogPath: v.GetString("LOG_PATH"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			Name:     v.GetString("DB_NAME"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASS"),
			MaxConns: v.GetInt32("DB_MAX_CONNS"),
		},
		Session: SessionConfig{
			ExpiryHours: v.GetInt("SESSION_EXPIRY_HOURS"),
		},
		Admin: AdminConfig{
			Email:    v.GetString("ADMIN_EMAIL"),
			Password: v.GetString("ADMIN_PASSWORD"),
		},
		Redis: RedisConfig{
			Addr:       v.GetString("REDIS_ADDR"),
			Password:   v.GetString("REDIS_PASSWORD"),
			DB:         v.GetInt("REDIS_DB"),
			SeatMapTTL: v.GetDuration("SEATMAP_CACHE_TTL"),
		},
		AMQP: AMQPConfig{
			URL:   v.GetString("AMQP_URL"),
			Queue: v.GetString("AMQP_QUEUE"),
		},
		Reservation: ReservationConfig{
			ClaimPolicy:      v.GetString("RESERVATION_CLAIM_POLICY"),
			ScreeningBuffer:  time.Duration(v.GetInt("SCREENING_BUFFER_MINUTES")) * time.Minute,
			ScreeningLead:    time.Duration(v.GetInt("SCREENING_LEAD_MINUTES")) * time.Minute,
			DefaultSeatPrice: price,
		},
	}

	return config, nil
}
