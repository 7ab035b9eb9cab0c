package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Booking  BookingConfig
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type DatabaseConfig struct {
	Host         string
	Port         string
	Username     string
	Password     string
	Database     string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  time.Duration
}

type RedisConfig struct {
	Addr string
}

type KafkaConfig struct {
	Brokers  []string
	GroupID  string
	Topics   TopicConfig
	Enabled  bool
	MockMode bool
}

type TopicConfig struct {
	BookingCreated   string
	BookingConfirmed string
	BookingCancelled string
}

type BookingConfig struct {
	SeatLockTTL   time.Duration
	VoucherSecret string
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", ":8080"),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			Username:     getEnv("DB_USERNAME", "booking_user"),
			Password:     getEnv("DB_PASSWORD", "booking_pass"),
			Database:     getEnv("DB_NAME", "booking"),
			MaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvInt("DB_MAX_IDLE_CONNS", 25),
			MaxLifetime:  time.Duration(getEnvInt("DB_MAX_LIFETIME_MINUTES", 5)) * time.Minute,
		},
		Redis: RedisConfig{
			Addr: getEnv("REDIS_ADDR", "localhost:6379"),
		},
		Kafka: KafkaConfig{
			Brokers:  []string{getEnv("KAFKA_BROKERS", "localhost:9092")},
			GroupID:  getEnv("KAFKA_GROUP_ID", "booking-service-group"),
			Enabled:  getEnvBool("KAFKA_ENABLED", true),
			MockMode: getEnvBool("KAFKA_MOCK_MODE", false),
			Topics: TopicConfig{
				BookingCreated:   getEnv("KAFKA_TOPIC_BOOKING_CREATED", "booking-created"),
				BookingConfirmed: getEnv("KAFKA_TOPIC_BOOKING_CONFIRMED", "booking-confirmed"),
				BookingCancelled: getEnv("KAFKA_TOPIC_BOOKING_CANCELLED", "booking-cancelled"),
			},
		},
		Booking: BookingConfig{
			SeatLockTTL:   time.Duration(getEnvInt("SEAT_LOCK_TTL_MINUTES", 5)) * time.Minute,
			VoucherSecret: getEnv("VOUCHER_SECRET", "dev-voucher-secret"),
		},
	}
}

// DSN builds the Postgres connection string for the pgdriver connector.
func (d DatabaseConfig) DSN() string {
	return "postgres://" + d.Username + ":" + d.Password + "@" + d.Host + ":" + d.Port + "/" + d.Database + "?sslmode=disable"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
