package config

import (
	"fmt"
	"time"
	_ "time/tzdata"

	"github.com/caarlos0/env/v6"
)

type Config struct {
	AppEnv string `env:"APP_ENV" envDefault:"development"`
	Port   string `env:"PORT" envDefault:"3000"`

	// PostgreSQL
	DBHost       string `env:"DB_HOST" envDefault:"localhost"`
	DBPort       string `env:"DB_PORT" envDefault:"5432"`
	DBUser       string `env:"DB_USER" envDefault:"postgres"`
	DBPassword   string `env:"DB_PASSWORD" envDefault:"postgres"`
	DBName       string `env:"DB_NAME" envDefault:"colaboradores"`
	DBSSLMode    string `env:"DB_SSLMODE" envDefault:"disable"`
	DBMaxRetries int    `env:"DB_MAX_RETRIES" envDefault:"5"`

	// Redis
	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// Kafka, only required by the worker and the consumer
	KafkaBroker        string        `env:"KAFKA_BROKER"`
	OutboxPollInterval time.Duration `env:"OUTBOX_POLL_INTERVAL" envDefault:"3s"`

	// JWT
	JWTSecret        string `env:"JWT_SECRET"`
	JWTExpireMinutes int    `env:"JWT_EXPIRE_MINUTES" envDefault:"720"`

	Attendance AttendanceConfig
}

type AttendanceConfig struct {
	Timezone        string  `env:"ATTENDANCE_TIMEZONE" envDefault:"America/Mexico_City"`
	LateAfter       string  `env:"ATTENDANCE_LATE_AFTER" envDefault:"09:10"`
	DedupPolicy     string  `env:"ATTENDANCE_DEDUP_POLICY" envDefault:"type_subtype"`
	AssignedMargin  float64 `env:"ATTENDANCE_ASSIGNED_MARGIN" envDefault:"1.0"`
	EnforceSchedule bool    `env:"ATTENDANCE_ENFORCE_SCHEDULE" envDefault:"false"`

	// fixed verification site
	SiteLatitude  float64 `env:"ATTENDANCE_SITE_LATITUDE" envDefault:"17.072036983980418"`
	SiteLongitude float64 `env:"ATTENDANCE_SITE_LONGITUDE" envDefault:"-96.75978056140424"`
	SiteRadius    float64 `env:"ATTENDANCE_SITE_RADIUS" envDefault:"100"`
	SiteMargin    float64 `env:"ATTENDANCE_SITE_MARGIN" envDefault:"1.1"`

	// device positioning options
	PositionHighAccuracy bool          `env:"POSITION_HIGH_ACCURACY" envDefault:"true"`
	PositionTimeout      time.Duration `env:"POSITION_TIMEOUT" envDefault:"10s"`
	PositionMaxAge       time.Duration `env:"POSITION_MAX_AGE" envDefault:"0s"`
}

// Load parses the environment. godotenv is loaded by each cmd before this.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.JWTSecret == "" && c.AppEnv == "production" {
		return fmt.Errorf("JWT_SECRET is required in production")
	}
	a := c.Attendance
	if a.AssignedMargin < 1 || a.SiteMargin < 1 {
		return fmt.Errorf("attendance margins must be >= 1.0")
	}
	if a.SiteRadius <= 0 {
		return fmt.Errorf("ATTENDANCE_SITE_RADIUS must be > 0")
	}
	if _, err := time.LoadLocation(a.Timezone); err != nil {
		return fmt.Errorf("invalid ATTENDANCE_TIMEZONE %q: %w", a.Timezone, err)
	}
	if _, err := time.Parse("15:04", a.LateAfter); err != nil {
		return fmt.Errorf("invalid ATTENDANCE_LATE_AFTER %q: %w", a.LateAfter, err)
	}
	return nil
}

func (c Config) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode,
	)
}
