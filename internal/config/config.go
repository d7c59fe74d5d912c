package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/kirinyoku/theatrego/internal/slots"
)

type Config struct {
	Server       ServerConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	RabbitMQ     RabbitMQConfig
	Availability AvailabilityConfig
	Cache        CacheConfig
	RateLimit    RateLimitConfig
}

type ServerConfig struct {
	Host        string
	Port        int
	CORSOrigins []string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	PoolSize int
}

type PostgresConfig struct {
	User        string
	Password    string
	Name        string
	Host        string
	Port        int
	SSLMode     string
	MaxConns    int32
	AutoMigrate bool
}

// RabbitMQConfig enables booking notifications when URL is set.
type RabbitMQConfig struct {
	URL             string
	ConsumerEnabled bool
}

type AvailabilityConfig struct {
	Location *time.Location
	// Batch applies to the all-theatres query, Single to the one-theatre query.
	Batch             slots.WeekendAware
	Single            slots.Fixed
	Slots             slots.Config
	PopularityEnabled bool
	// PopularitySeed of 0 seeds from the clock.
	PopularitySeed uint64
}

type CacheConfig struct {
	WebsiteDataTTL time.Duration
}

type RateLimitConfig struct {
	Limit          int
	Window         time.Duration
	IdempotencyTTL time.Duration
}

func New() (*Config, error) {
	const op = "config.New"

	_ = godotenv.Load()

	serverPort, err := intEnv("SERVER_PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	serverCfg := ServerConfig{
		Host:        stringEnv("SERVER_HOST", "localhost"),
		Port:        serverPort,
		CORSOrigins: listEnv("CORS_ORIGINS"),
	}

	postgresCfg, err := postgresFromEnv()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	redisDB, err := intEnv("REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	redisPool, err := intEnv("REDIS_POOL_SIZE", 0)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	redisCfg := RedisConfig{
		Addr:     stringEnv("REDIS_ADDR", "localhost:6379"),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       redisDB,
		PoolSize: redisPool,
	}

	consumer, err := boolEnv("RABBITMQ_CONSUMER", true)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rabbitCfg := RabbitMQConfig{
		URL:             os.Getenv("RABBITMQ_URL"),
		ConsumerEnabled: consumer,
	}

	availabilityCfg, err := availabilityFromEnv()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	websiteTTL, err := durationEnv("WEBSITE_DATA_TTL", 60*time.Second)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rateLimitCfg, err := rateLimitFromEnv()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Config{
		Server:       serverCfg,
		Postgres:     postgresCfg,
		Redis:        redisCfg,
		RabbitMQ:     rabbitCfg,
		Availability: availabilityCfg,
		Cache:        CacheConfig{WebsiteDataTTL: websiteTTL},
		RateLimit:    rateLimitCfg,
	}, nil
}

func postgresFromEnv() (PostgresConfig, error) {
	port, err := intEnv("POSTGRES_PORT", 5432)
	if err != nil {
		return PostgresConfig{}, err
	}

	maxConns, err := intEnv("POSTGRES_MAX_CONNS", 0)
	if err != nil {
		return PostgresConfig{}, err
	}

	autoMigrate, err := boolEnv("DB_AUTO_MIGRATE", true)
	if err != nil {
		return PostgresConfig{}, err
	}

	cfg := PostgresConfig{
		User:        os.Getenv("POSTGRES_USER"),
		Password:    os.Getenv("POSTGRES_PASSWORD"),
		Name:        os.Getenv("POSTGRES_DB"),
		Host:        stringEnv("POSTGRES_HOST", "localhost"),
		Port:        port,
		SSLMode:     stringEnv("POSTGRES_SSLMODE", "disable"),
		MaxConns:    int32(maxConns),
		AutoMigrate: autoMigrate,
	}

	switch {
	case cfg.User == "":
		return PostgresConfig{}, fmt.Errorf("missing POSTGRES_USER")
	case cfg.Password == "":
		return PostgresConfig{}, fmt.Errorf("missing POSTGRES_PASSWORD")
	case cfg.Name == "":
		return PostgresConfig{}, fmt.Errorf("missing POSTGRES_DB")
	}

	return cfg, nil
}

func availabilityFromEnv() (AvailabilityConfig, error) {
	loc := time.Local
	if tz := os.Getenv("TIMEZONE"); tz != "" {
		l, err := time.LoadLocation(tz)
		if err != nil {
			return AvailabilityConfig{}, fmt.Errorf("invalid TIMEZONE: %w", err)
		}
		loc = l
	}

	def := slots.DefaultWeekendAware()

	open, err := durationEnv("BUSINESS_OPEN", def.Weekday.Open)
	if err != nil {
		return AvailabilityConfig{}, err
	}

	weekdayClose, err := durationEnv("WEEKDAY_CLOSE", def.Weekday.Close)
	if err != nil {
		return AvailabilityConfig{}, err
	}

	weekendClose, err := durationEnv("WEEKEND_CLOSE", def.Weekend.Close)
	if err != nil {
		return AvailabilityConfig{}, err
	}

	singleClose, err := durationEnv("SINGLE_CLOSE", slots.DefaultFixed().Hours.Close)
	if err != nil {
		return AvailabilityConfig{}, err
	}

	slotCfg := slots.DefaultConfig()

	if slotCfg.Length, err = durationEnv("SLOT_LENGTH", slotCfg.Length); err != nil {
		return AvailabilityConfig{}, err
	}
	if slotCfg.Length <= 0 {
		return AvailabilityConfig{}, fmt.Errorf("invalid SLOT_LENGTH: must be positive")
	}

	if raw := listEnv("SLOT_STARTS"); len(raw) > 0 {
		starts, err := parseSlotStarts(raw)
		if err != nil {
			return AvailabilityConfig{}, err
		}
		slotCfg.Starts = starts
	}

	if slotCfg.Rule, err = slots.ParseEligibilityRule(os.Getenv("ELIGIBILITY_RULE")); err != nil {
		return AvailabilityConfig{}, fmt.Errorf("invalid ELIGIBILITY_RULE: %w", err)
	}

	popularity, err := boolEnv("POPULARITY_ENABLED", true)
	if err != nil {
		return AvailabilityConfig{}, err
	}

	var seed uint64
	if raw := os.Getenv("POPULARITY_SEED"); raw != "" {
		if seed, err = strconv.ParseUint(raw, 10, 64); err != nil {
			return AvailabilityConfig{}, fmt.Errorf("invalid POPULARITY_SEED: %w", err)
		}
	}

	for name, closeAt := range map[string]time.Duration{
		"WEEKDAY_CLOSE": weekdayClose,
		"WEEKEND_CLOSE": weekendClose,
		"SINGLE_CLOSE":  singleClose,
	} {
		if closeAt <= open || closeAt > 24*time.Hour {
			return AvailabilityConfig{}, fmt.Errorf("invalid %s: must be after BUSINESS_OPEN and at most 24h", name)
		}
	}

	return AvailabilityConfig{
		Location: loc,
		Batch: slots.WeekendAware{
			Weekday: slots.Hours{Open: open, Close: weekdayClose},
			Weekend: slots.Hours{Open: open, Close: weekendClose},
		},
		Single:            slots.Fixed{Hours: slots.Hours{Open: open, Close: singleClose}},
		Slots:             slotCfg,
		PopularityEnabled: popularity,
		PopularitySeed:    seed,
	}, nil
}

func rateLimitFromEnv() (RateLimitConfig, error) {
	limit, err := intEnv("RATE_LIMIT", 10)
	if err != nil {
		return RateLimitConfig{}, err
	}

	if limit < 1 {
		return RateLimitConfig{}, fmt.Errorf("invalid RATE_LIMIT: must be at least 1")
	}

	window, err := durationEnv("RATE_LIMIT_WINDOW", time.Minute)
	if err != nil {
		return RateLimitConfig{}, err
	}
	if window <= 0 {
		return RateLimitConfig{}, fmt.Errorf("invalid RATE_LIMIT_WINDOW: must be positive")
	}

	idemTTL, err := durationEnv("IDEMPOTENCY_TTL", 2*time.Hour)
	if err != nil {
		return RateLimitConfig{}, err
	}

	return RateLimitConfig{Limit: limit, Window: window, IdempotencyTTL: idemTTL}, nil
}

// parseSlotStarts reads offsets from midnight like "9h" or "21h30m". A bare
// number is taken as an hour.
func parseSlotStarts(raw []string) ([]time.Duration, error) {
	out := make([]time.Duration, 0, len(raw))
	for _, s := range raw {
		var d time.Duration
		if h, err := strconv.Atoi(s); err == nil {
			d = time.Duration(h) * time.Hour
		} else if d, err = time.ParseDuration(s); err != nil {
			return nil, fmt.Errorf("invalid SLOT_STARTS entry %q: %w", s, err)
		}
		if d < 0 || d >= 24*time.Hour {
			return nil, fmt.Errorf("invalid SLOT_STARTS entry %q: must be within the day", s)
		}
		out = append(out, d)
	}
	return out, nil
}

func stringEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func intEnv(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func boolEnv(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

// listEnv splits a comma separated variable, dropping empty items.
func listEnv(key string) []string {
	var out []string
	for item := range strings.SplitSeq(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
