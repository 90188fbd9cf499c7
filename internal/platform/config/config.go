package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr     string `env:"REFGUARD_ADDR" envDefault:":8080"`
	LogLevel string `env:"REFGUARD_LOG_LEVEL" envDefault:"info"`
	Peers    Peers
	Breaker  Breaker
	Database Database
	Redis    RedisConfig
	Seed     Seed
}

// Peers holds the base URL and list path of every remote entity service.
// An empty base URL leaves that kind unregistered.
type Peers struct {
	StateURL        string        `env:"REFGUARD_PEER_STATE_URL"`
	StateListPath   string        `env:"REFGUARD_PEER_STATE_LIST_PATH" envDefault:"/"`
	AddressURL      string        `env:"REFGUARD_PEER_ADDRESS_URL"`
	AddressListPath string        `env:"REFGUARD_PEER_ADDRESS_LIST_PATH" envDefault:"/"`
	UserURL         string        `env:"REFGUARD_PEER_USER_URL"`
	UserListPath    string        `env:"REFGUARD_PEER_USER_LIST_PATH" envDefault:"/"`
	PhotoURL        string        `env:"REFGUARD_PEER_PHOTO_URL"`
	PhotoListPath   string        `env:"REFGUARD_PEER_PHOTO_LIST_PATH" envDefault:"/"`
	Timeout         time.Duration `env:"REFGUARD_PEER_TIMEOUT" envDefault:"5s"`
}

// Breaker tunes the per-peer circuit breaker.
type Breaker struct {
	FailureThreshold int           `env:"REFGUARD_BREAKER_FAILURES" envDefault:"5"`
	SuccessThreshold int           `env:"REFGUARD_BREAKER_SUCCESSES" envDefault:"1"`
	Cooldown         time.Duration `env:"REFGUARD_BREAKER_COOLDOWN" envDefault:"30s"`
}

type Database struct {
	URL string `env:"DATABASE_URL"`
}

type RedisConfig struct {
	URL          string        `env:"REDIS_URL"`
	PoolSize     int           `env:"REDIS_POOL_SIZE" envDefault:"10"`
	MinIdleConns int           `env:"REDIS_MIN_IDLE_CONNS" envDefault:"2"`
	DialTimeout  time.Duration `env:"REDIS_DIAL_TIMEOUT" envDefault:"5s"`
	ReadTimeout  time.Duration `env:"REDIS_READ_TIMEOUT" envDefault:"3s"`
	WriteTimeout time.Duration `env:"REDIS_WRITE_TIMEOUT" envDefault:"3s"`
}

// Seed configures the development data seeder.
type Seed struct {
	Value        uint64 `env:"REFGUARD_SEED" envDefault:"1"`
	Count        int    `env:"REFGUARD_SEED_COUNT" envDefault:"10"`
	Donations    int    `env:"REFGUARD_SEED_DONATIONS" envDefault:"10"`
	FallbackBase int64  `env:"REFGUARD_FALLBACK_BASE" envDefault:"900000"`
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() (Server, error) {
	var cfg Server
	if err := env.Parse(&cfg); err != nil {
		return Server{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.Peers.Timeout <= 0 {
		return Server{}, fmt.Errorf("parse env: REFGUARD_PEER_TIMEOUT must be positive")
	}
	return cfg, nil
}
