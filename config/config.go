package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type DatabaseConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	Name           string `mapstructure:"name"`
	SSLMode        string `mapstructure:"sslmode"`
	MigrationsPath string `mapstructure:"migrations_path"`
}

// DSN returns the lib/pq connection string. The password is omitted when
// redact is true so the result can be logged.
func (d DatabaseConfig) DSN(redact bool) string {
	if redact {
		return fmt.Sprintf("host=%s port=%d user=%s dbname=%s sslmode=%s",
			d.Host, d.Port, d.User, d.Name, d.SSLMode)
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	SecureCookies  bool     `mapstructure:"secure_cookies"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	StaticDir      string   `mapstructure:"static_dir"`
	// TrustedProxies lists proxy addresses or CIDRs whose X-Forwarded-For
	// header is believed. Empty means the header is ignored.
	TrustedProxies []string `mapstructure:"trusted_proxies"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Enabled reports whether a Redis server is configured.
func (r RedisConfig) Enabled() bool {
	return r.Host != ""
}

type JWTConfig struct {
	AccessSecret  string        `mapstructure:"access_secret"`
	RefreshSecret string        `mapstructure:"refresh_secret"`
	AccessExpiry  time.Duration `mapstructure:"access_expiry"`
	RefreshExpiry time.Duration `mapstructure:"refresh_expiry"`
	// LedgerTTL is how long a stored refresh token row stays valid. It is
	// computed from the server clock at insert time, separately from the
	// token's own exp claim.
	LedgerTTL time.Duration `mapstructure:"ledger_ttl"`
}

type BcryptConfig struct {
	Cost int `mapstructure:"cost"`
}

type RateLimitConfig struct {
	Window         time.Duration `mapstructure:"window"`
	MaxRequests    int           `mapstructure:"max_requests"`
	LoginWindow    time.Duration `mapstructure:"login_window"`
	LoginMax       int           `mapstructure:"login_max"`
	RegisterWindow time.Duration `mapstructure:"register_window"`
	RegisterMax    int           `mapstructure:"register_max"`
}

type LedgerConfig struct {
	// PurgeSchedule is a cron spec for deleting expired refresh tokens.
	// Empty disables the job.
	PurgeSchedule string `mapstructure:"purge_schedule"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Bcrypt    BcryptConfig    `mapstructure:"bcrypt"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Ledger    LedgerConfig    `mapstructure:"ledger"`
	Log       LogConfig       `mapstructure:"log"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "4000")
	v.SetDefault("server.secure_cookies", false)
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("server.static_dir", "")
	v.SetDefault("server.trusted_proxies", []string{})

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "finance")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.migrations_path", "db/migrations")

	v.SetDefault("redis.host", "")
	v.SetDefault("redis.port", "6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("jwt.access_secret", "")
	v.SetDefault("jwt.refresh_secret", "")
	v.SetDefault("jwt.access_expiry", 15*time.Minute)
	v.SetDefault("jwt.refresh_expiry", 7*24*time.Hour)
	v.SetDefault("jwt.ledger_ttl", 7*24*time.Hour)

	v.SetDefault("bcrypt.cost", 12)

	v.SetDefault("rate_limit.window", 15*time.Minute)
	v.SetDefault("rate_limit.max_requests", 100)
	v.SetDefault("rate_limit.login_window", 15*time.Minute)
	v.SetDefault("rate_limit.login_max", 5)
	v.SetDefault("rate_limit.register_window", time.Hour)
	v.SetDefault("rate_limit.register_max", 3)

	v.SetDefault("ledger.purge_schedule", "")

	v.SetDefault("log.level", "info")
}

// LoadConfig reads config.yml from path, applies environment overrides
// (e.g. JWT_ACCESS_SECRET for jwt.access_secret) and validates the result.
// A missing config file is not an error; defaults and env are used instead.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yml")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the invariants the auth core relies on.
func (c *Config) Validate() error {
	if c.JWT.AccessSecret == "" || c.JWT.RefreshSecret == "" {
		return errors.New("jwt.access_secret and jwt.refresh_secret must be set")
	}
	if c.JWT.AccessSecret == c.JWT.RefreshSecret {
		return errors.New("jwt.access_secret and jwt.refresh_secret must differ")
	}
	if c.JWT.AccessExpiry <= 0 || c.JWT.RefreshExpiry <= 0 || c.JWT.LedgerTTL <= 0 {
		return errors.New("jwt expiries must be positive")
	}
	if c.Bcrypt.Cost < 4 || c.Bcrypt.Cost > 31 {
		return fmt.Errorf("bcrypt.cost %d out of range", c.Bcrypt.Cost)
	}
	return nil
}
