package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Configはアプリ全体の設定
type Config struct {
	Port  string `envconfig:"PORT" default:"8080"`
	GoEnv string `envconfig:"GO_ENV" default:"development"` // development/production

	// postgres / mysql
	DBDriver    string `envconfig:"DB_DRIVER" default:"postgres"`
	DatabaseURL string `envconfig:"DATABASE_URL"` // あれば最優先
	DBHost      string `envconfig:"DB_HOST" default:"localhost"`
	DBPort      int    `envconfig:"DB_PORT" default:"5432"`
	DBUser      string `envconfig:"DB_USER" default:"postgres"`
	DBPassword  string `envconfig:"DB_PASSWORD" default:"postgres"`
	DBName      string `envconfig:"DB_NAME" default:"sports_booking"`
	DBSSLMode   string `envconfig:"DB_SSLMODE" default:"disable"`

	AccessTokenSecret  string        `envconfig:"ACCESS_TOKEN_SECRET_SIGNATURE" required:"true"`
	RefreshTokenSecret string        `envconfig:"REFRESH_TOKEN_SECRET_SIGNATURE" required:"true"`
	AccessTokenTTL     time.Duration `envconfig:"ACCESS_TOKEN_EXPIRES_IN" default:"15m"`
	RefreshTokenTTL    time.Duration `envconfig:"REFRESH_TOKEN_EXPIRES_IN" default:"72h"`
	TokenSweepInterval time.Duration `envconfig:"TOKEN_SWEEP_INTERVAL" default:"1h"`
	BcryptCost         int           `envconfig:"BCRYPT_COST" default:"12"`
	CookieSecure       bool          `envconfig:"COOKIE_SECURE" default:"false"`

	// 空きコート計算に使うタイムゾーン
	Timezone string `envconfig:"APP_TIMEZONE" default:"Asia/Ho_Chi_Minh"`
	// trueなら日を跨ぐ予約を除外する旧仕様のフィルタ
	AvailabilityStrictDayFilter bool `envconfig:"AVAILABILITY_STRICT_DAY_FILTER" default:"false"`

	// 空ならレート制限は無効
	RedisAddr      string        `envconfig:"REDIS_ADDR"`
	RedisPassword  string        `envconfig:"REDIS_PASSWORD"`
	RedisDB        int           `envconfig:"REDIS_DB" default:"0"`
	AuthRateLimit  int           `envconfig:"AUTH_RATE_LIMIT" default:"10"`
	AuthRateWindow time.Duration `envconfig:"AUTH_RATE_WINDOW" default:"1m"`
}

// Loadは.env（あれば）と環境変数から設定を読む
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) IsProduction() bool {
	return strings.EqualFold(c.GoEnv, "production")
}

// ロケーションを返す（validate済み前提）
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c *Config) validate() error {
	c.DBDriver = strings.ToLower(strings.TrimSpace(c.DBDriver))
	switch c.DBDriver {
	case "postgres", "mysql":
	default:
		return fmt.Errorf("DB_DRIVER must be postgres or mysql: %q", c.DBDriver)
	}

	if strings.TrimSpace(c.AccessTokenSecret) == "" {
		return fmt.Errorf("ACCESS_TOKEN_SECRET_SIGNATURE is required")
	}
	if strings.TrimSpace(c.RefreshTokenSecret) == "" {
		return fmt.Errorf("REFRESH_TOKEN_SECRET_SIGNATURE is required")
	}
	if c.AccessTokenTTL <= 0 || c.RefreshTokenTTL <= 0 {
		return fmt.Errorf("token ttl must be positive")
	}
	if c.RefreshTokenTTL <= c.AccessTokenTTL {
		return fmt.Errorf("REFRESH_TOKEN_EXPIRES_IN must be longer than ACCESS_TOKEN_EXPIRES_IN")
	}
	if c.TokenSweepInterval <= 0 {
		return fmt.Errorf("TOKEN_SWEEP_INTERVAL must be positive")
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("APP_TIMEZONE is invalid: %w", err)
	}
	if c.RedisAddr != "" && (c.AuthRateLimit <= 0 || c.AuthRateWindow <= 0) {
		return fmt.Errorf("AUTH_RATE_LIMIT and AUTH_RATE_WINDOW must be positive")
	}
	return nil
}
