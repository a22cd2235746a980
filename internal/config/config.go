package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	DefaultSessionSecret = "dev-secret-change-me"

	StoreFile     = "file"
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
)

// Config 的所有字段都有默认值，零配置启动时与平面文件布局 data/、chatrooms/、pfp/ 一致。
type Config struct {
	Port            string `env:"APP_PORT" envDefault:"8080"`
	Env             string `env:"APP_ENV" envDefault:"dev"`
	SessionSecret   string `env:"SESSION_SECRET" envDefault:"dev-secret-change-me"`
	SessionTTLHours int    `env:"SESSION_TTL_HOURS" envDefault:"720"`
	StoreDriver     string `env:"STORE_DRIVER" envDefault:"file"`
	DatabaseDSN     string `env:"DATABASE_DSN"`
	DataDir         string `env:"DATA_DIR" envDefault:"data"`
	ChatroomDir     string `env:"CHATROOM_DIR" envDefault:"chatrooms"`
	PfpDir          string `env:"PFP_DIR" envDefault:"pfp"`
}

// Load 从环境变量读取配置。
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.SessionTTLHours <= 0 {
		cfg.SessionTTLHours = 720
	}
	return cfg, nil
}

// SessionTTL 返回会话令牌有效期。
func (c Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLHours) * time.Hour
}

// Validate 检查配置的一致性；非 dev 环境禁止使用默认会话密钥。
func Validate(cfg Config) error {
	if cfg.Port == "" {
		return errors.New("APP_PORT must not be empty")
	}
	switch cfg.StoreDriver {
	case StoreFile:
		if cfg.DataDir == "" || cfg.ChatroomDir == "" {
			return errors.New("DATA_DIR and CHATROOM_DIR must not be empty")
		}
	case StorePostgres, StoreSQLite:
		if cfg.DatabaseDSN == "" {
			return fmt.Errorf("DATABASE_DSN is required for store driver %q", cfg.StoreDriver)
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}
	if cfg.PfpDir == "" {
		return errors.New("PFP_DIR must not be empty")
	}
	if cfg.SessionSecret == "" {
		return errors.New("SESSION_SECRET must not be empty")
	}
	if cfg.Env != "dev" && cfg.SessionSecret == DefaultSessionSecret {
		return errors.New("SESSION_SECRET must be changed outside dev")
	}
	return nil
}
