package app

import (
	"errors"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Port int    `env:"PORT" envDefault:"8080"`
	Env  string `env:"ENV" envDefault:"dev"`

	DatabaseFile string `env:"DATABASE_FILE" envDefault:"mcplanning.db"`

	Issuer           string        `env:"JWT_ISSUER" envDefault:"mcplanning-api"`
	JWTSecret        string        `env:"JWT_SECRET"`
	JWTExpiresIn     time.Duration `env:"JWT_EXPIRES_IN" envDefault:"15m"`
	RefreshSecret    string        `env:"JWT_REFRESH_SECRET"`
	RefreshExpiresIn time.Duration `env:"JWT_REFRESH_EXPIRES_IN" envDefault:"168h"`

	BcryptCost int `env:"BCRYPT_COST" envDefault:"10"`

	FrontendURL  string `env:"FRONTEND_URL" envDefault:"http://localhost:3000"`
	ResendAPIKey string `env:"RESEND_API_KEY"`
	ResendFrom   string `env:"RESEND_FROM" envDefault:"MCPlanning <noreply@mcplanning.app>"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	ShutdownGracePeriod time.Duration `env:"SHUTDOWN_GRACE_PERIOD" envDefault:"10s"`
}

// LoadConfig reads .env (when present) and the process environment.
// The two JWT secrets are the only hard requirements; they must also
// differ so a refresh token can never pass access verification.
func LoadConfig() (Config, error) {
	_ = godotenv.Load()

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, err
	}

	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET is required")
	}
	if cfg.RefreshSecret == "" {
		return Config{}, errors.New("JWT_REFRESH_SECRET is required")
	}
	if cfg.JWTSecret == cfg.RefreshSecret {
		return Config{}, errors.New("JWT_SECRET and JWT_REFRESH_SECRET must differ")
	}

	return cfg, nil
}
