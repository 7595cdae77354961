package config

import (
	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	// HTTP server
	Server struct {
		Port string `env:"SERVER_PORT" envDefault:"5250"`
		// Comma-separated origins allowed by CORS
		AllowedOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
		// Echo diagnostic details in error responses (never in production)
		DevMode bool `env:"DEV_MODE" envDefault:"false"`
	}

	Database struct {
		Path string `env:"DATABASE_PATH" envDefault:"database/zhilfond.db"`
	}

	Auth struct {
		JWTSecret string `env:"JWT_SECRET,required"`
		// Token lifetime in hours
		TokenTTL int `env:"TOKEN_TTL_HOURS" envDefault:"24"`
		// Optional Redis address for the logout revocation store
		RedisAddr string `env:"REDIS_ADDR"`
	}

	OAuth struct {
		ClientID     string `env:"OAUTH_CLIENT_ID"`
		ClientSecret string `env:"OAUTH_CLIENT_SECRET"`
		RedirectURL  string `env:"OAUTH_REDIRECT_URL"`
		AuthURL      string `env:"OAUTH_AUTH_URL"`
		TokenURL     string `env:"OAUTH_TOKEN_URL"`
		ProfileURL   string `env:"OAUTH_PROFILE_URL"`
		// Where the browser lands after the callback
		LoginPage string `env:"OAUTH_LOGIN_PAGE" envDefault:"/login"`
	}

	Captcha struct {
		Secret    string `env:"CAPTCHA_SECRET"`
		VerifyURL string `env:"CAPTCHA_VERIFY_URL" envDefault:"https://smartcaptcha.yandexcloud.net/validate"`
	}

	SMTP struct {
		Host     string `env:"SMTP_HOST"`
		Port     int    `env:"SMTP_PORT" envDefault:"587"`
		Email    string `env:"SMTP_EMAIL"`
		Password string `env:"SMTP_PASSWORD"`
		// Moderators notified about new submissions
		ModeratorEmail string `env:"MODERATOR_EMAIL"`
	}
}

func LoadConfig() (*Config, error) {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
