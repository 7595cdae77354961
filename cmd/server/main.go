package main

import (
	"flag"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"zhilfond/server/config"
	"zhilfond/server/internal/api"
	"zhilfond/server/internal/auth"
	"zhilfond/server/internal/captcha"
	"zhilfond/server/internal/database"
	"zhilfond/server/internal/listings"
	"zhilfond/server/internal/mailer"
	"zhilfond/server/internal/notify"
	"zhilfond/server/internal/oauth"
)

func main() {
	migratePasswords := flag.Bool("migrate-passwords", false, "rehash legacy plaintext passwords and exit")
	flag.Parse()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	logger.Infof("Using database at: %s", cfg.Database.Path)
	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize database")
	}
	defer db.Close()

	logger.Info("Running database migrations...")
	if err := db.MigrateSchema(); err != nil {
		logger.WithError(err).Fatal("Failed to run database migrations")
	}

	if *migratePasswords {
		count, err := auth.MigratePlaintextPasswords(db, logger)
		if err != nil {
			logger.WithError(err).Fatal("Password migration failed")
		}
		logger.Infof("Password migration complete, %d accounts rehashed", count)
		return
	}

	issuer := auth.NewTokenIssuer(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTL)*time.Hour)

	var revoked auth.Revoker
	if cfg.Auth.RedisAddr != "" {
		store, err := auth.NewRevocationStore(cfg.Auth.RedisAddr)
		if err != nil {
			logger.WithError(err).Fatal("Failed to connect to the revocation store")
		}
		logger.Infof("Token revocation store at %s", cfg.Auth.RedisAddr)
		revoked = store
	}

	notifications := notify.NewQueue(100, logger)
	if cfg.SMTP.Host != "" {
		mail := mailer.NewMailer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Email, cfg.SMTP.Password, logger)
		notifications.Subscribe(mail.Send)
	}
	notifications.Start()
	defer notifications.Close()

	oauthProvider := oauth.NewProvider(
		cfg.OAuth.ClientID,
		cfg.OAuth.ClientSecret,
		cfg.OAuth.RedirectURL,
		cfg.OAuth.AuthURL,
		cfg.OAuth.TokenURL,
		cfg.OAuth.ProfileURL,
		logger,
	)
	captchaVerifier := captcha.NewVerifier(cfg.Captcha.Secret, cfg.Captcha.VerifyURL, logger)

	listingService := listings.NewService(db, logger, notifications, cfg.SMTP.ModeratorEmail)

	handler := api.NewHandler(
		db,
		logger,
		listingService,
		issuer,
		revoked,
		oauthProvider,
		captchaVerifier,
		cfg.Server.DevMode,
		cfg.OAuth.LoginPage,
	)

	if !cfg.Server.DevMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	api.SetupRoutes(router, handler, issuer, revoked, cfg.Server.AllowedOrigins)

	logger.Infof("Starting server on port %s", cfg.Server.Port)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		logger.WithError(err).Fatal("Server failed to start")
	}
}
