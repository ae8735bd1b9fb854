package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"tastyoulu/api/internal/account"
	"tastyoulu/api/internal/app"
	"tastyoulu/api/internal/assistant"
	"tastyoulu/api/internal/blob"
	"tastyoulu/api/internal/config"
	"tastyoulu/api/internal/email"
	"tastyoulu/api/internal/search"
	"tastyoulu/api/internal/store"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	db, err := store.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Fatal("database connection failed")
	}
	defer db.Close()

	if err := store.ApplyMigrations(ctx, db, cfg.MigrationsDir); err != nil {
		log.WithError(err).Fatal("migrations failed")
	}

	dataStore := store.NewPostgresStore(db)

	pgfts := search.NewPgFTS(db)
	var meiliClient *search.Meili
	if strings.TrimSpace(cfg.MeiliURL) != "" {
		meiliClient = search.NewMeili(cfg.MeiliURL, cfg.MeiliMasterKey, log)
		defer meiliClient.Close()
	}
	searchService := search.NewService(meiliClient, pgfts, log)
	searchService.ReindexAllFromPG(ctx)

	mailer := email.NewService(email.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
		FromName: cfg.SMTPFromName,
	})
	if !mailer.IsConfigured() {
		log.Warn("SMTP not configured, password reset mail disabled")
	}

	var windows assistant.Windows
	if strings.TrimSpace(cfg.RedisURL) != "" {
		log.Info("using Redis for conversation windows")
		redisWindows, err := assistant.NewRedisWindows(cfg.RedisURL)
		if err != nil {
			log.WithError(err).Fatal("redis connection failed")
		}
		windows = redisWindows
	} else {
		log.Info("using in-process conversation windows")
		windows = assistant.NewMemoryWindows()
	}
	defer windows.Close()

	provider := assistant.NewClient(cfg.AIBaseURL, cfg.AIAPIKey, cfg.AIModel, log)
	assistantService := assistant.NewService(windows, provider, log)

	accounts := account.NewService(dataStore, mailer, log)

	secret := []byte(cfg.JWTSecret)
	var service *app.Service
	if strings.TrimSpace(cfg.MinioEndpoint) != "" {
		avatars, err := blob.NewService(ctx, blob.Config{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			Bucket:    cfg.MinioBucket,
			UseSSL:    cfg.MinioUseSSL,
		}, log)
		if err != nil {
			log.WithError(err).Fatal("object store connection failed")
		}
		service = app.NewService(dataStore, accounts, searchService, assistantService, avatars, secret, cfg.TokenTTL, log)
	} else {
		log.Info("object store not configured, avatar uploads disabled")
		service = app.NewService(dataStore, accounts, searchService, assistantService, nil, secret, cfg.TokenTTL, log)
	}

	httpServer := app.NewHTTPServer(service, cfg.CORSOrigin, log)
	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpServer.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.WithField("addr", cfg.Addr).Info("TastyOulu API listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("server failed")
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("shutdown error")
	}
}
