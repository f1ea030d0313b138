package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/bookvault/api/internal/config"
	"github.com/bookvault/api/internal/events"
	"github.com/bookvault/api/internal/httpserver"
	"github.com/bookvault/api/internal/logging"
	"github.com/bookvault/api/internal/middleware"
	"github.com/bookvault/api/internal/repo"
	"github.com/bookvault/api/internal/service"
	"github.com/bookvault/api/internal/tokens"
)

func main() {
	cfg := config.Load()
	cfg.MustValidate()

	logger := logging.New(cfg.LogLevel)
	slog.SetDefault(logger)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.RequestLogger(logger))
	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := config.InitDB(initCtx, cfg)
	cancel()
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	userRepo := &repo.GormRepo{DB: db}
	issuer := &tokens.Issuer{
		AccessSecret:  cfg.AccessSecret,
		RefreshSecret: cfg.RefreshSecret,
		AccessTTL:     cfg.AccessTTL,
		RefreshTTL:    cfg.RefreshTTL,
	}
	producer := events.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
	defer producer.Close()

	httpserver.Register(e, &httpserver.Deps{
		Auth: &httpserver.AuthHTTP{
			Svc: &service.AuthService{Repo: userRepo, Tokens: issuer, Events: producer},
		},
		Users: &httpserver.UsersHTTP{
			Svc: &service.UsersService{Repo: userRepo},
		},
		Guard: middleware.NewGuard(cfg.AccessSecret, cfg.RefreshSecret),
	})

	go func() {
		if err := e.Start(cfg.ServerAddr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("echo start: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("echo shutdown: %v", err)
	}
}
