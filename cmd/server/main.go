package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kanatbekov/ticket-booking/config"
	"github.com/kanatbekov/ticket-booking/internal/cache"
	"github.com/kanatbekov/ticket-booking/internal/domain"
	"github.com/kanatbekov/ticket-booking/internal/email"
	"github.com/kanatbekov/ticket-booking/internal/health"
	"github.com/kanatbekov/ticket-booking/internal/infrastructure/postgres"
	ctxlog "github.com/kanatbekov/ticket-booking/internal/log"
	"github.com/kanatbekov/ticket-booking/internal/metrics"
	"github.com/kanatbekov/ticket-booking/internal/token"
	httptransport "github.com/kanatbekov/ticket-booking/internal/transport/http"
	"github.com/kanatbekov/ticket-booking/internal/transport/http/handler"
	"github.com/kanatbekov/ticket-booking/internal/usecase"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := newLogger(cfg.Env, cfg.SlogLevel())

	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		stop()
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	var ticketCache *cache.Cache
	var cachePinger health.Pinger
	if cfg.RedisURL != "" {
		ticketCache, err = cache.New(ctx, cfg.RedisURL)
		if err != nil {
			stop()
			log.Fatalf("redis: %v", err)
		}
		defer ticketCache.Close()
		cachePinger = ticketCache
	}

	tokens := token.NewService([]byte(cfg.JWTAccessSecret), []byte(cfg.JWTRefreshSecret))
	emailSender := email.NewSender(cfg.Env, cfg.ResendAPIKey, cfg.ResendFrom, logger)

	signupBalance := domain.Money{
		Value:    cfg.SignupBalance,
		Currency: domain.Currency(cfg.SignupCurrency),
	}

	// Users
	userRepo := postgres.NewUserRepository(pool)
	authUsecase := usecase.NewAuthUsecase(userRepo, tokens, emailSender, signupBalance, logger)
	userUsecase := usecase.NewUserUsecase(userRepo)
	userHandler := handler.NewUserHandler(authUsecase, userUsecase, logger)

	// Tickets
	ticketRepo := postgres.NewTicketRepository(pool)
	var tc usecase.TicketCache
	if ticketCache != nil {
		tc = ticketCache
	}
	ticketUsecase := usecase.NewTicketUsecase(ticketRepo, tc, logger)
	ticketHandler := handler.NewTicketHandler(ticketUsecase, logger)

	metrics.Register()
	checker := health.NewChecker(pool, cachePinger, logger, prometheus.DefaultRegisterer)

	srv := http.Server{
		Addr:    ":" + cfg.Port,
		Handler: httptransport.NewRouter(logger, userHandler, ticketHandler, tokens),
	}

	metricsSrv := metrics.NewServer(":"+cfg.MetricsPort, checker)

	go func() {
		logger.Info("server started", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	go func() {
		logger.Info("metrics server started", "port", cfg.MetricsPort)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "error", err)
		}
	}()

	<-ctx.Done()
	stop()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown", "error", err)
	}
}

func newLogger(env string, level slog.Level) *slog.Logger {
	var inner slog.Handler
	if env == "local" {
		inner = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	} else {
		inner = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	}
	return slog.New(ctxlog.NewContextHandler(inner))
}
