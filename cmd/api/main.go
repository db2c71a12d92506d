package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ttithipan/67011671-Todo/internal/app/migrate"
	"github.com/ttithipan/67011671-Todo/internal/captcha"
	"github.com/ttithipan/67011671-Todo/internal/config"
	"github.com/ttithipan/67011671-Todo/internal/crypto"
	httpx "github.com/ttithipan/67011671-Todo/internal/http"
	"github.com/ttithipan/67011671-Todo/internal/identity"
	"github.com/ttithipan/67011671-Todo/internal/logger"
	"github.com/ttithipan/67011671-Todo/internal/repository/postgres"
	"github.com/ttithipan/67011671-Todo/internal/service/auth"
	"github.com/ttithipan/67011671-Todo/internal/service/authz"
	"github.com/ttithipan/67011671-Todo/internal/service/task"
	"github.com/ttithipan/67011671-Todo/internal/service/team"
	"github.com/ttithipan/67011671-Todo/internal/service/user"
	"github.com/ttithipan/67011671-Todo/internal/session"
)

func main() {
	cfg := config.LoadAPIConfig()
	log := logger.New("api", slog.LevelInfo)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	runner, err := migrate.New(pool, cfg.DatabaseURL, cfg.MigrationsDir, log)
	if err != nil {
		log.Error("failed to configure migrations", "error", err)
		os.Exit(1)
	}
	defer runner.Close()
	if err := runner.Ping(ctx); err != nil {
		log.Error("database ping failed", "error", err)
		os.Exit(1)
	}
	if err := runner.Ensure(ctx); err != nil {
		log.Error("migrations failed", "error", err)
		os.Exit(1)
	}

	repo := postgres.New(pool)
	hasher := crypto.NewHasher(cfg.BcryptCost)
	verifier := captcha.New(cfg.RecaptchaSecret, cfg.RecaptchaURL, log)
	decoder := identity.NewDecoder(cfg.GoogleClientSecret, cfg.GoogleIssuer, cfg.GoogleClientID)

	sessionStore := session.NewMemoryStore()
	if addr := strings.TrimSpace(cfg.SessionRedisAddr); addr != "" {
		redisStore, err := session.NewRedisStore(addr, cfg.SessionRedisPass, cfg.SessionRedisDB)
		if err != nil {
			log.Warn("redis session store unavailable, sessions will not survive restarts", "error", err)
		} else {
			sessionStore = redisStore
		}
	}
	sessions := session.NewBinder(sessionStore, repo, cfg.SessionTTL, log)

	authSvc := auth.New(repo, hasher, verifier, log)
	authority := authz.New(repo, log)
	teamSvc := team.New(repo, authority, log)
	taskSvc := task.New(repo, authority, log)
	userSvc := user.New(repo, log)

	limiter := httpx.NewMemoryRateLimiter()
	if addr := strings.TrimSpace(cfg.RateLimitRedisAddr); addr != "" {
		redisLimiter, err := httpx.NewRedisRateLimiter(addr, cfg.RateLimitRedisPass, cfg.RateLimitRedisDB, log)
		if err != nil {
			log.Warn("redis rate limiter unavailable", "error", err)
		} else {
			limiter = redisLimiter
		}
	}

	router := httpx.NewRouter(log, authSvc, teamSvc, taskSvc, userSvc, sessions, decoder, httpx.Options{
		CookieName:   cfg.SessionCookieName,
		SessionTTL:   cfg.SessionTTL,
		SecureCookie: cfg.Environment == "production",
		Limiter:      limiter,
		DBHealth:     pool.Ping,
	})
	defer router.Close()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errorCh := make(chan error, 1)
	go func() {
		log.Info("api server starting", "addr", cfg.Addr)
		errorCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("graceful shutdown failed", "error", err)
		}
		log.Info("api server stopped")
	case err := <-errorCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}
}
