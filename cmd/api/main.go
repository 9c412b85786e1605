package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"exploranotes/internal/account"
	"exploranotes/internal/audit"
	"exploranotes/internal/auth"
	"exploranotes/internal/config"
	"exploranotes/internal/guard"
	"exploranotes/internal/httpapi"
	"exploranotes/internal/mailer"
	"exploranotes/internal/school"
	"exploranotes/internal/session"
	"exploranotes/pkg/logger"
	"exploranotes/pkg/utils"

	"github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	// Root context that cancels on shutdown
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}

	log := logger.New(cfg.App.Env)
	slog.SetDefault(log)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	codec, err := auth.NewCodec(cfg.Auth)
	if err != nil {
		log.Error("token codec init failed", "err", err)
		os.Exit(1)
	}

	db, err := utils.OpenPostgres(rootCtx, "pgx", cfg.PostgresDSN(), utils.PostgresPoolConfig{})
	if err != nil {
		log.Error("postgres init failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	rdb, err := utils.OpenRedis(rootCtx, utils.RedisConfig{Addr: cfg.RedisAddr()})
	if err != nil {
		log.Error("redis init failed", "err", err)
		os.Exit(1)
	}
	defer rdb.Close()

	var mail mailer.Mailer
	switch cfg.Mail.Driver {
	case "sendgrid":
		sg, err := mailer.NewSendGridMailer(cfg.Mail, log)
		if err != nil {
			log.Error("sendgrid init failed", "err", err)
			os.Exit(1)
		}
		// Mail is fire-and-forget downstream, so an unreachable transport is
		// worth a loud warning but not a refused start.
		if err := sg.Ping(rootCtx); err != nil {
			log.Warn("sendgrid ping failed", "err", err)
		}
		mail = sg
	default:
		mail = mailer.NewConsoleMailer(log)
	}

	accounts := account.NewService(account.NewPostgresRepo(db))
	schools := school.NewPostgresRepo(db)
	events := audit.NewService(audit.NewPostgresRepo(db))

	h := httpapi.Handlers{
		Codec:        codec,
		Accounts:     accounts,
		Schools:      schools,
		Mail:         mail,
		Audit:        events,
		Limiter:      httpapi.RedisResendLimiter{RDB: rdb},
		BaseURL:      cfg.App.BaseURL,
		CookieSecure: cfg.Auth.CookieSecure,
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.Middleware(log))
	r.Use(session.Resolve(codec))
	r.Use(guard.New(schools).Middleware())

	registerRoutes(r, h)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("api listening", "addr", srv.Addr, "env", cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "err", err)
			stop()
		}
	}()

	<-rootCtx.Done()
	log.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", "err", err)
	}
}
