package main // Entry point package

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/todo-app/internal/auth"
	"github.com/iliyamo/todo-app/internal/config"
	"github.com/iliyamo/todo-app/internal/database"
	"github.com/iliyamo/todo-app/internal/handler"
	"github.com/iliyamo/todo-app/internal/middleware"
	"github.com/iliyamo/todo-app/internal/queue"
	"github.com/iliyamo/todo-app/internal/router"
	"github.com/iliyamo/todo-app/internal/security"
	"github.com/iliyamo/todo-app/internal/service"
)

func main() {
	_ = godotenv.Load() // a missing .env is fine, the environment may already be set
	cfg := config.Load()
	log := newLogger(cfg)

	db, err := database.Open(cfg)
	if err != nil {
		log.WithError(err).Fatal("open database")
	}
	defer db.Close()

	rdb := config.NewRedisClient(config.LoadRedisConfig())
	if rdb == nil {
		log.Warn("redis unavailable, rate limiting and caching disabled")
	} else {
		defer rdb.Close()
	}

	codec, err := security.NewTokenCodec(cfg.JWTSecret, cfg.JWTAlgorithm)
	if err != nil {
		log.WithError(err).Fatal("token codec")
	}
	hasher := security.NewHasher(cfg.BcryptCost)
	authn, err := auth.NewAuthenticator(hasher, codec, cfg.AccessTTL())
	if err != nil {
		log.WithError(err).Fatal("authenticator")
	}
	audit := service.NewAuditPublisher(cfg.AMQPURL, log)

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.Use(middleware.RequestLogger(log))

	cacheCfg := config.LoadCacheConfig()
	session := database.Session(db, log)
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb, log)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(authn, hasher, audit, log), session, limiter)
	router.RegisterTodos(e, handler.NewTodoHandler(log), codec, session, middleware.NewRedisCache(cacheCfg, rdb, log))
	router.RegisterAdmin(e, handler.NewAdminHandler(audit, log), codec, session, middleware.PurgeCache(cacheCfg, rdb, log))
	router.RegisterUsers(e, handler.NewUserHandler(hasher, audit, log), codec, session)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.AuditConsume {
		go func() {
			if err := queue.StartAuditConsumer(ctx, cfg.AMQPURL, "logs", log); err != nil && !errors.Is(err, context.Canceled) {
				log.WithError(err).Error("audit consumer stopped")
			}
		}()
	}

	go func() {
		addr := ":" + cfg.Port
		log.WithFields(logrus.Fields{"addr": addr, "env": cfg.Env}).Info("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("shutdown")
	}
}

func newLogger(cfg config.Config) *logrus.Logger {
	log := logrus.New()
	if cfg.Env == "prod" || cfg.Env == "production" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	return log
}
