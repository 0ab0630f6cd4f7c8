package main // Entry point package

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	"github.com/motohunt/motohunt-api/internal/config"
	"github.com/motohunt/motohunt-api/internal/database"
	"github.com/motohunt/motohunt-api/internal/handler"
	"github.com/motohunt/motohunt-api/internal/logging"
	"github.com/motohunt/motohunt-api/internal/metrics"
	"github.com/motohunt/motohunt-api/internal/middleware"
	"github.com/motohunt/motohunt-api/internal/queue"
	"github.com/motohunt/motohunt-api/internal/repository"
	"github.com/motohunt/motohunt-api/internal/router"
	"github.com/motohunt/motohunt-api/internal/service"
	"github.com/motohunt/motohunt-api/internal/utils"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("load config")
	}
	log := logging.New(cfg)

	if err := run(cfg, log); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}

func run(cfg config.Config, log *logrus.Entry) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg.DB)
	if err != nil {
		return err
	}
	defer db.Close()

	migrateCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	err = database.Migrate(migrateCtx, db, cfg.DB.Driver)
	cancel()
	if err != nil {
		return err
	}
	log.WithField("driver", cfg.DB.Driver).Info("database ready")

	// Redis is optional: without it the limiter and the cache pass through.
	rdb, err := config.NewRedisClient(cfg.Redis)
	if err != nil {
		log.WithError(err).Warn("redis unavailable, rate limiting and caching disabled")
	}
	if rdb != nil {
		defer rdb.Close()
	}

	m := metrics.New()

	if cfg.JWTSecret == "" {
		log.Warn("JWT_SECRET is empty, logins will fail until it is set")
	}
	tokens := utils.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)

	users := repository.NewUserRepo(db)
	catalog := repository.NewCatalogRepo(db)
	dealers := repository.NewDealerRepo(db)
	rides := repository.NewTestRideRepo(db)

	authSvc := service.NewAuthService(users, tokens, cfg.BcryptCost, m, log)

	bookingOpts := []service.BookingOption{service.WithRecorder(m)}
	var wg sync.WaitGroup
	if cfg.RabbitMQ.Enabled {
		pub := queue.NewPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Queue, log, m)
		defer pub.Close()
		bookingOpts = append(bookingOpts, service.WithPublisher(pub))

		consumer := queue.NewConsumer(cfg.RabbitMQ.URL, cfg.RabbitMQ.Queue, cfg.RabbitMQ.EventLogPath, log)
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.WithError(err).Error("event consumer stopped")
			}
		}()
	}
	bookingSvc := service.NewBookingService(rides, dealers, catalog, log, bookingOpts...)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = handler.NewHTTPErrorHandler(log)

	e.Use(middleware.RequestLogger(log))
	e.Use(middleware.Recovery(log))
	if cfg.Metrics.Enabled {
		e.Use(middleware.HTTPMetrics(m))
		e.GET(cfg.Metrics.Path, echo.WrapHandler(m.Handler()))
	}
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     []string{cfg.CORSOrigin},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderContentType},
		AllowCredentials: true,
	}))
	e.Use(echomw.BodyLimit("1M"))

	session := middleware.SessionAuth(tokens)
	limiter := middleware.NewTokenBucket(cfg.RateLimit, rdb, log, m)
	cache := middleware.NewRedisCache(cfg.Cache, rdb, log, m)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(authSvc, tokens.TTL(), !cfg.IsDevelopment()), session, limiter)
	router.RegisterCatalog(e, handler.NewCatalogHandler(catalog, dealers), cache)
	router.RegisterTestRides(e, handler.NewTestRideHandler(bookingSvc), session)

	addr := ":" + cfg.Port
	errCh := make(chan error, 1)
	go func() {
		log.WithFields(logrus.Fields{"addr": addr, "env": cfg.Env}).Info("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
	wg.Wait()
	return nil
}
