package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"hotelbooking/internal/config"
	"hotelbooking/internal/database"
	"hotelbooking/internal/pkg/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}

	log := logging.New(cfg.LogLevel, cfg.AppEnv)
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	store, err := database.Open(cfg.DatabaseURL, database.Options{
		Logger:     log,
		GormLogger: logging.Gorm(log),
	})
	if err != nil {
		log.WithError(err).Fatal("db connect failed")
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.WithError(err).Error("db close failed")
		}
	}()

	if cfg.AutoMigrate {
		log.Info("running AutoMigrate")
		if err := database.Migrate(store.DB()); err != nil {
			log.WithError(err).Fatal("AutoMigrate failed")
		}
	}

	app := newApp(cfg, store, log)
	defer app.hub.Close()

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: app.router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.WithFields(logrus.Fields{"addr": cfg.HTTPAddr, "env": cfg.AppEnv}).Info("server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
}
