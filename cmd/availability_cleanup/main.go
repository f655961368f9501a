package main

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"hotelbooking/internal/config"
	"hotelbooking/internal/database"
	"hotelbooking/internal/pkg/calendar"
	"hotelbooking/internal/pkg/logging"
	"hotelbooking/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}
	log := logging.New(cfg.LogLevel, cfg.AppEnv)

	store, err := database.Open(cfg.DatabaseURL, database.Options{Logger: log, GormLogger: logging.Gorm(log)})
	if err != nil {
		log.WithError(err).Fatal("db connect failed")
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.StoreTimeout)
	defer cancel()

	today := calendar.Normalize(time.Now().UTC())
	purged, err := repository.NewAvailabilityRepository(store.DB()).PurgeUntouchedBefore(ctx, today)
	if err != nil {
		log.WithError(err).Fatal("availability cleanup failed")
	}
	log.WithFields(logrus.Fields{"purged": purged, "before": calendar.Format(today)}).Info("availability cleanup completed")
}
