package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/sirupsen/logrus"

	"hotelbooking/internal/config"
	"hotelbooking/internal/database"
	"hotelbooking/internal/domain"
	"hotelbooking/internal/pkg/jwt"
	"hotelbooking/internal/pkg/logging"
	"hotelbooking/internal/pkg/money"
)

func main() {
	vendorID := flag.Int64("vendor", 1, "vendor id that owns the demo hotels")
	reset := flag.Bool("reset", false, "delete existing hotels, rooms, bookings and refunds first")
	flag.Parse()

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

	log.Info("running migrations")
	if err := database.Migrate(store.DB()); err != nil {
		log.WithError(err).Fatal("migrate failed")
	}

	db := store.DB()
	if *reset {
		log.Warn("cleaning old data")
		// child tables first
		for _, table := range []string{"refunds", "bookings", "room_availabilities", "rooms", "hotels"} {
			if err := db.Exec("DELETE FROM " + table).Error; err != nil {
				log.WithError(err).WithField("table", table).Fatal("cleanup failed")
			}
		}
	}

	hotels := []struct {
		name, city, address string
	}{
		{"Harbor View", "Lisbon", "Rua do Cais 12"},
		{"Old Town Inn", "Tallinn", "Pikk 41"},
	}
	rooms := []struct {
		kind     domain.RoomType
		capacity domain.Capacity
		price    int64
		total    int
	}{
		{domain.RoomStandard, domain.Capacity{Adults: 2, Children: 0, Total: 2}, 80, 10},
		{domain.RoomDeluxe, domain.Capacity{Adults: 2, Children: 1, Total: 3}, 120, 6},
		{domain.RoomFamily, domain.Capacity{Adults: 2, Children: 2, Total: 4}, 150, 4},
		{domain.RoomSuite, domain.Capacity{Adults: 2, Children: 2, Total: 4}, 260, 2},
	}

	ctx := context.Background()
	for _, h := range hotels {
		hotel := domain.Hotel{
			VendorID: *vendorID,
			Name:     h.name,
			City:     h.city,
			Address:  h.address,
			IsActive: true,
		}
		if err := db.WithContext(ctx).Create(&hotel).Error; err != nil {
			log.WithError(err).Fatal("create hotel failed")
		}
		for _, r := range rooms {
			room := domain.Room{
				HotelID:     hotel.ID,
				Type:        r.kind,
				Description: fmt.Sprintf("%s room at %s", r.kind, h.name),
				Capacity:    r.capacity,
				BasePrice:   money.FromMajor(r.price),
				TaxRate:     12,
				TotalRooms:  r.total,
				Amenities:   []string{"wifi", "air_conditioning"},
				IsActive:    true,
			}
			if err := db.WithContext(ctx).Create(&room).Error; err != nil {
				log.WithError(err).Fatal("create room failed")
			}
		}
		log.WithFields(logrus.Fields{"hotel_id": hotel.ID, "name": hotel.Name, "rooms": len(rooms)}).Info("hotel seeded")
	}

	token, err := jwt.New(cfg.JWTSecret, cfg.JWTTTL).GenerateToken(*vendorID, jwt.RoleVendor)
	if err != nil {
		log.WithError(err).Fatal("token generation failed")
	}
	log.WithField("vendor_id", *vendorID).Info("seed completed")
	fmt.Println(token)
}
