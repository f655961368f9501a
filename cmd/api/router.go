package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"hotelbooking/internal/config"
	"hotelbooking/internal/database"
	"hotelbooking/internal/middleware"
	"hotelbooking/internal/modules/booking"
	"hotelbooking/internal/modules/feed"
	"hotelbooking/internal/modules/refund"
	"hotelbooking/internal/modules/vacancy"
	"hotelbooking/internal/pkg/jwt"
	"hotelbooking/internal/pkg/response"
	"hotelbooking/internal/repository"
)

type app struct {
	router *gin.Engine
	hub    *feed.Hub
	jwt    *jwt.Service
}

func newApp(cfg *config.Config, store *database.Store, log *logrus.Logger) *app {
	db := store.DB()
	hotelRepo := repository.NewHotelRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	availabilityRepo := repository.NewAvailabilityRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	refundRepo := repository.NewRefundRepository(db)

	jwtService := jwt.New(cfg.JWTSecret, cfg.JWTTTL)
	hub := feed.NewHub(log)

	bookingService := booking.NewService(store, roomRepo, hotelRepo, availabilityRepo, bookingRepo, booking.Options{
		TxTimeout: cfg.BookingTxTimeout,
		Events:    hub,
		Logger:    log,
	})
	refundService := refund.NewService(store, bookingRepo, refundRepo, log)
	vacancyService := vacancy.NewService(store, roomRepo, hotelRepo, availabilityRepo, bookingRepo, log)

	ownership := middleware.NewOwnershipChecker(hotelRepo, roomRepo)
	vendorAuth := []gin.HandlerFunc{middleware.JWTAuth(jwtService), middleware.VendorOnly()}

	r := gin.New()
	r.Use(
		middleware.RequestLogger(log),
		middleware.ErrorLogger(log),
		middleware.CORS(cfg.CORSAllowedOrigins),
		middleware.Metrics(),
	)

	r.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			response.Error(c, http.StatusServiceUnavailable, "DB_UNAVAILABLE", "Database unavailable")
			return
		}
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	feed.NewHandler(hub, jwtService, hotelRepo, cfg.CORSAllowedOrigins, log).RegisterRoutes(r)

	v1 := r.Group("/api/v1", middleware.Timeout(cfg.StoreTimeout))
	{
		booking.NewHandler(bookingService).RegisterRoutes(v1, vendorAuth...)
		refund.NewHandler(refundService).RegisterRoutes(v1)
		vacancy.NewHandler(vacancyService).RegisterRoutes(v1, append(vendorAuth, ownership.CheckRoomOwnership())...)
	}

	return &app{router: r, hub: hub, jwt: jwtService}
}
