package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/homigo/booking-api/internal/booking"
	"github.com/homigo/booking-api/internal/config"
	"github.com/homigo/booking-api/internal/database"
	"github.com/homigo/booking-api/internal/handler"
	"github.com/homigo/booking-api/internal/middleware"
	"github.com/homigo/booking-api/internal/queue"
	"github.com/homigo/booking-api/internal/repository"
	"github.com/homigo/booking-api/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional: without it the API runs with caching and rate
	// limiting disabled.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; response cache and rate limiting disabled")
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	properties := repository.NewPropertyRepo(db)
	reservations := repository.NewReservationRepo(db)
	avail := repository.NewAvailabilityRepo(db)
	reviews := repository.NewReviewRepo(db)

	engine := booking.NewEngine(
		&repository.EngineCatalog{Properties: properties},
		avail,
		&repository.EngineReservations{Reservations: reservations},
		booking.Fees{
			CleaningCents: cfg.CleaningFeeCents,
			ServiceCents:  cfg.ServiceFeeCents,
		},
	)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	authH := handler.NewAuthHandler(cfg, users, tokens)
	bookingH := handler.NewBookingHandler(engine, reservations, properties)
	hostH := handler.NewHostPropertyHandler(properties)
	publicH := handler.NewPublicHandler(properties, avail, reviews)
	reviewH := handler.NewReviewHandler(reviews, properties)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterPublic(e, publicH, middleware.NewRedisCache(config.LoadCacheConfig(), rdb))
	router.RegisterGuest(e, bookingH, reviewH, cfg.JWTSecret)
	router.RegisterHost(e, hostH, cfg.JWTSecret)

	// Consume booking events into logs/booking.log; reconnects on its own.
	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("booking consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
