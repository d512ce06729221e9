package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/minhvt/bus-ticketing/internal/config"
	"github.com/minhvt/bus-ticketing/internal/database"
	"github.com/minhvt/bus-ticketing/internal/handler"
	"github.com/minhvt/bus-ticketing/internal/middleware"
	"github.com/minhvt/bus-ticketing/internal/queue"
	"github.com/minhvt/bus-ticketing/internal/repository"
	"github.com/minhvt/bus-ticketing/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	migrateCtx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	if err := database.Migrate(migrateCtx, db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	// Redis backs the response cache and the rate limiter; both degrade
	// gracefully when it is absent.
	rdb := config.NewRedisClient()

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	companies := repository.NewCompanyRepo(db)
	buses := repository.NewBusRepo(db)
	routes := repository.NewRouteRepo(db)
	schedules := repository.NewScheduleRepo(db)
	seats := repository.NewSeatRepo(db)
	reservations := repository.NewReservationRepo(db)
	payments := repository.NewPaymentRepo(db)
	promotions := repository.NewPromotionRepo(db)
	drivers := repository.NewDriverRepo(db)
	reviews := repository.NewReviewRepo(db)
	notifications := repository.NewNotificationRepo(db)
	gps := repository.NewGPSRepo(db)
	agents := repository.NewAgentRepo(db)
	chats := repository.NewChatRepo(db)

	h := router.Handlers{
		Auth:          handler.NewAuthHandler(cfg, users, tokens),
		Users:         handler.NewUserHandler(cfg, users),
		Companies:     handler.NewCompanyHandler(companies),
		Buses:         handler.NewBusHandler(buses, companies),
		Routes:        handler.NewRouteHandler(routes),
		Schedules:     handler.NewScheduleHandler(schedules, buses, routes, seats),
		Reservations:  handler.NewReservationHandler(reservations, schedules, seats, promotions, users, buses, routes),
		Payments:      handler.NewPaymentHandler(payments, reservations),
		Promotions:    handler.NewPromotionHandler(promotions),
		Drivers:       handler.NewDriverHandler(drivers, companies, schedules),
		Reviews:       handler.NewReviewHandler(reviews, companies, schedules),
		Notifications: handler.NewNotificationHandler(notifications),
		GPS:           handler.NewGPSHandler(gps, buses),
		Agents:        handler.NewAgentHandler(agents, users, companies, reservations),
		Chats:         handler.NewChatHandler(chats, users),
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	var publicCache echo.MiddlewareFunc
	if rdb != nil {
		publicCache = middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	}
	router.Register(e, h, cfg.JWTSecret, publicCache)

	if cfg.AMQPURL != "" {
		go func() {
			if err := queue.StartBookingConsumer(notifications); err != nil {
				log.Printf("booking consumer stopped: %v", err)
			}
		}()
	}

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
