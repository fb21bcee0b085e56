package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/muniyaraj/venue-booking/internal/booking"
	"github.com/muniyaraj/venue-booking/internal/catalog"
	"github.com/muniyaraj/venue-booking/internal/config"
	"github.com/muniyaraj/venue-booking/internal/database"
	"github.com/muniyaraj/venue-booking/internal/gateway"
	"github.com/muniyaraj/venue-booking/internal/handler"
	"github.com/muniyaraj/venue-booking/internal/queue"
	"github.com/muniyaraj/venue-booking/internal/repository"
	"github.com/muniyaraj/venue-booking/internal/router"
	queuepublisher "github.com/muniyaraj/venue-booking/internal/service"
)

func main() {
	// .env is optional; real deployments set variables in the environment.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := database.EnsureSchema(ctx, db); err != nil {
		log.Fatalf("schema: %v", err)
	}
	// Some managed MySQL tiers drop idle connections; a periodic ping keeps
	// the pool warm.
	go database.KeepAlive(ctx, db, cfg.KeepAliveEvery)

	store := repository.NewStore(db)
	slots := repository.NewSlotRepo(db)
	showtimes := repository.NewShowtimeRepo(db)

	cat := catalog.New(catalog.SeatGrid(cfg.SeatRows, cfg.SeatCols), slots, showtimes)
	gw := gateway.NewClient(cfg.GatewayKeyID, cfg.GatewaySecret, cfg.GatewayBaseURL)

	svc := booking.New(
		store, cat, gw,
		cfg.GatewaySecret, cfg.GatewayKeyID, cfg.Currency,
		cfg.BookingTZ,
		queuepublisher.PublishBookingConfirmed,
	)

	// The consumer only feeds the booking audit log; confirmation itself
	// does not depend on it.  It blocks in a reconnect loop, so it runs in
	// its own goroutine.
	go queue.StartBookingConsumer(ctx)

	rdb := config.NewRedisClient()

	e := echo.New()
	e.HideBanner = true
	router.Register(e,
		handler.NewBookingHandler(svc),
		handler.NewAdminHandler(showtimes, slots),
		cfg.AdminJWTSecret,
		rdb,
	)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
