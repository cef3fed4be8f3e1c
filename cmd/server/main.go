package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/maxcrm/maxcrm-api/internal/config"
	"github.com/maxcrm/maxcrm-api/internal/database"
	"github.com/maxcrm/maxcrm-api/internal/handler"
	"github.com/maxcrm/maxcrm-api/internal/queue"
	"github.com/maxcrm/maxcrm-api/internal/repository"
	"github.com/maxcrm/maxcrm-api/internal/router"
	"github.com/maxcrm/maxcrm-api/internal/service"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database connect failed: %v", err)
	}
	defer func() { _ = db.Close() }()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; rate limiting and response cache disabled")
	}

	users := repository.NewUserRepo(db)
	contacts := repository.NewContactRepo(db)
	companies := repository.NewCompanyRepo(db)
	deals := repository.NewDealRepo(db)

	pub := queue.NewPublisher(cfg.AMQPURL, cfg.ActivityQueue)
	if pub == nil {
		log.Printf("RABBITMQ_URL not set; activity events disabled")
	} else {
		go queue.StartActivityConsumer(cfg.AMQPURL, cfg.ActivityQueue)
	}

	contactSvc := service.NewContactService(contacts, pub)
	companySvc := service.NewCompanyService(companies, pub)
	dealSvc := service.NewDealService(deals, pub)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.Secure())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     []string{cfg.CORSOrigin},
		AllowCredentials: true,
	}))

	router.Register(e, router.Handlers{
		Auth:      handler.NewAuthHandler(cfg, users),
		Contacts:  handler.NewContactHandler(contactSvc),
		Companies: handler.NewCompanyHandler(companySvc, contactSvc),
		Deals:     handler.NewDealHandler(dealSvc),
		Users:     users,
	}, cfg, rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
