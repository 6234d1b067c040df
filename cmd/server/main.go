package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/edubase/house-enrolment/internal/authz"
	"github.com/edubase/house-enrolment/internal/config"
	"github.com/edubase/house-enrolment/internal/database"
	"github.com/edubase/house-enrolment/internal/handler"
	"github.com/edubase/house-enrolment/internal/queue"
	"github.com/edubase/house-enrolment/internal/repository"
	"github.com/edubase/house-enrolment/internal/router"
	queue_publisher "github.com/edubase/house-enrolment/internal/service"
)

func main() {
	// .env is a development convenience; deployed environments set real
	// variables and the file is absent.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	houses := repository.NewHouseRepo(db)
	users := repository.NewUserRepo(db)
	roles := repository.NewRoleRepo(db)
	codes := repository.NewMastercodeRepo(db)
	enrolments := repository.NewEnrolmentRepo(db)

	engine := authz.NewEngine(enrolments)

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; response cache and rate limiting disabled")
	}
	cacheCfg := config.LoadCacheConfig()
	rlCfg := config.LoadRateLimitConfig()

	h := handler.NewEnrolmentHandler(houses, users, roles, codes, enrolments, engine)
	h.Publish = queue_publisher.PublishEnrolmentConfirmed
	h.Cache = rdb
	h.CachePrefix = cacheCfg.Prefix

	go func() {
		if err := queue.StartEnrolmentConsumer(); err != nil {
			log.Printf("enrolment consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterEnrolment(e, h, cfg.JWTSecret, rdb, cacheCfg, rlCfg)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
