package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"labtasks-backend/internal/auth"
	"labtasks-backend/internal/config"
	"labtasks-backend/internal/database"
	"labtasks-backend/internal/handler"
	"labtasks-backend/internal/queue"
	"labtasks-backend/internal/repository"
	"labtasks-backend/internal/router"
	"labtasks-backend/internal/service"
)

func main() {
	_ = godotenv.Load() // optional .env for local development
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("migrations: %v", err)
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	topics := repository.NewTopicRepo(db)
	tasks := repository.NewTaskRepo(db)

	issuer := auth.NewIssuer(cfg.JWTSecret,
		time.Duration(cfg.AccessTTLMin)*time.Minute,
		time.Duration(cfg.RefreshTTLDays)*24*time.Hour)
	svc := auth.NewService(users, tokens, issuer, cfg.BcryptCost, cfg.RefreshRotate)

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; rate limiting and response cache disabled")
	}
	events := service.NewEventPublisher()

	authH := handler.NewAuthHandler(svc, users, issuer.RefreshTTL(), events)
	topicH := handler.NewTopicHandler(topics)
	taskH := handler.NewTaskHandler(tasks, cfg.FilesDir)
	adminH := handler.NewAdminTaskHandler(tasks, topics, events)

	e := echo.New()
	e.HideBanner = true
	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, issuer, rdb)
	router.RegisterLabs(e, topicH, taskH, adminH, issuer, rdb)

	go func() {
		if err := queue.StartAuditConsumer(); err != nil {
			log.Printf("audit consumer stopped: %v", err)
		}
	}()

	// Expired blacklist rows are dead weight; sweep them hourly.
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			if n, err := tokens.PurgeExpired(ctx); err != nil {
				log.Printf("token purge failed: %v", err)
			} else if n > 0 {
				log.Printf("purged %d expired revocation records", n)
			}
			cancel()
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
