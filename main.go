package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"push-notify-go/internal/handlers"
	"push-notify-go/internal/push"
	"push-notify-go/internal/store"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using defaults")
	}

	ctx := context.Background()

	// Pick the storage backend (PostgreSQL by default)
	var st store.Store
	switch os.Getenv("STORE_BACKEND") {
	case "redis":
		redisAddr := os.Getenv("REDIS_ADDR")
		if redisAddr == "" {
			redisAddr = "localhost:6379"
		}
		redisDB := 0
		if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
			if db, err := strconv.Atoi(dbStr); err == nil {
				redisDB = db
			}
		}
		st = store.NewRedisStore(&redis.Options{
			Addr:     redisAddr,
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		})
	default:
		databaseURL := os.Getenv("DATABASE_URL")
		if databaseURL == "" {
			log.Fatal("DATABASE_URL environment variable is required")
		}

		pgStore, err := store.NewPostgresStore(databaseURL)
		if err != nil {
			log.Fatalf("Failed to connect to PostgreSQL: %v", err)
		}

		if err := pgStore.RunMigrations(ctx); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
		log.Println("Database migrations completed")

		st = pgStore
	}

	// VAPID credentials, read-only after startup
	vapidCfg, err := push.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load VAPID config: %v", err)
	}
	sender := push.NewWebPushSender(vapidCfg)

	h := handlers.NewHandler(st, sender, vapidCfg.PublicKey)

	// API routes
	http.HandleFunc("/api/push/key", h.GetVAPIDKeyHandler)
	http.HandleFunc("/api/users", h.RegisterUserHandler)
	http.HandleFunc("/api/push/subscribe", h.SubscribeHandler)
	http.HandleFunc("/api/push/send/", h.SendToUserHandler)
	http.HandleFunc("/api/push/broadcast", h.BroadcastHandler)

	// Prometheus metrics
	http.Handle("/metrics", promhttp.Handler())

	// Demo client (index.html, main.js, sw.js served from the root so the
	// service worker gets root scope)
	http.Handle("/", http.FileServer(http.Dir("web/static")))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Println("Listening on :" + port)
	if err := http.ListenAndServe(":"+port, nil); err != nil {
		log.Fatal(err)
	}
}
