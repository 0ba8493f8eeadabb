package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	stdhttp "net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	goredis "github.com/redis/go-redis/v9"

	"github.com/vibepulse/api/internal/adapters/cache/memory"
	rediscache "github.com/vibepulse/api/internal/adapters/cache/redis"
	handler "github.com/vibepulse/api/internal/adapters/handler/http"
	"github.com/vibepulse/api/internal/adapters/oauth/google"
	"github.com/vibepulse/api/internal/adapters/repository/postgres"
	"github.com/vibepulse/api/internal/core/ports"
	"github.com/vibepulse/api/internal/core/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	db, err := sql.Open("postgres", dbConnString())
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	counts := openCountsCache(ctx)

	pollRepo := postgres.NewPollRepository(db)
	voteRepo := postgres.NewVoteRepository(db)
	profileRepo := postgres.NewProfileRepository(db)
	userRepo := postgres.NewUserRepository(db)
	authRepo := postgres.NewAuthRepository(db)

	pollService := services.NewPollService(pollRepo, counts)
	voteService := services.NewVoteService(pollRepo, voteRepo, profileRepo, counts)
	profileService := services.NewProfileService(profileRepo)
	authService := services.NewAuthService(userRepo, authRepo, google.NewVerifier())

	pollHandler := handler.NewPollHandler(pollService)
	voteHandler := handler.NewVoteHandler(voteService)
	profileHandler := handler.NewProfileHandler(profileService)
	authHandler := handler.NewAuthHandler(authService, envOr("AUTH_REDIRECT_URL", "/"), os.Getenv("COOKIE_DOMAIN"), stdhttp.SameSiteLaxMode)

	allowedOrigins := strings.Split(envOr("ALLOWED_ORIGINS", "*"), ",")
	router := handler.NewHandler(pollHandler, voteHandler, profileHandler, authHandler, allowedOrigins)

	server := &stdhttp.Server{Addr: "0.0.0.0:" + envOr("PORT", "8080"), Handler: router}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	fmt.Println("Gracefully shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal(err)
	}
}

// openCountsCache connects to Redis when REDIS_ADDR is set and reachable,
// falling back to the in-process cache otherwise. The cache tier is
// rebuildable, so degraded mode is acceptable for local runs.
func openCountsCache(ctx context.Context) ports.CountsCache {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		log.Println("REDIS_ADDR not set, using in-memory counts cache")
		return memory.NewCountsCache()
	}

	client := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
	})
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("redis unavailable, falling back to in-memory counts cache: %v", err)
		return memory.NewCountsCache()
	}
	return rediscache.NewCountsCache(client)
}

func dbConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		os.Getenv("POSTGRES_USER"),
		os.Getenv("POSTGRES_PASSWORD"),
		os.Getenv("POSTGRES_HOST"),
		os.Getenv("POSTGRES_PORT"),
		os.Getenv("POSTGRES_DB"),
	)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
