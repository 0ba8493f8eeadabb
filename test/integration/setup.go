package integration

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/wait"

	rediscache "github.com/vibepulse/api/internal/adapters/cache/redis"
	handler "github.com/vibepulse/api/internal/adapters/handler/http"
	repo "github.com/vibepulse/api/internal/adapters/repository/postgres"
	"github.com/vibepulse/api/internal/core/ports"
	"github.com/vibepulse/api/internal/core/services"
)

type TestApp struct {
	DB             *sql.DB
	Redis          *goredis.Client
	Server         *httptest.Server
	Client         *http.Client
	RebuildSvc     ports.RebuildService
	DBContainer    testcontainers.Container
	RedisContainer testcontainers.Container
}

func setupPostgresContainer(ctx context.Context) (testcontainers.Container, string, error) {
	pgContainer, err := postgres.Run(ctx, "postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second),
		),
	)
	if err != nil {
		return nil, "", fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, "", err
	}

	return pgContainer, connStr, nil
}

func setupRedisContainer(ctx context.Context) (testcontainers.Container, *goredis.Client, error) {
	redisContainer, err := tcredis.Run(ctx, "redis:7-alpine")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to start redis container: %w", err)
	}

	connStr, err := redisContainer.ConnectionString(ctx)
	if err != nil {
		return nil, nil, err
	}

	opts, err := goredis.ParseURL(connStr)
	if err != nil {
		return nil, nil, err
	}

	return redisContainer, goredis.NewClient(opts), nil
}

func applyMigrations(db *sql.DB) error {
	dirPath := "../../internal/adapters/repository/postgres/migrations"

	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		if !strings.HasSuffix(entry.Name(), "up.sql") {
			continue
		}

		fullPath := filepath.Join(dirPath, entry.Name())
		content, err := os.ReadFile(fullPath)
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", entry.Name(), err)
		}

		_, err = db.Exec(string(content))
		if err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", entry.Name(), err)
		}
	}

	return nil
}

func setupTestApp(t *testing.T) *TestApp {
	t.Helper()

	os.Setenv("JWT_SECRET", "test-secret")
	ctx := context.Background()

	dbContainer, dbURL, err := setupPostgresContainer(ctx)
	require.NoError(t, err)

	db, err := sql.Open("postgres", dbURL)
	require.NoError(t, err)

	err = applyMigrations(db)
	require.NoError(t, err)

	redisContainer, redisClient, err := setupRedisContainer(ctx)
	require.NoError(t, err)

	pollRepo := repo.NewPollRepository(db)
	voteRepo := repo.NewVoteRepository(db)
	profileRepo := repo.NewProfileRepository(db)
	countsCache := rediscache.NewCountsCache(redisClient)

	pollSvc := services.NewPollService(pollRepo, countsCache)
	voteSvc := services.NewVoteService(pollRepo, voteRepo, profileRepo, countsCache)
	profileSvc := services.NewProfileService(profileRepo)
	rebuildSvc := services.NewRebuildService(pollRepo, voteRepo, countsCache)

	pollHandler := handler.NewPollHandler(pollSvc)
	voteHandler := handler.NewVoteHandler(voteSvc)
	profileHandler := handler.NewProfileHandler(profileSvc)
	router := handler.NewHandler(pollHandler, voteHandler, profileHandler, nil, []string{"*"})

	server := httptest.NewServer(router)

	return &TestApp{
		DB:             db,
		Redis:          redisClient,
		Server:         server,
		Client:         server.Client(),
		RebuildSvc:     rebuildSvc,
		DBContainer:    dbContainer,
		RedisContainer: redisContainer,
	}
}

func (app *TestApp) Teardown(t *testing.T) {
	t.Helper()

	ctx := context.Background()
	app.Server.Close()
	app.Redis.Close()
	app.DB.Close()
	if err := app.DBContainer.Terminate(ctx); err != nil {
		t.Logf("failed to terminate postgres container: %v", err)
	}
	if err := app.RedisContainer.Terminate(ctx); err != nil {
		t.Logf("failed to terminate redis container: %v", err)
	}
}

func createUserAndToken(t *testing.T, db *sql.DB) (uuid.UUID, string) {
	t.Helper()

	userID := uuid.New()
	email := fmt.Sprintf("user-%s@example.com", userID)
	name := fmt.Sprintf("User %s", userID)
	_, err := db.Exec("INSERT INTO users (id, email, name) VALUES ($1, $2, $3)", userID, email, name)
	require.NoError(t, err)

	claims := jwt.MapClaims{
		"sub":   userID.String(),
		"email": email,
		"exp":   time.Now().Add(15 * time.Minute).Unix(),
		"iat":   time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return userID, signedToken
}
