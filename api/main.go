package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mvaldes-dev/stockpile/internal/alerts"
	"github.com/mvaldes-dev/stockpile/internal/auth"
	"github.com/mvaldes-dev/stockpile/internal/config"
	"github.com/mvaldes-dev/stockpile/internal/db"
	api "github.com/mvaldes-dev/stockpile/internal/http"
	"github.com/mvaldes-dev/stockpile/internal/http/handlers"
	rl "github.com/mvaldes-dev/stockpile/internal/http/rate_limiter"
	"github.com/mvaldes-dev/stockpile/internal/inventory"
	"github.com/mvaldes-dev/stockpile/internal/redissvc"
	"github.com/mvaldes-dev/stockpile/internal/repo"
)

// @title Stockpile API
// @version 1.0
// @description REST API for small-business inventory: catalog, stock movements, sales and payments.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	auth.Configure(cfg.JWTSecret, cfg.AccessTokenTTL)
	alerts.Configure(cfg.SMTP)
	rl.Configure(cfg.RateLimitPerSecond, cfg.RateLimitBurst)
	handlers.SetRefreshTokenTTL(cfg.RefreshTokenTTL)
	handlers.SetDashboardCacheTTL(cfg.DashboardCacheTTL)

	go auth.StartRefreshTokenCleaner(30 * time.Minute)
	go rl.StartVisitorCleanupLoop()
	go alerts.StartDailySummary(24 * time.Hour)

	// Redis backs the dashboard cache and the daily alert log; the server
	// runs without it.
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		ctx := context.Background()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatalf("could not connect to redis at %s: %v", cfg.RedisAddr, err)
		}
		defer rdb.Close()

		redisService := redissvc.NewRedisService(rdb, ctx)
		handlers.SetRedisService(redisService)
		alerts.SetRedisService(redisService)
	}

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("could not connect to database: %v", err)
	}
	defer database.Close()

	productRepo := repo.NewPostgresProductRepository(database)
	movementRepo := repo.NewPostgresMovementRepository(database)

	handlers.SetProductRepo(productRepo)
	handlers.SetMovementRepo(movementRepo)
	handlers.SetClientRepo(repo.NewPostgresClientRepository(database))
	handlers.SetPurchaseRepo(repo.NewPostgresPurchaseRepository(database))
	handlers.SetPaymentRepo(repo.NewPostgresPaymentRepository(database))
	handlers.SetUserRepo(repo.NewPostgresUserRepository(database))
	handlers.SetMetricsRepo(repo.NewPostgresMetricsRepository(database))

	svc := inventory.NewService(productRepo, movementRepo)
	svc.SetAlertFunc(alerts.LowStockAlert)
	handlers.SetInventoryService(svc)

	r := api.NewRouter()
	log.Printf("server running on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, r); err != nil {
		log.Fatal(err)
	}
}
