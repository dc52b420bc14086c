package handlers

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mvaldes-dev/stockpile/internal/inventory"
	"github.com/mvaldes-dev/stockpile/internal/redissvc"
	"github.com/mvaldes-dev/stockpile/internal/repo"
)

var (
	productRepo  repo.ProductRepository
	movementRepo repo.MovementRepository
	clientRepo   repo.ClientRepository
	purchaseRepo repo.PurchaseRepository
	paymentRepo  repo.PaymentRepository
	userRepo     repo.UserRepository
	metricsRepo  repo.MetricsRepository

	inventorySvc *inventory.Service

	refreshTokenTTL   = 30 * 24 * time.Hour
	dashboardCacheTTL = 30 * time.Second

	Rdb *redis.Client
	Ctx context.Context
)

func SetProductRepo(r repo.ProductRepository) {
	productRepo = r
}

func SetMovementRepo(r repo.MovementRepository) {
	movementRepo = r
}

func SetClientRepo(r repo.ClientRepository) {
	clientRepo = r
}

func SetPurchaseRepo(r repo.PurchaseRepository) {
	purchaseRepo = r
}

func SetPaymentRepo(r repo.PaymentRepository) {
	paymentRepo = r
}

func SetUserRepo(r repo.UserRepository) {
	userRepo = r
}

func SetMetricsRepo(r repo.MetricsRepository) {
	metricsRepo = r
}

func SetInventoryService(s *inventory.Service) {
	inventorySvc = s
}

func SetRefreshTokenTTL(ttl time.Duration) {
	refreshTokenTTL = ttl
}

func SetDashboardCacheTTL(ttl time.Duration) {
	dashboardCacheTTL = ttl
}

func SetRedisService(rs *redissvc.RedisService) {
	Rdb = rs.Rdb()
	Ctx = rs.Ctx()
}
