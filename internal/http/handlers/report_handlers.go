package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/redis/go-redis/v9"
)

const dashboardCacheKey = "reports:dashboard"

// GetDashboardReportHandler godoc
// @Summary Admin dashboard metrics
// @Description Aggregates catalog, movement, purchase and payment totals. Served from a short-lived cache when one is configured.
// @Tags reports
// @Produce json
// @Success 200 {object} repo.Metrics
// @Failure 500 {string} string "Internal error"
// @Router /reports/dashboard [get]
// @Security BearerAuth
func GetDashboardReportHandler(w http.ResponseWriter, r *http.Request) {
	if Rdb != nil {
		cached, err := Rdb.Get(Ctx, dashboardCacheKey).Result()
		if err == nil {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("X-Cache", "HIT")
			w.Write([]byte(cached))
			return
		}
		if err != redis.Nil {
			log.Printf("dashboard cache read failed: %v", err)
		}
	}

	metrics, err := metricsRepo.GetDashboardMetrics()
	if err != nil {
		http.Error(w, "could not compute dashboard metrics", http.StatusInternalServerError)
		return
	}

	payload, err := json.Marshal(metrics)
	if err != nil {
		http.Error(w, "could not encode dashboard metrics", http.StatusInternalServerError)
		return
	}

	if Rdb != nil {
		if err := Rdb.Set(Ctx, dashboardCacheKey, payload, dashboardCacheTTL).Err(); err != nil {
			log.Printf("dashboard cache write failed: %v", err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Cache", "MISS")
	w.Write(payload)
}
