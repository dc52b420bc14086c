// Package alerts mails low-stock notifications and keeps a daily summary of
// alert events in redis.
package alerts

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/smtp"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mvaldes-dev/stockpile/internal/config"
	"github.com/mvaldes-dev/stockpile/internal/models"
	"github.com/mvaldes-dev/stockpile/internal/redissvc"
)

var (
	cfg config.SMTP

	rdb *redis.Client
	ctx context.Context
)

func Configure(c config.SMTP) {
	cfg = c
}

func SetRedisService(rs *redissvc.RedisService) {
	rdb = rs.Rdb()
	ctx = rs.Ctx()
}

// DailyAlertLogKey is the redis list the daily summary drains.
const DailyAlertLogKey = "stock:alertlog:daily"

type alertLogEntry struct {
	SKU       string    `json:"sku"`
	Name      string    `json:"name"`
	Quantity  int       `json:"quantity"`
	Threshold int       `json:"threshold"`
	Time      time.Time `json:"time"`
}

// LowStockAlert records a low-stock event and mails an immediate alert.
// Safe to use as an inventory.AlertFunc.
func LowStockAlert(p models.Product) {
	logAlertEvent(p)

	if cfg.Server == "" {
		return
	}

	subject := fmt.Sprintf("LOW STOCK: %s (%s)", p.Name, p.SKU)
	body := fmt.Sprintf("Product: %s\nSKU: %s\nQuantity: %d\nThreshold: %d\nTime: %s",
		p.Name, p.SKU, p.Quantity, p.Threshold, time.Now().Format(time.RFC3339))

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s", cfg.From, cfg.To, subject, body)
	sendMail([]byte(msg))
}

func logAlertEvent(p models.Product) {
	if rdb == nil {
		return
	}
	entry := alertLogEntry{
		SKU:       p.SKU,
		Name:      p.Name,
		Quantity:  p.Quantity,
		Threshold: p.Threshold,
		Time:      time.Now(),
	}
	data, _ := json.Marshal(entry)
	_ = rdb.RPush(ctx, DailyAlertLogKey, data).Err()
}

// StartDailySummary sends the aggregate low-stock report once a day, shortly
// before midnight.
func StartDailySummary(interval time.Duration) {
	for {
		now := time.Now()
		next := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 0, 0, now.Location())
		if now.After(next) {
			next = next.Add(interval)
		}
		time.Sleep(time.Until(next))
		SendDailySummary()
	}
}

func SendDailySummary() {
	if rdb == nil || cfg.Server == "" {
		return
	}

	entries, err := rdb.LRange(ctx, DailyAlertLogKey, 0, -1).Result()
	if err != nil || len(entries) == 0 {
		return
	}
	_ = rdb.Del(ctx, DailyAlertLogKey).Err() // clear after reading

	var events []alertLogEntry
	skuCounts := make(map[string]int)
	for _, item := range entries {
		var entry alertLogEntry
		if err := json.Unmarshal([]byte(item), &entry); err == nil {
			events = append(events, entry)
			skuCounts[entry.SKU]++
		}
	}

	var sb strings.Builder
	sb.WriteString("<h2>Daily Low-Stock Summary</h2>")
	sb.WriteString(fmt.Sprintf("<p>Total alerts: <strong>%d</strong></p>", len(events)))

	sb.WriteString("<h3>By product</h3><ul>")
	for sku, count := range skuCounts {
		sb.WriteString(fmt.Sprintf("<li><code>%s</code>: %d</li>", sku, count))
	}
	sb.WriteString("</ul>")

	sb.WriteString("<h3>Full log</h3><ul>")
	for _, e := range events {
		sb.WriteString(fmt.Sprintf("<li><b>%s</b> (%s) qty=%d threshold=%d at %s</li>",
			e.Name, e.SKU, e.Quantity, e.Threshold, e.Time.Format(time.RFC822)))
	}
	sb.WriteString("</ul>")

	msg := strings.Join([]string{
		"From: " + cfg.From,
		"To: " + cfg.To,
		"Subject: Daily Low-Stock Report",
		"MIME-Version: 1.0",
		"Content-Type: text/html; charset=\"UTF-8\"",
		"",
		sb.String(),
	}, "\r\n")

	sendMail([]byte(msg))
}

func sendMail(msg []byte) {
	addr := fmt.Sprintf("%s:%s", cfg.Server, cfg.Port)
	auth := smtp.PlainAuth("", cfg.User, cfg.Password, cfg.Server)
	if cfg.AuthDisabled {
		auth = nil
	}

	go func() {
		if err := smtp.SendMail(addr, auth, cfg.From, []string{cfg.To}, msg); err != nil {
			log.Printf("failed to send alert email: %v", err)
		}
	}()
}
