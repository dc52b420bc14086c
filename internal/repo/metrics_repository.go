package repo

type MostMovedProduct struct {
	Name          string `json:"name"`
	MovementCount int    `json:"movement_count"`
}

// Metrics is the admin dashboard summary.
type Metrics struct {
	TotalProducts    int              `json:"total_products"`
	TotalClients     int              `json:"total_clients"`
	TotalMovements   int              `json:"total_movements"`
	LowStockCount    int              `json:"low_stock_count"`
	MostMovedProduct MostMovedProduct `json:"most_moved_product"`
	PurchasesTotal   float64          `json:"purchases_total"`
	PaymentsTotal    float64          `json:"payments_total"`
}

type MetricsRepository interface {
	GetDashboardMetrics() (Metrics, error)
}
