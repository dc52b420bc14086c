package models

// Purchase is a sale to a client. Total is computed from the unit prices at
// the time of the sale, not recomputed from the current catalog.
type Purchase struct {
	ID        int            `json:"id"`
	Reference string         `json:"reference"`
	ClientID  int            `json:"client_id"`
	Total     float64        `json:"total"`
	Items     []PurchaseItem `json:"items"`
	CreatedAt string         `json:"created_at,omitempty"`
}

type PurchaseItem struct {
	ID        int     `json:"id"`
	ProductID int     `json:"product_id"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}
