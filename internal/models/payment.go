package models

type Payment struct {
	ID         int     `json:"id"`
	PurchaseID int     `json:"purchase_id"`
	Amount     float64 `json:"amount"`
	Method     string  `json:"method"`
	CreatedAt  string  `json:"created_at,omitempty"`
}
