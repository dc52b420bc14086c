package models

// Product represents a catalog item whose stock is tracked by the system.
// Quantity never goes negative; adjustments that would drive it below zero
// are rejected by the repository layer.
type Product struct {
	ID        int     `json:"id"`
	Name      string  `json:"name"`
	SKU       string  `json:"sku"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Threshold int     `json:"threshold"`
	Category  string  `json:"category,omitempty"`
	Supplier  string  `json:"supplier,omitempty"`
	Active    bool    `json:"active"`
	CreatedAt string  `json:"created_at,omitempty"`
	UpdatedAt string  `json:"updated_at,omitempty"`
}

// LowStock reports whether the product is at or below its minimum threshold.
// Inactive products are never considered low.
func (p Product) LowStock() bool {
	return p.Active && p.Quantity <= p.Threshold
}
