package handlers

import (
	"github.com/mvaldes-dev/stockpile/internal/inventory"
	"github.com/mvaldes-dev/stockpile/internal/models"
)

type ProductRequest struct {
	Id        int     `json:"id,omitempty"`
	Name      string  `json:"name"`
	SKU       string  `json:"sku"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Threshold int     `json:"threshold"`
	Category  string  `json:"category,omitempty"`
	Supplier  string  `json:"supplier,omitempty"`
}

type ProductResponse struct {
	Id        int     `json:"id"`
	Name      string  `json:"name"`
	SKU       string  `json:"sku"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Threshold int     `json:"threshold"`
	Category  string  `json:"category,omitempty"`
	Supplier  string  `json:"supplier,omitempty"`
	Active    bool    `json:"active"`
	LowStock  bool    `json:"low_stock,omitempty"`
}

func toProductResponse(p models.Product) ProductResponse {
	return ProductResponse{
		Id:        p.ID,
		Name:      p.Name,
		SKU:       p.SKU,
		Price:     p.Price,
		Quantity:  p.Quantity,
		Threshold: p.Threshold,
		Category:  p.Category,
		Supplier:  p.Supplier,
		Active:    p.Active,
		LowStock:  p.LowStock(),
	}
}

type Meta struct {
	TotalCount int `json:"total_count"`
}

type ProductsSearchResult struct {
	Data []ProductResponse `json:"data"`
	Meta Meta              `json:"meta,omitempty"`
}

// QuantityAdjustmentRequest carries a magnitude and a direction; the
// direction supplies the sign.
type QuantityAdjustmentRequest struct {
	Quantity  int    `json:"quantity"`
	Direction string `json:"direction"` // "entrance" or "exit"
}

type MovementResponse struct {
	ID        int    `json:"id"`
	ProductID int    `json:"product_id"`
	Delta     int    `json:"delta"`
	Kind      string `json:"kind"`
	CreatedAt string `json:"created_at"`
}

type MovementsSearchResult struct {
	Data []MovementResponse `json:"data"`
	Meta Meta               `json:"meta,omitempty"`
}

type ClientRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

type PurchaseItemRequest struct {
	ProductID int `json:"product_id"`
	Quantity  int `json:"quantity"`
}

type PurchaseRequest struct {
	ClientID int                   `json:"client_id"`
	Items    []PurchaseItemRequest `json:"items"`
}

type PaymentRequest struct {
	Amount float64 `json:"amount"`
	Method string  `json:"method"`
}

type BalanceResponse struct {
	PurchaseID  int     `json:"purchase_id"`
	Total       float64 `json:"total"`
	Paid        float64 `json:"paid"`
	Outstanding float64 `json:"outstanding"`
}

type CredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RegisterAsAdminRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type LoginResult struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

type RegisterResult struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type ImportProductsResult struct {
	ImportedProductsCount int                      `json:"imported"`
	Errors                []ProductValidationError `json:"errors"`
}

// StockImportResult mirrors the inventory package result on the wire.
type StockImportResult = inventory.ImportResult
