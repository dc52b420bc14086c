package repo

import "github.com/mvaldes-dev/stockpile/internal/models"

// ProductRepository defines the interface for product data operations.
//
// AdjustQuantity is the only mutator of the stock field and must be atomic:
// the non-negativity check and the write happen as one step, so concurrent
// adjustments to the same product can never both succeed past zero.
type ProductRepository interface {
	Create(product models.Product) (models.Product, error)
	GetAll() ([]models.Product, error)
	GetByID(id int) (models.Product, error)
	GetBySKU(sku string) (models.Product, error)
	// Update rewrites catalog fields; the stored quantity, active flag and
	// creation timestamp are preserved.
	Update(product models.Product) (models.Product, error)
	// Deactivate soft-deletes a product; it stays addressable by id/SKU.
	Deactivate(id int) error
	Activate(id int) error
	Filter(pf ProductFilter) ([]models.Product, int, error)
	// AdjustQuantity applies a signed delta, failing with ErrInsufficientStock
	// when the result would be negative and ErrProductNotFound when the id
	// does not exist.
	AdjustQuantity(productID, delta int) (models.Product, error)
	// ListLowStock returns active products with quantity <= threshold,
	// ordered by SKU.
	ListLowStock() ([]models.Product, error)
}
