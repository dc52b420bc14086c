package repo

import (
	"sort"
	"strings"
	"sync"

	"github.com/mvaldes-dev/stockpile/internal/models"
)

// InMemoryProductRepository is an in-memory implementation of
// ProductRepository. All operations, in particular AdjustQuantity, are
// serialized on a mutex so the check-and-set semantics match Postgres.
type InMemoryProductRepository struct {
	mu       sync.Mutex
	products []models.Product
	nextID   int
}

// NewInMemoryProductRepository creates a new instance of InMemoryProductRepository.
func NewInMemoryProductRepository() *InMemoryProductRepository {
	return &InMemoryProductRepository{
		products: []models.Product{},
		nextID:   1,
	}
}

// Create adds a new product to the repository.
func (r *InMemoryProductRepository) Create(product models.Product) (models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.products {
		if p.SKU == product.SKU {
			return models.Product{}, ErrDuplicatedValueUnique
		}
	}
	product.ID = r.nextID
	r.nextID++
	r.products = append(r.products, product)
	return product, nil
}

// GetAll retrieves all products from the repository.
func (r *InMemoryProductRepository) GetAll() ([]models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]models.Product, len(r.products))
	copy(out, r.products)
	return out, nil
}

// GetByID retrieves a product by its ID.
func (r *InMemoryProductRepository) GetByID(id int) (models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.getByIDLocked(id)
}

func (r *InMemoryProductRepository) getByIDLocked(id int) (models.Product, error) {
	for _, p := range r.products {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Product{}, ErrProductNotFound
}

// GetBySKU retrieves a product by its SKU.
func (r *InMemoryProductRepository) GetBySKU(sku string) (models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.products {
		if p.SKU == sku {
			return p, nil
		}
	}
	return models.Product{}, ErrProductNotFound
}

// Update modifies an existing product's catalog fields. Quantity is kept
// from the stored row: stock moves only through AdjustQuantity.
func (r *InMemoryProductRepository) Update(product models.Product) (models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, p := range r.products {
		if p.ID == product.ID {
			product.Quantity = p.Quantity
			product.Active = p.Active
			product.CreatedAt = p.CreatedAt
			r.products[i] = product
			return product, nil
		}
	}
	return models.Product{}, ErrProductNotFound
}

// Deactivate soft-deletes a product.
func (r *InMemoryProductRepository) Deactivate(id int) error {
	return r.setActive(id, false)
}

// Activate re-enables a previously deactivated product.
func (r *InMemoryProductRepository) Activate(id int) error {
	return r.setActive(id, true)
}

func (r *InMemoryProductRepository) setActive(id int, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, p := range r.products {
		if p.ID == id {
			r.products[i].Active = active
			r.products[i].UpdatedAt = nowRFC3339()
			return nil
		}
	}
	return ErrProductNotFound
}

func matchesFilter(p models.Product, pf ProductFilter) bool {
	if pf.Name != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(pf.Name)) {
		return false
	}
	if pf.Category != "" && p.Category != pf.Category {
		return false
	}
	if pf.MinPrice != nil && p.Price < *pf.MinPrice {
		return false
	}
	if pf.MaxPrice != nil && p.Price > *pf.MaxPrice {
		return false
	}
	if pf.MinQty != nil && p.Quantity < *pf.MinQty {
		return false
	}
	if pf.MaxQty != nil && p.Quantity > *pf.MaxQty {
		return false
	}
	return true
}

func (r *InMemoryProductRepository) Filter(pf ProductFilter) ([]models.Product, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var filtered []models.Product
	for _, p := range r.products {
		if matchesFilter(p, pf) {
			filtered = append(filtered, p)
		}
	}

	if pf.Offset != nil && *pf.Offset > len(filtered) {
		return []models.Product{}, len(filtered), nil
	}

	start := 0
	if pf.Offset != nil {
		start = clamp(*pf.Offset, 0, len(filtered))
	}

	end := len(filtered)
	if pf.Limit != nil && *pf.Limit > 0 {
		end = clamp(start+*pf.Limit, start, len(filtered))
	}

	return filtered[start:end], len(filtered), nil
}

// AdjustQuantity applies the delta with the non-negativity check held under
// the repository lock.
func (r *InMemoryProductRepository) AdjustQuantity(productID, delta int) (models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, p := range r.products {
		if p.ID == productID {
			if p.Quantity+delta < 0 {
				return models.Product{}, ErrInsufficientStock
			}
			r.products[i].Quantity += delta
			r.products[i].UpdatedAt = nowRFC3339()
			return r.products[i], nil
		}
	}
	return models.Product{}, ErrProductNotFound
}

// ListLowStock returns active products at or below threshold, ordered by SKU.
func (r *InMemoryProductRepository) ListLowStock() ([]models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var low []models.Product
	for _, p := range r.products {
		if p.LowStock() {
			low = append(low, p)
		}
	}
	sort.Slice(low, func(i, j int) bool { return low[i].SKU < low[j].SKU })
	return low, nil
}

func (r *InMemoryProductRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products = []models.Product{}
	r.nextID = 1
}
