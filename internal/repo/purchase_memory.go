package repo

import (
	"sync"

	"github.com/mvaldes-dev/stockpile/internal/models"
)

type InMemoryPurchaseRepository struct {
	mu         sync.Mutex
	purchases  []models.Purchase
	nextID     int
	nextItemID int
}

func NewInMemoryPurchaseRepository() *InMemoryPurchaseRepository {
	return &InMemoryPurchaseRepository{
		purchases:  []models.Purchase{},
		nextID:     1,
		nextItemID: 1,
	}
}

func (r *InMemoryPurchaseRepository) Create(p models.Purchase) (models.Purchase, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p.ID = r.nextID
	r.nextID++
	for i := range p.Items {
		p.Items[i].ID = r.nextItemID
		r.nextItemID++
	}
	r.purchases = append(r.purchases, p)
	return p, nil
}

func (r *InMemoryPurchaseRepository) GetByID(id int) (models.Purchase, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.purchases {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Purchase{}, ErrPurchaseNotFound
}

func (r *InMemoryPurchaseRepository) GetByReference(ref string) (models.Purchase, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.purchases {
		if p.Reference == ref {
			return p, nil
		}
	}
	return models.Purchase{}, ErrPurchaseNotFound
}

func (r *InMemoryPurchaseRepository) GetByClientID(clientID int) ([]models.Purchase, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.Purchase
	for _, p := range r.purchases {
		if p.ClientID == clientID {
			out = append(out, p)
		}
	}
	return out, nil
}

// All returns every purchase; used by the in-memory metrics repository.
func (r *InMemoryPurchaseRepository) All() []models.Purchase {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]models.Purchase, len(r.purchases))
	copy(out, r.purchases)
	return out
}

func (r *InMemoryPurchaseRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.purchases = []models.Purchase{}
	r.nextID = 1
	r.nextItemID = 1
}
