package repo

import (
	"sync"
	"time"

	"github.com/mvaldes-dev/stockpile/internal/models"
)

type InMemoryMovementRepository struct {
	mu        sync.Mutex
	movements []models.Movement
}

func NewInMemoryMovementRepository() *InMemoryMovementRepository {
	return &InMemoryMovementRepository{
		movements: []models.Movement{},
	}
}

// AddMovement seeds a movement with an explicit timestamp, for tests.
func (r *InMemoryMovementRepository) AddMovement(productID, delta int, createdAt time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.movements = append(r.movements, models.Movement{
		ID:        len(r.movements) + 1,
		ProductID: productID,
		Delta:     delta,
		CreatedAt: createdAt.Format(time.RFC3339),
	})
}

// Log inserts a new stock movement.
func (r *InMemoryMovementRepository) Log(productID, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.movements = append(r.movements, models.Movement{
		ID:        len(r.movements) + 1,
		ProductID: productID,
		Delta:     delta,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	})
	return nil
}

// GetByProductID returns movements for a product, optionally filtered by date
// range and paginated.
func (r *InMemoryMovementRepository) GetByProductID(productID int, mf MovementFilter) ([]models.Movement, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var filtered []models.Movement
	for _, m := range r.movements {
		if m.ProductID == productID {
			if (mf.Since != nil && m.CreatedAt < mf.Since.Format(time.RFC3339)) ||
				(mf.Until != nil && m.CreatedAt > mf.Until.Format(time.RFC3339)) {
				continue
			}
			filtered = append(filtered, m)
		}
	}

	if mf.Offset != nil && *mf.Offset > len(filtered) {
		return []models.Movement{}, len(filtered), nil
	}

	start := 0
	if mf.Offset != nil {
		start = clamp(*mf.Offset, 0, len(filtered))
	}

	end := len(filtered)
	if mf.Limit != nil && *mf.Limit > 0 {
		end = clamp(start+*mf.Limit, start, len(filtered))
	}

	return filtered[start:end], len(filtered), nil
}

// All returns every logged movement; used by the in-memory metrics repository.
func (r *InMemoryMovementRepository) All() []models.Movement {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]models.Movement, len(r.movements))
	copy(out, r.movements)
	return out
}

func (r *InMemoryMovementRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.movements = []models.Movement{}
}
