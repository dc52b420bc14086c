package repo

import (
	"sync"

	"github.com/mvaldes-dev/stockpile/internal/models"
)

type InMemoryPaymentRepository struct {
	mu        sync.Mutex
	payments  []models.Payment
	nextID    int
	purchases *InMemoryPurchaseRepository
}

func NewInMemoryPaymentRepository() *InMemoryPaymentRepository {
	return &InMemoryPaymentRepository{
		payments: []models.Payment{},
		nextID:   1,
	}
}

// SetPurchaseRepository wires the purchase lookup used by the overpayment
// check.
func (r *InMemoryPaymentRepository) SetPurchaseRepository(purchases *InMemoryPurchaseRepository) {
	r.purchases = purchases
}

// Create appends the payment with the cumulative check held under the
// repository lock, so concurrent payments serialize on it.
func (r *InMemoryPaymentRepository) Create(p models.Payment) (models.Payment, error) {
	purchase, err := r.purchases.GetByID(p.PurchaseID)
	if err != nil {
		return models.Payment{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var paid float64
	for _, existing := range r.payments {
		if existing.PurchaseID == p.PurchaseID {
			paid += existing.Amount
		}
	}
	if paid+p.Amount > purchase.Total {
		return models.Payment{}, ErrOverpayment
	}

	p.ID = r.nextID
	r.nextID++
	r.payments = append(r.payments, p)
	return p, nil
}

func (r *InMemoryPaymentRepository) GetByPurchaseID(purchaseID int) ([]models.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.Payment
	for _, p := range r.payments {
		if p.PurchaseID == purchaseID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *InMemoryPaymentRepository) TotalPaid(purchaseID int) (float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var total float64
	for _, p := range r.payments {
		if p.PurchaseID == purchaseID {
			total += p.Amount
		}
	}
	return total, nil
}

// All returns every payment; used by the in-memory metrics repository.
func (r *InMemoryPaymentRepository) All() []models.Payment {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]models.Payment, len(r.payments))
	copy(out, r.payments)
	return out
}

func (r *InMemoryPaymentRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.payments = []models.Payment{}
	r.nextID = 1
}
