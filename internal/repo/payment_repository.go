package repo

import "github.com/mvaldes-dev/stockpile/internal/models"

type PaymentRepository interface {
	// Create records a payment. The cumulative-amount check against the
	// purchase total happens inside the same operation as the insert, so
	// concurrent payments can never jointly exceed the total; a payment that
	// would is rejected with ErrOverpayment.
	Create(payment models.Payment) (models.Payment, error)
	GetByPurchaseID(purchaseID int) ([]models.Payment, error)
	// TotalPaid returns the sum of all payments against a purchase.
	TotalPaid(purchaseID int) (float64, error)
}
