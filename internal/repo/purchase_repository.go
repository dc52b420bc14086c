package repo

import "github.com/mvaldes-dev/stockpile/internal/models"

type PurchaseRepository interface {
	Create(purchase models.Purchase) (models.Purchase, error)
	GetByID(id int) (models.Purchase, error)
	GetByReference(ref string) (models.Purchase, error)
	GetByClientID(clientID int) ([]models.Purchase, error)
}
