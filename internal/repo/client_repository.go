package repo

import "github.com/mvaldes-dev/stockpile/internal/models"

type ClientRepository interface {
	Create(client models.Client) (models.Client, error)
	GetAll() ([]models.Client, error)
	GetByID(id int) (models.Client, error)
	Update(client models.Client) (models.Client, error)
	Deactivate(id int) error
}
