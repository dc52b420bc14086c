package repo

import (
	"sync"

	"github.com/mvaldes-dev/stockpile/internal/models"
)

type InMemoryClientRepository struct {
	mu      sync.Mutex
	clients []models.Client
	nextID  int
}

func NewInMemoryClientRepository() *InMemoryClientRepository {
	return &InMemoryClientRepository{
		clients: []models.Client{},
		nextID:  1,
	}
}

func (r *InMemoryClientRepository) Create(c models.Client) (models.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c.ID = r.nextID
	r.nextID++
	r.clients = append(r.clients, c)
	return c, nil
}

func (r *InMemoryClientRepository) GetAll() ([]models.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]models.Client, len(r.clients))
	copy(out, r.clients)
	return out, nil
}

func (r *InMemoryClientRepository) GetByID(id int) (models.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range r.clients {
		if c.ID == id {
			return c, nil
		}
	}
	return models.Client{}, ErrClientNotFound
}

func (r *InMemoryClientRepository) Update(c models.Client) (models.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, existing := range r.clients {
		if existing.ID == c.ID {
			c.Active = existing.Active
			c.CreatedAt = existing.CreatedAt
			r.clients[i] = c
			return c, nil
		}
	}
	return models.Client{}, ErrClientNotFound
}

func (r *InMemoryClientRepository) Deactivate(id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, c := range r.clients {
		if c.ID == id {
			r.clients[i].Active = false
			r.clients[i].UpdatedAt = nowRFC3339()
			return nil
		}
	}
	return ErrClientNotFound
}

func (r *InMemoryClientRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients = []models.Client{}
	r.nextID = 1
}
