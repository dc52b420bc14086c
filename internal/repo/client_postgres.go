package repo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/mvaldes-dev/stockpile/internal/models"
)

type PostgresClientRepository struct {
	db *sql.DB
}

func NewPostgresClientRepository(db *sql.DB) *PostgresClientRepository {
	return &PostgresClientRepository{db: db}
}

func (r *PostgresClientRepository) Create(c models.Client) (models.Client, error) {
	query := `INSERT INTO clients (name, email, phone, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err := r.db.QueryRowContext(ctx, query, c.Name, c.Email, c.Phone, c.Active, c.CreatedAt, c.UpdatedAt).Scan(&c.ID)
	return c, err
}

func (r *PostgresClientRepository) GetAll() ([]models.Client, error) {
	query := `SELECT id, name, email, phone, active, created_at, updated_at FROM clients ORDER BY id`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clients []models.Client
	for rows.Next() {
		var c models.Client
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Active, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

func (r *PostgresClientRepository) GetByID(id int) (models.Client, error) {
	query := `SELECT id, name, email, phone, active, created_at, updated_at FROM clients WHERE id = $1`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var c models.Client
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Active, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Client{}, ErrClientNotFound
	}
	return c, err
}

func (r *PostgresClientRepository) Update(c models.Client) (models.Client, error) {
	query := `UPDATE clients SET name = $1, email = $2, phone = $3, updated_at = $4 WHERE id = $5`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(ctx, query, c.Name, c.Email, c.Phone, c.UpdatedAt, c.ID)
	if err != nil {
		return models.Client{}, err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return models.Client{}, ErrClientNotFound
	}
	return c, nil
}

func (r *PostgresClientRepository) Deactivate(id int) error {
	query := `UPDATE clients SET active = false, updated_at = $1 WHERE id = $2`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(ctx, query, nowRFC3339(), id)
	if err != nil {
		return err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrClientNotFound
	}
	return nil
}
