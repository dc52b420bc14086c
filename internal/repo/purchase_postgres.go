package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mvaldes-dev/stockpile/internal/models"
)

type PostgresPurchaseRepository struct {
	db *sql.DB
}

func NewPostgresPurchaseRepository(db *sql.DB) *PostgresPurchaseRepository {
	return &PostgresPurchaseRepository{db: db}
}

// Create inserts the purchase and its items in one transaction.
func (r *PostgresPurchaseRepository) Create(p models.Purchase) (models.Purchase, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Purchase{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx,
		`INSERT INTO purchases (reference, client_id, total, created_at) VALUES ($1, $2, $3, $4) RETURNING id`,
		p.Reference, p.ClientID, p.Total, p.CreatedAt).Scan(&p.ID)
	if err != nil {
		return models.Purchase{}, err
	}

	for i := range p.Items {
		err = tx.QueryRowContext(ctx,
			`INSERT INTO purchase_items (purchase_id, product_id, quantity, unit_price) VALUES ($1, $2, $3, $4) RETURNING id`,
			p.ID, p.Items[i].ProductID, p.Items[i].Quantity, p.Items[i].UnitPrice).Scan(&p.Items[i].ID)
		if err != nil {
			return models.Purchase{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return models.Purchase{}, fmt.Errorf("failed to commit purchase: %w", err)
	}
	return p, nil
}

func (r *PostgresPurchaseRepository) GetByID(id int) (models.Purchase, error) {
	return r.getOne(`WHERE id = $1`, id)
}

func (r *PostgresPurchaseRepository) GetByReference(ref string) (models.Purchase, error) {
	return r.getOne(`WHERE reference = $1`, ref)
}

func (r *PostgresPurchaseRepository) getOne(where string, arg any) (models.Purchase, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var p models.Purchase
	err := r.db.QueryRowContext(ctx,
		`SELECT id, reference, client_id, total, created_at FROM purchases `+where, arg).
		Scan(&p.ID, &p.Reference, &p.ClientID, &p.Total, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Purchase{}, ErrPurchaseNotFound
	}
	if err != nil {
		return models.Purchase{}, err
	}

	p.Items, err = r.itemsFor(ctx, p.ID)
	return p, err
}

func (r *PostgresPurchaseRepository) GetByClientID(clientID int) ([]models.Purchase, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, reference, client_id, total, created_at FROM purchases WHERE client_id = $1 ORDER BY id`, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var purchases []models.Purchase
	for rows.Next() {
		var p models.Purchase
		if err := rows.Scan(&p.ID, &p.Reference, &p.ClientID, &p.Total, &p.CreatedAt); err != nil {
			return nil, err
		}
		purchases = append(purchases, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range purchases {
		purchases[i].Items, err = r.itemsFor(ctx, purchases[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return purchases, nil
}

func (r *PostgresPurchaseRepository) itemsFor(ctx context.Context, purchaseID int) ([]models.PurchaseItem, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, product_id, quantity, unit_price FROM purchase_items WHERE purchase_id = $1 ORDER BY id`, purchaseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.PurchaseItem
	for rows.Next() {
		var it models.PurchaseItem
		if err := rows.Scan(&it.ID, &it.ProductID, &it.Quantity, &it.UnitPrice); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
