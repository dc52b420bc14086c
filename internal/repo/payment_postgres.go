package repo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/mvaldes-dev/stockpile/internal/models"
)

type PostgresPaymentRepository struct {
	db *sql.DB
}

func NewPostgresPaymentRepository(db *sql.DB) *PostgresPaymentRepository {
	return &PostgresPaymentRepository{db: db}
}

// Create locks the purchase row and checks the cumulative amount in the same
// statement as the insert, so two concurrent payments serialize on the row
// and cannot both slip past the total.
func (r *PostgresPaymentRepository) Create(p models.Payment) (models.Payment, error) {
	query := `
		WITH purchase AS (
			SELECT id, total FROM purchases WHERE id = $1 FOR UPDATE
		)
		INSERT INTO payments (purchase_id, amount, method, created_at)
		SELECT purchase.id, $2, $3, $4 FROM purchase
		WHERE (SELECT COALESCE(SUM(amount), 0) FROM payments WHERE purchase_id = purchase.id) + $2 <= purchase.total
		RETURNING id`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err := r.db.QueryRowContext(ctx, query, p.PurchaseID, p.Amount, p.Method, p.CreatedAt).Scan(&p.ID)
	if errors.Is(err, sql.ErrNoRows) {
		// No row inserted: either the purchase is gone or the cap was hit.
		var exists bool
		if probeErr := r.db.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM purchases WHERE id = $1)`, p.PurchaseID).Scan(&exists); probeErr != nil {
			return models.Payment{}, probeErr
		}
		if !exists {
			return models.Payment{}, ErrPurchaseNotFound
		}
		return models.Payment{}, ErrOverpayment
	}
	return p, err
}

func (r *PostgresPaymentRepository) GetByPurchaseID(purchaseID int) ([]models.Payment, error) {
	query := `SELECT id, purchase_id, amount, method, created_at FROM payments WHERE purchase_id = $1 ORDER BY id`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query, purchaseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []models.Payment
	for rows.Next() {
		var p models.Payment
		if err := rows.Scan(&p.ID, &p.PurchaseID, &p.Amount, &p.Method, &p.CreatedAt); err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

func (r *PostgresPaymentRepository) TotalPaid(purchaseID int) (float64, error) {
	query := `SELECT COALESCE(SUM(amount), 0) FROM payments WHERE purchase_id = $1`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var total float64
	err := r.db.QueryRowContext(ctx, query, purchaseID).Scan(&total)
	return total, err
}
