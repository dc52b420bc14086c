// Package inventory implements the stock adjustment core: entrance/exit
// adjustments with a non-negativity guarantee, the low-stock evaluator and
// the bulk SKU import.
package inventory

import (
	"errors"
	"fmt"
	"log"

	"github.com/mvaldes-dev/stockpile/internal/models"
	"github.com/mvaldes-dev/stockpile/internal/repo"
)

// Direction classifies an adjustment: entrances increase stock, exits
// decrease it.
type Direction string

const (
	Entrance Direction = "entrance"
	Exit     Direction = "exit"
)

// ParseDirection validates a wire-level direction string.
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case Entrance, Exit:
		return Direction(s), nil
	}
	return "", fmt.Errorf("invalid direction %q (want %q or %q)", s, Entrance, Exit)
}

// ErrInvalidQuantity is returned when an adjustment quantity is zero or
// negative. Quantities are magnitudes; the direction carries the sign.
var ErrInvalidQuantity = errors.New("quantity must be a positive integer")

// AlertFunc is invoked when an adjustment leaves a product at or below its
// threshold.
type AlertFunc func(models.Product)

// Service applies stock adjustments against the product repository and logs
// each one as a movement. Construct one per process and hand it to the
// transport layer; tests build isolated instances over in-memory repos.
type Service struct {
	products  repo.ProductRepository
	movements repo.MovementRepository
	alert     AlertFunc
}

func NewService(products repo.ProductRepository, movements repo.MovementRepository) *Service {
	return &Service{products: products, movements: movements}
}

// SetAlertFunc registers a low-stock notification hook.
func (s *Service) SetAlertFunc(f AlertFunc) {
	s.alert = f
}

// Adjust applies a quantity in the given direction to the product's stock.
// An exit larger than the current stock fails with repo.ErrInsufficientStock
// and leaves the stock untouched; the check and the write are a single
// atomic repository operation.
func (s *Service) Adjust(productID, quantity int, dir Direction) (models.Product, error) {
	delta, err := signedDelta(quantity, dir)
	if err != nil {
		return models.Product{}, err
	}

	product, err := s.products.AdjustQuantity(productID, delta)
	if err != nil {
		return models.Product{}, err
	}

	s.recordMovement(product, delta)
	return product, nil
}

// AdjustBySKU resolves the SKU first, then adjusts. Used by the bulk import.
func (s *Service) AdjustBySKU(sku string, quantity int, dir Direction) (models.Product, error) {
	delta, err := signedDelta(quantity, dir)
	if err != nil {
		return models.Product{}, err
	}

	product, err := s.products.GetBySKU(sku)
	if err != nil {
		return models.Product{}, err
	}

	product, err = s.products.AdjustQuantity(product.ID, delta)
	if err != nil {
		return models.Product{}, err
	}

	s.recordMovement(product, delta)
	return product, nil
}

func signedDelta(quantity int, dir Direction) (int, error) {
	if quantity <= 0 {
		return 0, ErrInvalidQuantity
	}
	switch dir {
	case Entrance:
		return quantity, nil
	case Exit:
		return -quantity, nil
	}
	return 0, fmt.Errorf("invalid direction %q", dir)
}

func (s *Service) recordMovement(p models.Product, delta int) {
	if err := s.movements.Log(p.ID, delta); err != nil {
		log.Printf("failed to log movement for product %d: %v", p.ID, err)
	}
	if p.LowStock() {
		log.Printf("ALERT: product %d (%s) at or below threshold: qty=%d threshold=%d",
			p.ID, p.SKU, p.Quantity, p.Threshold)
		if s.alert != nil {
			s.alert(p)
		}
	}
}

// LowStock returns all active products at or below their minimum threshold,
// ordered by SKU. Read-only and stable between mutations.
func (s *Service) LowStock() ([]models.Product, error) {
	return s.products.ListLowStock()
}
