package repo

import "errors"

var (
	// ErrProductNotFound is returned when a product id or SKU does not resolve.
	ErrProductNotFound = errors.New("product not found")
	// ErrInsufficientStock is returned when an exit adjustment would drive the
	// stock quantity below zero. The stock value is left unchanged.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrDuplicatedValueUnique is returned on unique-constraint violations
	// (product SKU, username).
	ErrDuplicatedValueUnique = errors.New("duplicated value for unique column")

	// ErrOverpayment is returned when a payment would push the cumulative
	// amount past the purchase total. The check and the insert are one atomic
	// repository operation, like the stock adjustment.
	ErrOverpayment = errors.New("payment exceeds outstanding balance")

	ErrClientNotFound   = errors.New("client not found")
	ErrPurchaseNotFound = errors.New("purchase not found")
	ErrUserNotFound     = errors.New("user not found")
)
