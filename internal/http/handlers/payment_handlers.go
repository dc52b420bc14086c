package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mvaldes-dev/stockpile/internal/models"
	"github.com/mvaldes-dev/stockpile/internal/repo"
)

func purchaseFromURL(w http.ResponseWriter, r *http.Request) (models.Purchase, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid purchase ID", http.StatusBadRequest)
		return models.Purchase{}, false
	}
	purchase, err := purchaseRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, repo.ErrPurchaseNotFound) {
			http.Error(w, "purchase not found", http.StatusNotFound)
			return models.Purchase{}, false
		}
		http.Error(w, "could not fetch purchase", http.StatusInternalServerError)
		return models.Purchase{}, false
	}
	return purchase, true
}

// CreatePaymentHandler godoc
// @Summary Record a payment against a purchase
// @Description A payment that would push the total paid past the purchase total is rejected
// @Tags payments
// @Accept json
// @Produce json
// @Param id path int true "Purchase ID"
// @Param payment body PaymentRequest true "Amount and method"
// @Success 201 {object} models.Payment
// @Failure 400 {string} string "Invalid input"
// @Failure 404 {string} string "Purchase not found"
// @Failure 409 {string} string "Overpayment"
// @Router /purchases/{id}/payments [post]
// @Security BearerAuth
func CreatePaymentHandler(w http.ResponseWriter, r *http.Request) {
	purchase, ok := purchaseFromURL(w, r)
	if !ok {
		return
	}

	var req PaymentRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}
	if req.Amount <= 0 {
		http.Error(w, "amount must be greater than zero", http.StatusBadRequest)
		return
	}

	payment := models.Payment{
		PurchaseID: purchase.ID,
		Amount:     req.Amount,
		Method:     req.Method,
		CreatedAt:  time.Now().Format(time.RFC3339),
	}
	// The cumulative check lives inside Create, so two concurrent payments
	// cannot both pass it.
	created, err := paymentRepo.Create(payment)
	if err != nil {
		switch {
		case errors.Is(err, repo.ErrOverpayment):
			http.Error(w, "payment exceeds outstanding balance", http.StatusConflict)
		case errors.Is(err, repo.ErrPurchaseNotFound):
			http.Error(w, "purchase not found", http.StatusNotFound)
		default:
			http.Error(w, "could not record payment", http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// GetPaymentsHandler godoc
// @Summary List payments made against a purchase
// @Tags payments
// @Produce json
// @Param id path int true "Purchase ID"
// @Success 200 {array} models.Payment
// @Failure 400 {string} string "Invalid ID"
// @Failure 404 {string} string "Purchase not found"
// @Router /purchases/{id}/payments [get]
// @Security BearerAuth
func GetPaymentsHandler(w http.ResponseWriter, r *http.Request) {
	purchase, ok := purchaseFromURL(w, r)
	if !ok {
		return
	}

	payments, err := paymentRepo.GetByPurchaseID(purchase.ID)
	if err != nil {
		http.Error(w, "could not fetch payments", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, payments)
}

// GetPurchaseBalanceHandler godoc
// @Summary Get the outstanding balance of a purchase
// @Tags payments
// @Produce json
// @Param id path int true "Purchase ID"
// @Success 200 {object} BalanceResponse
// @Failure 400 {string} string "Invalid ID"
// @Failure 404 {string} string "Purchase not found"
// @Router /purchases/{id}/balance [get]
// @Security BearerAuth
func GetPurchaseBalanceHandler(w http.ResponseWriter, r *http.Request) {
	purchase, ok := purchaseFromURL(w, r)
	if !ok {
		return
	}

	paid, err := paymentRepo.TotalPaid(purchase.ID)
	if err != nil {
		http.Error(w, "could not compute balance", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, BalanceResponse{
		PurchaseID:  purchase.ID,
		Total:       purchase.Total,
		Paid:        paid,
		Outstanding: purchase.Total - paid,
	})
}
