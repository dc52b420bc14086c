package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mvaldes-dev/stockpile/internal/inventory"
	"github.com/mvaldes-dev/stockpile/internal/models"
	"github.com/mvaldes-dev/stockpile/internal/repo"
)

// CreatePurchaseHandler godoc
// @Summary Record a sale to a client
// @Description Each item is drawn from stock as an exit adjustment. If any item cannot be covered the whole purchase is rejected and already-applied exits are rolled back.
// @Tags purchases
// @Accept json
// @Produce json
// @Param purchase body PurchaseRequest true "Client and items"
// @Success 201 {object} models.Purchase
// @Failure 400 {string} string "Invalid input"
// @Failure 404 {string} string "Client or product not found"
// @Failure 409 {string} string "Insufficient stock"
// @Failure 500 {string} string "Internal error"
// @Router /purchases [post]
// @Security BearerAuth
func CreatePurchaseHandler(w http.ResponseWriter, r *http.Request) {
	var req PurchaseRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}
	if len(req.Items) == 0 {
		http.Error(w, "a purchase needs at least one item", http.StatusBadRequest)
		return
	}
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			http.Error(w, "item quantities must be positive", http.StatusBadRequest)
			return
		}
	}

	client, err := clientRepo.GetByID(req.ClientID)
	if err != nil {
		if errors.Is(err, repo.ErrClientNotFound) {
			http.Error(w, "client not found", http.StatusNotFound)
			return
		}
		http.Error(w, "could not fetch client", http.StatusInternalServerError)
		return
	}
	if !client.Active {
		http.Error(w, "client is deactivated", http.StatusConflict)
		return
	}

	// Items are drawn one by one; each exit is atomic on its own, so a
	// failure partway through needs the earlier exits compensated.
	var applied []models.PurchaseItem
	var total float64
	for _, item := range req.Items {
		product, err := inventorySvc.Adjust(item.ProductID, item.Quantity, inventory.Exit)
		if err != nil {
			rollbackItems(applied)
			switch {
			case errors.Is(err, repo.ErrProductNotFound):
				http.Error(w, "product not found", http.StatusNotFound)
			case errors.Is(err, repo.ErrInsufficientStock):
				http.Error(w, "insufficient stock for purchase", http.StatusConflict)
			case errors.Is(err, inventory.ErrInvalidQuantity):
				http.Error(w, "item quantities must be positive", http.StatusBadRequest)
			default:
				http.Error(w, "could not draw stock", http.StatusInternalServerError)
			}
			return
		}
		applied = append(applied, models.PurchaseItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: product.Price,
		})
		total += product.Price * float64(item.Quantity)
	}

	purchase := models.Purchase{
		Reference: uuid.NewString(),
		ClientID:  req.ClientID,
		Total:     total,
		Items:     applied,
		CreatedAt: time.Now().Format(time.RFC3339),
	}
	created, err := purchaseRepo.Create(purchase)
	if err != nil {
		rollbackItems(applied)
		http.Error(w, "could not record purchase", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// rollbackItems returns stock drawn by a failed purchase. Entrances cannot
// fail the non-negativity check, so a compensation error here only means the
// product disappeared mid-flight.
func rollbackItems(items []models.PurchaseItem) {
	for _, item := range items {
		if _, err := inventorySvc.Adjust(item.ProductID, item.Quantity, inventory.Entrance); err != nil {
			log.Printf("could not compensate stock for product %d: %v", item.ProductID, err)
		}
	}
}

// GetPurchaseByReferenceHandler godoc
// @Summary Get purchase by its reference code
// @Tags purchases
// @Produce json
// @Param ref path string true "Purchase reference"
// @Success 200 {object} models.Purchase
// @Failure 404 {string} string "Not found"
// @Router /purchases/reference/{ref} [get]
// @Security BearerAuth
func GetPurchaseByReferenceHandler(w http.ResponseWriter, r *http.Request) {
	ref := chi.URLParam(r, "ref")

	purchase, err := purchaseRepo.GetByReference(ref)
	if err != nil {
		if errors.Is(err, repo.ErrPurchaseNotFound) {
			http.Error(w, "purchase not found", http.StatusNotFound)
			return
		}
		http.Error(w, "could not fetch purchase", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, purchase)
}

// GetPurchaseByIDHandler godoc
// @Summary Get purchase by ID
// @Tags purchases
// @Produce json
// @Param id path int true "Purchase ID"
// @Success 200 {object} models.Purchase
// @Failure 400 {string} string "Invalid ID"
// @Failure 404 {string} string "Not found"
// @Router /purchases/{id} [get]
// @Security BearerAuth
func GetPurchaseByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid purchase ID", http.StatusBadRequest)
		return
	}

	purchase, err := purchaseRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, repo.ErrPurchaseNotFound) {
			http.Error(w, "purchase not found", http.StatusNotFound)
			return
		}
		http.Error(w, "could not fetch purchase", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, purchase)
}
