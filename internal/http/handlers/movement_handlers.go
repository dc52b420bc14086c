package handlers

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mvaldes-dev/stockpile/internal/inventory"
	"github.com/mvaldes-dev/stockpile/internal/repo"
)

// AdjustQuantityHandler godoc
// @Summary Apply an entrance or exit stock adjustment
// @Description Entrances always succeed; an exit larger than the current stock is rejected whole
// @Tags inventory
// @Accept json
// @Produce json
// @Param id path int true "Product ID"
// @Param adjustment body QuantityAdjustmentRequest true "Quantity and direction"
// @Success 200 {object} ProductResponse
// @Failure 400 {string} string "Invalid quantity or direction"
// @Failure 404 {string} string "Not found"
// @Failure 409 {string} string "Insufficient stock"
// @Failure 500 {string} string "Internal error"
// @Router /products/{id}/adjust [post]
// @Security BearerAuth
func AdjustQuantityHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid product ID", http.StatusBadRequest)
		return
	}

	var req QuantityAdjustmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	direction, err := inventory.ParseDirection(req.Direction)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	product, err := inventorySvc.Adjust(id, req.Quantity, direction)
	if err != nil {
		switch {
		case errors.Is(err, inventory.ErrInvalidQuantity):
			http.Error(w, "quantity must be a positive integer", http.StatusBadRequest)
		case errors.Is(err, repo.ErrProductNotFound):
			http.Error(w, "product not found", http.StatusNotFound)
		case errors.Is(err, repo.ErrInsufficientStock):
			http.Error(w, "insufficient stock for exit", http.StatusConflict)
		default:
			http.Error(w, "could not adjust quantity", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toProductResponse(product))
}

// GetMovementsHandler godoc
// @Summary Get product movement logs
// @Tags movements
// @Produce json
// @Param id path int true "Product ID"
// @Param since query string false "Filter movements from this timestamp (RFC3339)"
// @Param until query string false "Filter movements until this timestamp (RFC3339)"
// @Param offset query int false "Offset for pagination"
// @Param limit query int false "Limit for pagination"
// @Success 200 {object} MovementsSearchResult
// @Failure 400 {string} string "Invalid input"
// @Failure 404 {string} string "Product not found"
// @Failure 500 {string} string "Internal error"
// @Router /products/{id}/movements [get]
func GetMovementsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid product ID", http.StatusBadRequest)
		return
	}

	if _, err := productRepo.GetByID(id); err != nil {
		if errors.Is(err, repo.ErrProductNotFound) {
			http.Error(w, "product not found", http.StatusNotFound)
			return
		}
		http.Error(w, "could not fetch product", http.StatusInternalServerError)
		return
	}

	since, until, err := parseTimeRange(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var limit, offset *int

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		v, err := strconv.Atoi(limitStr)
		if err != nil {
			http.Error(w, "invalid limit format", http.StatusBadRequest)
			return
		}
		limit = &v
	}
	if limit != nil && *limit <= 0 {
		http.Error(w, "limit must be greater than zero", http.StatusBadRequest)
		return
	}

	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		v, err := strconv.Atoi(offsetStr)
		if err != nil {
			http.Error(w, "invalid offset format", http.StatusBadRequest)
			return
		}
		offset = &v
	}
	if offset != nil && *offset < 0 {
		http.Error(w, "offset must be zero or positive", http.StatusBadRequest)
		return
	}

	movements, total, err := movementRepo.GetByProductID(id, repo.MovementFilter{
		Since:  since,
		Until:  until,
		Offset: offset,
		Limit:  limit,
	})
	if err != nil {
		log.Printf("could not retrieve movements for product %d: %v", id, err)
		http.Error(w, "could not retrieve movements", http.StatusInternalServerError)
		return
	}

	response := MovementsSearchResult{
		Data: make([]MovementResponse, len(movements)),
		Meta: Meta{TotalCount: total},
	}
	for i, m := range movements {
		response.Data[i] = MovementResponse{
			ID:        m.ID,
			ProductID: m.ProductID,
			Delta:     m.Delta,
			Kind:      m.Kind(),
			CreatedAt: m.CreatedAt,
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// parseTimeRange reads the since/until query parameters.
func parseTimeRange(r *http.Request) (*time.Time, *time.Time, error) {
	var since, until *time.Time

	if sinceStr := r.URL.Query().Get("since"); sinceStr != "" {
		ts, err := parseRFC3339Query(sinceStr)
		if err != nil {
			return nil, nil, errors.New("invalid since date format")
		}
		since = &ts
	}
	if untilStr := r.URL.Query().Get("until"); untilStr != "" {
		ts, err := parseRFC3339Query(untilStr)
		if err != nil {
			return nil, nil, errors.New("invalid until date format")
		}
		until = &ts
	}
	return since, until, nil
}

// parseRFC3339Query parses a timestamp taken from a query string. URL query
// decoding turns + into a space, which breaks positive timezone offsets
// (2025-07-03T17:44:03+02:00 arrives as 2025-07-03T17:44:03 02:00), so a
// failed parse is retried with the space restored to a plus. RFC3339 has no
// other spaces, with or without fractional seconds.
func parseRFC3339Query(s string) (time.Time, error) {
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil && strings.Contains(s, " ") {
		return time.Parse(time.RFC3339, strings.Replace(s, " ", "+", 1))
	}
	return ts, err
}

// ExportMovementsHandler godoc
// @Summary Export product movement logs
// @Tags movements
// @Produce text/csv, application/json
// @Param id path int true "Product ID"
// @Param format query string true "Export format (csv or json)"
// @Param since query string false "Filter from timestamp (RFC3339)"
// @Param until query string false "Filter until timestamp (RFC3339)"
// @Success 200 {file} file
// @Failure 400 {string} string "Invalid input"
// @Failure 500 {string} string "Internal error"
// @Router /products/{id}/movements/export [get]
func ExportMovementsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid product ID", http.StatusBadRequest)
		return
	}

	format := r.URL.Query().Get("format")
	if format != "csv" && format != "json" {
		http.Error(w, "format must be 'csv' or 'json'", http.StatusBadRequest)
		return
	}

	since, until, err := parseTimeRange(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	movements, _, err := movementRepo.GetByProductID(id, repo.MovementFilter{Since: since, Until: until})
	if err != nil {
		http.Error(w, "could not retrieve movements", http.StatusInternalServerError)
		return
	}

	switch format {
	case "json":
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", `attachment; filename="movements.json"`)
		json.NewEncoder(w).Encode(movements)

	case "csv":
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="movements.csv"`)

		csvWriter := csv.NewWriter(w)
		_ = csvWriter.Write([]string{"id", "product_id", "delta", "kind", "created_at"})
		for _, m := range movements {
			_ = csvWriter.Write([]string{
				strconv.Itoa(m.ID),
				strconv.Itoa(m.ProductID),
				strconv.Itoa(m.Delta),
				m.Kind(),
				m.CreatedAt,
			})
		}
		csvWriter.Flush()
	}
}
