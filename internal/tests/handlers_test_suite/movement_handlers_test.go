package handlers_test_suite

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	api "github.com/mvaldes-dev/stockpile/internal/http"
	"github.com/mvaldes-dev/stockpile/internal/http/handlers"
)

func TestAdjustQuantityHandler_Entrance(t *testing.T) {
	t.Cleanup(clearAll)
	r := api.NewRouter()

	created := mustCreateProduct(r, handlers.ProductRequest{Name: "Widget", SKU: "W-1", Price: 2.5, Quantity: 10})

	w := adjustProduct(r, created.Id, handlers.QuantityAdjustmentRequest{Quantity: 5, Direction: "entrance"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d: %s", w.Code, w.Body.String())
	}

	var resp handlers.ProductResponse
	json.NewDecoder(w.Body).Decode(&resp)
	if resp.Quantity != 15 {
		t.Errorf("expected quantity 15, got %d", resp.Quantity)
	}
}

func TestAdjustQuantityHandler_Exit(t *testing.T) {
	t.Cleanup(clearAll)
	r := api.NewRouter()

	created := mustCreateProduct(r, handlers.ProductRequest{Name: "Widget", SKU: "W-1", Price: 2.5, Quantity: 10})

	w := adjustProduct(r, created.Id, handlers.QuantityAdjustmentRequest{Quantity: 4, Direction: "exit"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}

	var resp handlers.ProductResponse
	json.NewDecoder(w.Body).Decode(&resp)
	if resp.Quantity != 6 {
		t.Errorf("expected quantity 6, got %d", resp.Quantity)
	}
}

func TestAdjustQuantityHandler_InsufficientStock(t *testing.T) {
	t.Cleanup(clearAll)
	r := api.NewRouter()

	created := mustCreateProduct(r, handlers.ProductRequest{Name: "Widget", SKU: "W-1", Price: 2.5, Quantity: 3})

	w := adjustProduct(r, created.Id, handlers.QuantityAdjustmentRequest{Quantity: 4, Direction: "exit"})
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 Conflict, got %d", w.Code)
	}

	// The failed exit must not have touched the stock.
	getReq := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/products/%d", created.Id), nil)
	getW := httptest.NewRecorder()
	r.ServeHTTP(getW, getReq)

	var resp handlers.ProductResponse
	json.NewDecoder(getW.Body).Decode(&resp)
	if resp.Quantity != 3 {
		t.Errorf("expected quantity 3 after rejected exit, got %d", resp.Quantity)
	}
}

func TestAdjustQuantityHandler_InvalidInput(t *testing.T) {
	t.Cleanup(clearAll)
	r := api.NewRouter()

	created := mustCreateProduct(r, handlers.ProductRequest{Name: "Widget", SKU: "W-1", Price: 2.5, Quantity: 3})

	tests := []struct {
		name string
		adj  handlers.QuantityAdjustmentRequest
	}{
		{"Zero quantity", handlers.QuantityAdjustmentRequest{Quantity: 0, Direction: "entrance"}},
		{"Negative quantity", handlers.QuantityAdjustmentRequest{Quantity: -2, Direction: "exit"}},
		{"Unknown direction", handlers.QuantityAdjustmentRequest{Quantity: 1, Direction: "sideways"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := adjustProduct(r, created.Id, tt.adj)
			if w.Code != http.StatusBadRequest {
				t.Errorf("expected 400 Bad Request, got %d", w.Code)
			}
		})
	}
}

func TestAdjustQuantityHandler_NotFound(t *testing.T) {
	t.Cleanup(clearAll)
	r := api.NewRouter()

	w := adjustProduct(r, 999999, handlers.QuantityAdjustmentRequest{Quantity: 1, Direction: "entrance"})
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 Not Found, got %d", w.Code)
	}
}

func TestGetMovementsHandler(t *testing.T) {
	t.Cleanup(clearAll)
	r := api.NewRouter()

	created := mustCreateProduct(r, handlers.ProductRequest{Name: "Widget", SKU: "W-1", Price: 2.5, Quantity: 10})

	adjustProduct(r, created.Id, handlers.QuantityAdjustmentRequest{Quantity: 5, Direction: "entrance"})
	adjustProduct(r, created.Id, handlers.QuantityAdjustmentRequest{Quantity: 2, Direction: "exit"})

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/products/%d/movements", created.Id), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}

	var resp handlers.MovementsSearchResult
	json.NewDecoder(w.Body).Decode(&resp)

	if resp.Meta.TotalCount != 2 {
		t.Fatalf("expected 2 movements, got %d", resp.Meta.TotalCount)
	}
	if resp.Data[0].Delta != 5 || resp.Data[0].Kind != "entrance" {
		t.Errorf("expected first movement +5 entrance, got %+v", resp.Data[0])
	}
	if resp.Data[1].Delta != -2 || resp.Data[1].Kind != "exit" {
		t.Errorf("expected second movement -2 exit, got %+v", resp.Data[1])
	}
}

func TestGetMovementsHandler_PositiveOffsetTimestamps(t *testing.T) {
	t.Cleanup(clearAll)
	r := api.NewRouter()

	created := mustCreateProduct(r, handlers.ProductRequest{Name: "Widget", SKU: "W-1", Price: 2.5, Quantity: 10})
	adjustProduct(r, created.Id, handlers.QuantityAdjustmentRequest{Quantity: 3, Direction: "entrance"})

	// A literal + in a query string decodes to a space; the handler has to
	// cope with both plain and fractional-second timestamps.
	for _, since := range []string{
		"2000-01-01T00:00:00+02:00",
		"2000-01-01T00:00:00.123+02:00",
	} {
		req := httptest.NewRequest(http.MethodGet,
			fmt.Sprintf("/products/%d/movements?since=%s", created.Id, since), nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("since=%q: expected 200 OK, got %d: %s", since, w.Code, w.Body.String())
			continue
		}
		var resp handlers.MovementsSearchResult
		json.NewDecoder(w.Body).Decode(&resp)
		if resp.Meta.TotalCount != 1 {
			t.Errorf("since=%q: expected 1 movement, got %d", since, resp.Meta.TotalCount)
		}
	}
}

func TestGetMovementsHandler_UnknownProduct(t *testing.T) {
	t.Cleanup(clearAll)
	r := api.NewRouter()

	req := httptest.NewRequest(http.MethodGet, "/products/424242/movements", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 Not Found, got %d", w.Code)
	}
}

func TestExportMovementsHandler_CSV(t *testing.T) {
	t.Cleanup(clearAll)
	r := api.NewRouter()

	created := mustCreateProduct(r, handlers.ProductRequest{Name: "Widget", SKU: "W-1", Price: 2.5, Quantity: 10})
	adjustProduct(r, created.Id, handlers.QuantityAdjustmentRequest{Quantity: 3, Direction: "entrance"})

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/products/%d/movements/export?format=csv", created.Id), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/csv" {
		t.Errorf("expected text/csv, got %q", ct)
	}
	body := w.Body.String()
	if body == "" {
		t.Fatal("expected CSV body, got empty response")
	}
}

func TestExportMovementsHandler_BadFormat(t *testing.T) {
	t.Cleanup(clearAll)
	r := api.NewRouter()

	req := httptest.NewRequest(http.MethodGet, "/products/1/movements/export?format=xml", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 Bad Request, got %d", w.Code)
	}
}
