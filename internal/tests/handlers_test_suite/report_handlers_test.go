package handlers_test_suite

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	api "github.com/mvaldes-dev/stockpile/internal/http"
	"github.com/mvaldes-dev/stockpile/internal/http/handlers"
	"github.com/mvaldes-dev/stockpile/internal/repo"
)

func TestGetDashboardReportHandler(t *testing.T) {
	t.Cleanup(clearAll)
	r := api.NewRouter()

	p1 := mustCreateProduct(r, handlers.ProductRequest{Name: "Hammer", SKU: "HM-01", Price: 10.0, Quantity: 3, Threshold: 5})
	p2 := mustCreateProduct(r, handlers.ProductRequest{Name: "Wrench", SKU: "WR-01", Price: 15.0, Quantity: 50, Threshold: 5})
	client := mustCreateClient(r, handlers.ClientRequest{Name: "Acme", Email: "billing@acme.test"})

	adjustProduct(r, p1.Id, handlers.QuantityAdjustmentRequest{Quantity: 2, Direction: "entrance"})
	adjustProduct(r, p1.Id, handlers.QuantityAdjustmentRequest{Quantity: 1, Direction: "exit"})
	adjustProduct(r, p2.Id, handlers.QuantityAdjustmentRequest{Quantity: 5, Direction: "entrance"})

	w := doJSON(r, http.MethodPost, "/purchases", handlers.PurchaseRequest{
		ClientID: client.ID,
		Items:    []handlers.PurchaseItemRequest{{ProductID: p2.Id, Quantity: 2}}, // total 30
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("could not create purchase: %d", w.Code)
	}

	w = doJSON(r, http.MethodGet, "/reports/dashboard", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d: %s", w.Code, w.Body.String())
	}

	var metrics repo.Metrics
	if err := json.NewDecoder(w.Body).Decode(&metrics); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}

	if metrics.TotalProducts != 2 {
		t.Errorf("expected 2 products, got %d", metrics.TotalProducts)
	}
	if metrics.TotalClients != 1 {
		t.Errorf("expected 1 client, got %d", metrics.TotalClients)
	}
	// Three manual adjustments plus the purchase exit.
	if metrics.TotalMovements != 4 {
		t.Errorf("expected 4 movements, got %d", metrics.TotalMovements)
	}
	if metrics.LowStockCount != 1 {
		t.Errorf("expected 1 low-stock product, got %d", metrics.LowStockCount)
	}
	if metrics.MostMovedProduct.Name != "Wrench" && metrics.MostMovedProduct.Name != "Hammer" {
		t.Errorf("unexpected most moved product: %+v", metrics.MostMovedProduct)
	}
	if metrics.PurchasesTotal != 30.0 {
		t.Errorf("expected purchases total 30.0, got %v", metrics.PurchasesTotal)
	}
}

func TestGetDashboardReportHandler_RequiresAdmin(t *testing.T) {
	r := api.NewRouter()

	w := postJSON(r, "/register", handlers.CredentialsRequest{Username: "frank", Password: "frank-password"})
	if w.Code != http.StatusCreated {
		t.Fatalf("register failed: %d", w.Code)
	}
	userToken, err := loginToken(r, "frank", "frank-password")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/reports/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+userToken)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403 Forbidden, got %d", rec.Code)
	}
}
