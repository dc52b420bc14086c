package handlers_test_suite

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	api "github.com/mvaldes-dev/stockpile/internal/http"
	"github.com/mvaldes-dev/stockpile/internal/http/handlers"
	"github.com/mvaldes-dev/stockpile/internal/models"
)

func TestCreatePurchaseHandler(t *testing.T) {
	t.Cleanup(clearAll)
	r := api.NewRouter()

	client := mustCreateClient(r, handlers.ClientRequest{Name: "Acme", Email: "billing@acme.test"})
	p1 := mustCreateProduct(r, handlers.ProductRequest{Name: "Hammer", SKU: "HM-01", Price: 10.0, Quantity: 20})
	p2 := mustCreateProduct(r, handlers.ProductRequest{Name: "Wrench", SKU: "WR-01", Price: 15.0, Quantity: 8})

	w := doJSON(r, http.MethodPost, "/purchases", handlers.PurchaseRequest{
		ClientID: client.ID,
		Items: []handlers.PurchaseItemRequest{
			{ProductID: p1.Id, Quantity: 3},
			{ProductID: p2.Id, Quantity: 2},
		},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 Created, got %d: %s", w.Code, w.Body.String())
	}

	var purchase models.Purchase
	json.NewDecoder(w.Body).Decode(&purchase)

	if purchase.Reference == "" {
		t.Error("expected a generated purchase reference")
	}
	if purchase.Total != 60.0 { // 3*10 + 2*15
		t.Errorf("expected total 60.0, got %v", purchase.Total)
	}
	if len(purchase.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(purchase.Items))
	}

	// Stock is drawn as the sale is recorded.
	assertQuantity(t, r, p1.Id, 17)
	assertQuantity(t, r, p2.Id, 6)
}

func TestCreatePurchaseHandler_InsufficientStockRollsBack(t *testing.T) {
	t.Cleanup(clearAll)
	r := api.NewRouter()

	client := mustCreateClient(r, handlers.ClientRequest{Name: "Acme", Email: "billing@acme.test"})
	p1 := mustCreateProduct(r, handlers.ProductRequest{Name: "Hammer", SKU: "HM-01", Price: 10.0, Quantity: 20})
	p2 := mustCreateProduct(r, handlers.ProductRequest{Name: "Wrench", SKU: "WR-01", Price: 15.0, Quantity: 1})

	w := doJSON(r, http.MethodPost, "/purchases", handlers.PurchaseRequest{
		ClientID: client.ID,
		Items: []handlers.PurchaseItemRequest{
			{ProductID: p1.Id, Quantity: 3},
			{ProductID: p2.Id, Quantity: 5}, // only 1 in stock
		},
	})
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 Conflict, got %d", w.Code)
	}

	// The first item's exit must have been compensated.
	assertQuantity(t, r, p1.Id, 20)
	assertQuantity(t, r, p2.Id, 1)
}

func TestCreatePurchaseHandler_Invalid(t *testing.T) {
	t.Cleanup(clearAll)
	r := api.NewRouter()

	client := mustCreateClient(r, handlers.ClientRequest{Name: "Acme", Email: "billing@acme.test"})

	t.Run("No items", func(t *testing.T) {
		w := doJSON(r, http.MethodPost, "/purchases", handlers.PurchaseRequest{ClientID: client.ID})
		if w.Code != http.StatusBadRequest {
			t.Errorf("expected 400 Bad Request, got %d", w.Code)
		}
	})

	t.Run("Unknown client", func(t *testing.T) {
		w := doJSON(r, http.MethodPost, "/purchases", handlers.PurchaseRequest{
			ClientID: 999999,
			Items:    []handlers.PurchaseItemRequest{{ProductID: 1, Quantity: 1}},
		})
		if w.Code != http.StatusNotFound {
			t.Errorf("expected 404 Not Found, got %d", w.Code)
		}
	})

	t.Run("Deactivated client", func(t *testing.T) {
		deactivated := mustCreateClient(r, handlers.ClientRequest{Name: "Gone", Email: "gone@acme.test"})
		doJSON(r, http.MethodDelete, fmt.Sprintf("/clients/%d", deactivated.ID), nil)

		w := doJSON(r, http.MethodPost, "/purchases", handlers.PurchaseRequest{
			ClientID: deactivated.ID,
			Items:    []handlers.PurchaseItemRequest{{ProductID: 1, Quantity: 1}},
		})
		if w.Code != http.StatusConflict {
			t.Errorf("expected 409 Conflict, got %d", w.Code)
		}
	})
}

func TestPaymentsAndBalance(t *testing.T) {
	t.Cleanup(clearAll)
	r := api.NewRouter()

	client := mustCreateClient(r, handlers.ClientRequest{Name: "Acme", Email: "billing@acme.test"})
	product := mustCreateProduct(r, handlers.ProductRequest{Name: "Hammer", SKU: "HM-01", Price: 25.0, Quantity: 10})

	w := doJSON(r, http.MethodPost, "/purchases", handlers.PurchaseRequest{
		ClientID: client.ID,
		Items:    []handlers.PurchaseItemRequest{{ProductID: product.Id, Quantity: 4}}, // total 100
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("could not create purchase: %d", w.Code)
	}
	var purchase models.Purchase
	json.NewDecoder(w.Body).Decode(&purchase)

	payURL := fmt.Sprintf("/purchases/%d/payments", purchase.ID)

	w = doJSON(r, http.MethodPost, payURL, handlers.PaymentRequest{Amount: 60.0, Method: "cash"})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 Created for first payment, got %d: %s", w.Code, w.Body.String())
	}

	t.Run("Overpayment rejected", func(t *testing.T) {
		w := doJSON(r, http.MethodPost, payURL, handlers.PaymentRequest{Amount: 50.0, Method: "card"})
		if w.Code != http.StatusConflict {
			t.Errorf("expected 409 Conflict, got %d", w.Code)
		}
	})

	t.Run("Non-positive amount rejected", func(t *testing.T) {
		w := doJSON(r, http.MethodPost, payURL, handlers.PaymentRequest{Amount: 0, Method: "cash"})
		if w.Code != http.StatusBadRequest {
			t.Errorf("expected 400 Bad Request, got %d", w.Code)
		}
	})

	t.Run("Balance reflects payments", func(t *testing.T) {
		w := doJSON(r, http.MethodGet, fmt.Sprintf("/purchases/%d/balance", purchase.ID), nil)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200 OK, got %d", w.Code)
		}
		var balance handlers.BalanceResponse
		json.NewDecoder(w.Body).Decode(&balance)

		if balance.Total != 100.0 || balance.Paid != 60.0 || balance.Outstanding != 40.0 {
			t.Errorf("expected 100/60/40, got %+v", balance)
		}
	})

	t.Run("Exact settlement accepted", func(t *testing.T) {
		w := doJSON(r, http.MethodPost, payURL, handlers.PaymentRequest{Amount: 40.0, Method: "card"})
		if w.Code != http.StatusCreated {
			t.Errorf("expected 201 Created, got %d", w.Code)
		}
	})

	t.Run("Payments listed", func(t *testing.T) {
		w := doJSON(r, http.MethodGet, payURL, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200 OK, got %d", w.Code)
		}
		var payments []models.Payment
		json.NewDecoder(w.Body).Decode(&payments)
		if len(payments) != 2 {
			t.Errorf("expected 2 payments, got %d", len(payments))
		}
	})
}

func TestConcurrentPaymentsNeverExceedTotal(t *testing.T) {
	t.Cleanup(clearAll)
	r := api.NewRouter()

	client := mustCreateClient(r, handlers.ClientRequest{Name: "Acme", Email: "billing@acme.test"})
	product := mustCreateProduct(r, handlers.ProductRequest{Name: "Hammer", SKU: "HM-01", Price: 25.0, Quantity: 10})

	w := doJSON(r, http.MethodPost, "/purchases", handlers.PurchaseRequest{
		ClientID: client.ID,
		Items:    []handlers.PurchaseItemRequest{{ProductID: product.Id, Quantity: 4}}, // total 100
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("could not create purchase: %d", w.Code)
	}
	var purchase models.Purchase
	json.NewDecoder(w.Body).Decode(&purchase)

	// Several concurrent payments of 60 against a 100 total: at most one may
	// be accepted, however they interleave.
	const attempts = 4
	payURL := fmt.Sprintf("/purchases/%d/payments", purchase.ID)

	start := make(chan struct{})
	results := make(chan int, attempts)
	for i := 0; i < attempts; i++ {
		go func() {
			<-start
			w := doJSON(r, http.MethodPost, payURL, handlers.PaymentRequest{Amount: 60.0, Method: "cash"})
			results <- w.Code
		}()
	}
	close(start)

	accepted := 0
	for i := 0; i < attempts; i++ {
		switch code := <-results; code {
		case http.StatusCreated:
			accepted++
		case http.StatusConflict:
		default:
			t.Errorf("unexpected status %d", code)
		}
	}
	if accepted != 1 {
		t.Errorf("expected exactly one accepted payment, got %d", accepted)
	}

	w = doJSON(r, http.MethodGet, fmt.Sprintf("/purchases/%d/balance", purchase.ID), nil)
	var balance handlers.BalanceResponse
	json.NewDecoder(w.Body).Decode(&balance)
	if balance.Paid > balance.Total {
		t.Errorf("cumulative payments %v exceed the purchase total %v", balance.Paid, balance.Total)
	}
	if balance.Paid != 60.0 {
		t.Errorf("expected paid 60.0, got %v", balance.Paid)
	}
}

func TestGetClientPurchasesHandler(t *testing.T) {
	t.Cleanup(clearAll)
	r := api.NewRouter()

	client := mustCreateClient(r, handlers.ClientRequest{Name: "Acme", Email: "billing@acme.test"})
	product := mustCreateProduct(r, handlers.ProductRequest{Name: "Hammer", SKU: "HM-01", Price: 10.0, Quantity: 50})

	for i := 0; i < 3; i++ {
		w := doJSON(r, http.MethodPost, "/purchases", handlers.PurchaseRequest{
			ClientID: client.ID,
			Items:    []handlers.PurchaseItemRequest{{ProductID: product.Id, Quantity: 1}},
		})
		if w.Code != http.StatusCreated {
			t.Fatalf("could not create purchase: %d", w.Code)
		}
	}

	w := doJSON(r, http.MethodGet, fmt.Sprintf("/clients/%d/purchases", client.ID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}

	var purchases []models.Purchase
	json.NewDecoder(w.Body).Decode(&purchases)
	if len(purchases) != 3 {
		t.Errorf("expected 3 purchases, got %d", len(purchases))
	}
}
