package handlers_test_suite

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	api "github.com/mvaldes-dev/stockpile/internal/http"
	"github.com/mvaldes-dev/stockpile/internal/http/handlers"
)

func postStockImport(r http.Handler, csvContent string) *httptest.ResponseRecorder {
	body, contentType := multipartCSV(csvContent, "stock.csv")
	req := httptest.NewRequest(http.MethodPost, "/stock/import", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+adminToken)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestImportStockHandler_MixedRows(t *testing.T) {
	t.Cleanup(clearAll)
	r := api.NewRouter()

	p1 := mustCreateProduct(r, handlers.ProductRequest{Name: "Alpha", SKU: "P001", Price: 1.0, Quantity: 10})
	p2 := mustCreateProduct(r, handlers.ProductRequest{Name: "Beta", SKU: "P002", Price: 1.0, Quantity: 4})

	w := postStockImport(r, "P001,5\nP002,abc\nP999,3")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d: %s", w.Code, w.Body.String())
	}

	var result handlers.StockImportResult
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}

	if result.Success {
		t.Error("expected success=false with failed rows")
	}
	if result.Applied != 1 {
		t.Errorf("expected 1 applied row, got %d", result.Applied)
	}
	if len(result.Failures) != 2 {
		t.Fatalf("expected 2 failures, got %d: %+v", len(result.Failures), result.Failures)
	}
	if result.Failures[0].Row != 2 || !strings.Contains(result.Failures[0].Reason, "invalid quantity") {
		t.Errorf("expected row 2 to fail on quantity, got %+v", result.Failures[0])
	}
	if result.Failures[1].Row != 3 || !strings.Contains(result.Failures[1].Reason, "not found") {
		t.Errorf("expected row 3 to fail on unknown SKU, got %+v", result.Failures[1])
	}

	// The good row applied even though later rows failed.
	assertQuantity(t, r, p1.Id, 15)
	assertQuantity(t, r, p2.Id, 4)
}

func TestImportStockHandler_AllRowsApply(t *testing.T) {
	t.Cleanup(clearAll)
	r := api.NewRouter()

	p1 := mustCreateProduct(r, handlers.ProductRequest{Name: "Alpha", SKU: "P001", Price: 1.0, Quantity: 0})

	// Raw body instead of multipart, with blank lines and CRLF endings.
	req := httptest.NewRequest(http.MethodPost, "/stock/import", strings.NewReader("\r\nP001,5\r\n\r\nP001,2\r\n"))
	req.Header.Set("Authorization", "Bearer "+adminToken)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}

	var result handlers.StockImportResult
	json.NewDecoder(w.Body).Decode(&result)

	if !result.Success {
		t.Errorf("expected success, got %+v", result)
	}
	if result.Applied != 2 {
		t.Errorf("expected 2 applied rows, got %d", result.Applied)
	}
	assertQuantity(t, r, p1.Id, 7)
}

func TestImportStockHandler_MalformedRows(t *testing.T) {
	t.Cleanup(clearAll)
	r := api.NewRouter()

	mustCreateProduct(r, handlers.ProductRequest{Name: "Alpha", SKU: "P001", Price: 1.0, Quantity: 0})

	w := postStockImport(r, "P001\nP001,1,extra\n,5\nP001,0\nP001,-3")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}

	var result handlers.StockImportResult
	json.NewDecoder(w.Body).Decode(&result)

	if result.Applied != 0 {
		t.Errorf("expected no applied rows, got %d", result.Applied)
	}
	if len(result.Failures) != 5 {
		t.Fatalf("expected 5 failures, got %d: %+v", len(result.Failures), result.Failures)
	}
}

func TestImportProductsHandler(t *testing.T) {
	t.Cleanup(clearAll)
	r := api.NewRouter()

	csvContent := "name,sku,price,quantity,threshold,category\n" +
		"Hammer,HM-01,9.99,20,5,tools\n" +
		"Screwdriver,SD-01,4.99,abc,5,tools\n" +
		"Wrench,WR-01,14.99,10,2,tools\n"

	body, contentType := multipartCSV(csvContent, "products.csv")
	req := httptest.NewRequest(http.MethodPost, "/products/import", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+adminToken)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d: %s", w.Code, w.Body.String())
	}

	var result handlers.ImportProductsResult
	json.NewDecoder(w.Body).Decode(&result)

	if result.ImportedProductsCount != 2 {
		t.Errorf("expected 2 imported products, got %d", result.ImportedProductsCount)
	}
	if len(result.Errors) != 1 {
		t.Errorf("expected 1 row error, got %d: %+v", len(result.Errors), result.Errors)
	}

	if _, err := productRepo.GetBySKU("HM-01"); err != nil {
		t.Errorf("expected HM-01 to exist after import: %v", err)
	}
}

func TestImportProductsHandler_SkipExisting(t *testing.T) {
	t.Cleanup(clearAll)
	r := api.NewRouter()

	mustCreateProduct(r, handlers.ProductRequest{Name: "Hammer", SKU: "HM-01", Price: 9.99, Quantity: 20})

	csvContent := "name,sku,price,quantity,threshold\nNew Hammer,HM-01,19.99,5,1\n"
	body, contentType := multipartCSV(csvContent, "products.csv")
	req := httptest.NewRequest(http.MethodPost, "/products/import", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+adminToken)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var result handlers.ImportProductsResult
	json.NewDecoder(w.Body).Decode(&result)

	if result.ImportedProductsCount != 0 {
		t.Errorf("expected duplicate SKU to be skipped, got %d imports", result.ImportedProductsCount)
	}
	if len(result.Errors) != 1 {
		t.Errorf("expected 1 error for the duplicate, got %d", len(result.Errors))
	}
}

func assertQuantity(t *testing.T, r http.Handler, productID, want int) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/products/%d", productID), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK fetching product %d, got %d", productID, w.Code)
	}
	var resp handlers.ProductResponse
	json.NewDecoder(w.Body).Decode(&resp)
	if resp.Quantity != want {
		t.Errorf("product %d: expected quantity %d, got %d", productID, want, resp.Quantity)
	}
}
