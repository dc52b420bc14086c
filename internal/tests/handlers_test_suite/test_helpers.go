package handlers_test_suite

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"

	"golang.org/x/crypto/bcrypt"

	"github.com/mvaldes-dev/stockpile/internal/auth"
	api "github.com/mvaldes-dev/stockpile/internal/http"
	"github.com/mvaldes-dev/stockpile/internal/http/handlers"
	"github.com/mvaldes-dev/stockpile/internal/http/rate_limiter"
	"github.com/mvaldes-dev/stockpile/internal/inventory"
	"github.com/mvaldes-dev/stockpile/internal/models"
	"github.com/mvaldes-dev/stockpile/internal/repo"
)

var (
	adminToken string

	productRepo  *repo.InMemoryProductRepository
	movementRepo *repo.InMemoryMovementRepository
	clientRepo   *repo.InMemoryClientRepository
	purchaseRepo *repo.InMemoryPurchaseRepository
	paymentRepo  *repo.InMemoryPaymentRepository
	userRepo     *repo.InMemoryUserRepository
)

func init() {
	// The login/register routes are rate limited per IP; loosen the limit so
	// the suite never trips it.
	rate_limiter.Configure(1000, 1000)
	auth.Configure("test-secret", 0)

	setupTestRepos("admin-secret")
	r := api.NewRouter()

	var err error
	adminToken, err = loginToken(r, "admin", "admin-secret")
	if err != nil {
		panic(fmt.Sprintf("error generating token: %v", err))
	}
}

func setupTestRepos(password string) {
	productRepo = repo.NewInMemoryProductRepository()
	handlers.SetProductRepo(productRepo)

	movementRepo = repo.NewInMemoryMovementRepository()
	handlers.SetMovementRepo(movementRepo)

	clientRepo = repo.NewInMemoryClientRepository()
	handlers.SetClientRepo(clientRepo)

	purchaseRepo = repo.NewInMemoryPurchaseRepository()
	handlers.SetPurchaseRepo(purchaseRepo)

	paymentRepo = repo.NewInMemoryPaymentRepository()
	paymentRepo.SetPurchaseRepository(purchaseRepo)
	handlers.SetPaymentRepo(paymentRepo)

	userRepo = repo.NewInMemoryUserRepository()
	handlers.SetUserRepo(userRepo)

	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	userRepo.CreateUser(models.User{
		Username:     "admin",
		PasswordHash: string(hash),
		Role:         "admin",
	})

	metricsRepo := repo.NewInMemoryMetricsRepository()
	handlers.SetMetricsRepo(metricsRepo)
	metricsRepo.SetRepositories(productRepo, clientRepo, movementRepo, purchaseRepo, paymentRepo)

	handlers.SetInventoryService(inventory.NewService(productRepo, movementRepo))
}

func clearAll() {
	productRepo.Clear()
	movementRepo.Clear()
	clientRepo.Clear()
	purchaseRepo.Clear()
	paymentRepo.Clear()
}

func loginToken(r http.Handler, username, password string) (string, error) {
	payload := handlers.CredentialsRequest{Username: username, Password: password}
	body, _ := json.Marshal(payload)

	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp handlers.LoginResult
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		return "", fmt.Errorf("token decoding failed: %v", err)
	}
	return resp.Token, nil
}

func doJSON(r http.Handler, method, url string, payload any) *httptest.ResponseRecorder {
	var body bytes.Buffer
	if payload != nil {
		json.NewEncoder(&body).Encode(payload)
	}
	req := httptest.NewRequest(method, url, &body)
	req.Header.Set("Authorization", "Bearer "+adminToken)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func createProduct(r http.Handler, p handlers.ProductRequest) *httptest.ResponseRecorder {
	return doJSON(r, http.MethodPost, "/products", p)
}

func mustCreateProduct(r http.Handler, p handlers.ProductRequest) handlers.ProductResponse {
	w := createProduct(r, p)
	if w.Code != http.StatusCreated {
		panic(fmt.Sprintf("could not create product %q: status %d, body %s", p.SKU, w.Code, w.Body.String()))
	}
	var resp handlers.ProductResponse
	json.NewDecoder(w.Body).Decode(&resp)
	return resp
}

func adjustProduct(r http.Handler, productID int, adj handlers.QuantityAdjustmentRequest) *httptest.ResponseRecorder {
	return doJSON(r, http.MethodPost, fmt.Sprintf("/products/%d/adjust", productID), adj)
}

func mustCreateClient(r http.Handler, c handlers.ClientRequest) models.Client {
	w := doJSON(r, http.MethodPost, "/clients", c)
	if w.Code != http.StatusCreated {
		panic(fmt.Sprintf("could not create client %q: status %d, body %s", c.Name, w.Code, w.Body.String()))
	}
	var resp models.Client
	json.NewDecoder(w.Body).Decode(&resp)
	return resp
}

func multipartCSV(csvContent string, filename string) (*bytes.Buffer, string) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, _ := writer.CreateFormFile("file", filename)
	part.Write([]byte(csvContent))

	writer.Close()
	return &buf, writer.FormDataContentType()
}
