package handlers_test_suite

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	api "github.com/mvaldes-dev/stockpile/internal/http"
	"github.com/mvaldes-dev/stockpile/internal/http/handlers"
)

func postJSON(r http.Handler, url string, payload any) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterAndLogin(t *testing.T) {
	r := api.NewRouter()

	w := postJSON(r, "/register", handlers.CredentialsRequest{Username: "alice", Password: "correct-horse"})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 Created, got %d: %s", w.Code, w.Body.String())
	}

	var reg handlers.RegisterResult
	json.NewDecoder(w.Body).Decode(&reg)
	if reg.Token == "" {
		t.Error("expected a token in the register response")
	}

	w = postJSON(r, "/login", handlers.CredentialsRequest{Username: "alice", Password: "correct-horse"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}

	var login handlers.LoginResult
	json.NewDecoder(w.Body).Decode(&login)
	if login.Token == "" || login.RefreshToken == "" {
		t.Errorf("expected access and refresh tokens, got %+v", login)
	}
}

func TestRegister_Invalid(t *testing.T) {
	r := api.NewRouter()

	t.Run("Short password", func(t *testing.T) {
		w := postJSON(r, "/register", handlers.CredentialsRequest{Username: "bob", Password: "short"})
		if w.Code != http.StatusBadRequest {
			t.Errorf("expected 400 Bad Request, got %d", w.Code)
		}
	})

	t.Run("Duplicate username", func(t *testing.T) {
		w := postJSON(r, "/register", handlers.CredentialsRequest{Username: "admin", Password: "irrelevant-pw"})
		if w.Code != http.StatusConflict {
			t.Errorf("expected 409 Conflict, got %d", w.Code)
		}
	})
}

func TestLogin_InvalidCredentials(t *testing.T) {
	r := api.NewRouter()

	tests := []struct {
		name  string
		creds handlers.CredentialsRequest
	}{
		{"Wrong password", handlers.CredentialsRequest{Username: "admin", Password: "wrong-password"}},
		{"Unknown user", handlers.CredentialsRequest{Username: "nobody", Password: "whatever-pw"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(r, "/login", tt.creds)
			if w.Code != http.StatusUnauthorized {
				t.Errorf("expected 401 Unauthorized, got %d", w.Code)
			}
		})
	}
}

func TestRefreshTokenRotation(t *testing.T) {
	r := api.NewRouter()

	w := postJSON(r, "/login", handlers.CredentialsRequest{Username: "admin", Password: "admin-secret"})
	if w.Code != http.StatusOK {
		t.Fatalf("login failed: %d", w.Code)
	}
	var login handlers.LoginResult
	json.NewDecoder(w.Body).Decode(&login)

	w = postJSON(r, "/refresh", handlers.RefreshRequest{RefreshToken: login.RefreshToken})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK on refresh, got %d: %s", w.Code, w.Body.String())
	}
	var refreshed handlers.LoginResult
	json.NewDecoder(w.Body).Decode(&refreshed)
	if refreshed.Token == "" || refreshed.RefreshToken == "" {
		t.Fatalf("expected new tokens, got %+v", refreshed)
	}

	// The old refresh token was revoked when it was redeemed.
	w = postJSON(r, "/refresh", handlers.RefreshRequest{RefreshToken: login.RefreshToken})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for a reused refresh token, got %d", w.Code)
	}
}

func TestAdminOnlyRoutes(t *testing.T) {
	t.Cleanup(clearAll)
	r := api.NewRouter()

	w := postJSON(r, "/register", handlers.CredentialsRequest{Username: "carol", Password: "carol-password"})
	if w.Code != http.StatusCreated {
		t.Fatalf("register failed: %d", w.Code)
	}
	userToken, err := loginToken(r, "carol", "carol-password")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	body, _ := json.Marshal(handlers.ProductRequest{Name: "Sneaky", SKU: "SN-1", Price: 1.0})
	req := httptest.NewRequest(http.MethodPost, "/products", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+userToken)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403 Forbidden for non-admin product create, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/products", bytes.NewReader(body))
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 Unauthorized without a token, got %d", rec.Code)
	}
}

func TestRegisterAsAdminHandler(t *testing.T) {
	r := api.NewRouter()

	w := doJSON(r, http.MethodPost, "/admin/users", handlers.RegisterAsAdminRequest{
		Username: "dave",
		Password: "dave-password",
		Role:     "admin",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 Created, got %d: %s", w.Code, w.Body.String())
	}

	t.Run("Invalid role rejected", func(t *testing.T) {
		w := doJSON(r, http.MethodPost, "/admin/users", handlers.RegisterAsAdminRequest{
			Username: "eve",
			Password: "eve-password",
			Role:     "superuser",
		})
		if w.Code != http.StatusBadRequest {
			t.Errorf("expected 400 Bad Request, got %d", w.Code)
		}
	})
}
