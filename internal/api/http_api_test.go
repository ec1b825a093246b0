package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"productapp/internal/auth"
	"productapp/internal/config"
	"productapp/internal/entity"
	"productapp/internal/model/memory"
	"productapp/internal/storage"
)

func newTestServer(t *testing.T) (*gin.Engine, *memory.Repository) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Config{
		JWTSecret:            "test-secret",
		JWTIssuer:            "productapp",
		JWTExpirationMinutes: 60,
		StorageLocalDir:      t.TempDir(),
		StoragePublicBaseURL: "/files",
	}

	repo := memory.NewRepository()
	store, err := storage.NewLocalStorage(cfg.StorageLocalDir)
	if err != nil {
		t.Fatalf("failed to create local storage: %v", err)
	}

	handler, err := NewHTTPHandler(cfg, repo, store)
	if err != nil {
		t.Fatalf("failed to create handler: %v", err)
	}

	return handler.Router(), repo
}

func seedUser(t *testing.T, repo *memory.Repository, email, password string, authorities ...string) {
	t.Helper()
	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	err = repo.CreateUser(context.Background(), &entity.DbUser{
		Name:         "Test User",
		Email:        email,
		PasswordHash: hash,
		Authorities:  entity.StringArray(authorities),
	})
	if err != nil {
		t.Fatalf("failed to seed user %s: %v", email, err)
	}
}

func doJSON(engine *gin.Engine, method, path, token string, payload any) *httptest.ResponseRecorder {
	var body *bytes.Buffer
	if payload != nil {
		raw, _ := json.Marshal(payload)
		body = bytes.NewBuffer(raw)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func loginToken(t *testing.T, engine *gin.Engine, email, password string) string {
	t.Helper()
	w := doJSON(engine, http.MethodPost, "/auth/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login for %s failed with status %d: %s", email, w.Code, w.Body.String())
	}

	var resp entity.AuthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal login response: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("expected a non-empty token")
	}
	return resp.Token
}

func createProduct(t *testing.T, engine *gin.Engine, token string, req entity.ProductRequest) entity.ProductResponse {
	t.Helper()
	w := doJSON(engine, http.MethodPost, "/api/products", token, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("create product failed with status %d: %s", w.Code, w.Body.String())
	}
	var resp entity.ProductResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal product response: %v", err)
	}
	return resp
}

func listProducts(t *testing.T, engine *gin.Engine, token, path string) []entity.ProductResponse {
	t.Helper()
	w := doJSON(engine, http.MethodGet, path, token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET %s failed with status %d: %s", path, w.Code, w.Body.String())
	}
	var resp entity.ProductListResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal listing: %v", err)
	}
	return resp.Products
}

func TestRegisterAndLogin(t *testing.T) {
	engine, _ := newTestServer(t)

	register := map[string]string{
		"name":     "Alice",
		"email":    "alice@example.com",
		"password": "correct-horse",
	}

	w := doJSON(engine, http.MethodPost, "/auth/register", "", register)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	t.Run("DuplicateEmail", func(t *testing.T) {
		w := doJSON(engine, http.MethodPost, "/auth/register", "", register)
		if w.Code != http.StatusConflict {
			t.Fatalf("expected status 409, got %d", w.Code)
		}
		var apiErr APIError
		if err := json.Unmarshal(w.Body.Bytes(), &apiErr); err != nil {
			t.Fatalf("failed to unmarshal error: %v", err)
		}
		if apiErr.Code != ErrCodeEmailExists {
			t.Errorf("expected code %s, got %s", ErrCodeEmailExists, apiErr.Code)
		}
	})

	t.Run("WrongPassword", func(t *testing.T) {
		w := doJSON(engine, http.MethodPost, "/auth/login", "", map[string]string{
			"email":    "alice@example.com",
			"password": "wrong-password",
		})
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected status 401, got %d", w.Code)
		}
		apiErr := decodeAPIError(t, w)
		if apiErr.Code != ErrCodeInvalidCredentials {
			t.Errorf("expected code %s, got %s", ErrCodeInvalidCredentials, apiErr.Code)
		}
	})

	t.Run("UnknownEmail", func(t *testing.T) {
		w := doJSON(engine, http.MethodPost, "/auth/login", "", map[string]string{
			"email":    "nobody@example.com",
			"password": "correct-horse",
		})
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected status 401, got %d", w.Code)
		}
	})

	t.Run("MeRequiresIdentity", func(t *testing.T) {
		w := doJSON(engine, http.MethodGet, "/auth/me", "", nil)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected status 401 for anonymous /auth/me, got %d", w.Code)
		}
	})

	t.Run("Success", func(t *testing.T) {
		token := loginToken(t, engine, "alice@example.com", "correct-horse")

		me := doJSON(engine, http.MethodGet, "/auth/me", token, nil)
		if me.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", me.Code)
		}
		var summary entity.UserSummary
		if err := json.Unmarshal(me.Body.Bytes(), &summary); err != nil {
			t.Fatalf("failed to unmarshal profile: %v", err)
		}
		if summary.Email != "alice@example.com" {
			t.Errorf("expected email alice@example.com, got %s", summary.Email)
		}
		if len(summary.Authorities) != 1 || summary.Authorities[0] != entity.AuthorityUser {
			t.Errorf("expected authorities [USER], got %v", summary.Authorities)
		}
	})
}

func TestRegisterImposesNoPasswordPolicy(t *testing.T) {
	engine, _ := newTestServer(t)

	w := doJSON(engine, http.MethodPost, "/auth/register", "", map[string]string{
		"email":    "a@x.com",
		"password": "secret",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201 for a short password without a name, got %d: %s", w.Code, w.Body.String())
	}

	token := loginToken(t, engine, "a@x.com", "secret")
	if token == "" {
		t.Fatal("expected a token after logging in with the registered credentials")
	}
}

func TestRouteProtection(t *testing.T) {
	engine, repo := newTestServer(t)
	seedUser(t, repo, "user@example.com", "user-password", entity.AuthorityUser)
	seedUser(t, repo, "admin@example.com", "admin-password", entity.AuthorityAdmin)

	userToken := loginToken(t, engine, "user@example.com", "user-password")
	adminToken := loginToken(t, engine, "admin@example.com", "admin-password")

	product := createProduct(t, engine, adminToken, entity.ProductRequest{
		Name: "Widget", Price: 9.99, StockQuantity: 5, Category: "Tools",
	})

	tests := []struct {
		name           string
		method         string
		path           string
		token          string
		body           any
		expectedStatus int
	}{
		{"AnonymousListing", http.MethodGet, "/api/products", "", nil, http.StatusUnauthorized},
		{"AnonymousCreate", http.MethodPost, "/api/products", "", entity.ProductRequest{Name: "X", Price: 1}, http.StatusUnauthorized},
		{"UserListing", http.MethodGet, "/api/products", userToken, nil, http.StatusOK},
		{"UserCreate", http.MethodPost, "/api/products", userToken, entity.ProductRequest{Name: "X", Price: 1}, http.StatusForbidden},
		{"UserUpdate", http.MethodPut, fmt.Sprintf("/api/products/%d", product.ID), userToken, entity.ProductRequest{Name: "X", Price: 1}, http.StatusForbidden},
		{"UserDelete", http.MethodDelete, fmt.Sprintf("/api/products/%d", product.ID), userToken, nil, http.StatusForbidden},
		{"AdminListing", http.MethodGet, "/api/products", adminToken, nil, http.StatusOK},
		{"HealthAnonymous", http.MethodGet, "/health", "", nil, http.StatusOK},
		{"HealthGarbageToken", http.MethodGet, "/health", "garbage.token.value", nil, http.StatusOK},
		{"GarbageTokenIsAnonymous", http.MethodGet, "/api/products", "garbage.token.value", nil, http.StatusUnauthorized},
		{"NonNumericID", http.MethodGet, "/api/products/abc", adminToken, nil, http.StatusBadRequest},
		{"OutOfRangeID", http.MethodGet, "/api/products/18446744073709551616", adminToken, nil, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(engine, tt.method, tt.path, tt.token, tt.body)
			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d: %s", tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}

	t.Run("ForbiddenDeleteLeavesProduct", func(t *testing.T) {
		w := doJSON(engine, http.MethodGet, fmt.Sprintf("/api/products/%d", product.ID), userToken, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("expected the product to survive the forbidden delete, got status %d", w.Code)
		}
	})

	t.Run("AdminDeleteRemovesProduct", func(t *testing.T) {
		w := doJSON(engine, http.MethodDelete, fmt.Sprintf("/api/products/%d", product.ID), adminToken, nil)
		if w.Code != http.StatusNoContent {
			t.Fatalf("expected status 204, got %d", w.Code)
		}

		after := doJSON(engine, http.MethodGet, fmt.Sprintf("/api/products/%d", product.ID), adminToken, nil)
		if after.Code != http.StatusNotFound {
			t.Errorf("expected status 404 after delete, got %d", after.Code)
		}

		for _, p := range listProducts(t, engine, adminToken, "/api/products") {
			if p.ID == product.ID {
				t.Errorf("deleted product %d still present in listing", product.ID)
			}
		}
	})
}

func TestProductSearch(t *testing.T) {
	engine, repo := newTestServer(t)
	seedUser(t, repo, "admin@example.com", "admin-password", entity.AuthorityAdmin)
	token := loginToken(t, engine, "admin@example.com", "admin-password")

	seed := []entity.ProductRequest{
		{Name: "USB Cable", Price: 5, StockQuantity: 100, Category: "Electronics"},
		{Name: "HDMI Cable", Price: 15, StockQuantity: 50, Category: "Electronics"},
		{Name: "Desk Lamp", Price: 35, StockQuantity: 10, Category: "Furniture"},
		{Name: "cable organizer", Price: 8, StockQuantity: 30, Category: "Accessories"},
	}
	for _, req := range seed {
		createProduct(t, engine, token, req)
	}

	tests := []struct {
		name          string
		path          string
		expectedNames []string
	}{
		{"NoFilters", "/api/products/search", []string{"USB Cable", "HDMI Cable", "Desk Lamp", "cable organizer"}},
		{"NameSubstring", "/api/products/search?name=cable", []string{"USB Cable", "HDMI Cable", "cable organizer"}},
		{"Category", "/api/products/search?category=electronics", []string{"USB Cable", "HDMI Cable"}},
		{"MinPrice", "/api/products/search?minPrice=10", []string{"HDMI Cable", "Desk Lamp"}},
		{"MaxPrice", "/api/products/search?maxPrice=8", []string{"USB Cable", "cable organizer"}},
		{"PriceBand", "/api/products/search?minPrice=6&maxPrice=20", []string{"HDMI Cable", "cable organizer"}},
		{"Conjunction", "/api/products/search?name=cable&category=Electronics&maxPrice=10", []string{"USB Cable"}},
		{"NameEndpoint", "/api/products/search/name?name=lamp", []string{"Desk Lamp"}},
		{"CategoryEndpoint", "/api/products/category/Electronics", []string{"USB Cable", "HDMI Cable"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := listProducts(t, engine, token, tt.path)
			names := make([]string, 0, len(got))
			for _, p := range got {
				names = append(names, p.Name)
			}
			if len(names) != len(tt.expectedNames) {
				t.Fatalf("expected %v, got %v", tt.expectedNames, names)
			}
			for i := range names {
				if names[i] != tt.expectedNames[i] {
					t.Fatalf("expected %v, got %v", tt.expectedNames, names)
				}
			}
		})
	}

	t.Run("NameEndpointRequiresName", func(t *testing.T) {
		w := doJSON(engine, http.MethodGet, "/api/products/search/name", token, nil)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d", w.Code)
		}
	})

	t.Run("UpdateChangesListing", func(t *testing.T) {
		products := listProducts(t, engine, token, "/api/products/search/name?name=lamp")
		if len(products) != 1 {
			t.Fatalf("expected one lamp, got %d", len(products))
		}
		lamp := products[0]

		w := doJSON(engine, http.MethodPut, fmt.Sprintf("/api/products/%d", lamp.ID), token, entity.ProductRequest{
			Name: "Desk Lamp", Price: 12, StockQuantity: 10, Category: "Furniture",
		})
		if w.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
		}

		cheap := listProducts(t, engine, token, "/api/products/search?maxPrice=12")
		found := false
		for _, p := range cheap {
			if p.ID == lamp.ID {
				found = true
			}
		}
		if !found {
			t.Error("expected the repriced lamp in the maxPrice=12 listing")
		}
	})
}

func decodeAPIError(t *testing.T, w *httptest.ResponseRecorder) APIError {
	t.Helper()
	var apiErr APIError
	if err := json.Unmarshal(w.Body.Bytes(), &apiErr); err != nil {
		t.Fatalf("failed to unmarshal error: %v", err)
	}
	if apiErr.Code == "" {
		t.Fatal("expected an error code")
	}
	return apiErr
}
