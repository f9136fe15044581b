package mockapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/erazemk/katalog/internal/auth"
	"github.com/erazemk/katalog/internal/db"
	"github.com/erazemk/katalog/internal/model"
	"github.com/erazemk/katalog/internal/store"
)

const (
	testJWTSecret       = "test-secret"
	testBootstrapSecret = "boot-secret"
)

func setupTestServer(t *testing.T) (*httptest.Server, string) {
	t.Helper()
	database := db.NewBackendTestDB(t)
	router := NewRouter(database, Config{JWTSecret: testJWTSecret, BootstrapSecret: testBootstrapSecret})
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	// Create admin user.
	ctx := context.Background()
	hash, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.MinCost)
	store.CreateUser(ctx, database, "Admin", "admin@example.com", string(hash), model.RoleAdmin)

	// Get token.
	resp := doRequest(t, http.MethodPost, server.URL+"/auth/login", "",
		map[string]string{"email": "admin@example.com", "password": "password"})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login failed: %d", resp.StatusCode)
	}

	var loginResp model.AuthResponse
	json.NewDecoder(resp.Body).Decode(&loginResp)
	if loginResp.AccessToken == "" {
		t.Fatal("empty token from login")
	}

	return server, loginResp.AccessToken
}

func doRequest(t *testing.T, method, url, token string, body any) *http.Response {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, _ := json.Marshal(b)
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("building request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	return resp
}

func decodeError(t *testing.T, resp *http.Response) errorBody {
	t.Helper()
	defer resp.Body.Close()
	var body errorBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decoding error body: %v", err)
	}
	return body
}

func TestLoginEndpoint(t *testing.T) {
	server, token := setupTestServer(t)

	claims, err := auth.ValidateToken(testJWTSecret, token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.Role != model.RoleAdmin || claims.Email != "admin@example.com" {
		t.Errorf("unexpected claims: %+v", claims)
	}

	// Wrong password.
	resp := doRequest(t, http.MethodPost, server.URL+"/auth/login", "",
		map[string]string{"email": "admin@example.com", "password": "wrong"})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 for bad password, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Missing fields.
	resp = doRequest(t, http.MethodPost, server.URL+"/auth/login", "", map[string]string{})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty body, got %d", resp.StatusCode)
	}
	body := decodeError(t, resp)
	msgs, ok := body.Message.([]any)
	if !ok || len(msgs) != 2 {
		t.Errorf("expected two validation messages, got %v", body.Message)
	}
}

func TestAdminRoutesRequireAdminToken(t *testing.T) {
	server, _ := setupTestServer(t)

	resp := doRequest(t, http.MethodGet, server.URL+"/admin/categories", "", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 without token, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = doRequest(t, http.MethodGet, server.URL+"/admin/categories", "garbage", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 for invalid token, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	customer, _ := auth.GenerateToken(testJWTSecret, &model.User{ID: 99, Email: "c@example.com", Role: model.RoleCustomer})
	resp = doRequest(t, http.MethodGet, server.URL+"/admin/categories", customer, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("expected 403 for customer, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestBootstrap(t *testing.T) {
	database := db.NewBackendTestDB(t)
	server := httptest.NewServer(NewRouter(database, Config{JWTSecret: testJWTSecret, BootstrapSecret: testBootstrapSecret}))
	t.Cleanup(server.Close)

	body := map[string]string{"name": "Ana", "email": "Ana@Example.com", "password": "secret1"}
	post := func(secret string) *http.Response {
		data, _ := json.Marshal(body)
		req, _ := http.NewRequest(http.MethodPost, server.URL+"/admin/bootstrap", bytes.NewReader(data))
		req.Header.Set("Content-Type", "application/json")
		if secret != "" {
			req.Header.Set(BootstrapSecretHeader, secret)
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("bootstrap request: %v", err)
		}
		return resp
	}

	resp := post("wrong")
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("expected 403 for wrong secret, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = post(testBootstrapSecret)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var created model.AuthResponse
	json.NewDecoder(resp.Body).Decode(&created)
	resp.Body.Close()
	if created.AccessToken == "" || created.User.Role != model.RoleAdmin {
		t.Errorf("unexpected bootstrap response: %+v", created)
	}
	if created.User.Email != "ana@example.com" {
		t.Errorf("expected normalized email, got %q", created.User.Email)
	}

	resp = post(testBootstrapSecret)
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("expected 409 for second bootstrap, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestBootstrapDisabledWithoutSecret(t *testing.T) {
	database := db.NewBackendTestDB(t)
	server := httptest.NewServer(NewRouter(database, Config{JWTSecret: testJWTSecret}))
	t.Cleanup(server.Close)

	resp := doRequest(t, http.MethodPost, server.URL+"/admin/bootstrap", "",
		map[string]string{"name": "A", "email": "a@example.com", "password": "secret1"})
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("expected 403, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestCategoryCRUD(t *testing.T) {
	server, token := setupTestServer(t)
	base := server.URL + "/admin/categories"

	// Unknown fields are rejected.
	resp := doRequest(t, http.MethodPost, base, token, map[string]any{"name": "Shoes", "slug": "x"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown field, got %d", resp.StatusCode)
	}
	body := decodeError(t, resp)
	if body.Error != "Bad Request" || body.StatusCode != http.StatusBadRequest {
		t.Errorf("unexpected error body: %+v", body)
	}

	// Empty name.
	resp = doRequest(t, http.MethodPost, base, token, map[string]any{"name": "  "})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for empty name, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = doRequest(t, http.MethodPost, base, token, map[string]any{"name": "Shoes", "description": "Footwear"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var created model.Category
	json.NewDecoder(resp.Body).Decode(&created)
	resp.Body.Close()
	if created.Slug != "shoes" || created.DescriptionText() != "Footwear" {
		t.Errorf("unexpected category: %+v", created)
	}

	resp = doRequest(t, http.MethodGet, base, token, nil)
	var list categoryList
	json.NewDecoder(resp.Body).Decode(&list)
	resp.Body.Close()
	if len(list.Items) != 1 || list.Meta.Total != 1 || list.Meta.Pages != 1 {
		t.Errorf("unexpected list: %+v", list)
	}

	url := base + "/" + itoa(created.ID)
	resp = doRequest(t, http.MethodPatch, url, token, map[string]any{"name": "Boots"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for update, got %d", resp.StatusCode)
	}
	var updated model.Category
	json.NewDecoder(resp.Body).Decode(&updated)
	resp.Body.Close()
	if updated.Name != "Boots" || updated.Slug != "boots" || updated.DescriptionText() != "Footwear" {
		t.Errorf("unexpected updated category: %+v", updated)
	}

	resp = doRequest(t, http.MethodDelete, url, token, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("expected 204, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = doRequest(t, http.MethodDelete, url, token, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 for second delete, got %d", resp.StatusCode)
	}
	if body := decodeError(t, resp); body.Message != "Category not found" {
		t.Errorf("unexpected message: %v", body.Message)
	}
}

func TestAttributesAndOptions(t *testing.T) {
	server, token := setupTestServer(t)

	resp := doRequest(t, http.MethodPost, server.URL+"/admin/categories", token, map[string]any{"name": "Phones"})
	var cat model.Category
	json.NewDecoder(resp.Body).Decode(&cat)
	resp.Body.Close()
	attrsURL := server.URL + "/admin/categories/" + itoa(cat.ID) + "/attributes"

	// Invalid type and fractional display order.
	resp = doRequest(t, http.MethodPost, attrsURL, token, map[string]any{"name": "Color", "type": "DATE", "displayOrder": 1.5})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	body := decodeError(t, resp)
	if msgs, _ := body.Message.([]any); len(msgs) != 2 {
		t.Errorf("expected 2 messages, got %v", body.Message)
	}

	resp = doRequest(t, http.MethodPost, attrsURL, token, map[string]any{"name": "Color", "type": "SELECT", "isRequired": true})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var color model.Attribute
	json.NewDecoder(resp.Body).Decode(&color)
	resp.Body.Close()

	resp = doRequest(t, http.MethodPost, attrsURL, token, map[string]any{"name": "Brand", "type": "TEXT", "minValue": 1})
	var brand model.Attribute
	json.NewDecoder(resp.Body).Decode(&brand)
	resp.Body.Close()
	if brand.MinValue != nil {
		t.Errorf("expected bounds to be dropped for TEXT, got %v", *brand.MinValue)
	}

	optsURL := server.URL + "/admin/attributes/" + itoa(color.ID) + "/options"
	resp = doRequest(t, http.MethodPost, optsURL, token, map[string]any{"label": "Red", "value": "red"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201 for option, got %d", resp.StatusCode)
	}
	var red model.Option
	json.NewDecoder(resp.Body).Decode(&red)
	resp.Body.Close()

	// Options are refused on TEXT attributes.
	resp = doRequest(t, http.MethodPost, server.URL+"/admin/attributes/"+itoa(brand.ID)+"/options", token,
		map[string]any{"label": "X", "value": "x"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for option on TEXT, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// The list is a bare array with nested options.
	resp = doRequest(t, http.MethodGet, attrsURL, token, nil)
	var attrs []model.Attribute
	if err := json.NewDecoder(resp.Body).Decode(&attrs); err != nil {
		t.Fatalf("expected bare array: %v", err)
	}
	resp.Body.Close()
	if len(attrs) != 2 {
		t.Fatalf("expected 2 attributes, got %d", len(attrs))
	}
	var found bool
	for _, a := range attrs {
		if a.ID == color.ID && len(a.Options) == 1 && a.Options[0].Value == "red" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected Color with option red, got %+v", attrs)
	}

	// Option routes are scoped by the owning attribute.
	resp = doRequest(t, http.MethodPatch, server.URL+"/admin/attributes/"+itoa(brand.ID)+"/options/"+itoa(red.ID), token,
		map[string]any{"label": "Crimson"})
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 through the wrong attribute, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = doRequest(t, http.MethodPatch, optsURL+"/"+itoa(red.ID), token, map[string]any{"label": "Crimson"})
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200 for option update, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Inverted bounds are rejected.
	resp = doRequest(t, http.MethodPatch, server.URL+"/admin/attributes/"+itoa(brand.ID), token,
		map[string]any{"type": "NUMBER", "minValue": 5, "maxValue": 1})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for inverted bounds, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = doRequest(t, http.MethodDelete, optsURL+"/"+itoa(red.ID), token, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("expected 204 for option delete, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = doRequest(t, http.MethodDelete, server.URL+"/admin/attributes/"+itoa(color.ID), token, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("expected 204 for attribute delete, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestUnknownRoute(t *testing.T) {
	server, token := setupTestServer(t)

	resp := doRequest(t, http.MethodGet, server.URL+"/admin/nothing", token, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}
	if body := decodeError(t, resp); body.Message != "Cannot GET /admin/nothing" {
		t.Errorf("unexpected message: %v", body.Message)
	}
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
