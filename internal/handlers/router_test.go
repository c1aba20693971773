package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"

	"github.com/rafaelduarte/taskapi/internal/auth"
	"github.com/rafaelduarte/taskapi/internal/middleware"
	"github.com/rafaelduarte/taskapi/internal/models"
	"github.com/rafaelduarte/taskapi/internal/service"
	"github.com/rafaelduarte/taskapi/internal/storage"
)

// newTestRouter wires the REST facade the same way cmd/server does.
func newTestRouter(t *testing.T) (*mux.Router, *service.AuthService) {
	t.Helper()

	jwtManager := auth.NewJWTManager("test-secret-key", time.Hour)
	authService := service.NewAuthService(storage.NewMemoryUserStore(), jwtManager)
	taskService := service.NewTaskService(storage.NewMemoryTaskStore())

	authHandler := NewAuthHandler(authService)
	taskHandler := NewTaskHandler(taskService)
	authMiddleware := middleware.NewAuthMiddleware(jwtManager)

	r := mux.NewRouter()
	r.HandleFunc("/api/auth/register", authHandler.Register).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/login", authHandler.Login).Methods(http.MethodPost)

	protected := r.PathPrefix("/api").Subrouter()
	protected.Use(authMiddleware.RequireAuth)
	protected.HandleFunc("/auth/profile", authHandler.Profile).Methods(http.MethodGet)
	protected.HandleFunc("/tasks", taskHandler.Create).Methods(http.MethodPost)
	protected.HandleFunc("/tasks", taskHandler.List).Methods(http.MethodGet)
	protected.HandleFunc("/tasks/{id}", taskHandler.Get).Methods(http.MethodGet)
	protected.HandleFunc("/tasks/{id}", taskHandler.Update).Methods(http.MethodPut)
	protected.HandleFunc("/tasks/{id}", taskHandler.Delete).Methods(http.MethodDelete)

	return r, authService
}

func doJSON(t *testing.T, router *mux.Router, method, path, token string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var body *bytes.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("failed to marshal payload: %v", err)
		}
		body = bytes.NewReader(encoded)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeSuccess(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body struct {
		Message string                 `json:"message"`
		Data    map[string]interface{} `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode success body: %v", err)
	}
	return body.Data
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) models.ErrorBody {
	t.Helper()
	var body models.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode error body: %v", err)
	}
	return body.Error
}

// registerUser registers through the public endpoint and returns the token.
func registerUser(t *testing.T, router *mux.Router, name, email, password string) string {
	t.Helper()

	rec := doJSON(t, router, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": name, "email": email, "password": password,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("registration failed with status %d: %s", rec.Code, rec.Body.String())
	}

	data := decodeSuccess(t, rec)
	token, _ := data["token"].(string)
	if token == "" {
		t.Fatal("expected token in registration response")
	}
	return token
}
