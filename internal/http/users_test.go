package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/openshelf/librarium/internal/database/users"
	"github.com/openshelf/librarium/internal/entities"
)

type mockUserStore struct {
	users map[string]*entities.User
}

func newMockUserStore() *mockUserStore {
	return &mockUserStore{users: make(map[string]*entities.User)}
}

func (m *mockUserStore) Create(user *entities.User) error {
	user.ID = uint(len(m.users) + 1)
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserStore) FindByUserID(userID string) (*entities.User, error) {
	if u, ok := m.users[userID]; ok {
		return u, nil
	}
	return nil, users.ErrNotFound
}

func (m *mockUserStore) FindAll() ([]entities.User, error) {
	var out []entities.User
	for _, u := range m.users {
		out = append(out, *u)
	}
	return out, nil
}

func (m *mockUserStore) DeleteByUserID(userID string) error {
	delete(m.users, userID)
	return nil
}

func newUsersRouter(store UserStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	controller := NewUsersController(store)

	router := gin.New()
	router.POST("/user/add", controller.Create)
	router.GET("/user/all", controller.GetAll)
	router.GET("/user/:userID", controller.GetByUserID)
	router.DELETE("/user/:userID", controller.Delete)
	return router
}

func TestCreateUser(t *testing.T) {
	store := newMockUserStore()
	router := newUsersRouter(store)

	payload, _ := json.Marshal(map[string]any{
		"user_id":       "u1",
		"email_address": "u1@example.com",
		"role":          "MEMBER",
	})
	req, _ := http.NewRequest("POST", "/user/add", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	if _, ok := store.users["u1"]; !ok {
		t.Error("expected user u1 to be stored")
	}
}

func TestCreateUserMissingFields(t *testing.T) {
	store := newMockUserStore()
	router := newUsersRouter(store)

	payload, _ := json.Marshal(map[string]any{"user_id": "u1"})
	req, _ := http.NewRequest("POST", "/user/add", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}

func TestGetUserNotFound(t *testing.T) {
	store := newMockUserStore()
	router := newUsersRouter(store)

	req, _ := http.NewRequest("GET", "/user/ghost", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
}

func TestDeleteUser(t *testing.T) {
	store := newMockUserStore()
	store.users["u1"] = &entities.User{ID: 1, UserID: "u1", EmailAddress: "u1@example.com"}
	router := newUsersRouter(store)

	req, _ := http.NewRequest("DELETE", "/user/u1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}
	if _, ok := store.users["u1"]; ok {
		t.Error("expected user u1 to be removed")
	}

	// Deleting again is a 404
	req, _ = http.NewRequest("DELETE", "/user/u1", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404 on second delete, got %d", w.Code)
	}
}
