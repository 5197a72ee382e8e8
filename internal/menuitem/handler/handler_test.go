package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/fekuna/omnipos-menu-service/internal/auth"
	"github.com/fekuna/omnipos-menu-service/internal/menuitem/repository"
	"github.com/fekuna/omnipos-menu-service/internal/menuitem/usecase"
	"github.com/fekuna/omnipos-menu-service/internal/pkg/database"
	"github.com/fekuna/omnipos-menu-service/internal/pkg/logger"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	r, _ := newRouter(t, logger.NewNop())
	return r
}

func newRouter(t *testing.T, log logger.ZapLogger, middlewares ...gin.HandlerFunc) (*gin.Engine, *sqlx.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Open(context.Background(), &database.Config{
		Driver:     database.DriverSQLite,
		SQLitePath: ":memory:",
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	h := NewItemHandler(usecase.NewItemUseCase(repository.NewSQLRepository(db), nil, log), log)

	r := gin.New()
	r.Use(middlewares...)
	h.Register(r, r)
	return r, db
}

func do(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestCreateItem(t *testing.T) {
	r := setupRouter(t)

	w := do(r, http.MethodPost, "/menu-items", map[string]any{
		"name":      "Margherita",
		"price":     "12.50",
		"category":  "food-pizza",
		"allergens": "Gluten;Dairy;none",
		"popular":   "true",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "no-cache, no-store, must-revalidate", w.Header().Get("Cache-Control"))

	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "margherita", body["id"])
	assert.Equal(t, 12.5, body["price"])
	assert.Equal(t, []any{"Gluten", "Dairy"}, body["allergens"])
	assert.Equal(t, true, body["popular"])
	assert.Equal(t, false, body["isVegetarian"])
}

func TestCreateItemMissingPrice(t *testing.T) {
	r := setupRouter(t)

	w := do(r, http.MethodPost, "/menu-items", map[string]any{"name": "Soup", "category": "food-soup"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"price is required"}`, w.Body.String())
}

func TestItemLifecycle(t *testing.T) {
	r := setupRouter(t)
	require.Equal(t, http.StatusCreated, do(r, http.MethodPost, "/menu-items", map[string]any{
		"name": "Soup", "price": 4, "category": "food-soup",
	}).Code)

	w := do(r, http.MethodGet, "/menu-items", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, listCacheControl, w.Header().Get("Cache-Control"))
	var items []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	require.Len(t, items, 1)

	w = do(r, http.MethodPut, "/menu-items/soup", map[string]any{"price": "5.5"})
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, 5.5, body["price"])
	assert.Equal(t, "Soup", body["name"])

	w = do(r, http.MethodGet, "/menu-items/search?q=sou", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	assert.Len(t, items, 1)

	w = do(r, http.MethodDelete, "/menu-items/soup", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())

	w = do(r, http.MethodDelete, "/menu-items/soup", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodGet, "/menu-items/soup", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(r, http.MethodPut, "/menu-items/soup", map[string]any{"price": 1})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(r, http.MethodGet, "/menu-items", nil)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestListItemsStoreErrorIsNotCacheable(t *testing.T) {
	r, db := newRouter(t, logger.NewNop())
	require.NoError(t, db.Close())

	w := do(r, http.MethodGet, "/menu-items", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Empty(t, w.Header().Get("Cache-Control"))
}

func TestWritesLogUser(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	asAdmin := func(c *gin.Context) {
		c.Request = c.Request.WithContext(auth.WithUser(c.Request.Context(), &auth.UserContext{UserID: "admin-1"}))
		c.Next()
	}
	r, _ := newRouter(t, logger.Wrap(zap.New(core)), asAdmin)

	require.Equal(t, http.StatusCreated, do(r, http.MethodPost, "/menu-items", map[string]any{
		"name": "Soup", "price": 4, "category": "food-soup",
	}).Code)
	require.Equal(t, http.StatusOK, do(r, http.MethodDelete, "/menu-items/soup", nil).Code)

	created := logs.FilterMessage("menu item created").All()
	require.Len(t, created, 1)
	assert.Equal(t, "soup", created[0].ContextMap()["item_id"])
	assert.Equal(t, "admin-1", created[0].ContextMap()["user_id"])

	deleted := logs.FilterMessage("menu item deleted").All()
	require.Len(t, deleted, 1)
	assert.Equal(t, "admin-1", deleted[0].ContextMap()["user_id"])
}
