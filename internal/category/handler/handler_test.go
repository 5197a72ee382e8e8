package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fekuna/omnipos-menu-service/internal/category/repository"
	"github.com/fekuna/omnipos-menu-service/internal/category/usecase"
	"github.com/fekuna/omnipos-menu-service/internal/model"
	"github.com/fekuna/omnipos-menu-service/internal/pkg/database"
	"github.com/fekuna/omnipos-menu-service/internal/pkg/logger"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Open(context.Background(), &database.Config{
		Driver:     database.DriverSQLite,
		SQLitePath: ":memory:",
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	log := logger.NewNop()
	h := NewCategoryHandler(usecase.NewCategoryUseCase(repository.NewSQLRepository(db), log), log)

	r := gin.New()
	h.Register(r, r)
	return r
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

func TestListCategoriesEmpty(t *testing.T) {
	r := setupRouter(t)

	w := do(r, http.MethodGet, "/categories", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = do(r, http.MethodGet, "/categories?active=maybe", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCategoryCRUD(t *testing.T) {
	r := setupRouter(t)

	w := do(r, http.MethodPost, "/categories", map[string]any{
		"name":          "Food",
		"color":         "orange",
		"order":         1,
		"subcategories": []map[string]any{{"id": "pizza", "name": "Pizza"}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created model.MainCategory
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "food", created.ID)
	assert.True(t, created.IsActive)

	w = do(r, http.MethodGet, "/categories/food", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodPut, "/categories/food", map[string]any{"name": "X"})
	require.Equal(t, http.StatusOK, w.Code)
	var updated model.MainCategory
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, "X", updated.Name)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))

	w = do(r, http.MethodGet, "/categories/options", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"value":"food-pizza","label":"X > Pizza","mainCategory":"food","subCategory":"pizza"}]`, w.Body.String())

	w = do(r, http.MethodDelete, "/categories/food", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(r, http.MethodGet, "/categories/food", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"category \"food\" not found"}`, w.Body.String())
}

func TestCreateCategoryBadPayload(t *testing.T) {
	r := setupRouter(t)

	w := do(r, http.MethodPost, "/categories", map[string]any{"color": "red"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"name is required"}`, w.Body.String())

	req := httptest.NewRequest(http.MethodPost, "/categories", bytes.NewBufferString("{"))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubcategoryRoutes(t *testing.T) {
	r := setupRouter(t)
	require.Equal(t, http.StatusCreated, do(r, http.MethodPost, "/categories", map[string]any{"id": "food", "name": "Food"}).Code)

	w := do(r, http.MethodPost, "/categories/food/subcategories", map[string]any{"name": "Pizza"})
	require.Equal(t, http.StatusCreated, w.Code)
	var cat model.MainCategory
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cat))
	require.Len(t, cat.Subcategories, 1)
	assert.Equal(t, "pizza", cat.Subcategories[0].ID)
	assert.Equal(t, 1, cat.Subcategories[0].Order)

	w = do(r, http.MethodPut, "/categories/food/subcategories/pizza", map[string]any{"isActive": false})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cat))
	assert.False(t, cat.Subcategories[0].IsActive)

	w = do(r, http.MethodPut, "/categories/food/subcategories/nope", map[string]any{"name": "Y"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(r, http.MethodDelete, "/categories/food/subcategories/pizza", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cat))
	assert.Empty(t, cat.Subcategories)

	w = do(r, http.MethodDelete, "/categories/food/subcategories/pizza", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
