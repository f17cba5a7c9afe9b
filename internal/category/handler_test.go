package category

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Category{}, &SubCategory{}))
	return NewHandler(db)
}

func TestCreateAndListCategories(t *testing.T) {
	t.Parallel()
	h := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.Create(rec, httptest.NewRequest("POST", "/api/admin/categories",
		strings.NewReader(`{"categoryName":"Minifigures","key":"minifigs","description":"Single figures"}`)))
	require.Equal(t, http.StatusCreated, rec.Code)

	// Duplicate names are rejected case-insensitively.
	rec = httptest.NewRecorder()
	h.Create(rec, httptest.NewRequest("POST", "/api/admin/categories",
		strings.NewReader(`{"categoryName":"minifigures"}`)))
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = httptest.NewRecorder()
	h.List(rec, httptest.NewRequest("GET", "/api/categories", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Minifigures")
}

func TestCreateCategory_RequiresName(t *testing.T) {
	t.Parallel()
	h := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.Create(rec, httptest.NewRequest("POST", "/api/admin/categories",
		strings.NewReader(`{"categoryName":"   "}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetCategoryByID_NotFound(t *testing.T) {
	t.Parallel()
	h := newTestHandler(t)

	req := mux.SetURLVars(httptest.NewRequest("GET", "/api/categories/99", nil), map[string]string{"id": "99"})
	rec := httptest.NewRecorder()
	h.GetByID(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSubCategoryLifecycle(t *testing.T) {
	t.Parallel()
	h := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.Create(rec, httptest.NewRequest("POST", "/api/admin/categories",
		strings.NewReader(`{"categoryName":"Sets"}`)))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	h.CreateSub(rec, httptest.NewRequest("POST", "/api/admin/subCategories",
		strings.NewReader(`{"subCategoryName":"Castle","category":1}`)))
	require.Equal(t, http.StatusCreated, rec.Code)

	// Orphan sub-categories are rejected.
	rec = httptest.NewRecorder()
	h.CreateSub(rec, httptest.NewRequest("POST", "/api/admin/subCategories",
		strings.NewReader(`{"subCategoryName":"Space","category":42}`)))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	h.ListSub(rec, httptest.NewRequest("GET", "/api/admin/subCategories", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Castle")
}

func TestListSubCategories_FilterByCategory(t *testing.T) {
	t.Parallel()
	h := newTestHandler(t)

	for _, name := range []string{"Sets", "Parts"} {
		rec := httptest.NewRecorder()
		h.Create(rec, httptest.NewRequest("POST", "/api/admin/categories",
			strings.NewReader(fmt.Sprintf(`{"categoryName":%q}`, name))))
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := httptest.NewRecorder()
	h.CreateSub(rec, httptest.NewRequest("POST", "/api/admin/subCategories",
		strings.NewReader(`{"subCategoryName":"Castle","category":1}`)))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	h.CreateSub(rec, httptest.NewRequest("POST", "/api/admin/subCategories",
		strings.NewReader(`{"subCategoryName":"Plates","category":2}`)))
	require.Equal(t, http.StatusCreated, rec.Code)

	// The category filter narrows the listing to one parent.
	rec = httptest.NewRecorder()
	h.ListSub(rec, httptest.NewRequest("GET", "/api/admin/subCategories?category=2", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Plates")
	assert.NotContains(t, rec.Body.String(), "Castle")

	rec = httptest.NewRecorder()
	h.ListSub(rec, httptest.NewRequest("GET", "/api/admin/subCategories?category=abc", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
