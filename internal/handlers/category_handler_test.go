package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "daylog/internal/errors"
	"daylog/internal/models"
	"daylog/internal/services"
)

// --- mock category service ---

type mockCategoryService struct {
	createCategoryFn       func(name string) (*models.Category, bool, error)
	createSubcategoryFn    func(categoryName, subName string) (*models.Subcategory, bool, error)
	suggestCategoriesFn    func(prefix string) ([]models.Category, error)
	suggestSubcategoriesFn func(categoryName, prefix string) ([]string, error)
}

func (m *mockCategoryService) CreateCategory(name string) (*models.Category, bool, error) {
	if m.createCategoryFn != nil {
		return m.createCategoryFn(name)
	}
	return &models.Category{}, true, nil
}

func (m *mockCategoryService) CreateSubcategory(categoryName, subName string) (*models.Subcategory, bool, error) {
	if m.createSubcategoryFn != nil {
		return m.createSubcategoryFn(categoryName, subName)
	}
	return &models.Subcategory{}, true, nil
}

func (m *mockCategoryService) SuggestCategories(prefix string) ([]models.Category, error) {
	if m.suggestCategoriesFn != nil {
		return m.suggestCategoriesFn(prefix)
	}
	return []models.Category{}, nil
}

func (m *mockCategoryService) SuggestSubcategories(categoryName, prefix string) ([]string, error) {
	if m.suggestSubcategoriesFn != nil {
		return m.suggestSubcategoriesFn(categoryName, prefix)
	}
	return []string{}, nil
}

func (m *mockCategoryService) InvalidateSuggestions() {}

var _ services.CategoryServicer = (*mockCategoryService)(nil)

func setupCategoryRouter(handler *CategoryHandler) *gin.Engine {
	r := gin.New()
	r.POST("/categories", handler.CreateCategory)
	r.POST("/categories/:categoryName/subcategories", handler.CreateSubcategory)
	r.GET("/suggestions/categories", handler.SuggestCategories)
	r.GET("/suggestions/subcategories", handler.SuggestSubcategories)
	r.GET("/meta/categories", handler.GetBuiltinCategories)
	return r
}

func TestCategoryHandler_CreateCategory(t *testing.T) {
	t.Run("returns 201 on create", func(t *testing.T) {
		catSvc := &mockCategoryService{
			createCategoryFn: func(name string) (*models.Category, bool, error) {
				return &models.Category{
					Base:        models.Base{ID: "cat-1"},
					Name:        "deep work",
					DisplayName: "Deep Work",
					Color:       "#4363d8",
				}, true, nil
			},
		}
		handler := NewCategoryHandler(catSvc, &mockAuditService{})
		r := setupCategoryRouter(handler)

		rec := doRequest(r, "POST", "/categories", `{"name":"Deep Work"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if result["created"] != true {
			t.Error("expected created=true")
		}
		cat := result["category"].(map[string]interface{})
		if cat["displayName"] != "Deep Work" {
			t.Errorf("expected display name 'Deep Work', got %v", cat["displayName"])
		}
	})

	t.Run("returns 409 with the existing record on conflict", func(t *testing.T) {
		catSvc := &mockCategoryService{
			createCategoryFn: func(name string) (*models.Category, bool, error) {
				return &models.Category{
					Base: models.Base{ID: "cat-1"},
					Name: "deep work",
				}, false, nil
			},
		}
		handler := NewCategoryHandler(catSvc, &mockAuditService{})
		r := setupCategoryRouter(handler)

		rec := doRequest(r, "POST", "/categories", `{"name":"DEEP WORK"}`)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if result["created"] != false {
			t.Error("expected created=false")
		}
		if result["category"] == nil {
			t.Error("expected the existing category in the response")
		}
	})

	t.Run("returns 400 on missing name", func(t *testing.T) {
		handler := NewCategoryHandler(&mockCategoryService{}, &mockAuditService{})
		r := setupCategoryRouter(handler)

		rec := doRequest(r, "POST", "/categories", `{}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})
}

func TestCategoryHandler_CreateSubcategory(t *testing.T) {
	t.Run("returns 201 on create", func(t *testing.T) {
		var gotCategoryName string
		catSvc := &mockCategoryService{
			createSubcategoryFn: func(categoryName, subName string) (*models.Subcategory, bool, error) {
				gotCategoryName = categoryName
				return &models.Subcategory{
					Base:        models.Base{ID: "sub-1"},
					CategoryID:  "cat-1",
					Name:        "meetings",
					DisplayName: "Meetings",
				}, true, nil
			},
		}
		handler := NewCategoryHandler(catSvc, &mockAuditService{})
		r := setupCategoryRouter(handler)

		rec := doRequest(r, "POST", "/categories/work/subcategories", `{"name":"Meetings"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotCategoryName != "work" {
			t.Errorf("expected category name from the path, got %q", gotCategoryName)
		}
		result := parseJSON(t, rec)
		if result["created"] != true {
			t.Error("expected created=true")
		}
	})

	t.Run("returns 409 on duplicate name", func(t *testing.T) {
		catSvc := &mockCategoryService{
			createSubcategoryFn: func(categoryName, subName string) (*models.Subcategory, bool, error) {
				return &models.Subcategory{Base: models.Base{ID: "sub-1"}}, false, nil
			},
		}
		handler := NewCategoryHandler(catSvc, &mockAuditService{})
		r := setupCategoryRouter(handler)

		rec := doRequest(r, "POST", "/categories/work/subcategories", `{"name":"Meetings"}`)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
	})

	t.Run("returns 404 on unknown category", func(t *testing.T) {
		catSvc := &mockCategoryService{
			createSubcategoryFn: func(categoryName, subName string) (*models.Subcategory, bool, error) {
				return nil, false, apperrors.ErrCategoryNotFound
			},
		}
		handler := NewCategoryHandler(catSvc, &mockAuditService{})
		r := setupCategoryRouter(handler)

		rec := doRequest(r, "POST", "/categories/missing/subcategories", `{"name":"Meetings"}`)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "CATEGORY_NOT_FOUND")
	})
}

func TestCategoryHandler_SuggestCategories(t *testing.T) {
	t.Run("passes the query prefix through", func(t *testing.T) {
		var gotPrefix string
		catSvc := &mockCategoryService{
			suggestCategoriesFn: func(prefix string) ([]models.Category, error) {
				gotPrefix = prefix
				return []models.Category{{Name: "reading"}}, nil
			},
		}
		handler := NewCategoryHandler(catSvc, &mockAuditService{})
		r := setupCategoryRouter(handler)

		rec := doRequest(r, "GET", "/suggestions/categories?q=re", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if gotPrefix != "re" {
			t.Errorf("expected prefix 're', got %q", gotPrefix)
		}
		result := parseJSON(t, rec)
		suggestions := result["suggestions"].([]interface{})
		if len(suggestions) != 1 {
			t.Errorf("expected 1 suggestion, got %d", len(suggestions))
		}
	})

	t.Run("empty result is a JSON array", func(t *testing.T) {
		handler := NewCategoryHandler(&mockCategoryService{}, &mockAuditService{})
		r := setupCategoryRouter(handler)

		rec := doRequest(r, "GET", "/suggestions/categories", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if _, ok := parseJSON(t, rec)["suggestions"].([]interface{}); !ok {
			t.Errorf("expected suggestions array, body: %s", rec.Body.String())
		}
	})
}

func TestCategoryHandler_SuggestSubcategories(t *testing.T) {
	var gotCategory, gotPrefix string
	catSvc := &mockCategoryService{
		suggestSubcategoriesFn: func(categoryName, prefix string) ([]string, error) {
			gotCategory, gotPrefix = categoryName, prefix
			return []string{"Meetings"}, nil
		},
	}
	handler := NewCategoryHandler(catSvc, &mockAuditService{})
	r := setupCategoryRouter(handler)

	rec := doRequest(r, "GET", "/suggestions/subcategories?category=work&q=me", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotCategory != "work" || gotPrefix != "me" {
		t.Errorf("expected category=work prefix=me, got %q %q", gotCategory, gotPrefix)
	}
}

func TestCategoryHandler_GetBuiltinCategories(t *testing.T) {
	handler := NewCategoryHandler(&mockCategoryService{}, &mockAuditService{})
	r := setupCategoryRouter(handler)

	rec := doRequest(r, "GET", "/meta/categories", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	result := parseJSON(t, rec)
	categories := result["categories"].([]interface{})
	if len(categories) != len(services.BuiltinCategories) {
		t.Errorf("expected %d builtin categories, got %d", len(services.BuiltinCategories), len(categories))
	}
}
