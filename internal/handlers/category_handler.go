package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "daylog/internal/errors"
	"daylog/internal/services"
)

// CategoryHandler handles category, subcategory, and suggestion requests
type CategoryHandler struct {
	categoryService services.CategoryServicer
	auditService    services.AuditServicer
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryService services.CategoryServicer, auditService services.AuditServicer) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService, auditService: auditService}
}

// CreateCategoryRequest represents the request payload for creating a category
type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required"`
}

// CreateSubcategoryRequest represents the request payload for creating a subcategory
type CreateSubcategoryRequest struct {
	Name string `json:"name" binding:"required"`
}

// CreateCategory creates a category, or answers 409 with the existing
// record when the normalized name is already taken.
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	category, created, err := h.categoryService.CreateCategory(req.Name)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if !created {
		c.JSON(http.StatusConflict, gin.H{"category": category, "created": false})
		return
	}

	h.auditService.Log("create", "category", category.ID, map[string]any{"name": category.Name})
	c.JSON(http.StatusCreated, gin.H{"category": category, "created": true})
}

// CreateSubcategory appends a subcategory to the category named in the
// path, with the same conflict behavior as CreateCategory.
func (h *CategoryHandler) CreateSubcategory(c *gin.Context) {
	categoryName := c.Param("categoryName")

	var req CreateSubcategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	sub, created, err := h.categoryService.CreateSubcategory(categoryName, req.Name)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if !created {
		c.JSON(http.StatusConflict, gin.H{"subcategory": sub, "created": false})
		return
	}

	h.auditService.Log("create", "subcategory", sub.ID, map[string]any{"name": sub.Name})
	c.JSON(http.StatusCreated, gin.H{"subcategory": sub, "created": true})
}

// SuggestCategories answers autocomplete queries over category names.
func (h *CategoryHandler) SuggestCategories(c *gin.Context) {
	suggestions, err := h.categoryService.SuggestCategories(c.Query("q"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"suggestions": suggestions})
}

// SuggestSubcategories answers autocomplete queries over the subcategories
// of the category named in the query string.
func (h *CategoryHandler) SuggestSubcategories(c *gin.Context) {
	suggestions, err := h.categoryService.SuggestSubcategories(c.Query("category"), c.Query("q"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"suggestions": suggestions})
}

// GetBuiltinCategories serves the static legacy category list.
func (h *CategoryHandler) GetBuiltinCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": services.BuiltinCategories})
}
