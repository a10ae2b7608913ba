package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "daylog/internal/errors"
	"daylog/internal/models"
	"daylog/internal/pagination"
	"daylog/internal/services"
)

// CacheHandler handles the free-form note board requests
type CacheHandler struct {
	cacheService services.CacheServicer
	auditService services.AuditServicer
}

// NewCacheHandler creates a new CacheHandler
func NewCacheHandler(cacheService services.CacheServicer, auditService services.AuditServicer) *CacheHandler {
	return &CacheHandler{cacheService: cacheService, auditService: auditService}
}

// PositionPayload is the optional x/y placement of a note.
type PositionPayload struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// CreateCacheEntryRequest represents the request payload for creating a note
type CreateCacheEntryRequest struct {
	Title    string           `json:"title" binding:"required"`
	Body     string           `json:"body"`
	Position *PositionPayload `json:"position"`
}

// UpdateCacheEntryRequest represents the request payload for editing a note
type UpdateCacheEntryRequest struct {
	Title    *string          `json:"title"`
	Body     *string          `json:"body"`
	Position *PositionPayload `json:"position"`
}

// CacheEntryResponse represents a note in the response
type CacheEntryResponse struct {
	ID        string           `json:"id"`
	Title     string           `json:"title"`
	Body      string           `json:"body"`
	Timestamp string           `json:"timestamp"`
	Position  *models.Position `json:"position,omitempty"`
}

func toCacheEntryResponse(e *models.CacheEntry) CacheEntryResponse {
	return CacheEntryResponse{
		ID:        e.ID,
		Title:     e.Title,
		Body:      e.Body,
		Timestamp: e.Timestamp.UTC().Format("2006-01-02T15:04:05Z07:00"),
		Position:  e.GetPosition(),
	}
}

// List returns a page of notes, newest first.
func (h *CacheHandler) List(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.cacheService.ListEntries(page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	entries := make([]CacheEntryResponse, 0, len(result.Data))
	for i := range result.Data {
		entries = append(entries, toCacheEntryResponse(&result.Data[i]))
	}

	c.JSON(http.StatusOK, gin.H{
		"entries":    entries,
		"page":       result.Page,
		"pageSize":   result.PageSize,
		"totalItems": result.TotalItems,
		"totalPages": result.TotalPages,
	})
}

// Create adds a note to the board.
func (h *CacheHandler) Create(c *gin.Context) {
	var req CreateCacheEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var pos *models.Position
	if req.Position != nil {
		pos = &models.Position{X: req.Position.X, Y: req.Position.Y}
	}

	entry, err := h.cacheService.CreateEntry(req.Title, req.Body, pos)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("create", "cache_entry", entry.ID, nil)
	c.JSON(http.StatusCreated, gin.H{"entry": toCacheEntryResponse(entry)})
}

// Update edits a note in place, including its board position.
func (h *CacheHandler) Update(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateCacheEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var pos *models.Position
	if req.Position != nil {
		pos = &models.Position{X: req.Position.X, Y: req.Position.Y}
	}

	entry, err := h.cacheService.UpdateEntry(id, req.Title, req.Body, pos)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("update", "cache_entry", entry.ID, nil)
	c.JSON(http.StatusOK, gin.H{"entry": toCacheEntryResponse(entry)})
}

// Delete removes a note.
func (h *CacheHandler) Delete(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.cacheService.DeleteEntry(id); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("delete", "cache_entry", id, nil)
	c.JSON(http.StatusOK, gin.H{"message": "Cache entry deleted successfully"})
}
