package services

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "daylog/internal/errors"
	"daylog/internal/models"
	"daylog/internal/pagination"
)

// cacheService handles the free-form note board.
type cacheService struct {
	db *gorm.DB
}

// NewCacheService creates a new CacheServicer.
func NewCacheService(db *gorm.DB) CacheServicer {
	return &cacheService{db: db}
}

// ListEntries returns a page of cache entries, newest first.
func (s *cacheService) ListEntries(page pagination.PageRequest) (*pagination.PageResponse[models.CacheEntry], error) {
	page.Defaults()

	var totalItems int64
	if err := s.db.Model(&models.CacheEntry{}).Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var entries []models.CacheEntry
	err := s.db.Order("timestamp DESC, id DESC").
		Scopes(pagination.Paginate(page)).
		Find(&entries).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(entries, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// CreateEntry creates a note, positioned when pos is given.
func (s *cacheService) CreateEntry(title, body string, pos *models.Position) (*models.CacheEntry, error) {
	if strings.TrimSpace(title) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Title is required")
	}

	entry := &models.CacheEntry{
		Title:     strings.TrimSpace(title),
		Body:      body,
		Timestamp: time.Now(),
	}
	if pos != nil {
		entry.PosX = &pos.X
		entry.PosY = &pos.Y
	}

	if err := s.db.Create(entry).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return entry, nil
}

// UpdateEntry edits a note in place. Nil fields are left unchanged.
func (s *cacheService) UpdateEntry(id string, title, body *string, pos *models.Position) (*models.CacheEntry, error) {
	entry, err := s.findEntry(id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if title != nil {
		if strings.TrimSpace(*title) == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Title is required")
		}
		updates["title"] = strings.TrimSpace(*title)
	}
	if body != nil {
		updates["body"] = *body
	}
	if pos != nil {
		updates["pos_x"] = pos.X
		updates["pos_y"] = pos.Y
	}

	if len(updates) > 0 {
		if err := s.db.Model(entry).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return entry, nil
}

// DeleteEntry removes a note, reporting NotFound when it does not exist.
func (s *cacheService) DeleteEntry(id string) error {
	entry, err := s.findEntry(id)
	if err != nil {
		return err
	}
	if err := s.db.Delete(entry).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

func (s *cacheService) findEntry(id string) (*models.CacheEntry, error) {
	var entry models.CacheEntry
	err := s.db.Where("id = ?", id).First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCacheEntryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &entry, nil
}
