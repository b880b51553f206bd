package repositories

import (
	"context"
	"errors"

	"github.com/SAP-F-2025/practice-service/internal/models"
	"gorm.io/gorm"
)

// ===== SHARED FILTER STRUCTS =====

type PracticeSetFilters struct {
	Search    string  `json:"search"`
	CreatedBy *string `json:"created_by"`
	Limit     int     `json:"limit"`
	Offset    int     `json:"offset"`
	SortBy    string  `json:"sort_by"`    // "created_at", "title"
	SortOrder string  `json:"sort_order"` // "asc", "desc"
}

// ===== REPOSITORY INTERFACES =====

type PracticeSetRepository interface {
	Create(ctx context.Context, set *models.PracticeSet) error
	GetByID(ctx context.Context, id uint) (*models.PracticeSet, error)
	GetByIDWithQuestions(ctx context.Context, id uint) (*models.PracticeSet, error)
	List(ctx context.Context, filters PracticeSetFilters) ([]*models.PracticeSet, int64, error)
	Delete(ctx context.Context, id uint) error
}

// Repository aggregates all data access for the service.
type Repository interface {
	PracticeSet() PracticeSetRepository
}

// IsNotFoundError checks whether err represents a missing row.
func IsNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
