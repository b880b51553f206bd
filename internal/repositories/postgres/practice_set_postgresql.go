package postgres

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/practice-service/internal/models"
	"github.com/SAP-F-2025/practice-service/internal/repositories"
	"gorm.io/gorm"
)

type PracticeSetPostgreSQL struct {
	db *gorm.DB
}

func NewPracticeSetPostgreSQL(db *gorm.DB) repositories.PracticeSetRepository {
	return &PracticeSetPostgreSQL{db: db}
}

// Create stores a practice set together with both question pools in one
// transaction.
func (r *PracticeSetPostgreSQL) Create(ctx context.Context, set *models.PracticeSet) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(set).Error; err != nil {
			return fmt.Errorf("failed to create practice set: %w", err)
		}
		return nil
	})
}

// GetByID retrieves a practice set without its question pools.
func (r *PracticeSetPostgreSQL) GetByID(ctx context.Context, id uint) (*models.PracticeSet, error) {
	var set models.PracticeSet
	if err := r.db.WithContext(ctx).First(&set, id).Error; err != nil {
		return nil, err
	}
	r.fillCounts(ctx, &set)
	return &set, nil
}

// GetByIDWithQuestions retrieves a practice set with both pools preloaded in
// stable source order.
func (r *PracticeSetPostgreSQL) GetByIDWithQuestions(ctx context.Context, id uint) (*models.PracticeSet, error) {
	var set models.PracticeSet
	err := r.db.WithContext(ctx).
		Preload("ChoiceQuestions", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("MatchingPairs", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&set, id).Error
	if err != nil {
		return nil, err
	}
	set.QuestionCount = len(set.ChoiceQuestions) + len(set.MatchingPairs)
	return &set, nil
}

// List returns practice sets matching the filters plus the unfiltered total.
func (r *PracticeSetPostgreSQL) List(ctx context.Context, filters repositories.PracticeSetFilters) ([]*models.PracticeSet, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.PracticeSet{})

	if filters.Search != "" {
		query = query.Where("title ILIKE ?", "%"+filters.Search+"%")
	}
	if filters.CreatedBy != nil {
		query = query.Where("created_by = ?", *filters.CreatedBy)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count practice sets: %w", err)
	}

	sortBy := filters.SortBy
	if sortBy == "" {
		sortBy = "created_at"
	}
	sortOrder := filters.SortOrder
	if sortOrder != "asc" {
		sortOrder = "desc"
	}
	query = query.Order(fmt.Sprintf("%s %s", sortBy, sortOrder))

	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	var sets []*models.PracticeSet
	if err := query.Find(&sets).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list practice sets: %w", err)
	}
	for _, set := range sets {
		r.fillCounts(ctx, set)
	}
	return sets, total, nil
}

// Delete soft-deletes a practice set.
func (r *PracticeSetPostgreSQL) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.PracticeSet{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete practice set: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *PracticeSetPostgreSQL) fillCounts(ctx context.Context, set *models.PracticeSet) {
	var choices, pairs int64
	r.db.WithContext(ctx).Model(&models.ChoiceQuestion{}).Where("practice_set_id = ?", set.ID).Count(&choices)
	r.db.WithContext(ctx).Model(&models.MatchingPair{}).Where("practice_set_id = ?", set.ID).Count(&pairs)
	set.QuestionCount = int(choices + pairs)
}

// ===== REPOSITORY AGGREGATE =====

type gormRepository struct {
	practiceSets repositories.PracticeSetRepository
}

// NewRepository builds the aggregate repository backed by PostgreSQL.
func NewRepository(db *gorm.DB) repositories.Repository {
	return &gormRepository{
		practiceSets: NewPracticeSetPostgreSQL(db),
	}
}

func (r *gormRepository) PracticeSet() repositories.PracticeSetRepository {
	return r.practiceSets
}
