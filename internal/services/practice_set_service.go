package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/SAP-F-2025/practice-service/internal/importer"
	"github.com/SAP-F-2025/practice-service/internal/models"
	"github.com/SAP-F-2025/practice-service/internal/repositories"
	"github.com/SAP-F-2025/practice-service/internal/validator"
)

// PracticeSetService manages stored practice documents.
type PracticeSetService interface {
	Create(ctx context.Context, set *models.PracticeSet) error
	GetByID(ctx context.Context, id uint) (*models.PracticeSet, error)
	GetByIDWithQuestions(ctx context.Context, id uint) (*models.PracticeSet, error)
	List(ctx context.Context, filters repositories.PracticeSetFilters) ([]*models.PracticeSet, int64, error)
	Delete(ctx context.Context, id uint) error

	// ImportXLSX parses an uploaded workbook into a practice set and stores
	// it. The reader must hold a workbook with "Choice" and "Matching" sheets.
	ImportXLSX(ctx context.Context, r io.Reader, title, createdBy string) (*models.PracticeSet, error)
}

type practiceSetService struct {
	repo      repositories.Repository
	validator *validator.Validator
	logger    *slog.Logger
}

func NewPracticeSetService(repo repositories.Repository, v *validator.Validator, logger *slog.Logger) PracticeSetService {
	return &practiceSetService{
		repo:      repo,
		validator: v,
		logger:    logger,
	}
}

func (s *practiceSetService) Create(ctx context.Context, set *models.PracticeSet) error {
	// Validation failures are ValidationErrors so handlers can surface the
	// field breakdown.
	if err := s.validator.Validate(set); err != nil {
		return err
	}

	if err := s.repo.PracticeSet().Create(ctx, set); err != nil {
		s.logger.Error("Failed to create practice set", "title", set.Title, "error", err)
		return fmt.Errorf("failed to create practice set: %w", err)
	}

	s.logger.Info("Practice set created",
		"practice_set_id", set.ID,
		"title", set.Title,
		"choice_questions", len(set.ChoiceQuestions),
		"matching_pairs", len(set.MatchingPairs))
	return nil
}

func (s *practiceSetService) GetByID(ctx context.Context, id uint) (*models.PracticeSet, error) {
	set, err := s.repo.PracticeSet().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrPracticeSetNotFound
		}
		return nil, fmt.Errorf("failed to get practice set: %w", err)
	}
	return set, nil
}

func (s *practiceSetService) GetByIDWithQuestions(ctx context.Context, id uint) (*models.PracticeSet, error) {
	set, err := s.repo.PracticeSet().GetByIDWithQuestions(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrPracticeSetNotFound
		}
		return nil, fmt.Errorf("failed to get practice set: %w", err)
	}
	return set, nil
}

func (s *practiceSetService) List(ctx context.Context, filters repositories.PracticeSetFilters) ([]*models.PracticeSet, int64, error) {
	if filters.Limit <= 0 || filters.Limit > 100 {
		filters.Limit = 20
	}
	sets, total, err := s.repo.PracticeSet().List(ctx, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list practice sets: %w", err)
	}
	return sets, total, nil
}

func (s *practiceSetService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.PracticeSet().Delete(ctx, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrPracticeSetNotFound
		}
		return fmt.Errorf("failed to delete practice set: %w", err)
	}
	s.logger.Info("Practice set deleted", "practice_set_id", id)
	return nil
}

func (s *practiceSetService) ImportXLSX(ctx context.Context, r io.Reader, title, createdBy string) (*models.PracticeSet, error) {
	set, err := importer.ParseXLSX(r)
	if err != nil {
		return nil, ValidationErrors{*NewValidationError("file", err.Error(), nil)}
	}

	if title != "" {
		set.Title = title
	}
	set.CreatedBy = createdBy

	if err := s.Create(ctx, set); err != nil {
		return nil, err
	}

	s.logger.Info("Practice set imported from workbook",
		"practice_set_id", set.ID,
		"choice_questions", len(set.ChoiceQuestions),
		"matching_pairs", len(set.MatchingPairs))
	return set, nil
}
