package validator

import (
	"fmt"

	apperrors "github.com/SAP-F-2025/practice-service/internal/errors"
	"github.com/SAP-F-2025/practice-service/internal/models"
)

// DocumentValidator checks practice-document content rules that struct tags
// cannot express. All methods report failures as field-level
// apperrors.ValidationErrors so handlers can emit structured 400s.
type DocumentValidator struct{}

// NewDocumentValidator creates a new document content validator.
func NewDocumentValidator() *DocumentValidator {
	return &DocumentValidator{}
}

// ValidateSet validates a complete practice set: both pools must be
// well-formed and at least one pool must be non-empty, otherwise no session
// can ever be constructed from the set.
func (v *DocumentValidator) ValidateSet(set *models.PracticeSet) error {
	var errs apperrors.ValidationErrors

	if len(set.ChoiceQuestions) == 0 && len(set.MatchingPairs) == 0 {
		errs = append(errs, *apperrors.NewValidationError(
			"questions", "practice set must contain at least one question", nil))
		return errs
	}

	for i := range set.ChoiceQuestions {
		prefix := fmt.Sprintf("choice_questions[%d]", i)
		errs = append(errs, prefixFields(prefix, v.checkChoiceQuestion(&set.ChoiceQuestions[i]))...)
	}
	for i := range set.MatchingPairs {
		prefix := fmt.Sprintf("matching_pairs[%d]", i)
		errs = append(errs, prefixFields(prefix, v.checkMatchingPair(&set.MatchingPairs[i]))...)
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ValidateChoiceQuestion validates one multiple-choice entry.
func (v *DocumentValidator) ValidateChoiceQuestion(q *models.ChoiceQuestion) error {
	if errs := v.checkChoiceQuestion(q); len(errs) > 0 {
		return errs
	}
	return nil
}

// ValidateMatchingPair validates one matching-pool entry.
func (v *DocumentValidator) ValidateMatchingPair(p *models.MatchingPair) error {
	if errs := v.checkMatchingPair(p); len(errs) > 0 {
		return errs
	}
	return nil
}

func (v *DocumentValidator) checkChoiceQuestion(q *models.ChoiceQuestion) apperrors.ValidationErrors {
	var errs apperrors.ValidationErrors

	if q.Prompt == "" {
		errs = append(errs, *apperrors.NewValidationErrorWithRule("prompt", "is required", "required", q.Prompt))
	}
	if q.Points < 0 {
		errs = append(errs, *apperrors.NewValidationErrorWithRule("points", "cannot be negative", "min", q.Points))
	}
	if q.TimeLimit < 0 {
		errs = append(errs, *apperrors.NewValidationErrorWithRule("time_limit", "cannot be negative", "min", q.TimeLimit))
	}

	options, err := q.DecodeOptions()
	if err != nil {
		errs = append(errs, *apperrors.NewValidationError("options", "invalid options payload", nil))
		return errs
	}
	if len(options) < 2 {
		errs = append(errs, *apperrors.NewValidationErrorWithRule("options", "must have at least 2 options", "min", len(options)))
		return errs
	}

	seen := make(map[string]bool, len(options))
	correct := 0
	for i, option := range options {
		if option.Text == "" {
			errs = append(errs, *apperrors.NewValidationErrorWithRule(
				fmt.Sprintf("options[%d].text", i), "cannot be empty", "required", option.Text))
		}
		if seen[option.Text] {
			errs = append(errs, *apperrors.NewValidationError(
				fmt.Sprintf("options[%d].text", i), "duplicate option text", option.Text))
		}
		seen[option.Text] = true
		if option.Correct {
			correct++
		}
	}

	if correct == 0 {
		errs = append(errs, *apperrors.NewValidationError("options", "must have at least 1 correct option", nil))
	}
	if correct > 1 && !q.MultipleCorrect {
		errs = append(errs, *apperrors.NewValidationError(
			"multiple_correct", "multiple correct options require multiple_correct to be true", q.MultipleCorrect))
	}
	return errs
}

func (v *DocumentValidator) checkMatchingPair(p *models.MatchingPair) apperrors.ValidationErrors {
	var errs apperrors.ValidationErrors

	if p.LeftContent == "" {
		errs = append(errs, *apperrors.NewValidationErrorWithRule("left_content", "is required", "required", p.LeftContent))
	}
	if p.RightContent == "" {
		errs = append(errs, *apperrors.NewValidationErrorWithRule("right_content", "is required", "required", p.RightContent))
	}
	if !validContentType(p.LeftType) {
		errs = append(errs, *apperrors.NewValidationErrorWithRule(
			"left_type", "must be a valid content type (text, image)", "content_type", p.LeftType))
	}
	if !validContentType(p.RightType) {
		errs = append(errs, *apperrors.NewValidationErrorWithRule(
			"right_type", "must be a valid content type (text, image)", "content_type", p.RightType))
	}
	if p.Points < 0 {
		errs = append(errs, *apperrors.NewValidationErrorWithRule("points", "cannot be negative", "min", p.Points))
	}
	if p.TimeLimit < 0 {
		errs = append(errs, *apperrors.NewValidationErrorWithRule("time_limit", "cannot be negative", "min", p.TimeLimit))
	}
	return errs
}

func prefixFields(prefix string, errs apperrors.ValidationErrors) apperrors.ValidationErrors {
	for i := range errs {
		errs[i].Field = prefix + "." + errs[i].Field
	}
	return errs
}

func validContentType(t models.ContentType) bool {
	return t == models.ContentText || t == models.ContentImage
}
