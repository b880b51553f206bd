package validator

import (
	"reflect"
	"strings"

	apperrors "github.com/SAP-F-2025/practice-service/internal/errors"
	"github.com/SAP-F-2025/practice-service/internal/models"
	"github.com/go-playground/validator/v10"
)

// Validator combines struct-tag validation with practice-document content
// validation.
type Validator struct {
	structValidator   *validator.Validate
	documentValidator *DocumentValidator
}

// New creates the centralized validator instance.
func New() *Validator {
	structValidator := validator.New()
	registerCustomValidators(structValidator)

	return &Validator{
		structValidator:   structValidator,
		documentValidator: NewDocumentValidator(),
	}
}

// ValidateStruct validates struct tags only. Failures come back as
// field-level apperrors.ValidationErrors.
func (v *Validator) ValidateStruct(s interface{}) error {
	return convertStructError(v.structValidator.Struct(s))
}

// Validate performs struct-tag validation; practice sets additionally go
// through document content validation.
func (v *Validator) Validate(s interface{}) error {
	if err := convertStructError(v.structValidator.Struct(s)); err != nil {
		return err
	}
	if set, ok := s.(*models.PracticeSet); ok {
		return v.documentValidator.ValidateSet(set)
	}
	return nil
}

func convertStructError(err error) error {
	if err == nil {
		return nil
	}
	if ve := apperrors.ToValidationErrors(err); len(ve) > 0 {
		return ve
	}
	return err
}

// Document returns the document content validator.
func (v *Validator) Document() *DocumentValidator {
	return v.documentValidator
}

func registerCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("content_type", validateContentType)
	validate.RegisterValidation("matching_side", validateMatchingSide)

	// Use json tag names for better error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

func validateContentType(fl validator.FieldLevel) bool {
	switch models.ContentType(fl.Field().String()) {
	case models.ContentText, models.ContentImage:
		return true
	}
	return false
}

func validateMatchingSide(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == "left" || value == "right"
}
