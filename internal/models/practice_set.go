package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ContentType mirrors the session engine's item content types at the
// storage boundary.
type ContentType string

const (
	ContentText  ContentType = "text"
	ContentImage ContentType = "image"
)

// PracticeSet is a stored practice document: a multiple-choice pool and a
// matching-pair pool that together feed one practice session.
type PracticeSet struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	Title       string  `json:"title" gorm:"not null;size:200;index" validate:"required,min=1,max=200"`
	Description *string `json:"description" gorm:"type:text" validate:"omitempty,max=1000"`

	CreatedBy string         `json:"created_by" gorm:"size:100;index"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	ChoiceQuestions []ChoiceQuestion `json:"choice_questions" gorm:"foreignKey:PracticeSetID;constraint:OnDelete:CASCADE" validate:"omitempty,dive"`
	MatchingPairs   []MatchingPair   `json:"matching_pairs" gorm:"foreignKey:PracticeSetID;constraint:OnDelete:CASCADE" validate:"omitempty,dive"`

	// Computed, not stored
	QuestionCount int `json:"question_count" gorm:"-"`
}

func (PracticeSet) TableName() string {
	return "practice_sets"
}

// ChoiceQuestion is one multiple-choice entry of the stored pool.
type ChoiceQuestion struct {
	ID            uint `json:"id" gorm:"primaryKey"`
	PracticeSetID uint `json:"practice_set_id" gorm:"not null;index"`
	Position      int  `json:"position" gorm:"not null"`

	Prompt          string         `json:"prompt" gorm:"not null;type:text" validate:"required"`
	Points          int            `json:"points" gorm:"default:1" validate:"min=0"`
	TimeLimit       int            `json:"time_limit" gorm:"default:0" validate:"min=0"` // seconds, 0 = untimed
	Hint            *string        `json:"hint" gorm:"type:text"`
	MultipleCorrect bool           `json:"multiple_correct" gorm:"default:false"`
	Options         datatypes.JSON `json:"options" gorm:"type:jsonb"` // []ChoiceOption

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ChoiceQuestion) TableName() string {
	return "choice_questions"
}

// DecodeOptions unmarshals the JSON options column.
func (q *ChoiceQuestion) DecodeOptions() ([]ChoiceOption, error) {
	var options []ChoiceOption
	if len(q.Options) == 0 {
		return nil, nil
	}
	if err := json.Unmarshal(q.Options, &options); err != nil {
		return nil, err
	}
	return options, nil
}

// EncodeOptions marshals options into the JSON column.
func (q *ChoiceQuestion) EncodeOptions(options []ChoiceOption) error {
	data, err := json.Marshal(options)
	if err != nil {
		return err
	}
	q.Options = data
	return nil
}

// ChoiceOption is one selectable option, stored inside the question's JSON
// column.
type ChoiceOption struct {
	Text    string `json:"text" validate:"required"`
	Correct bool   `json:"correct"`
}

// MatchingPair is one correct left/right pairing of the stored matching
// pool. The session normalizer buckets pairs by their content types.
type MatchingPair struct {
	ID            uint `json:"id" gorm:"primaryKey"`
	PracticeSetID uint `json:"practice_set_id" gorm:"not null;index"`
	Position      int  `json:"position" gorm:"not null"`

	Points    int `json:"points" gorm:"default:1" validate:"min=0"`
	TimeLimit int `json:"time_limit" gorm:"default:0" validate:"min=0"`

	LeftContent  string      `json:"left_content" gorm:"not null;type:text" validate:"required"`
	LeftType     ContentType `json:"left_type" gorm:"not null;size:10" validate:"required,content_type"`
	RightContent string      `json:"right_content" gorm:"not null;type:text" validate:"required"`
	RightType    ContentType `json:"right_type" gorm:"not null;size:10" validate:"required,content_type"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (MatchingPair) TableName() string {
	return "matching_pairs"
}
