package importer

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/SAP-F-2025/practice-service/internal/models"
	"github.com/xuri/excelize/v2"
)

// Sheet names expected in an uploaded workbook. Either sheet may be absent,
// but at least one must carry data.
const (
	choiceSheet   = "Choice"
	matchingSheet = "Matching"
)

// maxOptions caps the option_N columns scanned per choice row.
const maxOptions = 10

// ParseXLSX reads a practice workbook into an unsaved practice set.
//
// The "Choice" sheet carries one question per row: prompt, points,
// time_limit, multiple_correct, hint, option_1..option_N and correct (a
// comma-separated list of 1-based option numbers). The "Matching" sheet
// carries one pair per row: left_content, left_type, right_content,
// right_type, points, time_limit.
func ParseXLSX(r io.Reader) (*models.PracticeSet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	set := &models.PracticeSet{}

	if hasSheet(f, choiceSheet) {
		questions, err := parseChoiceSheet(f)
		if err != nil {
			return nil, err
		}
		set.ChoiceQuestions = questions
	}

	if hasSheet(f, matchingSheet) {
		pairs, err := parseMatchingSheet(f)
		if err != nil {
			return nil, err
		}
		set.MatchingPairs = pairs
	}

	if len(set.ChoiceQuestions) == 0 && len(set.MatchingPairs) == 0 {
		return nil, fmt.Errorf("workbook has no %q or %q data", choiceSheet, matchingSheet)
	}

	return set, nil
}

func hasSheet(f *excelize.File, name string) bool {
	for _, sheet := range f.GetSheetList() {
		if sheet == name {
			return true
		}
	}
	return false
}

func parseChoiceSheet(f *excelize.File) ([]models.ChoiceQuestion, error) {
	rows, err := f.GetRows(choiceSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read %q sheet: %w", choiceSheet, err)
	}
	if len(rows) < 2 {
		return nil, nil
	}

	headers := headerMap(rows[0])
	var questions []models.ChoiceQuestion

	for rowIndex, row := range rows[1:] {
		rowNum := rowIndex + 2

		prompt := cell(row, headers, "prompt")
		if prompt == "" {
			return nil, fmt.Errorf("%s row %d: prompt is empty", choiceSheet, rowNum)
		}

		q := models.ChoiceQuestion{
			Position:        rowIndex,
			Prompt:          prompt,
			Points:          cellInt(row, headers, "points", 1),
			TimeLimit:       cellInt(row, headers, "time_limit", 0),
			MultipleCorrect: cellBool(row, headers, "multiple_correct"),
		}
		if hint := cell(row, headers, "hint"); hint != "" {
			q.Hint = &hint
		}

		var options []models.ChoiceOption
		for i := 1; i <= maxOptions; i++ {
			text := cell(row, headers, fmt.Sprintf("option_%d", i))
			if text == "" {
				continue
			}
			options = append(options, models.ChoiceOption{Text: text})
		}
		if len(options) < 2 {
			return nil, fmt.Errorf("%s row %d: needs at least 2 options", choiceSheet, rowNum)
		}

		correct := cell(row, headers, "correct")
		marked, err := markCorrect(options, correct)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", choiceSheet, rowNum, err)
		}
		if err := q.EncodeOptions(marked); err != nil {
			return nil, fmt.Errorf("%s row %d: %w", choiceSheet, rowNum, err)
		}

		questions = append(questions, q)
	}

	return questions, nil
}

func parseMatchingSheet(f *excelize.File) ([]models.MatchingPair, error) {
	rows, err := f.GetRows(matchingSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read %q sheet: %w", matchingSheet, err)
	}
	if len(rows) < 2 {
		return nil, nil
	}

	headers := headerMap(rows[0])
	var pairs []models.MatchingPair

	for rowIndex, row := range rows[1:] {
		rowNum := rowIndex + 2

		left := cell(row, headers, "left_content")
		right := cell(row, headers, "right_content")
		if left == "" || right == "" {
			return nil, fmt.Errorf("%s row %d: left_content and right_content are required", matchingSheet, rowNum)
		}

		leftType, err := contentType(cell(row, headers, "left_type"))
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", matchingSheet, rowNum, err)
		}
		rightType, err := contentType(cell(row, headers, "right_type"))
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", matchingSheet, rowNum, err)
		}

		pairs = append(pairs, models.MatchingPair{
			Position:     rowIndex,
			Points:       cellInt(row, headers, "points", 1),
			TimeLimit:    cellInt(row, headers, "time_limit", 0),
			LeftContent:  left,
			LeftType:     leftType,
			RightContent: right,
			RightType:    rightType,
		})
	}

	return pairs, nil
}

// markCorrect flags options named by a comma-separated list of 1-based
// indexes.
func markCorrect(options []models.ChoiceOption, correct string) ([]models.ChoiceOption, error) {
	if strings.TrimSpace(correct) == "" {
		return nil, fmt.Errorf("correct column is empty")
	}
	for _, part := range strings.Split(correct, ",") {
		idx, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid correct option %q", part)
		}
		if idx < 1 || idx > len(options) {
			return nil, fmt.Errorf("correct option %d out of range", idx)
		}
		options[idx-1].Correct = true
	}
	return options, nil
}

func contentType(value string) (models.ContentType, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "text":
		return models.ContentText, nil
	case "image":
		return models.ContentImage, nil
	default:
		return "", fmt.Errorf("invalid content type %q", value)
	}
}

func headerMap(headers []string) map[string]int {
	m := make(map[string]int, len(headers))
	for i, header := range headers {
		m[strings.ToLower(strings.TrimSpace(header))] = i
	}
	return m
}

func cell(row []string, headers map[string]int, name string) string {
	idx, ok := headers[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func cellInt(row []string, headers map[string]int, name string, fallback int) int {
	value := cell(row, headers, name)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}

func cellBool(row []string, headers map[string]int, name string) bool {
	switch strings.ToLower(cell(row, headers, name)) {
	case "true", "yes", "1":
		return true
	default:
		return false
	}
}
