package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarizeCountsAndPercentage(t *testing.T) {
	questions := []Question{
		singleSelect("Paris", "Lyon"),
		singleSelect("42", "7"),
	}
	questions[0].ID = "q1"
	questions[1].ID = "q2"

	answers := map[string]*Answer{
		"q1": {Kind: KindChoice, Selected: []string{"Paris"}, Correct: true, TimeSpent: 12},
		"q2": {Kind: KindChoice, Selected: []string{"7"}, Correct: false},
	}

	report := Summarize(questions, answers)
	assert.Equal(t, 1, report.CorrectCount)
	assert.Equal(t, 2, report.TotalCount)
	assert.Equal(t, 50, report.Percentage)

	require.Len(t, report.Items, 2)
	assert.True(t, report.Items[0].Answered)
	assert.True(t, report.Items[0].Correct)
	assert.Equal(t, []string{"Paris"}, report.Items[0].CorrectChoices)
	assert.Equal(t, 12, report.Items[0].TimeSpent)
	assert.False(t, report.Items[1].Correct)
}

func TestSummarizeUnansweredCountsAsIncorrectButStaysDistinct(t *testing.T) {
	questions := []Question{singleSelect("Paris", "Lyon"), singleSelect("42", "7")}
	questions[0].ID = "q1"
	questions[1].ID = "q2"

	// q2 was never visited; q1 was committed with an empty selection
	answers := map[string]*Answer{
		"q1": {Kind: KindChoice},
	}

	report := Summarize(questions, answers)
	assert.Equal(t, 0, report.CorrectCount)
	assert.Equal(t, 0, report.Percentage)

	assert.False(t, report.Items[0].Answered, "empty selection is recorded as no answer")
	assert.False(t, report.Items[1].Answered, "never visited is no answer")
	assert.False(t, report.Items[1].Correct)
}

func TestSummarizeRoundsToNearestInteger(t *testing.T) {
	questions := []Question{singleSelect("a"), singleSelect("b"), singleSelect("c")}
	for i := range questions {
		questions[i].ID = string(rune('x' + i))
	}
	answers := map[string]*Answer{
		questions[0].ID: {Kind: KindChoice, Selected: []string{"a"}, Correct: true},
	}

	report := Summarize(questions, answers)
	assert.Equal(t, 33, report.Percentage)

	answers[questions[1].ID] = &Answer{Kind: KindChoice, Selected: []string{"b"}, Correct: true}
	report = Summarize(questions, answers)
	assert.Equal(t, 67, report.Percentage)
}

func TestSummarizeEmptySession(t *testing.T) {
	report := Summarize(nil, nil)
	assert.Equal(t, 0, report.TotalCount)
	assert.Equal(t, 0, report.Percentage, "must not divide by zero")
	assert.Empty(t, report.Items)
}

func TestSummarizeMatchingReportCarriesCanonicalPairs(t *testing.T) {
	q := Question{
		ID:           "m",
		Kind:         KindMatching,
		CorrectPairs: []Pair{{Left: "cat", Right: "chat"}},
	}
	report := Summarize([]Question{q}, nil)
	require.Len(t, report.Items, 1)
	assert.Equal(t, q.CorrectPairs, report.Items[0].CorrectPairs)
}
