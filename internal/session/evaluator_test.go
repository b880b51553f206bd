package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func singleSelect(correct string, others ...string) Question {
	options := []Choice{{Text: correct, Correct: true}}
	for _, o := range others {
		options = append(options, Choice{Text: o})
	}
	return Question{ID: "q", Kind: KindChoice, Choices: options}
}

func multiSelect(correct []string, others ...string) Question {
	var options []Choice
	for _, c := range correct {
		options = append(options, Choice{Text: c, Correct: true})
	}
	for _, o := range others {
		options = append(options, Choice{Text: o})
	}
	return Question{ID: "q", Kind: KindChoice, MultipleCorrect: true, Choices: options}
}

func TestEvaluateSingleSelect(t *testing.T) {
	q := singleSelect("Paris", "Lyon", "Nice")

	assert.True(t, Evaluate(q, Answer{Kind: KindChoice, Selected: []string{"Paris"}}))
	assert.False(t, Evaluate(q, Answer{Kind: KindChoice, Selected: []string{"Lyon"}}))
	assert.False(t, Evaluate(q, Answer{Kind: KindChoice}), "no selection is incorrect")
	assert.False(t, Evaluate(q, Answer{Kind: KindChoice, Selected: []string{"Paris", "Lyon"}}),
		"two selections are incorrect even when one is the right one")
}

func TestEvaluateMultiSelect(t *testing.T) {
	q := multiSelect([]string{"2", "3", "5"}, "4", "6")

	assert.True(t, Evaluate(q, Answer{Kind: KindChoice, Selected: []string{"2", "3", "5"}}))
	assert.True(t, Evaluate(q, Answer{Kind: KindChoice, Selected: []string{"5", "2", "3"}}),
		"order is irrelevant")
	assert.False(t, Evaluate(q, Answer{Kind: KindChoice, Selected: []string{"2", "3"}}),
		"missing member flips to incorrect")
	assert.False(t, Evaluate(q, Answer{Kind: KindChoice, Selected: []string{"2", "3", "5", "4"}}),
		"extra member flips to incorrect")
	assert.False(t, Evaluate(q, Answer{Kind: KindChoice}))
}

func TestEvaluateMatching(t *testing.T) {
	q := Question{
		ID:   "m",
		Kind: KindMatching,
		CorrectPairs: []Pair{
			{Left: "cat", Right: "chat"},
			{Left: "dog", Right: "chien"},
			{Left: "bird", Right: "oiseau"},
		},
	}

	all := []Pair{
		{Left: "dog", Right: "chien"},
		{Left: "bird", Right: "oiseau"},
		{Left: "cat", Right: "chat"},
	}
	assert.True(t, Evaluate(q, Answer{Kind: KindMatching, Pairs: all}))

	twoRightOneWrong := []Pair{
		{Left: "cat", Right: "chat"},
		{Left: "dog", Right: "chien"},
		{Left: "bird", Right: "chien"},
	}
	assert.False(t, Evaluate(q, Answer{Kind: KindMatching, Pairs: twoRightOneWrong}),
		"no partial credit")

	subset := all[:2]
	assert.False(t, Evaluate(q, Answer{Kind: KindMatching, Pairs: subset}))

	superset := append(append([]Pair(nil), all...), Pair{Left: "cat", Right: "chien"})
	assert.False(t, Evaluate(q, Answer{Kind: KindMatching, Pairs: superset}))
}

func TestEvaluateIgnoresOtherBucketsPairs(t *testing.T) {
	// A question only ever carries the canonical pairs of its own bucket, so
	// pairs from another bucket can never satisfy it.
	q := Question{
		ID:           "m",
		Kind:         KindMatching,
		PairFilter:   PairFilter{Left: ContentText, Right: ContentText},
		CorrectPairs: []Pair{{Left: "cat", Right: "chat"}},
	}
	otherBucket := Answer{Kind: KindMatching, Pairs: []Pair{{Left: "dog.png", Right: "dog"}}}
	assert.False(t, Evaluate(q, otherBucket))
}
