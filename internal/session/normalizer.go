package session

import (
	"errors"
	"fmt"
	"math/rand"
	"time"
)

// ErrEmptyDocument is returned when the raw document contains no questions
// in either pool. A session cannot be constructed from it.
var ErrEmptyDocument = errors.New("practice document contains no questions")

// bucketOrder fixes the emission order of synthesized matching questions.
var bucketOrder = []PairFilter{
	{Left: ContentText, Right: ContentText},
	{Left: ContentText, Right: ContentImage},
	{Left: ContentImage, Right: ContentText},
	{Left: ContentImage, Right: ContentImage},
}

const matchingPrompt = "Match each item on the left with its counterpart on the right"

// Normalize converts a raw practice document into the ordered question list
// driving a session. Choice entries come first in source order; matching
// entries are partitioned into the four content-type buckets and each
// non-empty bucket becomes one synthesized matching question, appended in the
// fixed bucket order.
//
// The right column of every matching question is shuffled once here with a
// permutation drawn from rng only, so its order carries no correlation with
// the left column. Pass a seeded rng for reproducible layouts; nil means a
// time-seeded source.
func Normalize(doc Document, rng *rand.Rand) ([]Question, error) {
	if len(doc.Choice) == 0 && len(doc.Matching) == 0 {
		return nil, ErrEmptyDocument
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	questions := make([]Question, 0, len(doc.Choice)+len(bucketOrder))
	for _, entry := range doc.Choice {
		questions = append(questions, Question{
			ID:              entry.ID,
			Kind:            KindChoice,
			Prompt:          entry.Prompt,
			Points:          entry.Points,
			TimeLimit:       entry.TimeLimit,
			Hint:            entry.Hint,
			Choices:         append([]Choice(nil), entry.Options...),
			MultipleCorrect: entry.MultipleCorrect,
		})
	}

	buckets := make(map[PairFilter][]MatchingEntry, len(bucketOrder))
	for _, entry := range doc.Matching {
		filter := PairFilter{Left: entry.Left.Type, Right: entry.Right.Type}
		buckets[filter] = append(buckets[filter], entry)
	}

	for _, filter := range bucketOrder {
		members := buckets[filter]
		if len(members) == 0 {
			continue
		}
		questions = append(questions, buildMatchingQuestion(filter, members, rng))
	}

	return questions, nil
}

func buildMatchingQuestion(filter PairFilter, members []MatchingEntry, rng *rand.Rand) Question {
	q := Question{
		ID:         fmt.Sprintf("matching-%s-%s", filter.Left, filter.Right),
		Kind:       KindMatching,
		Prompt:     matchingPrompt,
		PairFilter: filter,
		TimeLimit:  matchingTimeLimit(members),
	}

	for _, m := range members {
		q.Points += m.Points
		q.LeftItems = append(q.LeftItems, m.Left)
		q.RightItems = append(q.RightItems, m.Right)
		q.CorrectPairs = append(q.CorrectPairs, Pair{Left: m.Left.Content, Right: m.Right.Content})
	}

	rng.Shuffle(len(q.RightItems), func(i, j int) {
		q.RightItems[i], q.RightItems[j] = q.RightItems[j], q.RightItems[i]
	})

	return q
}

// matchingTimeLimit derives a bucket question's limit from its members: the
// sum of member limits when every member is timed, otherwise untimed.
func matchingTimeLimit(members []MatchingEntry) int {
	total := 0
	for _, m := range members {
		if m.TimeLimit <= 0 {
			return 0
		}
		total += m.TimeLimit
	}
	return total
}
