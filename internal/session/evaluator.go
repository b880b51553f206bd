package session

// Evaluate reports whether the submitted answer is correct for the given
// question. It is a pure function of the question's static correct-answer
// data and the answer value; a question is a single boolean unit regardless
// of its point value, so no partial credit exists at this layer.
func Evaluate(q Question, a Answer) bool {
	switch q.Kind {
	case KindChoice:
		return evaluateChoice(q, a.Selected)
	case KindMatching:
		return evaluateMatching(q, a.Pairs)
	default:
		return false
	}
}

// evaluateChoice requires set equality between the selected texts and the
// options flagged correct. For single-select questions the correct set has
// one member, so this enforces "exactly one selection and it is the correct
// one"; for multi-select it enforces same cardinality and membership with
// order irrelevant.
func evaluateChoice(q Question, selected []string) bool {
	correct := make(map[string]struct{})
	for _, c := range q.Choices {
		if c.Correct {
			correct[c.Text] = struct{}{}
		}
	}

	submitted := make(map[string]struct{}, len(selected))
	for _, text := range selected {
		submitted[text] = struct{}{}
	}

	if len(submitted) != len(correct) || len(correct) == 0 {
		return false
	}
	for text := range submitted {
		if _, ok := correct[text]; !ok {
			return false
		}
	}
	return true
}

// evaluateMatching requires the submitted pair set to equal the question's
// canonical pair set: a subset or superset is incorrect.
func evaluateMatching(q Question, pairs []Pair) bool {
	canonical := make(map[Pair]struct{}, len(q.CorrectPairs))
	for _, p := range q.CorrectPairs {
		canonical[p] = struct{}{}
	}

	submitted := make(map[Pair]struct{}, len(pairs))
	for _, p := range pairs {
		submitted[p] = struct{}{}
	}

	if len(submitted) != len(canonical) || len(canonical) == 0 {
		return false
	}
	for p := range submitted {
		if _, ok := canonical[p]; !ok {
			return false
		}
	}
	return true
}
