package session

// ContentType identifies how a matching item is rendered.
type ContentType string

const (
	ContentText  ContentType = "text"
	ContentImage ContentType = "image"
)

// QuestionKind is the variant tag shared by questions and answers.
type QuestionKind string

const (
	KindChoice   QuestionKind = "choice"
	KindMatching QuestionKind = "matching"
)

// Item is one entry in a matching column.
type Item struct {
	Content string      `json:"content"`
	Type    ContentType `json:"type"`
}

// Pair is a committed or canonical left/right content pairing.
type Pair struct {
	Left  string `json:"left"`
	Right string `json:"right"`
}

// PairFilter identifies the homogeneous sub-bucket a matching question
// represents.
type PairFilter struct {
	Left  ContentType `json:"left"`
	Right ContentType `json:"right"`
}

// Choice is one selectable option of a choice question.
type Choice struct {
	Text    string `json:"text"`
	Correct bool   `json:"correct"`
}

// ChoiceEntry is a single multiple-choice question as it arrives in the raw
// practice document.
type ChoiceEntry struct {
	ID              string   `json:"id"`
	Prompt          string   `json:"prompt"`
	Points          int      `json:"points"`
	TimeLimit       int      `json:"time_limit"` // seconds, 0 means untimed
	Hint            string   `json:"hint"`
	MultipleCorrect bool     `json:"multiple_correct"`
	Options         []Choice `json:"options"`
}

// MatchingEntry is a single correct pairing from the raw matching pool. One
// entry owns exactly one left item, one right item and the points awarded
// when the pair is matched.
type MatchingEntry struct {
	ID        string `json:"id"`
	Points    int    `json:"points"`
	TimeLimit int    `json:"time_limit"`
	Left      Item   `json:"left"`
	Right     Item   `json:"right"`
}

// Document is the raw practice document: two independent pools, assumed
// already fetched and schema-valid by the caller.
type Document struct {
	Choice   []ChoiceEntry   `json:"choice"`
	Matching []MatchingEntry `json:"matching"`
}

// Question is one normalized session question. Immutable once produced by
// the normalizer.
type Question struct {
	ID        string       `json:"id"`
	Kind      QuestionKind `json:"kind"`
	Prompt    string       `json:"prompt"`
	Points    int          `json:"points"`
	TimeLimit int          `json:"time_limit"`
	Hint      string       `json:"hint,omitempty"`

	// Choice questions
	Choices         []Choice `json:"choices,omitempty"`
	MultipleCorrect bool     `json:"multiple_correct,omitempty"`

	// Matching questions. RightItems carry the fixed shuffle computed at
	// normalization time. CorrectPairs is the canonical pair set for this
	// bucket, captured so evaluation needs nothing beyond the question.
	LeftItems    []Item     `json:"left_items,omitempty"`
	RightItems   []Item     `json:"right_items,omitempty"`
	PairFilter   PairFilter `json:"pair_filter,omitempty"`
	CorrectPairs []Pair     `json:"correct_pairs,omitempty"`
}

// CorrectChoices returns the texts of all options flagged correct.
func (q Question) CorrectChoices() []string {
	var correct []string
	for _, c := range q.Choices {
		if c.Correct {
			correct = append(correct, c.Text)
		}
	}
	return correct
}

// PairableCount is the number of pairs that can validly be formed on this
// matching question. Excess items on the longer column stay unmatchable.
func (q Question) PairableCount() int {
	if len(q.LeftItems) < len(q.RightItems) {
		return len(q.LeftItems)
	}
	return len(q.RightItems)
}

// Answer is the learner's submitted answer for one question, keyed by
// question ID in the session. Selected holds choice texts, Pairs holds
// committed matching pairs; only the field matching Kind is meaningful.
type Answer struct {
	Kind      QuestionKind `json:"kind"`
	Selected  []string     `json:"selected,omitempty"`
	Pairs     []Pair       `json:"pairs,omitempty"`
	TimeSpent int          `json:"time_spent"`
	Correct   bool         `json:"correct"`
}

// Empty reports whether the answer records no submission at all.
func (a Answer) Empty() bool {
	return len(a.Selected) == 0 && len(a.Pairs) == 0
}
