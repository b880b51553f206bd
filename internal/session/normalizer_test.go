package session

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func choiceEntry(id, prompt string, correct string, others ...string) ChoiceEntry {
	options := []Choice{{Text: correct, Correct: true}}
	for _, o := range others {
		options = append(options, Choice{Text: o})
	}
	return ChoiceEntry{ID: id, Prompt: prompt, Points: 1, Options: options}
}

func matchingEntry(id string, left, right Item, points int) MatchingEntry {
	return MatchingEntry{ID: id, Points: points, Left: left, Right: right}
}

func TestNormalizeEmptyDocument(t *testing.T) {
	_, err := Normalize(Document{}, rand.New(rand.NewSource(1)))
	assert.ErrorIs(t, err, ErrEmptyDocument)
}

func TestNormalizeChoiceQuestionsKeepSourceOrder(t *testing.T) {
	doc := Document{
		Choice: []ChoiceEntry{
			choiceEntry("q1", "Capital of France?", "Paris", "Lyon"),
			choiceEntry("q2", "Answer to everything?", "42", "7"),
		},
	}

	questions, err := Normalize(doc, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	require.Len(t, questions, 2)

	assert.Equal(t, "q1", questions[0].ID)
	assert.Equal(t, KindChoice, questions[0].Kind)
	assert.Equal(t, "q2", questions[1].ID)
}

func TestNormalizeMatchingBuckets(t *testing.T) {
	text := func(c string) Item { return Item{Content: c, Type: ContentText} }
	image := func(c string) Item { return Item{Content: c, Type: ContentImage} }

	doc := Document{
		Choice: []ChoiceEntry{choiceEntry("q1", "prompt", "yes", "no")},
		Matching: []MatchingEntry{
			matchingEntry("m1", image("dog.png"), text("dog"), 2),
			matchingEntry("m2", text("cat"), text("chat"), 1),
			matchingEntry("m3", text("dog"), text("chien"), 1),
			matchingEntry("m4", text("sun"), image("sun.png"), 3),
		},
	}

	questions, err := Normalize(doc, rand.New(rand.NewSource(7)))
	require.NoError(t, err)
	// one choice question, then text/text, text/image, image/text; no
	// image/image bucket exists so none is synthesized
	require.Len(t, questions, 4)

	assert.Equal(t, KindChoice, questions[0].Kind)

	tt := questions[1]
	assert.Equal(t, "matching-text-text", tt.ID)
	assert.Equal(t, PairFilter{Left: ContentText, Right: ContentText}, tt.PairFilter)
	assert.Equal(t, 2, tt.Points)
	assert.Equal(t, []Item{text("cat"), text("dog")}, tt.LeftItems)
	assert.ElementsMatch(t, []Item{text("chat"), text("chien")}, tt.RightItems)
	assert.ElementsMatch(t, []Pair{{Left: "cat", Right: "chat"}, {Left: "dog", Right: "chien"}}, tt.CorrectPairs)

	ti := questions[2]
	assert.Equal(t, "matching-text-image", ti.ID)
	assert.Equal(t, 3, ti.Points)

	it := questions[3]
	assert.Equal(t, "matching-image-text", it.ID)
	assert.Equal(t, 2, it.Points)
	require.Len(t, it.LeftItems, 1)
	assert.Equal(t, "dog.png", it.LeftItems[0].Content)
}

func TestNormalizeShuffleIsStablePerSeed(t *testing.T) {
	text := func(c string) Item { return Item{Content: c, Type: ContentText} }
	doc := Document{
		Matching: []MatchingEntry{
			matchingEntry("m1", text("a"), text("1"), 1),
			matchingEntry("m2", text("b"), text("2"), 1),
			matchingEntry("m3", text("c"), text("3"), 1),
			matchingEntry("m4", text("d"), text("4"), 1),
			matchingEntry("m5", text("e"), text("5"), 1),
		},
	}

	first, err := Normalize(doc, rand.New(rand.NewSource(42)))
	require.NoError(t, err)
	second, err := Normalize(doc, rand.New(rand.NewSource(42)))
	require.NoError(t, err)

	// the shuffle is computed once at normalization time from the rng alone
	assert.Equal(t, first[0].RightItems, second[0].RightItems)
	assert.ElementsMatch(t, doc.leftContents(), contentsOf(first[0].LeftItems))
	assert.ElementsMatch(t, []string{"1", "2", "3", "4", "5"}, contentsOf(first[0].RightItems))
	// left column keeps source order regardless of the right-column shuffle
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, contentsOf(first[0].LeftItems))
}

func TestNormalizeMatchingTimeLimit(t *testing.T) {
	text := func(c string) Item { return Item{Content: c, Type: ContentText} }

	timed := Document{Matching: []MatchingEntry{
		{ID: "m1", Points: 1, TimeLimit: 10, Left: text("a"), Right: text("1")},
		{ID: "m2", Points: 1, TimeLimit: 20, Left: text("b"), Right: text("2")},
	}}
	questions, err := Normalize(timed, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.Equal(t, 30, questions[0].TimeLimit)

	mixed := Document{Matching: []MatchingEntry{
		{ID: "m1", Points: 1, TimeLimit: 10, Left: text("a"), Right: text("1")},
		{ID: "m2", Points: 1, Left: text("b"), Right: text("2")},
	}}
	questions, err = Normalize(mixed, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.Zero(t, questions[0].TimeLimit, "one untimed member makes the bucket untimed")
}

func (d Document) leftContents() []string {
	var out []string
	for _, m := range d.Matching {
		out = append(out, m.Left.Content)
	}
	return out
}

func contentsOf(items []Item) []string {
	var out []string
	for _, item := range items {
		out = append(out, item.Content)
	}
	return out
}
