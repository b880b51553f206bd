package session

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// manualScheduler lets tests drive the countdown tick by tick.
type manualScheduler struct {
	next func()
	gen  int
}

func (m *manualScheduler) Schedule(d time.Duration, fn func()) func() {
	m.gen++
	g := m.gen
	m.next = fn
	return func() {
		if m.gen == g {
			m.next = nil
		}
	}
}

func (m *manualScheduler) fire() {
	if m.next == nil {
		return
	}
	fn := m.next
	m.next = nil
	fn()
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time            { return c.now }
func (c *fakeClock) Advance(d time.Duration)   { c.now = c.now.Add(d) }

type recordingObserver struct {
	progress []Progress
	ticks    []int
	notes    []Notification
	finished *Report
}

func (o *recordingObserver) OnProgress(p Progress)         { o.progress = append(o.progress, p) }
func (o *recordingObserver) OnTick(_ string, remaining int) { o.ticks = append(o.ticks, remaining) }
func (o *recordingObserver) OnNotification(n Notification) { o.notes = append(o.notes, n) }
func (o *recordingObserver) OnFinished(r *Report)          { o.finished = r }

func twoQuestionDoc() Document {
	return Document{Choice: []ChoiceEntry{
		choiceEntry("q1", "Capital of France?", "Paris", "Lyon"),
		choiceEntry("q2", "Answer to everything?", "42", "7"),
	}}
}

func newTestSession(t *testing.T, doc Document, opts ...Option) (*Session, *manualScheduler, *recordingObserver) {
	t.Helper()
	sched := &manualScheduler{}
	obs := &recordingObserver{}
	opts = append([]Option{
		WithScheduler(sched),
		WithObserver(obs),
		WithRand(rand.New(rand.NewSource(1))),
	}, opts...)
	s, err := New(doc, opts...)
	require.NoError(t, err)
	return s, sched, obs
}

func TestSessionScoringScenario(t *testing.T) {
	s, _, obs := newTestSession(t, twoQuestionDoc())

	require.NoError(t, s.SelectChoice("q1", "Paris"))
	require.NoError(t, s.Next())
	require.NoError(t, s.SelectChoice("q2", "7"))
	require.NoError(t, s.Finish())

	report, err := s.Report()
	require.NoError(t, err)
	assert.Equal(t, 1, report.CorrectCount)
	assert.Equal(t, 2, report.TotalCount)
	assert.Equal(t, 50, report.Percentage)
	assert.Same(t, report, obs.finished)
	assert.Equal(t, PhaseCompleted, s.Phase())
}

func TestSessionNextOnLastQuestionFinishes(t *testing.T) {
	s, _, _ := newTestSession(t, twoQuestionDoc())

	require.NoError(t, s.Next())
	require.NoError(t, s.Next())

	assert.Equal(t, PhaseCompleted, s.Phase())
	_, err := s.Report()
	assert.NoError(t, err)
}

func TestSessionNavigationRoundTripChoice(t *testing.T) {
	s, _, _ := newTestSession(t, twoQuestionDoc())

	require.NoError(t, s.SelectChoice("q1", "Paris"))
	require.NoError(t, s.Next())
	assert.Empty(t, s.Snapshot().SelectedChoices, "fresh question starts with a clean surface")

	require.NoError(t, s.Previous())
	assert.Equal(t, []string{"Paris"}, s.Snapshot().SelectedChoices)
}

func TestSessionNavigationRoundTripMatching(t *testing.T) {
	text := func(c string) Item { return Item{Content: c, Type: ContentText} }
	doc := twoQuestionDoc()
	doc.Matching = []MatchingEntry{
		matchingEntry("m1", text("cat"), text("chat"), 1),
		matchingEntry("m2", text("dog"), text("chien"), 1),
	}
	s, _, _ := newTestSession(t, doc)

	require.NoError(t, s.Next())
	require.NoError(t, s.Next()) // now on the matching question
	qid := s.Snapshot().Question.ID
	require.Equal(t, "matching-text-text", qid)

	require.NoError(t, s.SelectMatchingItem(qid, "cat", SideLeft))
	require.NoError(t, s.SelectMatchingItem(qid, "chat", SideRight))
	require.Equal(t, []Pair{{Left: "cat", Right: "chat"}}, s.Snapshot().CommittedPairs)

	require.NoError(t, s.Previous())
	require.NoError(t, s.Next())
	assert.Equal(t, []Pair{{Left: "cat", Right: "chat"}}, s.Snapshot().CommittedPairs,
		"committed pairs survive the round trip")
}

func TestSessionSingleSelectReplaces(t *testing.T) {
	s, _, _ := newTestSession(t, twoQuestionDoc())

	require.NoError(t, s.SelectChoice("q1", "Lyon"))
	require.NoError(t, s.SelectChoice("q1", "Paris"))
	assert.Equal(t, []string{"Paris"}, s.Snapshot().SelectedChoices)

	require.NoError(t, s.SelectChoice("q1", "Paris"))
	assert.Empty(t, s.Snapshot().SelectedChoices, "reselecting toggles off")
}

func TestSessionMultiSelectToggles(t *testing.T) {
	doc := Document{Choice: []ChoiceEntry{{
		ID:              "q1",
		Prompt:          "Primes?",
		Points:          1,
		MultipleCorrect: true,
		Options: []Choice{
			{Text: "2", Correct: true},
			{Text: "3", Correct: true},
			{Text: "4"},
		},
	}}}
	s, _, _ := newTestSession(t, doc)

	require.NoError(t, s.SelectChoice("q1", "2"))
	require.NoError(t, s.SelectChoice("q1", "3"))
	assert.Equal(t, []string{"2", "3"}, s.Snapshot().SelectedChoices)

	require.NoError(t, s.SelectChoice("q1", "2"))
	assert.Equal(t, []string{"3"}, s.Snapshot().SelectedChoices)
}

func TestSessionTimerAutoAdvance(t *testing.T) {
	doc := twoQuestionDoc()
	doc.Choice[0].TimeLimit = 3
	s, sched, obs := newTestSession(t, doc)

	sched.fire()
	sched.fire()
	assert.Equal(t, []int{2, 1}, obs.ticks)
	assert.Equal(t, 0, s.Snapshot().Index, "still on the timed question")

	sched.fire()
	assert.Equal(t, []int{2, 1, 0}, obs.ticks, "countdown strictly decreases and never goes negative")
	assert.Equal(t, 1, s.Snapshot().Index, "exactly one auto-advance")
	require.NotEmpty(t, obs.notes)
	assert.Equal(t, SeverityWarning, obs.notes[len(obs.notes)-1].Severity)

	sched.fire() // q2 is untimed, nothing is scheduled
	assert.Equal(t, 1, s.Snapshot().Index)
	assert.Equal(t, []int{2, 1, 0}, obs.ticks)
}

func TestSessionTimerExpiryOnLastQuestionFinishes(t *testing.T) {
	doc := Document{Choice: []ChoiceEntry{choiceEntry("q1", "prompt", "yes", "no")}}
	doc.Choice[0].TimeLimit = 1
	s, sched, obs := newTestSession(t, doc)

	sched.fire()
	assert.Equal(t, PhaseCompleted, s.Phase())
	assert.NotNil(t, obs.finished)

	sched.fire() // no countdown may survive completion
	assert.Equal(t, PhaseCompleted, s.Phase())
}

func TestSessionNavigationCancelsPendingTick(t *testing.T) {
	doc := twoQuestionDoc()
	doc.Choice[0].TimeLimit = 5
	doc.Choice[1].TimeLimit = 5
	s, sched, obs := newTestSession(t, doc)

	sched.fire()
	require.Equal(t, []int{4}, obs.ticks)

	require.NoError(t, s.Next())
	sched.fire() // this tick must belong to q2's fresh countdown
	assert.Equal(t, []int{4, 4}, obs.ticks)
	assert.Equal(t, 1, s.Snapshot().Index)
	assert.Equal(t, 4, s.Snapshot().Remaining)
}

func TestSessionRestart(t *testing.T) {
	s, _, _ := newTestSession(t, twoQuestionDoc())

	require.NoError(t, s.SelectChoice("q1", "Paris"))
	require.NoError(t, s.Next())
	require.NoError(t, s.Finish())
	require.Equal(t, PhaseCompleted, s.Phase())

	s.Restart()

	snap := s.Snapshot()
	assert.Equal(t, PhaseInProgress, s.Phase())
	assert.Equal(t, 0, snap.Index)
	assert.Empty(t, snap.SelectedChoices)
	assert.Equal(t, 0, snap.AnsweredCount)

	_, err := s.Report()
	assert.ErrorIs(t, err, ErrSessionNotCompleted)

	// restarting must yield a clean score when finished untouched
	require.NoError(t, s.Next())
	require.NoError(t, s.Finish())
	report, err := s.Report()
	require.NoError(t, err)
	assert.Equal(t, 0, report.CorrectCount)
}

func TestSessionPreviousAtZeroIsNoop(t *testing.T) {
	s, _, _ := newTestSession(t, twoQuestionDoc())
	require.NoError(t, s.Previous())
	assert.Equal(t, 0, s.Snapshot().Index)
}

func TestSessionGuards(t *testing.T) {
	s, _, _ := newTestSession(t, twoQuestionDoc())

	assert.ErrorIs(t, s.SelectChoice("q2", "42"), ErrQuestionNotActive)
	assert.ErrorIs(t, s.SelectChoice("q1", "Madrid"), ErrUnknownChoice)
	assert.ErrorIs(t, s.SelectMatchingItem("q1", "cat", SideLeft), ErrWrongQuestionKind)

	require.NoError(t, s.Finish())
	assert.ErrorIs(t, s.SelectChoice("q1", "Paris"), ErrSessionCompleted)
	assert.ErrorIs(t, s.Next(), ErrSessionCompleted)
	assert.ErrorIs(t, s.Finish(), ErrSessionCompleted)
}

func TestSessionTimeSpentAccumulates(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	s, _, _ := newTestSession(t, twoQuestionDoc(), WithClock(clock.Now))

	clock.Advance(7 * time.Second)
	require.NoError(t, s.Next())
	clock.Advance(3 * time.Second)
	require.NoError(t, s.Previous())
	clock.Advance(5 * time.Second)
	require.NoError(t, s.Next())
	require.NoError(t, s.Finish())

	report, err := s.Report()
	require.NoError(t, err)
	assert.Equal(t, 12, report.Items[0].TimeSpent, "time on q1 accumulates across visits")
	assert.Equal(t, 3, report.Items[1].TimeSpent)
}