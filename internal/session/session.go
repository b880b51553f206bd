package session

import (
	"errors"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Phase is the session lifecycle flag. A session is born InProgress at
// question index 0; there is no "not started" phase.
type Phase string

const (
	PhaseInProgress Phase = "in_progress"
	PhaseCompleted  Phase = "completed"
)

var (
	ErrSessionCompleted    = errors.New("session already completed")
	ErrSessionNotCompleted = errors.New("session not completed yet")
	ErrQuestionNotActive   = errors.New("question is not the active question")
	ErrWrongQuestionKind   = errors.New("operation does not match the active question kind")
	ErrUnknownChoice       = errors.New("choice does not belong to the active question")
	ErrUnknownItem         = errors.New("item does not belong to the active question column")
)

// Session drives a learner through the normalized question list: it owns the
// current index, the per-question countdown, the editing surfaces and the
// answer map. All methods are safe for concurrent use; internally the
// session is a single logical thread serialized by one mutex, and the only
// asynchronous input is the scheduler tick.
type Session struct {
	mu sync.Mutex

	id        string
	questions []Question
	answers   map[string]*Answer
	index     int
	phase     Phase
	report    *Report

	// countdown state; epoch guards against ticks scheduled for a question
	// that has already been left
	remaining  int
	epoch      int
	cancelTick func()

	// editing surfaces for the active question
	selected    []string
	board       *PairingBoard
	activeSince time.Time

	obs   Observer
	sched Scheduler
	clock func() time.Time
}

type sessionConfig struct {
	id    string
	obs   Observer
	sched Scheduler
	clock func() time.Time
	rng   *rand.Rand
}

// Option customizes session construction.
type Option func(*sessionConfig)

// WithID fixes the session ID instead of generating one.
func WithID(id string) Option { return func(c *sessionConfig) { c.id = id } }

// WithObserver registers the consumer of output events.
func WithObserver(obs Observer) Option { return func(c *sessionConfig) { c.obs = obs } }

// WithScheduler replaces the wall-clock countdown scheduler.
func WithScheduler(s Scheduler) Option { return func(c *sessionConfig) { c.sched = s } }

// WithClock replaces the time source used for the time-spent stopwatch.
func WithClock(clock func() time.Time) Option { return func(c *sessionConfig) { c.clock = clock } }

// WithRand fixes the random source used for the normalizer's right-column
// shuffle.
func WithRand(rng *rand.Rand) Option { return func(c *sessionConfig) { c.rng = rng } }

// New normalizes the raw document and starts a session at question 0.
func New(doc Document, opts ...Option) (*Session, error) {
	cfg := sessionConfig{
		id:    uuid.NewString(),
		obs:   NopObserver{},
		sched: NewScheduler(),
		clock: time.Now,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	questions, err := Normalize(doc, cfg.rng)
	if err != nil {
		return nil, err
	}

	s := &Session{
		id:        cfg.id,
		questions: questions,
		answers:   make(map[string]*Answer),
		phase:     PhaseInProgress,
		obs:       cfg.obs,
		sched:     cfg.sched,
		clock:     cfg.clock,
	}

	s.mu.Lock()
	s.activateLocked()
	s.mu.Unlock()
	return s, nil
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Questions returns the normalized question list in session order.
func (s *Session) Questions() []Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Question(nil), s.questions...)
}

// Phase returns the current lifecycle phase.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// SelectChoice toggles a choice on the active choice question. Single-select
// questions replace the previous selection; selecting the already-selected
// choice deselects it.
func (s *Session) SelectChoice(questionID, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, err := s.activeQuestionLocked(questionID, KindChoice)
	if err != nil {
		return err
	}

	known := false
	for _, c := range q.Choices {
		if c.Text == text {
			known = true
			break
		}
	}
	if !known {
		return ErrUnknownChoice
	}

	for i, sel := range s.selected {
		if sel == text {
			s.selected = append(s.selected[:i], s.selected[i+1:]...)
			return nil
		}
	}
	if q.MultipleCorrect {
		s.selected = append(s.selected, text)
	} else {
		s.selected = []string{text}
	}
	return nil
}

// SelectMatchingItem registers a column click on the active matching
// question's pairing board.
func (s *Session) SelectMatchingItem(questionID, content string, side Side) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, err := s.activeQuestionLocked(questionID, KindMatching)
	if err != nil {
		return err
	}

	column := q.LeftItems
	if side == SideRight {
		column = q.RightItems
	}
	known := false
	for _, item := range column {
		if item.Content == content {
			known = true
			break
		}
	}
	if !known {
		return ErrUnknownItem
	}

	s.board.Select(content, side)
	return nil
}

// UndoLastPair removes the most recently committed pair on the active
// matching question.
func (s *Session) UndoLastPair(questionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.activeQuestionLocked(questionID, KindMatching); err != nil {
		return err
	}
	s.board.UndoLast()
	return nil
}

// ClearPairs removes all committed pairs on the active matching question.
func (s *Session) ClearPairs(questionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.activeQuestionLocked(questionID, KindMatching); err != nil {
		return err
	}
	s.board.ClearAll()
	return nil
}

// Next persists the active question's answer and advances. On the last
// question it finishes the session instead.
func (s *Session) Next() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseInProgress {
		return ErrSessionCompleted
	}
	s.advanceLocked()
	return nil
}

// Previous persists the active question's answer and moves back one
// question, rehydrating the editing surface from the saved answer. No-op at
// index 0.
func (s *Session) Previous() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseInProgress {
		return ErrSessionCompleted
	}
	if s.index == 0 {
		return nil
	}
	s.commitCurrentLocked()
	s.index--
	s.activateLocked()
	return nil
}

// Finish persists the active question's answer, stops the countdown and
// derives the result report.
func (s *Session) Finish() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseInProgress {
		return ErrSessionCompleted
	}
	s.finishLocked()
	return nil
}

// Restart discards every recorded answer and returns to question 0,
// InProgress, with a fresh countdown.
func (s *Session) Restart() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopTimerLocked()
	s.answers = make(map[string]*Answer)
	s.report = nil
	s.index = 0
	s.phase = PhaseInProgress
	s.activateLocked()
}

// Report returns the result report of a completed session.
func (s *Session) Report() (*Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseCompleted {
		return nil, ErrSessionNotCompleted
	}
	return s.report, nil
}

// ===== SNAPSHOT =====

// QuestionView is the active question as exposed to the UI: correctness
// flags and canonical pairs are stripped.
type QuestionView struct {
	ID              string       `json:"id"`
	Kind            QuestionKind `json:"kind"`
	Prompt          string       `json:"prompt"`
	Points          int          `json:"points"`
	TimeLimit       int          `json:"time_limit"`
	Hint            string       `json:"hint,omitempty"`
	Choices         []string     `json:"choices,omitempty"`
	MultipleCorrect bool         `json:"multiple_correct,omitempty"`
	LeftItems       []Item       `json:"left_items,omitempty"`
	RightItems      []Item       `json:"right_items,omitempty"`
}

// Snapshot is the full UI-facing state of the session at one instant.
type Snapshot struct {
	ID              string       `json:"id"`
	Phase           Phase        `json:"phase"`
	Index           int          `json:"index"`
	Total           int          `json:"total"`
	Question        QuestionView `json:"question"`
	Remaining       int          `json:"remaining"`
	SelectedChoices []string     `json:"selected_choices,omitempty"`
	CommittedPairs  []Pair       `json:"committed_pairs,omitempty"`
	PendingLeft     *string      `json:"pending_left,omitempty"`
	PendingRight    *string      `json:"pending_right,omitempty"`
	AnsweredCount   int          `json:"answered_count"`
	AnsweredPercent int          `json:"answered_percent"`
}

// Snapshot captures the current state for the UI collaborator.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	q := s.questions[s.index]
	view := QuestionView{
		ID:              q.ID,
		Kind:            q.Kind,
		Prompt:          q.Prompt,
		Points:          q.Points,
		TimeLimit:       q.TimeLimit,
		Hint:            q.Hint,
		MultipleCorrect: q.MultipleCorrect,
		LeftItems:       append([]Item(nil), q.LeftItems...),
		RightItems:      append([]Item(nil), q.RightItems...),
	}
	for _, c := range q.Choices {
		view.Choices = append(view.Choices, c.Text)
	}

	progress := s.progressLocked()
	snap := Snapshot{
		ID:              s.id,
		Phase:           s.phase,
		Index:           s.index,
		Total:           len(s.questions),
		Question:        view,
		Remaining:       s.remaining,
		SelectedChoices: append([]string(nil), s.selected...),
		AnsweredCount:   progress.AnsweredCount,
		AnsweredPercent: progress.AnsweredPercent,
	}
	if s.board != nil {
		snap.CommittedPairs = s.board.Pairs()
		if content, ok := s.board.Pending(SideLeft); ok {
			snap.PendingLeft = &content
		}
		if content, ok := s.board.Pending(SideRight); ok {
			snap.PendingRight = &content
		}
	}
	return snap
}

// ===== INTERNAL STATE MACHINE =====

func (s *Session) activeQuestionLocked(questionID string, kind QuestionKind) (Question, error) {
	if s.phase != PhaseInProgress {
		return Question{}, ErrSessionCompleted
	}
	q := s.questions[s.index]
	if questionID != q.ID {
		return Question{}, ErrQuestionNotActive
	}
	if q.Kind != kind {
		return Question{}, ErrWrongQuestionKind
	}
	return q, nil
}

// advanceLocked is the shared path of Next and timer expiry: persist, then
// move forward or finish on the last question.
func (s *Session) advanceLocked() {
	if s.index == len(s.questions)-1 {
		s.finishLocked()
		return
	}
	s.commitCurrentLocked()
	s.index++
	s.activateLocked()
}

func (s *Session) finishLocked() {
	s.stopTimerLocked()
	s.commitCurrentLocked()
	s.phase = PhaseCompleted
	s.report = Summarize(s.questions, s.answers)
	s.obs.OnProgress(s.progressLocked())
	s.obs.OnFinished(s.report)
}

// commitCurrentLocked records the editing surface into the answer map and
// evaluates correctness. It always runs before the index changes and before
// the next question's timer starts.
func (s *Session) commitCurrentLocked() {
	q := s.questions[s.index]
	a, ok := s.answers[q.ID]
	if !ok {
		a = &Answer{Kind: q.Kind}
		s.answers[q.ID] = a
	}

	switch q.Kind {
	case KindChoice:
		a.Selected = append([]string(nil), s.selected...)
	case KindMatching:
		a.Pairs = s.board.Pairs()
	}

	now := s.clock()
	a.TimeSpent += int(now.Sub(s.activeSince) / time.Second)
	s.activeSince = now
	a.Correct = Evaluate(q, *a)
}

// activateLocked prepares the question at the current index: resets the
// countdown and stopwatch, rebuilds the editing surface from any saved
// answer, and schedules the first tick for timed questions.
func (s *Session) activateLocked() {
	s.stopTimerLocked()

	q := s.questions[s.index]
	s.remaining = q.TimeLimit
	s.activeSince = s.clock()
	s.selected = nil
	s.board = nil

	saved := s.answers[q.ID]
	switch q.Kind {
	case KindChoice:
		if saved != nil {
			s.selected = append([]string(nil), saved.Selected...)
		}
	case KindMatching:
		s.board = NewPairingBoard(q.PairableCount(), s.obs.OnNotification)
		if saved != nil {
			s.board.restore(saved.Pairs)
		}
	}

	if q.TimeLimit > 0 {
		s.scheduleTickLocked()
	}
	s.obs.OnProgress(s.progressLocked())
}

// stopTimerLocked enforces the at-most-one-active-countdown invariant:
// bumping the epoch invalidates any tick that already fired but has not yet
// acquired the lock.
func (s *Session) stopTimerLocked() {
	s.epoch++
	if s.cancelTick != nil {
		s.cancelTick()
		s.cancelTick = nil
	}
}

func (s *Session) scheduleTickLocked() {
	epoch := s.epoch
	s.cancelTick = s.sched.Schedule(time.Second, func() { s.tick(epoch) })
}

func (s *Session) tick(epoch int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseInProgress || epoch != s.epoch {
		return
	}

	q := s.questions[s.index]
	s.remaining--
	s.obs.OnTick(q.ID, s.remaining)

	if s.remaining <= 0 {
		s.obs.OnNotification(Notification{
			Message:  "Time is up for this question",
			Severity: SeverityWarning,
		})
		s.advanceLocked()
		return
	}
	s.scheduleTickLocked()
}

func (s *Session) progressLocked() Progress {
	answered := 0
	for _, a := range s.answers {
		if !a.Empty() {
			answered++
		}
	}
	percent := 0
	if len(s.questions) > 0 {
		percent = int(math.Round(float64(answered) / float64(len(s.questions)) * 100))
	}
	return Progress{
		Index:           s.index,
		Total:           len(s.questions),
		QuestionID:      s.questions[s.index].ID,
		Phase:           s.phase,
		AnsweredCount:   answered,
		AnsweredPercent: percent,
	}
}
