package session

// Severity classifies a user-facing notification.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
)

// Notification is a user-facing message emitted by the engine, consumed by
// the surrounding UI's alert collaborator.
type Notification struct {
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// Progress is the navigation update published whenever the active question
// changes or the session phase flips.
type Progress struct {
	Index           int    `json:"index"`
	Total           int    `json:"total"`
	QuestionID      string `json:"question_id"`
	Phase           Phase  `json:"phase"`
	AnsweredCount   int    `json:"answered_count"`
	AnsweredPercent int    `json:"answered_percent"`
}

// Observer receives the engine's output events. Implementations must not
// call back into the session from within a callback; callbacks run while the
// session lock is held.
type Observer interface {
	OnProgress(p Progress)
	OnTick(questionID string, remaining int)
	OnNotification(n Notification)
	OnFinished(r *Report)
}

// NopObserver discards all events. Embed it to implement only a subset of
// the Observer callbacks.
type NopObserver struct{}

func (NopObserver) OnProgress(Progress)        {}
func (NopObserver) OnTick(string, int)         {}
func (NopObserver) OnNotification(Notification) {}
func (NopObserver) OnFinished(*Report)         {}
