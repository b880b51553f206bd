package session

import "fmt"

// Side identifies which matching column a selection targets.
type Side string

const (
	SideLeft  Side = "left"
	SideRight Side = "right"
)

// NotifyFunc receives the user-facing notifications a PairingBoard emits on
// commits, rejections, undo and clear.
type NotifyFunc func(Notification)

// PairingBoard turns two independent column-selection streams into committed
// pairs. Selecting a pending item again toggles it off; selecting across
// columns commits a pair unless it already exists. Items belonging to a
// committed pair are disabled until freed via undo or clear.
type PairingBoard struct {
	pairable int

	pendingLeft     string
	pendingRight    string
	hasPendingLeft  bool
	hasPendingRight bool

	// insertion order is significant: undo removes the last committed pair
	pairs []Pair

	notify NotifyFunc
}

// NewPairingBoard creates a board expecting at most pairable committed pairs.
// notify may be nil.
func NewPairingBoard(pairable int, notify NotifyFunc) *PairingBoard {
	if notify == nil {
		notify = func(Notification) {}
	}
	return &PairingBoard{pairable: pairable, notify: notify}
}

// Select registers a click on one column. Committed items are ignored.
func (b *PairingBoard) Select(content string, side Side) {
	if b.Committed(content, side) {
		return
	}

	switch side {
	case SideLeft:
		if b.hasPendingLeft && b.pendingLeft == content {
			b.hasPendingLeft = false
			b.pendingLeft = ""
			return
		}
		b.pendingLeft = content
		b.hasPendingLeft = true
	case SideRight:
		if b.hasPendingRight && b.pendingRight == content {
			b.hasPendingRight = false
			b.pendingRight = ""
			return
		}
		b.pendingRight = content
		b.hasPendingRight = true
	default:
		return
	}

	if b.hasPendingLeft && b.hasPendingRight {
		b.commit()
	}
}

func (b *PairingBoard) commit() {
	pair := Pair{Left: b.pendingLeft, Right: b.pendingRight}
	b.hasPendingLeft = false
	b.hasPendingRight = false
	b.pendingLeft = ""
	b.pendingRight = ""

	for _, existing := range b.pairs {
		if existing == pair {
			b.notify(Notification{
				Message:  "This pair is already matched",
				Severity: SeverityWarning,
			})
			return
		}
	}

	b.pairs = append(b.pairs, pair)
	b.notify(Notification{
		Message:  fmt.Sprintf("Matched %q with %q", pair.Left, pair.Right),
		Severity: SeveritySuccess,
	})
	if b.pairable > 0 && len(b.pairs) == b.pairable {
		b.notify(Notification{
			Message:  "All items matched",
			Severity: SeveritySuccess,
		})
	}
}

// UndoLast removes the most recently committed pair, re-enabling its items.
// No-op on an empty board.
func (b *PairingBoard) UndoLast() {
	if len(b.pairs) == 0 {
		return
	}
	last := b.pairs[len(b.pairs)-1]
	b.pairs = b.pairs[:len(b.pairs)-1]
	b.notify(Notification{
		Message:  fmt.Sprintf("Removed match between %q and %q", last.Left, last.Right),
		Severity: SeverityInfo,
	})
}

// ClearAll removes every committed pair. No-op on an empty board.
func (b *PairingBoard) ClearAll() {
	if len(b.pairs) == 0 {
		return
	}
	b.pairs = nil
	b.notify(Notification{
		Message:  "All matches cleared",
		Severity: SeverityInfo,
	})
}

// Pairs returns the committed pairs in insertion order.
func (b *PairingBoard) Pairs() []Pair {
	return append([]Pair(nil), b.pairs...)
}

// Committed reports whether the given item already belongs to a committed
// pair on its column.
func (b *PairingBoard) Committed(content string, side Side) bool {
	for _, p := range b.pairs {
		if (side == SideLeft && p.Left == content) || (side == SideRight && p.Right == content) {
			return true
		}
	}
	return false
}

// Pending returns the pending selection on the given column, if any.
func (b *PairingBoard) Pending(side Side) (string, bool) {
	if side == SideLeft {
		return b.pendingLeft, b.hasPendingLeft
	}
	return b.pendingRight, b.hasPendingRight
}

// restore rehydrates committed pairs from a saved answer without emitting
// notifications; used when navigating back to a matching question.
func (b *PairingBoard) restore(pairs []Pair) {
	b.pairs = append([]Pair(nil), pairs...)
	b.hasPendingLeft = false
	b.hasPendingRight = false
	b.pendingLeft = ""
	b.pendingRight = ""
}
