package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRecordingBoard(pairable int) (*PairingBoard, *[]Notification) {
	var notes []Notification
	board := NewPairingBoard(pairable, func(n Notification) { notes = append(notes, n) })
	return board, &notes
}

func TestPairingToggleOffSameSide(t *testing.T) {
	board, notes := newRecordingBoard(3)

	board.Select("A", SideLeft)
	board.Select("A", SideLeft)

	assert.Empty(t, board.Pairs())
	_, pending := board.Pending(SideLeft)
	assert.False(t, pending, "no pending selection remains after the toggle")
	assert.Empty(t, *notes)
}

func TestPairingReplacePendingSameSide(t *testing.T) {
	board, _ := newRecordingBoard(3)

	board.Select("A", SideLeft)
	board.Select("B", SideLeft)

	content, pending := board.Pending(SideLeft)
	require.True(t, pending)
	assert.Equal(t, "B", content)
}

func TestPairingCommitAcrossSides(t *testing.T) {
	board, notes := newRecordingBoard(3)

	board.Select("A", SideLeft)
	board.Select("1", SideRight)

	assert.Equal(t, []Pair{{Left: "A", Right: "1"}}, board.Pairs())
	_, leftPending := board.Pending(SideLeft)
	_, rightPending := board.Pending(SideRight)
	assert.False(t, leftPending)
	assert.False(t, rightPending)

	require.Len(t, *notes, 1)
	assert.Equal(t, SeveritySuccess, (*notes)[0].Severity)
}

func TestPairingRightThenLeftCommits(t *testing.T) {
	board, _ := newRecordingBoard(3)

	board.Select("1", SideRight)
	board.Select("A", SideLeft)

	assert.Equal(t, []Pair{{Left: "A", Right: "1"}}, board.Pairs())
}

func TestPairingRecommitAfterUndo(t *testing.T) {
	board, _ := newRecordingBoard(3)

	board.Select("A", SideLeft)
	board.Select("1", SideRight)
	board.UndoLast()
	board.Select("A", SideLeft)
	board.Select("1", SideRight)

	assert.Equal(t, []Pair{{Left: "A", Right: "1"}}, board.Pairs())
}

func TestPairingDuplicateCommitRejected(t *testing.T) {
	// Disabled committed items keep the duplicate path out of reach through
	// Select, so drive the commit step directly.
	board, notes := newRecordingBoard(3)
	board.restore([]Pair{{Left: "A", Right: "1"}})
	board.pendingLeft, board.hasPendingLeft = "A", true
	board.pendingRight, board.hasPendingRight = "1", true

	board.commit()

	assert.Equal(t, []Pair{{Left: "A", Right: "1"}}, board.Pairs(), "committed pairs unchanged")
	require.Len(t, *notes, 1)
	assert.Equal(t, SeverityWarning, (*notes)[0].Severity)
	_, leftPending := board.Pending(SideLeft)
	_, rightPending := board.Pending(SideRight)
	assert.False(t, leftPending)
	assert.False(t, rightPending)
}

func TestPairingCommittedItemsDisabled(t *testing.T) {
	board, _ := newRecordingBoard(2)
	board.Select("A", SideLeft)
	board.Select("1", SideRight)

	board.Select("A", SideLeft) // disabled, ignored
	_, pending := board.Pending(SideLeft)
	assert.False(t, pending)

	board.Select("B", SideLeft)
	board.Select("1", SideRight) // right item already committed, ignored
	assert.Len(t, board.Pairs(), 1)
}

func TestPairingUndoIsLIFO(t *testing.T) {
	board, notes := newRecordingBoard(3)
	board.Select("A", SideLeft)
	board.Select("1", SideRight)
	board.Select("B", SideLeft)
	board.Select("2", SideRight)

	board.UndoLast()
	assert.Equal(t, []Pair{{Left: "A", Right: "1"}}, board.Pairs())
	assert.Equal(t, SeverityInfo, (*notes)[len(*notes)-1].Severity)

	board.UndoLast()
	assert.Empty(t, board.Pairs())

	before := len(*notes)
	board.UndoLast() // empty board, no-op
	assert.Len(t, *notes, before)
}

func TestPairingClearAll(t *testing.T) {
	board, _ := newRecordingBoard(3)
	board.Select("A", SideLeft)
	board.Select("1", SideRight)
	board.Select("B", SideLeft)
	board.Select("2", SideRight)

	board.ClearAll()
	assert.Empty(t, board.Pairs())

	board.Select("A", SideLeft)
	_, pending := board.Pending(SideLeft)
	assert.True(t, pending, "cleared items are selectable again")

	cleared, clearedNotes := newRecordingBoard(3)
	cleared.ClearAll()
	assert.Empty(t, *clearedNotes, "clear on empty board emits nothing")
}

func TestPairingAllMatchedNotification(t *testing.T) {
	board, notes := newRecordingBoard(2)
	board.Select("A", SideLeft)
	board.Select("1", SideRight)
	board.Select("B", SideLeft)
	board.Select("2", SideRight)

	require.Len(t, *notes, 3)
	assert.Equal(t, "All items matched", (*notes)[2].Message)
}
