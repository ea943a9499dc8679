package editor

import "github.com/milk9111/tileforge/history"

// UndoPositionTracker counts the net undo/redo displacement of one
// document from its last saved state.
type UndoPositionTracker struct {
	scope    history.Scope
	hist     *history.History
	position int
	onDirty  func(dirty bool)
}

// NewUndoPositionTracker tracks operations tagged with scope. onDirty is
// called when the document flips between clean and dirty.
func NewUndoPositionTracker(scope history.Scope, onDirty func(dirty bool)) *UndoPositionTracker {
	return &UndoPositionTracker{scope: scope, onDirty: onDirty}
}

// Attach starts listening to h. A tracker listens to one history at a time.
func (t *UndoPositionTracker) Attach(h *history.History) {
	if t.hist == h {
		return
	}
	t.Detach()
	t.hist = h
	if h != nil {
		h.AddListener(t)
	}
}

func (t *UndoPositionTracker) Detach() {
	if t.hist != nil {
		t.hist.RemoveListener(t)
		t.hist = nil
	}
}

func (t *UndoPositionTracker) Position() int {
	return t.position
}

func (t *UndoPositionTracker) IsDirty() bool {
	return t.position != 0
}

// Reset marks the current state as saved.
func (t *UndoPositionTracker) Reset() {
	t.set(0)
}

func (t *UndoPositionTracker) HistoryNotification(evt history.Event) {
	if evt.Scope != t.scope {
		return
	}
	switch evt.Type {
	case history.EventCommitted, history.EventRedone:
		t.set(t.position + 1)
	case history.EventUndone:
		t.set(t.position - 1)
	}
}

func (t *UndoPositionTracker) set(position int) {
	wasDirty := t.position != 0
	// position must be current before onDirty runs; it may ask IsDirty
	t.position = position
	if dirty := position != 0; dirty != wasDirty && t.onDirty != nil {
		t.onDirty(dirty)
	}
}
