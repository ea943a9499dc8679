package history

import (
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrNothingToUndo = errors.New("history: nothing to undo")
	ErrNothingToRedo = errors.New("history: nothing to redo")
)

const defaultLimit = 100

// Operation is one reversible edit.
type Operation interface {
	Label() string
	Execute() error
	Undo() error
	Redo() error
}

// Scope tags operations with the undo context of the document that owns
// them. Several documents may share one History.
type Scope struct {
	id   uuid.UUID
	name string
}

// NewScope returns a scope distinct from every other scope.
func NewScope(name string) Scope {
	return Scope{id: uuid.New(), name: name}
}

func (s Scope) String() string {
	return s.name + "#" + s.id.String()[:8]
}

// EventType is the kind of history notification.
type EventType int

const (
	EventCommitted EventType = iota
	EventRedone
	EventUndone
)

func (t EventType) String() string {
	switch t {
	case EventCommitted:
		return "committed"
	case EventRedone:
		return "redone"
	case EventUndone:
		return "undone"
	default:
		return "unknown"
	}
}

// Event is delivered to listeners after an operation moved.
type Event struct {
	Type      EventType
	Scope     Scope
	Operation Operation
}

// Listener receives history notifications for every scope.
type Listener interface {
	HistoryNotification(evt Event)
}

type stacks struct {
	undo []Operation
	redo []Operation
}

// History is the transaction log shared by all open documents. It is not
// safe for concurrent use; all calls happen on the editor's thread.
type History struct {
	Limit int

	scopes    map[Scope]*stacks
	listeners []Listener
	log       logrus.FieldLogger
}

// New returns an empty history.
func New(log logrus.FieldLogger) *History {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &History{
		Limit:  defaultLimit,
		scopes: make(map[Scope]*stacks),
		log:    log,
	}
}

// AddListener registers l. Registering the same listener twice is a no-op.
func (h *History) AddListener(l Listener) {
	if l == nil || slices.Contains(h.listeners, l) {
		return
	}
	h.listeners = append(h.listeners, l)
}

// RemoveListener unregisters l.
func (h *History) RemoveListener(l Listener) {
	if i := slices.Index(h.listeners, l); i >= 0 {
		h.listeners = slices.Delete(h.listeners, i, i+1)
	}
}

// Submit executes op and records it on scope's undo stack.
func (h *History) Submit(op Operation, scope Scope) error {
	if op == nil {
		return nil
	}
	if err := op.Execute(); err != nil {
		return fmt.Errorf("history: execute %s: %w", op.Label(), err)
	}
	st := h.stacks(scope)
	st.undo = append(st.undo, op)
	limit := h.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if len(st.undo) > limit {
		// drop oldest
		st.undo = st.undo[len(st.undo)-limit:]
	}
	st.redo = nil
	h.log.WithFields(logrus.Fields{"op": op.Label(), "scope": scope}).Debug("history commit")
	h.notify(Event{Type: EventCommitted, Scope: scope, Operation: op})
	return nil
}

// Undo reverts the most recent operation in scope.
func (h *History) Undo(scope Scope) error {
	st := h.stacks(scope)
	n := len(st.undo)
	if n == 0 {
		return ErrNothingToUndo
	}
	op := st.undo[n-1]
	if err := op.Undo(); err != nil {
		return fmt.Errorf("history: undo %s: %w", op.Label(), err)
	}
	st.undo = st.undo[:n-1]
	st.redo = append(st.redo, op)
	h.notify(Event{Type: EventUndone, Scope: scope, Operation: op})
	return nil
}

// Redo reapplies the most recently undone operation in scope.
func (h *History) Redo(scope Scope) error {
	st := h.stacks(scope)
	n := len(st.redo)
	if n == 0 {
		return ErrNothingToRedo
	}
	op := st.redo[n-1]
	if err := op.Redo(); err != nil {
		return fmt.Errorf("history: redo %s: %w", op.Label(), err)
	}
	st.redo = st.redo[:n-1]
	st.undo = append(st.undo, op)
	h.notify(Event{Type: EventRedone, Scope: scope, Operation: op})
	return nil
}

func (h *History) CanUndo(scope Scope) bool {
	st, ok := h.scopes[scope]
	return ok && len(st.undo) > 0
}

func (h *History) CanRedo(scope Scope) bool {
	st, ok := h.scopes[scope]
	return ok && len(st.redo) > 0
}

// Dispose forgets every operation recorded for scope.
func (h *History) Dispose(scope Scope) {
	delete(h.scopes, scope)
}

func (h *History) stacks(scope Scope) *stacks {
	st, ok := h.scopes[scope]
	if !ok {
		st = &stacks{}
		h.scopes[scope] = st
	}
	return st
}

func (h *History) notify(evt Event) {
	// listeners may detach from inside the callback
	for _, l := range slices.Clone(h.listeners) {
		l.HistoryNotification(evt)
	}
}
