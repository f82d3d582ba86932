package ui

import "github.com/piwi3910/labelsheet/internal/model"

const defaultMaxDepth = 50

// Snapshot is the session state recorded before a change.
type Snapshot struct {
	Items  []string
	Config model.PageConfig
	Label  string // shown in the Edit menu, e.g. "Import IDs"
}

// History is a bounded undo/redo log of session snapshots.
type History struct {
	past     []Snapshot
	future   []Snapshot
	maxDepth int

	// editing is the label of the open field edit; further edits with the
	// same label join it instead of adding steps.
	editing string
}

// NewHistory creates a History keeping up to 50 undo steps.
func NewHistory() *History {
	return &History{maxDepth: defaultMaxDepth}
}

// Push records the state before a discrete change and drops the redo log.
func (h *History) Push(s Snapshot) {
	h.editing = ""
	h.record(s)
}

// PushEdit records the state before a field edit. Consecutive edits with
// the same label form one undo step, so typing into an entry is undone in
// one go.
func (h *History) PushEdit(s Snapshot) {
	if s.Label != "" && s.Label == h.editing {
		return
	}
	h.record(s)
	h.editing = s.Label
}

func (h *History) record(s Snapshot) {
	h.past = append(h.past, s)
	if over := len(h.past) - h.maxDepth; over > 0 {
		h.past = h.past[over:]
	}
	h.future = nil
}

// Undo returns the state to restore and moves current onto the redo log.
func (h *History) Undo(current Snapshot) (Snapshot, bool) {
	s, ok := pop(&h.past)
	if !ok {
		return Snapshot{}, false
	}
	h.editing = ""
	current.Label = s.Label
	h.future = append(h.future, current)
	return s, true
}

// Redo returns the state undone last and moves current onto the undo log.
func (h *History) Redo(current Snapshot) (Snapshot, bool) {
	s, ok := pop(&h.future)
	if !ok {
		return Snapshot{}, false
	}
	h.editing = ""
	current.Label = s.Label
	h.past = append(h.past, current)
	return s, true
}

func pop(stack *[]Snapshot) (Snapshot, bool) {
	n := len(*stack)
	if n == 0 {
		return Snapshot{}, false
	}
	s := (*stack)[n-1]
	*stack = (*stack)[:n-1]
	return s, true
}

// CanUndo reports whether an undo step is available.
func (h *History) CanUndo() bool { return len(h.past) > 0 }

// CanRedo reports whether a redo step is available.
func (h *History) CanRedo() bool { return len(h.future) > 0 }

// UndoLabel names the change Undo would revert.
func (h *History) UndoLabel() string {
	if len(h.past) == 0 {
		return ""
	}
	return h.past[len(h.past)-1].Label
}

// RedoLabel names the change Redo would reapply.
func (h *History) RedoLabel() string {
	if len(h.future) == 0 {
		return ""
	}
	return h.future[len(h.future)-1].Label
}

// Clear drops all undo and redo steps.
func (h *History) Clear() {
	h.past, h.future, h.editing = nil, nil, ""
}

// MakeSnapshot copies the session state so later edits do not leak into it.
func MakeSnapshot(items []string, config model.PageConfig, label string) Snapshot {
	var cp []string
	if items != nil {
		cp = append(make([]string, 0, len(items)), items...)
	}
	return Snapshot{Items: cp, Config: config.Clone(), Label: label}
}
