// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package refs implements two-pass cross-reference resolution over a pandoc
// document tree: a scan pass numbers every labelled element, and a rewrite
// pass replaces references to those labels with rendered text for the target
// output format. Between the passes, citation elements that name a known
// label are converted to Ref tokens, and references mangled by pandoc's
// autolink extension are repaired.
package refs

// WarnFunc receives non-fatal diagnostics from the passes: duplicate labels,
// unresolvable references, malformed tokens. A nil WarnFunc discards them.
type WarnFunc func(format string, args ...any)

func (w WarnFunc) warnf(format string, args ...any) {
	if w != nil {
		w(format, args...)
	}
}

// Table maps labels to their assigned ordinals, in document order. It is
// built once by Scan and read-only afterwards.
type Table struct {
	ordinals map[string]int
	order    []string
}

// NewTable returns an empty label table.
func NewTable() *Table {
	return &Table{ordinals: make(map[string]int)}
}

// Add assigns the next ordinal to label and reports whether the label was
// new. A label seen before keeps its first ordinal.
func (t *Table) Add(label string) (int, bool) {
	if n, ok := t.ordinals[label]; ok {
		return n, false
	}
	n := len(t.order) + 1
	t.ordinals[label] = n
	t.order = append(t.order, label)
	return n, true
}

// Ordinal returns the ordinal assigned to label.
func (t *Table) Ordinal(label string) (int, bool) {
	n, ok := t.ordinals[label]
	return n, ok
}

// Contains reports whether label is in the table.
func (t *Table) Contains(label string) bool {
	_, ok := t.ordinals[label]
	return ok
}

// Labels returns all labels in first-occurrence order.
func (t *Table) Labels() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// Len returns the number of labels in the table.
func (t *Table) Len() int {
	return len(t.order)
}
