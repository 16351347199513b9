package day

import (
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"
)

// KeyLayout is the date format used for every persisted day key.
const KeyLayout = "2006-01-02"

// Key returns the YYYY-MM-DD key for t in t's own location.
func Key(t time.Time) string {
	return t.Format(KeyLayout)
}

// ParseKey parses a YYYY-MM-DD key as local midnight.
func ParseKey(key string) (time.Time, error) {
	return time.ParseInLocation(KeyLayout, key, time.Local)
}

// Midnight truncates t to the start of its calendar day.
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Record is one calendar day's task lists and notes.
type Record struct {
	Pending   []string
	Completed []string
	Notes     string
}

// Clone returns a deep copy so callers can't alias the lists.
func (r Record) Clone() Record {
	return Record{
		Pending:   slices.Clone(r.Pending),
		Completed: slices.Clone(r.Completed),
		Notes:     r.Notes,
	}
}

// SortedCompleted returns the completed list in alphabetical order.
func (r Record) SortedCompleted() []string {
	out := slices.Clone(r.Completed)
	sort.Strings(out)
	return out
}

func (r Record) IsPending(name string) bool {
	return slices.Contains(r.Pending, name)
}

func (r Record) IsCompleted(name string) bool {
	return slices.Contains(r.Completed, name)
}

// Add appends name to the pending list. Duplicates are allowed, including a
// name that was already done today.
func (r *Record) Add(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return &ValidationError{Field: "task", Reason: "name is empty"}
	}
	r.Pending = append(r.Pending, name)
	return nil
}

// Complete moves the first pending occurrence of name to the completed list.
// Each entry lives in exactly one list; other pending copies stay put.
func (r *Record) Complete(name string) error {
	i := slices.Index(r.Pending, name)
	if i < 0 {
		return &NotFoundError{Name: name, List: ListPending}
	}
	r.Pending = slices.Delete(r.Pending, i, i+1)
	r.Completed = append(r.Completed, name)
	return nil
}

// Delete removes the first pending occurrence of name.
func (r *Record) Delete(name string) error {
	i := slices.Index(r.Pending, name)
	if i < 0 {
		return &NotFoundError{Name: name, List: ListPending}
	}
	r.Pending = slices.Delete(r.Pending, i, i+1)
	return nil
}

// RemoveCompleted removes name from the completed list.
func (r *Record) RemoveCompleted(name string) error {
	i := slices.Index(r.Completed, name)
	if i < 0 {
		return &NotFoundError{Name: name, List: ListCompleted}
	}
	r.Completed = slices.Delete(r.Completed, i, i+1)
	return nil
}

// EditCompleted replaces the text of the completed entry at index.
func (r *Record) EditCompleted(index int, text string) error {
	if index < 0 || index >= len(r.Completed) {
		return &NotFoundError{Name: fmt.Sprintf("#%d", index), List: ListCompleted}
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return &ValidationError{Field: "task", Reason: "name is empty"}
	}
	r.Completed[index] = text
	return nil
}

// Reorder replaces the pending list with order, which must contain exactly
// the same names (with the same multiplicities) as the current list.
func (r *Record) Reorder(order []string) error {
	if !sameMultiset(r.Pending, order) {
		return &ValidationError{Field: "order", Reason: "not a permutation of the pending list"}
	}
	r.Pending = slices.Clone(order)
	return nil
}

func sameMultiset(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	counts := make(map[string]int, len(a))
	for _, s := range a {
		counts[s]++
	}
	for _, s := range b {
		counts[s]--
		if counts[s] < 0 {
			return false
		}
	}
	return true
}
