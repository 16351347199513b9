package store

import (
	"errors"
	"path/filepath"
	"slices"
	"sort"

	"github.com/sadopc/focusbits/internal/day"
)

// DayLists is the task-lists document entry for one day.
type DayLists struct {
	UpNext    []string `json:"up_next"`
	DoneToday []string `json:"done_today"`
}

// Journal reads and writes day records across the task-lists and notes
// documents. The two documents are independent; either may be missing.
type Journal struct {
	tasks *Doc[DayLists]
	notes *Doc[string]
}

func NewJournal(dataDir string) *Journal {
	return &Journal{
		tasks: NewDoc[DayLists](filepath.Join(dataDir, "task_lists.json")),
		notes: NewDoc[string](filepath.Join(dataDir, "notes.json")),
	}
}

// LoadDay assembles the record for key. When the day has no task lists of
// its own, pending tasks roll forward from the most recent earlier day;
// completed tasks never roll forward. Errors from either document are
// joined and returned alongside whatever could be loaded.
func (j *Journal) LoadDay(key string) (day.Record, error) {
	var rec day.Record
	var errs []error

	lists, err := j.tasks.Load()
	if err != nil {
		errs = append(errs, err)
	} else if l, ok := lists[key]; ok {
		rec.Pending = slices.Clone(l.UpNext)
		rec.Completed = slices.Clone(l.DoneToday)
	} else {
		rec.Pending = rollover(lists, key)
	}

	notes, _, err := j.notes.Get(key)
	if err != nil {
		errs = append(errs, err)
	}
	rec.Notes = notes

	if rec.Pending == nil {
		rec.Pending = []string{}
	}
	if rec.Completed == nil {
		rec.Completed = []string{}
	}
	return rec, errors.Join(errs...)
}

func rollover(lists map[string]DayLists, key string) []string {
	keys := make([]string, 0, len(lists))
	for k := range lists {
		if k < key {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return nil
	}
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))
	return slices.Clone(lists[keys[0]].UpNext)
}

// HasLists reports whether key has its own task-lists entry.
func (j *Journal) HasLists(key string) (bool, error) {
	_, ok, err := j.tasks.Get(key)
	return ok, err
}

func (j *Journal) SaveLists(key string, pending, completed []string) error {
	return j.tasks.Put(key, DayLists{
		UpNext:    nonNil(pending),
		DoneToday: nonNil(completed),
	})
}

func (j *Journal) SaveNotes(key, text string) error {
	return j.notes.Put(key, text)
}

// SaveDay writes both documents for key.
func (j *Journal) SaveDay(key string, rec day.Record) error {
	return errors.Join(
		j.SaveLists(key, rec.Pending, rec.Completed),
		j.SaveNotes(key, rec.Notes),
	)
}

// CompletedCounts returns the number of done tasks per day in [from, to).
func (j *Journal) CompletedCounts(from, to string) (map[string]int, error) {
	lists, err := j.tasks.Load()
	if err != nil {
		return nil, err
	}
	out := make(map[string]int)
	for k, l := range lists {
		if k >= from && k < to {
			out[k] = len(l.DoneToday)
		}
	}
	return out, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
