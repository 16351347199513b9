package coordinator

import (
	"errors"
	"io"
	"log/slog"
	"slices"
	"testing"
	"time"

	"github.com/sadopc/focusbits/internal/alert"
	"github.com/sadopc/focusbits/internal/day"
	"github.com/sadopc/focusbits/internal/session"
	"github.com/sadopc/focusbits/internal/store"
)

var testNow = time.Date(2024, time.May, 10, 9, 30, 0, 0, time.Local)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fixture struct {
	c       *Coordinator
	journal *store.Journal
	history *store.Store
	events  []Event
	alerts  []string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWith(t, store.NewJournal(t.TempDir()))
}

func newFixtureWith(t *testing.T, j *store.Journal) *fixture {
	t.Helper()
	h, err := store.NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { h.Close() })

	f := &fixture{journal: j, history: h}
	c, err := New(Options{
		Journal: j,
		History: h,
		Alerter: alert.Func(func(m string) error {
			f.alerts = append(f.alerts, m)
			return nil
		}),
		Logger: quietLogger(),
		Rand:   session.NewRand(0),
		Now:    func() time.Time { return testNow },
	})
	if err != nil {
		t.Fatalf("new coordinator: %v", err)
	}
	c.Subscribe(func(ev Event) { f.events = append(f.events, ev) })
	f.c = c
	return f
}

func (f *fixture) count(kind EventKind) int {
	n := 0
	for _, ev := range f.events {
		if ev.Kind == kind {
			n++
		}
	}
	return n
}

// failingJournal wraps a journal and fails selected operations.
type failingJournal struct {
	*store.Journal
	failLoad, failLists, failNotes bool
}

var errDisk = errors.New("disk full")

func (j *failingJournal) LoadDay(key string) (day.Record, error) {
	if j.failLoad {
		return day.Record{Pending: []string{}, Completed: []string{}}, &store.PersistenceError{Op: "read", Path: "x", Err: errDisk}
	}
	return j.Journal.LoadDay(key)
}

func (j *failingJournal) SaveLists(key string, p, c []string) error {
	if j.failLists {
		return &store.PersistenceError{Op: "write", Path: "x", Err: errDisk}
	}
	return j.Journal.SaveLists(key, p, c)
}

func (j *failingJournal) SaveNotes(key, text string) error {
	if j.failNotes {
		return &store.PersistenceError{Op: "write", Path: "x", Err: errDisk}
	}
	return j.Journal.SaveNotes(key, text)
}

func newFailingCoordinator(t *testing.T, fj *failingJournal) *Coordinator {
	t.Helper()
	c, _ := New(Options{
		Journal: fj,
		Logger:  quietLogger(),
		Rand:    session.NewRand(0),
		Now:     func() time.Time { return testNow },
	})
	return c
}

// ============================================================
// Construction
// ============================================================

func TestNewRequiresJournal(t *testing.T) {
	if _, err := New(Options{}); err == nil {
		t.Fatal("expected error without journal")
	}
}

func TestNewDefaults(t *testing.T) {
	f := newFixture(t)
	if f.c.Key() != "2024-05-10" {
		t.Fatalf("key = %q", f.c.Key())
	}
	if !f.c.IsToday() {
		t.Fatal("should start on today")
	}
	if f.c.Increment() != 15*time.Minute || f.c.BreakLength() != 15*time.Minute {
		t.Fatal("default lengths should be 15 minutes")
	}
	if f.c.Session().Active() {
		t.Fatal("session should start idle")
	}
}

// ============================================================
// Task lists
// ============================================================

func TestAddTaskPersists(t *testing.T) {
	f := newFixture(t)
	if err := f.c.AddTask("write report"); err != nil {
		t.Fatal(err)
	}
	rec, _ := f.journal.LoadDay("2024-05-10")
	if !slices.Equal(rec.Pending, []string{"write report"}) {
		t.Fatalf("persisted pending = %v", rec.Pending)
	}
	if f.count(TasksChanged) != 1 {
		t.Fatalf("expected one TasksChanged event, got %d", f.count(TasksChanged))
	}
}

func TestAddTaskEmpty(t *testing.T) {
	f := newFixture(t)
	var ve *day.ValidationError
	if err := f.c.AddTask("   "); !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if has, _ := f.journal.HasLists("2024-05-10"); has {
		t.Fatal("rejected add should not persist")
	}
	if f.count(TasksChanged) != 0 {
		t.Fatal("rejected add should not emit")
	}
}

func TestCompleteAndDelete(t *testing.T) {
	f := newFixture(t)
	f.c.AddTask("a")
	f.c.AddTask("b")

	if err := f.c.CompleteTask("a"); err != nil {
		t.Fatal(err)
	}
	if err := f.c.DeleteTask("b"); err != nil {
		t.Fatal(err)
	}
	rec, _ := f.journal.LoadDay("2024-05-10")
	if len(rec.Pending) != 0 || !slices.Equal(rec.Completed, []string{"a"}) {
		t.Fatalf("persisted record = %+v", rec)
	}

	var nf *day.NotFoundError
	if err := f.c.CompleteTask("zzz"); !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if err := f.c.DeleteTask("a"); !errors.As(err, &nf) {
		t.Fatalf("deleting a completed task from pending: expected NotFoundError, got %v", err)
	}
}

func TestCompletedListEditing(t *testing.T) {
	f := newFixture(t)
	f.c.AddTask("a")
	f.c.CompleteTask("a")

	if err := f.c.EditCompletedTaskText(0, "a, but better"); err != nil {
		t.Fatal(err)
	}
	if err := f.c.RemoveCompletedTask("a, but better"); err != nil {
		t.Fatal(err)
	}
	rec, _ := f.journal.LoadDay("2024-05-10")
	if len(rec.Completed) != 0 {
		t.Fatalf("completed = %v", rec.Completed)
	}
}

func TestReorderPendingPersistsExactOrder(t *testing.T) {
	f := newFixture(t)
	f.c.AddTask("a")
	f.c.AddTask("b")
	if err := f.c.ReorderPending([]string{"b", "a"}); err != nil {
		t.Fatal(err)
	}

	// Reload by navigating away and back.
	f.c.NextDay()
	f.c.PrevDay()
	if got := f.c.CurrentDay().Pending; !slices.Equal(got, []string{"b", "a"}) {
		t.Fatalf("pending after reload = %v", got)
	}
}

func TestReorderPendingRejectsMismatch(t *testing.T) {
	f := newFixture(t)
	f.c.AddTask("a")
	f.c.AddTask("b")
	var ve *day.ValidationError
	if err := f.c.ReorderPending([]string{"b", "b"}); !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if got := f.c.CurrentDay().Pending; !slices.Equal(got, []string{"a", "b"}) {
		t.Fatalf("pending changed to %v", got)
	}
}

func TestMovePending(t *testing.T) {
	f := newFixture(t)
	for _, n := range []string{"a", "b", "c"} {
		f.c.AddTask(n)
	}
	idx, err := f.c.MovePending(0, 1)
	if err != nil {
		t.Fatal(err)
	}
	if idx != 1 || !slices.Equal(f.c.CurrentDay().Pending, []string{"b", "a", "c"}) {
		t.Fatalf("idx=%d pending=%v", idx, f.c.CurrentDay().Pending)
	}
	idx, _ = f.c.MovePending(1, 10) // clamps
	if idx != 2 || !slices.Equal(f.c.CurrentDay().Pending, []string{"b", "c", "a"}) {
		t.Fatalf("idx=%d pending=%v", idx, f.c.CurrentDay().Pending)
	}
	idx, _ = f.c.MovePending(0, -1) // already at top
	if idx != 0 {
		t.Fatalf("idx=%d", idx)
	}
	var nf *day.NotFoundError
	if _, err := f.c.MovePending(9, 1); !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestCurrentDayIsACopy(t *testing.T) {
	f := newFixture(t)
	f.c.AddTask("a")
	rec := f.c.CurrentDay()
	rec.Pending[0] = "mutated"
	if f.c.CurrentDay().Pending[0] != "a" {
		t.Fatal("CurrentDay leaked internal state")
	}
}

// ============================================================
// Navigation
// ============================================================

func TestRolloverOnNavigation(t *testing.T) {
	f := newFixture(t)
	f.c.AddTask("a")
	f.c.AddTask("b")
	f.c.AddTask("c")
	f.c.CompleteTask("c")

	if err := f.c.NextDay(); err != nil {
		t.Fatal(err)
	}
	if f.c.Key() != "2024-05-11" {
		t.Fatalf("key = %q", f.c.Key())
	}
	rec := f.c.CurrentDay()
	if !slices.Equal(rec.Pending, []string{"a", "b"}) {
		t.Fatalf("pending = %v", rec.Pending)
	}
	if len(rec.Completed) != 0 {
		t.Fatalf("completed rolled over: %v", rec.Completed)
	}
	if f.count(DayChanged) != 1 {
		t.Fatalf("DayChanged events = %d", f.count(DayChanged))
	}
}

func TestSelectDateFlushesNotes(t *testing.T) {
	f := newFixture(t)
	f.c.SetNotes("today's notes")
	f.c.PrevDay()

	rec, _ := f.journal.LoadDay("2024-05-10")
	if rec.Notes != "today's notes" {
		t.Fatalf("notes not flushed on navigation: %q", rec.Notes)
	}
	if f.c.CurrentDay().Notes != "" {
		t.Fatal("previous day should have empty notes")
	}
}

func TestToday(t *testing.T) {
	f := newFixture(t)
	f.c.PrevDay()
	f.c.PrevDay()
	if f.c.IsToday() {
		t.Fatal("should not be today")
	}
	f.c.Today()
	if !f.c.IsToday() {
		t.Fatal("Today should return to the current day")
	}
}

func TestSelectDateLoadFailureDegrades(t *testing.T) {
	fj := &failingJournal{Journal: store.NewJournal(t.TempDir())}
	c := newFailingCoordinator(t, fj)

	fj.failLoad = true
	err := c.NextDay()
	var pe *store.PersistenceError
	if !errors.As(err, &pe) {
		t.Fatalf("expected PersistenceError, got %v", err)
	}
	if c.Key() != "2024-05-11" {
		t.Fatal("load failure should still switch days")
	}
	if len(c.CurrentDay().Pending) != 0 {
		t.Fatal("expected empty default day")
	}
}

func TestSelectDateFlushFailureKeepsDay(t *testing.T) {
	fj := &failingJournal{Journal: store.NewJournal(t.TempDir())}
	c := newFailingCoordinator(t, fj)

	c.SetNotes("unsaved")
	fj.failNotes = true
	if err := c.NextDay(); err == nil {
		t.Fatal("expected flush error")
	}
	if c.Key() != "2024-05-10" {
		t.Fatal("should stay on the unsaved day")
	}
	if c.CurrentDay().Notes != "unsaved" {
		t.Fatal("notes buffer lost")
	}

	fj.failNotes = false
	if err := c.NextDay(); err != nil {
		t.Fatal(err)
	}
	rec, _ := fj.Journal.LoadDay("2024-05-10")
	if rec.Notes != "unsaved" {
		t.Fatalf("notes = %q", rec.Notes)
	}
}

func TestSaveFailureSurfacesAndRetries(t *testing.T) {
	fj := &failingJournal{Journal: store.NewJournal(t.TempDir())}
	c := newFailingCoordinator(t, fj)

	fj.failLists = true
	err := c.AddTask("a")
	var pe *store.PersistenceError
	if !errors.As(err, &pe) {
		t.Fatalf("expected PersistenceError, got %v", err)
	}
	if !slices.Equal(c.CurrentDay().Pending, []string{"a"}) {
		t.Fatal("in-memory state should keep the change")
	}

	fj.failLists = false
	if err := c.Shutdown(); err != nil {
		t.Fatal(err)
	}
	rec, _ := fj.Journal.LoadDay("2024-05-10")
	if !slices.Equal(rec.Pending, []string{"a"}) {
		t.Fatalf("dirty lists not flushed on shutdown: %v", rec.Pending)
	}
}

// ============================================================
// Notes
// ============================================================

func TestNotesBufferedUntilFlush(t *testing.T) {
	f := newFixture(t)
	f.c.SetNotes("draft")
	if !f.c.NotesDirty() {
		t.Fatal("notes should be dirty")
	}
	rec, _ := f.journal.LoadDay("2024-05-10")
	if rec.Notes != "" {
		t.Fatal("SetNotes should not write through")
	}

	if err := f.c.FlushNotes(); err != nil {
		t.Fatal(err)
	}
	rec, _ = f.journal.LoadDay("2024-05-10")
	if rec.Notes != "draft" {
		t.Fatalf("notes = %q", rec.Notes)
	}
	if f.c.NotesDirty() {
		t.Fatal("flush should clear dirty flag")
	}
}

func TestSetNotesUnchangedNotDirty(t *testing.T) {
	f := newFixture(t)
	f.c.SetNotes("")
	if f.c.NotesDirty() {
		t.Fatal("identical text should not mark dirty")
	}
}

func TestShutdownFlushesNotes(t *testing.T) {
	f := newFixture(t)
	f.c.SetNotes("last words")
	if err := f.c.Shutdown(); err != nil {
		t.Fatal(err)
	}
	rec, _ := f.journal.LoadDay("2024-05-10")
	if rec.Notes != "last words" {
		t.Fatalf("notes = %q", rec.Notes)
	}
}

func TestShutdownFailureReturned(t *testing.T) {
	fj := &failingJournal{Journal: store.NewJournal(t.TempDir())}
	c := newFailingCoordinator(t, fj)
	c.SetNotes("x")
	fj.failNotes = true
	if err := c.Shutdown(); err == nil {
		t.Fatal("expected shutdown error")
	}
}
