package coordinator

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/sadopc/focusbits/internal/alert"
	"github.com/sadopc/focusbits/internal/day"
	"github.com/sadopc/focusbits/internal/session"
	"github.com/sadopc/focusbits/internal/store"
)

// BreakLabel is shown in place of a task name while on a break.
const BreakLabel = "taking a break"

// Journal persists day records.
type Journal interface {
	LoadDay(key string) (day.Record, error)
	SaveLists(key string, pending, completed []string) error
	SaveNotes(key, text string) error
}

// History records the lifecycle of each session. Failures are logged only.
type History interface {
	BeginFocus(day, kind, label string, plannedSeconds int64) (*store.FocusSession, error)
	ExtendFocus(id string, seconds int64) error
	EndFocus(id, outcome string) error
}

type Options struct {
	Journal Journal
	History History       // optional
	Alerter alert.Alerter // optional
	Logger  *slog.Logger  // optional
	Rand    *rand.Rand    // optional; seed it for reproducible picks
	Now     func() time.Time

	Increment   time.Duration // task length, add-time and more-time amount
	BreakLength time.Duration
}

// Coordinator owns the displayed day and the active session. All methods
// must be called from a single goroutine.
type Coordinator struct {
	journal Journal
	history History
	alerter alert.Alerter
	log     *slog.Logger
	rng     *rand.Rand
	now     func() time.Time

	increment   time.Duration
	breakLength time.Duration

	date       time.Time
	record     day.Record
	listsDirty bool
	notesDirty bool

	sess       *session.Session
	sessionDay string
	focusID    string
	offer      string
	hasOffer   bool

	listeners []func(Event)
}

// New builds a coordinator and loads today's record. A load failure is
// logged and leaves an empty day; the error is also returned so the caller
// can surface it.
func New(opts Options) (*Coordinator, error) {
	if opts.Journal == nil {
		return nil, errors.New("coordinator: journal is required")
	}
	c := &Coordinator{
		journal:     opts.Journal,
		history:     opts.History,
		alerter:     opts.Alerter,
		log:         opts.Logger,
		rng:         opts.Rand,
		now:         opts.Now,
		increment:   opts.Increment,
		breakLength: opts.BreakLength,
		sess:        session.New(),
	}
	if c.alerter == nil {
		c.alerter = alert.Nop{}
	}
	if c.log == nil {
		c.log = slog.Default()
	}
	if c.rng == nil {
		c.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.increment <= 0 {
		c.increment = session.DefaultIncrement
	}
	if c.breakLength <= 0 {
		c.breakLength = session.DefaultIncrement
	}

	c.date = day.Midnight(c.now())
	err := c.load()
	return c, err
}

// ============================================================
// Events
// ============================================================

// Subscribe registers fn for every event. Listeners run synchronously.
func (c *Coordinator) Subscribe(fn func(Event)) {
	c.listeners = append(c.listeners, fn)
}

func (c *Coordinator) emit(kind EventKind) {
	ev := Event{Kind: kind, Date: c.Key(), Session: c.sess.State()}
	for _, fn := range c.listeners {
		fn(ev)
	}
}

// ============================================================
// Day navigation
// ============================================================

func (c *Coordinator) Date() time.Time { return c.date }
func (c *Coordinator) Key() string     { return day.Key(c.date) }

// IsToday reports whether the displayed day is the current calendar day.
func (c *Coordinator) IsToday() bool {
	return c.Key() == day.Key(c.now())
}

// CurrentDay returns a copy of the displayed record.
func (c *Coordinator) CurrentDay() day.Record {
	return c.record.Clone()
}

// SelectDate flushes the displayed day, then loads date. If the flush fails
// the displayed day is kept and the error returned. A load failure still
// switches to date with whatever could be read.
func (c *Coordinator) SelectDate(date time.Time) error {
	if err := c.flush(); err != nil {
		return err
	}
	c.date = day.Midnight(date)
	c.record = day.Record{}
	err := c.load()
	c.emit(DayChanged)
	c.emit(TasksChanged)
	return err
}

func (c *Coordinator) PrevDay() error { return c.SelectDate(c.date.AddDate(0, 0, -1)) }
func (c *Coordinator) NextDay() error { return c.SelectDate(c.date.AddDate(0, 0, 1)) }
func (c *Coordinator) Today() error   { return c.SelectDate(c.now()) }

func (c *Coordinator) load() error {
	key := c.Key()
	rec, err := c.journal.LoadDay(key)
	c.record = rec
	c.listsDirty = false
	c.notesDirty = false
	if err != nil {
		c.log.Warn("load day failed, using defaults", "day", key, "err", err)
		return fmt.Errorf("load %s: %w", key, err)
	}
	c.log.Debug("loaded day", "day", key, "pending", len(rec.Pending), "completed", len(rec.Completed))
	return nil
}

func (c *Coordinator) flush() error {
	var errs []error
	if c.listsDirty {
		errs = append(errs, c.persistLists())
	}
	errs = append(errs, c.FlushNotes())
	return errors.Join(errs...)
}

// ============================================================
// Task lists
// ============================================================

// AddTask appends name to the displayed day's pending list.
func (c *Coordinator) AddTask(name string) error {
	if err := c.record.Add(name); err != nil {
		return err
	}
	return c.listsChanged()
}

func (c *Coordinator) CompleteTask(name string) error {
	if c.guardsInFlight(name) {
		return &day.ValidationError{Field: "task", Reason: fmt.Sprintf("%q is in progress", name)}
	}
	if err := c.record.Complete(name); err != nil {
		return err
	}
	return c.listsChanged()
}

func (c *Coordinator) DeleteTask(name string) error {
	if c.guardsInFlight(name) {
		return &day.ValidationError{Field: "task", Reason: fmt.Sprintf("%q is in progress", name)}
	}
	if err := c.record.Delete(name); err != nil {
		return err
	}
	return c.listsChanged()
}

func (c *Coordinator) EditCompletedTaskText(index int, text string) error {
	if err := c.record.EditCompleted(index, text); err != nil {
		return err
	}
	return c.listsChanged()
}

func (c *Coordinator) RemoveCompletedTask(name string) error {
	if err := c.record.RemoveCompleted(name); err != nil {
		return err
	}
	return c.listsChanged()
}

// ReorderPending replaces the pending list with order as presented by the
// caller. order must be a permutation of the current list.
func (c *Coordinator) ReorderPending(order []string) error {
	if err := c.record.Reorder(order); err != nil {
		return err
	}
	return c.listsChanged()
}

// MovePending moves the pending entry at index by delta positions. It
// returns the new index.
func (c *Coordinator) MovePending(index, delta int) (int, error) {
	n := len(c.record.Pending)
	if index < 0 || index >= n {
		return index, &day.NotFoundError{Name: fmt.Sprintf("#%d", index), List: day.ListPending}
	}
	to := min(max(index+delta, 0), n-1)
	if to == index {
		return index, nil
	}
	order := slices.Clone(c.record.Pending)
	item := order[index]
	order = slices.Delete(order, index, index+1)
	order = slices.Insert(order, to, item)
	if err := c.ReorderPending(order); err != nil {
		return index, err
	}
	return to, nil
}

func (c *Coordinator) listsChanged() error {
	err := c.persistLists()
	c.emit(TasksChanged)
	return err
}

func (c *Coordinator) persistLists() error {
	key := c.Key()
	if err := c.journal.SaveLists(key, c.record.Pending, c.record.Completed); err != nil {
		c.listsDirty = true
		c.log.Error("save task lists failed", "day", key, "err", err)
		return fmt.Errorf("save lists %s: %w", key, err)
	}
	c.listsDirty = false
	return nil
}

// ============================================================
// Notes
// ============================================================

// SetNotes updates the in-memory notes. Nothing is written until FlushNotes.
func (c *Coordinator) SetNotes(text string) {
	if text == c.record.Notes {
		return
	}
	c.record.Notes = text
	c.notesDirty = true
}

func (c *Coordinator) NotesDirty() bool { return c.notesDirty }

// FlushNotes writes the displayed day's notes if they changed.
func (c *Coordinator) FlushNotes() error {
	if !c.notesDirty {
		return nil
	}
	key := c.Key()
	if err := c.journal.SaveNotes(key, c.record.Notes); err != nil {
		c.log.Error("save notes failed", "day", key, "err", err)
		return fmt.Errorf("save notes %s: %w", key, err)
	}
	c.notesDirty = false
	c.log.Debug("notes saved", "day", key)
	return nil
}

// Shutdown stops any running session and writes everything still pending.
// Errors are logged; the process is exiting so nothing is retried.
func (c *Coordinator) Shutdown() error {
	if c.sess.Status() != session.StatusIdle {
		if out, err := c.sess.Stop(); err == nil {
			c.endFocus(out)
		}
	}
	err := c.flush()
	if err != nil {
		c.log.Error("shutdown flush failed", "err", err)
	} else {
		c.log.Info("shutdown flush complete", "day", c.Key())
	}
	return err
}
