package coordinator

import (
	"errors"
	"fmt"
	"time"

	"github.com/sadopc/focusbits/internal/day"
	"github.com/sadopc/focusbits/internal/session"
	"github.com/sadopc/focusbits/internal/store"
)

// ErrNoOffer is returned when accepting without an outstanding offer.
var ErrNoOffer = errors.New("no task on offer")

func (c *Coordinator) Session() session.State { return c.sess.State() }

// ActivityLabel is the task name, or BreakLabel during a break.
func (c *Coordinator) ActivityLabel() string {
	st := c.sess.State()
	if !st.Active() {
		return ""
	}
	if st.Kind == session.KindBreak {
		return BreakLabel
	}
	return st.Label
}

// InFlight returns the running task name when it belongs to the displayed day.
func (c *Coordinator) InFlight() (string, bool) {
	st := c.sess.State()
	if !st.Active() || st.Kind != session.KindTask || c.sessionDay != c.Key() {
		return "", false
	}
	return st.Label, true
}

// guardsInFlight reports whether removing one pending copy of name would
// take away the running task. Extra duplicates are free to go.
func (c *Coordinator) guardsInFlight(name string) bool {
	label, ok := c.InFlight()
	if !ok || label != name {
		return false
	}
	n := 0
	for _, p := range c.record.Pending {
		if p == name {
			n++
		}
	}
	return n <= 1
}

func (c *Coordinator) SetIncrement(d time.Duration) {
	if d > 0 {
		c.increment = d
	}
}

func (c *Coordinator) SetBreakLength(d time.Duration) {
	if d > 0 {
		c.breakLength = d
	}
}

func (c *Coordinator) Increment() time.Duration   { return c.increment }
func (c *Coordinator) BreakLength() time.Duration { return c.breakLength }

// ============================================================
// Starting
// ============================================================

// OfferTask picks a random pending task for the user to accept or decline.
func (c *Coordinator) OfferTask() (string, error) {
	if c.sess.Status() != session.StatusIdle {
		return "", session.ErrAlreadyActive
	}
	name, err := session.Pick(c.record.Pending, c.rng)
	if err != nil {
		return "", err
	}
	c.offer = name
	c.hasOffer = true
	return name, nil
}

// Offer returns the outstanding offer, if any.
func (c *Coordinator) Offer() (string, bool) { return c.offer, c.hasOffer }

func (c *Coordinator) AcceptOffer() error {
	if !c.hasOffer {
		return ErrNoOffer
	}
	name := c.offer
	c.DeclineOffer()
	return c.StartTask(name)
}

func (c *Coordinator) DeclineOffer() {
	c.offer = ""
	c.hasOffer = false
}

// AssignTask picks a random pending task and starts it straight away.
func (c *Coordinator) AssignTask() (string, error) {
	if c.sess.Status() != session.StatusIdle {
		return "", session.ErrAlreadyActive
	}
	name, err := session.Pick(c.record.Pending, c.rng)
	if err != nil {
		return "", err
	}
	return name, c.StartTask(name)
}

// StartTask starts a countdown for a task on the displayed day's pending list.
func (c *Coordinator) StartTask(name string) error {
	if c.sess.Status() != session.StatusIdle {
		return session.ErrAlreadyActive
	}
	if !c.record.IsPending(name) {
		return &day.NotFoundError{Name: name, List: day.ListPending}
	}
	return c.start(session.KindTask, name, c.increment)
}

func (c *Coordinator) StartBreak() error {
	return c.start(session.KindBreak, "", c.breakLength)
}

func (c *Coordinator) start(kind session.Kind, label string, d time.Duration) error {
	secs := int(d / time.Second)
	if err := c.sess.Start(kind, label, secs); err != nil {
		return err
	}
	c.DeclineOffer()
	c.sessionDay = c.Key()
	c.focusID = ""
	if c.history != nil {
		f, err := c.history.BeginFocus(c.sessionDay, kind.String(), label, int64(secs))
		if err != nil {
			c.log.Warn("record session start failed", "err", err)
		} else {
			c.focusID = f.ID
		}
	}
	c.log.Info("session started", "kind", kind, "label", label, "seconds", secs)
	c.emit(SessionChanged)
	return nil
}

// ============================================================
// Running
// ============================================================

// Tick advances the countdown by one second. On expiry the alert hook runs
// once and SessionExpired is emitted; the session waits for a resolution.
func (c *Coordinator) Tick() {
	if c.sess.Status() != session.StatusRunning {
		return
	}
	expired := c.sess.Tick()
	c.emit(SessionChanged)
	if !expired {
		return
	}
	c.log.Info("session expired", "label", c.ActivityLabel())
	if err := c.alerter.Alert(c.ExpiryPrompt()); err != nil {
		c.log.Warn("expiry alert failed", "err", err)
	}
	c.emit(SessionExpired)
}

// ExpiryPrompt is the question put to the user when time runs out.
func (c *Coordinator) ExpiryPrompt() string {
	if c.sess.Kind() == session.KindBreak {
		return "Break's over! Done resting?"
	}
	return fmt.Sprintf("Are you done with: %s?", c.sess.Label())
}

func (c *Coordinator) AddTime(d time.Duration) error {
	secs := int(d / time.Second)
	if err := c.sess.AddTime(secs); err != nil {
		return err
	}
	c.extendFocus(secs)
	c.emit(SessionChanged)
	return nil
}

// PauseSession and ResumeSession are accepted but have no effect.
func (c *Coordinator) PauseSession()  { c.sess.Pause() }
func (c *Coordinator) ResumeSession() { c.sess.Resume() }

// ============================================================
// Resolving
// ============================================================

// ResolveComplete ends the session. A task moves from pending to completed
// on the day it was started.
func (c *Coordinator) ResolveComplete() error {
	out, err := c.sess.ResolveComplete()
	if err != nil {
		return err
	}
	c.endFocus(out)
	sessionDay := c.sessionDay
	c.sessionDay = ""
	c.emit(SessionChanged)

	if out.Kind != session.KindTask {
		return nil
	}
	if sessionDay == c.Key() {
		return c.CompleteTask(out.Label)
	}
	return c.completeOnOtherDay(sessionDay, out.Label)
}

func (c *Coordinator) completeOnOtherDay(key, name string) error {
	rec, err := c.journal.LoadDay(key)
	if err != nil {
		return fmt.Errorf("complete %q on %s: %w", name, key, err)
	}
	if err := rec.Complete(name); err != nil {
		return err
	}
	if err := c.journal.SaveLists(key, rec.Pending, rec.Completed); err != nil {
		c.log.Error("save task lists failed", "day", key, "err", err)
		return fmt.Errorf("save lists %s: %w", key, err)
	}
	return nil
}

// ResolveMoreTime restarts the countdown with a fresh increment.
func (c *Coordinator) ResolveMoreTime() error {
	secs := int(c.increment / time.Second)
	if err := c.sess.ResolveMoreTime(secs); err != nil {
		return err
	}
	c.extendFocus(secs)
	c.emit(SessionChanged)
	return nil
}

// ResolveSkip ends the session and leaves the task pending.
func (c *Coordinator) ResolveSkip() error {
	out, err := c.sess.ResolveSkip()
	if err != nil {
		return err
	}
	c.endFocus(out)
	c.sessionDay = ""
	c.emit(SessionChanged)
	return nil
}

// StopSession abandons the session without touching the task lists.
func (c *Coordinator) StopSession() error {
	out, err := c.sess.Stop()
	if err != nil {
		return err
	}
	c.endFocus(out)
	c.sessionDay = ""
	c.emit(SessionChanged)
	return nil
}

func (c *Coordinator) extendFocus(secs int) {
	if c.history == nil || c.focusID == "" {
		return
	}
	if err := c.history.ExtendFocus(c.focusID, int64(secs)); err != nil {
		c.log.Warn("record session extension failed", "err", err)
	}
}

func (c *Coordinator) endFocus(out session.Outcome) {
	c.log.Info("session ended", "kind", out.Kind, "label", out.Label, "result", out.Result)
	if c.history == nil || c.focusID == "" {
		return
	}
	outcome := store.OutcomeStopped
	switch out.Result {
	case "completed":
		outcome = store.OutcomeCompleted
	case "skipped":
		outcome = store.OutcomeSkipped
	}
	if err := c.history.EndFocus(c.focusID, outcome); err != nil {
		c.log.Warn("record session end failed", "err", err)
	}
	c.focusID = ""
}
