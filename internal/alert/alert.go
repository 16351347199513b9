// Package alert signals the user when a countdown runs out.
package alert

import (
	"fmt"
	"io"
)

// Alerter is invoked once per expired session. Implementations should return
// quickly; callers log failures and carry on.
type Alerter interface {
	Alert(message string) error
}

// Bell rings the terminal bell by writing BEL to W.
type Bell struct {
	W io.Writer
}

func (b Bell) Alert(string) error {
	if b.W == nil {
		return fmt.Errorf("bell: no output")
	}
	if _, err := io.WriteString(b.W, "\a"); err != nil {
		return fmt.Errorf("bell: %w", err)
	}
	return nil
}

// Nop discards alerts.
type Nop struct{}

func (Nop) Alert(string) error { return nil }

// Func adapts a function to Alerter.
type Func func(message string) error

func (f Func) Alert(message string) error { return f(message) }
