// Package debounce delays a value until input goes quiet.
//
// Each Trigger bumps a sequence number and schedules a Fired message. Only
// the Fired carrying the latest sequence is accepted; earlier ones are
// superseded and dropped by the receiver.
package debounce

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Fired is delivered after Delay with the value captured at Trigger time.
type Fired struct {
	Key   string
	Seq   uint64
	Value string
}

// Debouncer tracks the newest pending trigger for one input.
// The zero value with a Key and Delay is ready to use.
type Debouncer struct {
	Key   string
	Delay time.Duration
	seq   uint64
}

// New returns a debouncer for key.
func New(key string, delay time.Duration) *Debouncer {
	return &Debouncer{Key: key, Delay: delay}
}

// Trigger supersedes any pending value and schedules v.
func (d *Debouncer) Trigger(v string) tea.Cmd {
	d.seq++
	f := Fired{Key: d.Key, Seq: d.seq, Value: v}
	if d.Delay <= 0 {
		return func() tea.Msg { return f }
	}
	return tea.Tick(d.Delay, func(time.Time) tea.Msg { return f })
}

// Accept reports whether f is this debouncer's newest trigger.
func (d *Debouncer) Accept(f Fired) bool {
	return f.Key == d.Key && f.Seq == d.seq && d.seq != 0
}

// Cancel drops whatever is pending.
func (d *Debouncer) Cancel() {
	d.seq++
}

// Pending is the current sequence number.
func (d *Debouncer) Pending() uint64 {
	return d.seq
}
