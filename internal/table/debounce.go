package table

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// SearchDelay is the quiet period before a search term is committed.
const SearchDelay = 1000 * time.Millisecond

// DebounceMsg is delivered when a debounce timer elapses.
type DebounceMsg struct {
	ID  int
	Seq int
}

// Debouncer commits the last value typed once input has been quiet for Delay.
// Every input bumps a sequence number; only the tick carrying the current
// number commits.
type Debouncer struct {
	Delay     time.Duration
	id        int
	seq       int
	pending   string
	committed string
	stopped   bool
}

func NewDebouncer(id int, delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = SearchDelay
	}
	return &Debouncer{Delay: delay, id: id}
}

// Input records a new raw value and returns the timer command for it.
func (d *Debouncer) Input(v string) tea.Cmd {
	if d.stopped {
		return nil
	}
	d.seq++
	d.pending = v
	id, seq := d.id, d.seq
	return tea.Tick(d.Delay, func(time.Time) tea.Msg { return DebounceMsg{ID: id, Seq: seq} })
}

// Fire handles an elapsed timer. It returns the committed term when msg is
// the latest timer for this debouncer and the value changed.
func (d *Debouncer) Fire(msg DebounceMsg) (string, bool) {
	if d.stopped || msg.ID != d.id || msg.Seq != d.seq {
		return "", false
	}
	if d.pending == d.committed {
		return "", false
	}
	d.committed = d.pending
	return d.committed, true
}

// SetCommitted records v as the term already in effect, so a later input
// back to v is not emitted and any other value is.
func (d *Debouncer) SetCommitted(v string) {
	d.committed = v
	d.pending = v
}

// Stop cancels any pending emission; later inputs are ignored.
func (d *Debouncer) Stop() {
	d.stopped = true
	d.seq++
}

func (d *Debouncer) Pending() string   { return d.pending }
func (d *Debouncer) Committed() string { return d.committed }
