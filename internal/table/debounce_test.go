package table

import (
	"testing"
	"time"
)

func tick(t *testing.T, d *Debouncer, v string) DebounceMsg {
	t.Helper()
	cmd := d.Input(v)
	if cmd == nil {
		t.Fatalf("no timer for %q", v)
	}
	msg, ok := cmd().(DebounceMsg)
	if !ok {
		t.Fatalf("unexpected message type")
	}
	return msg
}

func TestDebounceEmitsOnlyLastValue(t *testing.T) {
	d := NewDebouncer(1, time.Millisecond)
	// inputs arrive before any timer is handled
	m1 := tick(t, d, "a")
	m2 := tick(t, d, "ab")
	m3 := tick(t, d, "abc")

	var emitted []string
	for _, m := range []DebounceMsg{m1, m2, m3} {
		if v, ok := d.Fire(m); ok {
			emitted = append(emitted, v)
		}
	}
	if len(emitted) != 1 || emitted[0] != "abc" {
		t.Fatalf("emitted: %v", emitted)
	}
	// the same timer never fires twice
	if _, ok := d.Fire(m3); ok {
		t.Fatalf("duplicate emission")
	}
}

func TestDebounceSkipsUnchangedValue(t *testing.T) {
	d := NewDebouncer(1, time.Millisecond)
	if v, ok := d.Fire(tick(t, d, "x")); !ok || v != "x" {
		t.Fatalf("first: %q %v", v, ok)
	}
	// typed then deleted back to the committed value
	tick(t, d, "xy")
	if _, ok := d.Fire(tick(t, d, "x")); ok {
		t.Fatalf("unchanged term emitted")
	}
}

func TestDebounceStopSuppressesPending(t *testing.T) {
	d := NewDebouncer(1, time.Millisecond)
	m := tick(t, d, "abc")
	d.Stop()
	if _, ok := d.Fire(m); ok {
		t.Fatalf("emitted after stop")
	}
	if d.Input("more") != nil {
		t.Fatalf("input accepted after stop")
	}
}

func TestDebounceIgnoresOtherInstances(t *testing.T) {
	a := NewDebouncer(1, time.Millisecond)
	b := NewDebouncer(2, time.Millisecond)
	m := tick(t, a, "q")
	tick(t, b, "q")
	if _, ok := b.Fire(m); ok {
		t.Fatalf("b fired on a's timer")
	}
	if NewDebouncer(3, 0).Delay != SearchDelay {
		t.Fatalf("default delay")
	}
}

func TestDebounceSeededCommitEmitsClear(t *testing.T) {
	d := NewDebouncer(4, time.Millisecond)
	d.SetCommitted("abc")
	if _, ok := d.Fire(tick(t, d, "abc")); ok {
		t.Fatalf("seeded value re-emitted")
	}
	if v, ok := d.Fire(tick(t, d, "")); !ok || v != "" {
		t.Fatalf("clear: %q %v", v, ok)
	}
}
