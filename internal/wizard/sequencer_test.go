package wizard

import (
	"context"
	"errors"
	"strings"
	"testing"

	"bizadmin/internal/model"
)

type fakeWriter struct {
	creates, updates, addrs int
	fail                    error
	last                    Payload
}

func (f *fakeWriter) CreateBusiness(_ context.Context, p Payload) (model.Business, error) {
	f.creates++
	f.last = p
	if f.fail != nil {
		return model.Business{}, f.fail
	}
	return model.Business{ID: "b-1", Code: "EMP001", CreatedAt: "2025-01-01T00:00:00Z"}, nil
}

func (f *fakeWriter) UpdateBusiness(_ context.Context, p Payload) error {
	f.updates++
	f.last = p
	return f.fail
}

func (f *fakeWriter) UpsertAddresses(_ context.Context, p Payload) error {
	f.addrs++
	f.last = p
	return f.fail
}

func (f *fakeWriter) writes() int { return f.creates + f.updates + f.addrs }

func save(t *testing.T, s *Sequencer, w Writer, a Action) bool {
	t.Helper()
	att, err := s.Begin(a)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	if att == nil {
		return true
	}
	return s.Complete(att.Run(context.Background(), w))
}

func edited() *Sequencer {
	s := New(ModeEdit, model.Business{})
	s.Load(model.Business{ID: "b-1", Code: "EMP001", Name: "Acme"})
	return s
}

func TestUnchangedStepWritesOnce(t *testing.T) {
	w := &fakeWriter{}
	s := edited()
	s.Record.Name = "Acme Ltda"
	save(t, s, w, ActionFinalize)
	s.done = false
	save(t, s, w, ActionFinalize)
	if w.writes() != 1 {
		t.Fatalf("writes=%d want 1", w.writes())
	}
	s.done = false
	s.Record.Phone = "11999998888"
	save(t, s, w, ActionFinalize)
	if w.updates != 2 {
		t.Fatalf("changed field must write again, updates=%d", w.updates)
	}
}

func TestLoadedRecordNeedsNoWrite(t *testing.T) {
	w := &fakeWriter{}
	s := edited()
	if s.Dirty() {
		t.Fatalf("fresh load is dirty")
	}
	save(t, s, w, ActionNext)
	if w.writes() != 0 || s.Current() != 1 {
		t.Fatalf("writes=%d current=%d", w.writes(), s.Current())
	}
}

func TestCreateThenUpdate(t *testing.T) {
	w := &fakeWriter{}
	s := New(ModeCreate, model.Business{Name: "Nova"})
	save(t, s, w, ActionNext)
	if w.creates != 1 || s.Record.ID != "b-1" || s.Record.Code != "EMP001" || s.Record.Name != "Nova" {
		t.Fatalf("create merge: %+v creates=%d", s.Record, w.creates)
	}
	if s.Current() != 1 {
		t.Fatalf("did not advance")
	}
	s.Prev()
	// the echoed record is the baseline
	save(t, s, w, ActionNext)
	if w.writes() != 1 {
		t.Fatalf("unchanged record rewritten: %d", w.writes())
	}
	s.Prev()
	s.Record.Notes = "x"
	save(t, s, w, ActionNext)
	if w.updates != 1 || w.creates != 1 {
		t.Fatalf("second save must update: %+v", w)
	}
}

func TestAddressesWithoutCodeSkipWithoutBaseline(t *testing.T) {
	w := &fakeWriter{}
	s := New(ModeEdit, model.Business{ID: "b-1"})
	s.current = 1
	s.AddAddress()
	if !save(t, s, w, ActionFinalize) || !s.Done() {
		t.Fatalf("skip should succeed")
	}
	if w.addrs != 0 {
		t.Fatalf("addresses written without a code")
	}
	if _, ok := s.baselines[StepAddresses]; ok {
		t.Fatalf("skipped save recorded a baseline")
	}
}

func TestAddressPayloadOmitsEmptyID(t *testing.T) {
	s := edited()
	s.AddAddress()
	s.Record.Addresses = append(s.Record.Addresses, model.Address{ID: "a-9", City: "Recife"})
	snap, err := Snapshot(addressesPayload(s.Record))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Count(snap, `"id"`) != 1 || !strings.Contains(snap, `"business_code":"EMP001"`) {
		t.Fatalf("payload: %s", snap)
	}
}

func TestFailureIsStepScoped(t *testing.T) {
	w := &fakeWriter{fail: errors.New("boom")}
	s := edited()
	s.Record.Name = "changed"
	save(t, s, w, ActionNext)
	if s.Current() != 0 {
		t.Fatalf("advanced after failure")
	}
	if s.Err() != `Falha ao salvar passo "Dados Básicos"` || s.Cause() == nil {
		t.Fatalf("err=%q", s.Err())
	}
	w.fail = nil
	save(t, s, w, ActionNext)
	if s.Err() != "" || s.Current() != 1 {
		t.Fatalf("retry: err=%q current=%d", s.Err(), s.Current())
	}
}

func TestBusyRejectsReentry(t *testing.T) {
	s := edited()
	s.Record.Name = "changed"
	att, err := s.Begin(ActionNext)
	if err != nil || att == nil {
		t.Fatalf("begin: %v", err)
	}
	if _, err := s.Begin(ActionNext); !errors.Is(err, ErrBusy) {
		t.Fatalf("second begin: %v", err)
	}
	if s.Prev() || s.GoTo(0) {
		t.Fatalf("navigation while busy")
	}
	if !s.Complete(att.Run(context.Background(), &fakeWriter{})) || s.Busy() {
		t.Fatalf("complete")
	}
}

func TestSupersededResultDropped(t *testing.T) {
	w := &fakeWriter{}
	s := edited()
	s.Record.Name = "one"
	old, _ := s.Begin(ActionNext)
	s.Cancel()
	s.Record.Name = "two"
	cur, _ := s.Begin(ActionNext)
	if s.Complete(old.Run(context.Background(), w)) {
		t.Fatalf("stale result applied")
	}
	if !s.Busy() || s.Current() != 0 {
		t.Fatalf("stale result changed state")
	}
	if !s.Complete(cur.Run(context.Background(), w)) || s.Current() != 1 {
		t.Fatalf("current result not applied")
	}
}

func TestDismissToken(t *testing.T) {
	s := edited()
	save(t, s, &fakeWriter{}, ActionFinalize)
	if !s.Done() {
		t.Fatalf("finalize")
	}
	if _, err := s.Begin(ActionFinalize); !errors.Is(err, ErrDone) {
		t.Fatalf("begin after done: %v", err)
	}
	s.DismissCmd()
	live := DismissMsg{ID: s.dismissID}
	if !s.Dismissed(live) {
		t.Fatalf("live timer ignored")
	}
	s.Cancel()
	if s.Dismissed(live) {
		t.Fatalf("timer survived teardown")
	}
}

func TestFieldsEditRecord(t *testing.T) {
	s := edited()
	for _, f := range BasicFields() {
		if f.Key == "email" {
			f.Set(&s.Record, "a@b.c")
		}
	}
	if s.Record.Email != "a@b.c" {
		t.Fatalf("email not set")
	}
	i := s.AddAddress()
	for _, f := range AddressFields() {
		if f.Key == "disabled" {
			f.Set(&s.Record.Addresses[i], "Inativo")
			if f.Get(&s.Record.Addresses[i]) != "Inativo" {
				t.Fatalf("status roundtrip")
			}
		}
	}
	if !s.RemoveAddress(i) || len(s.Record.Addresses) != 0 || s.RemoveAddress(0) {
		t.Fatalf("remove")
	}
}
