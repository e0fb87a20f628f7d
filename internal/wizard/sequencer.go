package wizard

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"bizadmin/internal/model"
	"bizadmin/internal/util/logx"
)

var (
	ErrBusy = errors.New("wizard: a save is already in flight")
	ErrDone = errors.New("wizard: already finished")
)

// DismissDelay is how long the completion confirmation stays up.
const DismissDelay = 1500 * time.Millisecond

type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
)

type Action int

const (
	ActionNext Action = iota
	ActionFinalize
)

// Writer performs the network writes behind the steps.
type Writer interface {
	CreateBusiness(ctx context.Context, p Payload) (model.Business, error)
	UpdateBusiness(ctx context.Context, p Payload) error
	UpsertAddresses(ctx context.Context, p Payload) error
}

// Sequencer holds the record being edited, the current step and the last
// saved snapshot per step. It is owned by the UI goroutine; only
// Attempt.Run may execute elsewhere.
type Sequencer struct {
	Mode   Mode
	Record model.Business

	steps     []Step
	current   int
	baselines map[string]string
	busy      bool
	gen       uint64
	err       string
	lastErr   error
	done      bool
	dismissID uint64
}

func New(mode Mode, rec model.Business) *Sequencer {
	return &Sequencer{
		Mode:      mode,
		Record:    model.NormalizeBusiness(rec),
		steps:     DefaultSteps(),
		baselines: map[string]string{},
	}
}

// Load replaces the record with a fetched one and treats every step as saved.
func (s *Sequencer) Load(rec model.Business) {
	s.Record = model.NormalizeBusiness(rec)
	s.baselines = map[string]string{}
	for _, st := range s.steps {
		if snap, err := Snapshot(st.Payload(s.Record)); err == nil {
			s.baselines[st.Key] = snap
		}
	}
}

func (s *Sequencer) Steps() []Step  { return s.steps }
func (s *Sequencer) Current() int   { return s.current }
func (s *Sequencer) Step() Step     { return s.steps[s.current] }
func (s *Sequencer) Terminal() bool { return s.current == len(s.steps)-1 }
func (s *Sequencer) Busy() bool     { return s.busy }
func (s *Sequencer) Done() bool     { return s.done }

// Err is the step-scoped error shown under the form, empty when none.
func (s *Sequencer) Err() string { return s.err }

// Cause is the underlying error of the last failed save.
func (s *Sequencer) Cause() error { return s.lastErr }

// Dirty reports whether the current step differs from its last saved state.
func (s *Sequencer) Dirty() bool {
	snap, err := Snapshot(s.Step().Payload(s.Record))
	if err != nil {
		return true
	}
	base, ok := s.baselines[s.Step().Key]
	return !ok || base != snap
}

// Attempt is one in-flight save of one step.
type Attempt struct {
	Gen      uint64
	Step     int
	Key      string
	Title    string
	Action   Action
	Snapshot string
	Payload  Payload
	Create   bool
	Code     string
}

// Result is what Run reports back to Complete.
type Result struct {
	Gen      uint64
	Step     int
	Action   Action
	Snapshot string
	Created  *model.Business
	Skipped  bool
	Err      error
}

// SavedMsg carries a Result through the Bubble Tea loop.
type SavedMsg struct{ Result Result }

// Begin starts saving the current step. A nil Attempt with a nil error means
// the step was already saved and the transition has been applied.
func (s *Sequencer) Begin(action Action) (*Attempt, error) {
	if s.busy {
		return nil, ErrBusy
	}
	if s.done {
		return nil, ErrDone
	}
	st := s.Step()
	payload := st.Payload(s.Record)
	snap, err := Snapshot(payload)
	if err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", st.Key, err)
	}
	s.err = ""
	s.lastErr = nil
	if base, ok := s.baselines[st.Key]; ok && base == snap {
		logx.Debugf("wizard: step %s unchanged, skipping write", st.Key)
		s.advance(s.current, action)
		return nil, nil
	}
	s.busy = true
	s.gen++
	return &Attempt{
		Gen:      s.gen,
		Step:     s.current,
		Key:      st.Key,
		Title:    st.Title,
		Action:   action,
		Snapshot: snap,
		Payload:  payload,
		Create:   s.Mode == ModeCreate && s.Record.ID == "",
		Code:     s.Record.Code,
	}, nil
}

// Run performs the write. It touches nothing but the attempt and the writer.
func (a *Attempt) Run(ctx context.Context, w Writer) Result {
	res := Result{Gen: a.Gen, Step: a.Step, Action: a.Action, Snapshot: a.Snapshot}
	switch a.Key {
	case StepBasic:
		if a.Create {
			created, err := w.CreateBusiness(ctx, a.Payload)
			if err != nil {
				res.Err = err
				return res
			}
			res.Created = &created
			return res
		}
		res.Err = w.UpdateBusiness(ctx, a.Payload)
	case StepAddresses:
		if a.Code == "" {
			// nothing to attach the addresses to yet
			res.Skipped = true
			return res
		}
		res.Err = w.UpsertAddresses(ctx, a.Payload)
	default:
		res.Err = fmt.Errorf("unknown step %q", a.Key)
	}
	return res
}

// Cmd wraps Run as a tea.Cmd.
func (a *Attempt) Cmd(ctx context.Context, w Writer) tea.Cmd {
	return func() tea.Msg { return SavedMsg{Result: a.Run(ctx, w)} }
}

// Complete applies a finished attempt. Results from superseded generations
// are dropped and false is returned.
func (s *Sequencer) Complete(res Result) bool {
	if !s.busy || res.Gen != s.gen {
		logx.Debugf("wizard: dropping stale save result gen=%d current=%d", res.Gen, s.gen)
		return false
	}
	s.busy = false
	st := s.steps[res.Step]
	if res.Err != nil {
		s.err = fmt.Sprintf("Falha ao salvar passo \"%s\"", st.Title)
		s.lastErr = res.Err
		logx.Warnf("wizard: save %s failed: %v", st.Key, res.Err)
		return true
	}
	if res.Created != nil {
		s.Record = merge(s.Record, *res.Created)
		// the server's echo is the saved state
		if snap, err := Snapshot(st.Payload(s.Record)); err == nil {
			res.Snapshot = snap
		}
	}
	if !res.Skipped {
		s.baselines[st.Key] = res.Snapshot
	}
	s.advance(res.Step, res.Action)
	return true
}

func (s *Sequencer) advance(from int, action Action) {
	switch action {
	case ActionNext:
		if from < len(s.steps)-1 {
			s.current = from + 1
		}
	case ActionFinalize:
		s.done = true
	}
}

// Prev steps back without saving.
func (s *Sequencer) Prev() bool {
	if s.busy || s.current == 0 {
		return false
	}
	s.current--
	s.err = ""
	return true
}

// GoTo jumps back to an earlier step.
func (s *Sequencer) GoTo(i int) bool {
	if s.busy || i < 0 || i >= s.current {
		return false
	}
	s.current = i
	s.err = ""
	return true
}

// Cancel abandons any in-flight save; its result will be ignored.
func (s *Sequencer) Cancel() {
	s.gen++
	s.busy = false
	s.dismissID++
}

// DismissMsg fires when the completion confirmation should close.
type DismissMsg struct{ ID uint64 }

// DismissCmd schedules the auto-dismiss of the completion confirmation.
func (s *Sequencer) DismissCmd() tea.Cmd {
	s.dismissID++
	id := s.dismissID
	return tea.Tick(DismissDelay, func(time.Time) tea.Msg { return DismissMsg{ID: id} })
}

// Dismissed reports whether msg is the live dismiss timer.
func (s *Sequencer) Dismissed(msg DismissMsg) bool {
	return s.done && msg.ID == s.dismissID
}

// merge overlays the non-empty fields of created onto rec.
func merge(rec, created model.Business) model.Business {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&rec.ID, created.ID)
	set(&rec.Code, created.Code)
	set(&rec.CreatedAt, created.CreatedAt)
	set(&rec.UpdatedAt, created.UpdatedAt)
	set(&rec.Name, created.Name)
	set(&rec.Responsible, created.Responsible)
	set(&rec.Email, created.Email)
	set(&rec.Phone, created.Phone)
	set(&rec.CNPJ, created.CNPJ)
	set(&rec.Notes, created.Notes)
	if created.DeletedAt != nil {
		rec.DeletedAt = created.DeletedAt
	}
	rec.Disabled = created.Disabled
	if created.Addresses != nil {
		rec.Addresses = created.Addresses
	}
	return model.NormalizeBusiness(rec)
}
