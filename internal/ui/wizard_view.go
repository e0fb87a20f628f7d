package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"bizadmin/internal/apiclient"
	"bizadmin/internal/format"
	"bizadmin/internal/model"
	"bizadmin/internal/util/logx"
	"bizadmin/internal/wizard"
)

// wizardView is the mounted create/edit screen around a Sequencer.
type wizardView struct {
	seq     *wizard.Sequencer
	id      string
	ctx     context.Context
	cancel  context.CancelFunc
	loading bool
	loadErr string

	basic  []wizard.Field
	inputs []textinput.Model
	notes  textarea.Model

	addrFields []wizard.AddressField
	addrInputs []textinput.Model
	addr       int

	focus int
}

func newWizardView(parent context.Context, id string) *wizardView {
	mode := wizard.ModeCreate
	if id != "" {
		mode = wizard.ModeEdit
	}
	ctx, cancel := context.WithCancel(parent)
	w := &wizardView{
		seq:    wizard.New(mode, model.Business{}),
		id:     id,
		ctx:    ctx,
		cancel: cancel,
		basic:  wizard.BasicFields(),
	}
	for _, f := range w.basic {
		if f.Multiline {
			w.notes = textarea.New()
			w.notes.Placeholder = f.Label
			w.notes.SetHeight(3)
			w.notes.SetWidth(60)
			w.notes.CharLimit = 2000
			w.inputs = append(w.inputs, textinput.Model{})
			continue
		}
		in := newInput(f.Label, 256)
		w.inputs = append(w.inputs, in)
	}
	for _, f := range wizard.AddressFields() {
		if f.Key == "disabled" {
			continue
		}
		w.addrFields = append(w.addrFields, f)
		w.addrInputs = append(w.addrInputs, newInput(f.Label, 128))
	}
	w.sync()
	return w
}

func (w *wizardView) close() {
	w.seq.Cancel()
	w.cancel()
}

func (w *wizardView) onBasic() bool { return w.seq.Step().Key == wizard.StepBasic }

// sync copies the record into the inputs and moves focus to the first one.
func (w *wizardView) sync() {
	rec := &w.seq.Record
	for i, f := range w.basic {
		if f.Multiline {
			w.notes.SetValue(f.Get(rec))
			continue
		}
		w.inputs[i].SetValue(f.Get(rec))
	}
	if w.addr >= len(rec.Addresses) {
		w.addr = len(rec.Addresses) - 1
	}
	if w.addr < 0 {
		w.addr = 0
	}
	for i, f := range w.addrFields {
		v := ""
		if w.addr < len(rec.Addresses) {
			v = f.Get(&rec.Addresses[w.addr])
		}
		w.addrInputs[i].SetValue(v)
	}
	w.setFocus(0)
}

func (w *wizardView) fieldCount() int {
	if w.onBasic() {
		return len(w.basic)
	}
	if len(w.seq.Record.Addresses) == 0 {
		return 0
	}
	return len(w.addrFields)
}

func (w *wizardView) setFocus(i int) {
	n := w.fieldCount()
	if n == 0 {
		w.focus = 0
	} else {
		w.focus = ((i % n) + n) % n
	}
	for j := range w.inputs {
		w.inputs[j].Blur()
	}
	w.notes.Blur()
	for j := range w.addrInputs {
		w.addrInputs[j].Blur()
	}
	if n == 0 {
		return
	}
	if w.onBasic() {
		if w.basic[w.focus].Multiline {
			w.notes.Focus()
		} else {
			w.inputs[w.focus].Focus()
		}
		return
	}
	w.addrInputs[w.focus].Focus()
}

// edit forwards a key to the focused input and writes the value back into
// the record.
func (w *wizardView) edit(msg tea.KeyMsg) tea.Cmd {
	if w.fieldCount() == 0 {
		return nil
	}
	var cmd tea.Cmd
	rec := &w.seq.Record
	if w.onBasic() {
		f := w.basic[w.focus]
		if f.Multiline {
			w.notes, cmd = w.notes.Update(msg)
			f.Set(rec, w.notes.Value())
			return cmd
		}
		w.inputs[w.focus], cmd = w.inputs[w.focus].Update(msg)
		f.Set(rec, w.inputs[w.focus].Value())
		return cmd
	}
	w.addrInputs[w.focus], cmd = w.addrInputs[w.focus].Update(msg)
	w.addrFields[w.focus].Set(&rec.Addresses[w.addr], w.addrInputs[w.focus].Value())
	return cmd
}

func (m *Model) openWizard(id string) tea.Cmd {
	m.leaveScreen()
	m.wiz = newWizardView(m.ctx, id)
	m.screen = screenWizard
	if id == "" {
		return textinput.Blink
	}
	m.wiz.loading = true
	ctx, client := m.wiz.ctx, m.client
	return func() tea.Msg {
		rec, err := client.GetBusiness(ctx, id)
		return businessMsg{id: id, rec: rec, err: err}
	}
}

func (m *Model) onBusiness(msg businessMsg) tea.Cmd {
	w := m.wiz
	if w == nil || w.id != msg.id {
		return nil
	}
	w.loading = false
	if msg.err != nil {
		if errors.Is(msg.err, apiclient.ErrUnauthorized) {
			return m.sessionExpired()
		}
		logx.Errorf("ui: load business %s: %v", msg.id, msg.err)
		w.loadErr = "Erro ao carregar empresa"
		return m.notify(noticeError, w.loadErr)
	}
	w.seq.Load(msg.rec)
	w.sync()
	return textinput.Blink
}

func (m *Model) updateWizard(msg tea.KeyMsg) tea.Cmd {
	w := m.wiz
	km := m.keymap
	if keyMatches(msg, km.Back) {
		return m.closeWizard(false)
	}
	if w.loading || w.loadErr != "" {
		return nil
	}
	switch {
	case keyMatches(msg, km.Save):
		return m.saveStep()
	case keyMatches(msg, km.StepBack):
		if w.seq.Prev() {
			w.sync()
		}
		return nil
	case msg.Type == tea.KeyHome:
		if w.seq.GoTo(0) {
			w.sync()
		}
		return nil
	case keyMatches(msg, km.NextField):
		w.setFocus(w.focus + 1)
		return nil
	case keyMatches(msg, km.PrevField):
		w.setFocus(w.focus - 1)
		return nil
	}
	if !w.onBasic() {
		switch {
		case keyMatches(msg, km.AddAddress):
			w.addr = w.seq.AddAddress()
			w.sync()
			return nil
		case keyMatches(msg, km.DelAddress):
			if w.seq.RemoveAddress(w.addr) {
				w.sync()
			}
			return nil
		case keyMatches(msg, km.ToggleAddr):
			w.seq.ToggleAddress(w.addr)
			return nil
		case keyMatches(msg, km.NextAddr):
			if w.addr < len(w.seq.Record.Addresses)-1 {
				w.addr++
				w.sync()
			}
			return nil
		case keyMatches(msg, km.PrevAddr):
			if w.addr > 0 {
				w.addr--
				w.sync()
			}
			return nil
		}
	}
	return w.edit(msg)
}

// saveStep runs "next" on the first steps and "finalize" on the last.
func (m *Model) saveStep() tea.Cmd {
	w := m.wiz
	action := wizard.ActionNext
	if w.seq.Terminal() {
		action = wizard.ActionFinalize
	}
	att, err := w.seq.Begin(action)
	switch {
	case errors.Is(err, wizard.ErrBusy), errors.Is(err, wizard.ErrDone):
		return nil
	case err != nil:
		logx.Errorf("ui: wizard: %v", err)
		return m.notify(noticeError, "Erro ao preparar dados")
	case att == nil:
		return m.afterStep()
	}
	return att.Cmd(w.ctx, m.client)
}

func (m *Model) onSaved(msg wizard.SavedMsg) tea.Cmd {
	w := m.wiz
	if w == nil || !w.seq.Complete(msg.Result) {
		return nil
	}
	if errors.Is(msg.Result.Err, apiclient.ErrUnauthorized) {
		return m.sessionExpired()
	}
	if e := w.seq.Err(); e != "" {
		return m.notify(noticeError, e)
	}
	if msg.Result.Created != nil {
		m.record("Empresa criada", w.seq.Record.Name)
	}
	return m.afterStep()
}

// afterStep refreshes the form after a transition and opens the success
// confirmation once the last step is saved.
func (m *Model) afterStep() tea.Cmd {
	w := m.wiz
	if !w.seq.Done() {
		w.sync()
		return nil
	}
	if w.seq.Mode == wizard.ModeEdit {
		m.record("Empresa atualizada", w.seq.Record.Name)
	}
	m.openModal(modalSuccess, "Sucesso")
	return w.seq.DismissCmd()
}

func (m *Model) onDismiss(msg wizard.DismissMsg) tea.Cmd {
	if m.wiz == nil || !m.wiz.seq.Dismissed(msg) {
		return nil
	}
	return m.closeWizard(true)
}

// closeWizard returns to the business list; saved forces a fresh page.
func (m *Model) closeWizard(saved bool) tea.Cmd {
	if m.modalKind == modalSuccess {
		m.closeModal()
	}
	if m.wiz != nil {
		m.wiz.close()
		m.wiz = nil
	}
	m.screen = screenBusinesses
	m.businesses.unmount()
	cmd := m.mount(m.businesses)
	if saved {
		// supersedes the mount fetch by generation
		cmd = m.fetchList(m.businesses, true)
	}
	return cmd
}

func (m *Model) successText() string {
	if m.wiz != nil && m.wiz.seq.Mode == wizard.ModeCreate {
		return "Empresa criada com sucesso."
	}
	return "Dados salvos com sucesso."
}

func (m *Model) renderWizard() string {
	w := m.wiz
	s := m.styles
	var b strings.Builder
	title := "Nova Empresa"
	if w.seq.Mode == wizard.ModeEdit {
		title = "Editar Empresa"
		if w.seq.Record.Code != "" {
			title += " " + w.seq.Record.Code
		}
	}
	b.WriteString(s.Title.Render(title) + "\n")
	b.WriteString(m.renderStepper() + "\n\n")
	if w.loading {
		b.WriteString(m.spin.View() + " Carregando...\n")
		return b.String()
	}
	if w.loadErr != "" {
		b.WriteString(s.Error.Render(w.loadErr) + "\n\n" + s.Help.Render("[esc]=voltar"))
		return b.String()
	}
	step := w.seq.Step()
	b.WriteString(s.Subtitle.Render(step.Description) + "\n\n")
	if w.onBasic() {
		b.WriteString(w.renderBasic(s))
	} else {
		b.WriteString(w.renderAddresses(s))
	}
	b.WriteString("\n")
	if w.seq.Busy() {
		b.WriteString(m.spin.View() + " Salvando...\n")
	}
	if e := w.seq.Err(); e != "" {
		b.WriteString(s.Error.Render(e) + "\n")
	}
	next := "Próximo"
	if w.seq.Terminal() {
		next = "Finalizar"
		if w.seq.Mode == wizard.ModeCreate {
			next = "Criar"
		}
	}
	hint := fmt.Sprintf("[ctrl+s]=%s  [ctrl+b]=voltar passo  [tab]=próximo campo  [esc]=sair", next)
	if !w.onBasic() {
		hint += "\n[ctrl+n]=adicionar  [ctrl+x]=remover  [ctrl+t]=ativar/desativar  [pgup/pgdn]=endereço"
	}
	b.WriteString(s.Help.Render(hint))
	return b.String()
}

func (m *Model) renderStepper() string {
	w := m.wiz
	s := m.styles
	parts := make([]string, 0, len(w.seq.Steps()))
	for i, st := range w.seq.Steps() {
		label := fmt.Sprintf("%d. %s", i+1, st.Title)
		switch {
		case i == w.seq.Current():
			parts = append(parts, s.StepCurrent.Render("● "+label))
		case i < w.seq.Current():
			parts = append(parts, s.StepDone.Render("✓ "+label))
		default:
			parts = append(parts, s.StepTodo.Render("○ "+label))
		}
	}
	return strings.Join(parts, s.StepTodo.Render("  ─  "))
}

func (w *wizardView) renderBasic(s Styles) string {
	var b strings.Builder
	for i, f := range w.basic {
		label := s.Label.Render(f.Label)
		if i == w.focus {
			label = s.Focused.Render(f.Label)
		}
		b.WriteString(label + "\n")
		if f.Multiline {
			b.WriteString(w.notes.View() + "\n")
			continue
		}
		line := w.inputs[i].View()
		if hint := fieldHint(f.Key, w.inputs[i].Value()); hint != "" {
			line += "  " + s.Status.Render(hint)
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

// fieldHint previews the formatted value of masked fields.
func fieldHint(key, v string) string {
	if strings.TrimSpace(v) == "" {
		return ""
	}
	var out string
	switch key {
	case "phone":
		out = format.Phone(v)
	case "cnpj":
		out = format.CNPJ(v)
	case "zip_code":
		if !format.ValidCEP(v) {
			return "CEP inválido"
		}
		out = format.CEP(v)
	}
	if out == v {
		return ""
	}
	return out
}

func (w *wizardView) renderAddresses(s Styles) string {
	addrs := w.seq.Record.Addresses
	if len(addrs) == 0 {
		return s.Status.Render("Nenhum endereço cadastrado. [ctrl+n] para adicionar.") + "\n"
	}
	var b strings.Builder
	a := addrs[w.addr]
	status := s.Active.Render("Ativo")
	if a.Disabled {
		status = s.Inactive.Render("Inativo")
	}
	b.WriteString(fmt.Sprintf("Endereço %d de %d  %s\n\n", w.addr+1, len(addrs), status))
	cells := make([]string, 0, len(w.addrFields))
	for i, f := range w.addrFields {
		label := s.Label.Render(f.Label)
		if i == w.focus {
			label = s.Focused.Render(f.Label)
		}
		line := label + "\n" + w.addrInputs[i].View()
		if hint := fieldHint(f.Key, w.addrInputs[i].Value()); hint != "" {
			line += " " + s.Status.Render(hint)
		}
		cells = append(cells, lipgloss.NewStyle().Width(38).Render(line))
	}
	for i := 0; i < len(cells); i += 2 {
		row := []string{cells[i]}
		if i+1 < len(cells) {
			row = append(row, cells[i+1])
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, row...) + "\n")
	}
	return b.String()
}
