package ui

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"bizadmin/internal/apiclient"
	"bizadmin/internal/model"
	"bizadmin/internal/util/logx"
)

// businessAction handles the row actions of the businesses table. It reports
// false for keys it does not own.
func (m *Model) businessAction(lv *listView, msg tea.KeyMsg) (tea.Cmd, bool) {
	km := m.keymap
	switch {
	case keyMatches(msg, km.New):
		return m.openWizard(""), true
	case keyMatches(msg, km.Edit):
		_, id, ok := lv.selected()
		if !ok {
			return m.noID(lv), true
		}
		return m.openWizard(id), true
	case keyMatches(msg, km.Toggle):
		r, id, ok := lv.selected()
		if !ok {
			return m.noID(lv), true
		}
		m.pending = pendingAction{id: id, name: rowName(r), disabled: r.Bool("disabled")}
		m.pending.choice = !m.pending.disabled
		m.openModal(modalStatus, "Alterar Status")
		return nil, true
	case keyMatches(msg, km.Delete):
		r, id, ok := lv.selected()
		if !ok {
			return m.noID(lv), true
		}
		m.pending = pendingAction{id: id, name: rowName(r)}
		m.openModal(modalDelete, "Confirmar Exclusão")
		return nil, true
	case keyMatches(msg, km.CopyCode):
		r, _, ok := lv.selected()
		if !ok {
			return m.noID(lv), true
		}
		code, _ := r["code"].(string)
		if code == "" {
			return m.notify(noticeError, "Empresa sem código"), true
		}
		if err := copyToClipboard(code); err != nil {
			logx.Warnf("ui: clipboard: %v", err)
			return m.notify(noticeError, "Não foi possível copiar o código"), true
		}
		return m.notify(noticeSuccess, fmt.Sprintf("Código %s copiado", code)), true
	}
	return nil, false
}

func (m *Model) noID(lv *listView) tea.Cmd {
	if len(lv.rows) == 0 {
		return nil
	}
	return m.notify(noticeError, "Registro sem identificador")
}

func rowName(r model.Row) string {
	if n, ok := r["name"].(string); ok && n != "" {
		return n
	}
	if c, ok := r["code"].(string); ok {
		return c
	}
	return ""
}

// confirmStatus sends the status picked in the status modal.
func (m *Model) confirmStatus() tea.Cmd {
	p := &m.pending
	if p.busy {
		return nil
	}
	if p.choice == p.disabled {
		m.closeModal()
		return nil
	}
	p.busy = true
	ctx, client := m.ctx, m.client
	id, name, disabled := p.id, p.name, p.choice
	return func() tea.Msg {
		err := client.SetBusinessStatus(ctx, id, disabled)
		return statusDoneMsg{id: id, name: name, disabled: disabled, err: err}
	}
}

func (m *Model) onStatusDone(msg statusDoneMsg) tea.Cmd {
	m.pending.busy = false
	if msg.err != nil {
		if errors.Is(msg.err, apiclient.ErrUnauthorized) {
			return m.sessionExpired()
		}
		logx.Errorf("ui: status %s: %v", msg.id, msg.err)
		return m.notify(noticeError, "Erro ao alterar status")
	}
	m.closeModal()
	label := statusLabel(msg.disabled)
	m.record("Status alterado para "+label, msg.name)
	return tea.Batch(
		m.notify(noticeSuccess, fmt.Sprintf("Status alterado para %s", label)),
		m.fetchList(m.businesses, true),
	)
}

func (m *Model) confirmDelete() tea.Cmd {
	p := &m.pending
	if p.busy {
		return nil
	}
	p.busy = true
	ctx, client := m.ctx, m.client
	id, name := p.id, p.name
	return func() tea.Msg {
		return deleteDoneMsg{id: id, name: name, err: client.DeleteBusiness(ctx, id)}
	}
}

func (m *Model) onDeleteDone(msg deleteDoneMsg) tea.Cmd {
	m.pending.busy = false
	if msg.err != nil {
		if errors.Is(msg.err, apiclient.ErrUnauthorized) {
			return m.sessionExpired()
		}
		logx.Errorf("ui: delete %s: %v", msg.id, msg.err)
		return m.notify(noticeError, "Erro ao excluir empresa")
	}
	m.closeModal()
	m.record("Empresa excluída", msg.name)
	return tea.Batch(
		m.notify(noticeSuccess, "Empresa excluída com sucesso"),
		m.fetchList(m.businesses, true),
	)
}

func statusLabel(disabled bool) string {
	if disabled {
		return "Inativa"
	}
	return "Ativa"
}

// record appends to the dashboard's recent activity, newest first.
func (m *Model) record(action, target string) {
	m.recent = append([]activity{{action: action, target: target, at: m.now()}}, m.recent...)
	if len(m.recent) > 8 {
		m.recent = m.recent[:8]
	}
}
