package ui

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"bizadmin/internal/apiclient"
	"bizadmin/internal/export"
	"bizadmin/internal/filter"
	"bizadmin/internal/model"
	"bizadmin/internal/table"
	"bizadmin/internal/util/logx"
	"bizadmin/internal/wizard"
)

type helpItem struct {
	Category string
	Key      string
	Desc     string
}

func (m *Model) buildHelpItems() []helpItem {
	return []helpItem{
		{"Geral", "1 / 2 / 3", "Dashboard, Empresas, Usuários"},
		{"Geral", "tab / shift+tab", "Próxima / anterior aba"},
		{"Geral", "?", "Ajuda"},
		{"Geral", "L", "Logs da aplicação"},
		{"Geral", "O", "Sair da conta"},
		{"Geral", "q / ctrl+c", "Fechar"},
		{"Tabela", "↑/↓", "Selecionar linha"},
		{"Tabela", "←/→", "Selecionar coluna"},
		{"Tabela", "s", "Ordenar pela coluna selecionada"},
		{"Tabela", "m", "Mover coluna (marcar / soltar)"},
		{"Tabela", "/", "Buscar"},
		{"Tabela", "t", "Filtro de status"},
		{"Tabela", "[ / ]", "Página anterior / próxima"},
		{"Tabela", "z", "Itens por página"},
		{"Tabela", "r", "Recarregar"},
		{"Tabela", "f / F", "Filtro local / limpar"},
		{"Tabela", "e", "Exportar página (csv/ndjson)"},
		{"Empresas", "n", "Nova empresa"},
		{"Empresas", "enter", "Editar"},
		{"Empresas", "x", "Alterar status"},
		{"Empresas", "d", "Excluir"},
		{"Empresas", "c", "Copiar código"},
		{"Cadastro", "ctrl+s", "Salvar passo"},
		{"Cadastro", "ctrl+b", "Voltar passo"},
		{"Cadastro", "ctrl+n / ctrl+x", "Adicionar / remover endereço"},
		{"Cadastro", "ctrl+t", "Ativar / desativar endereço"},
		{"Cadastro", "esc", "Sair"},
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resizeModal()
		if lv := m.listFor(m.screen); lv != nil {
			m.refreshTable(lv)
		}
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	case noticeExpiredMsg:
		if m.notice != nil && m.notice.id == msg.id {
			m.notice = nil
		}
		return m, nil
	case signedInMsg:
		return m, m.onSignedIn(msg)
	case recoveredMsg:
		return m, m.onRecovered(msg)
	case profileMsg:
		return m, m.onProfile(msg)
	case dashboardMsg:
		return m, m.onDashboard(msg)
	case listMsg:
		return m, m.onList(msg)
	case table.DebounceMsg:
		return m, m.onDebounce(msg)
	case businessMsg:
		return m, m.onBusiness(msg)
	case statusDoneMsg:
		return m, m.onStatusDone(msg)
	case deleteDoneMsg:
		return m, m.onDeleteDone(msg)
	case wizard.SavedMsg:
		return m, m.onSaved(msg)
	case wizard.DismissMsg:
		return m, m.onDismiss(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.Type == tea.KeyCtrlC {
		m.teardown()
		return tea.Quit
	}
	if m.modalActive {
		return m.updateModal(msg)
	}
	switch m.screen {
	case screenSignIn:
		return m.updateSignIn(msg)
	case screenRecovery:
		return m.updateRecovery(msg)
	case screenWizard:
		return m.updateWizard(msg)
	}

	lv := m.listFor(m.screen)
	typing := lv != nil && lv.searching
	if !typing {
		km := m.keymap
		switch {
		case keyMatches(msg, km.Quit):
			m.teardown()
			return tea.Quit
		case keyMatches(msg, km.Help):
			m.openModal(modalHelp, "Ajuda")
			return nil
		case keyMatches(msg, km.AppLogs):
			m.openModal(modalLogs, "Logs da aplicação")
			return nil
		case keyMatches(msg, km.SignOut):
			return m.signOut()
		case keyMatches(msg, km.NextTab):
			return m.switchScreen(m.tabOffset(1))
		case keyMatches(msg, km.PrevTab):
			return m.switchScreen(m.tabOffset(-1))
		case keyMatches(msg, km.Dashboard):
			return m.switchScreen(screenDashboard)
		case keyMatches(msg, km.Businesses):
			return m.switchScreen(screenBusinesses)
		case keyMatches(msg, km.Users):
			return m.switchScreen(screenUsers)
		}
	}
	if lv != nil {
		return m.updateList(lv, msg)
	}
	if m.screen == screenDashboard && keyMatches(msg, m.keymap.Reload) {
		return m.loadDashboard()
	}
	return nil
}

func (m *Model) tabOffset(d int) screen {
	for i, s := range navScreens {
		if s == m.screen {
			return navScreens[(i+d+len(navScreens))%len(navScreens)]
		}
	}
	return screenDashboard
}

// leaveScreen tears down whatever the current screen owns.
func (m *Model) leaveScreen() {
	if lv := m.listFor(m.screen); lv != nil {
		lv.unmount()
	}
	if m.screen == screenWizard && m.wiz != nil {
		m.wiz.close()
		m.wiz = nil
	}
}

func (m *Model) switchScreen(to screen) tea.Cmd {
	if to == m.screen {
		return nil
	}
	m.leaveScreen()
	m.screen = to
	if lv := m.listFor(to); lv != nil {
		return m.mount(lv)
	}
	if to == screenDashboard {
		return m.loadDashboard()
	}
	return nil
}

// notify shows a transient status message; the returned command clears it.
func (m *Model) notify(level noticeLevel, text string) tea.Cmd {
	m.noticeID++
	id := m.noticeID
	m.notice = &notice{id: id, level: level, text: text}
	return tea.Tick(noticeTTL, func(time.Time) tea.Msg { return noticeExpiredMsg{id: id} })
}

// loadDashboard fetches the card counters: one single-row page per status.
func (m *Model) loadDashboard() tea.Cmd {
	m.dash.gen++
	m.dash.loading = true
	gen := m.dash.gen
	ctx, client := m.ctx, m.client
	return func() tea.Msg {
		count := func(f model.StatusFilter) (int, error) {
			resp, err := client.ListBusinesses(ctx, model.ListQuery{Page: 1, Size: 1, Status: f})
			return resp.Total, err
		}
		out := dashboardMsg{gen: gen}
		if out.total, out.err = count(model.StatusAll); out.err != nil {
			return out
		}
		if out.active, out.err = count(model.StatusActive); out.err != nil {
			return out
		}
		out.inactive, out.err = count(model.StatusInactive)
		return out
	}
}

func (m *Model) onDashboard(msg dashboardMsg) tea.Cmd {
	if msg.gen != m.dash.gen {
		return nil
	}
	m.dash.loading = false
	if msg.err != nil {
		if errors.Is(msg.err, apiclient.ErrUnauthorized) {
			return m.sessionExpired()
		}
		logx.Warnf("ui: dashboard: %v", msg.err)
		return m.notify(noticeError, "Erro ao carregar indicadores")
	}
	m.dash.loaded = true
	m.dash.total, m.dash.active, m.dash.inactive = msg.total, msg.active, msg.inactive
	return nil
}

// Modals

func (m *Model) openModal(kind modalKind, title string) {
	m.modalActive = true
	m.modalKind = kind
	m.modalTitle = title
	m.resizeModal()
}

func (m *Model) closeModal() {
	m.modalActive = false
	m.modalKind = modalNone
	m.modalTitle = ""
	m.promptErr = ""
	m.prompt.Blur()
}

func (m *Model) openFilterModal(lv *listView) {
	m.prompt = textinput.New()
	m.prompt.Prompt = "filtro> "
	m.prompt.Placeholder = "texto, /regex/ ou = expressão (ex: = disabled == false)"
	m.prompt.CharLimit = 256
	if lv.filter != nil {
		m.prompt.SetValue(lv.filter.Criteria().String())
	}
	m.prompt.Focus()
	m.openModal(modalFilter, "Filtro local")
}

func (m *Model) openExportModal(lv *listView) {
	m.prompt = textinput.New()
	m.prompt.Prompt = "arquivo> "
	m.prompt.CharLimit = 512
	name := fmt.Sprintf("%s-%s.csv", strings.TrimSuffix(lv.key, "_table_prefs"), m.now().Format("20060102-150405"))
	m.prompt.SetValue(filepath.Join(m.cfg.ConfigDir, name))
	m.prompt.CursorEnd()
	m.prompt.Focus()
	m.openModal(modalExport, "Exportar página")
}

func (m *Model) updateModal(msg tea.KeyMsg) tea.Cmd {
	switch m.modalKind {
	case modalStatus:
		switch msg.String() {
		case "esc", "n":
			if !m.pending.busy {
				m.closeModal()
			}
		case "left", "right", "up", "down", "h", "l":
			m.pending.choice = !m.pending.choice
		case "a":
			m.pending.choice = false
		case "i":
			m.pending.choice = true
		case "enter", "y":
			return m.confirmStatus()
		}
		return nil
	case modalDelete:
		switch msg.String() {
		case "esc", "n":
			if !m.pending.busy {
				m.closeModal()
			}
		case "enter", "y":
			return m.confirmDelete()
		}
		return nil
	case modalSuccess:
		switch msg.String() {
		case "esc", "enter", " ":
			return m.closeWizard(true)
		}
		return nil
	case modalFilter:
		return m.updateFilterModal(msg)
	case modalExport:
		return m.updateExportModal(msg)
	}
	// viewport modals
	switch msg.String() {
	case "esc", "enter", "q":
		m.closeModal()
		return nil
	case "c":
		if m.modalKind == modalLogs {
			if err := copyToClipboard(logx.Dump()); err != nil {
				return m.notify(noticeError, "Não foi possível copiar")
			}
			return m.notify(noticeSuccess, "Logs copiados")
		}
	}
	var cmd tea.Cmd
	m.modalVP, cmd = m.modalVP.Update(msg)
	return cmd
}

func (m *Model) updateFilterModal(msg tea.KeyMsg) tea.Cmd {
	lv := m.listFor(m.screen)
	switch msg.Type {
	case tea.KeyEsc:
		m.closeModal()
		return nil
	case tea.KeyEnter:
		if lv == nil {
			m.closeModal()
			return nil
		}
		field := ""
		if c, ok := lv.selectedColumn(); ok && !c.IsActions() && strings.HasPrefix(m.prompt.Value(), "/") {
			field = c.Key
		}
		crit := filter.Parse(m.prompt.Value(), field)
		if crit.Empty() {
			lv.filter = nil
			m.closeModal()
			m.refreshTable(lv)
			return nil
		}
		ev, err := filter.NewEvaluator(crit)
		if err != nil {
			m.promptErr = "Filtro inválido: " + err.Error()
			return nil
		}
		lv.filter = ev
		m.closeModal()
		m.refreshTable(lv)
		return m.notify(noticeInfo, fmt.Sprintf("%d de %d linhas", len(lv.rows), len(lv.state.Rows)))
	}
	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	m.promptErr = ""
	return cmd
}

func (m *Model) updateExportModal(msg tea.KeyMsg) tea.Cmd {
	lv := m.listFor(m.screen)
	switch msg.Type {
	case tea.KeyEsc:
		m.closeModal()
		return nil
	case tea.KeyEnter:
		if lv == nil {
			m.closeModal()
			return nil
		}
		path := strings.TrimSpace(m.prompt.Value())
		if path == "" {
			m.promptErr = "Informe o arquivo"
			return nil
		}
		if err := export.ToFile(path, lv.state.Columns(), lv.rows); err != nil {
			if errors.Is(err, export.ErrNoRows) {
				m.promptErr = "Nada para exportar"
				return nil
			}
			logx.Errorf("ui: export %s: %v", path, err)
			m.promptErr = "Erro ao exportar: " + err.Error()
			return nil
		}
		m.closeModal()
		logx.Infof("ui: exported %d rows to %s", len(lv.rows), path)
		return m.notify(noticeSuccess, fmt.Sprintf("%d linhas exportadas para %s", len(lv.rows), path))
	}
	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	m.promptErr = ""
	return cmd
}
