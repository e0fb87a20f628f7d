package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	"bizadmin/internal/format"
	"bizadmin/internal/util/logx"
)

func (m *Model) View() string {
	var v string
	switch m.screen {
	case screenSignIn, screenRecovery:
		v = m.renderAuth() + "\n" + m.renderNotice()
	default:
		v = m.renderShell()
	}
	if m.modalActive {
		// Dim the background content while keeping it visible
		dimmed := lipgloss.NewStyle().Faint(true).Render(v)
		v = overlay(dimmed, m.renderModal())
	}
	return v
}

// renderShell is the signed-in layout: tabs, body, status line.
func (m *Model) renderShell() string {
	var body string
	switch m.screen {
	case screenDashboard:
		body = m.renderDashboard()
	case screenWizard:
		body = m.renderWizard()
	default:
		if lv := m.listFor(m.screen); lv != nil {
			body = m.renderList(lv)
		}
	}
	return m.renderTabs() + "\n\n" + body + "\n\n" + m.renderStatusLine()
}

func (m *Model) renderTabs() string {
	s := m.styles
	parts := make([]string, 0, len(navScreens)+1)
	for i, sc := range navScreens {
		label := fmt.Sprintf("%d %s", i+1, sc.title())
		active := sc == m.screen || (m.screen == screenWizard && sc == screenBusinesses)
		if active {
			parts = append(parts, s.TabActive.Render(label))
		} else {
			parts = append(parts, s.TabInactive.Render(label))
		}
	}
	left := s.Title.Render("bizadmin") + "  " + strings.Join(parts, "   ")
	right := ""
	if m.profile != nil {
		name := m.profile.Name
		if name == "" {
			name = m.profile.Email
		}
		right = s.Subtitle.Render(fmt.Sprintf("(%s) %s", format.Initials(name), name))
	}
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 2 {
		gap = 2
	}
	return left + strings.Repeat(" ", gap) + right
}

func (m *Model) renderStatusLine() string {
	if n := m.renderNotice(); n != "" {
		return n
	}
	hint := "[?]=ajuda  [tab]=abas  [L]=logs  [q]=sair"
	switch m.screen {
	case screenBusinesses:
		hint = "[n]=nova  [enter]=editar  [x]=status  [d]=excluir  [c]=copiar código  [/]=buscar  [s]=ordenar  [?]=ajuda"
	case screenUsers:
		hint = "[/]=buscar  [t]=status  [s]=ordenar  [m]=mover coluna  [?]=ajuda"
	case screenWizard:
		hint = ""
	}
	return m.styles.Help.Render(hint)
}

func (m *Model) renderNotice() string {
	if m.notice == nil {
		return ""
	}
	switch m.notice.level {
	case noticeError:
		return m.styles.Error.Render("✕ " + m.notice.text)
	case noticeSuccess:
		return m.styles.Success.Render("✓ " + m.notice.text)
	}
	return m.styles.Status.Render("• " + m.notice.text)
}

func (m *Model) renderDashboard() string {
	s := m.styles
	var b strings.Builder
	b.WriteString(s.Title.Render("Dashboard") + "\n")
	b.WriteString(s.Subtitle.Render("Bem-vindo ao painel de controle") + "\n\n")

	value := func(n int) string {
		if !m.dash.loaded {
			if m.dash.loading {
				return m.spin.View()
			}
			return "-"
		}
		return fmt.Sprint(n)
	}
	card := func(title, v string) string {
		return s.Card.Width(24).Render(s.Label.Render(title) + "\n" + s.CardValue.Render(v))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		card("Total de Empresas", value(m.dash.total)), " ",
		card("Empresas Ativas", value(m.dash.active)), " ",
		card("Empresas Inativas", value(m.dash.inactive)), " ",
		card("Total de Usuários", fmt.Sprint(len(m.userRows))),
	))
	b.WriteString("\n\n" + s.Title.Render("Atividades Recentes") + "\n")
	if len(m.recent) == 0 {
		b.WriteString(s.Status.Render("Nenhuma atividade nesta sessão") + "\n")
	}
	for _, a := range m.recent {
		b.WriteString(fmt.Sprintf("%s  %s  %s\n", a.action, s.Subtitle.Render(a.target), s.Status.Render(ago(m.now(), a.at))))
	}
	if m.profile != nil {
		b.WriteString("\n" + s.Label.Render("Conectado como ") + m.profile.Email)
		b.WriteString(s.Status.Render("  ·  " + m.client.BaseURL()))
	}
	return b.String()
}

// ago renders a short relative time.
func ago(now, t time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "agora"
	case d < time.Hour:
		return fmt.Sprintf("%d min atrás", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%d horas atrás", int(d.Hours()))
	}
	return t.Format("02/01/2006 15:04")
}

func (m *Model) renderHelp() string {
	lines := []string{"Atalhos:"}
	group := ""
	for _, it := range m.buildHelpItems() {
		if it.Category != group {
			group = it.Category
			lines = append(lines, "", group+":")
		}
		lines = append(lines, fmt.Sprintf("  [%s] %s", it.Key, it.Desc))
	}
	return m.styles.Help.Render(strings.Join(lines, "\n"))
}

func (m *Model) resizeModal() {
	w := m.width - 6
	h := m.height - 6
	if w < 20 {
		w = 20
	}
	if h < 5 {
		h = 5
	}
	m.modalVP = viewport.New(w-4, h-4)
	switch m.modalKind {
	case modalHelp:
		m.modalVP.SetContent(m.renderHelp())
	case modalLogs:
		m.modalVP.SetContent(m.logsBody())
		m.modalVP.GotoBottom()
	}
}

func (m *Model) logsBody() string {
	header := []string{
		"Status:",
		fmt.Sprintf("api: %s  prefs: %s  reorder: %v", m.cfg.APIURL, m.cfg.PrefsBackend, m.cfg.Reorderable),
		fmt.Sprintf("log file: %s", m.cfg.LogFile),
		"",
	}
	return m.styles.Help.Render(strings.Join(header, "\n")) + "\n" + strings.Join(logx.Lines(), "\n")
}

func (m *Model) renderModal() string {
	s := m.styles
	content := ""
	boxW := m.width - 6
	switch m.modalKind {
	case modalHelp:
		content = m.modalVP.View() + "\n[esc/enter]=fechar"
	case modalLogs:
		content = m.modalVP.View() + "\n[esc/enter]=fechar  [c]=copiar"
	case modalStatus:
		boxW = 54
		p := m.pending
		opt := func(disabled bool) string {
			label := statusLabel(disabled)
			if p.choice == disabled {
				return s.Focused.Render("(•) " + label)
			}
			return "( ) " + label
		}
		content = fmt.Sprintf("Empresa: %s\nStatus atual: %s\n\nNovo status:\n  %s\n  %s\n\n",
			p.name, statusLabel(p.disabled), opt(false), opt(true))
		if p.busy {
			content += m.spin.View() + " Alterando...\n"
		}
		content += s.Help.Render("[←/→]=escolher  [enter]=Confirmar Alteração  [esc]=cancelar")
	case modalDelete:
		boxW = 54
		p := m.pending
		content = fmt.Sprintf("Tem certeza que deseja excluir %s?\nEsta ação não pode ser desfeita.\n\n",
			s.Focused.Render(p.name))
		if p.busy {
			content += m.spin.View() + " Excluindo...\n"
		}
		content += s.Help.Render("[enter/y]=Excluir  [esc/n]=cancelar")
	case modalSuccess:
		boxW = 44
		content = s.Success.Render(m.successText()) + "\n\n" + s.Help.Render("[enter]=ok")
	case modalFilter, modalExport:
		content = m.prompt.View()
		if m.promptErr != "" {
			content += "\n" + s.Error.Render(m.promptErr)
		}
		content += "\n" + s.Help.Render("[enter]=aplicar  [esc]=fechar")
	default:
		content = m.modalVP.View() + "\n[esc/enter]=fechar"
	}
	if boxW > m.width-6 {
		boxW = m.width - 6
	}
	if boxW < 20 {
		boxW = 20
	}
	title := s.PopupTitle.Render(m.modalTitle)
	body := s.PopupBox.Width(boxW).Render(title + "\n" + content)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
}
