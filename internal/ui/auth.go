package ui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"bizadmin/internal/apiclient"
	"bizadmin/internal/model"
	"bizadmin/internal/util/logx"
)

// authForm is a small stack of text inputs with one focused.
type authForm struct {
	inputs []textinput.Model
	labels []string
	focus  int
	busy   bool
	err    string
}

func newInput(placeholder string, limit int) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = limit
	in.Prompt = "› "
	return in
}

func newSignInForm() authForm {
	email := newInput("email@empresa.com.br", 128)
	pass := newInput("senha", 128)
	pass.EchoMode = textinput.EchoPassword
	pass.EchoCharacter = '•'
	f := authForm{inputs: []textinput.Model{email, pass}, labels: []string{"Email", "Senha"}}
	f.setFocus(0)
	return f
}

func newRecoveryForm() authForm {
	f := authForm{inputs: []textinput.Model{newInput("email@empresa.com.br", 128)}, labels: []string{"Email"}}
	f.setFocus(0)
	return f
}

func (f *authForm) setFocus(i int) {
	if i < 0 {
		i = len(f.inputs) - 1
	}
	f.focus = i % len(f.inputs)
	for j := range f.inputs {
		if j == f.focus {
			f.inputs[j].Focus()
		} else {
			f.inputs[j].Blur()
		}
	}
}

func (f *authForm) value(i int) string { return strings.TrimSpace(f.inputs[i].Value()) }

func (f *authForm) reset() {
	for i := range f.inputs {
		f.inputs[i].SetValue("")
	}
	f.err, f.busy = "", false
	f.setFocus(0)
}

func (f *authForm) update(msg tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func (f authForm) view(s Styles, title, subtitle, hint string) string {
	var b strings.Builder
	b.WriteString(s.Title.Render(title) + "\n")
	b.WriteString(s.Subtitle.Render(subtitle) + "\n\n")
	for i, in := range f.inputs {
		label := s.Label.Render(f.labels[i])
		if i == f.focus {
			label = s.Focused.Render(f.labels[i])
		}
		b.WriteString(label + "\n" + in.View() + "\n\n")
	}
	if f.busy {
		b.WriteString(s.Status.Render("Aguarde...") + "\n")
	}
	if f.err != "" {
		b.WriteString(s.Error.Render(f.err) + "\n")
	}
	b.WriteString(s.Help.Render(hint))
	return s.PopupBox.Width(48).Render(b.String())
}

func (m *Model) updateSignIn(msg tea.KeyMsg) tea.Cmd {
	f := &m.signIn
	switch {
	case keyMatches(msg, m.keymap.NextField), msg.Type == tea.KeyDown:
		f.setFocus(f.focus + 1)
		return nil
	case keyMatches(msg, m.keymap.PrevField), msg.Type == tea.KeyUp:
		f.setFocus(f.focus - 1)
		return nil
	case keyMatches(msg, m.keymap.Recovery):
		m.recovery.reset()
		m.recovery.inputs[0].SetValue(f.value(0))
		m.screen = screenRecovery
		return nil
	case msg.Type == tea.KeyEnter:
		if f.focus == 0 {
			f.setFocus(1)
			return nil
		}
		return m.submitSignIn()
	}
	return f.update(msg)
}

func (m *Model) submitSignIn() tea.Cmd {
	f := &m.signIn
	if f.busy {
		return nil
	}
	email, pass := f.value(0), f.inputs[1].Value()
	if email == "" || pass == "" {
		f.err = "Informe email e senha"
		return nil
	}
	f.busy, f.err = true, ""
	ctx, client := m.ctx, m.client
	return func() tea.Msg {
		resp, err := client.SignIn(ctx, model.Credentials{Email: email, Password: pass})
		return signedInMsg{resp: resp, err: err}
	}
}

func (m *Model) onSignedIn(msg signedInMsg) tea.Cmd {
	m.signIn.busy = false
	if msg.err != nil {
		logx.Warnf("ui: sign-in failed: %v", msg.err)
		m.signIn.err = authError(msg.err, "Falha ao entrar")
		return nil
	}
	m.signIn.reset()
	if msg.resp.User != nil {
		p := *msg.resp.User
		m.profile = &p
		if m.session != nil {
			m.session.SetProfile(p)
		}
	}
	m.screen = screenDashboard
	return tea.Batch(m.notify(noticeSuccess, "Login realizado com sucesso"), m.fetchProfile(), m.loadDashboard())
}

func (m *Model) updateRecovery(msg tea.KeyMsg) tea.Cmd {
	f := &m.recovery
	switch {
	case keyMatches(msg, m.keymap.Back):
		m.screen = screenSignIn
		return nil
	case msg.Type == tea.KeyEnter:
		if f.busy {
			return nil
		}
		email := f.value(0)
		if !strings.Contains(email, "@") {
			f.err = "Informe um email válido"
			return nil
		}
		f.busy, f.err = true, ""
		ctx, client := m.ctx, m.client
		return func() tea.Msg { return recoveredMsg{err: client.RecoverPassword(ctx, email)} }
	}
	return f.update(msg)
}

func (m *Model) onRecovered(msg recoveredMsg) tea.Cmd {
	m.recovery.busy = false
	if msg.err != nil {
		m.recovery.err = authError(msg.err, "Falha ao enviar instruções")
		return nil
	}
	m.screen = screenSignIn
	return m.notify(noticeSuccess, "Se o email estiver cadastrado, enviaremos as instruções")
}

func (m *Model) fetchProfile() tea.Cmd {
	ctx, client := m.ctx, m.client
	return func() tea.Msg {
		p, err := client.Profile(ctx)
		return profileMsg{profile: p, err: err}
	}
}

func (m *Model) onProfile(msg profileMsg) tea.Cmd {
	if msg.err != nil {
		if errors.Is(msg.err, apiclient.ErrUnauthorized) {
			return m.sessionExpired()
		}
		logx.Warnf("ui: profile: %v", msg.err)
		return nil
	}
	p := msg.profile
	m.profile = &p
	if m.session != nil {
		m.session.SetProfile(p)
	}
	return nil
}

// sessionExpired sends the user back to sign-in after the token could not
// be refreshed.
func (m *Model) sessionExpired() tea.Cmd {
	if m.screen == screenSignIn {
		return nil
	}
	m.leaveScreen()
	m.closeModal()
	m.profile = nil
	m.screen = screenSignIn
	m.signIn.reset()
	return m.notify(noticeError, "Sessão expirada. Entre novamente.")
}

func (m *Model) signOut() tea.Cmd {
	m.leaveScreen()
	m.client.SignOut()
	m.profile = nil
	m.screen = screenSignIn
	m.signIn.reset()
	return m.notify(noticeInfo, "Sessão encerrada")
}

// authError prefers the server's message over a generic fallback.
func authError(err error, fallback string) string {
	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

func (m *Model) renderAuth() string {
	var box string
	if m.screen == screenRecovery {
		box = m.recovery.view(m.styles, "Recuperar senha", "Enviaremos instruções para o seu email",
			"[enter]=enviar  [esc]=voltar")
	} else {
		box = m.signIn.view(m.styles, "bizadmin", "Acesse o painel administrativo",
			"[tab]=próximo  [enter]=entrar  [ctrl+r]=esqueci a senha  [ctrl+c]=sair")
	}
	return lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, box)
}
