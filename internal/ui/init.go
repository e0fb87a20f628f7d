package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"bizadmin/internal/apiclient"
	"bizadmin/internal/config"
	"bizadmin/internal/model"
	"bizadmin/internal/prefs"
	"bizadmin/internal/session"
	"bizadmin/internal/util/logx"
)

// deps are the collaborators Run wires up; tests build their own.
type deps struct {
	client  *apiclient.Client
	prefs   prefs.Provider
	session *session.File
}

func initialModel(ctx context.Context, cfg *config.Config, d deps) *Model {
	m := &Model{
		ctx:     ctx,
		cfg:     cfg,
		client:  d.client,
		prefs:   d.prefs,
		session: d.session,
		screen:  screenSignIn,
		styles:  NewStyles(cfg.Theme != config.ThemeLight),
		keymap:  DefaultKeyMap(),
		spin:    spinner.New(),
		now:     time.Now,
		width:   100,
		height:  30,
	}
	m.spin.Spinner = spinner.Dot
	m.modalVP = viewport.New(60, 16)
	m.signIn = newSignInForm()
	m.recovery = newRecoveryForm()
	m.businesses = newBusinessList(m)
	m.users = newUserList(m)
	m.userRows = seedUsers()
	if m.client != nil && m.client.Authenticated() {
		m.screen = screenDashboard
	}
	if m.session != nil {
		m.profile = m.session.Load().Profile
	}
	return m
}

func Run(ctx context.Context, cfg *config.Config) error {
	if cfg.Mock {
		stop, err := startMock(ctx, cfg)
		if err != nil {
			return err
		}
		defer stop()
	}
	pv, err := prefs.Open(cfg.PrefsBackend, cfg.ConfigDir)
	if err != nil {
		logx.Warnf("prefs: %v; keeping preferences in memory", err)
		pv = prefs.NewMemoryProvider()
	}
	defer pv.Close()

	sess := session.NewFile(cfg.SessionPath())
	client, err := apiclient.New(apiclient.Options{
		BaseURL:   cfg.APIURL,
		RateLimit: cfg.RateLimit,
		Burst:     2,
		OnToken:   sess.Track,
	})
	if err != nil {
		return err
	}
	if tok := sess.Load().OAuth2(); tok != nil {
		client.SetToken(tok)
	}
	logx.Infof("ui: start %s", cfg)

	m := initialModel(ctx, cfg, deps{client: client, prefs: pv, session: sess})
	p := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen())
	_, err = p.Run()
	m.teardown()
	return err
}

func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spin.Tick, textinput.Blink}
	if m.screen == screenDashboard {
		cmds = append(cmds, m.fetchProfile(), m.loadDashboard())
	}
	return tea.Batch(cmds...)
}

// teardown stops timers owned by mounted screens.
func (m *Model) teardown() {
	m.businesses.unmount()
	m.users.unmount()
	if m.wiz != nil {
		m.wiz.seq.Cancel()
	}
}

// seedUsers is the in-memory source of the users screen.
func seedUsers() []model.Row {
	users := []model.User{
		{ID: 1, Name: "João Silva", Email: "joao@techsolutions.com", Company: "Tech Solutions Ltd.", Role: "Admin", Status: "Ativo"},
		{ID: 2, Name: "Maria Santos", Email: "maria@commerce.com", Company: "Commerce Inc.", Role: "Usuário", Status: "Ativo"},
		{ID: 3, Name: "Pedro Oliveira", Email: "pedro@digitalworld.com", Company: "Digital World", Role: "Usuário", Status: "Inativo"},
		{ID: 4, Name: "Ana Costa", Email: "ana@innovation.com", Company: "Innovation Corp.", Role: "Manager", Status: "Ativo"},
	}
	rows := make([]model.Row, 0, len(users))
	for _, u := range users {
		rows = append(rows, u.Row())
	}
	return rows
}
