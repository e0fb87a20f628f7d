package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"

	"bizadmin/internal/apiclient"
	"bizadmin/internal/config"
	"bizadmin/internal/model"
	"bizadmin/internal/prefs"
	"bizadmin/internal/session"
)

type screen int

const (
	screenSignIn screen = iota
	screenRecovery
	screenDashboard
	screenBusinesses
	screenUsers
	screenWizard
)

// navScreens are the tabs of the signed-in shell, in tab order.
var navScreens = []screen{screenDashboard, screenBusinesses, screenUsers}

func (s screen) title() string {
	switch s {
	case screenSignIn:
		return "Entrar"
	case screenRecovery:
		return "Recuperar senha"
	case screenDashboard:
		return "Dashboard"
	case screenBusinesses:
		return "Empresas"
	case screenUsers:
		return "Usuários"
	case screenWizard:
		return "Empresa"
	}
	return ""
}

type modalKind int

const (
	modalNone modalKind = iota
	modalHelp
	modalLogs
	modalStatus
	modalDelete
	modalFilter
	modalExport
	modalSuccess
)

type noticeLevel int

const (
	noticeInfo noticeLevel = iota
	noticeSuccess
	noticeError
)

// notice is a transient status line message.
type notice struct {
	id    int
	level noticeLevel
	text  string
}

const noticeTTL = 4 * time.Second

// activity is one entry of the dashboard's recent activity list.
type activity struct {
	action string
	target string
	at     time.Time
}

// Messages

type noticeExpiredMsg struct{ id int }

type signedInMsg struct {
	resp model.AuthResponse
	err  error
}

type recoveredMsg struct{ err error }

type profileMsg struct {
	profile model.Profile
	err     error
}

type dashboardMsg struct {
	gen                     uint64
	total, active, inactive int
	err                     error
}

// listMsg reports a list fetch; gen ties it to the request that produced it.
type listMsg struct {
	gen   uint64
	force bool
	resp  model.ListResponse
	err   error
}

type businessMsg struct {
	id  string
	rec model.Business
	err error
}

type statusDoneMsg struct {
	id       string
	name     string
	disabled bool
	err      error
}

type deleteDoneMsg struct {
	id   string
	name string
	err  error
}

// pendingAction is the row a status or delete modal acts on.
type pendingAction struct {
	id       string
	name     string
	disabled bool
	// choice is the status picked in the status modal.
	choice bool
	busy   bool
}

type Model struct {
	ctx      context.Context
	cfg      *config.Config
	client   *apiclient.Client
	prefs    prefs.Provider
	session  *session.File
	screen   screen
	width    int
	height   int
	styles   Styles
	keymap   KeyMap
	spin     spinner.Model
	profile  *model.Profile
	signIn   authForm
	recovery authForm

	dash       dashStats
	businesses *listView
	users      *listView
	userRows   []model.Row
	wiz        *wizardView

	notice   *notice
	noticeID int
	recent   []activity

	modalActive bool
	modalKind   modalKind
	modalVP     viewport.Model
	modalTitle  string
	pending     pendingAction
	prompt      textinput.Model
	promptErr   string
	debSeq      int

	now func() time.Time
}

// dashStats are the counters on the dashboard cards.
type dashStats struct {
	gen                     uint64
	loaded, loading         bool
	total, active, inactive int
}
