package ui

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	bt "github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"bizadmin/internal/apiclient"
	"bizadmin/internal/detect"
	"bizadmin/internal/filter"
	"bizadmin/internal/model"
	"bizadmin/internal/prefs"
	"bizadmin/internal/table"
	"bizadmin/internal/util/logx"
)

// listView is one mounted data table: the table state plus everything the
// screen needs around it.
type listView struct {
	key   string
	title string
	// local lists page over an in-memory source instead of the API.
	local bool

	state     *table.State
	tbl       bt.Model
	// cols mirrors the columns last handed to tbl, which exposes no getter.
	cols      []bt.Column
	search    textinput.Model
	searching bool
	deb       *table.Debouncer
	col       int

	gen     uint64
	loading bool
	loaded  bool
	err     string

	filter *filter.Evaluator
	rows   []model.Row
	// kinds are display guesses for columns without a key-based format.
	kinds map[string]detect.Kind
}

func newListView(m *Model, key, title string, local bool) *listView {
	var store prefs.Store
	if m.prefs != nil {
		store = m.prefs.Store(key)
	}
	lv := &listView{
		key:   key,
		title: title,
		local: local,
		state: table.New(table.Options{
			Store:       store,
			PageSize:    m.cfg.PageSize,
			Reorderable: m.cfg.Reorderable,
			Actions:     true,
		}),
	}
	lv.search = textinput.New()
	lv.search.Placeholder = "buscar..."
	lv.search.Prompt = "/"
	lv.search.CharLimit = 128

	lv.tbl = bt.New(bt.WithFocused(true), bt.WithHeight(10))
	ts := bt.DefaultStyles()
	ts.Header = m.styles.TableStyles.Header.PaddingRight(1)
	ts.Cell = lipgloss.NewStyle().PaddingRight(1)
	ts.Selected = m.styles.TableStyles.Selected
	lv.tbl.SetStyles(ts)
	return lv
}

func newBusinessList(m *Model) *listView {
	return newListView(m, prefs.BusinessesKey, "Empresas", false)
}

func newUserList(m *Model) *listView {
	return newListView(m, prefs.UsersKey, "Usuários", true)
}

func (m *Model) listFor(s screen) *listView {
	switch s {
	case screenBusinesses:
		return m.businesses
	case screenUsers:
		return m.users
	}
	return nil
}

// mount starts a fresh debouncer and loads the first page.
func (m *Model) mount(lv *listView) tea.Cmd {
	m.debSeq++
	lv.deb = table.NewDebouncer(m.debSeq, table.SearchDelay)
	// the term survives remounts; clearing it must still commit
	lv.deb.SetCommitted(lv.state.Search)
	lv.searching = false
	lv.search.Blur()
	if lv.local {
		m.applyLocal(lv)
		return nil
	}
	return m.fetchList(lv, false)
}

// unmount suppresses pending timers and in-flight responses.
func (lv *listView) unmount() {
	if lv.deb != nil {
		lv.deb.Stop()
	}
	lv.gen++
	lv.loading = false
	lv.searching = false
	lv.search.Blur()
	lv.state.CancelDrag()
}

// reload refetches after a state change.
func (m *Model) reload(lv *listView, force bool) tea.Cmd {
	if lv.local {
		m.applyLocal(lv)
		return nil
	}
	return m.fetchList(lv, force)
}

func (m *Model) fetchList(lv *listView, force bool) tea.Cmd {
	lv.gen++
	gen := lv.gen
	q := lv.state.Query()
	q.Force = force
	lv.loading = true
	ctx, client := m.ctx, m.client
	return func() tea.Msg {
		resp, err := client.ListBusinesses(ctx, q)
		return listMsg{gen: gen, force: force, resp: resp, err: err}
	}
}

func (m *Model) onList(msg listMsg) tea.Cmd {
	lv := m.businesses
	if msg.gen != lv.gen {
		logx.Debugf("ui: dropping stale list response gen=%d current=%d", msg.gen, lv.gen)
		return nil
	}
	lv.loading = false
	switch {
	case msg.err == nil:
	case errors.Is(msg.err, apiclient.ErrNotModified):
		return nil
	case errors.Is(msg.err, apiclient.ErrUnauthorized):
		return m.sessionExpired()
	default:
		logx.Errorf("ui: list businesses: %v", msg.err)
		lv.err = "Erro ao carregar empresas"
		return m.notify(noticeError, lv.err)
	}
	lv.err = ""
	resp := msg.resp
	// a shrinking result set can leave the current page past the end
	if len(resp.Data) == 0 && resp.LastPage > 0 && lv.state.Page > resp.LastPage {
		lv.state.Page = resp.LastPage
		return m.fetchList(lv, msg.force)
	}
	lv.state.Apply(resp)
	lv.loaded = true
	m.refreshTable(lv)
	return nil
}

var userColumns = model.MappingSpec(
	model.ColumnPair{Key: "nome", Label: "Usuário"},
	model.ColumnPair{Key: "email", Label: "Email"},
	model.ColumnPair{Key: "empresa", Label: "Empresa"},
	model.ColumnPair{Key: "role", Label: "Função"},
	model.ColumnPair{Key: "status", Label: "Status"},
)

// applyLocal runs search, status filter, sort and paging over the in-memory
// users and feeds the result through the same state as a server response.
func (m *Model) applyLocal(lv *listView) {
	st := lv.state
	term := strings.ToLower(strings.TrimSpace(st.Search))
	matched := make([]model.Row, 0, len(m.userRows))
	for _, r := range m.userRows {
		if term != "" && !rowContains(r, term) {
			continue
		}
		switch st.Status {
		case model.StatusActive:
			if r["status"] != "Ativo" {
				continue
			}
		case model.StatusInactive:
			if r["status"] == "Ativo" {
				continue
			}
		}
		matched = append(matched, r)
	}
	if st.Sort.Active() {
		key, desc := st.Sort.Key, st.Sort.Direction == model.Desc
		sort.SliceStable(matched, func(i, j int) bool {
			a, b := fmt.Sprint(matched[i][key]), fmt.Sprint(matched[j][key])
			if desc {
				return strings.ToLower(a) > strings.ToLower(b)
			}
			return strings.ToLower(a) < strings.ToLower(b)
		})
	}
	total := len(matched)
	last := (total + st.PageSize - 1) / st.PageSize
	if last < 1 {
		last = 1
	}
	if st.Page > last {
		st.Page = last
	}
	from := (st.Page - 1) * st.PageSize
	to := from + st.PageSize
	if to > total {
		to = total
	}
	st.Apply(model.ListResponse{
		Page: st.Page, Size: st.PageSize, Total: total, LastPage: last,
		Data: matched[from:to], Columns: userColumns,
	})
	lv.loaded = true
	m.refreshTable(lv)
}

func rowContains(r model.Row, term string) bool {
	for k, v := range r {
		if k == "id" {
			continue
		}
		if strings.Contains(strings.ToLower(fmt.Sprint(v)), term) {
			return true
		}
	}
	return false
}

// selected returns the row under the cursor and its id. Rows without an id
// cannot be acted on.
func (lv *listView) selected() (model.Row, string, bool) {
	i := lv.tbl.Cursor()
	if i < 0 || i >= len(lv.rows) {
		return nil, "", false
	}
	r := lv.rows[i]
	id, ok := r.ID()
	return r, id, ok
}

func (lv *listView) selectedColumn() (model.Column, bool) {
	cols := lv.state.Columns()
	if lv.col < 0 || lv.col >= len(cols) {
		return model.Column{}, false
	}
	return cols[lv.col], true
}

func (m *Model) updateList(lv *listView, msg tea.KeyMsg) tea.Cmd {
	if lv.searching {
		switch msg.Type {
		case tea.KeyEsc, tea.KeyEnter:
			lv.searching = false
			lv.search.Blur()
			return nil
		}
		before := lv.search.Value()
		var cmd tea.Cmd
		lv.search, cmd = lv.search.Update(msg)
		if v := lv.search.Value(); v != before {
			return tea.Batch(cmd, lv.deb.Input(strings.TrimSpace(v)))
		}
		return cmd
	}

	km := m.keymap
	switch {
	case keyMatches(msg, km.Search):
		lv.searching = true
		lv.search.Focus()
		return textinput.Blink
	case keyMatches(msg, km.Status):
		lv.state.SetStatus(lv.state.Status.Next())
		return m.reload(lv, false)
	case keyMatches(msg, km.ColLeft):
		if lv.col > 0 {
			lv.col--
			m.refreshTable(lv)
		}
		return nil
	case keyMatches(msg, km.ColRight):
		if lv.col < len(lv.state.Columns())-1 {
			lv.col++
			m.refreshTable(lv)
		}
		return nil
	case keyMatches(msg, km.Sort):
		c, ok := lv.selectedColumn()
		if ok && lv.state.RequestSort(c.Key) {
			return m.reload(lv, false)
		}
		return nil
	case keyMatches(msg, km.Move):
		return m.moveColumn(lv)
	case keyMatches(msg, km.Back):
		if _, dragging := lv.state.Dragging(); dragging {
			lv.state.CancelDrag()
			m.refreshTable(lv)
		}
		return nil
	case keyMatches(msg, km.NextPage), msg.Type == tea.KeyPgDown:
		if lv.state.NextPage() {
			return m.reload(lv, false)
		}
		return nil
	case keyMatches(msg, km.PrevPage), msg.Type == tea.KeyPgUp:
		if lv.state.PrevPage() {
			return m.reload(lv, false)
		}
		return nil
	case keyMatches(msg, km.PageSize):
		if lv.state.SetPageSize(table.NextPageSize(lv.state.PageSize)) {
			return m.reload(lv, false)
		}
		return nil
	case keyMatches(msg, km.Reload):
		return m.reload(lv, true)
	case keyMatches(msg, km.Filter):
		m.openFilterModal(lv)
		return textinput.Blink
	case keyMatches(msg, km.ClearFilter):
		if lv.filter != nil {
			lv.filter = nil
			m.refreshTable(lv)
			return m.notify(noticeInfo, "Filtro local removido")
		}
		return nil
	case keyMatches(msg, km.Export):
		m.openExportModal(lv)
		return textinput.Blink
	}
	if !lv.local {
		if cmd, handled := m.businessAction(lv, msg); handled {
			return cmd
		}
	}
	var cmd tea.Cmd
	lv.tbl, cmd = lv.tbl.Update(msg)
	return cmd
}

// moveColumn is the keyboard drag: the first press marks the selected
// column, moving the selection and pressing again drops it there.
func (m *Model) moveColumn(lv *listView) tea.Cmd {
	if !lv.state.Reorderable() {
		return m.notify(noticeInfo, "Reordenação de colunas desativada")
	}
	if _, dragging := lv.state.Dragging(); dragging {
		target := lv.col
		if target >= len(lv.state.DataColumns()) {
			// the actions column is not a drop target
			lv.state.CancelDrag()
			m.refreshTable(lv)
			return nil
		}
		order, moved := lv.state.Drop(target)
		m.refreshTable(lv)
		if moved {
			logx.Debugf("ui: %s column order %v", lv.key, order)
			lv.col = target
		}
		return nil
	}
	if lv.state.StartDrag(lv.col) {
		m.refreshTable(lv)
	}
	return nil
}

// onDebounce commits a settled search term on whichever list owns the timer.
func (m *Model) onDebounce(msg table.DebounceMsg) tea.Cmd {
	for _, lv := range []*listView{m.businesses, m.users} {
		if lv.deb == nil {
			continue
		}
		if term, ok := lv.deb.Fire(msg); ok {
			lv.state.SetSearch(term)
			return m.reload(lv, false)
		}
	}
	return nil
}
