package ui

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	bt "github.com/charmbracelet/bubbles/table"

	"bizadmin/internal/detect"
	"bizadmin/internal/filter"
	"bizadmin/internal/format"
	"bizadmin/internal/model"
	"bizadmin/internal/table"
)

const (
	notesLimit  = 60
	minColWidth = 6
	maxColWidth = 36
	kindSample  = 20
)

// refreshTable rebuilds the bubbles table from the list state: visible rows
// after the local filter, headers with sort and drag markers, formatted cells.
func (m *Model) refreshTable(lv *listView) {
	cols := lv.state.Columns()
	if lv.col >= len(cols) {
		lv.col = len(cols) - 1
	}
	if lv.col < 0 {
		lv.col = 0
	}
	lv.rows = filter.Apply(lv.filter, lv.state.Rows)
	lv.kinds = detect.Columns(cols, lv.state.Rows, kindSample)

	cells := make([][]string, len(lv.rows))
	for i, r := range lv.rows {
		line := make([]string, len(cols))
		for j, c := range cols {
			if c.IsActions() {
				line[j] = actionsCell(lv, r)
				continue
			}
			line[j] = formatCell(c.Key, r[c.Key], lv.kinds[c.Key])
		}
		cells[i] = line
	}

	drag, dragging := lv.state.Dragging()
	headers := make([]string, len(cols))
	for j, c := range cols {
		headers[j] = headerTitle(c, lv.state.Sort, j == lv.col, dragging && j == drag)
	}
	widths := columnWidths(headers, cells, m.width)

	tc := make([]bt.Column, len(cols))
	for j := range cols {
		tc[j] = bt.Column{Title: headers[j], Width: widths[j]}
	}
	rows := make([]bt.Row, len(cells))
	for i, line := range cells {
		rows[i] = bt.Row(line)
	}
	// columns first: SetRows renders against the current column count
	lv.tbl.SetRows(nil)
	lv.tbl.SetColumns(tc)
	lv.cols = tc
	lv.tbl.SetRows(rows)
	if n := len(rows); n > 0 && (lv.tbl.Cursor() >= n || lv.tbl.Cursor() < 0) {
		lv.tbl.SetCursor(n - 1)
	}
	h := m.height - 12
	if h < 3 {
		h = 3
	}
	lv.tbl.SetHeight(h)
}

// headerTitle is the header label with its sort indicator. The selected
// column is bracketed and the drag source is marked.
func headerTitle(c model.Column, s model.SortState, selected, dragSource bool) string {
	t := c.Label
	if ind := table.Indicator(c, s); ind != "" {
		t += " " + ind
	}
	if dragSource {
		t = "⇄ " + t
	}
	if selected {
		t = "[" + t + "]"
	}
	return t
}

func actionsCell(lv *listView, r model.Row) string {
	if _, ok := r.ID(); !ok {
		return "-"
	}
	if lv.local {
		return "Editar · Excluir"
	}
	return "Editar · Status · Excluir"
}

// formatCell renders one value by its column key, falling back to the
// column's guessed kind for keys without a rule.
func formatCell(key string, v any, kind detect.Kind) string {
	if v == nil {
		return ""
	}
	switch key {
	case "disabled":
		if b, ok := v.(bool); ok {
			return statusLabel(b)
		}
	case "phone", "telefone":
		return format.Phone(fmt.Sprint(v))
	case "cnpj":
		return format.CNPJ(fmt.Sprint(v))
	case "cpf":
		return format.CPF(fmt.Sprint(v))
	case "zip_code", "cep":
		return format.CEP(fmt.Sprint(v))
	case "notes", "observacoes":
		return format.Truncate(oneLine(fmt.Sprint(v)), notesLimit)
	case "nome", "name":
		if s, ok := v.(string); ok {
			return s
		}
	}
	if strings.HasSuffix(key, "_at") || strings.HasSuffix(key, "date") {
		kind = detect.KindDate
	}
	if s, ok := v.(string); ok {
		switch kind {
		case detect.KindDate:
			return format.Date(s, time.Local)
		case detect.KindPhone:
			return format.Phone(s)
		case detect.KindCNPJ:
			return format.CNPJ(s)
		case detect.KindCPF:
			return format.CPF(s)
		case detect.KindCEP:
			return format.CEP(s)
		}
	}
	switch t := v.(type) {
	case string:
		return oneLine(t)
	case bool:
		if t {
			return "Sim"
		}
		return "Não"
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case []any:
		return fmt.Sprintf("%d itens", len(t))
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return format.Truncate(string(b), notesLimit)
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// columnWidths sizes each column to its widest cell, clamped, and shrinks
// the widest columns until the row fits.
func columnWidths(headers []string, cells [][]string, total int) []int {
	w := make([]int, len(headers))
	for j, h := range headers {
		w[j] = runeLen(h)
	}
	for _, line := range cells {
		for j, c := range line {
			if n := runeLen(c); n > w[j] {
				w[j] = n
			}
		}
	}
	sum := 0
	for j := range w {
		if w[j] < minColWidth {
			w[j] = minColWidth
		}
		if w[j] > maxColWidth {
			w[j] = maxColWidth
		}
		sum += w[j] + 1
	}
	for sum > total && total > 0 {
		widest := 0
		for j := range w {
			if w[j] > w[widest] {
				widest = j
			}
		}
		if w[widest] <= minColWidth {
			break
		}
		w[widest]--
		sum--
	}
	return w
}

// renderPager is the page strip, page size and the range summary.
func (m *Model) renderPager(lv *listView) string {
	s := m.styles
	st := lv.state
	var parts []string
	prev := "‹"
	if !table.HasPrev(st.Page) {
		prev = s.Status.Render(prev)
	}
	parts = append(parts, prev)
	for _, it := range st.VisiblePages() {
		if it.Ellipsis {
			parts = append(parts, "…")
			continue
		}
		label := strconv.Itoa(it.Number)
		if it.Number == st.Page {
			label = s.PageCurrent.Render(" " + label + " ")
		}
		parts = append(parts, label)
	}
	next := "›"
	if !table.HasNext(st.Page, st.TotalPages) {
		next = s.Status.Render(next)
	}
	parts = append(parts, next)

	from, to := table.Range(st.Page, st.PageSize, st.Total)
	summary := fmt.Sprintf("Mostrando %d a %d de %d", from, to, st.Total)
	size := fmt.Sprintf("Itens por página: %d", st.PageSize)
	return strings.Join(parts, " ") + "   " + s.Status.Render(summary+"  ·  "+size)
}

// renderFilters describes the active query above the table.
func (m *Model) renderFilters(lv *listView) string {
	s := m.styles
	st := lv.state
	parts := []string{"Status: " + st.Status.Label()}
	if st.Search != "" {
		parts = append(parts, fmt.Sprintf("Busca: %q", st.Search))
	}
	if st.Sort.Active() {
		label := st.Sort.Key
		for _, c := range st.Columns() {
			if c.Key == st.Sort.Key {
				label = c.Label
			}
		}
		dir := "▲"
		if st.Sort.Direction == model.Desc {
			dir = "▼"
		}
		parts = append(parts, "Ordenação: "+label+" "+dir)
	}
	if lv.filter != nil {
		parts = append(parts, "Filtro local: "+lv.filter.Criteria().String())
	}
	if _, dragging := st.Dragging(); dragging {
		parts = append(parts, "Movendo coluna: ←/→ e [m] para soltar, [esc] cancela")
	}
	return s.Status.Render(strings.Join(parts, "  |  "))
}

func (m *Model) renderList(lv *listView) string {
	s := m.styles
	var b strings.Builder
	b.WriteString(s.Title.Render(lv.title))
	if lv.loading {
		b.WriteString("  " + m.spin.View())
	}
	b.WriteString("\n")
	if lv.searching || lv.search.Value() != "" {
		b.WriteString(lv.search.View() + "\n")
	}
	b.WriteString(m.renderFilters(lv) + "\n\n")
	switch {
	case !lv.loaded && lv.loading:
		b.WriteString(m.spin.View() + " Carregando...\n")
	case len(lv.rows) == 0:
		b.WriteString(m.tableHeaderOnly(lv) + "\n")
		b.WriteString(s.Status.Render("Nenhum registro encontrado") + "\n")
	default:
		b.WriteString(lv.tbl.View() + "\n")
	}
	b.WriteString("\n" + m.renderPager(lv))
	return b.String()
}

func (m *Model) tableHeaderOnly(lv *listView) string {
	parts := make([]string, 0, len(lv.cols))
	for _, c := range lv.cols {
		parts = append(parts, padRight(truncateRunes(c.Title, c.Width), c.Width))
	}
	return m.styles.TableStyles.Header.Render(strings.Join(parts, " "))
}
