// Package filter narrows the rows already on screen without asking the
// server: a text query, optionally a regex or limited to one column, and an
// optional govaluate expression over the row's fields.
package filter

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/Knetic/govaluate"

	"bizadmin/internal/model"
)

type Criteria struct {
	Query    string // plain contains or regex if /.../
	UseRegex bool
	Expr     string // govaluate expression, e.g. `disabled == false && name =~ "^A"`
	Field    string // when set, apply Query only to this field
}

// Parse reads a filter line. A leading "=" makes the rest an expression;
// /.../ is a regex; anything else is a plain query.
func Parse(line, field string) Criteria {
	q := strings.TrimSpace(line)
	switch {
	case strings.HasPrefix(q, "="):
		return Criteria{Expr: strings.TrimSpace(q[1:])}
	case len(q) > 2 && strings.HasPrefix(q, "/") && strings.HasSuffix(q, "/"):
		return Criteria{Query: q[1 : len(q)-1], UseRegex: true, Field: field}
	}
	return Criteria{Query: q, Field: field}
}

func (c Criteria) Empty() bool { return c.Query == "" && strings.TrimSpace(c.Expr) == "" }

func (c Criteria) String() string {
	if c.Expr != "" {
		return "=" + c.Expr
	}
	q := c.Query
	if c.UseRegex {
		q = "/" + q + "/"
	}
	if c.Field != "" {
		return c.Field + ": " + q
	}
	return q
}

type Evaluator struct {
	c    Criteria
	re   *regexp.Regexp
	expr *govaluate.EvaluableExpression
}

func NewEvaluator(c Criteria) (*Evaluator, error) {
	var re *regexp.Regexp
	var expr *govaluate.EvaluableExpression
	var err error
	if c.UseRegex && c.Query != "" {
		re, err = regexp.Compile(c.Query)
		if err != nil {
			return nil, err
		}
	}
	if strings.TrimSpace(c.Expr) != "" {
		expr, err = govaluate.NewEvaluableExpression(c.Expr)
		if err != nil {
			return nil, err
		}
	}
	return &Evaluator{c: c, re: re, expr: expr}, nil
}

func (e *Evaluator) Criteria() Criteria { return e.c }

func (e *Evaluator) Match(row model.Row) bool {
	c := e.c
	if c.Query != "" {
		var text string
		if c.Field != "" {
			text = stringify(row[c.Field])
		} else {
			parts := make([]string, 0, len(row))
			for k, v := range row {
				if k == "id" {
					continue
				}
				parts = append(parts, stringify(v))
			}
			text = strings.Join(parts, " ")
		}
		if e.re != nil {
			if !e.re.MatchString(text) {
				return false
			}
		} else if !strings.Contains(strings.ToLower(text), strings.ToLower(c.Query)) {
			return false
		}
	}
	if e.expr != nil {
		params := make(map[string]any, len(row))
		for _, v := range e.expr.Vars() {
			params[v] = nil
		}
		for k, v := range row {
			params[k] = v
		}
		result, err := e.expr.Evaluate(params)
		if err != nil {
			return false
		}
		b, ok := result.(bool)
		if !ok || !b {
			return false
		}
	}
	return true
}

// Apply returns the matching rows, or rows itself when ev is nil.
func Apply(ev *Evaluator, rows []model.Row) []model.Row {
	if ev == nil {
		return rows
	}
	out := make([]model.Row, 0, len(rows))
	for _, r := range rows {
		if ev.Match(r) {
			out = append(out, r)
		}
	}
	return out
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool, float64, int, int64:
		return fmt.Sprint(t)
	default:
		b, _ := json.Marshal(v)
		return string(b)
	}
}
