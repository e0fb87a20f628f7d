// Package detect guesses how a column should be displayed from a sample of
// its values, for columns the renderer has no key-based rule for.
package detect

import (
	"regexp"
	"strings"
	"time"

	"bizadmin/internal/model"
)

type Kind string

const (
	KindText   Kind = "text"
	KindDate   Kind = "date"
	KindPhone  Kind = "phone"
	KindCNPJ   Kind = "cnpj"
	KindCPF    Kind = "cpf"
	KindCEP    Kind = "cep"
	KindEmail  Kind = "email"
	KindBool   Kind = "bool"
	KindNumber Kind = "number"
)

var (
	reCNPJ  = regexp.MustCompile(`^\d{2}\.?\d{3}\.?\d{3}/?\d{4}-?\d{2}$`)
	reCPF   = regexp.MustCompile(`^\d{3}\.\d{3}\.\d{3}-\d{2}$`)
	rePhone = regexp.MustCompile(`^(\(\d{2}\)\s?|\d{2}\s)9?\d{4}-?\d{4}$`)
	reCEP   = regexp.MustCompile(`^\d{5}-\d{3}$`)
	reEmail = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[A-Za-z]{2,}$`)
)

var dateLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02"}

// Guess is the chosen kind and the share of sampled values that matched it.
type Guess struct {
	Kind       Kind
	Confidence float64
}

// Heuristics classifies a sample of values. A kind wins when at least half
// of the non-empty values match it and it strictly beats every other kind,
// plain text included; otherwise the column is plain text.
func Heuristics(sample []any) Guess {
	counts := map[Kind]int{}
	n := 0
	for _, v := range sample {
		k, ok := classify(v)
		if !ok {
			continue
		}
		n++
		counts[k]++
	}
	best, hits, tie := KindText, 0, false
	for _, k := range []Kind{KindDate, KindCNPJ, KindCPF, KindPhone, KindCEP, KindEmail, KindBool, KindNumber} {
		switch c := counts[k]; {
		case c > hits:
			best, hits, tie = k, c, false
		case c == hits && c > 0:
			tie = true
		}
	}
	if n == 0 || tie || hits*2 < n || counts[KindText] >= hits {
		return Guess{Kind: KindText, Confidence: conf(n, counts[KindText])}
	}
	return Guess{Kind: best, Confidence: conf(n, hits)}
}

func conf(lines, hits int) float64 {
	if lines == 0 {
		return 0
	}
	return float64(hits) / float64(lines)
}

func classify(v any) (Kind, bool) {
	switch t := v.(type) {
	case nil:
		return "", false
	case bool:
		return KindBool, true
	case float64, int, int64:
		return KindNumber, true
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return "", false
		}
		switch {
		case reCNPJ.MatchString(s):
			return KindCNPJ, true
		case reCPF.MatchString(s):
			return KindCPF, true
		case rePhone.MatchString(s):
			return KindPhone, true
		case reCEP.MatchString(s):
			return KindCEP, true
		case reEmail.MatchString(s):
			return KindEmail, true
		case isDate(s):
			return KindDate, true
		}
	}
	return KindText, true
}

func isDate(s string) bool {
	for _, l := range dateLayouts {
		if _, err := time.Parse(l, s); err == nil {
			return true
		}
	}
	return false
}

// Columns guesses a kind for every column from up to sampleSize rows.
func Columns(cols []model.Column, rows []model.Row, sampleSize int) map[string]Kind {
	if sampleSize <= 0 || sampleSize > len(rows) {
		sampleSize = len(rows)
	}
	out := make(map[string]Kind, len(cols))
	for _, c := range cols {
		if c.IsActions() {
			continue
		}
		sample := make([]any, 0, sampleSize)
		for _, r := range rows[:sampleSize] {
			sample = append(sample, r[c.Key])
		}
		out[c.Key] = Heuristics(sample).Kind
	}
	return out
}
