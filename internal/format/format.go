// Package format renders Brazilian document numbers, phones and dates for
// display and strips them back to digits for the API.
package format

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

var reNonDigit = regexp.MustCompile(`\D`)

// Digits keeps only 0-9.
func Digits(s string) string { return reNonDigit.ReplaceAllString(s, "") }

// Phone formats 10 and 11 digit numbers, returning anything else unchanged.
func Phone(s string) string {
	if s == "" {
		return ""
	}
	d := Digits(s)
	switch len(d) {
	case 11:
		return "(" + d[:2] + ") " + d[2:7] + "-" + d[7:]
	case 10:
		return "(" + d[:2] + ") " + d[2:6] + "-" + d[6:]
	}
	return s
}

// CNPJ formats a 14 digit company registry number as 11.111.111/0001-11.
func CNPJ(s string) string {
	if s == "" {
		return ""
	}
	d := Digits(s)
	if len(d) != 14 {
		return s
	}
	return d[:2] + "." + d[2:5] + "." + d[5:8] + "/" + d[8:12] + "-" + d[12:]
}

// CPF formats an 11 digit personal registry number as 111.111.111-11.
func CPF(s string) string {
	if s == "" {
		return ""
	}
	d := Digits(s)
	if len(d) != 11 {
		return s
	}
	return d[:3] + "." + d[3:6] + "." + d[6:9] + "-" + d[9:]
}

// CEP formats an 8 digit postal code as 12345-678.
func CEP(s string) string {
	if s == "" {
		return ""
	}
	d := Digits(s)
	if len(d) != 8 {
		return s
	}
	return d[:5] + "-" + d[5:]
}

func ValidCEP(s string) bool { return len(Digits(s)) == 8 }

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Date renders an ISO timestamp as dd/mm/yyyy hh:mm in loc. Unparseable input
// is returned as is.
func Date(s string, loc *time.Location) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if loc == nil {
		loc = time.Local
	}
	for _, l := range dateLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return t.In(loc).Format("02/01/2006 15:04")
		}
	}
	return s
}

// Truncate shortens s to max runes, appending an ellipsis when cut.
func Truncate(s string, max int) string {
	s = strings.TrimSpace(s)
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return string(r[:max]) + "…"
}

// Initials takes the first letter of each word, upper-cased.
func Initials(name string) string {
	var b strings.Builder
	for _, w := range strings.Fields(name) {
		r, _ := utf8.DecodeRuneInString(w)
		b.WriteRune(r)
	}
	return strings.ToUpper(b.String())
}
