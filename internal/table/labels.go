package table

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// translations maps column keys to display labels. Add entries as needed.
var translations = map[string]string{
	"name":       "Nome",
	"code":       "Código",
	"created_at": "Criado em",
	"updated_at": "Atualizado em",
	"disabled":   "Status",
	"notes":      "Notas",
}

var reCamel = regexp.MustCompile(`([a-z])([A-Z])`)

// Humanize turns a key into a label: underscores become spaces, camelCase is
// split and the first letter is upper-cased.
func Humanize(key string) string {
	s := strings.ReplaceAll(key, "_", " ")
	s = reCamel.ReplaceAllString(s, "$1 $2")
	r, n := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[n:]
}

// ResolveLabel prefers the static translation, then the server label, then
// the humanised key.
func ResolveLabel(key, backendLabel string) string {
	if t, ok := translations[key]; ok {
		return t
	}
	if strings.TrimSpace(backendLabel) != "" {
		return backendLabel
	}
	return Humanize(key)
}
