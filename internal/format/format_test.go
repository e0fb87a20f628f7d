package format

import (
	"testing"
	"time"
)

func TestDocumentFormatters(t *testing.T) {
	cases := []struct {
		name string
		fn   func(string) string
		in   string
		want string
	}{
		{"mobile", Phone, "11999998888", "(11) 99999-8888"},
		{"landline", Phone, "(11) 3333-4444", "(11) 3333-4444"},
		{"landline digits", Phone, "1133334444", "(11) 3333-4444"},
		{"short phone", Phone, "123", "123"},
		{"cnpj", CNPJ, "11111111000111", "11.111.111/0001-11"},
		{"cnpj bad", CNPJ, "111", "111"},
		{"cpf", CPF, "12345678901", "123.456.789-01"},
		{"cep", CEP, "01310-100", "01310-100"},
		{"cep digits", CEP, "01310100", "01310-100"},
		{"empty", CNPJ, "", ""},
	}
	for _, c := range cases {
		if got := c.fn(c.in); got != c.want {
			t.Fatalf("%s: %q -> %q want %q", c.name, c.in, got, c.want)
		}
	}
	if !ValidCEP("01310-100") || ValidCEP("0131") {
		t.Fatalf("ValidCEP")
	}
}

func TestDate(t *testing.T) {
	if got := Date("2025-03-04T13:05:00Z", time.UTC); got != "04/03/2025 13:05" {
		t.Fatalf("date: %s", got)
	}
	if got := Date("yesterday", time.UTC); got != "yesterday" {
		t.Fatalf("unparseable: %s", got)
	}
}

func TestTruncateAndInitials(t *testing.T) {
	if got := Truncate("áéíóú", 3); got != "áéí…" {
		t.Fatalf("truncate: %s", got)
	}
	if got := Truncate("short", 60); got != "short" {
		t.Fatalf("truncate short: %s", got)
	}
	if got := Initials("João da Silva"); got != "JDS" {
		t.Fatalf("initials: %s", got)
	}
}
