package detect

import (
	"testing"

	"bizadmin/internal/model"
)

func TestHeuristicsKinds(t *testing.T) {
	cases := []struct {
		name   string
		sample []any
		want   Kind
	}{
		{"dates", []any{"2024-03-01T10:00:00Z", "2024-03-02 08:30:00", nil}, KindDate},
		{"cnpj", []any{"12.345.678/0001-95", "11222333000181"}, KindCNPJ},
		{"cpf", []any{"123.456.789-09", "987.654.321-00"}, KindCPF},
		{"phone", []any{"(11) 98765-4321", "(21) 3456-7890"}, KindPhone},
		{"cep", []any{"01310-100", "20040-002"}, KindCEP},
		{"email", []any{"a@b.com", "x@empresa.com.br"}, KindEmail},
		{"bool", []any{true, false}, KindBool},
		{"number", []any{float64(1), float64(22)}, KindNumber},
		{"mixed", []any{"2024-03-01", "hello", "world"}, KindText},
		{"empty", []any{nil, ""}, KindText},
	}
	for _, c := range cases {
		if g := Heuristics(c.sample); g.Kind != c.want {
			t.Fatalf("%s: expected %s, got %s (%.2f)", c.name, c.want, g.Kind, g.Confidence)
		}
	}
}

func TestColumnsSamplesRows(t *testing.T) {
	cols := []model.Column{{Key: "criado"}, {Key: "doc"}, {Key: model.ActionsKey}}
	rows := []model.Row{
		{"criado": "2024-01-01T00:00:00Z", "doc": "12.345.678/0001-95"},
		{"criado": "2024-01-02T00:00:00Z", "doc": "free text"},
		{"criado": "not a date", "doc": "more text"},
	}
	got := Columns(cols, rows, 2)
	if got["criado"] != KindDate {
		t.Fatalf("criado: %s", got["criado"])
	}
	// one cnpj and one text tie within the sample
	if got["doc"] != KindText {
		t.Fatalf("doc: %s", got["doc"])
	}
	if _, ok := got[model.ActionsKey]; ok {
		t.Fatalf("actions classified")
	}
}
