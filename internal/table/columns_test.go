package table

import (
	"encoding/json"
	"reflect"
	"testing"

	"bizadmin/internal/model"
)

func keysOf(cols []model.Column) []string { return model.Keys(cols) }

func TestFromSpecMapping(t *testing.T) {
	var resp model.ListResponse
	if err := json.Unmarshal([]byte(`{"data":[],"columns":{"name":"Nome","code":"Código"}}`), &resp); err != nil {
		t.Fatal(err)
	}
	got := FromSpec(resp.Columns)
	want := []model.Column{{Key: "name", Label: "Nome", Sortable: true}, {Key: "code", Label: "Código", Sortable: true}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v want %+v", got, want)
	}
}

func TestFromSpecLabels(t *testing.T) {
	// translation beats backend label, backend label beats humanize
	cols := FromSpec(model.PairsSpec(
		model.ColumnPair{Key: "name", Label: "Company"},
		model.ColumnPair{Key: "zip_code", Label: "ZIP"},
		model.ColumnPair{Key: "business_code"},
		model.ColumnPair{Key: "name", Label: "dup"},
	))
	want := []string{"Nome", "ZIP", "Business code"}
	if len(cols) != 3 {
		t.Fatalf("dedup failed: %+v", cols)
	}
	for i, c := range cols {
		if c.Label != want[i] {
			t.Fatalf("label %d: %q want %q", i, c.Label, want[i])
		}
	}
	s := FromSpec(model.StringsSpec("created_at", "phoneNumber"))
	if s[0].Label != "Criado em" || s[1].Label != "Phone Number" {
		t.Fatalf("strings labels: %+v", s)
	}
}

func TestDeriveFallsBackToFirstRow(t *testing.T) {
	rows := []model.Row{{"id": "1", "deleted_at": nil, "name": "Acme", "cnpj": "1", "city": "X"}}
	got := keysOf(Derive(model.ColumnSpec{}, rows))
	if !reflect.DeepEqual(got, []string{"city", "cnpj", "name"}) {
		t.Fatalf("derived: %v", got)
	}
	if cols := Derive(model.ColumnSpec{}, nil); cols != nil {
		t.Fatalf("no spec, no rows should derive nothing: %v", cols)
	}
	// usable descriptor wins over rows
	if got := keysOf(Derive(model.StringsSpec("code"), rows)); !reflect.DeepEqual(got, []string{"code"}) {
		t.Fatalf("spec should win: %v", got)
	}
}

func TestReconcileStoredOrder(t *testing.T) {
	live := []model.Column{{Key: "name"}, {Key: "code"}, {Key: "created_at"}, ActionsColumn()}
	got := keysOf(Reconcile(live, []string{"code", "name"}))
	want := []string{"code", "name", "created_at", "actions"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestReconcileDropsStaleAndPinsActions(t *testing.T) {
	live := []model.Column{ActionsColumn(), {Key: "a"}, {Key: "b"}}
	got := keysOf(Reconcile(live, []string{"gone", "actions", "b"}))
	want := []string{"b", "a", "actions"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestHumanize(t *testing.T) {
	cases := map[string]string{
		"zip_code":     "Zip code",
		"createdAt":    "Created At",
		"":             "",
		"état_général": "État général",
	}
	for in, want := range cases {
		if got := Humanize(in); got != want {
			t.Fatalf("Humanize(%q)=%q want %q", in, got, want)
		}
	}
}
