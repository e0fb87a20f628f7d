package model

import (
	"encoding/json"
	"testing"
)

func decodeSpec(t *testing.T, s string) ColumnSpec {
	t.Helper()
	var resp struct {
		Columns ColumnSpec `json:"columns"`
	}
	if err := json.Unmarshal([]byte(`{"columns":`+s+`}`), &resp); err != nil {
		t.Fatalf("unmarshal %s: %v", s, err)
	}
	return resp.Columns
}

func TestColumnSpecMappingKeepsInsertionOrder(t *testing.T) {
	spec := decodeSpec(t, `{"name":"Nome","code":"Código","city":"Cidade"}`)
	if spec.Kind != SpecMapping {
		t.Fatalf("kind: %s", spec.Kind)
	}
	want := []ColumnPair{{"name", "Nome"}, {"code", "Código"}, {"city", "Cidade"}}
	if len(spec.Pairs) != len(want) {
		t.Fatalf("pairs: %+v", spec.Pairs)
	}
	for i := range want {
		if spec.Pairs[i] != want[i] {
			t.Fatalf("pair %d: got %+v want %+v", i, spec.Pairs[i], want[i])
		}
	}
}

func TestColumnSpecStringsAndPairs(t *testing.T) {
	s := decodeSpec(t, `["name","code"]`)
	if s.Kind != SpecStrings || len(s.Pairs) != 2 || s.Pairs[1].Key != "code" || s.Pairs[1].Label != "" {
		t.Fatalf("strings spec: %+v", s)
	}
	p := decodeSpec(t, `[{"key":"name","label":"Name"},{"label":"no key"},{"key":"phone"}]`)
	if p.Kind != SpecPairs || len(p.Pairs) != 2 || p.Pairs[0].Label != "Name" || p.Pairs[1].Key != "phone" {
		t.Fatalf("pairs spec: %+v", p)
	}
}

func TestColumnSpecMalformedDegradesToEmpty(t *testing.T) {
	for _, in := range []string{`null`, `[]`, `{}`, `42`, `"name"`, `[1,2]`, `true`} {
		if s := decodeSpec(t, in); !s.Empty() {
			t.Fatalf("%s: expected empty spec, got %+v", in, s)
		}
	}
}

func TestColumnSpecMarshalRoundTripsShape(t *testing.T) {
	b, err := json.Marshal(MappingSpec(ColumnPair{"b", "B"}, ColumnPair{"a", "A"}))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"b":"B","a":"A"}` {
		t.Fatalf("mapping json: %s", b)
	}
	b, _ = json.Marshal(StringsSpec("x", "y"))
	if string(b) != `["x","y"]` {
		t.Fatalf("strings json: %s", b)
	}
}

func TestRowID(t *testing.T) {
	if id, ok := (Row{"id": "abc"}).ID(); !ok || id != "abc" {
		t.Fatalf("string id: %q %v", id, ok)
	}
	if id, ok := (Row{"id": float64(12)}).ID(); !ok || id != "12" {
		t.Fatalf("numeric id: %q %v", id, ok)
	}
	if _, ok := (Row{"id": " "}).ID(); ok {
		t.Fatalf("blank id should be missing")
	}
	if _, ok := (Row{"name": "x"}).ID(); ok {
		t.Fatalf("absent id should be missing")
	}
}
