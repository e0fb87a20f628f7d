package prefs

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"bizadmin/internal/model"
)

func roundTrip(t *testing.T, p Provider) {
	t.Helper()
	s := p.Store(BusinessesKey)
	if _, ok := s.Load(); ok {
		t.Fatalf("fresh store should report no record")
	}
	want := Record{Order: []string{"code", "name"}, SortBy: "name", OrderDir: model.Desc}
	s.Save(want)
	got, ok := s.Load()
	if !ok {
		t.Fatalf("record not found after save")
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v want %+v", got, want)
	}
	// keys are independent
	if _, ok := p.Store(UsersKey).Load(); ok {
		t.Fatalf("users key should be empty")
	}
	want.SortBy = "code"
	s.Save(want)
	if got, _ := s.Load(); got.SortBy != "code" {
		t.Fatalf("last write should win, got %q", got.SortBy)
	}
}

func TestFileProviderRoundTrip(t *testing.T) {
	roundTrip(t, NewFileProvider(filepath.Join(t.TempDir(), "nested", "table_prefs.yaml")))
}

func TestSQLiteProviderRoundTrip(t *testing.T) {
	p, err := OpenSQLite(filepath.Join(t.TempDir(), "prefs.sqlite"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer p.Close()
	roundTrip(t, p)
}

func TestMemoryProviderRoundTrip(t *testing.T) {
	p := NewMemoryProvider()
	roundTrip(t, p)
	if n := p.SaveCount(BusinessesKey); n != 2 {
		t.Fatalf("save count: %d", n)
	}
}

func TestFileProviderCorruptFileLoadsNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table_prefs.yaml")
	if err := os.WriteFile(path, []byte("tables: [this is: not: a map"), 0o644); err != nil {
		t.Fatal(err)
	}
	s := NewFileProvider(path).Store(BusinessesKey)
	if _, ok := s.Load(); ok {
		t.Fatalf("corrupt file must load as missing")
	}
	// a save over a corrupt file replaces it
	s.Save(Record{Order: []string{"name"}})
	if r, ok := s.Load(); !ok || len(r.Order) != 1 {
		t.Fatalf("save after corrupt: %+v %v", r, ok)
	}
}

func TestFileProviderBadEntryKeepsOthers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table_prefs.yaml")
	doc := "tables:\n" +
		"  " + BusinessesKey + ":\n    order: {name: 1}\n" +
		"  " + UsersKey + ":\n    order: [email, nome]\n    sort_by: nome\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	p := NewFileProvider(path)
	if _, ok := p.Store(BusinessesKey).Load(); ok {
		t.Fatalf("malformed entry must load as missing")
	}
	users, ok := p.Store(UsersKey).Load()
	if !ok || users.SortBy != "nome" || !reflect.DeepEqual(users.Order, []string{"email", "nome"}) {
		t.Fatalf("intact entry: %+v %v", users, ok)
	}

	p.Store(BusinessesKey).Save(Record{SortBy: "name"})
	if r, ok := p.Store(BusinessesKey).Load(); !ok || r.SortBy != "name" {
		t.Fatalf("save over malformed entry: %+v %v", r, ok)
	}
	if again, ok := p.Store(UsersKey).Load(); !ok || !reflect.DeepEqual(again, users) {
		t.Fatalf("other entry lost on save: %+v %v", again, ok)
	}
}

func TestFileProviderUnwritableSaveIsSwallowed(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	// parent path is a regular file, so MkdirAll fails
	s := NewFileProvider(filepath.Join(blocker, "prefs.yaml")).Store(BusinessesKey)
	s.Save(Record{SortBy: "name"})
	if _, ok := s.Load(); ok {
		t.Fatalf("nothing should have been stored")
	}
}

func TestLoadSanitizesRecord(t *testing.T) {
	p := NewMemoryProvider()
	s := p.Store(UsersKey)
	s.Save(Record{Order: []string{"a", "", "a", "b"}, OrderDir: "sideways"})
	r, _ := s.Load()
	if !reflect.DeepEqual(r.Order, []string{"a", "b"}) || r.OrderDir != "" {
		t.Fatalf("sanitized: %+v", r)
	}
}

func TestOpenUnknownBackend(t *testing.T) {
	if _, err := Open("redis", t.TempDir()); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}
