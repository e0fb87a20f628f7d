package mockapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"bizadmin/internal/model"
)

func TestStoreListFiltersSortsAndPages(t *testing.T) {
	s := NewStore(nil)
	s.Seed(12)
	active := false
	rows, total := s.List(ListParams{Page: 1, Size: 5, Disabled: &active, SortBy: "name", Order: model.Desc})
	if total != 9 || len(rows) != 5 {
		t.Fatalf("total=%d rows=%d", total, len(rows))
	}
	for i := 1; i < len(rows); i++ {
		if strings.ToLower(rows[i-1].Name) < strings.ToLower(rows[i].Name) {
			t.Fatalf("not sorted desc: %s before %s", rows[i-1].Name, rows[i].Name)
		}
	}
	if rows, _ := s.List(ListParams{Page: 9, Size: 5}); len(rows) != 0 {
		t.Fatalf("page past the end: %d rows", len(rows))
	}
	if _, total := s.List(ListParams{Search: "padaria"}); total != 2 {
		t.Fatalf("search total=%d", total)
	}
}

func TestStorePatchAndDelete(t *testing.T) {
	s := NewStore(func() time.Time { return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC) })
	b := s.Create(model.Business{Name: "Acme"})
	if b.Code != "EMP001" || b.CreatedAt != "2025-01-02T03:04:05Z" {
		t.Fatalf("create: %+v", b)
	}
	got, ok, err := s.Patch(b.ID, map[string]json.RawMessage{"disabled": json.RawMessage("true"), "name": json.RawMessage(`"Acme SA"`)})
	if !ok || err != nil || !got.Disabled || got.Name != "Acme SA" {
		t.Fatalf("patch: %+v %v %v", got, ok, err)
	}
	if _, _, err := s.Patch(b.ID, map[string]json.RawMessage{"disabled": json.RawMessage(`"yes"`)}); err == nil {
		t.Fatalf("bad field accepted")
	}
	if !s.Delete(b.ID) || s.Delete(b.ID) {
		t.Fatalf("delete twice")
	}
	if _, ok := s.Get(b.ID); ok {
		t.Fatalf("deleted record readable")
	}
}

func TestListColumnShapes(t *testing.T) {
	for _, shape := range []model.SpecKind{model.SpecStrings, model.SpecPairs, model.SpecMapping, model.SpecNone} {
		srv := New(Options{Shape: shape, Seed: 3})
		h := srv.Handler()
		tok := signIn(t, h)
		req := httptest.NewRequest(http.MethodGet, "/business?page=1&size=2", nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: status %d", shape, rec.Code)
		}
		var res model.ListResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
			t.Fatalf("%s: %v", shape, err)
		}
		if res.Columns.Kind != shape || res.Total != 3 || len(res.Data) != 2 || !res.HasMore {
			t.Fatalf("%s: %+v", shape, res)
		}
	}
}

func TestAuthRequired(t *testing.T) {
	h := New(Options{}).Handler()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/profile", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status %d", rec.Code)
	}
}

func TestTokenExpiry(t *testing.T) {
	clock := time.Now()
	srv := New(Options{TokenTTL: time.Minute, Now: func() time.Time { return clock }})
	h := srv.Handler()
	tok := signIn(t, h)
	clock = clock.Add(2 * time.Minute)
	req := httptest.NewRequest(http.MethodGet, "/users/profile", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expired token accepted: %d", rec.Code)
	}
}

func TestParseShape(t *testing.T) {
	if k, ok := ParseShape("Pairs"); !ok || k != model.SpecPairs {
		t.Fatalf("pairs")
	}
	if k, ok := ParseShape(""); !ok || k != model.SpecMapping {
		t.Fatalf("default")
	}
	if _, ok := ParseShape("xml"); ok {
		t.Fatalf("unknown accepted")
	}
}

func signIn(t *testing.T, h http.Handler) string {
	t.Helper()
	acc := DefaultAccount()
	body := `{"email":"` + acc.Profile.Email + `","password":"` + acc.Password + `"}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/signin", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("sign in: %d %s", rec.Code, rec.Body.String())
	}
	var out model.AuthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil || out.Token == "" {
		t.Fatalf("sign in body: %v", err)
	}
	return out.Token
}
