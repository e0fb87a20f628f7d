package mockapi

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"bizadmin/internal/model"
)

// Store is the in-memory business table behind the mock server.
type Store struct {
	mu       sync.Mutex
	items    map[string]*model.Business
	order    []string
	nextCode int
	now      func() time.Time
}

func NewStore(now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{items: map[string]*model.Business{}, nextCode: 1, now: now}
}

func (s *Store) stamp() string { return s.now().UTC().Format(time.RFC3339) }

// Create assigns id, code and timestamps; the code is kept when supplied.
func (s *Store) Create(b model.Business) model.Business {
	s.mu.Lock()
	defer s.mu.Unlock()
	b.ID = uuid.NewString()
	if strings.TrimSpace(b.Code) == "" {
		b.Code = fmt.Sprintf("EMP%03d", s.nextCode)
	}
	s.nextCode++
	b.CreatedAt = s.stamp()
	b.UpdatedAt = b.CreatedAt
	b.DeletedAt = nil
	b = assignAddressIDs(model.NormalizeBusiness(b))
	c := b.Clone()
	s.items[b.ID] = &c
	s.order = append(s.order, b.ID)
	return b
}

func (s *Store) Get(id string) (model.Business, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.items[id]
	if !ok || b.DeletedAt != nil {
		return model.Business{}, false
	}
	return b.Clone(), true
}

// Patch applies the members present in fields to record id.
func (s *Store) Patch(id string, fields map[string]json.RawMessage) (model.Business, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.items[id]
	if !ok || b.DeletedAt != nil {
		return model.Business{}, false, nil
	}
	next := b.Clone()
	for k, raw := range fields {
		var err error
		switch k {
		case "name":
			err = json.Unmarshal(raw, &next.Name)
		case "responsible":
			err = json.Unmarshal(raw, &next.Responsible)
		case "email":
			err = json.Unmarshal(raw, &next.Email)
		case "phone":
			err = json.Unmarshal(raw, &next.Phone)
		case "cnpj":
			err = json.Unmarshal(raw, &next.CNPJ)
		case "notes":
			err = json.Unmarshal(raw, &next.Notes)
		case "code":
			err = json.Unmarshal(raw, &next.Code)
		case "disabled":
			err = json.Unmarshal(raw, &next.Disabled)
		}
		if err != nil {
			return model.Business{}, true, fmt.Errorf("field %s: %w", k, err)
		}
	}
	next.UpdatedAt = s.stamp()
	*b = next
	return next.Clone(), true, nil
}

// Delete marks the record deleted; deleted records disappear from reads.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.items[id]
	if !ok || b.DeletedAt != nil {
		return false
	}
	ts := s.stamp()
	b.DeletedAt = &ts
	return true
}

// ReplaceAddresses swaps the address list of the business with code.
func (s *Store) ReplaceAddresses(code string, addrs []model.Address) (model.Business, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range s.order {
		b := s.items[id]
		if b.Code != code || b.DeletedAt != nil {
			continue
		}
		b.Addresses = append([]model.Address(nil), addrs...)
		*b = assignAddressIDs(*b)
		b.UpdatedAt = s.stamp()
		return b.Clone(), true
	}
	return model.Business{}, false
}

type ListParams struct {
	Page, Size int
	Search     string
	Disabled   *bool
	SortBy     string
	Order      model.Direction
}

// List filters, sorts and pages the live records.
func (s *Store) List(p ListParams) (rows []model.Business, total int) {
	s.mu.Lock()
	all := make([]model.Business, 0, len(s.order))
	for _, id := range s.order {
		b := s.items[id]
		if b.DeletedAt != nil {
			continue
		}
		if p.Disabled != nil && b.Disabled != *p.Disabled {
			continue
		}
		if !matches(b, p.Search) {
			continue
		}
		all = append(all, b.Clone())
	}
	s.mu.Unlock()

	if p.SortBy != "" {
		sort.SliceStable(all, func(i, j int) bool {
			a, b := sortValue(all[i], p.SortBy), sortValue(all[j], p.SortBy)
			if p.Order == model.Desc {
				return a > b
			}
			return a < b
		})
	}
	total = len(all)
	if p.Size <= 0 {
		p.Size = 10
	}
	if p.Page < 1 {
		p.Page = 1
	}
	start := (p.Page - 1) * p.Size
	if start >= total {
		return []model.Business{}, total
	}
	end := start + p.Size
	if end > total {
		end = total
	}
	return all[start:end], total
}

func matches(b *model.Business, term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	for _, v := range []string{b.Name, b.Code, b.Email, b.Responsible, b.CNPJ, b.Phone} {
		if strings.Contains(strings.ToLower(v), term) {
			return true
		}
	}
	return false
}

func sortValue(b model.Business, key string) string {
	switch key {
	case "name":
		return strings.ToLower(b.Name)
	case "code":
		return b.Code
	case "email":
		return strings.ToLower(b.Email)
	case "responsible":
		return strings.ToLower(b.Responsible)
	case "phone":
		return b.Phone
	case "cnpj":
		return b.CNPJ
	case "created_at":
		return b.CreatedAt
	case "updated_at":
		return b.UpdatedAt
	case "disabled":
		if b.Disabled {
			return "1"
		}
		return "0"
	}
	return ""
}

func assignAddressIDs(b model.Business) model.Business {
	for i := range b.Addresses {
		if b.Addresses[i].ID == "" {
			b.Addresses[i].ID = uuid.NewString()
		}
	}
	return b
}

// Seed fills the store with n sample companies.
func (s *Store) Seed(n int) {
	names := []string{"Padaria Pão Quente", "Oficina Dois Irmãos", "Mercado Central", "Clínica Bem Estar",
		"Livraria Saber", "Tech Soluções", "Construtora Alicerce", "Farmácia Vida", "Café do Porto", "Auto Peças Rápido"}
	cities := []string{"São Paulo", "Recife", "Curitiba", "Belo Horizonte", "Porto Alegre"}
	for i := 0; i < n; i++ {
		name := names[i%len(names)]
		if i >= len(names) {
			name = fmt.Sprintf("%s %d", name, i/len(names)+1)
		}
		s.Create(model.Business{
			Name:        name,
			Responsible: fmt.Sprintf("Responsável %d", i+1),
			Email:       fmt.Sprintf("contato%d@empresa.com.br", i+1),
			Phone:       fmt.Sprintf("119%08d", 91000000+i),
			CNPJ:        fmt.Sprintf("%08d0001%02d", 11111111+i, i%100),
			Notes:       "Cliente desde a migração do sistema anterior.",
			Disabled:    i%4 == 3,
			Addresses: []model.Address{{
				Code: "MATRIZ", Name: "Matriz", Address: "Rua das Flores", Number: fmt.Sprint(100 + i),
				Neighborhood: "Centro", City: cities[i%len(cities)], State: "SP", Country: "Brasil",
				ZipCode: fmt.Sprintf("0131%04d", i),
			}},
		})
	}
}

// toRow flattens b for list responses; addresses stay on the detail endpoint.
func toRow(b model.Business) model.Row {
	row := model.Row{
		"id":          b.ID,
		"code":        b.Code,
		"name":        b.Name,
		"responsible": b.Responsible,
		"email":       b.Email,
		"phone":       b.Phone,
		"cnpj":        b.CNPJ,
		"notes":       b.Notes,
		"disabled":    b.Disabled,
		"created_at":  b.CreatedAt,
		"updated_at":  b.UpdatedAt,
		"deleted_at":  nil,
	}
	if b.DeletedAt != nil {
		row["deleted_at"] = *b.DeletedAt
	}
	return row
}
