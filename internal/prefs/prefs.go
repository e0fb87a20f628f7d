// Package prefs persists per-table column order and sort choice.
//
// Stores never surface failures: Load reports false for missing or corrupt
// data and Save logs and drops write errors. Last write wins.
package prefs

import (
	"fmt"
	"path/filepath"
	"sync"

	"bizadmin/internal/model"
)

// Table keys.
const (
	BusinessesKey = "businesses_table_prefs"
	UsersKey      = "users_table_prefs"
)

// Record is the durable preference of one table.
type Record struct {
	Order    []string        `json:"order,omitempty" yaml:"order,omitempty"`
	SortBy   string          `json:"sort_by,omitempty" yaml:"sort_by,omitempty"`
	OrderDir model.Direction `json:"order_dir,omitempty" yaml:"order_dir,omitempty"`
}

// sanitize drops values a reader could not act on.
func (r Record) sanitize() Record {
	if !r.OrderDir.Valid() {
		r.OrderDir = ""
	}
	seen := make(map[string]bool, len(r.Order))
	order := make([]string, 0, len(r.Order))
	for _, k := range r.Order {
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		order = append(order, k)
	}
	r.Order = order
	return r
}

// Store loads and saves the record of one table.
type Store interface {
	Load() (Record, bool)
	Save(Record)
}

// Provider hands out stores for table keys over one backing medium.
type Provider interface {
	Store(key string) Store
	Close() error
}

type Backend string

const (
	BackendFile   Backend = "file"
	BackendSQLite Backend = "sqlite"
	BackendMemory Backend = "memory"
)

// Open returns the provider for backend rooted at dir.
func Open(backend Backend, dir string) (Provider, error) {
	switch backend {
	case BackendFile, "":
		return NewFileProvider(filepath.Join(dir, "table_prefs.yaml")), nil
	case BackendSQLite:
		return OpenSQLite(filepath.Join(dir, "prefs.sqlite"))
	case BackendMemory:
		return NewMemoryProvider(), nil
	default:
		return nil, fmt.Errorf("unknown prefs backend %q", backend)
	}
}

// MemoryProvider keeps records in process memory. Used by tests and when
// persistence is disabled.
type MemoryProvider struct {
	mu   sync.Mutex
	recs map[string]Record
	// Saves counts Save calls per key.
	Saves map[string]int
}

func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{recs: map[string]Record{}, Saves: map[string]int{}}
}

func (p *MemoryProvider) Store(key string) Store { return &memoryStore{p: p, key: key} }
func (p *MemoryProvider) Close() error           { return nil }

// SaveCount returns how many times key was saved.
func (p *MemoryProvider) SaveCount(key string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.Saves[key]
}

type memoryStore struct {
	p   *MemoryProvider
	key string
}

func (s *memoryStore) Load() (Record, bool) {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	r, ok := s.p.recs[s.key]
	if !ok {
		return Record{}, false
	}
	r.Order = append([]string(nil), r.Order...)
	return r.sanitize(), true
}

func (s *memoryStore) Save(r Record) {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	r.Order = append([]string(nil), r.Order...)
	s.p.recs[s.key] = r
	s.p.Saves[s.key]++
}

// NewMemoryStore is a standalone in-memory store.
func NewMemoryStore() Store { return NewMemoryProvider().Store("memory") }
