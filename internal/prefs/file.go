package prefs

import (
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"bizadmin/internal/util/logx"
)

// FileProvider keeps every table's record in one YAML document.
type FileProvider struct {
	path string
	mu   sync.Mutex
}

func NewFileProvider(path string) *FileProvider { return &FileProvider{path: path} }

func (p *FileProvider) Path() string { return p.path }

func (p *FileProvider) Store(key string) Store { return &fileStore{p: p, key: key} }

func (p *FileProvider) Close() error { return nil }

// Entries stay undecoded until asked for, so one malformed table does
// not take the others with it.
type fileDoc struct {
	Tables map[string]yaml.Node `yaml:"tables"`
}

// read returns an empty document on any error so a corrupt file is
// treated as no preferences.
func (p *FileProvider) read() fileDoc {
	doc := fileDoc{Tables: map[string]yaml.Node{}}
	data, err := os.ReadFile(p.path)
	if err != nil {
		return doc
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		logx.Warnf("prefs: discarding unreadable %s: %v", p.path, err)
		return fileDoc{Tables: map[string]yaml.Node{}}
	}
	if doc.Tables == nil {
		doc.Tables = map[string]yaml.Node{}
	}
	return doc
}

func (p *FileProvider) write(doc fileDoc) error {
	if err := os.MkdirAll(filepath.Dir(p.path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(doc)
	if err != nil {
		return err
	}
	tmp := p.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, p.path)
}

type fileStore struct {
	p   *FileProvider
	key string
}

func (s *fileStore) Load() (Record, bool) {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	n, ok := s.p.read().Tables[s.key]
	if !ok {
		return Record{}, false
	}
	var r Record
	if err := n.Decode(&r); err != nil {
		logx.Warnf("prefs: ignoring unreadable %s entry: %v", s.key, err)
		return Record{}, false
	}
	return r.sanitize(), true
}

func (s *fileStore) Save(r Record) {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	var n yaml.Node
	if err := n.Encode(r); err != nil {
		logx.Warnf("prefs: save %s failed: %v", s.key, err)
		return
	}
	doc := s.p.read()
	doc.Tables[s.key] = n
	if err := s.p.write(doc); err != nil {
		logx.Warnf("prefs: save %s failed: %v", s.key, err)
	}
}
