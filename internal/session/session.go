// Package session keeps the signed-in token pair and profile on disk so a
// restart does not force a new sign-in.
package session

import (
	"errors"
	"os"
	"path/filepath"

	"golang.org/x/oauth2"
	"gopkg.in/yaml.v3"

	"bizadmin/internal/model"
	"bizadmin/internal/util/logx"
)

type State struct {
	Token        string         `yaml:"token"`
	RefreshToken string         `yaml:"refresh_token"`
	Profile      *model.Profile `yaml:"profile,omitempty"`
}

func (s State) OAuth2() *oauth2.Token {
	if s.Token == "" {
		return nil
	}
	return &oauth2.Token{AccessToken: s.Token, RefreshToken: s.RefreshToken, TokenType: "Bearer"}
}

// File is a session stored as YAML with owner-only permissions.
type File struct {
	path string
}

func NewFile(path string) *File { return &File{path: path} }

func (f *File) Path() string { return f.path }

// Load returns the saved state; a missing or unreadable file is an empty state.
func (f *File) Load() State {
	b, err := os.ReadFile(f.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logx.Warnf("session: read %s: %v", f.path, err)
		}
		return State{}
	}
	var st State
	if err := yaml.Unmarshal(b, &st); err != nil {
		logx.Warnf("session: corrupt %s, ignoring", f.path)
		return State{}
	}
	return st
}

func (f *File) Save(st State) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return err
	}
	b, err := yaml.Marshal(st)
	if err != nil {
		return err
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, f.path)
}

func (f *File) Clear() error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Track adapts the file to apiclient's token callback. The profile is kept
// across refreshes and dropped on sign-out.
func (f *File) Track(tok *oauth2.Token) {
	if tok == nil {
		if err := f.Clear(); err != nil {
			logx.Warnf("session: clear: %v", err)
		}
		return
	}
	st := f.Load()
	st.Token, st.RefreshToken = tok.AccessToken, tok.RefreshToken
	if err := f.Save(st); err != nil {
		logx.Warnf("session: save: %v", err)
	}
}

// SetProfile records the signed-in user's profile alongside the token.
func (f *File) SetProfile(p model.Profile) {
	st := f.Load()
	if st.Token == "" {
		return
	}
	st.Profile = &p
	if err := f.Save(st); err != nil {
		logx.Warnf("session: save profile: %v", err)
	}
}
