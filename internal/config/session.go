package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/masomo/roster/internal/util"
)

// Session is the stored login: the bearer token returned by /auth/login and
// who it belongs to.
type Session struct {
	Token    string    `toml:"token"`
	Username string    `toml:"username"`
	APIURL   string    `toml:"api_url"`
	LoggedIn time.Time `toml:"logged_in"`
}

// LoadSession reads the session file. ROSTER_TOKEN, when set, wins over the
// file. A missing session is not an error; the returned session is empty.
func LoadSession() (*Session, error) {
	return LoadSessionFrom(util.SessionPath())
}

// LoadSessionFrom reads the session file at path.
func LoadSessionFrom(path string) (*Session, error) {
	s := &Session{}
	if _, err := toml.DecodeFile(path, s); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	if token := os.Getenv("ROSTER_TOKEN"); token != "" {
		s.Token = token
	}
	return s, nil
}

// Valid reports whether the session holds a token.
func (s *Session) Valid() bool {
	return s != nil && s.Token != ""
}

// Save writes the session file readable only by the current user.
func (s *Session) Save() error {
	return s.SaveTo(util.SessionPath())
}

// SaveTo writes the session file at path.
func (s *Session) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(s)
}

// ClearSession removes the session file.
func ClearSession() error {
	return ClearSessionAt(util.SessionPath())
}

// ClearSessionAt removes the session file at path.
func ClearSessionAt(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
