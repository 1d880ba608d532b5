package session

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"chirp/internal/model"
)

// storageKey names the slot the token pair lives under, mirroring the
// single local-storage key the web client used.
const storageKey = "authTokens"

// Store persists the token pair as one JSON document on disk. It is the
// only client-side persistence in the program; tweets and comments are
// never written anywhere. The session manager is the sole writer.
type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load returns the stored pair, or nil when no session is stored.
func (s *Store) Load() (*model.TokenPair, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, err
	}
	raw, ok := doc[storageKey]
	if !ok {
		return nil, nil
	}
	var pair model.TokenPair
	if err := json.Unmarshal(raw, &pair); err != nil {
		return nil, err
	}
	if pair.Access == "" {
		return nil, nil
	}
	return &pair, nil
}

// Save writes the pair, creating the parent directory as needed. The
// file is owner-readable only.
func (s *Store) Save(pair model.TokenPair) error {
	raw, err := json.Marshal(pair)
	if err != nil {
		return err
	}
	doc := map[string]json.RawMessage{storageKey: raw}
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(s.path, b, 0o600)
}

// Clear removes the stored pair. Missing file is not an error.
func (s *Store) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
