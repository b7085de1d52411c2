// Package auth keeps OAuth tokens for the Google APIs the tools call.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/oauth2"
)

var (
	ErrTokenNotFound          = errors.New("TOKEN_NOT_FOUND")
	ErrAuthorizationRequired  = errors.New("AUTHORIZATION_REQUIRED")
	ErrCredentialsUnavailable = errors.New("CREDENTIALS_UNAVAILABLE")
)

// CredentialStore persists one token per external API name.
type CredentialStore interface {
	Load(ctx context.Context, name string) (*oauth2.Token, error)
	Save(ctx context.Context, name string, token *oauth2.Token) error
}

// FileStore writes <dir>/<name>_token.json with owner-only permissions.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func (s *FileStore) path(name string) string {
	return filepath.Join(s.dir, name+"_token.json")
}

func (s *FileStore) Load(ctx context.Context, name string) (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path(name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrTokenNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("read token %s: %w", name, err)
	}

	var tok oauth2.Token
	if err := json.Unmarshal(raw, &tok); err != nil {
		return nil, fmt.Errorf("decode token %s: %w", name, err)
	}
	return &tok, nil
}

func (s *FileStore) Save(ctx context.Context, name string, token *oauth2.Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("create token dir: %w", err)
	}
	raw, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return fmt.Errorf("encode token %s: %w", name, err)
	}

	tmp := s.path(name) + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("write token %s: %w", name, err)
	}
	return os.Rename(tmp, s.path(name))
}
