package out

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"smartlib/internal/modules/auth/domain"
	authout "smartlib/internal/modules/auth/port/out"
)

// FileCredentialStore keeps the token in a 0600 JSON file under a single fixed key.
type FileCredentialStore struct {
	mu   sync.Mutex
	path string
}

func NewFileCredentialStore(path string) authout.CredentialStore {
	return &FileCredentialStore{path: path}
}

func (s *FileCredentialStore) Get(_ context.Context) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	payload, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("read credential: %w", err)
	}
	stored := map[string]string{}
	if err := json.Unmarshal(payload, &stored); err != nil {
		return "", false, fmt.Errorf("decode credential file %s: %w", s.path, err)
	}
	token := stored[domain.CredentialKey]
	return token, token != "", nil
}

func (s *FileCredentialStore) Set(_ context.Context, credential string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create credential dir: %w", err)
	}
	payload, err := json.Marshal(map[string]string{domain.CredentialKey: credential})
	if err != nil {
		return fmt.Errorf("encode credential: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".credentials-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp credential file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod temp credential file: %w", err)
	}
	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp credential file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp credential file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("replace credential file: %w", err)
	}
	return nil
}

func (s *FileCredentialStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("clear credential: %w", err)
	}
	return nil
}
