package keychain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileStore keeps secrets as a plaintext json object in a file only the
// owner can read.
type FileStore struct {
	path string
	mu   *sync.Mutex
}

func NewFileStore(path string) FileStore {
	return FileStore{path: path, mu: &sync.Mutex{}}
}

func (s FileStore) read() (map[string]string, error) {
	secrets := map[string]string{}
	buff, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return secrets, nil
	}
	if err != nil {
		return nil, err
	}
	if len(buff) == 0 {
		return secrets, nil
	}
	err = json.Unmarshal(buff, &secrets)
	if err != nil {
		return nil, fmt.Errorf("read secrets %s: %w", s.path, err)
	}
	return secrets, nil
}

func (s FileStore) Get(ctx context.Context, name string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	secrets, err := s.read()
	if err != nil {
		return "", err
	}
	value, ok := secrets[name]
	if !ok {
		return "", fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	return value, nil
}

func (s FileStore) Set(ctx context.Context, name, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	secrets, err := s.read()
	if err != nil {
		return err
	}
	secrets[name] = value

	buff, err := json.MarshalIndent(secrets, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".secrets-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	err = tmp.Chmod(0600)
	if err == nil {
		_, err = tmp.Write(buff)
	}
	closeErr := tmp.Close()
	if err != nil {
		return err
	}
	if closeErr != nil {
		return closeErr
	}
	return os.Rename(tmp.Name(), s.path)
}
