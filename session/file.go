package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

const filePrefix = "session_"

// FileStore writes one file per phone number, named session_<phone>, holding
// the bare token.
type FileStore struct {
	fs  afero.Fs
	dir string
}

// NewFileStore creates a store rooted at dir on fs. A nil fs means the OS
// filesystem.
func NewFileStore(fs afero.Fs, dir string) *FileStore {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if dir == "" {
		dir = "."
	}
	return &FileStore{fs: fs, dir: dir}
}

func (s *FileStore) path(phone string) (string, error) {
	if phone == "" {
		return "", ErrEmptyKey
	}
	if strings.ContainsAny(phone, `/\`) || phone == "." || phone == ".." {
		return "", fmt.Errorf("invalid session key %q", phone)
	}
	return filepath.Join(s.dir, filePrefix+phone), nil
}

func (s *FileStore) Get(_ context.Context, phone string) (string, bool, error) {
	p, err := s.path(phone)
	if err != nil {
		return "", false, err
	}

	data, err := afero.ReadFile(s.fs, p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read session file: %w", err)
	}

	return string(data), true, nil
}

func (s *FileStore) Set(_ context.Context, phone, token string) error {
	p, err := s.path(phone)
	if err != nil {
		return err
	}

	if err := s.fs.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}
	if err := afero.WriteFile(s.fs, p, []byte(token), 0o600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}

func (s *FileStore) Delete(_ context.Context, phone string) error {
	p, err := s.path(phone)
	if err != nil {
		return err
	}

	if err := s.fs.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}
