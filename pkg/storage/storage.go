package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

type Storage struct{}

// SaveFile writes content to filePath, creating parent directories as needed.
func (s *Storage) SaveFile(filePath string, content []byte) error {
	if dir := filepath.Dir(filePath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("error creating directory: %w", err)
		}
	}

	if err := os.WriteFile(filePath, content, 0644); err != nil {
		return fmt.Errorf("error saving file: %w", err)
	}
	return nil
}

func (s *Storage) ReadFile(filePath string) ([]byte, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}
	return data, nil
}

// ReadFrom reads everything from r, typically stdin.
func (s *Storage) ReadFrom(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("error reading input: %w", err)
	}
	return data, nil
}

// HasFile reports whether fn exists. Stat failures other than "not exist"
// (permissions, broken parents) count as absent.
func (s *Storage) HasFile(fn string) bool {
	_, err := os.Stat(fn)
	return err == nil
}
