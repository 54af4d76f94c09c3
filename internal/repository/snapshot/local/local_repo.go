package local

import (
	"context"
	"fmt"
	repo "focusFlow/internal/repository"
	"os"
	"path/filepath"
	"sync"
)

// Storage хранит снимок файлом на локальном диске
type Storage struct {
	path string
	mu   sync.RWMutex
}

func New(baseDir, key string) (*Storage, error) {
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("путь к каталогу: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("создание каталога: %w", err)
	}
	return &Storage{path: filepath.Join(abs, filepath.Base(filepath.Clean(key))+".json")}, nil
}

func (s *Storage) Path() string {
	return s.path
}

func (s *Storage) Load(_ context.Context) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", s.path, repo.ErrNotFound)
		}
		return nil, fmt.Errorf("чтение %s: %w", s.path, err)
	}
	return data, nil
}

// запись через временный файл и rename
func (s *Storage) Save(_ context.Context, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("запись временного файла: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("переименование временного файла: %w", err)
	}
	return nil
}

func (s *Storage) HealthCheck(_ context.Context) error {
	dir := filepath.Dir(s.path)
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("проверка каталога: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s не каталог", dir)
	}
	return nil
}

func (s *Storage) Close() {}
