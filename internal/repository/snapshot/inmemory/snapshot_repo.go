package inmemory

import (
	"context"
	repo "focusFlow/internal/repository"
	"sync"
)

type SnapshotStorage struct {
	storage map[string][]byte
	mtx     *sync.RWMutex
	key     string
}

func NewSnapshotStorage(key string) *SnapshotStorage {
	return &SnapshotStorage{
		storage: make(map[string][]byte),
		mtx:     &sync.RWMutex{},
		key:     key,
	}
}

func (s *SnapshotStorage) Load(ctx context.Context) ([]byte, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	data, ok := s.storage[s.key]
	if !ok {
		return nil, repo.ErrNotFound
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// снимок заменяется целиком
func (s *SnapshotStorage) Save(ctx context.Context, data []byte) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	stored := make([]byte, len(data))
	copy(stored, data)
	s.storage[s.key] = stored
	return nil
}

func (s *SnapshotStorage) HealthCheck(ctx context.Context) error {
	return nil
}

func (s *SnapshotStorage) Close() {}
