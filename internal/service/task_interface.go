package service

import (
	"context"
)

// SnapshotStore хранит всю коллекцию одним блобом.
// Отсутствие блоба - repository.ErrNotFound.
type SnapshotStore interface {
	Load(context.Context) ([]byte, error)
	Save(context.Context, []byte) error
	HealthCheck(context.Context) error
}

type Suggester interface {
	RefineDescription(ctx context.Context, title, description string) (string, error)
	SuggestDuration(ctx context.Context, title string) (int, error)
}
