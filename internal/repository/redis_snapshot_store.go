package repository

import (
	"context"
	"errors"
	"fmt"

	"EconPull/internal/domain/models"
	domrepo "EconPull/internal/domain/repository"
	"EconPull/pkg/cache"
)

const DefaultSnapshotKey = "calendar:snapshot:current"

// CacheSnapshotStore keeps the snapshot under a single key of a cache.Service,
// normally Redis, so several API replicas share it without a shared disk.
type CacheSnapshotStore struct {
	cache cache.Service
	key   string
}

func NewCacheSnapshotStore(c cache.Service, key string) *CacheSnapshotStore {
	if key == "" {
		key = DefaultSnapshotKey
	}
	return &CacheSnapshotStore{cache: c, key: key}
}

// Write stores the snapshot without expiry; a snapshot is replaced, never aged out.
func (s *CacheSnapshotStore) Write(ctx context.Context, snap *models.CalendarSnapshot) error {
	if err := s.cache.Set(ctx, s.key, snap, 0); err != nil {
		return fmt.Errorf("store snapshot: %w", err)
	}
	return nil
}

func (s *CacheSnapshotStore) Read(ctx context.Context) (*models.CalendarSnapshot, error) {
	var snap models.CalendarSnapshot
	if err := s.cache.Get(ctx, s.key, &snap); err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return nil, domrepo.ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	if snap.Events == nil {
		snap.Events = []models.EconomicEvent{}
	}
	return &snap, nil
}

func (s *CacheSnapshotStore) Close() error { return nil }

var _ domrepo.SnapshotStore = (*CacheSnapshotStore)(nil)
