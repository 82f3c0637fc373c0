package source

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/andresuchdata/dgm-dashboard/backend-go/internal/domain"
	"github.com/andresuchdata/dgm-dashboard/backend-go/internal/ingest"
)

// Repository keeps the parsed records of a Source in memory. The slice it
// hands out is shared and must be treated as read-only; Reload replaces it
// wholesale instead of mutating it.
type Repository struct {
	source  Source
	mapping domain.ColumnMapping

	mu       sync.RWMutex
	records  []domain.Record
	loadedAt time.Time
	loaded   bool

	group singleflight.Group
}

func NewRepository(src Source, mapping domain.ColumnMapping) *Repository {
	return &Repository{source: src, mapping: mapping}
}

// Mapping returns the column mapping records are parsed with.
func (r *Repository) Mapping() domain.ColumnMapping {
	return r.mapping
}

// Records returns the cached records, loading them on first use.
func (r *Repository) Records(ctx context.Context) ([]domain.Record, error) {
	r.mu.RLock()
	if r.loaded {
		records := r.records
		r.mu.RUnlock()
		return records, nil
	}
	r.mu.RUnlock()

	if err := r.Load(ctx); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.records, nil
}

// Load fetches and parses the source once; concurrent callers share the fetch.
func (r *Repository) Load(ctx context.Context) error {
	r.mu.RLock()
	loaded := r.loaded
	r.mu.RUnlock()
	if loaded {
		return nil
	}
	return r.Reload(ctx)
}

// Reload fetches the source again and swaps the cached records. On failure
// the previous records stay in place.
func (r *Repository) Reload(ctx context.Context) error {
	_, err, _ := r.group.Do("load", func() (interface{}, error) {
		started := time.Now()

		table, err := r.source.Fetch(ctx)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", r.source.Name(), err)
		}

		records, err := ingest.ParseTable(table, r.mapping)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", r.source.Name(), err)
		}

		r.mu.Lock()
		r.records = records
		r.loadedAt = time.Now()
		r.loaded = true
		r.mu.Unlock()

		log.Info().
			Str("source", r.source.Name()).
			Int("rows", table.Len()).
			Int("records", len(records)).
			Dur("took", time.Since(started)).
			Msg("Loaded financial records")

		return nil, nil
	})
	return err
}

// LoadedAt reports when the records were last loaded, zero if never.
func (r *Repository) LoadedAt() time.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.loadedAt
}
