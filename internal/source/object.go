package source

import (
	"context"

	"github.com/andresuchdata/dgm-dashboard/backend-go/internal/ingest"
	"github.com/andresuchdata/dgm-dashboard/backend-go/internal/storage"
)

// ObjectSource reads the workbook from S3-compatible object storage.
type ObjectSource struct {
	store storage.ObjectStorage
	key   string
	sheet string
}

func NewObjectSource(store storage.ObjectStorage, key, sheet string) *ObjectSource {
	return &ObjectSource{store: store, key: key, sheet: sheet}
}

func (s *ObjectSource) Name() string {
	return "object:" + s.key
}

func (s *ObjectSource) Fetch(ctx context.Context) (ingest.Table, error) {
	data, err := s.store.GetObject(ctx, s.key)
	if err != nil {
		return ingest.Table{}, err
	}
	return decode(s.key, data, s.sheet)
}
