package source

import (
	"context"
	"fmt"
	"os"

	"github.com/andresuchdata/dgm-dashboard/backend-go/internal/ingest"
)

// FileSource reads a local .xlsx or .csv file.
type FileSource struct {
	path  string
	sheet string
}

func NewFileSource(path, sheet string) *FileSource {
	return &FileSource{path: path, sheet: sheet}
}

func (s *FileSource) Name() string {
	return "file:" + s.path
}

func (s *FileSource) Fetch(ctx context.Context) (ingest.Table, error) {
	if err := ctx.Err(); err != nil {
		return ingest.Table{}, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return ingest.Table{}, fmt.Errorf("failed to read %s: %w", s.path, err)
	}
	return decode(s.path, data, s.sheet)
}
