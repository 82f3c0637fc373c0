package source

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/andresuchdata/dgm-dashboard/backend-go/internal/config"
	"github.com/andresuchdata/dgm-dashboard/backend-go/internal/drive"
	"github.com/andresuchdata/dgm-dashboard/backend-go/internal/ingest"
	"github.com/andresuchdata/dgm-dashboard/backend-go/internal/storage"
)

// Source fetches the raw financial table from wherever it lives.
type Source interface {
	Name() string
	Fetch(ctx context.Context) (ingest.Table, error)
}

// New builds the Source selected by cfg.Kind. store is only used by the
// object storage kinds and may be nil otherwise.
func New(ctx context.Context, cfg config.SourceConfig, store storage.ObjectStorage) (Source, error) {
	switch cfg.Kind {
	case config.SourceFile:
		return NewFileSource(cfg.FilePath, cfg.Sheet), nil
	case config.SourceDrive:
		creds, err := cfg.GoogleCredentials()
		if err != nil {
			return nil, err
		}
		svc, err := drive.NewService(ctx, creds)
		if err != nil {
			return nil, err
		}
		return NewDriveSource(svc, cfg.DriveFileID, cfg.DriveFolderPath, cfg.Sheet), nil
	case config.SourceSheets:
		creds, err := cfg.GoogleCredentials()
		if err != nil {
			return nil, err
		}
		return NewSheetsSource(ctx, creds, cfg.SpreadsheetID, cfg.SheetRange)
	case config.SourceS3, config.SourceMinio:
		if store == nil {
			return nil, fmt.Errorf("%s source requires object storage", cfg.Kind)
		}
		return NewObjectSource(store, cfg.ObjectKey, cfg.Sheet), nil
	default:
		return nil, fmt.Errorf("unknown source kind %q", cfg.Kind)
	}
}

// decode reads raw workbook bytes in the format implied by name.
func decode(name string, data []byte, sheet string) (ingest.Table, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return ingest.ReadCSV(bytes.NewReader(data))
	default:
		return ingest.ReadXLSX(bytes.NewReader(data), sheet)
	}
}
