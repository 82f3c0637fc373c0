package source

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/andresuchdata/dgm-dashboard/backend-go/internal/drive"
	"github.com/andresuchdata/dgm-dashboard/backend-go/internal/ingest"
)

// driveClient is the part of drive.Service the source needs.
type driveClient interface {
	GetFile(ctx context.Context, fileID string) (*drive.File, error)
	LatestFile(ctx context.Context, folderID string) (*drive.File, error)
	FindFolderByPath(ctx context.Context, path string) (string, error)
	DownloadFile(ctx context.Context, file *drive.File, w io.Writer) error
}

// DriveSource downloads the workbook from Google Drive, either a fixed file
// id or the newest spreadsheet in a folder.
type DriveSource struct {
	client     driveClient
	fileID     string
	folderPath string
	sheet      string
}

func NewDriveSource(client driveClient, fileID, folderPath, sheet string) *DriveSource {
	return &DriveSource{client: client, fileID: fileID, folderPath: folderPath, sheet: sheet}
}

func (s *DriveSource) Name() string {
	if s.fileID != "" {
		return "drive:" + s.fileID
	}
	return "drive:/" + s.folderPath
}

func (s *DriveSource) Fetch(ctx context.Context) (ingest.Table, error) {
	file, err := s.resolve(ctx)
	if err != nil {
		return ingest.Table{}, err
	}

	format := file.Format()
	if format == "" {
		return ingest.Table{}, fmt.Errorf("drive file %s has unsupported type %s", file.Name, file.MimeType)
	}

	var buf bytes.Buffer
	if err := s.client.DownloadFile(ctx, file, &buf); err != nil {
		return ingest.Table{}, err
	}

	if format == "csv" {
		return ingest.ReadCSV(&buf)
	}
	return ingest.ReadXLSX(&buf, s.sheet)
}

func (s *DriveSource) resolve(ctx context.Context) (*drive.File, error) {
	if s.fileID != "" {
		return s.client.GetFile(ctx, s.fileID)
	}

	folderID, err := s.client.FindFolderByPath(ctx, s.folderPath)
	if err != nil {
		return nil, err
	}
	return s.client.LatestFile(ctx, folderID)
}
