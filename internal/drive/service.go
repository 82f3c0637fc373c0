package drive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

const (
	MimeFolder      = "application/vnd.google-apps.folder"
	MimeSpreadsheet = "application/vnd.google-apps.spreadsheet"
	MimeXLSX        = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	MimeCSV         = "text/csv"
)

// ErrNoFile is returned when a folder holds no file of a usable type.
var ErrNoFile = errors.New("no matching file in drive folder")

type Service struct {
	srv *drive.Service
}

func NewService(ctx context.Context, credentialsJSON string) (*Service, error) {
	config, err := google.JWTConfigFromJSON(
		[]byte(credentialsJSON),
		drive.DriveReadonlyScope,
	)
	if err != nil {
		return nil, fmt.Errorf("unable to parse client secret file to config: %w", err)
	}

	srv, err := drive.NewService(ctx, option.WithHTTPClient(config.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve Drive client: %w", err)
	}

	return &Service{srv: srv}, nil
}

type File struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	MimeType     string `json:"mimeType"`
	ModifiedTime string `json:"modifiedTime,omitempty"`
	Size         int64  `json:"size,string,omitempty"`
}

// Format returns "xlsx" or "csv" for files the dashboard can read, "" otherwise.
// Native Google spreadsheets are exported as xlsx.
func (f *File) Format() string {
	switch f.MimeType {
	case MimeSpreadsheet, MimeXLSX:
		return "xlsx"
	case MimeCSV:
		return "csv"
	}
	switch strings.ToLower(filepath.Ext(f.Name)) {
	case ".xlsx":
		return "xlsx"
	case ".csv":
		return "csv"
	}
	return ""
}

func toFile(f *drive.File) *File {
	return &File{
		ID:           f.Id,
		Name:         f.Name,
		MimeType:     f.MimeType,
		ModifiedTime: f.ModifiedTime,
		Size:         f.Size,
	}
}

func (s *Service) GetFile(ctx context.Context, fileID string) (*File, error) {
	f, err := s.srv.Files.Get(fileID).
		Fields("id, name, mimeType, modifiedTime, size").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve file %s: %w", fileID, err)
	}
	return toFile(f), nil
}

// ListFiles returns the non-trashed files of a folder, newest first.
func (s *Service) ListFiles(ctx context.Context, folderID string) ([]*File, error) {
	if folderID == "" {
		folderID = "root"
	}

	result, err := s.srv.Files.List().
		Q(fmt.Sprintf("'%s' in parents and trashed=false", folderID)).
		Fields("files(id, name, mimeType, modifiedTime, size)").
		OrderBy("modifiedTime desc").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve files: %w", err)
	}

	files := make([]*File, 0, len(result.Files))
	for _, f := range result.Files {
		files = append(files, toFile(f))
	}
	return files, nil
}

// LatestFile returns the most recently modified readable file of a folder.
func (s *Service) LatestFile(ctx context.Context, folderID string) (*File, error) {
	files, err := s.ListFiles(ctx, folderID)
	if err != nil {
		return nil, err
	}
	for _, f := range files {
		if f.Format() != "" {
			return f, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNoFile, folderID)
}

// DownloadFile writes the file content to w. Native spreadsheets are
// exported as xlsx since they have no binary content of their own.
func (s *Service) DownloadFile(ctx context.Context, file *File, w io.Writer) error {
	var (
		body io.ReadCloser
		err  error
	)
	if file.MimeType == MimeSpreadsheet {
		resp, exportErr := s.srv.Files.Export(file.ID, MimeXLSX).Context(ctx).Download()
		if resp != nil {
			body = resp.Body
		}
		err = exportErr
	} else {
		resp, getErr := s.srv.Files.Get(file.ID).Context(ctx).Download()
		if resp != nil {
			body = resp.Body
		}
		err = getErr
	}
	if err != nil {
		return fmt.Errorf("unable to download file %s: %w", file.Name, err)
	}
	defer body.Close()

	_, err = io.Copy(w, body)
	return err
}

// FindFolderByPath resolves a slash separated folder path from the drive root.
func (s *Service) FindFolderByPath(ctx context.Context, path string) (string, error) {
	if path == "" {
		return "root", nil
	}

	currentID := "root"
	for _, folder := range strings.Split(path, "/") {
		if folder == "" {
			continue
		}

		result, err := s.srv.Files.List().
			Q(fmt.Sprintf("'%s' in parents and name='%s' and mimeType='%s' and trashed=false",
				currentID, escapeQuery(folder), MimeFolder)).
			Fields("files(id, name)").
			Context(ctx).
			Do()
		if err != nil {
			return "", fmt.Errorf("error finding folder %s: %w", folder, err)
		}

		if len(result.Files) == 0 {
			return "", fmt.Errorf("folder not found: %s", folder)
		}

		currentID = result.Files[0].Id
	}

	return currentID, nil
}

func escapeQuery(v string) string {
	return strings.ReplaceAll(v, "'", `\'`)
}
