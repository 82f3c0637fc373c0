package source

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/andresuchdata/dgm-dashboard/backend-go/internal/config"
	"github.com/andresuchdata/dgm-dashboard/backend-go/internal/domain"
	"github.com/andresuchdata/dgm-dashboard/backend-go/internal/drive"
	"github.com/andresuchdata/dgm-dashboard/backend-go/internal/ingest"
	"github.com/andresuchdata/dgm-dashboard/backend-go/internal/storage"
)

func csvFixture(rows ...string) string {
	header := strings.Join(domain.DefaultColumnMapping().Columns(), ",")
	return header + "\n" + strings.Join(rows, "\n") + "\n"
}

// csvRow fills every metric column with the same cy/ly values.
func csvRow(store, category, owner, cy, ly string) string {
	cells := []string{store, category, owner}
	for range domain.AllMetrics() {
		cells = append(cells, cy, ly)
	}
	return strings.Join(cells, ",")
}

func xlsxFixture(t *testing.T) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetName("Sheet1", ingest.DefaultSheet))

	header := make([]interface{}, 0)
	for _, col := range domain.DefaultColumnMapping().Columns() {
		header = append(header, col)
	}
	require.NoError(t, f.SetSheetRow(ingest.DefaultSheet, "A1", &header))

	row := []interface{}{"Store A", "Food", "Rina"}
	for range domain.AllMetrics() {
		row = append(row, 100, 80)
	}
	require.NoError(t, f.SetSheetRow(ingest.DefaultSheet, "A2", &row))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

type stubStore struct {
	objects map[string][]byte
}

func (s *stubStore) ListObjects(ctx context.Context, prefix string) ([]storage.ObjectInfo, error) {
	return nil, nil
}

func (s *stubStore) GetObject(ctx context.Context, key string) ([]byte, error) {
	data, ok := s.objects[key]
	if !ok {
		return nil, errors.New("no such key")
	}
	return data, nil
}

func (s *stubStore) DownloadObject(ctx context.Context, key, destPath string) error {
	return nil
}

func (s *stubStore) UploadObject(ctx context.Context, key string, data []byte) error {
	s.objects[key] = data
	return nil
}

func TestFileSource_CSVAndXLSX(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "report.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(csvFixture(csvRow("Store A", "Food", "Rina", "1", "2"))), 0o600))
	xlsxPath := filepath.Join(dir, "report.xlsx")
	require.NoError(t, os.WriteFile(xlsxPath, xlsxFixture(t), 0o600))

	for _, path := range []string{csvPath, xlsxPath} {
		table, err := NewFileSource(path, "").Fetch(context.Background())
		require.NoError(t, err, path)
		assert.Equal(t, 1, table.Len(), path)
		assert.Equal(t, "Store Name", table.Header[0], path)
	}

	_, err := NewFileSource(filepath.Join(dir, "missing.xlsx"), "").Fetch(context.Background())
	assert.Error(t, err)
}

func TestObjectSource(t *testing.T) {
	store := &stubStore{objects: map[string][]byte{"reports/dgm.xlsx": xlsxFixture(t)}}

	src := NewObjectSource(store, "reports/dgm.xlsx", "")
	assert.Equal(t, "object:reports/dgm.xlsx", src.Name())

	table, err := src.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, table.Len())

	_, err = NewObjectSource(store, "missing.xlsx", "").Fetch(context.Background())
	assert.Error(t, err)
}

type stubDrive struct {
	files   map[string]*drive.File
	content map[string][]byte
	folders map[string]string
	latest  map[string]*drive.File
}

func (d *stubDrive) GetFile(ctx context.Context, fileID string) (*drive.File, error) {
	if f, ok := d.files[fileID]; ok {
		return f, nil
	}
	return nil, errors.New("not found")
}

func (d *stubDrive) LatestFile(ctx context.Context, folderID string) (*drive.File, error) {
	if f, ok := d.latest[folderID]; ok {
		return f, nil
	}
	return nil, drive.ErrNoFile
}

func (d *stubDrive) FindFolderByPath(ctx context.Context, path string) (string, error) {
	if id, ok := d.folders[path]; ok {
		return id, nil
	}
	return "", errors.New("folder not found")
}

func (d *stubDrive) DownloadFile(ctx context.Context, file *drive.File, w io.Writer) error {
	_, err := io.Copy(w, bytes.NewReader(d.content[file.ID]))
	return err
}

func TestDriveSource(t *testing.T) {
	sheet := &drive.File{ID: "f1", Name: "DGM Report", MimeType: drive.MimeSpreadsheet}
	csvFile := &drive.File{ID: "f2", Name: "export.csv", MimeType: drive.MimeCSV}
	pdf := &drive.File{ID: "f3", Name: "notes.pdf", MimeType: "application/pdf"}

	client := &stubDrive{
		files: map[string]*drive.File{"f1": sheet, "f3": pdf},
		content: map[string][]byte{
			"f1": xlsxFixture(t),
			"f2": []byte(csvFixture(csvRow("Store A", "Food", "Rina", "1", "2"), csvRow("Store B", "Food", "Rina", "1", "2"))),
		},
		folders: map[string]string{"Finance/DGM": "folder-1"},
		latest:  map[string]*drive.File{"folder-1": csvFile},
	}

	table, err := NewDriveSource(client, "f1", "", "").Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, table.Len())

	src := NewDriveSource(client, "", "Finance/DGM", "")
	assert.Equal(t, "drive:/Finance/DGM", src.Name())
	table, err = src.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, table.Len())

	_, err = NewDriveSource(client, "f3", "", "").Fetch(context.Background())
	assert.ErrorContains(t, err, "unsupported type")

	_, err = NewDriveSource(client, "", "Other", "").Fetch(context.Background())
	assert.Error(t, err)
}

type stubValues struct {
	values [][]interface{}
	err    error
}

func (s stubValues) Get(ctx context.Context, spreadsheetID, readRange string) ([][]interface{}, error) {
	return s.values, s.err
}

func TestSheetsSource(t *testing.T) {
	src := &SheetsSource{
		values: stubValues{values: [][]interface{}{
			{"Store Name", "Net Sales"},
			{"Store A", 12.5},
		}},
		spreadsheetID: "sheet-id",
		readRange:     "CY_vs_LY_Growth",
	}
	assert.Equal(t, "sheets:sheet-id!CY_vs_LY_Growth", src.Name())

	table, err := src.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Store A", "12.5"}}, table.Rows)

	src.values = stubValues{err: errors.New("quota")}
	_, err = src.Fetch(context.Background())
	assert.ErrorContains(t, err, "quota")
}

func TestNew_SelectsAdapter(t *testing.T) {
	ctx := context.Background()

	src, err := New(ctx, config.SourceConfig{Kind: config.SourceFile, FilePath: "r.xlsx"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &FileSource{}, src)

	src, err = New(ctx, config.SourceConfig{Kind: config.SourceMinio, ObjectKey: "r.xlsx"}, &stubStore{})
	require.NoError(t, err)
	assert.IsType(t, &ObjectSource{}, src)

	_, err = New(ctx, config.SourceConfig{Kind: config.SourceS3, ObjectKey: "r.xlsx"}, nil)
	assert.Error(t, err)

	_, err = New(ctx, config.SourceConfig{Kind: config.SourceDrive, DriveFileID: "x"}, nil)
	assert.Error(t, err)

	_, err = New(ctx, config.SourceConfig{Kind: "ftp"}, nil)
	assert.Error(t, err)
}

type countingSource struct {
	body  atomic.Value
	calls atomic.Int32
}

func (s *countingSource) Name() string { return "counting" }

func (s *countingSource) Fetch(ctx context.Context) (ingest.Table, error) {
	s.calls.Add(1)
	return ingest.ReadCSV(strings.NewReader(s.body.Load().(string)))
}

func TestRepository_LoadOnceAndReload(t *testing.T) {
	src := &countingSource{}
	src.body.Store(csvFixture(csvRow("Store A", "Food", "Rina", "1", "2")))

	repo := NewRepository(src, domain.DefaultColumnMapping())
	assert.True(t, repo.LoadedAt().IsZero())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			records, err := repo.Records(context.Background())
			assert.NoError(t, err)
			assert.Len(t, records, 1)
		}()
	}
	wg.Wait()
	assert.LessOrEqual(t, src.calls.Load(), int32(8))
	calls := src.calls.Load()

	records, err := repo.Records(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Equal(t, calls, src.calls.Load())
	assert.False(t, repo.LoadedAt().IsZero())

	src.body.Store(csvFixture(
		csvRow("Store A", "Food", "Rina", "1", "2"),
		csvRow("Store B", "Food", "Budi", "1", "2"),
	))
	require.NoError(t, repo.Reload(context.Background()))

	records, err = repo.Records(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestRepository_ReloadFailureKeepsRecords(t *testing.T) {
	src := &countingSource{}
	src.body.Store(csvFixture(csvRow("Store A", "Food", "Rina", "1", "2")))
	repo := NewRepository(src, domain.DefaultColumnMapping())
	require.NoError(t, repo.Load(context.Background()))

	src.body.Store("Store Name,Category\nStore A,Food\n")
	err := repo.Reload(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ingest.ErrSchema)

	records, err := repo.Records(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 1)
}
