package source

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/andresuchdata/dgm-dashboard/backend-go/internal/ingest"
)

// valuesGetter reads a range of a spreadsheet.
type valuesGetter interface {
	Get(ctx context.Context, spreadsheetID, readRange string) ([][]interface{}, error)
}

type sheetsAPI struct {
	svc *sheets.Service
}

func (a sheetsAPI) Get(ctx context.Context, spreadsheetID, readRange string) ([][]interface{}, error) {
	resp, err := a.svc.Spreadsheets.Values.Get(spreadsheetID, readRange).
		ValueRenderOption("UNFORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}
	return resp.Values, nil
}

// SheetsSource reads the table straight from a Google Sheets range.
type SheetsSource struct {
	values        valuesGetter
	spreadsheetID string
	readRange     string
}

// NewSheetsSource creates a read-only Sheets client from service account JSON.
func NewSheetsSource(ctx context.Context, credentialsJSON, spreadsheetID, readRange string) (*SheetsSource, error) {
	svc, err := sheets.NewService(ctx,
		option.WithCredentialsJSON([]byte(credentialsJSON)),
		option.WithScopes(sheets.SpreadsheetsReadonlyScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return &SheetsSource{values: sheetsAPI{svc: svc}, spreadsheetID: spreadsheetID, readRange: readRange}, nil
}

func (s *SheetsSource) Name() string {
	return fmt.Sprintf("sheets:%s!%s", s.spreadsheetID, s.readRange)
}

func (s *SheetsSource) Fetch(ctx context.Context) (ingest.Table, error) {
	values, err := s.values.Get(ctx, s.spreadsheetID, s.readRange)
	if err != nil {
		return ingest.Table{}, fmt.Errorf("read sheet range %s: %w", s.readRange, err)
	}
	return ingest.ReadSheetValues(values), nil
}
