package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"
	"unicode"

	"github.com/rs/zerolog/log"

	"github.com/andresuchdata/dgm-dashboard/backend-go/internal/analytics"
	"github.com/andresuchdata/dgm-dashboard/backend-go/internal/cache"
	"github.com/andresuchdata/dgm-dashboard/backend-go/internal/domain"
	"github.com/andresuchdata/dgm-dashboard/backend-go/internal/ingest"
	"github.com/andresuchdata/dgm-dashboard/backend-go/internal/storage"
)

// RecordStore is the shared, read-only record set the dashboard is computed from.
type RecordStore interface {
	Records(ctx context.Context) ([]domain.Record, error)
	Reload(ctx context.Context) error
	Mapping() domain.ColumnMapping
}

type DashboardService struct {
	records RecordStore
	builder *analytics.Builder
	cache   cache.DashboardCache

	archive       storage.ObjectStorage
	archivePrefix string
	now           func() time.Time
}

func NewDashboardService(records RecordStore, cacheImpl cache.DashboardCache) *DashboardService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopDashboardCache()
	}
	return &DashboardService{
		records: records,
		builder: analytics.NewBuilder(records.Mapping()),
		cache:   cacheImpl,
		now:     time.Now,
	}
}

// EnableArchive makes ExportCSV also upload a timestamped copy of every
// export under prefix.
func (s *DashboardService) EnableArchive(store storage.ObjectStorage, prefix string) {
	s.archive = store
	s.archivePrefix = strings.Trim(prefix, "/")
}

// GetDashboard computes the full dashboard for one DGM and selection.
func (s *DashboardService) GetDashboard(ctx context.Context, filter domain.DashboardFilter) (*domain.Dashboard, error) {
	filter = filter.Normalized()

	if dashboard, ok, err := s.cache.GetDashboard(ctx, filter); err == nil && ok {
		dashboard.Filter = filter
		return dashboard, nil
	} else if err != nil {
		log.Warn().Err(err).Str("dgm", filter.Owner).Msg("dashboard: cache get failed")
	}

	owned, err := s.ownedRecords(ctx, filter.Owner)
	if err != nil {
		return nil, err
	}
	selected := applySelection(owned, filter)

	summary, err := s.builder.Build(selected)
	if err != nil {
		return nil, fmt.Errorf("build summary: %w", err)
	}

	dashboard := &domain.Dashboard{
		DGM:        filter.Owner,
		StoreCount: countStores(selected),
		Summary:    *summary,
		Growth:     analytics.StoreGrowth(selected),
		Filter:     filter,
	}

	if len(summary.Stores) > 0 {
		insights, err := analytics.SelectInsights(summary.Portfolio, summary.Stores)
		if err != nil {
			return nil, fmt.Errorf("select insights: %w", err)
		}
		dashboard.Insights = insights
	}

	if err := s.cache.SetDashboard(ctx, filter, dashboard); err != nil {
		log.Warn().Err(err).Str("dgm", filter.Owner).Msg("dashboard: cache set failed")
	}

	log.Debug().
		Str("dgm", filter.Owner).
		Int("records", len(selected)).
		Bool("no_data", summary.NoData).
		Msg("dashboard computed")

	return dashboard, nil
}

// GetFilterOptions lists the DGM's stores and categories in the order they
// first appear in the sheet.
func (s *DashboardService) GetFilterOptions(ctx context.Context, owner string) (*domain.FilterOptions, error) {
	owner = strings.TrimSpace(owner)

	if opts, ok, err := s.cache.GetFilterOptions(ctx, owner); err == nil && ok {
		return opts, nil
	} else if err != nil {
		log.Warn().Err(err).Str("dgm", owner).Msg("dashboard: cache get filter options failed")
	}

	owned, err := s.ownedRecords(ctx, owner)
	if err != nil {
		return nil, err
	}

	opts := &domain.FilterOptions{
		Stores:     distinct(owned, domain.DimensionStore),
		Categories: distinct(owned, domain.DimensionCategory),
	}

	if err := s.cache.SetFilterOptions(ctx, owner, opts); err != nil {
		log.Warn().Err(err).Str("dgm", owner).Msg("dashboard: cache set filter options failed")
	}

	return opts, nil
}

// ExportCSV writes the selected raw rows, header first, and returns how many
// rows were written.
func (s *DashboardService) ExportCSV(ctx context.Context, filter domain.DashboardFilter, w io.Writer) (int, error) {
	filter = filter.Normalized()

	owned, err := s.ownedRecords(ctx, filter.Owner)
	if err != nil {
		return 0, err
	}
	selected := applySelection(owned, filter)

	var buf bytes.Buffer
	if err := ingest.WriteCSV(&buf, selected, s.records.Mapping()); err != nil {
		return 0, fmt.Errorf("write export: %w", err)
	}

	if s.archive != nil {
		s.archiveExport(ctx, filter.Owner, buf.Bytes())
	}

	if _, err := w.Write(buf.Bytes()); err != nil {
		return 0, fmt.Errorf("write export: %w", err)
	}
	return len(selected), nil
}

// Reload re-reads the source and drops every cached dashboard.
func (s *DashboardService) Reload(ctx context.Context) error {
	if err := s.records.Reload(ctx); err != nil {
		return err
	}
	if err := s.cache.InvalidateAll(ctx); err != nil {
		log.Warn().Err(err).Msg("dashboard: cache invalidation failed")
	}
	return nil
}

func (s *DashboardService) archiveExport(ctx context.Context, dgm string, data []byte) {
	name := strings.TrimSuffix(ExportFileName(dgm), ".csv")
	key := path.Join(s.archivePrefix, fmt.Sprintf("%s_%s.csv", name, s.now().UTC().Format("20060102T150405Z")))

	if err := s.archive.UploadObject(ctx, key, data); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("dashboard: export archive failed")
		return
	}
	log.Info().Str("key", key).Int("bytes", len(data)).Msg("dashboard: export archived")
}

// ExportFileName is the download name of a DGM's CSV export.
func ExportFileName(dgm string) string {
	safe := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' {
			return r
		}
		return '_'
	}, strings.TrimSpace(dgm))
	return fmt.Sprintf("financial_report_%s.csv", safe)
}

func (s *DashboardService) ownedRecords(ctx context.Context, owner string) ([]domain.Record, error) {
	if owner == "" {
		return nil, domain.ErrNoOwnerData
	}

	records, err := s.records.Records(ctx)
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}

	ownerOnly := domain.DashboardFilter{Owner: owner}
	owned := make([]domain.Record, 0)
	for _, rec := range records {
		if ownerOnly.Matches(rec) {
			owned = append(owned, rec)
		}
	}
	if len(owned) == 0 {
		return nil, domain.ErrNoOwnerData
	}
	return owned, nil
}

func applySelection(records []domain.Record, filter domain.DashboardFilter) []domain.Record {
	selected := make([]domain.Record, 0, len(records))
	for _, rec := range records {
		if filter.Matches(rec) {
			selected = append(selected, rec)
		}
	}
	return selected
}

func countStores(records []domain.Record) int {
	return len(distinct(records, domain.DimensionStore))
}

func distinct(records []domain.Record, d domain.Dimension) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, rec := range records {
		key := rec.Key(d)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, key)
	}
	return out
}
