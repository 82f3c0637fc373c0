package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/andresuchdata/dgm-dashboard/backend-go/internal/auth"
	"github.com/andresuchdata/dgm-dashboard/backend-go/internal/cache"
	"github.com/andresuchdata/dgm-dashboard/backend-go/internal/config"
	"github.com/andresuchdata/dgm-dashboard/backend-go/internal/domain"
	"github.com/andresuchdata/dgm-dashboard/backend-go/internal/service"
	"github.com/andresuchdata/dgm-dashboard/backend-go/internal/source"
)

func newLocalService(c *cli.Context) (*service.DashboardService, error) {
	mapping, err := config.LoadMapping(c.String("mapping"))
	if err != nil {
		return nil, err
	}

	records := source.NewRepository(source.NewFileSource(c.String("file"), c.String("sheet")), mapping)
	if err := records.Load(c.Context); err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", c.String("file"), err)
	}

	return service.NewDashboardService(records, cache.NewNoopDashboardCache()), nil
}

func filterFromFlags(c *cli.Context) domain.DashboardFilter {
	return domain.DashboardFilter{
		Owner:      c.String("dgm"),
		Stores:     splitValues(c.StringSlice("stores")),
		Categories: splitValues(c.StringSlice("categories")),
	}
}

func splitValues(raw []string) []string {
	var out []string
	for _, v := range raw {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func runSummary(c *cli.Context) error {
	svc, err := newLocalService(c)
	if err != nil {
		return err
	}

	dashboard, err := svc.GetDashboard(c.Context, filterFromFlags(c))
	if err != nil {
		return err
	}

	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(dashboard)
}

func runExport(c *cli.Context) (err error) {
	svc, err := newLocalService(c)
	if err != nil {
		return err
	}

	var w io.Writer = c.App.Writer
	if out := c.String("out"); out != "" {
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", out, err)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("failed to close %s: %w", out, cerr)
			}
		}()
		w = f
	}

	n, err := svc.ExportCSV(c.Context, filterFromFlags(c), w)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.ErrWriter, "exported %d rows\n", n)
	return nil
}

func runHashPassword(c *cli.Context) error {
	hash, err := auth.HashPassword(c.String("password"))
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, hash)
	return nil
}
