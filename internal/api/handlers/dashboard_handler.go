package handlers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/andresuchdata/dgm-dashboard/backend-go/internal/api/middleware"
	"github.com/andresuchdata/dgm-dashboard/backend-go/internal/domain"
	"github.com/andresuchdata/dgm-dashboard/backend-go/internal/service"
)

// DashboardService is what the dashboard routes need from the service layer.
type DashboardService interface {
	GetDashboard(ctx context.Context, filter domain.DashboardFilter) (*domain.Dashboard, error)
	GetFilterOptions(ctx context.Context, owner string) (*domain.FilterOptions, error)
	ExportCSV(ctx context.Context, filter domain.DashboardFilter, w io.Writer) (int, error)
	Reload(ctx context.Context) error
}

type DashboardHandler struct {
	service DashboardService
}

func NewDashboardHandler(service DashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// parseFilter reads stores and categories as repeated params or comma lists:
//
//	?stores=A&stores=B
//	?stores=A,B
func (h *DashboardHandler) parseFilter(c *gin.Context) domain.DashboardFilter {
	return domain.DashboardFilter{
		Owner:      c.GetString(middleware.DGMKey),
		Stores:     queryList(c, "stores"),
		Categories: queryList(c, "categories"),
	}
}

func queryList(c *gin.Context, param string) []string {
	var values []string
	for _, raw := range c.QueryArray(param) {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				values = append(values, part)
			}
		}
	}
	return values
}

func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	dashboard, err := h.service.GetDashboard(c.Request.Context(), h.parseFilter(c))
	if err != nil {
		errorResponse(c, "failed to build dashboard", err)
		return
	}

	c.JSON(http.StatusOK, dashboard)
}

func (h *DashboardHandler) GetFilterOptions(c *gin.Context) {
	opts, err := h.service.GetFilterOptions(c.Request.Context(), c.GetString(middleware.DGMKey))
	if err != nil {
		errorResponse(c, "failed to fetch filter options", err)
		return
	}

	c.JSON(http.StatusOK, opts)
}

func (h *DashboardHandler) ExportCSV(c *gin.Context) {
	filter := h.parseFilter(c)

	var buf bytes.Buffer
	if _, err := h.service.ExportCSV(c.Request.Context(), filter, &buf); err != nil {
		errorResponse(c, "failed to export report", err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, service.ExportFileName(filter.Owner)))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

func (h *DashboardHandler) Reload(c *gin.Context) {
	if err := h.service.Reload(c.Request.Context()); err != nil {
		errorResponse(c, "failed to reload source", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "reloaded"})
}
