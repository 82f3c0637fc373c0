package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresuchdata/dgm-dashboard/backend-go/internal/api/middleware"
	"github.com/andresuchdata/dgm-dashboard/backend-go/internal/auth"
	"github.com/andresuchdata/dgm-dashboard/backend-go/internal/domain"
	"github.com/andresuchdata/dgm-dashboard/backend-go/internal/ingest"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeService struct {
	lastFilter domain.DashboardFilter
	err        error
	reloaded   bool
}

func (f *fakeService) GetDashboard(_ context.Context, filter domain.DashboardFilter) (*domain.Dashboard, error) {
	f.lastFilter = filter
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Dashboard{DGM: filter.Owner, StoreCount: 2, Filter: filter}, nil
}

func (f *fakeService) GetFilterOptions(_ context.Context, owner string) (*domain.FilterOptions, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.FilterOptions{Stores: []string{"A", "B"}, Categories: []string{"Food"}}, nil
}

func (f *fakeService) ExportCSV(_ context.Context, filter domain.DashboardFilter, w io.Writer) (int, error) {
	f.lastFilter = filter
	if f.err != nil {
		return 0, f.err
	}
	_, err := io.WriteString(w, "DGM,Store\nRina,A\n")
	return 1, err
}

func (f *fakeService) Reload(context.Context) error {
	f.reloaded = true
	return f.err
}

// withDGM stands in for the auth middleware.
func withDGM(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.DGMKey, name)
		c.Next()
	}
}

func dashboardRouter(svc DashboardService) *gin.Engine {
	h := NewDashboardHandler(svc)
	r := gin.New()
	r.Use(withDGM("Rina"))
	r.GET("/dashboard", h.GetDashboard)
	r.GET("/filters", h.GetFilterOptions)
	r.GET("/export", h.ExportCSV)
	r.POST("/reload", h.Reload)
	return r
}

func do(r http.Handler, method, path string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGetDashboardParsesSelection(t *testing.T) {
	svc := &fakeService{}
	r := dashboardRouter(svc)

	w := do(r, http.MethodGet, "/dashboard?stores=A,B&stores=C&categories=Food,%20", nil)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, "Rina", svc.lastFilter.Owner)
	assert.Equal(t, []string{"A", "B", "C"}, svc.lastFilter.Stores)
	assert.Equal(t, []string{"Food"}, svc.lastFilter.Categories)

	var got domain.Dashboard
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "Rina", got.DGM)
}

func TestGetDashboardErrorStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"no owner data", fmt.Errorf("owner %q: %w", "Rina", domain.ErrNoOwnerData), http.StatusNotFound},
		{"schema", &ingest.SchemaError{Missing: []string{"Net Sales CY"}}, http.StatusUnprocessableEntity},
		{"other", errors.New("source down"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := dashboardRouter(&fakeService{err: tt.err})
			w := do(r, http.MethodGet, "/dashboard", nil)
			assert.Equal(t, tt.want, w.Code)

			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.NotEmpty(t, body["error"])
			assert.Equal(t, tt.err.Error(), body["details"])
		})
	}
}

func TestSchemaErrorListsMissingColumns(t *testing.T) {
	r := dashboardRouter(&fakeService{err: &ingest.SchemaError{Missing: []string{"Net Sales CY", "DGM"}}})
	w := do(r, http.MethodGet, "/filters", nil)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), `"missing_columns":["Net Sales CY","DGM"]`)
}

func TestExportCSV(t *testing.T) {
	svc := &fakeService{}
	r := dashboardRouter(svc)

	w := do(r, http.MethodGet, "/export?categories=Food", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="financial_report_Rina.csv"`, w.Header().Get("Content-Disposition"))
	assert.True(t, strings.HasPrefix(w.Body.String(), "DGM,Store\n"))
	assert.Equal(t, []string{"Food"}, svc.lastFilter.Categories)
}

func TestReload(t *testing.T) {
	svc := &fakeService{}
	w := do(dashboardRouter(svc), http.MethodPost, "/reload", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, svc.reloaded)
}

type stubAuthenticator struct{}

func (stubAuthenticator) Authenticate(_ context.Context, name, secret string) (auth.Identity, error) {
	if name == "Rina" && secret == "s3cret" {
		return auth.Identity{Name: name}, nil
	}
	return auth.Identity{}, auth.ErrInvalidCredentials
}

type stubIssuer struct {
	expires time.Time
}

func (s stubIssuer) Issue(id auth.Identity) (string, time.Time, error) {
	return "token-" + id.Name, s.expires, nil
}

func TestLogin(t *testing.T) {
	expires := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	h := NewAuthHandler(stubAuthenticator{}, stubIssuer{expires: expires})
	r := gin.New()
	r.POST("/login", h.Login)

	w := do(r, http.MethodPost, "/login", strings.NewReader(`{"username":" Rina ","password":"s3cret"}`))
	require.Equal(t, http.StatusOK, w.Code)

	var got loginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "token-Rina", got.Token)
	assert.Equal(t, "Rina", got.DGM)
	assert.True(t, expires.Equal(got.ExpiresAt))

	w = do(r, http.MethodPost, "/login", strings.NewReader(`{"username":"Rina","password":"nope"}`))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(r, http.MethodPost, "/login", strings.NewReader(`{"username":"Rina"}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
