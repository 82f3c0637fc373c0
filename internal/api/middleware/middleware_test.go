package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/andresuchdata/dgm-dashboard/backend-go/internal/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubParser struct{}

func (stubParser) Parse(token string) (auth.Identity, error) {
	if token == "good" {
		return auth.Identity{Name: "Rina"}, nil
	}
	return auth.Identity{}, errors.New("bad token")
}

func newRouter(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(mw...)
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(DGMKey))
	})
	r.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})
	return r
}

func serve(r http.Handler, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuth(t *testing.T) {
	r := newRouter(Auth(stubParser{}))

	w := serve(r, "/", map[string]string{AuthHeaderKey: "Bearer good"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Rina", w.Body.String())

	w = serve(r, "/", map[string]string{AuthHeaderKey: "Bearer bad"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = serve(r, "/", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "missing bearer token")
}

func TestAdminToken(t *testing.T) {
	r := newRouter(AdminToken("s3cret"))
	assert.Equal(t, http.StatusOK, serve(r, "/", map[string]string{AdminTokenHeader: "s3cret"}).Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, "/", map[string]string{AdminTokenHeader: "nope"}).Code)

	disabled := newRouter(AdminToken(""))
	assert.Equal(t, http.StatusForbidden, serve(disabled, "/", map[string]string{AdminTokenHeader: ""}).Code)
}

func TestRequestID(t *testing.T) {
	r := newRouter(RequestID())

	w := serve(r, "/", nil)
	assert.Len(t, w.Header().Get(RequestIDHeader), 36)

	w = serve(r, "/", map[string]string{RequestIDHeader: "abc-123"})
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

func TestRecoveryAndLogger(t *testing.T) {
	r := newRouter(RequestID(), Logger(), Recovery())

	w := serve(r, "/panic", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, w.Body.String())
}
