package rbac_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-colaboradores/internal/domain"
	"go-colaboradores/internal/middleware"
	"go-colaboradores/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeService struct {
	EnforceFn     func(req domain.EnforceRequest) (bool, error)
	PermissionsFn func(role string) ([]domain.PermissionResponse, error)
}

func (f *fakeService) Enforce(req domain.EnforceRequest) (bool, error) { return f.EnforceFn(req) }
func (f *fakeService) Permissions(role string) ([]domain.PermissionResponse, error) {
	return f.PermissionsFn(role)
}

type envelope struct {
	Ok   bool            `json:"ok"`
	Data json.RawMessage `json:"data"`
}

func setupRouter(h *rbac.Handler, role string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if role != "" {
			c.Set(middleware.ContextRole, role)
		}
		c.Next()
	})
	r.POST("/rbac/enforce", h.Enforce)
	r.GET("/rbac/permissions/me", h.Me)
	return r
}

func TestHandler_Enforce(t *testing.T) {
	t.Run("allowed", func(t *testing.T) {
		svc := &fakeService{EnforceFn: func(req domain.EnforceRequest) (bool, error) {
			return req.Resource == "attendance" && req.Action == "check_in", nil
		}}
		r := setupRouter(rbac.NewHandler(svc), domain.RoleAdmin)

		req := httptest.NewRequest(http.MethodPost, "/rbac/enforce",
			strings.NewReader(`{"role":"usuario","resource":"attendance","action":"check_in"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var env envelope
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
		var resp domain.EnforceResponse
		assert.NoError(t, json.Unmarshal(env.Data, &resp))
		assert.True(t, resp.Allowed)
	})

	t.Run("unknown role", func(t *testing.T) {
		r := setupRouter(rbac.NewHandler(&fakeService{}), domain.RoleAdmin)

		req := httptest.NewRequest(http.MethodPost, "/rbac/enforce",
			strings.NewReader(`{"role":"root","resource":"attendance","action":"check_in"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("enforcer failure", func(t *testing.T) {
		svc := &fakeService{EnforceFn: func(domain.EnforceRequest) (bool, error) { return false, errors.New("boom") }}
		r := setupRouter(rbac.NewHandler(svc), domain.RoleAdmin)

		req := httptest.NewRequest(http.MethodPost, "/rbac/enforce",
			strings.NewReader(`{"role":"editor","resource":"puesto","action":"read"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestHandler_Me(t *testing.T) {
	svc := &fakeService{PermissionsFn: func(role string) ([]domain.PermissionResponse, error) {
		assert.Equal(t, domain.RoleEditor, role)
		return []domain.PermissionResponse{{Resource: "puesto", Action: "read"}}, nil
	}}

	w := httptest.NewRecorder()
	setupRouter(rbac.NewHandler(svc), domain.RoleEditor).
		ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/rbac/permissions/me", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	setupRouter(rbac.NewHandler(svc), "").
		ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/rbac/permissions/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
