package collaborator_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-colaboradores/internal/collaborator"
	collaboratorerrors "go-colaboradores/internal/collaborator/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type apiEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Meta  json.RawMessage `json:"meta"`
	Error *apiError       `json:"error"`
}

type fakeCollaboratorService struct {
	collaborator.Service
	CreateFn func(ctx context.Context, req collaborator.CreateCollaboratorRequest) (collaborator.CollaboratorResponse, error)
	GetAllFn func(ctx context.Context, filter collaborator.ListFilter) ([]collaborator.CollaboratorResponse, error)
	VerifyFn func(ctx context.Context, query string) (collaborator.VerifyResponse, error)
	StatusFn func(ctx context.Context, id string, active bool) (collaborator.CollaboratorResponse, error)
}

func (f *fakeCollaboratorService) Create(ctx context.Context, req collaborator.CreateCollaboratorRequest) (collaborator.CollaboratorResponse, error) {
	return f.CreateFn(ctx, req)
}
func (f *fakeCollaboratorService) GetAll(ctx context.Context, filter collaborator.ListFilter) ([]collaborator.CollaboratorResponse, error) {
	return f.GetAllFn(ctx, filter)
}
func (f *fakeCollaboratorService) Verify(ctx context.Context, query string) (collaborator.VerifyResponse, error) {
	return f.VerifyFn(ctx, query)
}
func (f *fakeCollaboratorService) SetStatus(ctx context.Context, id string, active bool) (collaborator.CollaboratorResponse, error) {
	return f.StatusFn(ctx, id, active)
}

func setupRouter(h *collaborator.Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/collaborators", h.GetAll)
	r.POST("/collaborators", h.Create)
	r.GET("/collaborators/verify", h.Verify)
	r.PATCH("/collaborators/:id/status", h.SetStatus)
	return r
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestCollaboratorHandler_Create(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := &fakeCollaboratorService{
			CreateFn: func(ctx context.Context, req collaborator.CreateCollaboratorRequest) (collaborator.CollaboratorResponse, error) {
				assert.Equal(t, "Ana", req.Name)
				return collaborator.CollaboratorResponse{ID: uuid.NewString(), Number: "COL-000001", Name: req.Name, Active: true}, nil
			},
		}

		w := doRequest(setupRouter(collaborator.NewHandler(svc)), http.MethodPost, "/collaborators", `{"name":"Ana"}`)

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("bad puesto id", func(t *testing.T) {
		w := doRequest(setupRouter(collaborator.NewHandler(&fakeCollaboratorService{})), http.MethodPost, "/collaborators",
			`{"name":"Ana","puesto_id":"abc"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCollaboratorHandler_GetAll_Filters(t *testing.T) {
	svc := &fakeCollaboratorService{
		GetAllFn: func(ctx context.Context, filter collaborator.ListFilter) ([]collaborator.CollaboratorResponse, error) {
			assert.Equal(t, "ana", filter.Query)
			assert.NotNil(t, filter.Active)
			assert.True(t, *filter.Active)
			return []collaborator.CollaboratorResponse{{ID: "1"}, {ID: "2"}, {ID: "3"}}, nil
		},
	}
	r := setupRouter(collaborator.NewHandler(svc))

	w := doRequest(r, http.MethodGet, "/collaborators?q=ana&active=true&page=1&page_size=2", "")

	assert.Equal(t, http.StatusOK, w.Code)
	env := decode(t, w)
	assert.JSONEq(t, `{"total":3,"totalPages":2,"page":1,"pageSize":2}`, string(env.Meta))

	w = doRequest(r, http.MethodGet, "/collaborators?active=maybe", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCollaboratorHandler_Verify(t *testing.T) {
	t.Run("found inactive", func(t *testing.T) {
		svc := &fakeCollaboratorService{
			VerifyFn: func(ctx context.Context, query string) (collaborator.VerifyResponse, error) {
				assert.Equal(t, "COL-0001", query)
				return collaborator.VerifyResponse{Found: true, Active: false}, nil
			},
		}

		w := doRequest(setupRouter(collaborator.NewHandler(svc)), http.MethodGet, "/collaborators/verify?q=COL-0001", "")

		assert.Equal(t, http.StatusOK, w.Code)
		var got collaborator.VerifyResponse
		assert.NoError(t, json.Unmarshal(decode(t, w).Data, &got))
		assert.True(t, got.Found)
		assert.False(t, got.Active)
	})

	t.Run("no match", func(t *testing.T) {
		svc := &fakeCollaboratorService{
			VerifyFn: func(ctx context.Context, query string) (collaborator.VerifyResponse, error) {
				return collaborator.VerifyResponse{}, collaboratorerrors.ErrVerifyNoMatch
			},
		}

		w := doRequest(setupRouter(collaborator.NewHandler(svc)), http.MethodGet, "/collaborators/verify?q=zzz", "")

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "COLLABORATOR_NOT_FOUND", decode(t, w).Error.Code)
	})

	t.Run("empty query", func(t *testing.T) {
		svc := &fakeCollaboratorService{
			VerifyFn: func(ctx context.Context, query string) (collaborator.VerifyResponse, error) {
				return collaborator.VerifyResponse{}, collaboratorerrors.ErrEmptyQuery
			},
		}

		w := doRequest(setupRouter(collaborator.NewHandler(svc)), http.MethodGet, "/collaborators/verify", "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "VALIDATION_ERROR", decode(t, w).Error.Code)
	})
}

func TestCollaboratorHandler_SetStatus_RequiresActive(t *testing.T) {
	w := doRequest(setupRouter(collaborator.NewHandler(&fakeCollaboratorService{})), http.MethodPatch,
		"/collaborators/"+uuid.NewString()+"/status", `{}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
