package puesto_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-colaboradores/internal/puesto"
	puestoerrors "go-colaboradores/internal/puesto/errors"

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

type fakePuestoService struct {
	CreateFn  func(ctx context.Context, req puesto.CreatePuestoRequest) (puesto.PuestoResponse, error)
	GetAllFn  func(ctx context.Context) ([]puesto.PuestoResponse, error)
	GetByIDFn func(ctx context.Context, id string) (puesto.PuestoResponse, error)
	UpdateFn  func(ctx context.Context, id string, req puesto.UpdatePuestoRequest) (puesto.PuestoResponse, error)
	DeleteFn  func(ctx context.Context, id string) error
}

func (f *fakePuestoService) Create(ctx context.Context, req puesto.CreatePuestoRequest) (puesto.PuestoResponse, error) {
	return f.CreateFn(ctx, req)
}
func (f *fakePuestoService) GetAll(ctx context.Context) ([]puesto.PuestoResponse, error) {
	return f.GetAllFn(ctx)
}
func (f *fakePuestoService) GetByID(ctx context.Context, id string) (puesto.PuestoResponse, error) {
	return f.GetByIDFn(ctx, id)
}
func (f *fakePuestoService) Update(ctx context.Context, id string, req puesto.UpdatePuestoRequest) (puesto.PuestoResponse, error) {
	return f.UpdateFn(ctx, id, req)
}
func (f *fakePuestoService) Delete(ctx context.Context, id string) error {
	return f.DeleteFn(ctx, id)
}

func setupRouter(h *puesto.Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/puestos", h.GetAll)
	r.POST("/puestos", h.Create)
	r.GET("/puestos/:id", h.GetById)
	r.PUT("/puestos/:id", h.Update)
	r.DELETE("/puestos/:id", h.Delete)
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

func TestPuestoHandler_Create(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := &fakePuestoService{
			CreateFn: func(ctx context.Context, req puesto.CreatePuestoRequest) (puesto.PuestoResponse, error) {
				return puesto.PuestoResponse{ID: uuid.NewString(), Name: req.Name}, nil
			},
		}

		w := doRequest(setupRouter(puesto.NewHandler(svc)), http.MethodPost, "/puestos", `{"name":"Chofer"}`)

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("missing name", func(t *testing.T) {
		w := doRequest(setupRouter(puesto.NewHandler(&fakePuestoService{})), http.MethodPost, "/puestos", `{}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestPuestoHandler_GetAll(t *testing.T) {
	svc := &fakePuestoService{
		GetAllFn: func(ctx context.Context) ([]puesto.PuestoResponse, error) {
			return []puesto.PuestoResponse{
				{ID: "1", Name: "Chofer", CollaboratorCount: 2},
				{ID: "2", Name: "Recepcionista"},
			}, nil
		},
	}

	w := doRequest(setupRouter(puesto.NewHandler(svc)), http.MethodGet, "/puestos?q=CHO", "")

	assert.Equal(t, http.StatusOK, w.Code)
	var env apiEnvelope
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	var got []puesto.PuestoResponse
	assert.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Len(t, got, 1)
	assert.Equal(t, int64(2), got[0].CollaboratorCount)
}

func TestPuestoHandler_Delete(t *testing.T) {
	t.Run("in use -> 409", func(t *testing.T) {
		svc := &fakePuestoService{
			DeleteFn: func(ctx context.Context, id string) error { return puestoerrors.ErrPuestoInUse },
		}

		w := doRequest(setupRouter(puesto.NewHandler(svc)), http.MethodDelete, "/puestos/"+uuid.NewString(), "")

		assert.Equal(t, http.StatusConflict, w.Code)
		var env apiEnvelope
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
		assert.Equal(t, "CONFLICT", env.Error.Code)
	})

	t.Run("success", func(t *testing.T) {
		svc := &fakePuestoService{
			DeleteFn: func(ctx context.Context, id string) error { return nil },
		}

		w := doRequest(setupRouter(puesto.NewHandler(svc)), http.MethodDelete, "/puestos/"+uuid.NewString(), "")

		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}
