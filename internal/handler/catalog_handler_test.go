package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biblioteca-unival/capacitaciones-api/internal/models"
	appErrors "github.com/biblioteca-unival/capacitaciones-api/pkg/errors"
)

type catalogServiceMock struct {
	items     []models.CatalogItem
	options   []models.CatalogOption
	createErr error
	deleteErr error
	toggleErr error
}

func (m *catalogServiceMock) List(ctx context.Context) ([]models.CatalogItem, error) {
	return m.items, nil
}

func (m *catalogServiceMock) ActiveOptions(ctx context.Context) ([]models.CatalogOption, error) {
	return m.options, nil
}

func (m *catalogServiceMock) Create(ctx context.Context, req models.CreateCatalogItemRequest) (*models.CatalogItem, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	return &models.CatalogItem{ID: 1, Name: req.Name, Active: true}, nil
}

func (m *catalogServiceMock) Toggle(ctx context.Context, id int64) (*models.CatalogItem, error) {
	if m.toggleErr != nil {
		return nil, m.toggleErr
	}
	return &models.CatalogItem{ID: id, Name: "Derecho", Active: false}, nil
}

func (m *catalogServiceMock) Delete(ctx context.Context, id int64) error {
	return m.deleteErr
}

func TestCatalogHandlerCreate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewCatalogHandler(&catalogServiceMock{})

	body, _ := json.Marshal(models.CreateCatalogItemRequest{Name: "Ingeniería de Sistemas"})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/programs", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.Create(c)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "Ingeniería de Sistemas")
}

func TestCatalogHandlerDeleteInUse(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewCatalogHandler(&catalogServiceMock{
		deleteErr: appErrors.Clone(appErrors.ErrCatalogInUse, "programa \"Derecho\" tiene 12 asistencias asociadas"),
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodDelete, "/programs/3", nil)
	c.Params = gin.Params{{Key: "id", Value: "3"}}

	handler.Delete(c)
	assert.Equal(t, appErrors.ErrCatalogInUse.Status, w.Code)
	assert.Contains(t, w.Body.String(), "12 asistencias")
}

func TestCatalogHandlerToggleBadID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewCatalogHandler(&catalogServiceMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPatch, "/programs/abc/toggle", nil)
	c.Params = gin.Params{{Key: "id", Value: "abc"}}

	handler.Toggle(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCatalogHandlerOptions(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewCatalogHandler(&catalogServiceMock{
		options: []models.CatalogOption{{Value: "Presencial", Label: "Presencial"}},
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/modalities/options", nil)

	handler.Options(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Presencial")
}
