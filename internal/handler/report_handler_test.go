package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biblioteca-unival/capacitaciones-api/internal/middleware"
	"github.com/biblioteca-unival/capacitaciones-api/internal/models"
	appErrors "github.com/biblioteca-unival/capacitaciones-api/pkg/errors"
)

type reportServiceMock struct {
	job         *models.ReportJob
	enqueueErr  error
	statusErr   error
	downloadErr error
	filePath    string
	createdBy   string
}

func (m *reportServiceMock) Enqueue(ctx context.Context, createdBy string, req models.CreateReportRequest) (*models.ReportJob, error) {
	m.createdBy = createdBy
	if m.enqueueErr != nil {
		return nil, m.enqueueErr
	}
	return m.job, nil
}

func (m *reportServiceMock) Status(ctx context.Context, id string) (*models.ReportJob, error) {
	if m.statusErr != nil {
		return nil, m.statusErr
	}
	return m.job, nil
}

func (m *reportServiceMock) Download(ctx context.Context, token string) (*os.File, string, error) {
	if m.downloadErr != nil {
		return nil, "", m.downloadErr
	}
	f, err := os.Open(m.filePath)
	return f, "reports/informe.csv", err
}

func TestReportHandlerCreateRecordsUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := &reportServiceMock{job: &models.ReportJob{ID: "abc", Status: models.ReportJobQueued}}
	handler := NewReportHandler(mock)

	body, _ := json.Marshal(models.CreateReportRequest{Type: models.ReportTypeSummary, Format: models.ReportFormatCSV})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/reports", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: 1, Username: "bibliotecaria"})

	handler.Create(c)
	require.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, "bibliotecaria", mock.createdBy)
	assert.Contains(t, w.Body.String(), `"status":"queued"`)
}

func TestReportHandlerStatusNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewReportHandler(&reportServiceMock{
		statusErr: appErrors.Clone(appErrors.ErrNotFound, "el reporte no existe"),
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/reports/nope", nil)
	c.Params = gin.Params{{Key: "id", Value: "nope"}}

	handler.Status(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReportHandlerDownloadServesFile(t *testing.T) {
	gin.SetMode(gin.TestMode)

	path := filepath.Join(t.TempDir(), "informe.csv")
	require.NoError(t, os.WriteFile(path, []byte("Evento;Asistencias\n"), 0o644))

	handler := NewReportHandler(&reportServiceMock{filePath: path})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/reports/download/token", nil)
	c.Params = gin.Params{{Key: "token", Value: "token"}}

	handler.Download(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "informe.csv")
	assert.Contains(t, w.Body.String(), "Evento")
}

func TestReportHandlerDownloadExpired(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewReportHandler(&reportServiceMock{
		downloadErr: appErrors.Clone(appErrors.ErrForbidden, "el enlace de descarga ha expirado"),
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/reports/download/viejo", nil)
	c.Params = gin.Params{{Key: "token", Value: "viejo"}}

	handler.Download(c)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
