package handler

import (
	"context"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/biblioteca-unival/capacitaciones-api/internal/dto"
	"github.com/biblioteca-unival/capacitaciones-api/internal/models"
	appErrors "github.com/biblioteca-unival/capacitaciones-api/pkg/errors"
	"github.com/biblioteca-unival/capacitaciones-api/pkg/response"
)

type attendanceService interface {
	Create(ctx context.Context, req models.CreateAttendanceRequest) (*models.CreateAttendanceResponse, error)
	Grid(ctx context.Context, req dto.GridRequest) (*dto.GridResponse, error)
	Summary(ctx context.Context) (*models.AttendanceSummary, string, error)
	Export(ctx context.Context, req dto.GridRequest, format string) ([]byte, string, string, error)
	Import(ctx context.Context, r io.Reader) (*models.ImportResult, error)
	QRCode(size int) ([]byte, error)
	FindByID(ctx context.Context, id int64) (*models.Attendance, error)
}

// AttendanceHandler exposes registration, the listing grid, bulk import
// and export endpoints.
type AttendanceHandler struct {
	service attendanceService
}

// NewAttendanceHandler builds a new handler.
func NewAttendanceHandler(svc attendanceService) *AttendanceHandler {
	return &AttendanceHandler{service: svc}
}

// Create godoc
// @Summary Register an attendance
// @Description Record one attendee at an event; duplicates by (id, event, date) are rejected
// @Tags Attendances
// @Accept json
// @Produce json
// @Param payload body models.CreateAttendanceRequest true "Attendance payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /attendances [post]
func (h *AttendanceHandler) Create(c *gin.Context) {
	var req models.CreateAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "cuerpo de registro no válido"))
		return
	}

	res, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, res)
}

// Grid godoc
// @Summary Server-side listing grid
// @Description DataTables protocol: paging, global search, per-column filters and sorting
// @Tags Attendances
// @Produce json
// @Success 200 {object} dto.GridResponse
// @Router /attendances/grid [get]
func (h *AttendanceHandler) Grid(c *gin.Context) {
	req := dto.ParseGridRequest(c, len(models.GridColumns))

	res, err := h.service.Grid(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	// DataTables consumes the body directly, without the envelope.
	c.JSON(http.StatusOK, res)
}

// Get godoc
// @Summary Fetch one attendance
// @Tags Attendances
// @Produce json
// @Param id path int true "Attendance ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /attendances/{id} [get]
func (h *AttendanceHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "identificador no válido"))
		return
	}

	attendance, err := h.service.FindByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, attendance, nil)
}

// Summary godoc
// @Summary Headline counters
// @Description Totals shown on the listing page; includes a one-shot maintenance notice when present
// @Tags Attendances
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /attendances/summary [get]
func (h *AttendanceHandler) Summary(c *gin.Context) {
	summary, notice, err := h.service.Summary(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	var meta map[string]interface{}
	if notice != "" {
		meta = map[string]interface{}{"notice": notice}
	}

	response.JSON(c, http.StatusOK, summary, nil, meta)
}

// Export godoc
// @Summary Export the filtered listing
// @Description Streams the current grid filters as an .xlsx workbook or CSV
// @Tags Attendances
// @Produce application/octet-stream
// @Param format query string false "xlsx or csv" default(xlsx)
// @Success 200 {file} binary
// @Router /attendances/export [get]
func (h *AttendanceHandler) Export(c *gin.Context) {
	req := dto.ParseGridRequest(c, len(models.GridColumns))
	format := c.DefaultQuery("format", "xlsx")

	payload, filename, contentType, err := h.service.Export(c.Request.Context(), req, format)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentType, payload)
}

// Import godoc
// @Summary Bulk import attendances
// @Description Loads an .xlsx upload; duplicate rows are skipped and reported
// @Tags Attendances
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Excel workbook"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /attendances/import [post]
func (h *AttendanceHandler) Import(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "debe adjuntar un archivo Excel (.xlsx)"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "no se pudo leer el archivo"))
		return
	}
	defer file.Close()

	result, err := h.service.Import(c.Request.Context(), file)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, result, nil)
}

// QRCode godoc
// @Summary Registration QR code
// @Description PNG pointing at the public registration form
// @Tags Attendances
// @Produce image/png
// @Param size query int false "Image size in pixels" default(256)
// @Success 200 {file} binary
// @Router /attendances/qr [get]
func (h *AttendanceHandler) QRCode(c *gin.Context) {
	size, _ := strconv.Atoi(c.DefaultQuery("size", "256"))

	png, err := h.service.QRCode(size)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}
