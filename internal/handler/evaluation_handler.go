package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/biblioteca-unival/capacitaciones-api/internal/models"
	appErrors "github.com/biblioteca-unival/capacitaciones-api/pkg/errors"
	"github.com/biblioteca-unival/capacitaciones-api/pkg/response"
)

type evaluationService interface {
	Context(ctx context.Context, attendanceID int64) (*models.Attendance, error)
	Create(ctx context.Context, req models.CreateEvaluationRequest) (*models.Evaluation, error)
}

// EvaluationHandler exposes the post-event evaluation form endpoints.
type EvaluationHandler struct {
	service evaluationService
}

// NewEvaluationHandler builds a new handler.
func NewEvaluationHandler(svc evaluationService) *EvaluationHandler {
	return &EvaluationHandler{service: svc}
}

// Context godoc
// @Summary Evaluation form context
// @Description Returns the attendance shown above the evaluation form
// @Tags Evaluations
// @Produce json
// @Param attendance_id path int true "Attendance ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /evaluations/context/{attendance_id} [get]
func (h *EvaluationHandler) Context(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("attendance_id"), 10, 64)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "identificador no válido"))
		return
	}

	attendance, err := h.service.Context(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, attendance, nil)
}

// Create godoc
// @Summary Submit an evaluation
// @Description One evaluation per attendance; group visits are exempt
// @Tags Evaluations
// @Accept json
// @Produce json
// @Param payload body models.CreateEvaluationRequest true "Evaluation payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /evaluations [post]
func (h *EvaluationHandler) Create(c *gin.Context) {
	var req models.CreateEvaluationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "cuerpo de evaluación no válido"))
		return
	}

	evaluation, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, evaluation)
}
