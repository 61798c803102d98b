package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/biblioteca-unival/capacitaciones-api/internal/models"
	appErrors "github.com/biblioteca-unival/capacitaciones-api/pkg/errors"
	"github.com/biblioteca-unival/capacitaciones-api/pkg/response"
)

type investmentService interface {
	ListInstitutional(ctx context.Context) ([]models.InstitutionalInvestment, error)
	CreateInstitutional(ctx context.Context, req models.CreateInstitutionalInvestmentRequest) (*models.InstitutionalInvestment, error)
	ListPrograms(ctx context.Context) ([]models.ProgramInvestment, error)
	CreateProgram(ctx context.Context, req models.CreateProgramInvestmentRequest) (*models.ProgramInvestment, error)
}

// InvestmentHandler exposes the yearly investment registers.
type InvestmentHandler struct {
	service investmentService
}

// NewInvestmentHandler builds a new handler.
func NewInvestmentHandler(svc investmentService) *InvestmentHandler {
	return &InvestmentHandler{service: svc}
}

// ListInstitutional godoc
// @Summary List institutional investments
// @Tags Investments
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /investments/institutional [get]
func (h *InvestmentHandler) ListInstitutional(c *gin.Context) {
	rows, err := h.service.ListInstitutional(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, rows, nil)
}

// CreateInstitutional godoc
// @Summary Record one year's institutional spend
// @Tags Investments
// @Accept json
// @Produce json
// @Param payload body models.CreateInstitutionalInvestmentRequest true "Yearly figures"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /investments/institutional [post]
func (h *InvestmentHandler) CreateInstitutional(c *gin.Context) {
	var req models.CreateInstitutionalInvestmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "cuerpo no válido"))
		return
	}

	inv, err := h.service.CreateInstitutional(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, inv)
}

// ListPrograms godoc
// @Summary List per-program investments
// @Tags Investments
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /investments/programs [get]
func (h *InvestmentHandler) ListPrograms(c *gin.Context) {
	rows, err := h.service.ListPrograms(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, rows, nil)
}

// CreateProgram godoc
// @Summary Record one program's yearly acquisitions
// @Tags Investments
// @Accept json
// @Produce json
// @Param payload body models.CreateProgramInvestmentRequest true "Program figures"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /investments/programs [post]
func (h *InvestmentHandler) CreateProgram(c *gin.Context) {
	var req models.CreateProgramInvestmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "cuerpo no válido"))
		return
	}

	inv, err := h.service.CreateProgram(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, inv)
}
