package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/biblioteca-unival/capacitaciones-api/internal/models"
	appErrors "github.com/biblioteca-unival/capacitaciones-api/pkg/errors"
	"github.com/biblioteca-unival/capacitaciones-api/pkg/response"
)

type statsService interface {
	Overview(ctx context.Context, filter models.StatsFilter) (*models.StatsOverview, error)
}

// StatsHandler serves the statistics dashboard payload.
type StatsHandler struct {
	service statsService
}

// NewStatsHandler builds a new handler.
func NewStatsHandler(svc statsService) *StatsHandler {
	return &StatsHandler{service: svc}
}

// Overview godoc
// @Summary Statistics dashboard
// @Description Totals, breakdowns, monthly trend and filter options over the trailing year window
// @Tags Statistics
// @Produce json
// @Param event query string false "Filter by event name"
// @Param program query string false "Filter by attendee program"
// @Param date_from query string false "Lower date bound (YYYY-MM-DD)"
// @Param date_to query string false "Upper date bound (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /stats/overview [get]
func (h *StatsHandler) Overview(c *gin.Context) {
	var filter models.StatsFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "filtros no válidos"))
		return
	}

	overview, err := h.service.Overview(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, overview, nil)
}
