package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/biblioteca-unival/capacitaciones-api/internal/service"
	"github.com/biblioteca-unival/capacitaciones-api/pkg/response"
)

type retentionService interface {
	Preview(ctx context.Context) (*service.RetentionResult, error)
	Purge(ctx context.Context) (*service.RetentionResult, error)
}

// AdminHandler groups maintenance endpoints for staff.
type AdminHandler struct {
	retention retentionService
}

// NewAdminHandler builds a new handler.
func NewAdminHandler(retention retentionService) *AdminHandler {
	return &AdminHandler{retention: retention}
}

// RetentionPreview godoc
// @Summary Preview a retention purge
// @Description Counts attendance rows older than the trailing year window without deleting anything
// @Tags Admin
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/retention/preview [get]
func (h *AdminHandler) RetentionPreview(c *gin.Context) {
	result, err := h.retention.Preview(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, result, nil)
}

// RetentionPurge godoc
// @Summary Purge rows outside the retention window
// @Tags Admin
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/retention/purge [post]
func (h *AdminHandler) RetentionPurge(c *gin.Context) {
	result, err := h.retention.Purge(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, result, nil)
}
