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

type catalogService interface {
	List(ctx context.Context) ([]models.CatalogItem, error)
	ActiveOptions(ctx context.Context) ([]models.CatalogOption, error)
	Create(ctx context.Context, req models.CreateCatalogItemRequest) (*models.CatalogItem, error)
	Toggle(ctx context.Context, id int64) (*models.CatalogItem, error)
	Delete(ctx context.Context, id int64) error
}

// CatalogHandler serves one catalog (programs or modalities). The same
// handler is mounted twice under different route groups.
type CatalogHandler struct {
	service catalogService
}

// NewCatalogHandler builds a new handler.
func NewCatalogHandler(svc catalogService) *CatalogHandler {
	return &CatalogHandler{service: svc}
}

// List godoc
// @Summary List catalog entries
// @Description Every entry, active or not, for the admin screen
// @Tags Catalogs
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /catalogs [get]
func (h *CatalogHandler) List(c *gin.Context) {
	items, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, items, nil)
}

// Options godoc
// @Summary Active entries for form selects
// @Tags Catalogs
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /catalogs/options [get]
func (h *CatalogHandler) Options(c *gin.Context) {
	options, err := h.service.ActiveOptions(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, options, nil)
}

// Create godoc
// @Summary Add a catalog entry
// @Tags Catalogs
// @Accept json
// @Produce json
// @Param payload body models.CreateCatalogItemRequest true "Catalog entry"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /catalogs [post]
func (h *CatalogHandler) Create(c *gin.Context) {
	var req models.CreateCatalogItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "cuerpo no válido"))
		return
	}

	item, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, item)
}

// Toggle godoc
// @Summary Flip an entry's active flag
// @Tags Catalogs
// @Produce json
// @Param id path int true "Entry ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /catalogs/{id}/toggle [patch]
func (h *CatalogHandler) Toggle(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "identificador no válido"))
		return
	}

	item, err := h.service.Toggle(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, item, nil)
}

// Delete godoc
// @Summary Remove an unused entry
// @Description Entries referenced by attendances cannot be removed, only deactivated
// @Tags Catalogs
// @Produce json
// @Param id path int true "Entry ID"
// @Success 204 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /catalogs/{id} [delete]
func (h *CatalogHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "identificador no válido"))
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
