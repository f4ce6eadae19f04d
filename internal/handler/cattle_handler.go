package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/vacuno/ganado-api/internal/dto"
	"github.com/vacuno/ganado-api/internal/middleware"
	"github.com/vacuno/ganado-api/internal/models"
	"github.com/vacuno/ganado-api/internal/service"
	appErrors "github.com/vacuno/ganado-api/pkg/errors"
	"github.com/vacuno/ganado-api/pkg/response"
)

// CattleHandler exposes the animal inventory endpoints.
type CattleHandler struct {
	cattle *service.CattleService
}

// NewCattleHandler constructs a CattleHandler.
func NewCattleHandler(cattle *service.CattleService) *CattleHandler {
	return &CattleHandler{cattle: cattle}
}

// List godoc
// @Summary List cattle
// @Tags cattle
// @Produce json
// @Security BearerAuth
// @Param status query string false "filter by lifecycle status"
// @Param owner_id query string false "filter by owner"
// @Param search query string false "match against identifier or name"
// @Param page query int false "page number"
// @Param page_size query int false "page size"
// @Success 200 {object} response.Envelope
// @Router /cattle [get]
func (h *CattleHandler) List(c *gin.Context) {
	filter := models.CattleFilter{
		OwnerID: c.Query("owner_id"),
		Search:  c.Query("search"),
	}
	if raw := c.Query("status"); raw != "" {
		status := models.CattleStatus(raw)
		filter.Status = &status
	}
	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.PageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "20"))

	cattle, total, err := h.cattle.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.NewCattleResponseList(cattle), &models.Pagination{
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalCount: total,
	})
}

// Get godoc
// @Summary Get one animal
// @Tags cattle
// @Produce json
// @Security BearerAuth
// @Param id path string true "cattle id"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /cattle/{id} [get]
func (h *CattleHandler) Get(c *gin.Context) {
	cattle, err := h.cattle.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.NewCattleResponse(cattle), nil)
}

// Create godoc
// @Summary Register an animal
// @Tags cattle
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.CreateCattleRequest true "animal payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /cattle [post]
func (h *CattleHandler) Create(c *gin.Context) {
	var req dto.CreateCattleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}

	cattle, err := h.cattle.Create(c.Request.Context(), middleware.CurrentUserID(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.NewCattleResponse(cattle))
}

// Update godoc
// @Summary Update an animal's descriptive fields
// @Tags cattle
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "cattle id"
// @Param payload body dto.UpdateCattleRequest true "partial update"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /cattle/{id} [patch]
func (h *CattleHandler) Update(c *gin.Context) {
	var req dto.UpdateCattleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}

	cattle, err := h.cattle.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.NewCattleResponse(cattle), nil)
}

// UpdateWeight godoc
// @Summary Correct an animal's current weight
// @Tags cattle
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "cattle id"
// @Param payload body dto.UpdateCattleWeightRequest true "weight payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /cattle/{id}/weight [patch]
func (h *CattleHandler) UpdateWeight(c *gin.Context) {
	var req dto.UpdateCattleWeightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}

	cattle, err := h.cattle.UpdateWeight(c.Request.Context(), c.Param("id"), req.Weight)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.NewCattleResponse(cattle), nil)
}

// UpdateStatus godoc
// @Summary Change an animal's lifecycle status
// @Tags cattle
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "cattle id"
// @Param payload body dto.UpdateCattleStatusRequest true "status payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /cattle/{id}/status [patch]
func (h *CattleHandler) UpdateStatus(c *gin.Context) {
	var req dto.UpdateCattleStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}

	cattle, err := h.cattle.UpdateStatus(c.Request.Context(), c.Param("id"), models.CattleStatus(req.Status))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.NewCattleResponse(cattle), nil)
}

// Delete godoc
// @Summary Delete an animal and its histories
// @Tags cattle
// @Security BearerAuth
// @Param id path string true "cattle id"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /cattle/{id} [delete]
func (h *CattleHandler) Delete(c *gin.Context) {
	if err := h.cattle.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
