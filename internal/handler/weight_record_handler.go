package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vacuno/ganado-api/internal/dto"
	"github.com/vacuno/ganado-api/internal/service"
	appErrors "github.com/vacuno/ganado-api/pkg/errors"
	"github.com/vacuno/ganado-api/pkg/response"
)

// WeightRecordHandler exposes per-animal weight history endpoints.
type WeightRecordHandler struct {
	records *service.WeightRecordService
}

// NewWeightRecordHandler constructs a WeightRecordHandler.
func NewWeightRecordHandler(records *service.WeightRecordService) *WeightRecordHandler {
	return &WeightRecordHandler{records: records}
}

// History godoc
// @Summary Weight history for an animal
// @Tags weight-records
// @Produce json
// @Security BearerAuth
// @Param id path string true "cattle id"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /cattle/{id}/weight-records [get]
func (h *WeightRecordHandler) History(c *gin.Context) {
	records, err := h.records.History(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.NewWeightHistoryResponse(records), nil)
}

// Create godoc
// @Summary Log a weight measurement for an animal
// @Tags weight-records
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "cattle id"
// @Param payload body dto.CreateWeightRecordRequest true "measurement payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /cattle/{id}/weight-records [post]
func (h *WeightRecordHandler) Create(c *gin.Context) {
	var req dto.CreateWeightRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}

	record, err := h.records.Create(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.NewWeightRecordResponse(record, nil))
}

// Update godoc
// @Summary Correct a stored measurement
// @Tags weight-records
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "record id"
// @Param payload body dto.UpdateWeightRecordRequest true "correction payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /weight-records/{id} [patch]
func (h *WeightRecordHandler) Update(c *gin.Context) {
	var req dto.UpdateWeightRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}

	record, err := h.records.UpdateMeasurement(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.NewWeightRecordResponse(record, nil), nil)
}
