package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vacuno/ganado-api/internal/dto"
	"github.com/vacuno/ganado-api/internal/service"
	appErrors "github.com/vacuno/ganado-api/pkg/errors"
	"github.com/vacuno/ganado-api/pkg/response"
)

// HealthRecordHandler exposes per-animal medical history endpoints.
type HealthRecordHandler struct {
	records *service.HealthRecordService
}

// NewHealthRecordHandler constructs a HealthRecordHandler.
func NewHealthRecordHandler(records *service.HealthRecordService) *HealthRecordHandler {
	return &HealthRecordHandler{records: records}
}

// ListByCattle godoc
// @Summary List health records for an animal
// @Tags health-records
// @Produce json
// @Security BearerAuth
// @Param id path string true "cattle id"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /cattle/{id}/health-records [get]
func (h *HealthRecordHandler) ListByCattle(c *gin.Context) {
	records, err := h.records.ListByCattle(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.NewHealthRecordResponseList(records), nil)
}

// Create godoc
// @Summary Log a medical event for an animal
// @Tags health-records
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "cattle id"
// @Param payload body dto.CreateHealthRecordRequest true "event payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /cattle/{id}/health-records [post]
func (h *HealthRecordHandler) Create(c *gin.Context) {
	var req dto.CreateHealthRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}

	record, err := h.records.Create(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.NewHealthRecordResponse(record))
}

// Get godoc
// @Summary Get one health record
// @Tags health-records
// @Produce json
// @Security BearerAuth
// @Param id path string true "record id"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /health-records/{id} [get]
func (h *HealthRecordHandler) Get(c *gin.Context) {
	record, err := h.records.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.NewHealthRecordResponse(record), nil)
}

// Update godoc
// @Summary Update a health record
// @Tags health-records
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "record id"
// @Param payload body dto.UpdateHealthRecordRequest true "partial update, unrecognized keys ignored"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /health-records/{id} [patch]
func (h *HealthRecordHandler) Update(c *gin.Context) {
	var payload map[string]interface{}
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}

	record, err := h.records.Update(c.Request.Context(), c.Param("id"), payload)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.NewHealthRecordResponse(record), nil)
}

// AssignMedication godoc
// @Summary Record medication on a health record
// @Tags health-records
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "record id"
// @Param payload body dto.AssignMedicationRequest true "medication payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /health-records/{id}/medication [patch]
func (h *HealthRecordHandler) AssignMedication(c *gin.Context) {
	var req dto.AssignMedicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}

	record, err := h.records.AssignMedication(c.Request.Context(), c.Param("id"), req.Medication, req.Dosage)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.NewHealthRecordResponse(record), nil)
}

// AssignProfessional godoc
// @Summary Record the attending professional on a health record
// @Tags health-records
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "record id"
// @Param payload body dto.AssignProfessionalRequest true "professional payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /health-records/{id}/professional [patch]
func (h *HealthRecordHandler) AssignProfessional(c *gin.Context) {
	var req dto.AssignProfessionalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}

	record, err := h.records.AssignProfessional(c.Request.Context(), c.Param("id"), req.Professional)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.NewHealthRecordResponse(record), nil)
}
