package handler

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/vacuno/ganado-api/internal/dto"
	"github.com/vacuno/ganado-api/internal/middleware"
	"github.com/vacuno/ganado-api/internal/service"
	appErrors "github.com/vacuno/ganado-api/pkg/errors"
	"github.com/vacuno/ganado-api/pkg/response"
)

// ReportHandler exposes asynchronous report endpoints.
type ReportHandler struct {
	reports *service.ReportService
	exports *service.ExportService
}

// NewReportHandler constructs a ReportHandler.
func NewReportHandler(reports *service.ReportService, exports *service.ExportService) *ReportHandler {
	return &ReportHandler{reports: reports, exports: exports}
}

// Create godoc
// @Summary Request an asynchronous report
// @Tags reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.CreateReportRequest true "report request"
// @Success 202 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /reports [post]
func (h *ReportHandler) Create(c *gin.Context) {
	var req dto.CreateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}

	report, err := h.reports.Create(c.Request.Context(), middleware.CurrentUserID(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusAccepted, dto.NewReportResponse(report), nil)
}

// List godoc
// @Summary List the caller's reports
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param limit query int false "max results"
// @Success 200 {object} response.Envelope
// @Router /reports [get]
func (h *ReportHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	reports, err := h.reports.ListByUser(c.Request.Context(), middleware.CurrentUserID(c), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.NewReportResponseList(reports), nil)
}

// Get godoc
// @Summary Report status
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param id path string true "report id"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /reports/{id} [get]
func (h *ReportHandler) Get(c *gin.Context) {
	report, err := h.reports.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.NewReportResponse(report), nil)
}

// MergeParams godoc
// @Summary Amend parameters on a pending report
// @Tags reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "report id"
// @Param payload body dto.MergeReportParamsRequest true "parameters to merge"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /reports/{id}/params [patch]
func (h *ReportHandler) MergeParams(c *gin.Context) {
	var req dto.MergeReportParamsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}

	report, err := h.reports.MergeParams(c.Request.Context(), c.Param("id"), req.Params)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.NewReportResponse(report), nil)
}

// ResolveDownload godoc
// @Summary Issue a signed download link for a completed report
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param id path string true "report id"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /reports/{id}/download [get]
func (h *ReportHandler) ResolveDownload(c *gin.Context) {
	result, err := h.reports.ResolveDownload(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Download godoc
// @Summary Download a report file via signed token
// @Tags reports
// @Produce octet-stream
// @Param token path string true "signed token"
// @Success 200 {file} file
// @Failure 401 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /downloads/{token} [get]
func (h *ReportHandler) Download(c *gin.Context) {
	_, location, err := h.reports.ParseDownloadToken(c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}

	file, err := h.exports.Open(location)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer file.Close() //nolint:errcheck

	info, err := file.Stat()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read report file"))
		return
	}

	headers := map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", filepath.Base(location)),
	}
	c.DataFromReader(http.StatusOK, info.Size(), "application/octet-stream", file, headers)
}
