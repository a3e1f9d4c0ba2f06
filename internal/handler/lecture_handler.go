package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/digiboard/digiboard-api/internal/models"
	"github.com/digiboard/digiboard-api/internal/service"
	appErrors "github.com/digiboard/digiboard-api/pkg/errors"
	"github.com/digiboard/digiboard-api/pkg/response"
)

// LectureHandler wires lecture services to HTTP routes.
type LectureHandler struct {
	lectures *service.LectureService
}

// NewLectureHandler constructs a new LectureHandler.
func NewLectureHandler(lectures *service.LectureService) *LectureHandler {
	return &LectureHandler{lectures: lectures}
}

// List godoc
// @Summary List lectures
// @Tags Lectures
// @Produce json
// @Param teacher_id query string false "Filter by teacher"
// @Param classroom query string false "Filter by classroom"
// @Param day query string false "Filter by day of week"
// @Param semester query string false "Filter by semester"
// @Param active query bool false "Filter by active status"
// @Param search query string false "Search subject/course/teacher name"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /lectures [get]
func (h *LectureHandler) List(c *gin.Context) {
	filter := models.LectureFilter{
		TeacherID: c.Query("teacher_id"),
		Classroom: c.Query("classroom"),
		DayOfWeek: c.Query("day"),
		Semester:  c.Query("semester"),
		Search:    strings.TrimSpace(c.Query("search")),
	}
	if active := c.Query("active"); active != "" {
		switch strings.ToLower(active) {
		case "true":
			val := true
			filter.Active = &val
		case "false":
			val := false
			filter.Active = &val
		}
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "50")); err == nil {
		filter.PageSize = size
	}

	lectures, pagination, err := h.lectures.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, lectures, pagination)
}

// Get godoc
// @Summary Get lecture detail
// @Tags Lectures
// @Produce json
// @Param id path string true "Lecture ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /lectures/{id} [get]
func (h *LectureHandler) Get(c *gin.Context) {
	lecture, err := h.lectures.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, lecture, nil)
}

// Create godoc
// @Summary Create lecture
// @Description Creates a lecture after checking the active timetable for teacher and classroom overlaps
// @Tags Lectures
// @Accept json
// @Produce json
// @Param payload body service.SaveLectureRequest true "Lecture payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /lectures [post]
func (h *LectureHandler) Create(c *gin.Context) {
	var req service.SaveLectureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid lecture payload"))
		return
	}
	result, err := h.lectures.Create(c.Request.Context(), req)
	if err != nil {
		h.respondSaveError(c, err)
		return
	}
	response.Created(c, result.Lecture, saveMeta(result))
}

// Update godoc
// @Summary Update lecture
// @Description Updates a lecture; the lecture's own slot is excluded from conflict checks
// @Tags Lectures
// @Accept json
// @Produce json
// @Param id path string true "Lecture ID"
// @Param payload body service.SaveLectureRequest true "Lecture payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /lectures/{id} [put]
func (h *LectureHandler) Update(c *gin.Context) {
	var req service.SaveLectureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid lecture payload"))
		return
	}
	result, err := h.lectures.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.respondSaveError(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result.Lecture, nil, saveMeta(result))
}

// CheckConflicts godoc
// @Summary Check a candidate slot for conflicts
// @Description Dry-run conflict detection; nothing is persisted
// @Tags Lectures
// @Accept json
// @Produce json
// @Param payload body service.ConflictCheckRequest true "Candidate slot"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /lectures/check-conflicts [post]
func (h *LectureHandler) CheckConflicts(c *gin.Context) {
	var req service.ConflictCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid conflict check payload"))
		return
	}
	report, err := h.lectures.CheckConflicts(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}

// SetStatus godoc
// @Summary Toggle lecture active flag
// @Tags Lectures
// @Accept json
// @Produce json
// @Param id path string true "Lecture ID"
// @Param payload body object true "Status payload"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /lectures/{id}/status [patch]
func (h *LectureHandler) SetStatus(c *gin.Context) {
	var payload struct {
		IsActive *bool `json:"is_active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "is_active is required"))
		return
	}
	if err := h.lectures.SetActive(c.Request.Context(), c.Param("id"), *payload.IsActive); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// BulkStatus godoc
// @Summary Activate or deactivate many lectures
// @Tags Lectures
// @Accept json
// @Produce json
// @Param payload body service.BulkLectureStatusRequest true "Bulk status payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /lectures/bulk-status [post]
func (h *LectureHandler) BulkStatus(c *gin.Context) {
	var req service.BulkLectureStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid bulk status payload"))
		return
	}
	affected, err := h.lectures.BulkSetStatus(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"affected": affected}, nil)
}

// Delete godoc
// @Summary Delete lecture
// @Tags Lectures
// @Param id path string true "Lecture ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /lectures/{id} [delete]
func (h *LectureHandler) Delete(c *gin.Context) {
	if err := h.lectures.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// BulkDelete godoc
// @Summary Delete many lectures
// @Tags Lectures
// @Accept json
// @Produce json
// @Param payload body service.BulkLectureDeleteRequest true "Bulk delete payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /lectures/bulk-delete [post]
func (h *LectureHandler) BulkDelete(c *gin.Context) {
	var req service.BulkLectureDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid bulk delete payload"))
		return
	}
	affected, err := h.lectures.BulkDelete(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"affected": affected}, nil)
}

// respondSaveError surfaces the full conflict report when a save was blocked.
func (h *LectureHandler) respondSaveError(c *gin.Context, err error) {
	if report, ok := service.ConflictReportFromError(err); ok {
		response.ErrorWithDetails(c, err, map[string]interface{}{"conflicts": report})
		return
	}
	response.Error(c, err)
}

// saveMeta attaches warn-policy conflicts to successful save responses.
func saveMeta(result *service.SaveLectureResult) map[string]interface{} {
	if !result.Conflicts.HasConflicts() {
		return nil
	}
	return map[string]interface{}{"conflicts": result.Conflicts}
}
