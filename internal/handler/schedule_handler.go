package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/digiboard/digiboard-api/internal/service"
	"github.com/digiboard/digiboard-api/pkg/response"
)

// ScheduleHandler exposes timetable views and exports.
type ScheduleHandler struct {
	schedule *service.ScheduleService
}

// NewScheduleHandler constructs a new ScheduleHandler.
func NewScheduleHandler(schedule *service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{schedule: schedule}
}

// Week godoc
// @Summary Weekly schedule
// @Description Active lectures grouped by weekday, Monday first; every day key is present
// @Tags Schedule
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /schedule/week [get]
func (h *ScheduleHandler) Week(c *gin.Context) {
	week, err := h.schedule.Week(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, week, nil)
}

// Today godoc
// @Summary Today's schedule
// @Tags Schedule
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /schedule/today [get]
func (h *ScheduleHandler) Today(c *gin.Context) {
	lectures, err := h.schedule.Today(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, lectures, nil)
}

// Next godoc
// @Summary Next upcoming lecture
// @Description The soonest active lecture strictly after the current moment; null when the timetable is empty
// @Tags Schedule
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /schedule/next [get]
func (h *ScheduleHandler) Next(c *gin.Context) {
	next, err := h.schedule.Next(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, next, nil)
}

// Export godoc
// @Summary Export the weekly schedule
// @Tags Schedule
// @Produce text/csv
// @Produce application/pdf
// @Param format path string true "Export format (csv or pdf)"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /schedule/export/{format} [get]
func (h *ScheduleHandler) Export(c *gin.Context) {
	format := strings.ToLower(c.Param("format"))
	result, err := h.schedule.Export(c.Request.Context(), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(http.StatusOK, result.ContentType, result.Content)
}
