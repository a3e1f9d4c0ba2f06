package handler

import (
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/digiboard/digiboard-api/internal/service"
	appErrors "github.com/digiboard/digiboard-api/pkg/errors"
	"github.com/digiboard/digiboard-api/pkg/response"
)

// ImportHandler accepts CSV uploads for bulk teacher and lecture creation.
type ImportHandler struct {
	importer    *service.ImportService
	maxFileSize int64
}

// NewImportHandler constructs a new ImportHandler.
func NewImportHandler(importer *service.ImportService, maxFileSize int64) *ImportHandler {
	return &ImportHandler{importer: importer, maxFileSize: maxFileSize}
}

// Teachers godoc
// @Summary Import teachers from CSV
// @Description Multipart upload; field name "file". Bad rows are skipped and reported.
// @Tags Import
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV file"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /import/teachers [post]
func (h *ImportHandler) Teachers(c *gin.Context) {
	file, ok := h.openUpload(c)
	if !ok {
		return
	}
	defer file.Close()

	result, err := h.importer.ImportTeachers(c.Request.Context(), file)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Lectures godoc
// @Summary Import lectures from CSV
// @Description Multipart upload; field name "file". Teachers are matched by name.
// @Tags Import
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV file"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /import/lectures [post]
func (h *ImportHandler) Lectures(c *gin.Context) {
	file, ok := h.openUpload(c)
	if !ok {
		return
	}
	defer file.Close()

	result, err := h.importer.ImportLectures(c.Request.Context(), file)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// TeacherTemplate godoc
// @Summary Download the teacher import template
// @Tags Import
// @Produce text/csv
// @Success 200 {file} file
// @Router /import/teachers/template [get]
func (h *ImportHandler) TeacherTemplate(c *gin.Context) {
	content, err := h.importer.TeacherTemplate()
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="teachers-template.csv"`)
	c.Data(http.StatusOK, "text/csv", content)
}

// LectureTemplate godoc
// @Summary Download the lecture import template
// @Tags Import
// @Produce text/csv
// @Success 200 {file} file
// @Router /import/lectures/template [get]
func (h *ImportHandler) LectureTemplate(c *gin.Context) {
	content, err := h.importer.LectureTemplate()
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="lectures-template.csv"`)
	c.Data(http.StatusOK, "text/csv", content)
}

func (h *ImportHandler) openUpload(c *gin.Context) (multipart.File, bool) {
	header, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "csv file is required"))
		return nil, false
	}
	if h.maxFileSize > 0 && header.Size > h.maxFileSize {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "file exceeds the maximum allowed size"))
		return nil, false
	}
	file, err := header.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open upload"))
		return nil, false
	}
	return file, true
}
