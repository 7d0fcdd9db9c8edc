package handler

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"

	"bijles-engels/backend/internal/service"
	"bijles-engels/backend/pkg/response"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportRegistrations 导出报名记录为 Excel
// GET /api/v1/export/registrations
func (h *ExportHandler) ExportRegistrations(c *gin.Context) {
	buf, filename, err := h.exportSvc.ExportRegistrations(c.Request.Context())
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	// 设置下载响应头
	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// ExportLessonsICS 导出已通过课时块为 iCal 日历
// GET /api/v1/export/lessons.ics
func (h *ExportHandler) ExportLessonsICS(c *gin.Context) {
	ics, err := h.exportSvc.ExportApprovedLessons(c.Request.Context(), time.Now())
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=lessons.ics")
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(ics))
}

// handleExportError 统一处理导出模块业务错误
func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrExportNoRegistrations):
		response.NotFound(c, 15001, "暂无报名记录可导出")
	case errors.Is(err, service.ErrExportGenerateFail):
		response.InternalError(c)
	default:
		response.InternalError(c)
	}
}
