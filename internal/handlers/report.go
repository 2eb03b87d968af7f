package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/tadrees-app/tadrees-backend/internal/platform/apierr"
	"github.com/tadrees-app/tadrees-backend/internal/services"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportHandler struct {
	reportService services.ReportService
}

func NewReportHandler(reportService services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// ExportAttendance streams the group's attendance sheet as an xlsx download.
func (rh *ReportHandler) ExportAttendance(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	groupID, ok := pathID(c, "groupID")
	if !ok {
		return
	}
	f, fileName, err := rh.reportService.AttendanceSheet(c.Request.Context(), p, groupID)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.Header("Content-Type", xlsxContentType)
	c.Header("Content-Disposition", "attachment; filename="+fileName)
	if err := f.Write(c.Writer); err != nil {
		RespondError(c, apierr.Persistence(err))
	}
}
