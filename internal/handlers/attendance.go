package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/tadrees-app/tadrees-backend/internal/services"
)

type AttendanceHandler struct {
	attendanceService services.AttendanceService
}

func NewAttendanceHandler(attendanceService services.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendanceService: attendanceService}
}

func (ah *AttendanceHandler) OpenRound(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	groupID, ok := pathID(c, "groupID")
	if !ok {
		return
	}
	round, err := ah.attendanceService.OpenRound(c.Request.Context(), p, groupID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondCreated(c, round)
}

func (ah *AttendanceHandler) ConfirmAttendance(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	groupID, ok := pathID(c, "groupID")
	if !ok {
		return
	}
	studentID, ok := pathID(c, "studentID")
	if !ok {
		return
	}
	student, err := ah.attendanceService.ConfirmAttendance(c.Request.Context(), p, groupID, studentID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, student)
}
