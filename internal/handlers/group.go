package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/tadrees-app/tadrees-backend/internal/platform/apierr"
	"github.com/tadrees-app/tadrees-backend/internal/services"
)

type GroupHandler struct {
	rosterService services.RosterService
}

func NewGroupHandler(rosterService services.RosterService) *GroupHandler {
	return &GroupHandler{rosterService: rosterService}
}

type createGroupRequest struct {
	Name string `json:"name" binding:"required,min=4,max=50"`
	Day  string `json:"day" binding:"required"`
}

func (gh *GroupHandler) CreateGroup(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req createGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.Validation("invalid request body: %v", err))
		return
	}
	group, err := gh.rosterService.CreateGroup(c.Request.Context(), p, services.CreateGroupInput{
		Name: req.Name,
		Day:  req.Day,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondCreated(c, group)
}

func (gh *GroupHandler) ListGroups(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	groups, err := gh.rosterService.ListGroups(c.Request.Context(), p)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, groups)
}

type addStudentRequest struct {
	Name  string `json:"name" binding:"required,min=4,max=50"`
	Phone string `json:"phone" binding:"required,min=11,max=13"`
}

func (gh *GroupHandler) AddStudent(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	groupID, ok := pathID(c, "groupID")
	if !ok {
		return
	}
	var req addStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.Validation("invalid request body: %v", err))
		return
	}
	enrollment, err := gh.rosterService.AddStudent(c.Request.Context(), p, groupID, services.AddStudentInput{
		Name:  req.Name,
		Phone: req.Phone,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondCreated(c, enrollment)
}

func (gh *GroupHandler) RemoveStudent(c *gin.Context) {
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
	if err := gh.rosterService.RemoveStudent(c.Request.Context(), p, groupID, studentID); err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"status": "removed"})
}

func (gh *GroupHandler) GetStudent(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	studentID, ok := pathID(c, "studentID")
	if !ok {
		return
	}
	student, err := gh.rosterService.GetStudent(c.Request.Context(), p, studentID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, student)
}
