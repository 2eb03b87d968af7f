package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/tadrees-app/tadrees-backend/internal/platform/apierr"
	"github.com/tadrees-app/tadrees-backend/internal/services"
)

type ScoreHandler struct {
	scoreService services.ScoreService
}

func NewScoreHandler(scoreService services.ScoreService) *ScoreHandler {
	return &ScoreHandler{scoreService: scoreService}
}

type scoreRequest struct {
	Value int64 `json:"value" binding:"gte=0"`
}

func (sh *ScoreHandler) AddScore(c *gin.Context) {
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
	var req scoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.Validation("invalid request body: %v", err))
		return
	}
	entry, err := sh.scoreService.AddScore(c.Request.Context(), p, groupID, studentID, req.Value)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondCreated(c, entry)
}

func (sh *ScoreHandler) EditScore(c *gin.Context) {
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
	scoreID, ok := pathID(c, "scoreID")
	if !ok {
		return
	}
	var req scoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.Validation("invalid request body: %v", err))
		return
	}
	entry, err := sh.scoreService.EditScore(c.Request.Context(), p, groupID, studentID, scoreID, req.Value)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, entry)
}

func (sh *ScoreHandler) DeleteScore(c *gin.Context) {
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
	scoreID, ok := pathID(c, "scoreID")
	if !ok {
		return
	}
	if err := sh.scoreService.DeleteScore(c.Request.Context(), p, groupID, studentID, scoreID); err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"status": "deleted"})
}

type setScoreConfigRequest struct {
	Kind  string `json:"kind" binding:"required"`
	Value int64  `json:"value" binding:"gte=0"`
}

func (sh *ScoreHandler) SetScoreConfig(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req setScoreConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.Validation("invalid request body: %v", err))
		return
	}
	if err := sh.scoreService.SetScoreConfig(c.Request.Context(), p, req.Kind, req.Value); err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"status": "updated"})
}

func (sh *ScoreHandler) GetScores(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	studentID, ok := pathID(c, "studentID")
	if !ok {
		return
	}
	scores, err := sh.scoreService.GetScores(c.Request.Context(), p, studentID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, scores)
}

func (sh *ScoreHandler) ScoreDates(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	groupID, ok := pathID(c, "groupID")
	if !ok {
		return
	}
	dates, err := sh.scoreService.ScoreDates(c.Request.Context(), p, groupID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, dates)
}

func (sh *ScoreHandler) ScoresByDate(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	groupID, ok := pathID(c, "groupID")
	if !ok {
		return
	}
	date := c.Query("date")
	scores, err := sh.scoreService.ScoresByDate(c.Request.Context(), p, groupID, date)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, scores)
}
