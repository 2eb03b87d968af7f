package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/tadrees-app/tadrees-backend/internal/platform/apierr"
	"github.com/tadrees-app/tadrees-backend/internal/services"
)

type PaymentHandler struct {
	paymentService services.PaymentService
}

func NewPaymentHandler(paymentService services.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

type payAttendanceRequest struct {
	Amount int64 `json:"amount" binding:"required,gt=0"`
}

func (ph *PaymentHandler) PayAttendanceFee(c *gin.Context) {
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
	var req payAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.Validation("invalid request body: %v", err))
		return
	}
	student, err := ph.paymentService.PayAttendanceFee(c.Request.Context(), p, groupID, studentID, req.Amount)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, student)
}

func (ph *PaymentHandler) ReverseAttendanceFee(c *gin.Context) {
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
	student, err := ph.paymentService.ReverseAttendanceFee(c.Request.Context(), p, groupID, studentID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, student)
}

func (ph *PaymentHandler) PayBooksFee(c *gin.Context) {
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
	student, err := ph.paymentService.PayBooksFee(c.Request.Context(), p, groupID, studentID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, student)
}

func (ph *PaymentHandler) ReverseBooksFee(c *gin.Context) {
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
	student, err := ph.paymentService.ReverseBooksFee(c.Request.Context(), p, groupID, studentID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, student)
}

type setFeeRequest struct {
	Kind   string `json:"kind" binding:"required"`
	Amount int64  `json:"amount" binding:"gte=0"`
}

func (ph *PaymentHandler) SetFeeAmount(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req setFeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.Validation("invalid request body: %v", err))
		return
	}
	if err := ph.paymentService.SetFeeAmount(c.Request.Context(), p, req.Kind, req.Amount); err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"status": "updated"})
}
