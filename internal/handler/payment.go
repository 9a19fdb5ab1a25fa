package handler

import (
	"errors"
	"net/http"

	"github.com/Jacksonnavigator/School-Fee-Payment-Update/internal/store"
	"github.com/Jacksonnavigator/School-Fee-Payment-Update/internal/util"
	"github.com/Jacksonnavigator/School-Fee-Payment-Update/internal/workflow"

	"github.com/gin-gonic/gin"
)

// PaymentHandler fronts the payment workflow. It translates the workflow's
// composite outcome into a response the operator can act on: full success,
// partial success with the failed side effects named, or a distinct error
// telling them whether the payment happened at all.
type PaymentHandler struct {
	Workflow *workflow.Processor
}

func NewPaymentHandler(p *workflow.Processor) *PaymentHandler {
	return &PaymentHandler{Workflow: p}
}

type paymentReq struct {
	StudentID uint  `json:"student_id" binding:"required"`
	Amount    int64 `json:"amount" binding:"required"`
}

func (h *PaymentHandler) Create(c *gin.Context) {
	var req paymentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Invalid(c, "student_id and amount are required")
		return
	}
	if err := util.ValidateAmount(req.Amount); err != nil {
		util.Invalid(c, err.Error())
		return
	}

	out, err := h.Workflow.ProcessPayment(req.StudentID, req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			util.NotFound(c, "student not found")
		case errors.Is(err, store.ErrInvalidAmount):
			util.Invalid(c, "amount must be positive")
		case errors.Is(err, workflow.ErrUnknownForm):
			// the payment IS committed; only the balance could not be
			// derived because the form has no configured fee
			c.JSON(http.StatusInternalServerError, gin.H{
				"code":    util.CodeServerErr,
				"message": "payment recorded, but the student's form has no configured fee",
				"data": gin.H{
					"committed": true,
					"new_total": out.NewTotal,
					"reference": out.Reference,
				},
			})
		default:
			// persistence failure: the payment did NOT happen and the whole
			// workflow is safe to retry
			util.ServerError(c, "payment not recorded, please retry")
		}
		return
	}

	data := util.Response{
		"committed":         out.Committed,
		"notified":          out.Notified,
		"receipt_generated": out.ReceiptGenerated,
		"new_total":         out.NewTotal,
		"remaining_balance": out.RemainingBalance,
		"reference":         out.Reference,
	}
	if out.ReceiptGenerated {
		data["receipt_path"] = out.ReceiptPath
	}

	switch {
	case out.Notified && out.ReceiptGenerated:
		data["message"] = "payment processed, parent notified, receipt generated"
	case out.Notified:
		data["message"] = "payment processed, but receipt generation failed; retry the receipt only"
	case out.ReceiptGenerated:
		data["message"] = "payment processed, but the email failed; retry the notification only"
	default:
		data["message"] = "payment processed, but notification and receipt both failed"
	}
	util.Success(c, data)
}
