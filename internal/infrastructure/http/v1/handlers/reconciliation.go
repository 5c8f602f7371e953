package handlers

import (
	"github.com/gin-gonic/gin"

	"kopikeliling/internal/domain/reconciliation"
	"kopikeliling/internal/infrastructure/http/v1/dto"
)

// ReconciliationHandler checks recorded money against counts and statements.
type ReconciliationHandler struct {
	*BaseHandler
	service *reconciliation.Service
}

// NewReconciliationHandler creates the reconciliation handler.
func NewReconciliationHandler(base *BaseHandler, service *reconciliation.Service) *ReconciliationHandler {
	return &ReconciliationHandler{BaseHandler: base, service: service}
}

// Recaps handles GET /reconciliation/recaps?month=
func (h *ReconciliationHandler) Recaps(c *gin.Context) {
	out, err := h.service.Recaps(c.Request.Context(), h.Month(c))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewList(out))
}

// BankDays handles GET /reconciliation/bank?month=
func (h *ReconciliationHandler) BankDays(c *gin.Context) {
	out, err := h.service.BankDays(c.Request.Context(), h.Month(c))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, out)
}

// SaveBank handles PUT /reconciliation/bank
func (h *ReconciliationHandler) SaveBank(c *gin.Context) {
	var req dto.BankReconciliationRequest
	if !h.BindJSON(c, &req) {
		return
	}
	out, err := h.service.SaveBankReconciliation(c.Request.Context(), req.Date, *req.ManualQRISAmount, req.Note)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, out)
}

// Correct handles POST /reconciliation/corrections
func (h *ReconciliationHandler) Correct(c *gin.Context) {
	var req reconciliation.CorrectRequest
	if !h.BindJSON(c, &req) {
		return
	}
	out, err := h.service.Correct(c.Request.Context(), req)
	if err != nil {
		h.Error(c, err)
		return
	}
	if out.Applied {
		h.Created(c, out)
		return
	}
	h.OK(c, out)
}
