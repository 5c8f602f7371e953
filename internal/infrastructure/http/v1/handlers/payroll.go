package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"kopikeliling/internal/domain/payroll"
	"kopikeliling/internal/infrastructure/http/v1/dto"
)

// PayrollHandler serves salary estimates and payments.
type PayrollHandler struct {
	*BaseHandler
	service *payroll.Service
}

// NewPayrollHandler creates the payroll handler.
func NewPayrollHandler(base *BaseHandler, service *payroll.Service) *PayrollHandler {
	return &PayrollHandler{BaseHandler: base, service: service}
}

// Estimates handles GET /payroll?month=
func (h *PayrollHandler) Estimates(c *gin.Context) {
	out, err := h.service.Estimates(c.Request.Context(), h.Month(c))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewList(out))
}

// Breakdown handles GET /payroll/:riderId?month=
func (h *PayrollHandler) Breakdown(c *gin.Context) {
	out, err := h.service.Breakdown(c.Request.Context(), c.Param("riderId"), h.Month(c))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, out)
}

// Slip handles GET /payroll/:riderId/slip?month=&bonus=&bonusNote=
func (h *PayrollHandler) Slip(c *gin.Context) {
	bonus := int64(h.ParseIntQuery(c, "bonus", 0))
	text, err := h.service.Slip(c.Request.Context(), c.Param("riderId"), h.Month(c), bonus, c.Query("bonusNote"))
	if err != nil {
		h.Error(c, err)
		return
	}
	c.String(http.StatusOK, text)
}

// Pay handles POST /payroll/pay
func (h *PayrollHandler) Pay(c *gin.Context) {
	var req payroll.PayRequest
	if !h.BindJSON(c, &req) {
		return
	}
	out, err := h.service.Pay(c.Request.Context(), req)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, out)
}
