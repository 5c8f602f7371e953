package handlers

import (
	"github.com/gin-gonic/gin"

	"kopikeliling/internal/domain/bookkeeping"
	"kopikeliling/internal/infrastructure/http/v1/dto"
)

// BookkeepingHandler records house purchases.
type BookkeepingHandler struct {
	*BaseHandler
	service *bookkeeping.Service
}

// NewBookkeepingHandler creates the bookkeeping handler.
func NewBookkeepingHandler(base *BaseHandler, service *bookkeeping.Service) *BookkeepingHandler {
	return &BookkeepingHandler{BaseHandler: base, service: service}
}

type bookkeepingUpdateRequest struct {
	Date string           `json:"date" binding:"required"`
	Line bookkeeping.Line `json:"line"`
}

// Purchase handles POST /bookkeeping
func (h *BookkeepingHandler) Purchase(c *gin.Context) {
	var req bookkeeping.PurchaseRequest
	if !h.BindJSON(c, &req) {
		return
	}
	rows, err := h.service.Purchase(c.Request.Context(), req)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, dto.NewList(rows))
}

// Update handles PUT /bookkeeping/:id
func (h *BookkeepingHandler) Update(c *gin.Context) {
	var req bookkeepingUpdateRequest
	if !h.BindJSON(c, &req) {
		return
	}
	row, err := h.service.Update(c.Request.Context(), c.Param("id"), req.Date, req.Line)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, row)
}

// History handles GET /bookkeeping?month=
func (h *BookkeepingHandler) History(c *gin.Context) {
	days, err := h.service.History(c.Request.Context(), h.Month(c))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewList(days))
}
