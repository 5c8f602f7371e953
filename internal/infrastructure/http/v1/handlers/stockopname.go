package handlers

import (
	"github.com/gin-gonic/gin"

	"kopikeliling/internal/domain/stockopname"
	"kopikeliling/internal/infrastructure/http/v1/dto"
)

// StockOpnameHandler handles month-end stock counts.
type StockOpnameHandler struct {
	*BaseHandler
	service *stockopname.Service
}

// NewStockOpnameHandler creates the stock opname handler.
func NewStockOpnameHandler(base *BaseHandler, service *stockopname.Service) *StockOpnameHandler {
	return &StockOpnameHandler{BaseHandler: base, service: service}
}

// List handles GET /stock-opnames
func (h *StockOpnameHandler) List(c *gin.Context) {
	h.OK(c, dto.NewList(h.service.List(c.Request.Context())))
}

// Draft handles GET /stock-opnames/draft?month=
func (h *StockOpnameHandler) Draft(c *gin.Context) {
	out, err := h.service.Draft(c.Request.Context(), h.Month(c))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, out)
}

// Save handles POST /stock-opnames
func (h *StockOpnameHandler) Save(c *gin.Context) {
	var req stockopname.SaveRequest
	if !h.BindJSON(c, &req) {
		return
	}
	out, err := h.service.Save(c.Request.Context(), req)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, out)
}

// Delete handles DELETE /stock-opnames/:id
func (h *StockOpnameHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}
