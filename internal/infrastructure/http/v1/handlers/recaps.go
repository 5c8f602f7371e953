package handlers

import (
	"github.com/gin-gonic/gin"

	"kopikeliling/internal/domain/recap"
	"kopikeliling/internal/infrastructure/http/v1/dto"
)

// RecapHandler handles daily rider recaps.
type RecapHandler struct {
	*BaseHandler
	service *recap.Service
}

// NewRecapHandler creates the recap handler.
func NewRecapHandler(base *BaseHandler, service *recap.Service) *RecapHandler {
	return &RecapHandler{BaseHandler: base, service: service}
}

// Submit handles POST /recaps
func (h *RecapHandler) Submit(c *gin.Context) {
	var req dto.RecapRequest
	if !h.BindJSON(c, &req) {
		return
	}
	in, err := req.ToInput(h.Now())
	if err != nil {
		h.Error(c, err)
		return
	}
	res, err := h.service.Submit(c.Request.Context(), in, req.ConfirmDuplicate)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, res)
}

// History handles GET /recaps?month=YYYY-MM
func (h *RecapHandler) History(c *gin.Context) {
	groups, err := h.service.History(c.Request.Context(), h.Month(c))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewList(groups))
}

// Get handles GET /recaps/:key
func (h *RecapHandler) Get(c *gin.Context) {
	g, err := h.service.Get(c.Request.Context(), c.Param("key"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, g)
}

// EditInput handles GET /recaps/:key/input
func (h *RecapHandler) EditInput(c *gin.Context) {
	in, err := h.service.EditInput(c.Request.Context(), c.Param("key"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, in)
}

// Replace handles PUT /recaps/:key
func (h *RecapHandler) Replace(c *gin.Context) {
	var req dto.RecapRequest
	if !h.BindJSON(c, &req) {
		return
	}
	in, err := req.ToInput(h.Now())
	if err != nil {
		h.Error(c, err)
		return
	}
	res, err := h.service.Replace(c.Request.Context(), c.Param("key"), in)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, res)
}

// Delete handles DELETE /recaps/:key
func (h *RecapHandler) Delete(c *gin.Context) {
	removed, err := h.service.Delete(c.Request.Context(), c.Param("key"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.RecapDeleteResponse{Removed: removed})
}
