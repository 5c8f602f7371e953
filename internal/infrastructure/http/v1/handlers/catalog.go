package handlers

import (
	"github.com/gin-gonic/gin"

	"kopikeliling/internal/domain/catalogs"
	"kopikeliling/internal/domain/ledger"
	"kopikeliling/internal/infrastructure/http/v1/dto"
)

// CatalogHandler provides generic HTTP handlers for catalog entries.
type CatalogHandler[T catalogs.Entry[T]] struct {
	*BaseHandler
	service *catalogs.Service[T]
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler[T catalogs.Entry[T]](base *BaseHandler, service *catalogs.Service[T]) *CatalogHandler[T] {
	return &CatalogHandler[T]{BaseHandler: base, service: service}
}

// List handles GET /{catalog}?search=
func (h *CatalogHandler[T]) List(c *gin.Context) {
	items := h.service.List(c.Request.Context(), catalogs.ListFilter{Search: c.Query("search")})
	h.OK(c, dto.NewList(items))
}

// Get handles GET /{catalog}/:id
func (h *CatalogHandler[T]) Get(c *gin.Context) {
	entry, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, entry)
}

// Create handles POST /{catalog}
func (h *CatalogHandler[T]) Create(c *gin.Context) {
	var req T
	if !h.BindJSON(c, &req) {
		return
	}
	entry, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, entry)
}

// Update handles PUT /{catalog}/:id. The path id wins over the body.
func (h *CatalogHandler[T]) Update(c *gin.Context) {
	var req T
	if !h.BindJSON(c, &req) {
		return
	}
	entry, err := h.service.Update(c.Request.Context(), req.WithID(c.Param("id")))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, entry)
}

// Delete handles DELETE /{catalog}/:id
func (h *CatalogHandler[T]) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// ProductHandler adds ordering to the product catalog.
type ProductHandler struct {
	*CatalogHandler[ledger.Product]
	products *catalogs.Products
}

// NewProductHandler creates the product handler.
func NewProductHandler(base *BaseHandler, products *catalogs.Products) *ProductHandler {
	return &ProductHandler{
		CatalogHandler: NewCatalogHandler(base, products.Service),
		products:       products,
	}
}

// Move handles POST /products/:id/move
func (h *ProductHandler) Move(c *gin.Context) {
	var req dto.MoveRequest
	if !h.BindJSON(c, &req) {
		return
	}
	out, err := h.products.Move(c.Request.Context(), c.Param("id"), req.Delta)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewList(out))
}

// CapitalHandler exposes the opening balance.
type CapitalHandler struct {
	*BaseHandler
	capital *catalogs.Capital
}

// NewCapitalHandler creates the capital handler.
func NewCapitalHandler(base *BaseHandler, capital *catalogs.Capital) *CapitalHandler {
	return &CapitalHandler{BaseHandler: base, capital: capital}
}

// Get handles GET /capital
func (h *CapitalHandler) Get(c *gin.Context) {
	h.OK(c, h.capital.Get(c.Request.Context()))
}

// Replace handles PUT /capital
func (h *CapitalHandler) Replace(c *gin.Context) {
	var req ledger.Capital
	if !h.BindJSON(c, &req) {
		return
	}
	out, err := h.capital.Replace(c.Request.Context(), req)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, out)
}
