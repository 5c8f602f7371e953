package handlers

import (
	"github.com/gin-gonic/gin"

	"kopikeliling/internal/domain/ledger"
	"kopikeliling/internal/domain/reports"
)

// ReportsHandler serves the read-only aggregation views.
type ReportsHandler struct {
	*BaseHandler
	service *reports.Service
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(base *BaseHandler, service *reports.Service) *ReportsHandler {
	return &ReportsHandler{BaseHandler: base, service: service}
}

// monthly adapts a month-scoped report to a handler.
func monthly[R any](h *ReportsHandler, fn func(c *gin.Context, month string) (R, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := fn(c, h.Month(c))
		if err != nil {
			h.Error(c, err)
			return
		}
		h.OK(c, out)
	}
}

// Dashboard handles GET /reports/dashboard
func (h *ReportsHandler) Dashboard(c *gin.Context) {
	monthly(h, func(c *gin.Context, m string) (reports.Dashboard, error) {
		return h.service.Dashboard(c.Request.Context(), m)
	})(c)
}

// Summary handles GET /reports/summary
func (h *ReportsHandler) Summary(c *gin.Context) {
	monthly(h, func(c *gin.Context, m string) (reports.Summary, error) {
		return h.service.Summary(c.Request.Context(), m)
	})(c)
}

// Products handles GET /reports/products
func (h *ReportsHandler) Products(c *gin.Context) {
	monthly(h, func(c *gin.Context, m string) (gin.H, error) {
		stats, top, err := h.service.Products(c.Request.Context(), m)
		if err != nil {
			return nil, err
		}
		return gin.H{"products": stats, "top": top}, nil
	})(c)
}

// Categories handles GET /reports/categories
func (h *ReportsHandler) Categories(c *gin.Context) {
	monthly(h, func(c *gin.Context, m string) (reports.CategoryReport, error) {
		return h.service.Categories(c.Request.Context(), m)
	})(c)
}

// Items handles GET /reports/items?category=&method=
func (h *ReportsHandler) Items(c *gin.Context) {
	monthly(h, func(c *gin.Context, m string) ([]reports.ItemStat, error) {
		return h.service.Items(c.Request.Context(), m, itemFilter(c))
	})(c)
}

// ItemHistory handles GET /reports/items/:item
func (h *ReportsHandler) ItemHistory(c *gin.Context) {
	monthly(h, func(c *gin.Context, m string) ([]ledger.Transaction, error) {
		return h.service.ItemHistory(c.Request.Context(), m, c.Param("item"), itemFilter(c))
	})(c)
}

// Daily handles GET /reports/daily
func (h *ReportsHandler) Daily(c *gin.Context) {
	monthly(h, func(c *gin.Context, m string) (reports.DailyReport, error) {
		return h.service.Daily(c.Request.Context(), m)
	})(c)
}

// Riders handles GET /reports/riders
func (h *ReportsHandler) Riders(c *gin.Context) {
	monthly(h, func(c *gin.Context, m string) ([]reports.RiderStat, error) {
		return h.service.Riders(c.Request.Context(), m)
	})(c)
}

// QRIS handles GET /reports/qris
func (h *ReportsHandler) QRIS(c *gin.Context) {
	monthly(h, func(c *gin.Context, m string) (reports.Matrix, error) {
		return h.service.QRIS(c.Request.Context(), m)
	})(c)
}

// COH handles GET /reports/coh
func (h *ReportsHandler) COH(c *gin.Context) {
	monthly(h, func(c *gin.Context, m string) (reports.Matrix, error) {
		return h.service.COH(c.Request.Context(), m)
	})(c)
}

// CostRatio handles GET /reports/cost-ratio
func (h *ReportsHandler) CostRatio(c *gin.Context) {
	monthly(h, func(c *gin.Context, m string) (reports.CostRatio, error) {
		return h.service.CostRatio(c.Request.Context(), m)
	})(c)
}

// Finance handles GET /reports/finance?type=&method=&search=
func (h *ReportsHandler) Finance(c *gin.Context) {
	f := reports.FinanceFilter{
		Type:   ledger.TxType(c.Query("type")),
		Method: ledger.PaymentMethod(c.Query("method")),
		Search: c.Query("search"),
	}
	monthly(h, func(c *gin.Context, m string) (reports.FinanceReport, error) {
		return h.service.Finance(c.Request.Context(), m, f)
	})(c)
}

// Flows handles GET /reports/flows
func (h *ReportsHandler) Flows(c *gin.Context) {
	cash, bank := h.service.Flows(c.Request.Context())
	h.OK(c, gin.H{"cash": cash, "bank": bank})
}

func itemFilter(c *gin.Context) reports.ItemFilter {
	return reports.ItemFilter{
		Category: c.Query("category"),
		Method:   ledger.PaymentMethod(c.Query("method")),
	}
}
