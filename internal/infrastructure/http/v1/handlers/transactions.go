package handlers

import (
	"github.com/gin-gonic/gin"

	"kopikeliling/internal/core/apperror"
	"kopikeliling/internal/domain/ledger"
	"kopikeliling/internal/domain/records"
	"kopikeliling/internal/infrastructure/http/v1/dto"
)

// TransactionHandler edits individual ledger rows.
type TransactionHandler struct {
	*BaseHandler
	store *records.Store
}

// NewTransactionHandler creates the transaction handler.
func NewTransactionHandler(base *BaseHandler, store *records.Store) *TransactionHandler {
	return &TransactionHandler{BaseHandler: base, store: store}
}

// List handles GET /transactions?month=YYYY-MM
func (h *TransactionHandler) List(c *gin.Context) {
	month := h.Month(c)
	if _, err := ledger.ParseMonth(month); err != nil {
		h.Error(c, err)
		return
	}
	var out []ledger.Transaction
	for _, t := range h.store.Snapshot().Transactions {
		if t.Month() == month {
			out = append(out, t)
		}
	}
	h.OK(c, dto.NewList(out))
}

// Get handles GET /transactions/:id
func (h *TransactionHandler) Get(c *gin.Context) {
	t, ok := h.find(c.Param("id"))
	if !ok {
		h.Error(c, apperror.NewNotFound("transaction", c.Param("id")))
		return
	}
	h.OK(c, t)
}

// Update handles PUT /transactions/:id
func (h *TransactionHandler) Update(c *gin.Context) {
	existing, ok := h.find(c.Param("id"))
	if !ok {
		h.Error(c, apperror.NewNotFound("transaction", c.Param("id")))
		return
	}
	var req dto.TransactionRequest
	if !h.BindJSON(c, &req) {
		return
	}
	row, err := req.Apply(existing, h.Now())
	if err != nil {
		h.Error(c, err)
		return
	}
	if err := h.store.UpdateTransaction(c.Request.Context(), row); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, row)
}

// Delete handles DELETE /transactions/:id
func (h *TransactionHandler) Delete(c *gin.Context) {
	if err := h.store.DeleteTransaction(c.Request.Context(), c.Param("id")); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

func (h *TransactionHandler) find(txID string) (ledger.Transaction, bool) {
	snap := h.store.Snapshot()
	i := snap.FindTransaction(txID)
	if i < 0 {
		return ledger.Transaction{}, false
	}
	return snap.Transactions[i], true
}
