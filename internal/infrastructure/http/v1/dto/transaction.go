package dto

import (
	"time"

	"kopikeliling/internal/core/types"
	"kopikeliling/internal/domain/ledger"
)

// TransactionRequest edits the user-facing fields of one ledger row.
type TransactionRequest struct {
	Date          string               `json:"date" binding:"required"`
	Type          ledger.TxType        `json:"type" binding:"required"`
	Amount        types.Rupiah         `json:"amount"`
	PaymentMethod ledger.PaymentMethod `json:"paymentMethod" binding:"required"`
	Description   string               `json:"description"`
	Category      string               `json:"category"`
	RiderName     string               `json:"riderName"`
	Qty           int64                `json:"qty"`
	Notes         string               `json:"notes"`
}

// Apply copies the request onto existing, keeping its structured references.
func (r *TransactionRequest) Apply(existing ledger.Transaction, now time.Time) (ledger.Transaction, error) {
	date, err := ParseDate(r.Date, now)
	if err != nil {
		return ledger.Transaction{}, err
	}
	out := existing.Clone()
	out.Date = date
	out.Type = r.Type
	out.Amount = r.Amount
	out.PaymentMethod = r.PaymentMethod
	out.Description = r.Description
	out.Category = r.Category
	out.RiderName = r.RiderName
	out.Qty = r.Qty
	out.Notes = r.Notes
	return out, nil
}
