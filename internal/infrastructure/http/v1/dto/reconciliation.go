package dto

import "kopikeliling/internal/core/types"

// BankReconciliationRequest stores the bank statement amount for a date.
type BankReconciliationRequest struct {
	Date             string        `json:"date" binding:"required"`
	ManualQRISAmount *types.Rupiah `json:"manualQrisAmount" binding:"required"`
	Note             string        `json:"note,omitempty"`
}

// MoveRequest shifts a product in the display order.
type MoveRequest struct {
	Delta int `json:"delta" binding:"required"`
}

// RestoreResponse lists restored collections.
type RestoreResponse struct {
	Restored []string `json:"restored"`
}
