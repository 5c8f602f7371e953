// Package reconciliation compares what the ledger expects against what was
// counted (rider cash, bank statement QRIS) and writes balancing corrections.
//
// No state is persisted: a subject's status is recomputed from the ledger on
// every read, so editing the underlying rows moves it back to UNCHECKED.
package reconciliation

import (
	"kopikeliling/internal/core/types"
	"kopikeliling/internal/domain/ledger"
)

// Status of a reconciliation subject.
type Status string

const (
	StatusUnchecked Status = "UNCHECKED"
	StatusMatch     Status = "MATCH"
	StatusMismatch  Status = "MISMATCH"
	StatusCorrected Status = "CORRECTED"
)

// RecapCheck is the cash reconciliation of one rider-day.
type RecapCheck struct {
	Date         string        `json:"date"`
	RiderName    string        `json:"riderName"`
	Keys         []string      `json:"keys"`
	Omset        types.Rupiah  `json:"omset"`
	QRIS         types.Rupiah  `json:"qris"`
	Shopping     types.Rupiah  `json:"shopping"`
	Expected     types.Rupiah  `json:"expected"`
	ActualCash   *types.Rupiah `json:"actualCash,omitempty"`
	Variance     types.Rupiah  `json:"variance"`
	Status       Status        `json:"status"`
	CorrectionID string        `json:"correctionId,omitempty"`
}

// RiderQRIS is one rider's share of a day's system QRIS total.
type RiderQRIS struct {
	RiderName string       `json:"riderName"`
	Amount    types.Rupiah `json:"amount"`
}

// BankDay is the QRIS reconciliation of one calendar date.
type BankDay struct {
	Date         string        `json:"date"`
	SystemTotal  types.Rupiah  `json:"systemTotal"`
	Breakdown    []RiderQRIS   `json:"breakdown"`
	RecordID     string        `json:"recordId,omitempty"`
	Manual       *types.Rupiah `json:"manualQrisAmount,omitempty"`
	Snapshot     types.Rupiah  `json:"systemQrisSnapshot"`
	Note         string        `json:"note,omitempty"`
	Variance     types.Rupiah  `json:"variance"`
	Status       Status        `json:"status"`
	CorrectionID string        `json:"correctionId,omitempty"`
}

// BankReport lists the month's bank days, newest first.
type BankReport struct {
	Month         string       `json:"month"`
	Days          []BankDay    `json:"days"`
	TotalVariance types.Rupiah `json:"totalVariance"`
}

// CorrectRequest names the subject to balance. RiderName is ignored for BANK_QRIS.
type CorrectRequest struct {
	Date      string                `json:"date"`
	RiderName string                `json:"riderName,omitempty"`
	Kind      ledger.CorrectionKind `json:"kind"`
}

// Ref returns the structured correction key for the request.
func (r CorrectRequest) Ref() ledger.CorrectionRef {
	ref := ledger.CorrectionRef{Date: r.Date, Kind: r.Kind}
	if r.Kind == ledger.CorrectionCashRecap {
		ref.RiderName = r.RiderName
	}
	return ref
}

// CorrectResult is the correction row. Applied is false when the subject was
// already corrected and the existing row is returned instead.
type CorrectResult struct {
	Transaction ledger.Transaction `json:"transaction"`
	Applied     bool               `json:"applied"`
}
