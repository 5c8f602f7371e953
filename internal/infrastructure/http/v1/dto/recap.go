package dto

import (
	"time"

	"kopikeliling/internal/core/types"
	"kopikeliling/internal/domain/recap"
)

// RecapRequest is a submitted daily recap.
type RecapRequest struct {
	Date             string              `json:"date" binding:"required"`
	RiderName        string              `json:"riderName" binding:"required"`
	Sold             map[string]int64    `json:"sold"`
	Expenses         []recap.ExpenseLine `json:"expenses"`
	QRISAmount       types.Rupiah        `json:"qrisAmount"`
	ActualCash       types.Rupiah        `json:"actualCash"`
	MealCost         types.Rupiah        `json:"mealCost"`
	Note             string              `json:"note,omitempty"`
	ConfirmDuplicate bool                `json:"confirmDuplicate"`
}

// ToInput converts to the encoder input.
func (r *RecapRequest) ToInput(now time.Time) (recap.Input, error) {
	date, err := ParseDate(r.Date, now)
	if err != nil {
		return recap.Input{}, err
	}
	return recap.Input{
		Sold:       r.Sold,
		Expenses:   r.Expenses,
		QRISAmount: r.QRISAmount,
		ActualCash: r.ActualCash,
		MealCost:   r.MealCost,
		Note:       r.Note,
		Date:       date,
		RiderName:  r.RiderName,
	}, nil
}

// RecapDeleteResponse reports removed rows.
type RecapDeleteResponse struct {
	Removed int `json:"removed"`
}
