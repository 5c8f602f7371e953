package payroll

import (
	"context"
	"fmt"
	"time"

	"kopikeliling/internal/core/apperror"
	"kopikeliling/internal/core/id"
	"kopikeliling/internal/core/types"
	"kopikeliling/internal/domain/ledger"
	"kopikeliling/internal/domain/policy"
	"kopikeliling/internal/domain/records"
	"kopikeliling/pkg/logger"
)

// PayRequest records one salary payment.
type PayRequest struct {
	RiderID   string               `json:"riderId"`
	Month     string               `json:"month"`
	Date      string               `json:"date"`
	Method    ledger.PaymentMethod `json:"method"`
	Bonus     types.Rupiah         `json:"bonus"`
	BonusNote string               `json:"bonusNote,omitempty"`
	AdminFee  types.Rupiah         `json:"adminFee"`
}

// PayResult holds the rows written for a payment.
type PayResult struct {
	Salary ledger.Transaction  `json:"salary"`
	Fee    *ledger.Transaction `json:"fee,omitempty"`
}

// Service reads and pays salaries through the Record Store.
type Service struct {
	store  *records.Store
	policy policy.Policy
	now    func() time.Time
}

// NewService creates a payroll service.
func NewService(store *records.Store, p policy.Policy) *Service {
	return &Service{store: store, policy: p, now: time.Now}
}

// Estimates returns every rider's estimate for month.
func (s *Service) Estimates(_ context.Context, month string) ([]Estimate, error) {
	if _, err := ledger.ParseMonth(month); err != nil {
		return nil, err
	}
	snap := s.store.Snapshot()
	return EstimateAll(snap.Transactions, snap.Riders, month, s.policy), nil
}

// Breakdown returns one rider's daily earnings for month.
func (s *Service) Breakdown(_ context.Context, riderID, month string) (Breakdown, error) {
	if _, err := ledger.ParseMonth(month); err != nil {
		return Breakdown{}, err
	}
	snap := s.store.Snapshot()
	rider, err := findRider(snap.Riders, riderID)
	if err != nil {
		return Breakdown{}, err
	}
	return BuildBreakdown(snap.Transactions, rider, month, s.policy), nil
}

// Slip renders the salary slip of a rider.
func (s *Service) Slip(ctx context.Context, riderID, month string, bonus types.Rupiah, bonusNote string) (string, error) {
	b, err := s.Breakdown(ctx, riderID, month)
	if err != nil {
		return "", err
	}
	return Slip(b, s.policy.CommissionPerCup, bonus, bonusNote), nil
}

// Pay writes the salary row, plus an admin fee row for paid transfers. A
// rider already paid for the month is refused with ALREADY_PAID.
func (s *Service) Pay(ctx context.Context, req PayRequest) (PayResult, error) {
	if _, err := ledger.ParseMonth(req.Month); err != nil {
		return PayResult{}, err
	}
	if req.Method == "" {
		req.Method = ledger.Cash
	}
	if !req.Method.Valid() {
		return PayResult{}, apperror.NewValidation("unknown payment method").WithDetail("method", req.Method)
	}
	if req.Bonus < 0 || req.AdminFee < 0 {
		return PayResult{}, apperror.NewValidation("bonus and admin fee must not be negative")
	}
	now := s.now()
	date := now
	if req.Date != "" {
		d, err := ledger.AtDay(req.Date, now)
		if err != nil {
			return PayResult{}, err
		}
		date = d
	}

	var res PayResult
	err := s.store.Mutate(ctx, "payroll.pay", func(d *records.Dataset) error {
		rider, err := findRider(d.Riders, req.RiderID)
		if err != nil {
			return err
		}
		est := EstimateRider(d.Transactions, rider, req.Month, s.policy)
		if est.Paid {
			return apperror.NewBusinessRule(apperror.CodeAlreadyPaid, "salary already paid for this period").
				WithDetail("rider", rider.Name).
				WithDetail("month", req.Month).
				WithDetail("transactionId", est.PaymentID)
		}
		amount := est.NetSalary + req.Bonus
		if amount <= 0 {
			return apperror.NewBusinessRule(apperror.CodeBusinessRule, "nothing to pay").
				WithDetail("rider", rider.Name).
				WithDetail("month", req.Month)
		}

		bonusNote := req.BonusNote
		if bonusNote == "" {
			bonusNote = "Tanpa ket"
		}
		res.Salary = ledger.Transaction{
			ID:            id.Tagged("sal"),
			Date:          date,
			Type:          ledger.Expense,
			Amount:        amount,
			PaymentMethod: req.Method,
			Category:      ledger.CategorySalary,
			Description:   fmt.Sprintf("Gaji %s (%s)", rider.Name, ledger.MonthLabel(req.Month)),
			RiderName:     rider.Name,
			Notes: fmt.Sprintf("Total Jual: %d Cup. Bonus: %s (%s)",
				est.TotalCups, types.FormatRupiah(req.Bonus), bonusNote),
			Salary: &ledger.SalaryRef{RiderID: rider.ID, RiderName: rider.Name, Period: req.Month},
		}
		rows := []ledger.Transaction{res.Salary}
		if req.Method == ledger.Transfer && req.AdminFee > 0 {
			fee := ledger.Transaction{
				ID:            id.Tagged("sal", "fee"),
				Date:          date,
				Type:          ledger.Expense,
				Amount:        req.AdminFee,
				PaymentMethod: ledger.Transfer,
				Category:      ledger.CategoryOperational,
				Description:   "Biaya Admin Transfer Gaji " + rider.Name,
			}
			res.Fee = &fee
			rows = append(rows, fee)
		}
		return d.InsertTransactions(rows...)
	})
	if err != nil {
		return PayResult{}, err
	}
	logger.Info(ctx, "salary paid",
		"rider", res.Salary.RiderName,
		"month", req.Month,
		"amount", res.Salary.Amount,
		"method", req.Method,
	)
	return res, nil
}

func findRider(riders []ledger.Rider, riderID string) (ledger.Rider, error) {
	for _, r := range riders {
		if r.ID == riderID {
			return r, nil
		}
	}
	return ledger.Rider{}, apperror.NewNotFound("rider", riderID)
}
