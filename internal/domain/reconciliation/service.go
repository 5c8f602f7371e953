package reconciliation

import (
	"context"
	"time"

	"kopikeliling/internal/core/apperror"
	"kopikeliling/internal/core/id"
	"kopikeliling/internal/core/types"
	"kopikeliling/internal/domain/ledger"
	"kopikeliling/internal/domain/records"
	"kopikeliling/pkg/logger"
)

const correctionNote = "Penyesuaian selisih agar saldo aplikasi sesuai hitungan fisik."

// Service runs reconciliation over the Record Store.
type Service struct {
	store *records.Store
	now   func() time.Time
}

// NewService creates a reconciliation service.
func NewService(store *records.Store) *Service {
	return &Service{store: store, now: time.Now}
}

// Recaps returns the month's rider-day cash checks.
func (s *Service) Recaps(_ context.Context, month string) ([]RecapCheck, error) {
	if _, err := ledger.ParseMonth(month); err != nil {
		return nil, err
	}
	return Recaps(s.store.Snapshot().Transactions, month), nil
}

// BankDays returns the month's QRIS checks.
func (s *Service) BankDays(_ context.Context, month string) (BankReport, error) {
	if _, err := ledger.ParseMonth(month); err != nil {
		return BankReport{}, err
	}
	snap := s.store.Snapshot()
	return BankDays(snap.Transactions, snap.BankReconciliations, month), nil
}

// SaveBankReconciliation stores the bank statement amount for date, replacing
// any earlier record for that date. The system total at save time is kept as
// a snapshot.
func (s *Service) SaveBankReconciliation(ctx context.Context, date string, manual types.Rupiah, note string) (ledger.BankReconciliation, error) {
	if _, err := ledger.ParseDay(date); err != nil {
		return ledger.BankReconciliation{}, err
	}
	if manual < 0 {
		return ledger.BankReconciliation{}, apperror.NewValidation("manualQrisAmount must not be negative").
			WithDetail("field", "manualQrisAmount")
	}

	var rec ledger.BankReconciliation
	err := s.store.Mutate(ctx, "reconciliation.bank.save", func(d *records.Dataset) error {
		system, _ := SystemQRIS(d.Transactions, date)
		rec = ledger.BankReconciliation{
			ID:               id.Tagged("recon", date),
			Date:             date,
			ManualQRISAmount: manual,
			SystemQRISAmount: system,
			Variance:         manual - system,
			Note:             note,
		}
		if prev, ok := d.BankReconciliationFor(date); ok {
			rec.ID = prev.ID
		}
		d.UpsertBankReconciliation(rec)
		return nil
	})
	if err != nil {
		return ledger.BankReconciliation{}, err
	}
	logger.Info(ctx, "bank reconciliation saved",
		"date", date,
		"manual", manual,
		"system", rec.SystemQRISAmount,
		"variance", rec.Variance,
	)
	return rec, nil
}

// Correct writes the row balancing the subject's variance. The lookup and
// the insert run in one mutation, so a subject is corrected at most once; a
// repeated call returns the existing row with Applied=false.
func (s *Service) Correct(ctx context.Context, req CorrectRequest) (CorrectResult, error) {
	if _, err := ledger.ParseDay(req.Date); err != nil {
		return CorrectResult{}, err
	}
	ref := req.Ref()
	switch ref.Kind {
	case ledger.CorrectionCashRecap:
		if ref.RiderName == "" {
			return CorrectResult{}, apperror.NewValidation("rider is required").WithDetail("field", "riderName")
		}
	case ledger.CorrectionBankQRIS:
	default:
		return CorrectResult{}, apperror.NewValidation("unknown correction kind").WithDetail("kind", req.Kind)
	}

	var res CorrectResult
	err := s.store.Mutate(ctx, "reconciliation.correct", func(d *records.Dataset) error {
		if existing, ok := FindCorrection(d.Transactions, ref); ok {
			res = CorrectResult{Transaction: existing}
			return nil
		}
		variance, err := varianceOf(d, ref)
		if err != nil {
			return err
		}
		row, err := s.correctionRow(ref, variance)
		if err != nil {
			return err
		}
		res = CorrectResult{Transaction: row, Applied: true}
		return d.InsertTransactions(row)
	})
	if err != nil {
		return CorrectResult{}, err
	}

	if res.Applied {
		logger.Info(ctx, "correction applied",
			"key", ref.Key(),
			"id", res.Transaction.ID,
			"type", res.Transaction.Type,
			"amount", res.Transaction.Amount,
		)
	} else {
		logger.Debug(ctx, "correction already present", "key", ref.Key(), "id", res.Transaction.ID)
	}
	return res, nil
}

func varianceOf(d *records.Dataset, ref ledger.CorrectionRef) (types.Rupiah, error) {
	var (
		variance types.Rupiah
		counted  bool
	)
	switch ref.Kind {
	case ledger.CorrectionBankQRIS:
		r, ok := d.BankReconciliationFor(ref.Date)
		if !ok {
			return 0, apperror.NewNotFound("bank reconciliation", ref.Date)
		}
		system, _ := SystemQRIS(d.Transactions, ref.Date)
		variance, counted = r.ManualQRISAmount-system, true
	default:
		month := ref.Date[:len(ledger.MonthLayout)]
		found := false
		for _, c := range Recaps(d.Transactions, month) {
			if c.Date == ref.Date && c.RiderName == ref.RiderName {
				found = true
				variance, counted = c.Variance, c.ActualCash != nil
				break
			}
		}
		if !found {
			return 0, apperror.NewNotFound("recap", ref.Date+"|"+ref.RiderName)
		}
	}
	if !counted || variance == 0 {
		return 0, apperror.NewBusinessRule(apperror.CodeNothingToCorrect, "no variance to correct").
			WithDetail("key", ref.Key())
	}
	return variance, nil
}

func (s *Service) correctionRow(ref ledger.CorrectionRef, variance types.Rupiah) (ledger.Transaction, error) {
	date, err := ledger.AtDay(ref.Date, s.now())
	if err != nil {
		return ledger.Transaction{}, err
	}
	row := ledger.Transaction{
		ID:            id.Tagged("corr", "cash"),
		Date:          date,
		Type:          ledger.Income,
		Amount:        variance,
		PaymentMethod: ledger.Cash,
		Category:      ledger.CategoryCorrection,
		Description:   tagFor(ref),
		Notes:         correctionNote,
		Correction:    &ref,
	}
	if variance < 0 {
		row.Type = ledger.Expense
		row.Amount = -variance
	}
	if ref.Kind == ledger.CorrectionBankQRIS {
		row.ID = id.Tagged("corr", "qris")
		row.PaymentMethod = ledger.Transfer
	}
	return row, nil
}
