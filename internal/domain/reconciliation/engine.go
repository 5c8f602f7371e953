package reconciliation

import (
	"fmt"
	"sort"
	"strings"

	"kopikeliling/internal/domain/ledger"
	"kopikeliling/internal/domain/recap"
)

// CashTag is the description of a rider-day cash correction.
func CashTag(rider, day string) string {
	return fmt.Sprintf("Koreksi Kas %s (%s)", rider, ledger.ShortDayLabel(day))
}

// BankTag is the description of a QRIS correction.
func BankTag(day string) string {
	return fmt.Sprintf("Koreksi Selisih QRIS (%s)", ledger.ShortDayLabel(day))
}

func tagFor(ref ledger.CorrectionRef) string {
	if ref.Kind == ledger.CorrectionBankQRIS {
		return BankTag(ref.Date)
	}
	return CashTag(ref.RiderName, ref.Date)
}

// FindCorrection returns the correction row already balancing ref. Rows
// carrying a structured reference match on its key; older rows without one
// match on the date and the tag in their description.
func FindCorrection(txs []ledger.Transaction, ref ledger.CorrectionRef) (ledger.Transaction, bool) {
	key := ref.Key()
	tag := tagFor(ref)
	for _, t := range txs {
		if t.Category != ledger.CategoryCorrection {
			continue
		}
		if t.Correction != nil {
			if t.Correction.Key() == key {
				return t, true
			}
			continue
		}
		if t.Day() == ref.Date && strings.Contains(t.Description, tag) {
			return t, true
		}
	}
	return ledger.Transaction{}, false
}

func status(counted bool, variance int64, corrected bool) Status {
	switch {
	case !counted:
		return StatusUnchecked
	case variance == 0:
		return StatusMatch
	case corrected:
		return StatusCorrected
	default:
		return StatusMismatch
	}
}

// Recaps reconciles every rider-day of month. Recap groups of the same rider
// on the same day are checked together.
func Recaps(txs []ledger.Transaction, month string) []RecapCheck {
	index := make(map[string]*RecapCheck)
	var order []string

	for _, g := range recap.Groups(txs) {
		if !strings.HasPrefix(g.Date, month) {
			continue
		}
		k := g.Date + "|" + g.RiderName
		c, ok := index[k]
		if !ok {
			c = &RecapCheck{Date: g.Date, RiderName: g.RiderName}
			index[k] = c
			order = append(order, k)
		}
		c.Keys = append(c.Keys, g.Key)
		c.Omset += g.Omset
		c.QRIS += g.QRIS
		c.Shopping += g.Shopping
		if g.CashCounted {
			actual := g.CashOnHand
			if c.ActualCash != nil {
				actual += *c.ActualCash
			}
			c.ActualCash = ledger.Ptr(actual)
		}
	}

	out := make([]RecapCheck, 0, len(order))
	for _, k := range order {
		c := index[k]
		c.Expected = c.Omset - c.QRIS - c.Shopping
		if c.ActualCash != nil {
			c.Variance = *c.ActualCash - c.Expected
		}
		corr, found := FindCorrection(txs, ledger.CorrectionRef{
			Date:      c.Date,
			RiderName: c.RiderName,
			Kind:      ledger.CorrectionCashRecap,
		})
		if found {
			c.CorrectionID = corr.ID
		}
		c.Status = status(c.ActualCash != nil, c.Variance, found)
		out = append(out, *c)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		return out[i].RiderName < out[j].RiderName
	})
	return out
}

// SystemQRIS sums the non-cash income dated day, with a per-rider breakdown.
// Correction rows are left out so a correction never feeds its own total.
func SystemQRIS(txs []ledger.Transaction, day string) (int64, []RiderQRIS) {
	var total int64
	byRider := make(map[string]int64)
	for _, t := range txs {
		if !t.IsIncome() || t.PaymentMethod.IsCash() || t.Day() != day || ledger.IsSynthetic(t.Category) {
			continue
		}
		total += t.Amount
		byRider[t.RiderOrHouse()] += t.Amount
	}
	breakdown := make([]RiderQRIS, 0, len(byRider))
	for name, amt := range byRider {
		breakdown = append(breakdown, RiderQRIS{RiderName: name, Amount: amt})
	}
	sort.Slice(breakdown, func(i, j int) bool { return breakdown[i].RiderName < breakdown[j].RiderName })
	return total, breakdown
}

// BankDays reconciles every date of month that has QRIS income or a saved
// bank record. The system side is always recomputed; the stored snapshot is
// reported for reference only. TotalVariance spans every saved record.
func BankDays(txs []ledger.Transaction, recons []ledger.BankReconciliation, month string) BankReport {
	rep := BankReport{Month: month, Days: []BankDay{}}
	dates := make(map[string]struct{})
	for _, t := range txs {
		if t.IsIncome() && !t.PaymentMethod.IsCash() && t.Month() == month && !ledger.IsSynthetic(t.Category) {
			dates[t.Day()] = struct{}{}
		}
	}
	byDate := make(map[string]ledger.BankReconciliation, len(recons))
	for _, r := range recons {
		byDate[r.Date] = r
		if strings.HasPrefix(r.Date, month) {
			dates[r.Date] = struct{}{}
		}
	}

	for day := range dates {
		total, breakdown := SystemQRIS(txs, day)
		bd := BankDay{Date: day, SystemTotal: total, Breakdown: breakdown}
		r, saved := byDate[day]
		if saved {
			bd.RecordID = r.ID
			bd.Manual = ledger.Ptr(r.ManualQRISAmount)
			bd.Snapshot = r.SystemQRISAmount
			bd.Note = r.Note
			bd.Variance = r.ManualQRISAmount - total
		}
		corr, found := FindCorrection(txs, ledger.CorrectionRef{Date: day, Kind: ledger.CorrectionBankQRIS})
		if found {
			bd.CorrectionID = corr.ID
		}
		bd.Status = status(saved, bd.Variance, found)
		rep.Days = append(rep.Days, bd)
	}
	sort.Slice(rep.Days, func(i, j int) bool { return rep.Days[i].Date > rep.Days[j].Date })

	for _, r := range recons {
		total, _ := SystemQRIS(txs, r.Date)
		rep.TotalVariance += r.ManualQRISAmount - total
	}
	return rep
}
