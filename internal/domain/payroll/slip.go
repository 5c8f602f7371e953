package payroll

import (
	"fmt"
	"strings"

	"kopikeliling/internal/core/types"
	"kopikeliling/internal/domain/ledger"
)

const slipRule = "---------------------------------"

// Slip renders a plain-text salary slip suitable for chat apps.
func Slip(b Breakdown, commissionPerCup, bonus types.Rupiah, bonusNote string) string {
	var sb strings.Builder
	line := func(format string, args ...any) {
		fmt.Fprintf(&sb, format, args...)
		sb.WriteByte('\n')
	}

	line("*SLIP GAJI RIDER*")
	line(slipRule)
	line("Nama: %s", b.RiderName)
	line("Periode: %s", ledger.MonthLabel(b.Month))
	line("")
	line("*PENDAPATAN*")
	line("Total Jual: %d Cup", b.TotalCups)
	line("Komisi (x%d): %s", commissionPerCup, types.FormatRupiah(b.Commission))
	line("Uang Makan: %s", types.FormatRupiah(b.TotalMeal))
	if bonusNote != "" {
		line("Bonus/Insentif: %s (%s)", types.FormatRupiah(bonus), bonusNote)
	} else {
		line("Bonus/Insentif: %s", types.FormatRupiah(bonus))
	}
	line(slipRule)
	line("Total Kotor: %s", types.FormatRupiah(b.Commission+b.TotalMeal+bonus))
	line("")
	line("*POTONGAN (KASBON)*")
	if len(b.KasbonRows) == 0 {
		line("- Tidak ada kasbon")
	}
	for _, k := range b.KasbonRows {
		line("- %s: %s", ledger.ShortDayLabel(k.Day()), types.FormatRupiah(k.Amount))
	}
	line(slipRule)
	line("Total Potongan: %s", types.FormatRupiah(b.Kasbon))
	line("")
	line("*TOTAL BERSIH (TAKE HOME PAY)*")
	line("*%s*", types.FormatRupiah(b.NetSalary+bonus))
	line(slipRule)
	if b.Paid {
		sb.WriteString("_Status: SUDAH DIBAYAR_")
	} else {
		sb.WriteString("_Status: BELUM DIBAYAR_")
	}
	return sb.String()
}
