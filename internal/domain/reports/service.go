package reports

import (
	"context"

	"kopikeliling/internal/domain/ledger"
	"kopikeliling/internal/domain/payroll"
	"kopikeliling/internal/domain/policy"
	"kopikeliling/internal/domain/records"
)

// Service runs the aggregations over the store's current snapshot.
type Service struct {
	store  *records.Store
	policy policy.Policy
}

// NewService creates a reports service.
func NewService(store *records.Store, p policy.Policy) *Service {
	return &Service{store: store, policy: p}
}

// Dashboard bundles the views shown on the landing page.
type Dashboard struct {
	Summary     Summary              `json:"summary"`
	Balances    Balances             `json:"balances"`
	CostRatio   CostRatio            `json:"costRatio"`
	TopProducts []ProductStat        `json:"topProducts"`
	Recent      []ledger.Transaction `json:"recent"`
}

const recentRows = 5

func (s *Service) snapshot(month string) (*records.Dataset, error) {
	if _, err := ledger.ParseMonth(month); err != nil {
		return nil, err
	}
	return s.store.Snapshot(), nil
}

// Dashboard returns the headline views for month.
func (s *Service) Dashboard(_ context.Context, month string) (Dashboard, error) {
	d, err := s.snapshot(month)
	if err != nil {
		return Dashboard{}, err
	}
	recent := d.Transactions
	if len(recent) > recentRows {
		recent = recent[:recentRows]
	}
	return Dashboard{
		Summary:     BuildSummary(d.Transactions, d.Capital, month),
		Balances:    BuildBalances(d.Transactions, d.Capital),
		CostRatio:   BuildCostRatio(d.Transactions, d.Capital, month, s.policy),
		TopProducts: TopProducts(ProductStats(d.Transactions, d.Products, month), s.policy.TopProducts),
		Recent:      recent,
	}, nil
}

// Summary returns the dashboard headline.
func (s *Service) Summary(_ context.Context, month string) (Summary, error) {
	d, err := s.snapshot(month)
	if err != nil {
		return Summary{}, err
	}
	return BuildSummary(d.Transactions, d.Capital, month), nil
}

// Products returns the month's product stats and the top sellers.
func (s *Service) Products(_ context.Context, month string) ([]ProductStat, []ProductStat, error) {
	d, err := s.snapshot(month)
	if err != nil {
		return nil, nil, err
	}
	stats := ProductStats(d.Transactions, d.Products, month)
	return stats, TopProducts(stats, s.policy.TopProducts), nil
}

// Categories returns the month's expense categories.
func (s *Service) Categories(_ context.Context, month string) (CategoryReport, error) {
	d, err := s.snapshot(month)
	if err != nil {
		return CategoryReport{}, err
	}
	return CategoryStats(d.Transactions, month), nil
}

// Items drills a category or method down to cleaned item names.
func (s *Service) Items(_ context.Context, month string, f ItemFilter) ([]ItemStat, error) {
	d, err := s.snapshot(month)
	if err != nil {
		return nil, err
	}
	return ItemDrillDown(d.Transactions, month, f), nil
}

// ItemHistory returns the rows behind one item name.
func (s *Service) ItemHistory(_ context.Context, month, item string, f ItemFilter) ([]ledger.Transaction, error) {
	d, err := s.snapshot(month)
	if err != nil {
		return nil, err
	}
	return ItemHistory(d.Transactions, month, item, f), nil
}

// Daily returns the month's daily rollup.
func (s *Service) Daily(_ context.Context, month string) (DailyReport, error) {
	d, err := s.snapshot(month)
	if err != nil {
		return DailyReport{}, err
	}
	return DailyRollup(d.Transactions, month)
}

// Riders returns the month's rider rollup.
func (s *Service) Riders(_ context.Context, month string) ([]RiderStat, error) {
	d, err := s.snapshot(month)
	if err != nil {
		return nil, err
	}
	return RiderRollup(d.Transactions, month), nil
}

// QRIS returns the month's QRIS matrix.
func (s *Service) QRIS(_ context.Context, month string) (Matrix, error) {
	d, err := s.snapshot(month)
	if err != nil {
		return Matrix{}, err
	}
	return QRISMatrix(d.Transactions, month), nil
}

// COH returns the month's cash-on-hand matrix.
func (s *Service) COH(_ context.Context, month string) (Matrix, error) {
	d, err := s.snapshot(month)
	if err != nil {
		return Matrix{}, err
	}
	return COHMatrix(d.Transactions, month), nil
}

// CostRatio returns the month's cost analysis.
func (s *Service) CostRatio(_ context.Context, month string) (CostRatio, error) {
	d, err := s.snapshot(month)
	if err != nil {
		return CostRatio{}, err
	}
	return BuildCostRatio(d.Transactions, d.Capital, month, s.policy), nil
}

// Finance returns the filtered month ledger with salary still owed netted out.
func (s *Service) Finance(_ context.Context, month string, f FinanceFilter) (FinanceReport, error) {
	d, err := s.snapshot(month)
	if err != nil {
		return FinanceReport{}, err
	}
	pending := payroll.PendingSalary(payroll.EstimateAll(d.Transactions, d.Riders, month, s.policy))
	return BuildFinance(d.Transactions, month, f, pending), nil
}

// Flows returns the all-time cash and bank flows.
func (s *Service) Flows(_ context.Context) (Flow, Flow) {
	d := s.store.Snapshot()
	return CashFlow(d.Transactions, d.Capital), BankFlow(d.Transactions, d.Capital)
}
