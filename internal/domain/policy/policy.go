// Package policy holds the business constants the aggregations depend on.
// Defaults reproduce the operation's fixed rules; a TOML file may override them.
package policy

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"kopikeliling/internal/core/apperror"
	"kopikeliling/internal/core/types"
)

const (
	// DefaultCommissionPerCup is paid to a rider for every cup sold.
	DefaultCommissionPerCup types.Rupiah = 1400
	// DefaultRawMaterialMaxPct is the raw-material share of omset above which a month is over budget.
	DefaultRawMaterialMaxPct int64 = 45
	// DefaultLaborMaxPct is the labor share of omset above which a month is over budget.
	DefaultLaborMaxPct int64 = 15
	// DefaultTopProducts is the size of the best-seller list.
	DefaultTopProducts = 5
	// DefaultStockKeyword identifies cup purchases for the stock level.
	DefaultStockKeyword = "cup"
)

// DefaultRawMaterialCategories are expense categories always counted as raw material.
var DefaultRawMaterialCategories = []string{"BAHAN_BAKU", "Produksi", "Sirup"}

// DefaultRawMaterialKeywords classify an expense as raw material by description.
var DefaultRawMaterialKeywords = []string{
	"es batu", "skm", "uht", "air", "plastik", "sedotan", "cup", "kresek", "tisu",
}

// Policy is the set of tunable business rules.
type Policy struct {
	CommissionPerCup      types.Rupiah `toml:"commission_per_cup"`
	RawMaterialMaxPct     int64        `toml:"raw_material_max_pct"`
	LaborMaxPct           int64        `toml:"labor_max_pct"`
	RawMaterialCategories []string     `toml:"raw_material_categories"`
	RawMaterialKeywords   []string     `toml:"raw_material_keywords"`
	StockKeyword          string       `toml:"stock_keyword"`
	TopProducts           int          `toml:"top_products"`
}

// Default returns the built-in policy.
func Default() Policy {
	return Policy{
		CommissionPerCup:      DefaultCommissionPerCup,
		RawMaterialMaxPct:     DefaultRawMaterialMaxPct,
		LaborMaxPct:           DefaultLaborMaxPct,
		RawMaterialCategories: append([]string(nil), DefaultRawMaterialCategories...),
		RawMaterialKeywords:   append([]string(nil), DefaultRawMaterialKeywords...),
		StockKeyword:          DefaultStockKeyword,
		TopProducts:           DefaultTopProducts,
	}
}

// Load reads a TOML policy file on top of the defaults.
// An empty path or a missing file yields Default().
func Load(path string) (Policy, error) {
	p := Default()
	if path == "" {
		return p, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return p, nil
	}
	if err != nil {
		return p, fmt.Errorf("read policy file: %w", err)
	}
	if err := Decode(string(data), &p); err != nil {
		return p, err
	}
	return p, nil
}

// Decode applies TOML content onto p and validates the result.
func Decode(content string, p *Policy) error {
	if _, err := toml.Decode(content, p); err != nil {
		return apperror.NewValidation("invalid policy file").WithCause(err)
	}
	return p.Validate()
}

// Validate checks the policy is usable.
func (p Policy) Validate() error {
	if p.CommissionPerCup < 0 {
		return apperror.NewValidation("commission_per_cup must not be negative")
	}
	if p.RawMaterialMaxPct <= 0 || p.RawMaterialMaxPct > 100 {
		return apperror.NewValidation("raw_material_max_pct must be within 1..100")
	}
	if p.LaborMaxPct <= 0 || p.LaborMaxPct > 100 {
		return apperror.NewValidation("labor_max_pct must be within 1..100")
	}
	if strings.TrimSpace(p.StockKeyword) == "" {
		return apperror.NewValidation("stock_keyword is required")
	}
	if p.TopProducts <= 0 {
		return apperror.NewValidation("top_products must be positive")
	}
	return nil
}

// Commission returns cups × commission rate.
func (p Policy) Commission(cups int64) types.Rupiah {
	return cups * p.CommissionPerCup
}

// IsRawMaterial classifies an expense by category or description keyword.
func (p Policy) IsRawMaterial(category, description string) bool {
	for _, c := range p.RawMaterialCategories {
		if category == c {
			return true
		}
	}
	desc := strings.ToLower(description)
	for _, kw := range p.RawMaterialKeywords {
		if kw != "" && strings.Contains(desc, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// IsStockPurchase reports whether an expense description names the stocked unit.
func (p Policy) IsStockPurchase(description string) bool {
	return strings.Contains(strings.ToLower(description), strings.ToLower(p.StockKeyword))
}
