package records

import (
	"time"

	"kopikeliling/internal/domain/ledger"
)

// Defaults returns the seed dataset used for any collection that has never been saved.
func Defaults() *Dataset {
	return &Dataset{
		Products: []ledger.Product{
			{ID: "p1", Name: "Americano", Price: 8000, Category: "Coffee", HPP: 4000},
			{ID: "p2", Name: "Kopi Susu", Price: 10000, Category: "Coffee", HPP: 5000},
			{ID: "p3", Name: "Kopsu Aren", Price: 12000, Category: "Coffee", HPP: 6000},
			{ID: "p4", Name: "Kopi Klepon", Price: 15000, Category: "Coffee", HPP: 7000},
			{ID: "p5", Name: "Butterscotch", Price: 15000, Category: "Coffee", HPP: 7000},
			{ID: "p6", Name: "Caramel", Price: 15000, Category: "Coffee", HPP: 7000},
			{ID: "p7", Name: "Kopsu Pandan", Price: 12000, Category: "Coffee", HPP: 6000},
			{ID: "p8", Name: "Coklat", Price: 10000, Category: "Non-Coffee", HPP: 5000},
			{ID: "p9", Name: "Matcha", Price: 12000, Category: "Non-Coffee", HPP: 6000},
		},
		ExpenseItems: []ledger.ExpenseItem{
			{ID: "e1", Name: "Es Batu", Category: ledger.CategoryRawMaterial},
			{ID: "e2", Name: "SKM", Category: ledger.CategoryRawMaterial},
			{ID: "e3", Name: "UHT", Category: ledger.CategoryRawMaterial},
			{ID: "e4", Name: "Air", Category: ledger.CategoryRawMaterial},
			{ID: "e5", Name: "Plastik", Category: ledger.CategoryRawMaterial},
			{ID: "e6", Name: "Sedotan", Category: ledger.CategoryRawMaterial},
			{ID: "e7", Name: "Cup", Category: ledger.CategoryRawMaterial},
			{ID: "e8", Name: "Kresek", Category: ledger.CategoryRawMaterial},
			{ID: "e9", Name: "Tisu", Category: ledger.CategoryRawMaterial},
			{ID: "e10", Name: "Bensin", Category: ledger.CategoryOperational},
			{ID: "e11", Name: "Lainnya", Category: ledger.CategoryOther},
		},
		BookkeepingItems: []ledger.BookkeepingItem{
			{ID: "b1", Category: ledger.CategoryProduction, Name: "Bubuk Kopi"},
			{ID: "b2", Category: ledger.CategoryProduction, Name: "SKM"},
			{ID: "b3", Category: ledger.CategoryProduction, Name: "Krimer"},
			{ID: "b4", Category: ledger.CategoryProduction, Name: "Coklat"},
			{ID: "b5", Category: ledger.CategoryProduction, Name: "Matcha"},
			{ID: "b6", Category: ledger.CategorySyrup, Name: "Butterscotch"},
			{ID: "b7", Category: ledger.CategorySyrup, Name: "Hazel"},
			{ID: "b8", Category: ledger.CategorySyrup, Name: "Caramel"},
			{ID: "b9", Category: ledger.CategorySyrup, Name: "Pandan"},
			{ID: "b10", Category: ledger.CategorySyrup, Name: "Aren"},
			{ID: "b11", Category: ledger.CategoryAsset, Name: "Cup"},
			{ID: "b12", Category: ledger.CategoryAsset, Name: "Sedotan"},
			{ID: "b13", Category: ledger.CategoryAsset, Name: "Plastik"},
		},
		Riders: []ledger.Rider{
			{ID: "r1", Name: "Rider 1", Status: ledger.RiderActive},
			{ID: "r2", Name: "Rider 2", Status: ledger.RiderActive},
		},
		Transactions: []ledger.Transaction{},
		StockOpnames: []ledger.StockOpname{},
		Capital: ledger.Capital{
			InitialCash:     500_000,
			InitialBank:     1_000_000,
			InitialCupStock: 0,
			Month:           ledger.MonthKey(time.Now()),
		},
		BankReconciliations: []ledger.BankReconciliation{},
	}
}
