package services

import (
	"math"

	"salescrm/internal/models"
)

// Pricing rules shared by deal, invoice and credit note forms. Discounts
// apply before tax: the tax base is the line amount minus its discount.
// All functions here are pure and safe to call on every edit; callers
// sanitize input (non-finite numbers are a precondition violation).

func lineDiscount(item models.LineItem) float64 {
	if item.DiscountType == models.DiscountPercentage {
		return item.Quantity * item.UnitPrice * item.Discount / 100
	}
	return item.Discount
}

// LineTaxAmount returns the tax for a single line. Zero when tax is
// disabled for the document or the line carries no rate.
func LineTaxAmount(item models.LineItem, taxEnabled bool) float64 {
	if !taxEnabled || item.TaxRate == 0 {
		return 0
	}
	base := item.Quantity*item.UnitPrice - lineDiscount(item)
	return base * item.TaxRate / 100
}

// LineTotal returns the line amount after discount and tax.
func LineTotal(item models.LineItem, taxEnabled bool) float64 {
	return item.Quantity*item.UnitPrice - lineDiscount(item) + LineTaxAmount(item, taxEnabled)
}

// ComputeTotals derives the aggregate figures for a document from its line
// items. Values are accumulated unrounded; rounding happens once, at
// persistence/serialization time, via RoundTotals.
func ComputeTotals(items []models.LineItem, taxEnabled bool) models.FinancialTotals {
	var t models.FinancialTotals
	for _, item := range items {
		t.Subtotal += item.Quantity * item.UnitPrice
		t.TotalDiscount += lineDiscount(item)
		t.TotalTax += LineTaxAmount(item, taxEnabled)
	}
	t.Total = t.Subtotal - t.TotalDiscount + t.TotalTax
	return t
}

// Round2 rounds a monetary value to 2 decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// RoundTotals rounds every figure for persistence or display.
func RoundTotals(t models.FinancialTotals) models.FinancialTotals {
	return models.FinancialTotals{
		Subtotal:      Round2(t.Subtotal),
		TotalDiscount: Round2(t.TotalDiscount),
		TotalTax:      Round2(t.TotalTax),
		Total:         Round2(t.Total),
	}
}
