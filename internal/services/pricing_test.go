package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"salescrm/internal/models"
)

func TestLineTaxPercentageDiscountBeforeTax(t *testing.T) {
	item := models.LineItem{
		Quantity: 2, UnitPrice: 100,
		Discount: 10, DiscountType: models.DiscountPercentage,
		TaxRate: 18,
	}
	// 200 - 20 = 180 base, 18% of 180 = 32.40
	assert.InDelta(t, 32.40, LineTaxAmount(item, true), 1e-9)
	assert.InDelta(t, 212.40, LineTotal(item, true), 1e-9)
}

func TestLineTaxDisabled(t *testing.T) {
	item := models.LineItem{
		Quantity: 2, UnitPrice: 100,
		Discount: 10, DiscountType: models.DiscountPercentage,
		TaxRate: 18,
	}
	assert.Zero(t, LineTaxAmount(item, false))
	assert.InDelta(t, 180, LineTotal(item, false), 1e-9)
}

func TestLineFixedDiscount(t *testing.T) {
	item := models.LineItem{
		Quantity: 3, UnitPrice: 200,
		Discount: 150, DiscountType: models.DiscountFixed,
	}
	// 600 - 150, no tax rate
	assert.InDelta(t, 450, LineTotal(item, true), 1e-9)
}

func TestComputeTotalsAggregates(t *testing.T) {
	items := []models.LineItem{
		{Quantity: 2, UnitPrice: 100, Discount: 10, DiscountType: models.DiscountPercentage, TaxRate: 18},
		{Quantity: 1, UnitPrice: 50, TaxRate: 5},
		{Quantity: 4, UnitPrice: 25, Discount: 20, DiscountType: models.DiscountFixed},
	}
	got := ComputeTotals(items, true)

	assert.InDelta(t, 350, got.Subtotal, 1e-9)
	assert.InDelta(t, 40, got.TotalDiscount, 1e-9)
	assert.InDelta(t, 32.40+2.50, got.TotalTax, 1e-9)
	assert.InDelta(t, got.Subtotal-got.TotalDiscount+got.TotalTax, got.Total, 1e-9)

	// Aggregates equal the sum over individual lines.
	var lines float64
	for _, item := range items {
		lines += LineTotal(item, true)
	}
	assert.InDelta(t, lines, got.Total, 1e-9)
}

func TestComputeTotalsEmpty(t *testing.T) {
	got := ComputeTotals(nil, true)
	assert.Zero(t, got.Subtotal)
	assert.Zero(t, got.TotalDiscount)
	assert.Zero(t, got.TotalTax)
	assert.Zero(t, got.Total)
}

func TestComputeTotalsZeroQuantityLine(t *testing.T) {
	items := []models.LineItem{
		{Quantity: 0, UnitPrice: 100, TaxRate: 18},
		{Quantity: 1, UnitPrice: 100, TaxRate: 18},
	}
	got := ComputeTotals(items, true)
	assert.InDelta(t, 100, got.Subtotal, 1e-9)
	assert.InDelta(t, 18, got.TotalTax, 1e-9)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 212.4, Round2(212.40000000000003))
	assert.Equal(t, 1.23, Round2(1.2345))
	assert.Equal(t, -1.23, Round2(-1.2345))
	assert.Equal(t, 100.0, Round2(100))
}

func TestRoundTotalsIdempotent(t *testing.T) {
	t1 := RoundTotals(ComputeTotals([]models.LineItem{
		{Quantity: 3, UnitPrice: 33.333, Discount: 7, DiscountType: models.DiscountPercentage, TaxRate: 18},
	}, true))
	t2 := RoundTotals(t1)
	assert.Equal(t, t1, t2)
}

func TestRoundingHappensOnceNotPerLine(t *testing.T) {
	// Many small lines whose per-line rounding would drift from the
	// rounded aggregate.
	var items []models.LineItem
	for i := 0; i < 10; i++ {
		items = append(items, models.LineItem{Quantity: 1, UnitPrice: 0.111})
	}
	got := RoundTotals(ComputeTotals(items, true))
	assert.Equal(t, 1.11, got.Subtotal)

	var perLine float64
	for _, item := range items {
		perLine += Round2(LineTotal(item, true))
	}
	assert.NotEqual(t, got.Subtotal, perLine, "per-line rounding would accumulate differently")
}

func TestValidateLineItems(t *testing.T) {
	assert.NoError(t, validateLineItems([]models.LineItem{
		{Quantity: 1, UnitPrice: 10, DiscountType: models.DiscountPercentage},
		{Quantity: 1, UnitPrice: 10}, // discount type defaults later
	}))
	assert.Error(t, validateLineItems([]models.LineItem{{Quantity: -1, UnitPrice: 10}}))
	assert.Error(t, validateLineItems([]models.LineItem{{Quantity: 1, UnitPrice: 10, DiscountType: "half-off"}}))
}
