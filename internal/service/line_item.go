package service

import (
	"github.com/vitrina-next/internal/models"

	"github.com/shopspring/decimal"
)

// LineItem 参与定价的单行商品
// UnitMeasure 为整行计量总和（单件计量 × 数量）
type LineItem struct {
	VariantID       uint
	ProductID       uint
	CategoryID      uint
	Quantity        int
	UnitPrice       decimal.Decimal
	UnitMeasure     decimal.Decimal
	Subtotal        decimal.Decimal
	DiscountApplied decimal.Decimal
}

// NewLineItem 由商品规格与数量构造定价行
func NewLineItem(variant *models.ProductVariant, quantity int) LineItem {
	qty := decimal.NewFromInt(int64(quantity))
	line := LineItem{
		VariantID:       variant.ID,
		ProductID:       variant.ProductID,
		CategoryID:      variant.CategoryID(),
		Quantity:        quantity,
		UnitPrice:       variant.Price.Decimal,
		UnitMeasure:     variant.UnitMeasure.Mul(qty),
		Subtotal:        variant.Price.Decimal.Mul(qty).Round(2),
		DiscountApplied: decimal.Zero,
	}
	return line
}

// sumSubtotal 汇总行小计
func sumSubtotal(lines []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Subtotal)
	}
	return total
}
