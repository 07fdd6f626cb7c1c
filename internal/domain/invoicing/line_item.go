package invoicing

import (
	"time"

	"github.com/billing/backend/internal/domain/shared"
	"github.com/billing/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineAmounts holds the derived monetary values of a single invoice line.
type LineAmounts struct {
	Gross          decimal.Decimal // quantity * unit price, before discount
	DiscountAmount decimal.Decimal // resolved discount (percent-first)
	TaxAmount      decimal.Decimal // tax on the discounted net
	LineTotal      decimal.Decimal // net + tax
}

// ComputeLine derives the discount, tax and total of a line from its inputs.
//
// The discount is resolved percent-first: when discountPercent is nonzero it is
// authoritative and discountAmount is recomputed from it; otherwise the supplied
// discountAmount is used as-is. Monetary results are rounded to 2 decimal places
// with ties away from zero.
//
// ComputeLine is pure; it validates its inputs and never mutates state.
func ComputeLine(quantity, unitPrice, discountPercent, discountAmount, taxPercent decimal.Decimal) (LineAmounts, error) {
	if quantity.IsNegative() {
		return LineAmounts{}, shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be negative")
	}
	if unitPrice.IsNegative() {
		return LineAmounts{}, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	discountPct, err := valueobject.NewPercent(discountPercent)
	if err != nil {
		return LineAmounts{}, shared.NewDomainError("INVALID_PERCENT", "Discount percent must be between 0 and 100")
	}
	taxPct, err := valueobject.NewPercent(taxPercent)
	if err != nil {
		return LineAmounts{}, shared.NewDomainError("INVALID_PERCENT", "Tax percent must be between 0 and 100")
	}
	if discountAmount.IsNegative() {
		return LineAmounts{}, shared.NewDomainError("INVALID_DISCOUNT", "Discount amount cannot be negative")
	}

	gross := quantity.Round(valueobject.QuantityScale).Mul(unitPrice).Round(valueobject.CurrencyScale)

	discount := discountAmount.Round(valueobject.CurrencyScale)
	if !discountPct.IsZero() {
		discount = discountPct.Of(gross)
	}
	if discount.GreaterThan(gross) {
		return LineAmounts{}, shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot exceed the line gross amount")
	}

	net := gross.Sub(discount)
	tax := taxPct.Of(net)

	return LineAmounts{
		Gross:          gross,
		DiscountAmount: discount,
		TaxAmount:      tax,
		LineTotal:      net.Add(tax),
	}, nil
}

// LineItem represents one product row within an invoice.
// Product name, code and unit are snapshots taken at the time the line is added.
type LineItem struct {
	ID              uuid.UUID
	InvoiceID       uuid.UUID
	ProductID       uuid.UUID
	ProductName     string
	ProductCode     string
	Unit            string
	Quantity        decimal.Decimal // 3 decimal places
	UnitPrice       decimal.Decimal
	DiscountPercent decimal.Decimal // authoritative when nonzero
	DiscountAmount  decimal.Decimal // resolved
	TaxPercent      decimal.Decimal
	TaxAmount       decimal.Decimal // derived
	LineTotal       decimal.Decimal // derived
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewLineItem creates a new invoice line item with computed amounts
func NewLineItem(invoiceID, productID uuid.UUID, productName, productCode, unit string, quantity, unitPrice, discountPercent, discountAmount, taxPercent decimal.Decimal) (*LineItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if productName == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	amounts, err := ComputeLine(quantity, unitPrice, discountPercent, discountAmount, taxPercent)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	return &LineItem{
		ID:              uuid.New(),
		InvoiceID:       invoiceID,
		ProductID:       productID,
		ProductName:     productName,
		ProductCode:     productCode,
		Unit:            unit,
		Quantity:        quantity.Round(valueobject.QuantityScale),
		UnitPrice:       unitPrice,
		DiscountPercent: discountPercent,
		DiscountAmount:  amounts.DiscountAmount,
		TaxPercent:      taxPercent,
		TaxAmount:       amounts.TaxAmount,
		LineTotal:       amounts.LineTotal,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// Recompute updates the line with new inputs and rederives its amounts
func (l *LineItem) Recompute(quantity, unitPrice, discountPercent, discountAmount, taxPercent decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	amounts, err := ComputeLine(quantity, unitPrice, discountPercent, discountAmount, taxPercent)
	if err != nil {
		return err
	}

	l.Quantity = quantity.Round(valueobject.QuantityScale)
	l.UnitPrice = unitPrice
	l.DiscountPercent = discountPercent
	l.DiscountAmount = amounts.DiscountAmount
	l.TaxPercent = taxPercent
	l.TaxAmount = amounts.TaxAmount
	l.LineTotal = amounts.LineTotal
	l.UpdatedAt = time.Now()

	return nil
}

// GetLineTotalMoney returns the line total as Money value object
func (l *LineItem) GetLineTotalMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(l.LineTotal)
}

// GetUnitPriceMoney returns the unit price as Money value object
func (l *LineItem) GetUnitPriceMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(l.UnitPrice)
}
