package loan

import (
	"math/big"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const (
	crore = 10_000_000.0
	lakh  = 100_000.0

	// exactDigits covers every fractional digit a float64 can carry.
	exactDigits = 1100
)

var indianPrinter = message.NewPrinter(language.MustParse("en-IN"))

// FormatCurrency renders a rupee amount the way Indian lenders quote it:
// crores and lakhs with two decimals, smaller amounts with en-IN grouping
// and up to three decimals.
//
//	12500000 -> ₹1.25 Cr
//	250000   -> ₹2.50 L
//	5000     -> ₹5,000
//
// Crore and lakh figures are rounded from the float quotient itself, so
// 100500 reads ₹1.00 L because 100500/1e5 sits just below 1.005.
func FormatCurrency(amount float64) string {
	switch {
	case amount >= crore:
		return "₹" + fixed2(amount/crore) + " Cr"
	case amount >= lakh:
		return "₹" + fixed2(amount/lakh) + " L"
	default:
		return "₹" + indianPrinter.Sprintf("%v", number.Decimal(amount, number.MaxFractionDigits(3)))
	}
}

// fixed2 rounds the exact binary value of q to two places, ties away from zero.
func fixed2(q float64) string {
	exact := new(big.Float).SetFloat64(q).Text('f', exactDigits)
	return decimal.RequireFromString(exact).StringFixed(2)
}
