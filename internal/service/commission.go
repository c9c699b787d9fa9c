package service

import "github.com/shopspring/decimal"

var oneHundred = decimal.NewFromInt(100)

// SplitCommission divides a line subtotal between the vendor and the
// platform at the given commission rate (percentage, 0-100).
//
// The vendor amount is floor-rounded to currency precision and the
// commission absorbs the rounding residue, so the two always reconstruct
// the subtotal exactly.
func SplitCommission(subtotal, commissionRate decimal.Decimal) (vendorAmount, commissionAmount decimal.Decimal) {
	vendorShare := oneHundred.Sub(commissionRate).Div(oneHundred)
	vendorAmount = subtotal.Mul(vendorShare).RoundFloor(2)
	commissionAmount = subtotal.Sub(vendorAmount)
	return vendorAmount, commissionAmount
}
