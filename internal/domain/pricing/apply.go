package pricing

import (
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Apply returns the total charge for qty units priced at effectivePrice
// under rule r. effectivePrice is the per-unit price after any base markdown
// has already been subtracted by the caller.
//
// When the rule carries a limit and qty exceeds it, only the first Limit
// units are priced by the rule; the excess is charged at effectivePrice.
// Quantities may be fractional for weight-sold items; a zero quantity always
// yields a zero charge.
func Apply(r Rule, effectivePrice, qty decimal.Decimal) decimal.Decimal {
	if r.Limit > 0 {
		limit := decimal.NewFromInt(int64(r.Limit))
		if qty.GreaterThan(limit) {
			excess := qty.Sub(limit)
			return effectivePrice.Mul(excess).Add(applyRule(r, effectivePrice, limit))
		}
	}
	return applyRule(r, effectivePrice, qty)
}

// applyRule prices qty units without limit handling.
func applyRule(r Rule, price, qty decimal.Decimal) decimal.Decimal {
	switch r.Kind {
	case KindFlatMarkdown:
		return price.Sub(r.Discount).Mul(qty)

	case KindNForX:
		n := decimal.NewFromInt(int64(r.N))
		if qty.LessThan(n) {
			return price.Mul(qty)
		}
		bundles, rem := qty.QuoRem(n, 0)
		return bundles.Mul(r.X).Add(rem.Mul(price))

	case KindBuyNGetMOff:
		n := decimal.NewFromInt(int64(r.N))
		// The N qualifying units must be fully purchased before any
		// discounted unit applies.
		if !qty.GreaterThan(n) {
			return price.Mul(qty)
		}
		m := decimal.NewFromInt(int64(r.M))
		reduced := price.Mul(hundred.Sub(decimal.NewFromInt(int64(r.PercentOff)))).Div(hundred)

		groupSize := n.Add(m)
		groupPrice := n.Mul(price).Add(m.Mul(reduced))
		groups, rem := qty.QuoRem(groupSize, 0)

		total := groups.Mul(groupPrice)
		if rem.GreaterThan(n) {
			return total.Add(n.Mul(price)).Add(rem.Sub(n).Mul(reduced))
		}
		return total.Add(rem.Mul(price))

	default:
		return price.Mul(qty)
	}
}
