package pricing

import (
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// RuleKind identifies the discount strategy a Rule carries.
type RuleKind string

const (
	// KindFlatMarkdown reduces the per-unit price by a fixed amount.
	KindFlatMarkdown RuleKind = "flat_markdown"
	// KindNForX sells every bundle of N units for a total of X.
	KindNForX RuleKind = "n_for_x"
	// KindBuyNGetMOff gives M units a percentage discount after N units
	// are bought at full price.
	KindBuyNGetMOff RuleKind = "buy_n_get_m"
)

// ErrInvalidRule is returned when rule parameters violate a constraint.
var ErrInvalidRule = errors.New("invalid rule")

// minBundlePrice is the smallest accepted bundle price, one cent.
var minBundlePrice = decimal.New(1, -2)

// Rule is a discount policy attached to a catalog entry. Kind selects the
// variant; only the fields of that variant are meaningful. Limit caps the
// quantity eligible for the discount, zero meaning no cap.
//
// Rules are immutable once built; always construct them through
// FlatMarkdown, NForX, or BuyNGetMOff so the constraints hold.
type Rule struct {
	Kind RuleKind

	// Discount is the per-unit reduction (flat markdown rules).
	Discount decimal.Decimal

	// N is the bundle size (n_for_x) or the full-price unit count
	// (buy_n_get_m).
	N int

	// X is the total price for N units (n_for_x rules).
	X decimal.Decimal

	// M is the discounted unit count (buy_n_get_m rules).
	M int

	// PercentOff is the discount percentage in [1,100] applied to the M
	// units (buy_n_get_m rules).
	PercentOff int

	// Limit is the maximum quantity eligible for the discount, 0 = none.
	Limit int
}

// FlatMarkdown builds a rule reducing the per-unit price by discount for up
// to limit units. Pass limit 0 for no cap.
func FlatMarkdown(discount decimal.Decimal, limit int) (Rule, error) {
	if discount.IsNegative() {
		return Rule{}, errors.Wrap(ErrInvalidRule, "discount must not be negative")
	}
	if limit < 0 {
		return Rule{}, errors.Wrap(ErrInvalidRule, "limit must be a positive integer")
	}
	return Rule{Kind: KindFlatMarkdown, Discount: discount, Limit: limit}, nil
}

// NForX builds a rule selling every n units for a total price of x.
// Pass limit 0 for no cap; otherwise limit must be a positive multiple of n.
func NForX(n int, x decimal.Decimal, limit int) (Rule, error) {
	if n < 1 {
		return Rule{}, errors.Wrap(ErrInvalidRule, "N must be a positive integer")
	}
	if x.LessThan(minBundlePrice) {
		return Rule{}, errors.Wrap(ErrInvalidRule, "X must be at least 0.01")
	}
	if limit != 0 && (limit < 1 || limit%n != 0) {
		return Rule{}, errors.Wrap(ErrInvalidRule, "limit must be a positive multiple of N")
	}
	return Rule{Kind: KindNForX, N: n, X: x, Limit: limit}, nil
}

// BuyNGetMOff builds a rule where, after n units at full price, the next m
// units are sold at percentOff percent off. Pass limit 0 for no cap;
// otherwise limit must be a positive multiple of n+m.
func BuyNGetMOff(n, m, percentOff, limit int) (Rule, error) {
	if n < 1 {
		return Rule{}, errors.Wrap(ErrInvalidRule, "N must be a positive integer")
	}
	if m < 1 {
		return Rule{}, errors.Wrap(ErrInvalidRule, "M must be a positive integer")
	}
	if percentOff < 1 || percentOff > 100 {
		return Rule{}, errors.Wrap(ErrInvalidRule, "percent off must be an integer between 1 and 100")
	}
	if limit != 0 && (limit < 1 || limit%(n+m) != 0) {
		return Rule{}, errors.Wrap(ErrInvalidRule, "limit must be a positive multiple of N+M")
	}
	return Rule{Kind: KindBuyNGetMOff, N: n, M: m, PercentOff: percentOff, Limit: limit}, nil
}
