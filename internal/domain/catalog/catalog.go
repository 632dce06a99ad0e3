// Package catalog maintains the registry of sellable items and computes
// prices under the currently attached markdowns and discount rules.
package catalog

import (
	"slices"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/marketlane/checkout/internal/domain/pricing"
)

// SaleUnit says how an item's quantity is counted.
type SaleUnit string

const (
	// SoldByUnit items are counted in whole units; quantities must be
	// integers.
	SoldByUnit SaleUnit = "unit"
	// SoldByWeight items accept fractional quantities.
	SoldByWeight SaleUnit = "weight"
)

// Sentinel errors for catalog operations.
var (
	// ErrNotFound is returned when the named item is not registered.
	ErrNotFound = errors.New("item not found")
	// ErrInvalidPrice is returned for prices below one cent.
	ErrInvalidPrice = errors.New("price must be at least 0.01")
	// ErrInvalidMarkdown is returned for markdowns outside [0, price].
	ErrInvalidMarkdown = errors.New("markdown must be between zero and the item price")
	// ErrInvalidQuantity is returned for negative quantities, or fractional
	// quantities of unit-sold items.
	ErrInvalidQuantity = errors.New("invalid quantity")
	// ErrInvalidSaleUnit is returned for sale units outside the enumeration.
	ErrInvalidSaleUnit = errors.New("unknown sale unit")
)

// minPrice is the lowest registrable price, one cent.
var minPrice = decimal.New(1, -2)

// Entry is one sellable item: identity, price, sale unit, and at most one
// active rule plus an independent flat markdown. The markdown reduces the
// base price before any rule evaluates, so both may be active at once.
type Entry struct {
	Name     string
	Price    decimal.Decimal
	SoldBy   SaleUnit
	Markdown decimal.Decimal
	Rule     *pricing.Rule
}

// EffectivePrice is the per-unit price after the markdown, the base price
// rules evaluate against.
func (e Entry) EffectivePrice() decimal.Decimal {
	return e.Price.Sub(e.Markdown)
}

// Catalog is a name-keyed registry of entries. It is not safe for concurrent
// use; callers sharing a Catalog across goroutines must wrap every operation
// in their own mutual exclusion.
type Catalog struct {
	entries map[string]*Entry
}

// New returns an empty catalog.
func New() *Catalog {
	return &Catalog{entries: make(map[string]*Entry)}
}

// Register adds an item, overwriting any prior entry of the same name.
// An empty soldBy defaults to SoldByUnit.
func (c *Catalog) Register(name string, price decimal.Decimal, soldBy SaleUnit) error {
	if price.LessThan(minPrice) {
		return ErrInvalidPrice
	}
	switch soldBy {
	case "":
		soldBy = SoldByUnit
	case SoldByUnit, SoldByWeight:
	default:
		return errors.Wrapf(ErrInvalidSaleUnit, "%q", soldBy)
	}
	c.entries[name] = &Entry{Name: name, Price: price, SoldBy: soldBy}
	return nil
}

// Unregister removes an item. Outstanding orders referencing the item keep
// their lines; their next recomputation surfaces ErrNotFound.
func (c *Catalog) Unregister(name string) error {
	if _, ok := c.entries[name]; !ok {
		return ErrNotFound
	}
	delete(c.entries, name)
	return nil
}

// UpdatePrice changes an item's base price. An existing markdown is kept
// as-is even when the new price drops below it.
func (c *Catalog) UpdatePrice(name string, price decimal.Decimal) error {
	e, ok := c.entries[name]
	if !ok {
		return ErrNotFound
	}
	if price.LessThan(minPrice) {
		return ErrInvalidPrice
	}
	e.Price = price
	return nil
}

// SetMarkdown attaches a flat per-unit reduction to an item. The markdown is
// independent of any rule and applies before the rule evaluates.
func (c *Catalog) SetMarkdown(name string, discount decimal.Decimal) error {
	e, ok := c.entries[name]
	if !ok {
		return ErrNotFound
	}
	if discount.IsNegative() || discount.GreaterThan(e.Price) {
		return ErrInvalidMarkdown
	}
	e.Markdown = discount
	return nil
}

// ClearMarkdown removes an item's markdown.
func (c *Catalog) ClearMarkdown(name string) error {
	e, ok := c.entries[name]
	if !ok {
		return ErrNotFound
	}
	e.Markdown = decimal.Zero
	return nil
}

// ClearAllMarkdowns removes the markdown from every item.
func (c *Catalog) ClearAllMarkdowns() {
	for _, e := range c.entries {
		e.Markdown = decimal.Zero
	}
}

// SetFlatMarkdown attaches a limit-capped flat markdown rule, replacing any
// prior rule. Unlike SetMarkdown this stops discounting beyond limit units.
func (c *Catalog) SetFlatMarkdown(name string, discount decimal.Decimal, limit int) error {
	e, ok := c.entries[name]
	if !ok {
		return ErrNotFound
	}
	r, err := pricing.FlatMarkdown(discount, limit)
	if err != nil {
		return err
	}
	e.Rule = &r
	return nil
}

// SetNForX attaches an "n units for x" rule, replacing any prior rule.
func (c *Catalog) SetNForX(name string, n int, x decimal.Decimal, limit int) error {
	e, ok := c.entries[name]
	if !ok {
		return ErrNotFound
	}
	r, err := pricing.NForX(n, x, limit)
	if err != nil {
		return err
	}
	e.Rule = &r
	return nil
}

// SetBuyNGetMOff attaches a "buy n, get m at percentOff% off" rule,
// replacing any prior rule.
func (c *Catalog) SetBuyNGetMOff(name string, n, m, percentOff, limit int) error {
	e, ok := c.entries[name]
	if !ok {
		return ErrNotFound
	}
	r, err := pricing.BuyNGetMOff(n, m, percentOff, limit)
	if err != nil {
		return err
	}
	e.Rule = &r
	return nil
}

// ClearRule detaches an item's rule.
func (c *Catalog) ClearRule(name string) error {
	e, ok := c.entries[name]
	if !ok {
		return ErrNotFound
	}
	e.Rule = nil
	return nil
}

// ClearAllRules detaches the rule from every item.
func (c *Catalog) ClearAllRules() {
	for _, e := range c.entries {
		e.Rule = nil
	}
}

// Entry returns a copy of the named entry.
func (c *Catalog) Entry(name string) (Entry, error) {
	e, ok := c.entries[name]
	if !ok {
		return Entry{}, ErrNotFound
	}
	return *e, nil
}

// Names returns the registered item names in sorted order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.entries))
	for name := range c.entries {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Price computes the total charge for qty units of the named item under its
// current markdown and rule. Quantities must be non-negative, and integral
// for unit-sold items.
func (c *Catalog) Price(name string, qty decimal.Decimal) (decimal.Decimal, error) {
	e, ok := c.entries[name]
	if !ok {
		return decimal.Decimal{}, ErrNotFound
	}
	if qty.IsNegative() {
		return decimal.Decimal{}, errors.Wrap(ErrInvalidQuantity, "quantity must not be negative")
	}
	if e.SoldBy == SoldByUnit && !qty.IsInteger() {
		return decimal.Decimal{}, errors.Wrap(ErrInvalidQuantity, "quantity must be a whole number for unit items")
	}

	effective := e.EffectivePrice()
	if e.Rule == nil {
		return effective.Mul(qty), nil
	}
	return pricing.Apply(*e.Rule, effective, qty), nil
}
