// Package order implements the checkout session: it accumulates scanned
// items and keeps a cached total that only changes on explicit recomputation.
package order

import (
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/marketlane/checkout/internal/domain/catalog"
)

// ErrNotInOrder is returned when removing a quantity for an item that has no
// accumulated line.
var ErrNotInOrder = errors.New("item not in order")

// Pricer is the read-only catalog surface an order needs: item attributes
// for quantity validation and the price function for totals.
// *catalog.Catalog satisfies it.
type Pricer interface {
	Entry(name string) (catalog.Entry, error)
	Price(name string, qty decimal.Decimal) (decimal.Decimal, error)
}

// Order accumulates (item, quantity) lines against a non-owning catalog
// reference. Scanning and removing recompute the cached total immediately;
// catalog changes made afterwards do not touch it until RecomputeTotal is
// called again, so displayed totals stay locked in. Not safe for concurrent
// use.
type Order struct {
	catalog Pricer
	lines   map[string]decimal.Decimal
	total   decimal.Decimal
}

// New returns an empty order priced against c.
func New(c Pricer) *Order {
	return &Order{
		catalog: c,
		lines:   make(map[string]decimal.Decimal),
	}
}

// Scan adds qty of the named item to the order and recomputes the total.
// Unit-sold items require whole-number quantities.
func (o *Order) Scan(name string, qty decimal.Decimal) error {
	e, err := o.catalog.Entry(name)
	if err != nil {
		return err
	}
	if !qty.IsPositive() {
		return errors.Wrap(catalog.ErrInvalidQuantity, "scanned quantity must be positive")
	}
	if e.SoldBy == catalog.SoldByUnit && !qty.IsInteger() {
		return errors.Wrap(catalog.ErrInvalidQuantity, "quantity must be a whole number for unit items")
	}

	o.lines[name] = o.lines[name].Add(qty)
	return o.RecomputeTotal()
}

// RemoveQty subtracts qty of the named item and recomputes the total.
// Removing at least the accumulated quantity drops the line without error.
func (o *Order) RemoveQty(name string, qty decimal.Decimal) error {
	current, ok := o.lines[name]
	if !ok {
		return ErrNotInOrder
	}
	e, err := o.catalog.Entry(name)
	if err != nil {
		return err
	}
	if !qty.IsPositive() {
		return errors.Wrap(catalog.ErrInvalidQuantity, "removed quantity must be positive")
	}
	if e.SoldBy == catalog.SoldByUnit && !qty.IsInteger() {
		return errors.Wrap(catalog.ErrInvalidQuantity, "quantity must be a whole number for unit items")
	}

	if qty.GreaterThanOrEqual(current) {
		delete(o.lines, name)
	} else {
		o.lines[name] = current.Sub(qty)
	}
	return o.RecomputeTotal()
}

// RecomputeTotal re-prices every line against the catalog and stores the sum
// as the cached total. This is the only way the cached total changes. When a
// line's item is no longer registered the error propagates and the cached
// total keeps its previous value.
func (o *Order) RecomputeTotal() error {
	sum := decimal.Zero
	for name, qty := range o.lines {
		price, err := o.catalog.Price(name, qty)
		if err != nil {
			return errors.Wrapf(err, "price %q", name)
		}
		sum = sum.Add(price)
	}
	o.total = sum
	return nil
}

// Total returns the cached total without recomputing it.
func (o *Order) Total() decimal.Decimal {
	return o.total
}

// Qty returns the accumulated quantity for the named item; the zero decimal
// when the order has no such line.
func (o *Order) Qty(name string) decimal.Decimal {
	return o.lines[name]
}

// Lines returns a copy of the accumulated line quantities.
func (o *Order) Lines() map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(o.lines))
	for name, qty := range o.lines {
		out[name] = qty
	}
	return out
}
