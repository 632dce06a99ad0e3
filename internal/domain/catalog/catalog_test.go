package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marketlane/checkout/internal/domain/pricing"
)

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func newTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	c := New()
	require.NoError(t, c.Register("soda", d("1.00"), SoldByUnit))
	require.NoError(t, c.Register("onion", d("1.00"), SoldByWeight))
	return c
}

func TestRegister(t *testing.T) {
	c := New()

	require.NoError(t, c.Register("steak", d("7.99"), SoldByWeight))
	e, err := c.Entry("steak")
	require.NoError(t, err)
	assert.Equal(t, "steak", e.Name)
	assert.Equal(t, SoldByWeight, e.SoldBy)
	assert.True(t, e.Price.Equal(d("7.99")))

	// Empty sale unit defaults to unit.
	require.NoError(t, c.Register("soup", d("1.50"), ""))
	e, err = c.Entry("soup")
	require.NoError(t, err)
	assert.Equal(t, SoldByUnit, e.SoldBy)

	// Re-registration overwrites without error.
	require.NoError(t, c.Register("soup", d("2.00"), SoldByUnit))
	e, err = c.Entry("soup")
	require.NoError(t, err)
	assert.True(t, e.Price.Equal(d("2.00")))

	assert.ErrorIs(t, c.Register("gum", d("0.009"), SoldByUnit), ErrInvalidPrice)
	assert.ErrorIs(t, c.Register("gum", d("-0.01"), SoldByUnit), ErrInvalidPrice)
	assert.NoError(t, c.Register("gum", d("0.01"), SoldByUnit))

	assert.ErrorIs(t, c.Register("rice", d("1.00"), "bushel"), ErrInvalidSaleUnit)
}

func TestUnregister(t *testing.T) {
	c := newTestCatalog(t)

	require.NoError(t, c.Unregister("soda"))
	_, err := c.Entry("soda")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, c.Unregister("ham"), ErrNotFound)
}

func TestUpdatePrice(t *testing.T) {
	c := newTestCatalog(t)

	require.NoError(t, c.UpdatePrice("soda", d("2.00")))
	e, err := c.Entry("soda")
	require.NoError(t, err)
	assert.True(t, e.Price.Equal(d("2.00")))

	assert.ErrorIs(t, c.UpdatePrice("soda", d("-1.20")), ErrInvalidPrice)
	assert.ErrorIs(t, c.UpdatePrice("ham", d("1.50")), ErrNotFound)
}

func TestMarkdown(t *testing.T) {
	c := newTestCatalog(t)

	require.NoError(t, c.SetMarkdown("soda", d("0.50")))
	got, err := c.Price("soda", d("20"))
	require.NoError(t, err)
	assert.True(t, got.Equal(d("10.00")), "got %s", got)

	require.NoError(t, c.SetMarkdown("onion", d("0.50")))
	got, err = c.Price("onion", d("1.50"))
	require.NoError(t, err)
	assert.True(t, got.Equal(d("0.75")), "got %s", got)

	assert.ErrorIs(t, c.SetMarkdown("onion", d("-0.50")), ErrInvalidMarkdown)
	assert.ErrorIs(t, c.SetMarkdown("onion", d("1.50")), ErrInvalidMarkdown)
	assert.ErrorIs(t, c.SetMarkdown("ham", d("0.50")), ErrNotFound)

	require.NoError(t, c.ClearMarkdown("soda"))
	got, err = c.Price("soda", d("1"))
	require.NoError(t, err)
	assert.True(t, got.Equal(d("1.00")))

	require.NoError(t, c.SetMarkdown("soda", d("0.50")))
	c.ClearAllMarkdowns()
	for _, name := range []string{"soda", "onion"} {
		e, err := c.Entry(name)
		require.NoError(t, err)
		assert.True(t, e.Markdown.IsZero(), "markdown on %s", name)
	}
}

func TestRuleAttachment(t *testing.T) {
	c := newTestCatalog(t)

	require.NoError(t, c.SetNForX("soda", 3, d("2.00"), 0))
	e, err := c.Entry("soda")
	require.NoError(t, err)
	require.NotNil(t, e.Rule)
	assert.Equal(t, pricing.KindNForX, e.Rule.Kind)

	// A new rule replaces the prior one, no stacking.
	require.NoError(t, c.SetBuyNGetMOff("soda", 1, 1, 100, 0))
	e, err = c.Entry("soda")
	require.NoError(t, err)
	assert.Equal(t, pricing.KindBuyNGetMOff, e.Rule.Kind)

	assert.ErrorIs(t, c.SetNForX("ham", 3, d("2.00"), 0), ErrNotFound)
	assert.ErrorIs(t, c.SetBuyNGetMOff("ham", 1, 1, 100, 0), ErrNotFound)
	assert.ErrorIs(t, c.SetFlatMarkdown("ham", d("0.10"), 0), ErrNotFound)

	assert.ErrorIs(t, c.SetNForX("soda", 0, d("2.00"), 0), pricing.ErrInvalidRule)
	assert.ErrorIs(t, c.SetBuyNGetMOff("soda", 1, 1, 101, 0), pricing.ErrInvalidRule)

	// Invalid parameters must not replace the existing rule.
	e, err = c.Entry("soda")
	require.NoError(t, err)
	assert.Equal(t, pricing.KindBuyNGetMOff, e.Rule.Kind)

	require.NoError(t, c.ClearRule("soda"))
	e, err = c.Entry("soda")
	require.NoError(t, err)
	assert.Nil(t, e.Rule)

	require.NoError(t, c.SetNForX("soda", 10, d("5.00"), 0))
	require.NoError(t, c.SetNForX("onion", 10, d("5.00"), 0))
	c.ClearAllRules()
	for _, name := range []string{"soda", "onion"} {
		e, err := c.Entry(name)
		require.NoError(t, err)
		assert.Nil(t, e.Rule, "rule on %s", name)
	}
}

func TestPrice(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(t *testing.T, c *Catalog)
		item    string
		qty     string
		want    string
		wantErr error
	}{
		{
			name: "plain price times quantity",
			item: "soda",
			qty:  "3",
			want: "3.00",
		},
		{
			name: "zero quantity is free",
			item: "soda",
			qty:  "0",
			want: "0",
		},
		{
			name: "n for x",
			setup: func(t *testing.T, c *Catalog) {
				require.NoError(t, c.SetNForX("soda", 3, d("2.00"), 0))
			},
			item: "soda",
			qty:  "10",
			want: "7.00",
		},
		{
			name: "buy n get m off on weight item",
			setup: func(t *testing.T, c *Catalog) {
				require.NoError(t, c.SetBuyNGetMOff("onion", 2, 1, 50, 0))
			},
			item: "onion",
			qty:  "4.75",
			want: "4.25",
		},
		{
			name: "markdown stacks under rule",
			setup: func(t *testing.T, c *Catalog) {
				require.NoError(t, c.SetMarkdown("soda", d("0.50")))
				require.NoError(t, c.SetNForX("soda", 5, d("3.00"), 0))
			},
			item: "soda",
			qty:  "9",
			want: "5.00",
		},
		{
			name: "flat markdown rule with limit",
			setup: func(t *testing.T, c *Catalog) {
				require.NoError(t, c.SetFlatMarkdown("soda", d("0.50"), 4))
			},
			item: "soda",
			qty:  "10",
			want: "8.00",
		},
		{
			name: "rule limit splits the quantity",
			setup: func(t *testing.T, c *Catalog) {
				require.NoError(t, c.SetNForX("soda", 5, d("3.50"), 10))
			},
			item: "soda",
			qty:  "15",
			want: "12.00",
		},
		{
			name:    "unknown item",
			item:    "ham",
			qty:     "1",
			wantErr: ErrNotFound,
		},
		{
			name:    "negative quantity",
			item:    "soda",
			qty:     "-1",
			wantErr: ErrInvalidQuantity,
		},
		{
			name:    "fractional quantity of unit item",
			item:    "soda",
			qty:     "1.5",
			wantErr: ErrInvalidQuantity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestCatalog(t)
			if tt.setup != nil {
				tt.setup(t, c)
			}

			got, err := c.Price(tt.item, d(tt.qty))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(d(tt.want)), "got %s, want %s", got, tt.want)
		})
	}
}

// A markdown can only lower the charge, never raise it.
func TestPrice_MarkdownMonotonic(t *testing.T) {
	c := newTestCatalog(t)
	qty := d("7")

	before, err := c.Price("soda", qty)
	require.NoError(t, err)

	require.NoError(t, c.SetMarkdown("soda", d("0.25")))
	after, err := c.Price("soda", qty)
	require.NoError(t, err)

	assert.True(t, after.LessThanOrEqual(before), "markdown raised price: %s > %s", after, before)
}

func TestNames(t *testing.T) {
	c := newTestCatalog(t)
	assert.Equal(t, []string{"onion", "soda"}, c.Names())
}
