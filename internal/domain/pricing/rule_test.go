package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNForX_Validation(t *testing.T) {
	tests := []struct {
		name    string
		n       int
		x       string
		limit   int
		wantErr bool
	}{
		{name: "valid without limit", n: 3, x: "2.00", limit: 0},
		{name: "valid with limit", n: 2, x: "1.50", limit: 4},
		{name: "zero N", n: 0, x: "2.00", wantErr: true},
		{name: "negative N", n: -1, x: "4.00", wantErr: true},
		{name: "X below one cent", x: "0.009", n: 5, wantErr: true},
		{name: "negative X", n: 5, x: "-0.01", wantErr: true},
		{name: "limit not a multiple of N", n: 5, x: "3.00", limit: 7, wantErr: true},
		{name: "negative limit", n: 5, x: "3.00", limit: -5, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NForX(tt.n, d(tt.x), tt.limit)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidRule)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, KindNForX, r.Kind)
			assert.Equal(t, tt.n, r.N)
			assert.Equal(t, tt.limit, r.Limit)
			assert.True(t, r.X.Equal(d(tt.x)))
		})
	}
}

func TestBuyNGetMOff_Validation(t *testing.T) {
	tests := []struct {
		name       string
		n, m       int
		percentOff int
		limit      int
		wantErr    bool
	}{
		{name: "valid without limit", n: 1, m: 1, percentOff: 100},
		{name: "valid with limit", n: 2, m: 2, percentOff: 50, limit: 8},
		{name: "zero N", n: 0, m: 1, percentOff: 50, wantErr: true},
		{name: "negative N", n: -1, m: 2, percentOff: 100, wantErr: true},
		{name: "zero M", n: 5, m: 0, percentOff: 50, wantErr: true},
		{name: "negative M", n: 5, m: -2, percentOff: 100, wantErr: true},
		{name: "zero percent", n: 5, m: 2, percentOff: 0, wantErr: true},
		{name: "percent above 100", n: 5, m: 2, percentOff: 101, wantErr: true},
		{name: "limit not a multiple of N+M", n: 5, m: 2, percentOff: 100, limit: 15, wantErr: true},
		{name: "negative limit", n: 5, m: 2, percentOff: 100, limit: -7, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := BuyNGetMOff(tt.n, tt.m, tt.percentOff, tt.limit)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidRule)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, KindBuyNGetMOff, r.Kind)
			assert.Equal(t, tt.n, r.N)
			assert.Equal(t, tt.m, r.M)
			assert.Equal(t, tt.percentOff, r.PercentOff)
			assert.Equal(t, tt.limit, r.Limit)
		})
	}
}

func TestFlatMarkdown_Validation(t *testing.T) {
	r, err := FlatMarkdown(d("0.50"), 4)
	require.NoError(t, err)
	assert.Equal(t, KindFlatMarkdown, r.Kind)
	assert.Equal(t, 4, r.Limit)
	assert.True(t, r.Discount.Equal(d("0.50")))

	_, err = FlatMarkdown(d("-0.50"), 0)
	assert.ErrorIs(t, err, ErrInvalidRule)

	_, err = FlatMarkdown(d("0.50"), -1)
	assert.ErrorIs(t, err, ErrInvalidRule)
}
