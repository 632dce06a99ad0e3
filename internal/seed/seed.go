// Package seed loads catalog entries from JSON seed files, so a deployment
// can construct its in-memory catalog at startup without a storage layer.
//
// A seed file is a JSON array of entries:
//
//	[
//	  {"name": "soda", "price": "1.00", "sold_by": "unit",
//	   "markdown": "0.25",
//	   "special": {"type": "n_for_x", "n": 3, "x": "2.00", "limit": 6}}
//	]
//
// Files ending in .gz are transparently decompressed.
package seed

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	pgzip "github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/marketlane/checkout/internal/domain/catalog"
)

type special struct {
	Type       string
	N, M       int
	PercentOff int
	Limit      int
	X          decimal.Decimal
	Discount   decimal.Decimal
}

type entry struct {
	Name     string
	Price    decimal.Decimal
	SoldBy   string
	Markdown decimal.Decimal
	Special  *special
}

// Load reads every file concurrently, then registers the decoded entries
// into cat sequentially: the catalog has no internal locking, so only the
// decode pass is parallel. It returns the number of entries registered.
func Load(ctx context.Context, cat *catalog.Catalog, files []string) (int, error) {
	decoded := make([][]entry, len(files))

	g, ctx := errgroup.WithContext(ctx)
	for i, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			entries, err := loadFile(path)
			if err != nil {
				return errors.Wrapf(err, "load %s", path)
			}
			decoded[i] = entries
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	count := 0
	for i, entries := range decoded {
		for _, e := range entries {
			if err := register(cat, e); err != nil {
				return count, errors.Wrapf(err, "register %q from %s", e.Name, files[i])
			}
			count++
		}
	}
	return count, nil
}

func register(cat *catalog.Catalog, e entry) error {
	if err := cat.Register(e.Name, e.Price, catalog.SaleUnit(e.SoldBy)); err != nil {
		return err
	}
	if !e.Markdown.IsZero() {
		if err := cat.SetMarkdown(e.Name, e.Markdown); err != nil {
			return err
		}
	}
	if e.Special == nil {
		return nil
	}

	s := e.Special
	switch s.Type {
	case "n_for_x":
		return cat.SetNForX(e.Name, s.N, s.X, s.Limit)
	case "buy_n_get_m":
		return cat.SetBuyNGetMOff(e.Name, s.N, s.M, s.PercentOff, s.Limit)
	case "flat_markdown":
		return cat.SetFlatMarkdown(e.Name, s.Discount, s.Limit)
	default:
		return errors.Errorf("unknown special type %q", s.Type)
	}
}

func loadFile(path string) ([]entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := pgzip.NewReader(f)
		if err != nil {
			return nil, errors.Wrap(err, "gzip reader")
		}
		defer gz.Close()
		r = gz
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var entries []entry
	d := jx.DecodeBytes(data)
	if err := d.Arr(func(d *jx.Decoder) error {
		e, err := decodeEntry(d)
		if err != nil {
			return err
		}
		entries = append(entries, e)
		return nil
	}); err != nil {
		return nil, errors.Wrap(err, "decode entries")
	}
	return entries, nil
}

func decodeEntry(d *jx.Decoder) (entry, error) {
	var e entry
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "name":
			e.Name, err = d.Str()
		case "price":
			e.Price, err = decodeAmount(d)
		case "sold_by":
			e.SoldBy, err = d.Str()
		case "markdown":
			e.Markdown, err = decodeAmount(d)
		case "special":
			var s special
			s, err = decodeSpecial(d)
			e.Special = &s
		default:
			err = d.Skip()
		}
		return err
	})
	return e, err
}

func decodeSpecial(d *jx.Decoder) (special, error) {
	var s special
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "type":
			s.Type, err = d.Str()
		case "n":
			s.N, err = d.Int()
		case "m":
			s.M, err = d.Int()
		case "percent_off":
			s.PercentOff, err = d.Int()
		case "limit":
			s.Limit, err = d.Int()
		case "x":
			s.X, err = decodeAmount(d)
		case "discount":
			s.Discount, err = decodeAmount(d)
		default:
			err = d.Skip()
		}
		return err
	})
	return s, err
}

// decodeAmount accepts an amount as a JSON string or raw number.
func decodeAmount(d *jx.Decoder) (decimal.Decimal, error) {
	switch d.Next() {
	case jx.String:
		s, err := d.Str()
		if err != nil {
			return decimal.Decimal{}, err
		}
		return decimal.NewFromString(s)
	case jx.Number:
		n, err := d.Num()
		if err != nil {
			return decimal.Decimal{}, err
		}
		return decimal.NewFromString(string(n))
	default:
		return decimal.Decimal{}, errors.New("expected a string or number amount")
	}
}
