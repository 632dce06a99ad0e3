package api

import (
	"io"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/marketlane/checkout/internal/domain/catalog"
	"github.com/marketlane/checkout/internal/domain/order"
	"github.com/marketlane/checkout/internal/domain/pricing"
)

// maxBodySize caps request bodies; the API only ever receives small
// documents.
const maxBodySize = 1 << 20

// errBadRequest marks request decoding and parameter errors.
var errBadRequest = errors.New("bad request")

// respond writes status and a JSON object built by build.
func respond(w http.ResponseWriter, status int, build func(e *jx.Encoder)) {
	var e jx.Encoder
	e.ObjStart()
	build(&e)
	e.ObjEnd()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(e.Bytes())
}

// respondError maps domain sentinels to HTTP statuses: missing items are
// 404, invalid arguments 400, order-state conflicts 409, the rest 500.
func respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, order.ErrNotInOrder):
		status = http.StatusConflict
	case errors.Is(err, catalog.ErrInvalidPrice),
		errors.Is(err, catalog.ErrInvalidMarkdown),
		errors.Is(err, catalog.ErrInvalidQuantity),
		errors.Is(err, catalog.ErrInvalidSaleUnit),
		errors.Is(err, pricing.ErrInvalidRule),
		errors.Is(err, errBadRequest):
		status = http.StatusBadRequest
	}

	respond(w, status, func(e *jx.Encoder) {
		e.FieldStart("message")
		e.Str(err.Error())
	})
}

// decodeBody reads the request body and decodes it as a JSON object,
// dispatching each key to f.
func decodeBody(r *http.Request, f func(d *jx.Decoder, key string) error) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		return errors.Wrap(errBadRequest, "read body")
	}
	d := jx.DecodeBytes(body)
	if err := d.Obj(f); err != nil {
		return errors.Wrap(errBadRequest, err.Error())
	}
	return nil
}

// decodeDecimal accepts an amount either as a JSON string ("1.00") or a raw
// number.
func decodeDecimal(d *jx.Decoder) (decimal.Decimal, error) {
	var raw string
	switch d.Next() {
	case jx.String:
		s, err := d.Str()
		if err != nil {
			return decimal.Decimal{}, err
		}
		raw = s
	case jx.Number:
		n, err := d.Num()
		if err != nil {
			return decimal.Decimal{}, err
		}
		raw = string(n)
	default:
		return decimal.Decimal{}, errors.Wrap(errBadRequest, "expected a string or number amount")
	}

	v, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, errors.Wrapf(errBadRequest, "malformed amount %q", raw)
	}
	return v, nil
}

// amount renders monetary values with cents precision at the API boundary;
// the domain keeps exact decimals internally.
func amount(v decimal.Decimal) string {
	return v.StringFixed(2)
}
