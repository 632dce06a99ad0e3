package api

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/marketlane/checkout/internal/domain/catalog"
	"github.com/marketlane/checkout/internal/domain/pricing"
)

func (h *Handler) listItems(w http.ResponseWriter, _ *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	names := h.catalog.Names()
	entries := make([]catalog.Entry, 0, len(names))
	for _, name := range names {
		e, err := h.catalog.Entry(name)
		if err != nil {
			respondError(w, err)
			return
		}
		entries = append(entries, e)
	}

	respond(w, http.StatusOK, func(e *jx.Encoder) {
		e.FieldStart("items")
		e.ArrStart()
		for _, entry := range entries {
			encodeEntry(e, entry)
		}
		e.ArrEnd()
	})
}

func (h *Handler) registerItem(w http.ResponseWriter, r *http.Request) {
	var (
		name   string
		price  decimal.Decimal
		soldBy string
	)
	err := decodeBody(r, func(d *jx.Decoder, key string) error {
		switch key {
		case "name":
			var err error
			name, err = d.Str()
			return err
		case "price":
			var err error
			price, err = decodeDecimal(d)
			return err
		case "sold_by":
			var err error
			soldBy, err = d.Str()
			return err
		default:
			return d.Skip()
		}
	})
	if err != nil {
		respondError(w, err)
		return
	}
	if name == "" {
		respondError(w, errors.Wrap(errBadRequest, "name is required"))
		return
	}

	h.mu.Lock()
	err = h.catalog.Register(name, price, catalog.SaleUnit(soldBy))
	h.mu.Unlock()
	if err != nil {
		respondError(w, err)
		return
	}

	respond(w, http.StatusCreated, func(e *jx.Encoder) {
		e.FieldStart("name")
		e.Str(name)
	})
}

func (h *Handler) unregisterItem(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	err := h.catalog.Unregister(r.PathValue("name"))
	h.mu.Unlock()
	if err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) updatePrice(w http.ResponseWriter, r *http.Request) {
	price, err := decodeAmountBody(r, "price")
	if err != nil {
		respondError(w, err)
		return
	}

	h.mu.Lock()
	err = h.catalog.UpdatePrice(r.PathValue("name"), price)
	h.mu.Unlock()
	if err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) priceItem(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	rawQty := r.URL.Query().Get("qty")
	if rawQty == "" {
		rawQty = "1"
	}
	qty, err := decimal.NewFromString(rawQty)
	if err != nil {
		respondError(w, errors.Wrapf(errBadRequest, "malformed qty %q", rawQty))
		return
	}

	h.mu.Lock()
	total, err := h.catalog.Price(name, qty)
	h.mu.Unlock()
	if err != nil {
		respondError(w, err)
		return
	}

	respond(w, http.StatusOK, func(e *jx.Encoder) {
		e.FieldStart("name")
		e.Str(name)
		e.FieldStart("qty")
		e.Str(qty.String())
		e.FieldStart("total")
		e.Str(amount(total))
	})
}

func (h *Handler) setMarkdown(w http.ResponseWriter, r *http.Request) {
	discount, err := decodeAmountBody(r, "discount")
	if err != nil {
		respondError(w, err)
		return
	}

	h.mu.Lock()
	err = h.catalog.SetMarkdown(r.PathValue("name"), discount)
	h.mu.Unlock()
	if err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) clearMarkdown(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	err := h.catalog.ClearMarkdown(r.PathValue("name"))
	h.mu.Unlock()
	if err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) clearAllMarkdowns(w http.ResponseWriter, _ *http.Request) {
	h.mu.Lock()
	h.catalog.ClearAllMarkdowns()
	h.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

// specialRequest carries the union of rule parameters; Type selects which
// are read.
type specialRequest struct {
	Type       string
	N, M       int
	PercentOff int
	Limit      int
	X          decimal.Decimal
	Discount   decimal.Decimal
}

func (h *Handler) setSpecial(w http.ResponseWriter, r *http.Request) {
	var req specialRequest
	err := decodeBody(r, func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "type":
			req.Type, err = d.Str()
		case "n":
			req.N, err = d.Int()
		case "m":
			req.M, err = d.Int()
		case "percent_off":
			req.PercentOff, err = d.Int()
		case "limit":
			req.Limit, err = d.Int()
		case "x":
			req.X, err = decodeDecimal(d)
		case "discount":
			req.Discount, err = decodeDecimal(d)
		default:
			err = d.Skip()
		}
		return err
	})
	if err != nil {
		respondError(w, err)
		return
	}

	name := r.PathValue("name")
	h.mu.Lock()
	switch pricing.RuleKind(req.Type) {
	case pricing.KindNForX:
		err = h.catalog.SetNForX(name, req.N, req.X, req.Limit)
	case pricing.KindBuyNGetMOff:
		err = h.catalog.SetBuyNGetMOff(name, req.N, req.M, req.PercentOff, req.Limit)
	case pricing.KindFlatMarkdown:
		err = h.catalog.SetFlatMarkdown(name, req.Discount, req.Limit)
	default:
		err = errors.Wrapf(errBadRequest, "unknown special type %q", req.Type)
	}
	h.mu.Unlock()
	if err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) clearSpecial(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	err := h.catalog.ClearRule(r.PathValue("name"))
	h.mu.Unlock()
	if err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) clearAllSpecials(w http.ResponseWriter, _ *http.Request) {
	h.mu.Lock()
	h.catalog.ClearAllRules()
	h.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

// decodeAmountBody decodes a single-field body like {"price": "1.00"}.
func decodeAmountBody(r *http.Request, field string) (decimal.Decimal, error) {
	var (
		v   decimal.Decimal
		set bool
	)
	err := decodeBody(r, func(d *jx.Decoder, key string) error {
		if key != field {
			return d.Skip()
		}
		var err error
		v, err = decodeDecimal(d)
		set = err == nil
		return err
	})
	if err != nil {
		return decimal.Decimal{}, err
	}
	if !set {
		return decimal.Decimal{}, errors.Wrapf(errBadRequest, "%s is required", field)
	}
	return v, nil
}

func encodeEntry(e *jx.Encoder, entry catalog.Entry) {
	e.ObjStart()
	e.FieldStart("name")
	e.Str(entry.Name)
	e.FieldStart("price")
	e.Str(amount(entry.Price))
	e.FieldStart("sold_by")
	e.Str(string(entry.SoldBy))
	if !entry.Markdown.IsZero() {
		e.FieldStart("markdown")
		e.Str(amount(entry.Markdown))
	}
	if entry.Rule != nil {
		e.FieldStart("special")
		encodeRule(e, *entry.Rule)
	}
	e.ObjEnd()
}

func encodeRule(e *jx.Encoder, r pricing.Rule) {
	e.ObjStart()
	e.FieldStart("type")
	e.Str(string(r.Kind))
	switch r.Kind {
	case pricing.KindFlatMarkdown:
		e.FieldStart("discount")
		e.Str(amount(r.Discount))
	case pricing.KindNForX:
		e.FieldStart("n")
		e.Int(r.N)
		e.FieldStart("x")
		e.Str(amount(r.X))
	case pricing.KindBuyNGetMOff:
		e.FieldStart("n")
		e.Int(r.N)
		e.FieldStart("m")
		e.Int(r.M)
		e.FieldStart("percent_off")
		e.Int(r.PercentOff)
	}
	if r.Limit > 0 {
		e.FieldStart("limit")
		e.Int(r.Limit)
	}
	e.ObjEnd()
}
