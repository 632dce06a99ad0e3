package api

import (
	"net/http"
	"sort"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/marketlane/checkout/internal/domain/order"
)

// errOrderNotFound is returned for unknown order session identifiers.
var errOrderNotFound = errors.New("order not found")

func (h *Handler) createOrder(w http.ResponseWriter, _ *http.Request) {
	id := newOrderID()

	h.mu.Lock()
	h.orders[id] = order.New(h.catalog)
	h.mu.Unlock()

	respond(w, http.StatusCreated, func(e *jx.Encoder) {
		e.FieldStart("id")
		e.Str(id)
	})
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	h.mu.Lock()
	o, ok := h.orders[id]
	if !ok {
		h.mu.Unlock()
		respondNoOrder(w)
		return
	}
	total := o.Total()
	lines := o.Lines()
	h.mu.Unlock()

	names := make([]string, 0, len(lines))
	for name := range lines {
		names = append(names, name)
	}
	sort.Strings(names)

	respond(w, http.StatusOK, func(e *jx.Encoder) {
		e.FieldStart("id")
		e.Str(id)
		e.FieldStart("total")
		e.Str(amount(total))
		e.FieldStart("lines")
		e.ObjStart()
		for _, name := range names {
			e.FieldStart(name)
			e.Str(lines[name].String())
		}
		e.ObjEnd()
	})
}

func (h *Handler) scanItem(w http.ResponseWriter, r *http.Request) {
	h.lineOp(w, r, func(o *order.Order, name string, qty decimal.Decimal) error {
		return o.Scan(name, qty)
	})
}

func (h *Handler) removeItem(w http.ResponseWriter, r *http.Request) {
	h.lineOp(w, r, func(o *order.Order, name string, qty decimal.Decimal) error {
		return o.RemoveQty(name, qty)
	})
}

// lineOp decodes a {"name", "qty"} body and runs op against the session,
// responding with the refreshed total. qty defaults to 1.
func (h *Handler) lineOp(w http.ResponseWriter, r *http.Request, op func(o *order.Order, name string, qty decimal.Decimal) error) {
	var (
		name string
		qty  = decimal.NewFromInt(1)
	)
	err := decodeBody(r, func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "name":
			name, err = d.Str()
		case "qty":
			qty, err = decodeDecimal(d)
		default:
			err = d.Skip()
		}
		return err
	})
	if err != nil {
		respondError(w, err)
		return
	}

	h.mu.Lock()
	o, ok := h.orders[r.PathValue("id")]
	if !ok {
		h.mu.Unlock()
		respondNoOrder(w)
		return
	}
	err = op(o, name, qty)
	total := o.Total()
	h.mu.Unlock()
	if err != nil {
		respondError(w, err)
		return
	}

	respondTotal(w, total)
}

func (h *Handler) recomputeOrder(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	o, ok := h.orders[r.PathValue("id")]
	if !ok {
		h.mu.Unlock()
		respondNoOrder(w)
		return
	}
	err := o.RecomputeTotal()
	total := o.Total()
	h.mu.Unlock()
	if err != nil {
		respondError(w, err)
		return
	}

	respondTotal(w, total)
}

func respondTotal(w http.ResponseWriter, total decimal.Decimal) {
	respond(w, http.StatusOK, func(e *jx.Encoder) {
		e.FieldStart("total")
		e.Str(amount(total))
	})
}

func respondNoOrder(w http.ResponseWriter) {
	respond(w, http.StatusNotFound, func(e *jx.Encoder) {
		e.FieldStart("message")
		e.Str(errOrderNotFound.Error())
	})
}
