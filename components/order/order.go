// components/order/order.go
//
// Order component.
//
// POST /order hands the checkout payload to the checkout workflow, which
// stores it and then emails the shop admin.  The response always reflects
// the stored state: a failed email degrades the message but the order
// stands.  PUT /order/{id} is the dashboard's status change and may only
// touch the fields in models.OrderMutableFields.
//
//------------------------------------------------------------------------------

package order

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/rokibulislampro/mnly-server/internal/checkout"
	"github.com/rokibulislampro/mnly-server/internal/component"
	"github.com/rokibulislampro/mnly-server/internal/models"
	"github.com/rokibulislampro/mnly-server/internal/respond"
	"github.com/rokibulislampro/mnly-server/internal/store"
)

// Compile-time assertion: *Component satisfies component.Component.
var _ component.Component = (*Component)(nil)

// Component serves /order.
type Component struct {
	orders   store.Collection
	checkout *checkout.Workflow
	limit    func(http.Handler) http.Handler
	log      *zap.Logger
}

// New returns the component.  limit wraps POST /order and may be nil.
func New(orders store.Collection, n checkout.Notifier, limit func(http.Handler) http.Handler, log *zap.Logger) *Component {
	if log == nil {
		log = zap.NewNop()
	}
	if limit == nil {
		limit = func(h http.Handler) http.Handler { return h }
	}
	return &Component{
		orders:   orders,
		checkout: checkout.New(orders, n, log),
		limit:    limit,
		log:      log,
	}
}

/*────────────────── component.Component methods ───────────────────────────*/

// Name returns the canonical component key.
func (c *Component) Name() string { return "order" }

// Routes builds the router mounted at "/order".
func (c *Component) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", component.List(c.orders))
	r.Get("/{id}", component.Get(c.orders, "Order not found"))
	r.With(c.limit).Post("/", c.handlePlace)
	r.Put("/{id}", c.handleUpdate)
	r.Delete("/{id}", component.Delete(c.orders))
	return r
}

/*──────────────────────────── Handlers ─────────────────────────────────────*/

func (c *Component) handlePlace(w http.ResponseWriter, r *http.Request) {
	doc, raw, err := respond.DecodeDocument(w, r)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	// A type mismatch leaves the rest of the view filled in; the email
	// shows placeholders for whatever could not be read.
	o, err := models.DecodeOrder(raw)
	if err != nil {
		c.log.Debug("order view decoded partially", zap.Error(err))
	}

	rc, err := c.checkout.Submit(r.Context(), doc.Without(store.IDField), o)
	switch {
	case errors.Is(err, checkout.ErrNotPersisted):
		respond.JSON(w, http.StatusInternalServerError, map[string]any{
			"success": false,
			"message": "Failed to save order in database",
		})
		return
	case err != nil:
		respond.JSON(w, http.StatusInternalServerError, map[string]any{
			"success": false,
			"message": "Failed to place order",
			"error":   err.Error(),
		})
		return
	}

	respond.JSON(w, http.StatusCreated, map[string]any{
		"success":   true,
		"message":   rc.Message(),
		"emailSent": rc.EmailSent,
		"result":    rc.Result,
	})
}

func (c *Component) handleUpdate(w http.ResponseWriter, r *http.Request) {
	doc, _, err := respond.DecodeDocument(w, r)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	set := store.Document{}
	for _, f := range models.OrderMutableFields {
		if v, ok := doc[f]; ok {
			set[f] = v
		}
	}
	if len(set) == 0 {
		respond.Message(w, http.StatusBadRequest, "No fields to update")
		return
	}

	res, err := c.orders.UpdateByID(r.Context(), chi.URLParam(r, "id"), set)
	switch {
	case errors.Is(err, store.ErrInvalidID):
		respond.StoreError(w, r, err, "")
		return
	case err != nil:
		c.log.Error("order update failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "Failed to update order status", err)
		return
	case res.ModifiedCount == 0:
		respond.Message(w, http.StatusNotFound, "Order not found or no changes made")
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{
		"message": "Order updated successfully",
		"data":    set,
	})
}
