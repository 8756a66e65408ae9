// internal/checkout/checkout.go
//
// Order submission workflow.
//
// Context
// -------
// POST /order is the one multi-step operation in the storefront:
//
//	Received → Persisted → Notified → Responded
//
// The order is written first and the admin email second.  A failed email
// never rolls the order back and never fails the request; it only changes
// the message the customer sees.  A failed write ends the workflow before
// any email is attempted.
//
// Totals are stored exactly as the caller computed them.
//
// Notes
// -----
//   - Submit is safe for concurrent use.
//   - Oxford commas, two spaces after periods.
package checkout

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/rokibulislampro/mnly-server/internal/metrics"
	"github.com/rokibulislampro/mnly-server/internal/models"
	"github.com/rokibulislampro/mnly-server/internal/store"
)

// State is the workflow position reached.
type State int

const (
	Received State = iota
	Persisted
	Notified
	Responded
)

func (s State) String() string {
	switch s {
	case Received:
		return "received"
	case Persisted:
		return "persisted"
	case Notified:
		return "notified"
	case Responded:
		return "responded"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// ErrNotPersisted means the insert was accepted but yielded no identifier.
var ErrNotPersisted = errors.New("checkout: order was not saved")

// Inserter is the slice of store.Collection the workflow writes through.
type Inserter interface {
	InsertOne(ctx context.Context, doc store.Document) (store.InsertResult, error)
}

// Notifier delivers the admin notification and reports success.
type Notifier interface {
	Send(ctx context.Context, o models.Order) bool
}

// Receipt is what the workflow hands back to the HTTP layer.
type Receipt struct {
	State     State
	EmailSent bool
	Result    store.InsertResult
}

// Message is the customer-facing summary.
func (r Receipt) Message() string {
	if r.EmailSent {
		return "Order placed successfully & email sent"
	}
	return "Order placed successfully but email failed"
}

// Workflow runs order submissions.
type Workflow struct {
	orders Inserter
	notify Notifier
	log    *zap.Logger
}

// New returns a Workflow writing to orders and notifying through n.
func New(orders Inserter, n Notifier, log *zap.Logger) *Workflow {
	if log == nil {
		log = zap.NewNop()
	}
	return &Workflow{orders: orders, notify: n, log: log}
}

// Submit persists doc and then notifies once.  The error is non-nil only
// when persistence failed; in that case no notification was attempted and
// the receipt's State is Received.
func (w *Workflow) Submit(ctx context.Context, doc store.Document, o models.Order) (Receipt, error) {
	rc := Receipt{State: Received}

	res, err := w.orders.InsertOne(ctx, doc)
	if err != nil {
		w.log.Error("order insert failed", zap.String("orderId", o.OrderID), zap.Error(err))
		return rc, fmt.Errorf("checkout: insert order: %w", err)
	}
	if !res.Acknowledged || res.InsertedID == "" {
		w.log.Error("order insert returned no id", zap.String("orderId", o.OrderID))
		return rc, ErrNotPersisted
	}
	rc.Result = res
	rc.State = Persisted
	metrics.OrdersPlacedTotal.Inc()

	rc.EmailSent = w.send(ctx, o)
	rc.State = Notified
	if rc.EmailSent {
		metrics.OrderEmailsTotal.WithLabelValues(metrics.OutcomeSent).Inc()
	} else {
		metrics.OrderEmailsTotal.WithLabelValues(metrics.OutcomeFailed).Inc()
	}

	w.log.Info("order placed",
		zap.String("orderId", o.OrderID),
		zap.String("id", res.InsertedID),
		zap.Bool("emailSent", rc.EmailSent),
	)
	rc.State = Responded
	return rc, nil
}

// send shields the order from a misbehaving notifier.
func (w *Workflow) send(ctx context.Context, o models.Order) (ok bool) {
	if w.notify == nil {
		return false
	}
	defer func() {
		if p := recover(); p != nil {
			w.log.Error("order notifier panicked", zap.String("orderId", o.OrderID), zap.Any("panic", p))
			ok = false
		}
	}()
	return w.notify.Send(ctx, o)
}
