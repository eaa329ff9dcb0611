// Package reconcile pulls external payment state and folds it into local
// order status. All writes are compare-and-set against the set of states
// the gateway is still allowed to influence, so re-running a pass is
// always safe and never rolls an order backwards.
package reconcile

import (
	"context"
	"errors"
	"os"

	"github.com/rs/zerolog"

	"storefront-api/models"
	"storefront-api/payments"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Str("component", "reconcile").Logger()

var (
	// ErrInvalidTransition rejects an administrative status change the
	// current state does not permit.
	ErrInvalidTransition = errors.New("invalid order status transition")
	// ErrNoSession means the order never got a payment session, so there
	// is nothing to reconcile.
	ErrNoSession = errors.New("order has no payment session")
)

// Gateway is the slice of the payment adapter the reconciler needs.
type Gateway interface {
	GetSessionStatus(ctx context.Context, sessionID string) (*payments.SessionStatus, error)
	GetIntentStatus(ctx context.Context, intentID string) (string, error)
	Refund(ctx context.Context, intentID string) (bool, error)
}

// OrderStore is the slice of order persistence the reconciler needs.
type OrderStore interface {
	GetByID(id uint) (*models.OrderHeader, error)
	TransitionStatus(orderID uint, from []models.OrderStatus, to models.OrderStatus, intentID string) (bool, error)
}

// reconcilable are the states external payment data may still overwrite.
// Approved and everything after it is off limits to the gateway; only
// staff transitions move an order past Approved.
var reconcilable = []models.OrderStatus{
	models.OrderStatusPending,
	models.OrderStatusPaymentRequired,
	models.OrderStatusPaymentPending,
	models.OrderStatusPaymentFailed,
}

// Result reports the order status after a reconciliation pass.
// FreshlyApproved is true only on the pass that first observed the
// successful payment; the caller uses it to clear the cart exactly once.
type Result struct {
	Status          models.OrderStatus
	FreshlyApproved bool
}

type Reconciler struct {
	gateway Gateway
	orders  OrderStore
	notify  func(orderID uint, status models.OrderStatus)
}

func NewReconciler(gateway Gateway, orders OrderStore) *Reconciler {
	return &Reconciler{gateway: gateway, orders: orders}
}

// OnTransition registers a callback invoked after every persisted status
// change, e.g. to push the update to connected dashboards.
func (r *Reconciler) OnTransition(fn func(orderID uint, status models.OrderStatus)) {
	r.notify = fn
}

// Reconcile queries the gateway for the order's session and applies the
// resulting status. An unpaid session leaves the order untouched.
func (r *Reconciler) Reconcile(ctx context.Context, orderID uint) (*Result, error) {
	order, err := r.orders.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order.SessionID == "" {
		return nil, ErrNoSession
	}

	session, err := r.gateway.GetSessionStatus(ctx, order.SessionID)
	if err != nil {
		return nil, err
	}
	if !session.Paid {
		return &Result{Status: order.Status}, nil
	}

	intentStatus, err := r.gateway.GetIntentStatus(ctx, session.PaymentIntentID)
	if err != nil {
		return nil, err
	}

	var target models.OrderStatus
	intentID := ""
	switch intentStatus {
	case "succeeded":
		target = models.OrderStatusApproved
		intentID = session.PaymentIntentID
	case "requires_payment_method":
		target = models.OrderStatusPaymentRequired
	case "requires_action":
		target = models.OrderStatusPaymentPending
	default:
		target = models.OrderStatusPaymentFailed
	}

	changed, err := r.orders.TransitionStatus(orderID, reconcilable, target, intentID)
	if err != nil {
		return nil, err
	}
	if !changed {
		// Already at or past the target; report what is persisted now.
		current, err := r.orders.GetByID(orderID)
		if err != nil {
			return nil, err
		}
		return &Result{Status: current.Status}, nil
	}

	logger.Info().Uint("order_id", orderID).Str("status", string(target)).Msg("order status reconciled")
	r.emit(orderID, target)
	return &Result{
		Status:          target,
		FreshlyApproved: target == models.OrderStatusApproved,
	}, nil
}

// MarkReadyForPickup moves an Approved order to ReadyForPickup.
func (r *Reconciler) MarkReadyForPickup(orderID uint) error {
	return r.adminTransition(orderID, models.OrderStatusApproved, models.OrderStatusReadyForPickup)
}

// Complete moves a ReadyForPickup order to Completed.
func (r *Reconciler) Complete(orderID uint) error {
	return r.adminTransition(orderID, models.OrderStatusReadyForPickup, models.OrderStatusCompleted)
}

func (r *Reconciler) adminTransition(orderID uint, from, to models.OrderStatus) error {
	changed, err := r.orders.TransitionStatus(orderID, []models.OrderStatus{from}, to, "")
	if err != nil {
		return err
	}
	if !changed {
		if _, err := r.orders.GetByID(orderID); err != nil {
			return err
		}
		return ErrInvalidTransition
	}
	r.emit(orderID, to)
	return nil
}

// Cancel refunds an Approved order and marks it Cancelled. The refund
// must definitively succeed first; a failed or unconfirmed refund leaves
// the order Approved and surfaces the gateway error to the caller.
func (r *Reconciler) Cancel(ctx context.Context, orderID uint) error {
	order, err := r.orders.GetByID(orderID)
	if err != nil {
		return err
	}
	if order.Status != models.OrderStatusApproved {
		return ErrInvalidTransition
	}

	if order.PaymentIntentID != "" {
		ok, err := r.gateway.Refund(ctx, order.PaymentIntentID)
		if err != nil {
			return err
		}
		if !ok {
			return &payments.GatewayError{Op: "refund", Message: "refund was not completed"}
		}
	}

	changed, err := r.orders.TransitionStatus(orderID, []models.OrderStatus{models.OrderStatusApproved}, models.OrderStatusCancelled, "")
	if err != nil {
		return err
	}
	if !changed {
		return ErrInvalidTransition
	}
	logger.Info().Uint("order_id", orderID).Msg("order cancelled and refunded")
	r.emit(orderID, models.OrderStatusCancelled)
	return nil
}

func (r *Reconciler) emit(orderID uint, status models.OrderStatus) {
	if r.notify != nil {
		r.notify(orderID, status)
	}
}
