// Package submission turns a cart into an order request and places it with
// the backend. It never mutates cart state; clearing the cart after a
// successful order is the caller's job.
package submission

import (
	"context"
	"fmt"
	"sync"
	"time"

	"storefront/internal/duedate"
	"storefront/internal/model"

	"github.com/rs/zerolog"
)

// State is the lifecycle of a single order attempt.
type State int

const (
	Idle State = iota
	Submitting
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Submitting:
		return "submitting"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Placer sends an order to the order-placement endpoint.
type Placer interface {
	PlaceOrder(ctx context.Context, token string, req model.OrderSubmissionRequest) (*model.OrderConfirmation, error)
}

// OrderTypeAt derives the shift from the wall-clock hour of now.
func OrderTypeAt(now time.Time) model.OrderType {
	if now.Hour() < 12 {
		return model.OrderTypeAM
	}
	return model.OrderTypePM
}

// Validate checks that c can be submitted. It returns a
// *model.ValidationError listing every problem found.
func Validate(c model.Cart) error {
	var messages []string
	if c.IsEmpty() {
		messages = append(messages, model.MsgEmptyCart)
	}
	if c.Customer == nil {
		messages = append(messages, model.MsgNoCustomer)
	}
	if len(messages) > 0 {
		return model.NewValidationError(messages...)
	}
	return nil
}

// BuildRequest assembles the order payload for c.
func BuildRequest(c model.Cart, customer model.Customer, dueDate time.Time, enteredBy string, now time.Time) model.OrderSubmissionRequest {
	lines := make([]model.OrderLine, 0, len(c.Items))
	for _, item := range c.Items {
		lines = append(lines, model.OrderLine{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
			Name:      item.Name,
			Category:  item.Category,
			GSTRate:   item.GSTRate,
		})
	}

	return model.OrderSubmissionRequest{
		CustomerID: customer.CustomerID,
		OrderType:  OrderTypeAt(now),
		Products:   lines,
		EnteredBy:  enteredBy,
		DueOn:      duedate.Format(dueDate),
	}
}

// Attempt is one order placement. It moves Idle -> Submitting ->
// Succeeded|Failed and cannot be reused.
type Attempt struct {
	placer Placer
	logger zerolog.Logger

	mu    sync.Mutex
	state State
}

// NewAttempt creates an idle attempt that places orders through placer.
func NewAttempt(placer Placer, logger zerolog.Logger) *Attempt {
	return &Attempt{
		placer: placer,
		logger: logger.With().Str("component", "order-submission").Logger(),
	}
}

// State returns the current state of the attempt.
func (a *Attempt) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Submit validates c and, if it is submittable, makes exactly one call to the
// placer. Rejected attempts stay Idle and make no call.
func (a *Attempt) Submit(ctx context.Context, token string, c model.Cart, dueDate time.Time, enteredBy string, now time.Time) (*model.OrderConfirmation, error) {
	if err := Validate(c); err != nil {
		return nil, err
	}
	if token == "" {
		return nil, fmt.Errorf("%w: no token for order submission", model.ErrUnauthenticated)
	}

	a.mu.Lock()
	if a.state != Idle {
		state := a.state
		a.mu.Unlock()
		if state == Submitting {
			return nil, model.NewValidationError(model.MsgSubmissionInProgress)
		}
		return nil, fmt.Errorf("order attempt already %s", state)
	}
	a.state = Submitting
	a.mu.Unlock()

	req := BuildRequest(c, *c.Customer, dueDate, enteredBy, now)

	confirmation, err := a.placer.PlaceOrder(ctx, token, req)

	a.mu.Lock()
	defer a.mu.Unlock()
	if err != nil {
		a.state = Failed
		a.logger.Warn().
			Err(err).
			Int64("customer_id", req.CustomerID).
			Str("order_type", string(req.OrderType)).
			Msg("order submission failed")
		return nil, err
	}

	a.state = Succeeded
	a.logger.Info().
		Int64("customer_id", req.CustomerID).
		Str("order_type", string(req.OrderType)).
		Str("due_on", req.DueOn).
		Int("lines", len(req.Products)).
		Msg("order submitted")

	return confirmation, nil
}
