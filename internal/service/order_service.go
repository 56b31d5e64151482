package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"storefront/internal/duedate"
	"storefront/internal/model"
	"storefront/internal/submission"

	"github.com/rs/zerolog"
)

// UnknownCustomer is shown for history rows whose customer lookup failed.
const UnknownCustomer = "Unknown customer"

// OrderBackend is the part of the backend used for orders.
type OrderBackend interface {
	submission.Placer
	ListOrders(ctx context.Context, token string) ([]model.OrderSummary, error)
	GetCustomer(ctx context.Context, token string, id int64) (*model.Customer, error)
}

// orderService implements OrderService.
type orderService struct {
	backend  OrderBackend
	carts    CartService
	dueDates *duedate.Service
	now      func() time.Time
	logger   zerolog.Logger

	mu       sync.Mutex
	inFlight map[string]*submission.Attempt
}

// NewOrderService creates a new order service.
func NewOrderService(
	backend OrderBackend,
	carts CartService,
	dueDates *duedate.Service,
	now func() time.Time,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		backend:  backend,
		carts:    carts,
		dueDates: dueDates,
		now:      now,
		logger:   logger.With().Str("service", "order").Logger(),
		inFlight: make(map[string]*submission.Attempt),
	}
}

func (s *orderService) DueDates(ctx context.Context, token string) model.DueDateWindow {
	return duedate.Window(s.now(), s.dueDates.Config(ctx, token))
}

// PlaceOrder validates the cart, checks the due date against the client's
// window and makes a single submission. The submitted lines and customer are
// cleared only after the backend accepts the order.
func (s *orderService) PlaceOrder(ctx context.Context, identity model.Identity, token string, req model.PlaceOrderRequest) (*model.OrderConfirmation, error) {
	owner := identity.Owner()

	attempt, err := s.begin(owner)
	if err != nil {
		return nil, err
	}
	defer s.finish(owner, attempt)

	c := s.carts.Snapshot(ctx, owner)
	if err := submission.Validate(c); err != nil {
		s.logger.Debug().Str("owner", owner).Err(err).Msg("order rejected")
		return nil, err
	}
	if token == "" {
		return nil, fmt.Errorf("%w: no token for order submission", model.ErrUnauthenticated)
	}

	now := s.now()
	dueDate, err := duedate.Parse(req.DueOn, now, s.dueDates.Config(ctx, token))
	if err != nil {
		s.logger.Debug().Str("owner", owner).Str("due_on", req.DueOn).Msg("due date outside window")
		return nil, err
	}

	confirmation, err := attempt.Submit(ctx, token, c, dueDate, identity.EnteredBy(), now)
	if err != nil {
		return nil, err
	}

	s.carts.ClearOrdered(ctx, owner, c)

	s.logger.Info().
		Str("owner", owner).
		Int64("customer_id", c.Customer.CustomerID).
		Str("due_on", req.DueOn).
		Msg("order placed, cart cleared")

	return confirmation, nil
}

// begin registers a new attempt for owner, refusing while another is in flight.
func (s *orderService) begin(owner string) (*submission.Attempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, busy := s.inFlight[owner]; busy {
		s.logger.Warn().Str("owner", owner).Msg("duplicate order submission refused")
		return nil, model.NewValidationError(model.MsgSubmissionInProgress)
	}

	attempt := submission.NewAttempt(s.backend, s.logger)
	s.inFlight[owner] = attempt
	return attempt, nil
}

func (s *orderService) finish(owner string, attempt *submission.Attempt) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.inFlight[owner] == attempt {
		delete(s.inFlight, owner)
	}
}

// History lists orders and resolves customer names. A failed lookup marks
// only the affected rows as UnknownCustomer.
func (s *orderService) History(ctx context.Context, token string) ([]model.OrderSummary, error) {
	orders, err := s.backend.ListOrders(ctx, token)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list orders")
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	names := make(map[int64]string)
	for i := range orders {
		if orders[i].CustomerName != "" {
			continue
		}

		id := orders[i].CustomerID
		name, ok := names[id]
		if !ok {
			name = s.customerName(ctx, token, id)
			names[id] = name
		}
		orders[i].CustomerName = name
	}

	if orders == nil {
		orders = []model.OrderSummary{}
	}

	s.logger.Debug().
		Int("orders", len(orders)).
		Int("customer_lookups", len(names)).
		Msg("order history resolved")

	return orders, nil
}

func (s *orderService) customerName(ctx context.Context, token string, id int64) string {
	customer, err := s.backend.GetCustomer(ctx, token, id)
	if err != nil || customer == nil || customer.Name == "" {
		s.logger.Warn().Err(err).Int64("customer_id", id).Msg("customer lookup failed")
		return UnknownCustomer
	}
	return customer.Name
}
