package submission

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"storefront/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockPlacer is a mock implementation of Placer.
type MockPlacer struct {
	mock.Mock
}

func (m *MockPlacer) PlaceOrder(ctx context.Context, token string, req model.OrderSubmissionRequest) (*model.OrderConfirmation, error) {
	args := m.Called(ctx, token, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OrderConfirmation), args.Error(1)
}

func filledCart() model.Cart {
	return model.Cart{
		Items: []model.LineItem{
			{ProductID: 5, Name: "Milk", Category: "Dairy", Price: 100, Quantity: 2, GSTRate: 5},
			{ProductID: 6, Name: "Loose Sugar", Price: 40, Quantity: 1},
		},
		Customer: &model.Customer{CustomerID: 42, Name: "Sharma Stores"},
	}
}

func at(hour int) time.Time {
	return time.Date(2026, 10, 18, hour, 30, 0, 0, time.UTC)
}

func TestOrderTypeAt(t *testing.T) {
	tests := []struct {
		hour     int
		expected model.OrderType
	}{
		{hour: 0, expected: model.OrderTypeAM},
		{hour: 9, expected: model.OrderTypeAM},
		{hour: 11, expected: model.OrderTypeAM},
		{hour: 12, expected: model.OrderTypePM},
		{hour: 15, expected: model.OrderTypePM},
		{hour: 23, expected: model.OrderTypePM},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, OrderTypeAt(at(tt.hour)), "hour %d", tt.hour)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		cart     model.Cart
		expected []string
	}{
		{name: "Submittable", cart: filledCart()},
		{
			name:     "Empty cart",
			cart:     model.Cart{Customer: &model.Customer{CustomerID: 1}},
			expected: []string{model.MsgEmptyCart},
		},
		{
			name:     "No customer",
			cart:     model.Cart{Items: filledCart().Items},
			expected: []string{model.MsgNoCustomer},
		},
		{
			name:     "Neither",
			cart:     model.Cart{},
			expected: []string{model.MsgEmptyCart, model.MsgNoCustomer},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.cart)
			if tt.expected == nil {
				assert.NoError(t, err)
				return
			}
			var verr *model.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.expected, verr.Messages)
		})
	}
}

func TestBuildRequest(t *testing.T) {
	c := filledCart()
	due := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

	req := BuildRequest(c, *c.Customer, due, "ravi", at(9))

	assert.Equal(t, model.OrderSubmissionRequest{
		CustomerID: 42,
		OrderType:  model.OrderTypeAM,
		Products: []model.OrderLine{
			{ProductID: 5, Quantity: 2, Price: 100, Name: "Milk", Category: "Dairy", GSTRate: 5},
			{ProductID: 6, Quantity: 1, Price: 40, Name: "Loose Sugar", Category: "", GSTRate: 0},
		},
		EnteredBy: "ravi",
		DueOn:     "2026-10-19",
	}, req)

	assert.Equal(t, model.OrderTypePM, BuildRequest(c, *c.Customer, due, "ravi", at(15)).OrderType)
}

func TestAttempt_Submit_Success(t *testing.T) {
	ctx := context.Background()
	placer := new(MockPlacer)
	c := filledCart()
	due := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	expected := BuildRequest(c, *c.Customer, due, "ravi", at(15))

	placer.On("PlaceOrder", ctx, "tok", expected).
		Return(&model.OrderConfirmation{Message: "Order placed"}, nil).Once()

	attempt := NewAttempt(placer, zerolog.Nop())
	assert.Equal(t, Idle, attempt.State())

	confirmation, err := attempt.Submit(ctx, "tok", c, due, "ravi", at(15))

	require.NoError(t, err)
	assert.Equal(t, "Order placed", confirmation.Message)
	assert.Equal(t, Succeeded, attempt.State())
	placer.AssertNumberOfCalls(t, "PlaceOrder", 1)
	assert.Equal(t, filledCart(), c, "submission must not touch the cart")
}

func TestAttempt_Submit_RejectedWithoutNetworkCall(t *testing.T) {
	tests := []struct {
		name  string
		cart  model.Cart
		token string
		auth  bool
	}{
		{name: "Empty cart", cart: model.Cart{Customer: &model.Customer{CustomerID: 1}}, token: "tok"},
		{name: "No customer", cart: model.Cart{Items: filledCart().Items}, token: "tok"},
		{name: "No token", cart: filledCart(), token: "", auth: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			placer := new(MockPlacer)
			attempt := NewAttempt(placer, zerolog.Nop())

			_, err := attempt.Submit(context.Background(), tt.token, tt.cart, at(9), "ravi", at(9))

			require.Error(t, err)
			if tt.auth {
				assert.ErrorIs(t, err, model.ErrUnauthenticated)
			} else {
				var verr *model.ValidationError
				assert.ErrorAs(t, err, &verr)
			}
			assert.Equal(t, Idle, attempt.State())
			placer.AssertNumberOfCalls(t, "PlaceOrder", 0)
		})
	}
}

func TestAttempt_Submit_FailureIsNotRetried(t *testing.T) {
	placer := new(MockPlacer)
	netErr := &model.NetworkError{Op: "place order", Status: 500, Message: model.MsgOrderFailed}
	placer.On("PlaceOrder", mock.Anything, "tok", mock.Anything).Return(nil, netErr)

	attempt := NewAttempt(placer, zerolog.Nop())

	_, err := attempt.Submit(context.Background(), "tok", filledCart(), at(9), "ravi", at(9))

	assert.ErrorIs(t, err, netErr)
	assert.Equal(t, Failed, attempt.State())
	placer.AssertNumberOfCalls(t, "PlaceOrder", 1)

	_, err = attempt.Submit(context.Background(), "tok", filledCart(), at(9), "ravi", at(9))
	assert.Error(t, err)
	placer.AssertNumberOfCalls(t, "PlaceOrder", 1)
}

// blockingPlacer holds PlaceOrder until released.
type blockingPlacer struct {
	entered chan struct{}
	release chan struct{}
	calls   int
	mu      sync.Mutex
}

func (b *blockingPlacer) PlaceOrder(ctx context.Context, token string, req model.OrderSubmissionRequest) (*model.OrderConfirmation, error) {
	b.mu.Lock()
	b.calls++
	b.mu.Unlock()
	close(b.entered)
	<-b.release
	return &model.OrderConfirmation{}, nil
}

func TestAttempt_Submit_WhileSubmitting(t *testing.T) {
	placer := &blockingPlacer{entered: make(chan struct{}), release: make(chan struct{})}
	attempt := NewAttempt(placer, zerolog.Nop())

	done := make(chan error, 1)
	go func() {
		_, err := attempt.Submit(context.Background(), "tok", filledCart(), at(9), "ravi", at(9))
		done <- err
	}()

	<-placer.entered
	assert.Equal(t, Submitting, attempt.State())

	_, err := attempt.Submit(context.Background(), "tok", filledCart(), at(9), "ravi", at(9))
	var verr *model.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{model.MsgSubmissionInProgress}, verr.Messages)

	close(placer.release)
	require.NoError(t, <-done)
	assert.Equal(t, Succeeded, attempt.State())
	assert.Equal(t, 1, placer.calls)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "submitting", Submitting.String())
	assert.Equal(t, "succeeded", Succeeded.String())
	assert.Equal(t, "failed", Failed.String())
	assert.Equal(t, "State(9)", State(9).String())
}

func TestAttempt_PropagatesAuthError(t *testing.T) {
	placer := new(MockPlacer)
	placer.On("PlaceOrder", mock.Anything, "expired", mock.Anything).
		Return(nil, errors.Join(model.ErrUnauthenticated, errors.New("status 401")))

	_, err := NewAttempt(placer, zerolog.Nop()).Submit(context.Background(), "expired", filledCart(), at(9), "ravi", at(9))

	assert.ErrorIs(t, err, model.ErrUnauthenticated)
}
