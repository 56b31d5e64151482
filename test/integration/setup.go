package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a PostgreSQL test container with the state schema.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	// Create PostgreSQL container
	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	// Get connection string
	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	dbConfig := config.DatabaseConfig{
		MaxConnections:  10,
		MinConnections:  2,
		MaxConnLifetime: 300,
	}

	pool, err := database.NewPoolFromURL(ctx, connStr, dbConfig, zerolog.Nop())
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	if err := repository.EnsureSchema(ctx, pool); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// CleanupDB removes all persisted cart state.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	if _, err := pool.Exec(context.Background(), "TRUNCATE TABLE client_state"); err != nil {
		t.Fatalf("failed to cleanup database: %v", err)
	}
}

// FakeBackend is an in-process stand-in for the upstream REST backend.
type FakeBackend struct {
	Server *httptest.Server

	mu        sync.Mutex
	products  []model.Product
	customers map[int64]string
	orders    []model.OrderSubmissionRequest
	rejectMsg string
}

// NewFakeBackend starts a fake backend serving products and customers.
func NewFakeBackend(t *testing.T) *FakeBackend {
	t.Helper()

	discount := 28.0
	minPrice := 25.0
	b := &FakeBackend{
		products: []model.Product{
			{ID: 1, Name: "Toned Milk 500ml", Brand: "Amul", Category: "Dairy", Price: 30, DiscountPrice: &discount, MinSellingPrice: &minPrice, GSTRate: 5},
			{ID: 2, Name: "Whole Wheat Bread", Brand: "Britannia", Category: "Bakery", Price: 45, GSTRate: 0},
			{ID: 3, Name: "Discontinued Cheese", Brand: "Amul", Category: "Dairy", Price: 120, EnableProduct: model.ProductStatusMask},
		},
		customers: map[int64]string{42: "Sharma Stores", 43: "Gupta Traders"},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /products", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]interface{}{"data": b.products})
	})
	mux.HandleFunc("GET /customers/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
		b.mu.Lock()
		name, ok := b.customers[id]
		b.mu.Unlock()
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "Customer not found"})
			return
		}
		writeJSON(w, http.StatusOK, model.Customer{CustomerID: id, Name: name})
	})
	mux.HandleFunc("GET /clients/{license}/due-config", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]int{"default_due_on": 1, "max_due_on": 7})
	})
	mux.HandleFunc("POST /orders", func(w http.ResponseWriter, r *http.Request) {
		var req model.OrderSubmissionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "bad payload"})
			return
		}

		b.mu.Lock()
		defer b.mu.Unlock()
		if b.rejectMsg != "" {
			writeJSON(w, http.StatusOK, map[string]interface{}{"success": false, "message": b.rejectMsg})
			return
		}
		b.orders = append(b.orders, req)
		writeJSON(w, http.StatusCreated, map[string]interface{}{
			"success": true,
			"message": "Order placed",
			"data":    map[string]int{"order_id": len(b.orders)},
		})
	})
	mux.HandleFunc("GET /orders", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		summaries := make([]model.OrderSummary, 0, len(b.orders))
		for i, o := range b.orders {
			summaries = append(summaries, model.OrderSummary{
				OrderID:    int64(i + 1),
				CustomerID: o.CustomerID,
				OrderType:  o.OrderType,
				DueOn:      o.DueOn,
			})
		}
		writeJSON(w, http.StatusOK, summaries)
	})

	b.Server = httptest.NewServer(mux)
	t.Cleanup(b.Server.Close)

	return b
}

// Orders returns the order payloads received so far.
func (b *FakeBackend) Orders() []model.OrderSubmissionRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]model.OrderSubmissionRequest(nil), b.orders...)
}

// RejectOrders makes subsequent order placements fail with message.
func (b *FakeBackend) RejectOrders(message string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rejectMsg = message
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
