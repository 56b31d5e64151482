package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storefront/internal/auth"
	"storefront/internal/backend"
	"storefront/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 10, 18, 10, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

var testSecret = []byte("test-secret")

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	require.NoError(t, err)
	return token
}

func TestCORS(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		expectedStatus int
		expectHandler  bool
	}{
		{
			name:           "Preflight request",
			method:         http.MethodOptions,
			expectedStatus: http.StatusNoContent,
			expectHandler:  false,
		},
		{
			name:           "GET request",
			method:         http.MethodGet,
			expectedStatus: http.StatusOK,
			expectHandler:  true,
		},
		{
			name:           "PATCH request",
			method:         http.MethodPatch,
			expectedStatus: http.StatusOK,
			expectHandler:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handlerCalled := false
			testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				handlerCalled = true
				w.WriteHeader(http.StatusOK)
			})

			handler := CORS(testHandler)

			req := httptest.NewRequest(tt.method, "/test", nil)
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectHandler, handlerCalled)
			assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, "GET, POST, PUT, PATCH, DELETE, OPTIONS", w.Header().Get("Access-Control-Allow-Methods"))
			assert.Equal(t, "Content-Type, Authorization, X-Correlation-ID", w.Header().Get("Access-Control-Allow-Headers"))
		})
	}
}

func TestCorrelationID(t *testing.T) {
	tests := []struct {
		name     string
		incoming string
		keep     bool
	}{
		{name: "Caller supplied", incoming: "abc-123", keep: true},
		{name: "Generated when absent", incoming: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen string
			testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = auth.CorrelationIDFrom(r.Context())
			})

			req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
			if tt.incoming != "" {
				req.Header.Set(backend.CorrelationHeader, tt.incoming)
			}
			w := httptest.NewRecorder()

			CorrelationID(testHandler).ServeHTTP(w, req)

			require.NotEmpty(t, seen)
			assert.Equal(t, seen, w.Header().Get(backend.CorrelationHeader))
			if tt.keep {
				assert.Equal(t, tt.incoming, seen)
			} else {
				assert.Len(t, seen, 36)
			}
		})
	}
}

func TestBearerAuth(t *testing.T) {
	logger := zerolog.Nop()
	valid := signToken(t, jwt.MapClaims{
		"username": "ravi",
		"id":       17,
		"role":     "admin",
		"exp":      fixedNow.Add(time.Hour).Unix(),
	})
	expired := signToken(t, jwt.MapClaims{
		"username": "ravi",
		"id":       17,
		"exp":      fixedNow.Add(-time.Minute).Unix(),
	})
	forgedClaims := jwt.MapClaims{"username": "ravi", "id": "17", "role": "admin"}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, forgedClaims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	otherKey, err := jwt.NewWithClaims(jwt.SigningMethodHS256, forgedClaims).SignedString([]byte("guessed-secret"))
	require.NoError(t, err)

	tests := []struct {
		name           string
		path           string
		header         string
		expectedStatus int
		expectHandler  bool
	}{
		{
			name:           "Valid token",
			path:           "/api/cart",
			header:         "Bearer " + valid,
			expectedStatus: http.StatusOK,
			expectHandler:  true,
		},
		{
			name:           "Lowercase scheme",
			path:           "/api/cart",
			header:         "bearer " + valid,
			expectedStatus: http.StatusOK,
			expectHandler:  true,
		},
		{
			name:           "Missing header",
			path:           "/api/cart",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Wrong scheme",
			path:           "/api/cart",
			header:         "Basic dXNlcjpwYXNz",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Malformed token",
			path:           "/api/orders",
			header:         "Bearer not-a-jwt",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Expired token",
			path:           "/api/orders",
			header:         "Bearer " + expired,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Unsigned token",
			path:           "/api/cart",
			header:         "Bearer " + unsigned,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Token signed with another key",
			path:           "/api/cart",
			header:         "Bearer " + otherKey,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Health check skips auth",
			path:           "/health",
			expectedStatus: http.StatusOK,
			expectHandler:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handlerCalled := false
			testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				handlerCalled = true
				if tt.path != "/health" {
					identity, ok := auth.IdentityFrom(r.Context())
					assert.True(t, ok)
					assert.Equal(t, model.Identity{Username: "ravi", ID: "17", Role: "admin"}, identity)
					token, ok := auth.TokenFrom(r.Context())
					assert.True(t, ok)
					assert.Equal(t, valid, token)
				}
				w.WriteHeader(http.StatusOK)
			})

			handler := BearerAuth(testSecret, clock, logger)(testHandler)

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectHandler, handlerCalled)

			if tt.expectedStatus == http.StatusUnauthorized {
				var resp model.ErrorResponse
				require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
				assert.Equal(t, model.ErrCodeUnauthorised, resp.Error)
			}
		})
	}
}

func TestLogging(t *testing.T) {
	tests := []struct {
		name          string
		method        string
		path          string
		handlerStatus int
	}{
		{name: "Successful request", method: http.MethodGet, path: "/api/cart", handlerStatus: http.StatusOK},
		{name: "Not found request", method: http.MethodDelete, path: "/api/cart/items/9", handlerStatus: http.StatusNotFound},
		{name: "Upstream error", method: http.MethodPost, path: "/api/orders", handlerStatus: http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := zerolog.New(&buf)

			testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.handlerStatus)
			})

			handler := CorrelationID(Logging(logger)(testHandler))

			req := httptest.NewRequest(tt.method, tt.path, nil)
			req.Header.Set(backend.CorrelationHeader, "corr-log")
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.handlerStatus, w.Code)

			var entry map[string]interface{}
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
			assert.Equal(t, "corr-log", entry["correlation_id"])
			assert.Equal(t, tt.path, entry["path"])
			assert.Equal(t, float64(tt.handlerStatus), entry["status"])
		})
	}
}

func TestRecovery(t *testing.T) {
	logger := zerolog.Nop()

	tests := []struct {
		name           string
		shouldPanic    bool
		panicValue     interface{}
		expectedStatus int
	}{
		{
			name:           "No panic",
			shouldPanic:    false,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Panic with string",
			shouldPanic:    true,
			panicValue:     "something went wrong",
			expectedStatus: http.StatusInternalServerError,
		},
		{
			name:           "Panic with error",
			shouldPanic:    true,
			panicValue:     assert.AnError,
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tt.shouldPanic {
					panic(tt.panicValue)
				}
				w.WriteHeader(http.StatusOK)
			})

			handler := Recovery(logger)(testHandler)

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			w := httptest.NewRecorder()

			// Ensure we don't panic in the test
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.shouldPanic {
				var resp model.ErrorResponse
				require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
				assert.Equal(t, model.ErrCodeInternalError, resp.Error)
				assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			}
		})
	}
}

func TestResponseWriter(t *testing.T) {
	tests := []struct {
		name           string
		statusCode     int
		expectedStatus int
	}{
		{
			name:           "Status OK",
			statusCode:     http.StatusOK,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Status Created",
			statusCode:     http.StatusCreated,
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "Status Not Found",
			statusCode:     http.StatusNotFound,
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "Status Internal Server Error",
			statusCode:     http.StatusInternalServerError,
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			rw := &responseWriter{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			rw.WriteHeader(tt.statusCode)

			assert.Equal(t, tt.expectedStatus, rw.statusCode)
			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}
