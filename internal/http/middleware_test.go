package http

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/attendance-portal/internal/application"
	"github.com/example/attendance-portal/internal/identity"
	"github.com/example/attendance-portal/internal/logging"
)

func TestRequireIdentity(t *testing.T) {
	t.Parallel()

	const secret = "middleware-test-secret"
	verifier, err := identity.NewVerifier(secret, "")
	require.NoError(t, err)
	signer := identity.NewSigner(secret, "", nil)

	tests := []struct {
		name           string
		header         string
		expectedStatus int
	}{
		{name: "missing credentials", expectedStatus: http.StatusUnauthorized},
		{name: "malformed header", header: "Token abc", expectedStatus: http.StatusUnauthorized},
		{name: "invalid bearer token", header: "Bearer malformed", expectedStatus: http.StatusUnauthorized},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			handler := RequireIdentity(verifier, logging.Discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Fatal("next handler should not be called when authentication fails")
			}))
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tc.expectedStatus, rec.Code)
			var resp errorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, codeUnauthenticated, resp.ErrorCode)
		})
	}

	t.Run("attaches authenticated principal to request context", func(t *testing.T) {
		t.Parallel()

		token, err := signer.Sign("employee-123", identity.RoleAdmin, time.Hour)
		require.NoError(t, err)

		var captured application.Principal
		handler := RequireIdentity(verifier, logging.Discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFromContext(r.Context())
			require.True(t, ok)
			captured = p
			w.WriteHeader(http.StatusOK)
		}))
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, application.Principal{UserID: "employee-123", IsAdmin: true}, captured)
	})
}

func TestRequestLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := logging.New(&buf, slog.LevelInfo, "")
	handler := RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NotNil(t, LoggerFromContext(r.Context()))
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodGet, "/brew", nil)
	req.Header.Set("X-Request-ID", "req-42")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, "req-42", rec.Header().Get("X-Request-ID"))
	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "request completed", record["msg"])
	assert.Equal(t, "req-42", record["request_id"])
	assert.EqualValues(t, http.StatusTeapot, record["status"])
}

func TestRequestTimeout(t *testing.T) {
	t.Parallel()

	var deadline time.Time
	handler := RequestTimeout(time.Second)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var ok bool
		deadline, ok = r.Context().Deadline()
		require.True(t, ok)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.WithinDuration(t, time.Now().Add(time.Second), deadline, time.Second)

	passthrough := RequestTimeout(0)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, ok := r.Context().Deadline()
		assert.False(t, ok)
	}))
	passthrough.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
}

func TestRecoverer(t *testing.T) {
	t.Parallel()

	handler := Recoverer(logging.Discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHandleServiceError_DeadlineIsUnavailable(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	err := &application.StorageError{Op: "list", Err: context.DeadlineExceeded}
	newResponder(logging.Discard()).handleServiceError(context.Background(), rec, err)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
