package mirror

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udhaarapp/udhaar/internal/common"
	"github.com/udhaarapp/udhaar/internal/model"
	"github.com/udhaarapp/udhaar/internal/service"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(Config{
		BaseURL:   server.URL,
		APIKey:    "test-key",
		AuthToken: "test-token",
	})
	require.NoError(t, err)

	client.retryOpts = service.RetryOptions{
		MaxAttempts:  2,
		InitialDelay: time.Millisecond,
		MaxDelay:     time.Millisecond,
	}
	return client
}

func TestNewClient(t *testing.T) {
	_, err := NewClient(Config{})
	assert.ErrorIs(t, err, common.ErrMissingConfig)

	client, err := NewClient(Config{BaseURL: "https://backend.example.com"})
	require.NoError(t, err)
	assert.NotNil(t, client)
}

func TestInsertTransaction(t *testing.T) {
	var gotPath, gotPrefer, gotAPIKey, gotAuth string
	var gotPayload map[string]any

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotPrefer = r.Header.Get("Prefer")
		gotAPIKey = r.Header.Get("apikey")
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`[{"id":"remote-7","status":"PENDING"}]`))
	})

	remoteID, err := client.InsertTransaction(context.Background(), service.InsertTransactionParams{
		LenderID:   "user-1",
		BorrowerID: "friend-1",
		Amount:     decimal.NewFromInt(500),
		Note:       "rent",
		CreatedBy:  "user-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "remote-7", remoteID)

	assert.Equal(t, "/rest/v1/transactions", gotPath)
	assert.Equal(t, "return=representation", gotPrefer)
	assert.Equal(t, "test-key", gotAPIKey)
	assert.Equal(t, "Bearer test-token", gotAuth)
	assert.Equal(t, "user-1", gotPayload["lender_id"])
	assert.Equal(t, "friend-1", gotPayload["borrower_id"])
	assert.Equal(t, "PENDING", gotPayload["status"])
}

func TestUpdateTransactionStatus(t *testing.T) {
	t.Run("filters on the expected current status", func(t *testing.T) {
		var gotQuery string
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPatch, r.Method)
			gotQuery = r.URL.RawQuery
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[{"id":"remote-7","status":"ACTIVE"}]`))
		})

		err := client.UpdateTransactionStatus(context.Background(), "remote-7", model.StatusPending, model.StatusActive)
		require.NoError(t, err)
		assert.Contains(t, gotQuery, "id=eq.remote-7")
		assert.Contains(t, gotQuery, "status=eq.PENDING")
	})

	t.Run("zero matched rows is a stale row", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[]`))
		})

		err := client.UpdateTransactionStatus(context.Background(), "remote-7", model.StatusPending, model.StatusActive)
		assert.ErrorIs(t, err, common.ErrStaleRow)
	})

	t.Run("rejects impossible transitions before any call", func(t *testing.T) {
		client := newTestClient(t, func(_ http.ResponseWriter, _ *http.Request) {
			t.Fatal("no request expected")
		})

		err := client.UpdateTransactionStatus(context.Background(), "remote-7", model.StatusSettled, model.StatusActive)
		var verr *common.ValidationError
		assert.ErrorAs(t, err, &verr)
	})

	t.Run("empty remote id", func(t *testing.T) {
		client := newTestClient(t, func(_ http.ResponseWriter, _ *http.Request) {
			t.Fatal("no request expected")
		})

		err := client.UpdateTransactionStatus(context.Background(), "", model.StatusPending, model.StatusActive)
		var verr *common.ValidationError
		assert.ErrorAs(t, err, &verr)
	})
}

func TestQueryTransactions(t *testing.T) {
	t.Run("parses rows with joined party fields", func(t *testing.T) {
		var gotQuery string
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			gotQuery = r.URL.RawQuery
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[
				{
					"id": "remote-1",
					"lender_id": "user-1",
					"borrower_id": "friend-1",
					"amount": 450.50,
					"note": "trip",
					"status": "ACTIVE",
					"created_by": "user-1",
					"created_at": "2024-03-01T10:00:00Z",
					"borrower": {"full_name": "Asha", "phone": "+91111"}
				},
				{
					"id": "remote-2",
					"lender_id": "friend-2",
					"borrower_id": "user-1",
					"amount": "120",
					"status": "PENDING",
					"created_by": "friend-2",
					"created_at": "2024-02-01T10:00:00Z",
					"lender": {"full_name": "Ravi", "phone": "+92222"}
				}
			]`))
		})

		rows, err := client.QueryTransactions(context.Background(), "user-1")
		require.NoError(t, err)
		require.Len(t, rows, 2)

		assert.Contains(t, gotQuery, "or=")
		assert.Contains(t, gotQuery, "order=created_at.desc")

		assert.Equal(t, "remote-1", rows[0].ID)
		assert.True(t, rows[0].Amount.Equal(decimal.NewFromFloat(450.50)))
		assert.Equal(t, model.StatusActive, rows[0].Status)
		assert.Equal(t, "Asha", rows[0].BorrowerName)
		assert.Equal(t, "+91111", rows[0].BorrowerPhone)

		// Quoted numerics parse too.
		assert.True(t, rows[1].Amount.Equal(decimal.NewFromInt(120)))
		assert.Equal(t, "Ravi", rows[1].LenderName)
	})

	t.Run("retries transient server failures", func(t *testing.T) {
		var calls int
		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			calls++
			if calls == 1 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[]`))
		})

		rows, err := client.QueryTransactions(context.Background(), "user-1")
		require.NoError(t, err)
		assert.Empty(t, rows)
		assert.Equal(t, 2, calls)
	})

	t.Run("gives up after persistent failure", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})

		_, err := client.QueryTransactions(context.Background(), "user-1")
		assert.ErrorIs(t, err, common.ErrMaxRetries)
	})

	t.Run("empty participant id", func(t *testing.T) {
		client := newTestClient(t, func(_ http.ResponseWriter, _ *http.Request) {
			t.Fatal("no request expected")
		})

		_, err := client.QueryTransactions(context.Background(), "")
		var verr *common.ValidationError
		assert.ErrorAs(t, err, &verr)
	})
}

func TestUpsertProfile(t *testing.T) {
	var gotPrefer string
	var gotConflict string
	var gotPayload profileRow

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/profiles", r.URL.Path)
		gotPrefer = r.Header.Get("Prefer")
		gotConflict = r.URL.Query().Get("on_conflict")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
		w.WriteHeader(http.StatusCreated)
	})

	err := client.UpsertProfile(context.Background(), service.RemoteProfile{
		ID:       "user-1",
		FullName: "Asha",
		Phone:    "+91111",
		Email:    "asha@example.com",
	})
	require.NoError(t, err)

	assert.Equal(t, "resolution=merge-duplicates", gotPrefer)
	assert.Equal(t, "id", gotConflict)
	assert.Equal(t, "user-1", gotPayload.ID)
	assert.Equal(t, "Asha", gotPayload.FullName)
}

func TestDo_ClientErrorIsNotRetryable(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message":"permission denied"}`))
	})

	_, err := client.InsertTransaction(context.Background(), service.InsertTransactionParams{
		LenderID:   "user-1",
		BorrowerID: "friend-1",
		Amount:     decimal.NewFromInt(10),
	})
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrMirrorUnavailable)
	assert.False(t, common.IsRetryable(err))
}
