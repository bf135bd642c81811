// Package mirror implements the client for the remote transaction mirror:
// a hosted PostgREST-style table of two-party loan rows that acts as the
// shared source of truth for synced loans.
package mirror

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"github.com/udhaarapp/udhaar/internal/common"
	"github.com/udhaarapp/udhaar/internal/model"
	"github.com/udhaarapp/udhaar/internal/service"
)

// Client talks to the hosted backend's REST interface. It implements the
// service.Mirror contract.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	authToken  string
	retryOpts  service.RetryOptions
}

// Config carries the connection settings for the remote backend.
type Config struct {
	BaseURL   string
	APIKey    string
	AuthToken string
}

// NewClient creates a mirror client for the given backend.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("%w: mirror base URL", common.ErrMissingConfig)
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("%w: mirror base URL: %v", common.ErrInvalidConfig, err)
	}

	return &Client{
		baseURL:   cfg.BaseURL,
		apiKey:    cfg.APIKey,
		authToken: cfg.AuthToken,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		retryOpts: service.RetryOptions{
			MaxAttempts:  3,
			InitialDelay: 200 * time.Millisecond,
			MaxDelay:     2 * time.Second,
		},
	}, nil
}

// Wire representation of a transactions row, with counterparty display
// fields joined in by the query.
type transactionRow struct {
	ID         string          `json:"id"`
	LenderID   string          `json:"lender_id"`
	BorrowerID string          `json:"borrower_id"`
	Amount     decimal.Decimal `json:"amount"`
	Note       string          `json:"note"`
	Status     string          `json:"status"`
	CreatedBy  string          `json:"created_by"`
	CreatedAt  time.Time       `json:"created_at"`
	Lender     *partyRow       `json:"lender,omitempty"`
	Borrower   *partyRow       `json:"borrower,omitempty"`
}

type partyRow struct {
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
}

type profileRow struct {
	ID        string `json:"id"`
	FullName  string `json:"full_name"`
	Phone     string `json:"phone"`
	Email     string `json:"email,omitempty"`
	UpdatedAt string `json:"updated_at"`
}

// InsertTransaction creates a PENDING row and returns its remote id.
func (c *Client) InsertTransaction(ctx context.Context, params service.InsertTransactionParams) (string, error) {
	payload := map[string]any{
		"lender_id":   params.LenderID,
		"borrower_id": params.BorrowerID,
		"amount":      params.Amount,
		"note":        params.Note,
		"status":      string(model.StatusPending),
		"created_by":  params.CreatedBy,
	}

	var rows []transactionRow
	if err := c.do(ctx, http.MethodPost, "transactions", "", payload, "return=representation", &rows); err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return "", fmt.Errorf("insert returned no row")
	}

	slog.Debug("Inserted remote transaction", "remote_id", rows[0].ID)
	return rows[0].ID, nil
}

// UpdateTransactionStatus transitions a row from one status to another. The
// expected current status is part of the filter, so a row the other party
// already transitioned matches nothing and surfaces as a stale-row error.
func (c *Client) UpdateTransactionStatus(ctx context.Context, remoteID string, from, to model.LoanStatus) error {
	if remoteID == "" {
		return common.NewValidationError("remoteId", "must not be empty")
	}
	if !from.CanTransition(to) {
		return common.NewValidationError("status", fmt.Sprintf("cannot transition %s to %s", from, to))
	}

	query := url.Values{}
	query.Set("id", "eq."+remoteID)
	query.Set("status", "eq."+string(from))

	payload := map[string]any{"status": string(to)}

	var rows []transactionRow
	if err := c.do(ctx, http.MethodPatch, "transactions", query.Encode(), payload, "return=representation", &rows); err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("%w: %s is not %s", common.ErrStaleRow, remoteID, from)
	}

	slog.Debug("Updated remote transaction status",
		"remote_id", remoteID,
		"from", from,
		"to", to)
	return nil
}

// QueryTransactions returns every row where the participant is lender or
// borrower, newest first. The read is idempotent so transient failures are
// retried before giving up.
func (c *Client) QueryTransactions(ctx context.Context, participantID string) ([]service.RemoteTransaction, error) {
	if participantID == "" {
		return nil, common.NewValidationError("participantId", "must not be empty")
	}

	query := url.Values{}
	query.Set("select", "*,lender:lender_id(full_name,phone),borrower:borrower_id(full_name,phone)")
	query.Set("or", fmt.Sprintf("(lender_id.eq.%s,borrower_id.eq.%s)", participantID, participantID))
	query.Set("order", "created_at.desc")

	var rows []transactionRow
	err := common.WithRetry(ctx, func() error {
		rows = nil
		return c.do(ctx, http.MethodGet, "transactions", query.Encode(), nil, "", &rows)
	}, c.retryOpts)
	if err != nil {
		return nil, err
	}

	out := make([]service.RemoteTransaction, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toRemote())
	}
	return out, nil
}

// UpsertProfile mirrors the local profile to the backend profiles table.
func (c *Client) UpsertProfile(ctx context.Context, profile service.RemoteProfile) error {
	if profile.ID == "" {
		return common.NewValidationError("profile id", "must not be empty")
	}

	payload := profileRow{
		ID:        profile.ID,
		FullName:  profile.FullName,
		Phone:     profile.Phone,
		Email:     profile.Email,
		UpdatedAt: time.Now().UTC().Format(time.RFC3339),
	}

	// on_conflict names the constraint the merge resolves against, so a
	// repeat upsert updates the existing row instead of failing on the
	// primary key.
	query := url.Values{}
	query.Set("on_conflict", "id")

	return c.do(ctx, http.MethodPost, "profiles", query.Encode(), payload, "resolution=merge-duplicates", nil)
}

func (r *transactionRow) toRemote() service.RemoteTransaction {
	remote := service.RemoteTransaction{
		ID:         r.ID,
		LenderID:   r.LenderID,
		BorrowerID: r.BorrowerID,
		Note:       r.Note,
		Status:     model.LoanStatus(r.Status),
		CreatedBy:  r.CreatedBy,
		CreatedAt:  r.CreatedAt,
		Amount:     r.Amount,
	}
	if r.Lender != nil {
		remote.LenderName = r.Lender.FullName
		remote.LenderPhone = r.Lender.Phone
	}
	if r.Borrower != nil {
		remote.BorrowerName = r.Borrower.FullName
		remote.BorrowerPhone = r.Borrower.Phone
	}
	return remote
}

// do performs one REST call against the backend table API and decodes the
// response into out when non-nil.
func (c *Client) do(ctx context.Context, method, table, rawQuery string, payload any, prefer string, out any) error {
	endpoint := fmt.Sprintf("%s/rest/v1/%s", c.baseURL, table)
	if rawQuery != "" {
		endpoint += "?" + rawQuery
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("apikey", c.apiKey)
	}
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}
	if prefer != "" {
		req.Header.Set("Prefer", prefer)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrMirrorUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusInternalServerError {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: %d - %s", common.ErrMirrorUnavailable, resp.StatusCode, string(respBody))
	}
	if resp.StatusCode >= http.StatusBadRequest {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("mirror rejected %s %s: %d - %s", method, table, resp.StatusCode, string(respBody))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
