package mirror

import (
	"context"

	"github.com/udhaarapp/udhaar/internal/model"
	"github.com/udhaarapp/udhaar/internal/service"
)

// Mock is a mock implementation of service.Mirror for testing.
type Mock struct {
	// Functions that can be set by tests to control behavior
	InsertTransactionFn       func(ctx context.Context, params service.InsertTransactionParams) (string, error)
	UpdateTransactionStatusFn func(ctx context.Context, remoteID string, from, to model.LoanStatus) error
	QueryTransactionsFn       func(ctx context.Context, participantID string) ([]service.RemoteTransaction, error)
	UpsertProfileFn           func(ctx context.Context, profile service.RemoteProfile) error

	// Call tracking
	InsertCalls []service.InsertTransactionParams
	UpdateCalls []UpdateCall
	QueryCalls  []string
	UpsertCalls []service.RemoteProfile
}

// UpdateCall records the parameters of an UpdateTransactionStatus call.
type UpdateCall struct {
	RemoteID string
	From     model.LoanStatus
	To       model.LoanStatus
}

// NewMock creates a new mock mirror.
func NewMock() *Mock {
	return &Mock{}
}

// InsertTransaction implements service.Mirror.
func (m *Mock) InsertTransaction(ctx context.Context, params service.InsertTransactionParams) (string, error) {
	m.InsertCalls = append(m.InsertCalls, params)

	if m.InsertTransactionFn != nil {
		return m.InsertTransactionFn(ctx, params)
	}
	return "remote-1", nil
}

// UpdateTransactionStatus implements service.Mirror.
func (m *Mock) UpdateTransactionStatus(ctx context.Context, remoteID string, from, to model.LoanStatus) error {
	m.UpdateCalls = append(m.UpdateCalls, UpdateCall{RemoteID: remoteID, From: from, To: to})

	if m.UpdateTransactionStatusFn != nil {
		return m.UpdateTransactionStatusFn(ctx, remoteID, from, to)
	}
	return nil
}

// QueryTransactions implements service.Mirror.
func (m *Mock) QueryTransactions(ctx context.Context, participantID string) ([]service.RemoteTransaction, error) {
	m.QueryCalls = append(m.QueryCalls, participantID)

	if m.QueryTransactionsFn != nil {
		return m.QueryTransactionsFn(ctx, participantID)
	}
	return []service.RemoteTransaction{}, nil
}

// UpsertProfile implements service.Mirror.
func (m *Mock) UpsertProfile(ctx context.Context, profile service.RemoteProfile) error {
	m.UpsertCalls = append(m.UpsertCalls, profile)

	if m.UpsertProfileFn != nil {
		return m.UpsertProfileFn(ctx, profile)
	}
	return nil
}
