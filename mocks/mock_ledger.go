package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"tripdesk/internal/domain"
)

// MockLedger is a mock implementation of port.Ledger.
type MockLedger struct {
	mock.Mock
}

func (m *MockLedger) Exists(ctx context.Context, userID string, variant domain.Variant, identifier string) (bool, error) {
	args := m.Called(ctx, userID, variant, identifier)
	return args.Bool(0), args.Error(1)
}

func (m *MockLedger) Append(ctx context.Context, rec *domain.LedgerRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockLedger) Snapshot(ctx context.Context, userID string) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

func (m *MockLedger) Clear(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}
