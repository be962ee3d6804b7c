package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"
)

// MockImageArchive is a mock implementation of port.ImageArchive.
type MockImageArchive struct {
	mock.Mock
}

func (m *MockImageArchive) Archive(ctx context.Context, key string, body io.Reader, contentType string) error {
	args := m.Called(ctx, key, body, contentType)
	return args.Error(0)
}
