package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockVisionCompleter is a mock implementation of port.VisionCompleter.
type MockVisionCompleter struct {
	mock.Mock
}

func (m *MockVisionCompleter) CompleteImage(ctx context.Context, image []byte, contentType, prompt string) (string, error) {
	args := m.Called(ctx, image, contentType, prompt)
	return args.String(0), args.Error(1)
}

// MockTextCompleter is a mock implementation of port.TextCompleter.
type MockTextCompleter struct {
	mock.Mock
}

func (m *MockTextCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}
