package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"tripdesk/internal/service"
	"tripdesk/mocks"
)

func TestAnswer_IncludesSnapshotInPrompt(t *testing.T) {
	snapshot := `{"receipts": [{"ReceiptID": "202401011200", "TotalAmount": "320"}]}`

	ledger := new(mocks.MockLedger)
	text := new(mocks.MockTextCompleter)
	ledger.On("Snapshot", mock.Anything, "user-1").Return(snapshot, nil)
	text.On("Complete", mock.Anything, mock.MatchedBy(func(prompt string) bool {
		return strings.Contains(prompt, snapshot) && strings.Contains(prompt, "我一月花了多少錢？")
	})).Return("你一月總共花了 320 元。", nil)

	svc := service.NewChatService(ledger, text)
	answer, err := svc.Answer(context.Background(), "user-1", "我一月花了多少錢？")

	require.NoError(t, err)
	assert.Equal(t, "你一月總共花了 320 元。", answer)
}

func TestAnswer_SnapshotFailureFallsBackToEmpty(t *testing.T) {
	ledger := new(mocks.MockLedger)
	text := new(mocks.MockTextCompleter)
	ledger.On("Snapshot", mock.Anything, "user-1").Return("", errors.New("sheet unreachable"))
	text.On("Complete", mock.Anything, mock.MatchedBy(func(prompt string) bool {
		return strings.Contains(prompt, "{}")
	})).Return("目前沒有任何紀錄。", nil)

	svc := service.NewChatService(ledger, text)
	answer, err := svc.Answer(context.Background(), "user-1", "我花了多少錢？")

	require.NoError(t, err)
	assert.Equal(t, "目前沒有任何紀錄。", answer)
}

func TestAnswer_CompleterFailure(t *testing.T) {
	ledger := new(mocks.MockLedger)
	text := new(mocks.MockTextCompleter)
	ledger.On("Snapshot", mock.Anything, "user-1").Return("{}", nil)
	text.On("Complete", mock.Anything, mock.Anything).Return("", errors.New("deployment offline"))

	svc := service.NewChatService(ledger, text)
	_, err := svc.Answer(context.Background(), "user-1", "hi")
	assert.Error(t, err)
}

func TestClear_DelegatesToLedger(t *testing.T) {
	ledger := new(mocks.MockLedger)
	text := new(mocks.MockTextCompleter)
	ledger.On("Clear", mock.Anything, "user-1").Return(nil)

	svc := service.NewChatService(ledger, text)
	require.NoError(t, svc.Clear(context.Background(), "user-1"))
	ledger.AssertExpectations(t)
}

func TestClear_PropagatesFailure(t *testing.T) {
	ledger := new(mocks.MockLedger)
	text := new(mocks.MockTextCompleter)
	ledger.On("Clear", mock.Anything, "user-1").Return(errors.New("sheet unreachable"))

	svc := service.NewChatService(ledger, text)
	assert.Error(t, svc.Clear(context.Background(), "user-1"))
}
