package dedupe_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"tripdesk/internal/dedupe"
	"tripdesk/internal/domain"
	"tripdesk/mocks"
)

func receiptDoc(id string) *domain.ExtractedDocument {
	record := domain.Fields{"PurchaseStore": "全聯"}
	if id != "" {
		record["ReceiptID"] = id
	}
	return &domain.ExtractedDocument{
		Variant: domain.VariantReceipt,
		Record:  record,
		Items:   []domain.Fields{},
	}
}

func TestStoreOnce_NewIdentifierStores(t *testing.T) {
	ledger := new(mocks.MockLedger)
	ledger.On("Exists", mock.Anything, "user-1", domain.VariantReceipt, "202401011200").Return(false, nil)
	ledger.On("Append", mock.Anything, mock.MatchedBy(func(rec *domain.LedgerRecord) bool {
		return rec.UserID == "user-1" && rec.Identifier == "202401011200"
	})).Return(nil)

	gate := dedupe.NewGate(ledger)
	stored, err := gate.StoreOnce(context.Background(), "user-1", receiptDoc("202401011200"))

	require.NoError(t, err)
	assert.True(t, stored)
	ledger.AssertExpectations(t)
}

func TestStoreOnce_DuplicateIdentifierSkipsAppend(t *testing.T) {
	ledger := new(mocks.MockLedger)
	ledger.On("Exists", mock.Anything, "user-1", domain.VariantReceipt, "202401011200").Return(true, nil)

	gate := dedupe.NewGate(ledger)
	stored, err := gate.StoreOnce(context.Background(), "user-1", receiptDoc("202401011200"))

	require.NoError(t, err)
	assert.False(t, stored)
	ledger.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}

func TestStoreOnce_EmptyIdentifierAlwaysStores(t *testing.T) {
	ledger := new(mocks.MockLedger)
	ledger.On("Append", mock.Anything, mock.Anything).Return(nil)

	gate := dedupe.NewGate(ledger)
	stored, err := gate.StoreOnce(context.Background(), "user-1", receiptDoc(""))

	require.NoError(t, err)
	assert.True(t, stored)
	ledger.AssertNotCalled(t, "Exists", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestStoreOnce_ExistsFailureAssumesNew(t *testing.T) {
	ledger := new(mocks.MockLedger)
	ledger.On("Exists", mock.Anything, "user-1", domain.VariantReceipt, "202401011200").
		Return(false, errors.New("sheet unreachable"))
	ledger.On("Append", mock.Anything, mock.Anything).Return(nil)

	gate := dedupe.NewGate(ledger)
	stored, err := gate.StoreOnce(context.Background(), "user-1", receiptDoc("202401011200"))

	require.NoError(t, err)
	assert.True(t, stored)
	ledger.AssertExpectations(t)
}

func TestStoreOnce_AppendFailurePropagates(t *testing.T) {
	ledger := new(mocks.MockLedger)
	ledger.On("Exists", mock.Anything, "user-1", domain.VariantReceipt, "202401011200").Return(false, nil)
	ledger.On("Append", mock.Anything, mock.Anything).Return(errors.New("quota exceeded"))

	gate := dedupe.NewGate(ledger)
	stored, err := gate.StoreOnce(context.Background(), "user-1", receiptDoc("202401011200"))

	assert.Error(t, err)
	assert.False(t, stored)
}

// countingLedger is an in-memory ledger whose Exists only sees rows already
// appended, so an unserialized check-then-store would double-write.
type countingLedger struct {
	mu   sync.Mutex
	rows map[string]int
}

func (l *countingLedger) Exists(_ context.Context, userID string, _ domain.Variant, identifier string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rows[userID+"/"+identifier] > 0, nil
}

func (l *countingLedger) Append(_ context.Context, rec *domain.LedgerRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rows[rec.UserID+"/"+rec.Identifier]++
	return nil
}

func (l *countingLedger) Snapshot(context.Context, string) (string, error) { return "{}", nil }
func (l *countingLedger) Clear(context.Context, string) error             { return nil }

func TestStoreOnce_ConcurrentSubmissionsStoreOnce(t *testing.T) {
	ledger := &countingLedger{rows: map[string]int{}}
	gate := dedupe.NewGate(ledger)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := gate.StoreOnce(context.Background(), "user-1", receiptDoc("202401011200"))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, ledger.rows["user-1/202401011200"])
}

func TestStoreOnce_DistinctUsersDoNotCollide(t *testing.T) {
	ledger := &countingLedger{rows: map[string]int{}}
	gate := dedupe.NewGate(ledger)

	for _, user := range []string{"user-1", "user-2"} {
		stored, err := gate.StoreOnce(context.Background(), user, receiptDoc("202401011200"))
		require.NoError(t, err)
		assert.True(t, stored)
	}
}
