package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"resume-screener/internal/models"
	"resume-screener/internal/repositories"
)

// fakeBalanceRepo is an in-memory BalanceRepository.
type fakeBalanceRepo struct {
	balances map[string]*models.UsageBalance
	events   []models.UsageEvent
}

func newFakeBalanceRepo() *fakeBalanceRepo {
	return &fakeBalanceRepo{balances: map[string]*models.UsageBalance{}}
}

func (f *fakeBalanceRepo) CreateIfAbsent(ctx context.Context, balance *models.UsageBalance) error {
	if _, ok := f.balances[balance.OwnerID]; !ok {
		copied := *balance
		f.balances[balance.OwnerID] = &copied
	}
	return nil
}

func (f *fakeBalanceRepo) Find(ctx context.Context, ownerID string) (*models.UsageBalance, error) {
	balance, ok := f.balances[ownerID]
	if !ok {
		return nil, repositories.ErrBalanceNotFound
	}
	copied := *balance
	return &copied, nil
}

func (f *fakeBalanceRepo) Debit(ctx context.Context, ownerID string, amount int, reason string) (bool, error) {
	balance, ok := f.balances[ownerID]
	if !ok {
		return false, repositories.ErrBalanceNotFound
	}
	if balance.Remaining < amount {
		return false, nil
	}
	balance.Remaining -= amount
	balance.TotalConsumed += amount
	f.events = append(f.events, models.UsageEvent{OwnerID: ownerID, Amount: amount, Reason: reason})
	return true, nil
}

func (f *fakeBalanceRepo) Credit(ctx context.Context, ownerID string, amount int) error {
	balance, ok := f.balances[ownerID]
	if !ok {
		return repositories.ErrBalanceNotFound
	}
	balance.Remaining += amount
	return nil
}

func TestGetBalanceAutoInitializes(t *testing.T) {
	ledger := NewLedgerService(newFakeBalanceRepo(), 100, zap.NewNop())

	balance, err := ledger.GetBalance(context.Background(), "fresh-user")
	require.NoError(t, err)
	assert.Equal(t, 100, balance.Remaining)
	assert.Equal(t, 0, balance.TotalConsumed)
}

func TestEnsureInitializedKeepsExistingBalance(t *testing.T) {
	repo := newFakeBalanceRepo()
	ledger := NewLedgerService(repo, 100, zap.NewNop())
	ctx := context.Background()

	_, err := ledger.Credit(ctx, "user-1", 50) // initializes to 100, credits 50
	require.NoError(t, err)

	require.NoError(t, ledger.EnsureInitialized(ctx, "user-1"))

	balance, err := ledger.GetBalance(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 150, balance.Remaining)
}

func TestLedgerDebit(t *testing.T) {
	repo := newFakeBalanceRepo()
	ledger := NewLedgerService(repo, 10, zap.NewNop())
	ctx := context.Background()

	debited, err := ledger.Debit(ctx, "user-1", 4, "resume_screening")
	require.NoError(t, err)
	assert.True(t, debited)

	debited, err = ledger.Debit(ctx, "user-1", 7, "resume_screening")
	require.NoError(t, err)
	assert.False(t, debited)

	balance, err := ledger.GetBalance(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 6, balance.Remaining)
	assert.Equal(t, 4, balance.TotalConsumed)
	require.Len(t, repo.events, 1)
	assert.Equal(t, "resume_screening", repo.events[0].Reason)
}
