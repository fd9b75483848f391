package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"resume-screener/internal/models"
	"resume-screener/internal/repositories"
)

// UsageLedger tracks the consumable screening-token balance per owner.
type UsageLedger interface {
	// EnsureInitialized creates the balance with the initial grant if the
	// owner has none. Idempotent.
	EnsureInitialized(ctx context.Context, ownerID string) error
	// GetBalance auto-initializes on first access; it never reports "not
	// found" for a valid owner id.
	GetBalance(ctx context.Context, ownerID string) (*models.UsageBalance, error)
	Debit(ctx context.Context, ownerID string, amount int, reason string) (bool, error)
	Credit(ctx context.Context, ownerID string, amount int) (*models.UsageBalance, error)
}

type ledgerService struct {
	balances     repositories.BalanceRepository
	initialGrant int
	logger       *zap.Logger
}

func NewLedgerService(balances repositories.BalanceRepository, initialGrant int, logger *zap.Logger) UsageLedger {
	if initialGrant <= 0 {
		initialGrant = 100
	}
	return &ledgerService{
		balances:     balances,
		initialGrant: initialGrant,
		logger:       logger,
	}
}

// EnsureInitialized implements UsageLedger.
func (l *ledgerService) EnsureInitialized(ctx context.Context, ownerID string) error {
	now := time.Now()
	balance := &models.UsageBalance{
		OwnerID:       ownerID,
		Remaining:     l.initialGrant,
		TotalConsumed: 0,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := l.balances.CreateIfAbsent(ctx, balance); err != nil {
		return fmt.Errorf("failed to initialize balance for %s: %w", ownerID, err)
	}
	return nil
}

// GetBalance implements UsageLedger.
func (l *ledgerService) GetBalance(ctx context.Context, ownerID string) (*models.UsageBalance, error) {
	balance, err := l.balances.Find(ctx, ownerID)
	if err == nil {
		return balance, nil
	}
	if !errors.Is(err, repositories.ErrBalanceNotFound) {
		return nil, err
	}

	if err := l.EnsureInitialized(ctx, ownerID); err != nil {
		return nil, err
	}
	return l.balances.Find(ctx, ownerID)
}

// Debit implements UsageLedger.
func (l *ledgerService) Debit(ctx context.Context, ownerID string, amount int, reason string) (bool, error) {
	if err := l.EnsureInitialized(ctx, ownerID); err != nil {
		return false, err
	}

	debited, err := l.balances.Debit(ctx, ownerID, amount, reason)
	if err != nil {
		return false, err
	}
	if debited {
		l.logger.Info("tokens debited",
			zap.String("owner_id", ownerID),
			zap.Int("amount", amount),
			zap.String("reason", reason))
	}
	return debited, nil
}

// Credit implements UsageLedger.
func (l *ledgerService) Credit(ctx context.Context, ownerID string, amount int) (*models.UsageBalance, error) {
	if err := l.EnsureInitialized(ctx, ownerID); err != nil {
		return nil, err
	}
	if err := l.balances.Credit(ctx, ownerID, amount); err != nil {
		return nil, err
	}
	return l.balances.Find(ctx, ownerID)
}
