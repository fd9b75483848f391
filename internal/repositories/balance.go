package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"resume-screener/internal/models"
)

var ErrBalanceNotFound = errors.New("balance not found")

type BalanceRepository interface {
	// CreateIfAbsent inserts the balance unless the owner already has one.
	CreateIfAbsent(ctx context.Context, balance *models.UsageBalance) error
	Find(ctx context.Context, ownerID string) (*models.UsageBalance, error)
	// Debit atomically checks sufficiency and decrements the balance,
	// appending a usage event. Returns false without mutation when the
	// remaining balance is smaller than amount.
	Debit(ctx context.Context, ownerID string, amount int, reason string) (bool, error)
	Credit(ctx context.Context, ownerID string, amount int) error
}

type balanceRepository struct {
	db *gorm.DB
}

func NewBalanceRepository(db *gorm.DB) BalanceRepository {
	return &balanceRepository{db: db}
}

// CreateIfAbsent implements BalanceRepository.
func (r *balanceRepository) CreateIfAbsent(ctx context.Context, balance *models.UsageBalance) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(balance).Error
	if err != nil {
		return fmt.Errorf("failed to create balance: %w", err)
	}
	return nil
}

// Find implements BalanceRepository.
func (r *balanceRepository) Find(ctx context.Context, ownerID string) (*models.UsageBalance, error) {
	var balance models.UsageBalance
	err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).First(&balance).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBalanceNotFound
		}
		return nil, fmt.Errorf("failed to find balance: %w", err)
	}
	return &balance, nil
}

// Debit implements BalanceRepository. The check-then-decrement runs in one
// transaction with a row lock so concurrent debits against the same owner
// cannot both pass a stale sufficiency check.
func (r *balanceRepository) Debit(ctx context.Context, ownerID string, amount int, reason string) (bool, error) {
	debited := false

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		query := tx.Where("owner_id = ?", ownerID)
		// sqlite serializes writers on its own and rejects FOR UPDATE
		if tx.Dialector.Name() != "sqlite" {
			query = query.Clauses(clause.Locking{Strength: "UPDATE"})
		}

		var balance models.UsageBalance
		if err := query.First(&balance).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBalanceNotFound
			}
			return fmt.Errorf("failed to load balance: %w", err)
		}

		if balance.Remaining < amount {
			return nil
		}

		result := tx.Model(&models.UsageBalance{}).
			Where("owner_id = ?", ownerID).
			Updates(map[string]interface{}{
				"remaining":      balance.Remaining - amount,
				"total_consumed": balance.TotalConsumed + amount,
				"updated_at":     time.Now(),
			})
		if result.Error != nil {
			return fmt.Errorf("failed to update balance: %w", result.Error)
		}

		event := models.UsageEvent{
			ID:        uuid.New(),
			OwnerID:   ownerID,
			Amount:    amount,
			Reason:    reason,
			CreatedAt: time.Now(),
		}
		if err := tx.Create(&event).Error; err != nil {
			return fmt.Errorf("failed to record usage event: %w", err)
		}

		debited = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return debited, nil
}

// Credit implements BalanceRepository.
func (r *balanceRepository) Credit(ctx context.Context, ownerID string, amount int) error {
	result := r.db.WithContext(ctx).
		Model(&models.UsageBalance{}).
		Where("owner_id = ?", ownerID).
		Updates(map[string]interface{}{
			"remaining":  gorm.Expr("remaining + ?", amount),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to credit balance: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrBalanceNotFound
	}
	return nil
}
