package models

import (
	"time"

	"github.com/google/uuid"
)

// UsageBalance tracks the consumable token balance for one owner. Screening
// costs one token per submitted resume.
type UsageBalance struct {
	OwnerID       string    `gorm:"type:text;primary_key" json:"user_id"`
	Remaining     int       `gorm:"not null" json:"tokens"`
	TotalConsumed int       `gorm:"not null" json:"total_used"`
	CreatedAt     time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (UsageBalance) TableName() string {
	return "usage_balances"
}

// UsageEvent is an immutable record of one successful debit.
type UsageEvent struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	OwnerID   string    `gorm:"type:text;index" json:"user_id"`
	Amount    int       `gorm:"not null" json:"amount"`
	Reason    string    `gorm:"type:text" json:"reason"`
	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (UsageEvent) TableName() string {
	return "usage_events"
}
