package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"resume-screener/internal/models"
)

type CandidateRepository interface {
	Create(ctx context.Context, rec *models.CandidateRecord) error
	FindByOwner(ctx context.Context, ownerID string, limit int) ([]models.CandidateRecord, error)
	Stats(ctx context.Context, ownerID string) (*models.CandidateStats, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, category models.Category) error
}

type candidateRepository struct {
	db *gorm.DB
}

func NewCandidateRepository(db *gorm.DB) CandidateRepository {
	return &candidateRepository{db: db}
}

// Create implements CandidateRepository.
func (r *candidateRepository) Create(ctx context.Context, rec *models.CandidateRecord) error {
	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		return fmt.Errorf("failed to create candidate record: %w", err)
	}
	return nil
}

// FindByOwner implements CandidateRepository.
func (r *candidateRepository) FindByOwner(ctx context.Context, ownerID string, limit int) ([]models.CandidateRecord, error) {
	var records []models.CandidateRecord
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find candidates: %w", err)
	}
	return records, nil
}

// Stats implements CandidateRepository.
func (r *candidateRepository) Stats(ctx context.Context, ownerID string) (*models.CandidateStats, error) {
	var rows []struct {
		Category models.Category
		Count    int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.CandidateRecord{}).
		Select("category, count(*) as count").
		Where("owner_id = ?", ownerID).
		Group("category").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count candidates: %w", err)
	}

	stats := &models.CandidateStats{}
	for _, row := range rows {
		stats.Total += row.Count
		switch row.Category {
		case models.CategorySelected:
			stats.Selected = row.Count
		case models.CategoryConsidered:
			stats.Considered = row.Count
		case models.CategoryRejected:
			stats.Rejected = row.Count
		}
	}
	return stats, nil
}

// UpdateCategory implements CandidateRepository.
func (r *candidateRepository) UpdateCategory(ctx context.Context, id uuid.UUID, category models.Category) error {
	result := r.db.WithContext(ctx).
		Model(&models.CandidateRecord{}).
		Where("id = ?", id).
		Update("category", category)

	if result.Error != nil {
		return fmt.Errorf("failed to update category: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("candidate not found")
	}
	return nil
}
