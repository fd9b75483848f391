package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-screener/internal/models"
)

func seedCandidate(t *testing.T, repo CandidateRepository, ownerID string, category models.Category, score float64) *models.CandidateRecord {
	t.Helper()
	record := &models.CandidateRecord{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Name:        "Test Candidate",
		FileName:    "resume.pdf",
		Score:       score,
		Category:    category,
		Explanation: "seeded",
		Strengths:   []string{"testing"},
		Weaknesses:  []string{},
		CreatedAt:   time.Now(),
	}
	require.NoError(t, repo.Create(context.Background(), record))
	return record
}

func TestCandidateRoundTrip(t *testing.T) {
	repo := NewCandidateRepository(openTestDB(t))
	ctx := context.Background()

	seeded := seedCandidate(t, repo, "user-1", models.CategorySelected, 8.0)

	records, err := repo.FindByOwner(ctx, "user-1", 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, seeded.ID, records[0].ID)
	assert.Equal(t, []string{"testing"}, records[0].Strengths)

	records, err = repo.FindByOwner(ctx, "someone-else", 10)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestCandidateStats(t *testing.T) {
	repo := NewCandidateRepository(openTestDB(t))
	ctx := context.Background()

	seedCandidate(t, repo, "user-1", models.CategorySelected, 9.0)
	seedCandidate(t, repo, "user-1", models.CategorySelected, 7.5)
	seedCandidate(t, repo, "user-1", models.CategoryConsidered, 5.0)
	seedCandidate(t, repo, "user-1", models.CategoryRejected, 1.0)
	seedCandidate(t, repo, "other", models.CategorySelected, 8.0)

	stats, err := repo.Stats(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(4), stats.Total)
	assert.Equal(t, int64(2), stats.Selected)
	assert.Equal(t, int64(1), stats.Considered)
	assert.Equal(t, int64(1), stats.Rejected)
}

func TestUpdateCategory(t *testing.T) {
	repo := NewCandidateRepository(openTestDB(t))
	ctx := context.Background()

	seeded := seedCandidate(t, repo, "user-1", models.CategoryConsidered, 6.5)
	require.NoError(t, repo.UpdateCategory(ctx, seeded.ID, models.CategorySelected))

	records, err := repo.FindByOwner(ctx, "user-1", 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, models.CategorySelected, records[0].Category)

	assert.Error(t, repo.UpdateCategory(ctx, uuid.New(), models.CategoryRejected))
}
