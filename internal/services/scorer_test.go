package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"resume-screener/internal/models"
)

func TestScoreParsesWellFormedResponse(t *testing.T) {
	gemini := &fakeGemini{
		response: `{"score": 8.5, "explanation": "Strong backend background", "strengths": ["Go", "Postgres"], "weaknesses": ["No cloud experience"]}`,
	}
	scorer := NewScorerService(gemini, time.Minute, zap.NewNop())

	result := scorer.Score(context.Background(), "resume text", "job description")

	assert.Equal(t, 8.5, result.Score)
	assert.Equal(t, "Strong backend background", result.Explanation)
	assert.Equal(t, []string{"Go", "Postgres"}, result.Strengths)
	assert.Equal(t, []string{"No cloud experience"}, result.Weaknesses)
}

func TestScoreHandlesFencedResponse(t *testing.T) {
	gemini := &fakeGemini{
		response: "Here is my assessment:\n```json\n{\"score\": 6.0, \"explanation\": \"Partial match\"}\n```",
	}
	scorer := NewScorerService(gemini, time.Minute, zap.NewNop())

	result := scorer.Score(context.Background(), "resume text", "job description")

	assert.Equal(t, 6.0, result.Score)
	assert.Equal(t, "Partial match", result.Explanation)
	assert.Equal(t, []string{}, result.Strengths)
	assert.Equal(t, []string{}, result.Weaknesses)
}

func TestScoreMalformedResponseFallsBack(t *testing.T) {
	gemini := &fakeGemini{response: "I cannot produce JSON today"}
	scorer := NewScorerService(gemini, time.Minute, zap.NewNop())

	result := scorer.Score(context.Background(), "resume text", "job description")

	assert.Equal(t, models.UnparseableScoreResult(), result)
	assert.Equal(t, models.CategoryConsidered, models.Categorize(result.Score))
}

func TestScoreCallErrorFallsBack(t *testing.T) {
	gemini := &fakeGemini{err: errors.New("upstream unavailable")}
	scorer := NewScorerService(gemini, time.Minute, zap.NewNop())

	result := scorer.Score(context.Background(), "resume text", "job description")

	assert.Equal(t, models.FailedScoreResult(), result)
	assert.Equal(t, models.CategoryRejected, models.Categorize(result.Score))
}

func TestScoreTimeoutFallsBack(t *testing.T) {
	gemini := &fakeGemini{
		response: `{"score": 9.0}`,
		delay:    200 * time.Millisecond,
	}
	scorer := NewScorerService(gemini, 20*time.Millisecond, zap.NewNop())

	result := scorer.Score(context.Background(), "resume text", "job description")

	assert.Equal(t, models.FailedScoreResult(), result)
}

func TestScoreClampsOutOfRangeScores(t *testing.T) {
	gemini := &fakeGemini{response: `{"score": 42.0, "explanation": "overly enthusiastic"}`}
	scorer := NewScorerService(gemini, time.Minute, zap.NewNop())

	result := scorer.Score(context.Background(), "resume text", "job description")
	assert.Equal(t, 10.0, result.Score)

	gemini.response = `{"score": -3.0, "explanation": "overly harsh"}`
	result = scorer.Score(context.Background(), "resume text", "job description")
	assert.Equal(t, 0.0, result.Score)
}

func TestExtractJSON(t *testing.T) {
	assert.Equal(t, `{"a":1}`, extractJSON("prefix {\"a\":1} suffix"))
	assert.Equal(t, `{"a":1}`, extractJSON("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `[1,2]`, extractJSON("list: [1,2]"))
	assert.Equal(t, "no json here", extractJSON("no json here"))
}
