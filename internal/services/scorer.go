package services

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"go.uber.org/zap"

	"resume-screener/internal/models"
)

const maxResumeChars = 3000

// ScorerService scores one resume against a job description through the
// classifier service. It never returns an error: failures collapse to the
// fixed fallback results so the batch can keep going.
type ScorerService interface {
	Score(ctx context.Context, resumeText, jobDescription string) models.ScoreResult
}

type scorerService struct {
	gemini  GeminiService
	prompts *PromptBuilder
	timeout time.Duration
	logger  *zap.Logger
}

// NewScorerService wires a scorer with a per-call timeout. On expiry the call
// behaves like any other scoring failure instead of pinning its batch slot.
func NewScorerService(gemini GeminiService, timeout time.Duration, logger *zap.Logger) ScorerService {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &scorerService{
		gemini:  gemini,
		prompts: NewPromptBuilder(),
		timeout: timeout,
		logger:  logger,
	}
}

// Score implements ScorerService. Stateless and safe for concurrent calls.
func (s *scorerService) Score(ctx context.Context, resumeText, jobDescription string) models.ScoreResult {
	if len(resumeText) > maxResumeChars {
		resumeText = resumeText[:maxResumeChars]
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	response, err := s.gemini.Complete(callCtx,
		s.prompts.ScoringSystemPrompt(),
		s.prompts.BuildScoringPrompt(resumeText, jobDescription),
		500, 0.3)
	if err != nil {
		s.logger.Warn("resume scoring call failed", zap.Error(err))
		return models.FailedScoreResult()
	}

	var parsed struct {
		Score       float64  `json:"score"`
		Explanation string   `json:"explanation"`
		Strengths   []string `json:"strengths"`
		Weaknesses  []string `json:"weaknesses"`
	}
	if err := json.Unmarshal([]byte(extractJSON(response)), &parsed); err != nil {
		s.logger.Warn("scoring response unparseable",
			zap.Error(err),
			zap.String("response", truncateForLog(response, 500)))
		return models.UnparseableScoreResult()
	}

	result := models.ScoreResult{
		Score:       clampScore(parsed.Score),
		Explanation: parsed.Explanation,
		Strengths:   parsed.Strengths,
		Weaknesses:  parsed.Weaknesses,
	}
	if result.Explanation == "" {
		result.Explanation = "No explanation provided"
	}
	if result.Strengths == nil {
		result.Strengths = []string{}
	}
	if result.Weaknesses == nil {
		result.Weaknesses = []string{}
	}
	return result
}

func clampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 10 {
		return 10
	}
	return score
}

// extractJSON pulls a JSON object or array out of text that might wrap it in
// markdown fences or prose.
func extractJSON(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")

	startObj := strings.Index(text, "{")
	endObj := strings.LastIndex(text, "}")
	if startObj != -1 && endObj > startObj {
		return text[startObj : endObj+1]
	}

	startArr := strings.Index(text, "[")
	endArr := strings.LastIndex(text, "]")
	if startArr != -1 && endArr > startArr {
		return text[startArr : endArr+1]
	}

	return text
}

func truncateForLog(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
