package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"resume-screener/internal/models"
	"resume-screener/internal/repositories"
)

var (
	ErrNoJobDescription     = errors.New("job description is required")
	ErrInsufficientTokens   = errors.New("insufficient tokens for this batch")
	errBatchContextCanceled = errors.New("batch context canceled")
)

// ScreenerService runs the full intake pipeline over a batch of resumes:
// extract, validate, archive, score, categorize. Every submitted document
// yields exactly one record; per-document failures degrade to a rejected
// fallback record instead of failing the batch.
type ScreenerService interface {
	ProcessBatch(ctx context.Context, docs []models.RawDocument, jobDescription, ownerID string) (*models.BatchResult, error)
}

type screenerService struct {
	extractor   ExtractorService
	scorer      ScorerService
	ledger      UsageLedger
	store       ObjectStore
	candidates  repositories.CandidateRepository
	index       CandidateIndex
	concurrency int
	logger      *zap.Logger
}

type ScreenerDeps struct {
	Extractor  ExtractorService
	Scorer     ScorerService
	Ledger     UsageLedger
	Store      ObjectStore                      // optional
	Candidates repositories.CandidateRepository // optional
	Index      CandidateIndex                   // optional
}

func NewScreenerService(deps ScreenerDeps, concurrency int, logger *zap.Logger) ScreenerService {
	if concurrency <= 0 {
		concurrency = 5
	}
	return &screenerService{
		extractor:   deps.Extractor,
		scorer:      deps.Scorer,
		ledger:      deps.Ledger,
		store:       deps.Store,
		candidates:  deps.Candidates,
		index:       deps.Index,
		concurrency: concurrency,
		logger:      logger,
	}
}

// ProcessBatch implements ScreenerService. The token preflight is a fast
// check before any work starts; the actual debit happens once at the end, one
// token per submitted resume.
func (s *screenerService) ProcessBatch(ctx context.Context, docs []models.RawDocument, jobDescription, ownerID string) (*models.BatchResult, error) {
	if strings.TrimSpace(jobDescription) == "" {
		return nil, ErrNoJobDescription
	}
	if len(docs) == 0 {
		return s.assemble(nil, 0), nil
	}

	if ownerID != "" {
		balance, err := s.ledger.GetBalance(ctx, ownerID)
		if err != nil {
			return nil, err
		}
		if balance.Remaining < len(docs) {
			return nil, ErrInsufficientTokens
		}
	}

	s.logger.Info("processing resume batch",
		zap.Int("count", len(docs)),
		zap.String("owner_id", ownerID))

	records := make([]models.CandidateRecord, len(docs))
	sem := make(chan struct{}, s.concurrency)
	var wg sync.WaitGroup

	for i, doc := range docs {
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			records[i] = models.FallbackRecord(i, doc.Filename, errBatchContextCanceled.Error())
			continue
		}

		wg.Add(1)
		go func(index int, doc models.RawDocument) {
			defer wg.Done()
			defer func() { <-sem }()
			records[index] = s.processDocument(ctx, index, doc, jobDescription, ownerID)
		}(i, doc)
	}
	wg.Wait()

	tokensUsed := 0
	if ownerID != "" {
		debited, err := s.ledger.Debit(ctx, ownerID, len(docs), "resume_screening")
		switch {
		case err != nil:
			s.logger.Error("token debit failed after processing", zap.Error(err))
		case !debited:
			s.logger.Warn("token balance changed mid-batch, debit skipped",
				zap.String("owner_id", ownerID))
		default:
			tokensUsed = len(docs)
		}
	}

	return s.assemble(records, tokensUsed), nil
}

// processDocument runs one resume through the pipeline. A panic anywhere in
// the chain collapses to a fallback record so one bad file cannot take down
// its batch.
func (s *screenerService) processDocument(ctx context.Context, index int, doc models.RawDocument, jobDescription, ownerID string) (record models.CandidateRecord) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("resume processing panicked",
				zap.String("filename", doc.Filename),
				zap.Any("cause", r))
			record = models.FallbackRecord(index, doc.Filename, "unexpected processing failure")
		}
	}()

	text, fields := s.extractor.Extract(ctx, doc)
	fields = ValidateFields(fields)

	storageURL := ""
	if s.store != nil && ownerID != "" {
		url, err := s.store.Put(ctx, doc.Content, ownerID, doc.Filename)
		if err != nil {
			s.logger.Warn("resume archive failed",
				zap.String("filename", doc.Filename),
				zap.Error(err))
		} else {
			storageURL = url
		}
	}

	result := s.scorer.Score(ctx, text, jobDescription)
	category := models.Categorize(result.Score)

	record = models.CandidateRecord{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		BatchIndex:  index,
		Name:        fields.Name,
		Email:       fields.Email,
		Phone:       fields.Phone,
		StorageURL:  storageURL,
		FileName:    doc.Filename,
		Score:       result.Score,
		Category:    category,
		Explanation: result.Explanation,
		Strengths:   result.Strengths,
		Weaknesses:  result.Weaknesses,
		Content:     text,
		CreatedAt:   time.Now(),
	}

	if s.candidates != nil && ownerID != "" {
		if err := s.candidates.Create(ctx, &record); err != nil {
			s.logger.Warn("candidate persist failed",
				zap.String("filename", doc.Filename),
				zap.Error(err))
		}
	}

	if s.index != nil && ownerID != "" {
		if err := s.index.IndexCandidate(ctx, &record); err != nil {
			s.logger.Warn("candidate indexing failed",
				zap.String("filename", doc.Filename),
				zap.Error(err))
		}
	}

	return record
}

// assemble groups records into their categories preserving submission order.
func (s *screenerService) assemble(records []models.CandidateRecord, tokensUsed int) *models.BatchResult {
	result := &models.BatchResult{
		Selected:   []models.CandidateRecord{},
		Considered: []models.CandidateRecord{},
		Rejected:   []models.CandidateRecord{},
	}

	for _, record := range records {
		switch record.Category {
		case models.CategorySelected:
			result.Selected = append(result.Selected, record)
		case models.CategoryConsidered:
			result.Considered = append(result.Considered, record)
		default:
			result.Rejected = append(result.Rejected, record)
		}
	}

	result.Metadata = models.BatchMetadata{
		TotalSubmitted:  len(records),
		SelectedCount:   len(result.Selected),
		ConsideredCount: len(result.Considered),
		RejectedCount:   len(result.Rejected),
		TokensUsed:      tokensUsed,
		ProcessedAt:     time.Now(),
	}
	return result
}
