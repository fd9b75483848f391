package services

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/qdrant/go-client/qdrant"
	"go.uber.org/zap"

	"resume-screener/internal/models"
)

// CandidateIndex keeps a vector index of processed resumes so past candidates
// can be searched by free-text similarity.
type CandidateIndex interface {
	EnsureCollection(ctx context.Context) error
	IndexCandidate(ctx context.Context, record *models.CandidateRecord) error
	Search(ctx context.Context, ownerID, query string, limit int) ([]CandidateMatch, error)
}

type CandidateMatch struct {
	CandidateID string  `json:"candidate_id"`
	Name        string  `json:"name"`
	Score       float32 `json:"score"`
}

type candidateIndex struct {
	client         *qdrant.Client
	gemini         GeminiService
	collectionName string
	vectorSize     uint64
	logger         *zap.Logger
}

func NewCandidateIndex(urlStr, apiKey, collectionName string, gemini GeminiService, logger *zap.Logger) (CandidateIndex, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid qdrant url: %w", err)
	}

	host := parsed.Hostname()
	useTLS := parsed.Scheme == "https"

	// gRPC port, not the REST one
	port := 6334
	if p := parsed.Port(); p != "" {
		if v, err := strconv.Atoi(p); err == nil {
			port = v
		}
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: apiKey,
		UseTLS: useTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	return &candidateIndex{
		client:         client,
		gemini:         gemini,
		collectionName: collectionName,
		vectorSize:     768,
		logger:         logger,
	}, nil
}

// EnsureCollection implements CandidateIndex.
func (c *candidateIndex) EnsureCollection(ctx context.Context) error {
	exists, err := c.client.CollectionExists(ctx, c.collectionName)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}
	if exists {
		return nil
	}

	err = c.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: c.collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     c.vectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	c.logger.Info("qdrant collection created", zap.String("collection", c.collectionName))
	return nil
}

// IndexCandidate implements CandidateIndex.
func (c *candidateIndex) IndexCandidate(ctx context.Context, record *models.CandidateRecord) error {
	if record.Content == "" {
		return nil
	}

	embedding, err := c.gemini.GenerateEmbedding(ctx, record.Content)
	if err != nil {
		return fmt.Errorf("failed to embed resume: %w", err)
	}

	point := &qdrant.PointStruct{
		Id:      qdrant.NewIDNum(uint64(record.ID.ID())),
		Vectors: qdrant.NewVectors(embedding...),
		Payload: qdrant.NewValueMap(map[string]interface{}{
			"candidate_id": record.ID.String(),
			"owner_id":     record.OwnerID,
			"name":         record.Name,
		}),
	}

	_, err = c.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: c.collectionName,
		Points:         []*qdrant.PointStruct{point},
	})
	if err != nil {
		return fmt.Errorf("failed to upsert point: %w", err)
	}
	return nil
}

// Search implements CandidateIndex.
func (c *candidateIndex) Search(ctx context.Context, ownerID, query string, limit int) ([]CandidateMatch, error) {
	embedding, err := c.gemini.GenerateEmbedding(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	var filter *qdrant.Filter
	if ownerID != "" {
		filter = &qdrant.Filter{
			Must: []*qdrant.Condition{
				qdrant.NewMatch("owner_id", ownerID),
			},
		}
	}

	points, err := c.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: c.collectionName,
		Query:          qdrant.NewQuery(embedding...),
		Filter:         filter,
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	matches := make([]CandidateMatch, 0, len(points))
	for _, point := range points {
		match := CandidateMatch{Score: point.Score}
		if id, ok := point.Payload["candidate_id"]; ok {
			if val, ok := id.GetKind().(*qdrant.Value_StringValue); ok {
				match.CandidateID = val.StringValue
			}
		}
		if name, ok := point.Payload["name"]; ok {
			if val, ok := name.GetKind().(*qdrant.Value_StringValue); ok {
				match.Name = val.StringValue
			}
		}
		matches = append(matches, match)
	}
	return matches, nil
}
