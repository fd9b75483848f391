package models

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Category string

const (
	CategorySelected   Category = "selected"
	CategoryConsidered Category = "considered"
	CategoryRejected   Category = "rejected"
)

// Categorize maps a relevance score onto one of the three screening buckets.
// Lower bounds are inclusive.
func Categorize(score float64) Category {
	switch {
	case score >= 7.0:
		return CategorySelected
	case score >= 4.0:
		return CategoryConsidered
	default:
		return CategoryRejected
	}
}

func ParseCategory(s string) (Category, error) {
	switch Category(strings.ToLower(strings.TrimSpace(s))) {
	case CategorySelected:
		return CategorySelected, nil
	case CategoryConsidered:
		return CategoryConsidered, nil
	case CategoryRejected:
		return CategoryRejected, nil
	}
	return "", fmt.Errorf("invalid category: %q", s)
}

type DocumentKind string

const (
	KindPDF  DocumentKind = "pdf"
	KindDocx DocumentKind = "docx"
	KindText DocumentKind = "text"
)

// RawDocument is an uploaded resume before any processing. It only lives for
// the duration of one batch.
type RawDocument struct {
	Filename string
	Content  []byte
	Kind     DocumentKind
}

func NewRawDocument(filename string, content []byte) RawDocument {
	return RawDocument{
		Filename: filename,
		Content:  content,
		Kind:     KindFromFilename(filename),
	}
}

// KindFromFilename infers the container format from the file extension.
// Unknown extensions are treated as plain text.
func KindFromFilename(name string) DocumentKind {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return KindPDF
	case ".doc", ".docx":
		return KindDocx
	default:
		return KindText
	}
}

// ExtractedFields holds the raw candidate contact data pulled out of a resume.
// Name "Unknown" is a valid terminal value, not an error.
type ExtractedFields struct {
	Name  string
	Email string
	Phone string
}

// ScoreResult is the outcome of one relevance-scoring call. Immutable after
// creation.
type ScoreResult struct {
	Score       float64  `json:"score"`
	Explanation string   `json:"explanation"`
	Strengths   []string `json:"strengths"`
	Weaknesses  []string `json:"weaknesses"`
}

// UnparseableScoreResult is returned when the classifier answered but its
// response could not be parsed. The mid score keeps a probably-fine candidate
// out of the rejected bucket.
func UnparseableScoreResult() ScoreResult {
	return ScoreResult{
		Score:       5.0,
		Explanation: "Unable to parse detailed analysis",
		Strengths:   []string{},
		Weaknesses:  []string{},
	}
}

// FailedScoreResult is returned when the scoring call itself failed.
func FailedScoreResult() ScoreResult {
	return ScoreResult{
		Score:       0.0,
		Explanation: "Error occurred during analysis",
		Strengths:   []string{},
		Weaknesses:  []string{},
	}
}

// CandidateRecord is the aggregate produced for every submitted resume,
// success or fallback.
type CandidateRecord struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	OwnerID     string    `gorm:"type:text;index" json:"owner_id,omitempty"`
	BatchIndex  int       `json:"batch_index"`
	Name        string    `gorm:"type:text" json:"name"`
	Email       string    `gorm:"type:text" json:"email"`
	Phone       string    `gorm:"type:text" json:"phone"`
	StorageURL  string    `gorm:"type:text" json:"storage_url,omitempty"`
	FileName    string    `gorm:"type:text" json:"file_name"`
	Score       float64   `json:"score"`
	Category    Category  `gorm:"type:text;index" json:"category"`
	Explanation string    `gorm:"type:text" json:"explanation"`
	Strengths   []string  `gorm:"serializer:json" json:"strengths"`
	Weaknesses  []string  `gorm:"serializer:json" json:"weaknesses"`
	Content     string    `gorm:"type:text" json:"content,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func (CandidateRecord) TableName() string {
	return "candidates"
}

// FallbackRecord is the rejected-category record produced when a document's
// pipeline fails outright. The batch still returns one record per input.
func FallbackRecord(index int, filename, reason string) CandidateRecord {
	return CandidateRecord{
		ID:          uuid.New(),
		BatchIndex:  index,
		Name:        "Unknown",
		Email:       "",
		Phone:       "",
		FileName:    filename,
		Score:       0.0,
		Category:    CategoryRejected,
		Explanation: fmt.Sprintf("Error processing resume: %s", reason),
		Strengths:   []string{},
		Weaknesses:  []string{},
		CreatedAt:   time.Now(),
	}
}

type BatchMetadata struct {
	TotalSubmitted  int       `json:"total_submitted"`
	SelectedCount   int       `json:"selected_count"`
	ConsideredCount int       `json:"considered_count"`
	RejectedCount   int       `json:"rejected_count"`
	TokensUsed      int       `json:"tokens_used"`
	ProcessedAt     time.Time `json:"processed_at"`
}

// BatchResult groups the records of one batch by category. It exists only as
// the orchestrator's return value.
type BatchResult struct {
	Selected   []CandidateRecord `json:"selected"`
	Considered []CandidateRecord `json:"considered"`
	Rejected   []CandidateRecord `json:"rejected"`
	Metadata   BatchMetadata     `json:"metadata"`
}
