package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"resume-screener/internal/models"
)

const sampleResume = `Jane Q Public
Senior Software Engineer

Email: jane@x.com
Phone: (415) 555-0100

Experience
- Built data pipelines in Go and Python
`

func TestExtractPlainTextResume(t *testing.T) {
	extractor := NewExtractorService(&fakeGemini{err: errors.New("should not be called")}, zap.NewNop())
	doc := models.NewRawDocument("jane.txt", []byte(sampleResume))

	text, fields := extractor.Extract(context.Background(), doc)

	assert.Contains(t, text, "Jane Q Public")
	assert.Equal(t, "Jane Q Public", fields.Name)
	assert.Equal(t, "jane@x.com", fields.Email)
	assert.NotEmpty(t, fields.Phone)
}

func TestExtractEmailLineFallback(t *testing.T) {
	// Address shape the main pattern misses once trailing punctuation wraps it
	text := "Reach me at\n(jane.doe@example.org)\nany time"
	assert.Equal(t, "jane.doe@example.org", extractEmail(text))

	assert.Equal(t, "", extractEmail("no contact information at all"))
	assert.Equal(t, "", extractEmail("broken@@double.com and broken@nodot"))
}

func TestExtractPhoneLabelFallback(t *testing.T) {
	assert.Equal(t, "4155550100", extractPhone("Mobile: (415) 555 - 0100 ext"))
	assert.Equal(t, "", extractPhone("Phone: 12345"))
	assert.Equal(t, "", extractPhone("nothing numeric here"))
}

func TestExtractNameSkipsHeadings(t *testing.T) {
	text := "Curriculum Vitae\nContact Information\nJohn Smith\njohn@smith.dev"
	assert.Equal(t, "John Smith", extractNameWithPatterns(text))
}

func TestExtractNameLabelLine(t *testing.T) {
	text := "RESUME\nname: maria garcia lopez\nemail: maria@example.com"
	assert.Equal(t, "Maria Garcia Lopez", extractNameWithPatterns(text))
}

func TestExtractNameGeminiFallback(t *testing.T) {
	gemini := &fakeGemini{response: "Alex Chen"}
	extractor := NewExtractorService(gemini, zap.NewNop())

	// all lowercase, nothing the structural matcher accepts
	doc := models.NewRawDocument("resume.txt", []byte("experienced engineer\nworked at several companies\n"))
	_, fields := extractor.Extract(context.Background(), doc)

	assert.Equal(t, "Alex Chen", fields.Name)
	assert.Equal(t, 1, gemini.callCount())
}

func TestExtractNameGeminiFailureDegrades(t *testing.T) {
	gemini := &fakeGemini{err: errors.New("quota exceeded")}
	extractor := NewExtractorService(gemini, zap.NewNop())

	doc := models.NewRawDocument("resume.txt", []byte("experienced engineer\nno structured header\n"))
	_, fields := extractor.Extract(context.Background(), doc)

	assert.Equal(t, "Unknown", fields.Name)
}

func TestExtractTextGarbageBinaries(t *testing.T) {
	extractor := NewExtractorService(&fakeGemini{}, zap.NewNop())

	garbage := []byte{0x00, 0x01, 0xFF, 0xFE, 0x42}
	assert.Equal(t, "", extractor.ExtractText(models.NewRawDocument("broken.pdf", garbage)))
	assert.Equal(t, "", extractor.ExtractText(models.NewRawDocument("broken.docx", garbage)))
}

func TestExtractTextPlainPassthrough(t *testing.T) {
	extractor := NewExtractorService(&fakeGemini{}, zap.NewNop())
	text := extractor.ExtractText(models.NewRawDocument("notes.txt", []byte("hello world")))
	assert.Equal(t, "hello world", text)
}
