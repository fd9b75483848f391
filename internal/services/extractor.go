package services

import (
	"bytes"
	"context"
	"regexp"
	"strings"

	docx "github.com/fumiama/go-docx"
	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"

	"resume-screener/internal/models"
)

// ExtractorService pulls raw text and candidate contact fields out of an
// uploaded document. Extraction never fails: unreadable input degrades to
// empty text and "Unknown"/empty fields.
type ExtractorService interface {
	Extract(ctx context.Context, doc models.RawDocument) (string, models.ExtractedFields)
	ExtractText(doc models.RawDocument) string
}

type extractorService struct {
	gemini  GeminiService
	prompts *PromptBuilder
	logger  *zap.Logger
}

func NewExtractorService(gemini GeminiService, logger *zap.Logger) ExtractorService {
	return &extractorService{
		gemini:  gemini,
		prompts: NewPromptBuilder(),
		logger:  logger,
	}
}

var (
	emailPattern = regexp.MustCompile(`[A-Za-z0-9][A-Za-z0-9._%-]*@[A-Za-z0-9][A-Za-z0-9.-]*\.[A-Za-z]{2,}`)

	// Tried in order: US format, international, bare digit run.
	phonePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\+?1?[-.\s]?\(?[0-9]{3}\)?[-.\s]?[0-9]{3}[-.\s]?[0-9]{4}`),
		regexp.MustCompile(`\+?[0-9]{1,4}[-.\s]?[0-9]{3,4}[-.\s]?[0-9]{3,4}[-.\s]?[0-9]{3,4}`),
		regexp.MustCompile(`\+?[0-9]{7,15}`),
	}

	digitRunPattern = regexp.MustCompile(`\d+`)
	wordPattern     = regexp.MustCompile(`^[A-Za-z]+$`)
)

var nameSkipWords = []string{
	"resume", "cv", "curriculum", "vitae", "contact",
	"personal", "information", "profile", "objective",
}

var contactLabelWords = map[string]bool{
	"phone":     true,
	"email":     true,
	"address":   true,
	"linkedin":  true,
	"github":    true,
	"portfolio": true,
}

// Extract implements ExtractorService.
func (e *extractorService) Extract(ctx context.Context, doc models.RawDocument) (string, models.ExtractedFields) {
	text := e.ExtractText(doc)

	fields := models.ExtractedFields{
		Email: extractEmail(text),
		Phone: extractPhone(text),
		Name:  e.extractName(ctx, text),
	}
	return text, fields
}

// ExtractText implements ExtractorService.
func (e *extractorService) ExtractText(doc models.RawDocument) string {
	switch doc.Kind {
	case models.KindPDF:
		return e.extractPDFText(doc.Content)
	case models.KindDocx:
		return e.extractDocxText(doc.Content)
	default:
		return strings.ToValidUTF8(string(doc.Content), "")
	}
}

func (e *extractorService) extractPDFText(content []byte) (text string) {
	// the pdf reader panics on some malformed files
	defer func() {
		if r := recover(); r != nil {
			e.logger.Warn("pdf extraction panicked", zap.Any("cause", r))
			text = ""
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		e.logger.Warn("failed to open pdf", zap.Error(err))
		return ""
	}

	var builder strings.Builder
	totalPage := reader.NumPage()
	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := reader.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		builder.WriteString(pageText)
		builder.WriteString("\n\n")
	}
	return builder.String()
}

func (e *extractorService) extractDocxText(content []byte) string {
	doc, err := docx.Parse(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		e.logger.Warn("failed to open docx", zap.Error(err))
		return ""
	}

	var builder strings.Builder
	for _, item := range doc.Document.Body.Items {
		if paragraph, ok := item.(*docx.Paragraph); ok {
			builder.WriteString(paragraph.String())
			builder.WriteString("\n")
		}
	}
	return builder.String()
}

func extractEmail(text string) string {
	if match := emailPattern.FindString(text); match != "" {
		return match
	}

	// Fallback: scan lines for an email-shaped token
	for _, line := range strings.Split(text, "\n") {
		for _, word := range strings.Fields(strings.TrimSpace(line)) {
			if strings.Count(word, "@") != 1 {
				continue
			}
			domain := word[strings.Index(word, "@")+1:]
			if strings.Contains(domain, ".") {
				return strings.Trim(word, ".,;:()[]{}\"'")
			}
		}
	}
	return ""
}

func extractPhone(text string) string {
	for _, pattern := range phonePatterns {
		for _, match := range pattern.FindAllString(text, -1) {
			cleaned := nonPhonePattern.ReplaceAllString(match, "")
			digits := strings.ReplaceAll(cleaned, "+", "")
			if len(digits) >= 7 && len(digits) <= 15 {
				return match
			}
		}
	}

	// Fallback: digits after a contact label
	for _, line := range strings.Split(text, "\n") {
		line = strings.ToLower(strings.TrimSpace(line))
		if !strings.Contains(line, "phone:") && !strings.Contains(line, "mobile:") &&
			!strings.Contains(line, "tel:") && !strings.Contains(line, "contact:") {
			continue
		}
		parts := strings.SplitN(line, ":", 2)
		if len(parts) < 2 {
			continue
		}
		phone := strings.Join(digitRunPattern.FindAllString(parts[1], -1), "")
		if len(phone) >= 7 && len(phone) <= 15 {
			return phone
		}
	}
	return ""
}

func (e *extractorService) extractName(ctx context.Context, text string) string {
	if name := extractNameWithPatterns(text); name != "Unknown" {
		return name
	}

	// Structural match failed; ask the classifier with the head of the text.
	excerpt := text
	if len(excerpt) > 2000 {
		excerpt = excerpt[:2000]
	}
	response, err := e.gemini.Complete(ctx,
		e.prompts.NameExtractionSystemPrompt(),
		e.prompts.BuildNameExtractionPrompt(excerpt),
		50, 0.1)
	if err != nil {
		e.logger.Warn("name extraction fallback failed", zap.Error(err))
		return "Unknown"
	}

	name := strings.TrimSpace(strings.SplitN(response, "\n", 2)[0])
	if name == "" {
		return "Unknown"
	}
	return name
}

func extractNameWithPatterns(text string) string {
	lines := strings.Split(text, "\n")

	checked := 0
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if checked++; checked > 10 {
			break
		}

		lower := strings.ToLower(line)
		skip := false
		for _, word := range nameSkipWords {
			if strings.Contains(lower, word) {
				skip = true
				break
			}
		}
		if skip {
			continue
		}

		words := strings.Fields(line)
		if len(words) < 2 || len(words) > 4 {
			continue
		}
		if isNameLine(words) {
			return strings.Join(words, " ")
		}
	}

	// Label lines like "Name: Jane Doe"
	for _, line := range lines {
		lower := strings.ToLower(strings.TrimSpace(line))
		if !strings.HasPrefix(lower, "name:") && !strings.HasPrefix(lower, "full name:") &&
			!strings.HasPrefix(lower, "candidate name:") {
			continue
		}
		parts := strings.SplitN(lower, ":", 2)
		words := strings.Fields(parts[1])
		if len(words) >= 2 && len(words) <= 4 {
			for i, word := range words {
				words[i] = strings.ToUpper(word[:1]) + word[1:]
			}
			return strings.Join(words, " ")
		}
	}

	return "Unknown"
}

func isNameLine(words []string) bool {
	for _, word := range words {
		if !wordPattern.MatchString(word) {
			return false
		}
		if word[0] < 'A' || word[0] > 'Z' {
			return false
		}
		if contactLabelWords[strings.ToLower(word)] {
			return false
		}
	}
	return true
}
