package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"resume-screener/internal/models"
)

type fakeMailer struct {
	mu     sync.Mutex
	sent   []string
	failTo string
}

func (f *fakeMailer) Send(ctx context.Context, from, to, subject, body string) error {
	if to == f.failTo {
		return errors.New("mailbox unavailable")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, to)
	return nil
}

func TestExtractJobContext(t *testing.T) {
	gemini := &fakeGemini{
		response: `{"company_name": "Acme Corp", "position_title": "Data Engineer", "department": "Platform", "location": "Berlin", "key_skills": ["sql", "go"]}`,
	}
	notify := NewNotifyService(gemini, nil, "hr@acme.test", zap.NewNop())

	jobCtx := notify.ExtractJobContext(context.Background(), "We are hiring a data engineer...")

	assert.Equal(t, "Acme Corp", jobCtx.CompanyName)
	assert.Equal(t, "Data Engineer", jobCtx.PositionTitle)
	assert.Equal(t, "Platform", jobCtx.Department)
	assert.Equal(t, []string{"sql", "go"}, jobCtx.KeySkills)
}

func TestExtractJobContextFailureYieldsDefaults(t *testing.T) {
	notify := NewNotifyService(&fakeGemini{err: errors.New("unavailable")}, nil, "hr@acme.test", zap.NewNop())

	jobCtx := notify.ExtractJobContext(context.Background(), "some description")
	assert.Equal(t, DefaultJobContext(), jobCtx)

	// Empty description never hits the classifier
	gemini := &fakeGemini{response: "should not matter"}
	notify = NewNotifyService(gemini, nil, "hr@acme.test", zap.NewNop())
	jobCtx = notify.ExtractJobContext(context.Background(), "   ")
	assert.Equal(t, DefaultJobContext(), jobCtx)
	assert.Equal(t, 0, gemini.callCount())
}

func TestComposeFallsBackToTemplate(t *testing.T) {
	notify := NewNotifyService(&fakeGemini{err: errors.New("unavailable")}, nil, "hr@acme.test", zap.NewNop())

	candidate := models.CandidateRecord{Name: "Jane Doe", Score: 8.2}
	content := notify.Compose(context.Background(), candidate, DefaultJobContext(), models.CategorySelected)

	assert.Contains(t, content, "Subject: Congratulations")
	assert.Contains(t, content, "Dear Jane Doe,")
	assert.Contains(t, content, "the Position at Our Company")

	content = notify.Compose(context.Background(), candidate, DefaultJobContext(), models.CategoryRejected)
	assert.Contains(t, content, "Subject: Application Status Update")
	assert.Contains(t, content, "move forward with other candidates")

	content = notify.Compose(context.Background(), candidate, DefaultJobContext(), models.CategoryConsidered)
	assert.Contains(t, content, "Under Consideration")
}

func TestComposeUnknownNameUsesPlaceholder(t *testing.T) {
	notify := NewNotifyService(&fakeGemini{err: errors.New("unavailable")}, nil, "hr@acme.test", zap.NewNop())

	content := notify.Compose(context.Background(), models.CandidateRecord{Name: "Unknown"}, DefaultJobContext(), models.CategoryRejected)
	assert.Contains(t, content, "Dear Candidate,")
}

func TestSendBatch(t *testing.T) {
	gemini := &fakeGemini{response: "Subject: Hello\n\nBody text"}
	mailer := &fakeMailer{failTo: "bad@example.com"}
	notify := NewNotifyService(gemini, mailer, "hr@acme.test", zap.NewNop())

	candidates := []models.CandidateRecord{
		{Name: "Jane Doe", Email: "jane@example.com"},
		{Name: "No Email"},
		{Name: "Bad Mailbox", Email: "bad@example.com"},
	}

	report, err := notify.SendBatch(context.Background(), candidates, "job description", models.CategorySelected)
	require.NoError(t, err)

	assert.Equal(t, 1, report.SentCount)
	assert.Equal(t, []string{"jane@example.com"}, mailer.sent)
	require.Len(t, report.Failed, 1)
	assert.Equal(t, "Bad Mailbox", report.Failed[0].Name)
	assert.Equal(t, "bad@example.com", report.Failed[0].Email)
	assert.NotEmpty(t, report.Failed[0].Error)
}

func TestSendBatchWithoutMailer(t *testing.T) {
	notify := NewNotifyService(&fakeGemini{}, nil, "", zap.NewNop())

	_, err := notify.SendBatch(context.Background(), []models.CandidateRecord{{Email: "a@b.co"}}, "jd", models.CategorySelected)
	assert.Error(t, err)
}

func TestSplitSubject(t *testing.T) {
	subject, body := splitSubject("Subject: Offer Update\n\nDear Jane,\nthanks")
	assert.Equal(t, "Offer Update", subject)
	assert.Equal(t, "Dear Jane,\nthanks", body)

	subject, body = splitSubject("No subject line at all")
	assert.Equal(t, "Application Status Update", subject)
	assert.Equal(t, "No subject line at all", body)
}
