package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"resume-screener/internal/models"
)

// JobContext holds the company details pulled out of a job description. They
// feed the email prompts and the fallback templates.
type JobContext struct {
	CompanyName   string   `json:"company_name"`
	PositionTitle string   `json:"position_title"`
	Department    string   `json:"department"`
	Location      string   `json:"location"`
	KeySkills     []string `json:"key_skills"`
}

// DefaultJobContext returns the placeholders used when the job description
// yields nothing usable.
func DefaultJobContext() JobContext {
	return JobContext{
		CompanyName:   "Our Company",
		PositionTitle: "the Position",
		Department:    "Our Team",
		Location:      "",
		KeySkills:     []string{},
	}
}

type SendFailure struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Error string `json:"error"`
}

type SendReport struct {
	SentCount int           `json:"sent_count"`
	Failed    []SendFailure `json:"failed"`
}

// NotifyService composes and delivers candidate notification emails.
type NotifyService interface {
	// ExtractJobContext never fails: unusable output degrades to the
	// default placeholders.
	ExtractJobContext(ctx context.Context, jobDescription string) JobContext
	Compose(ctx context.Context, candidate models.CandidateRecord, jobCtx JobContext, category models.Category) string
	SendBatch(ctx context.Context, candidates []models.CandidateRecord, jobDescription string, category models.Category) (*SendReport, error)
}

type notifyService struct {
	gemini  GeminiService
	mailer  Mailer
	prompts *PromptBuilder
	sender  string
	logger  *zap.Logger
}

func NewNotifyService(gemini GeminiService, mailer Mailer, sender string, logger *zap.Logger) NotifyService {
	return &notifyService{
		gemini:  gemini,
		mailer:  mailer,
		prompts: NewPromptBuilder(),
		sender:  sender,
		logger:  logger,
	}
}

// ExtractJobContext implements NotifyService.
func (n *notifyService) ExtractJobContext(ctx context.Context, jobDescription string) JobContext {
	if strings.TrimSpace(jobDescription) == "" {
		return DefaultJobContext()
	}

	response, err := n.gemini.Complete(ctx,
		n.prompts.JobContextSystemPrompt(),
		n.prompts.BuildJobContextPrompt(jobDescription),
		300, 0.1)
	if err != nil {
		n.logger.Warn("job context extraction failed", zap.Error(err))
		return DefaultJobContext()
	}

	jobCtx := DefaultJobContext()
	if err := json.Unmarshal([]byte(extractJSON(response)), &jobCtx); err != nil {
		n.logger.Warn("job context response unparseable", zap.Error(err))
		return DefaultJobContext()
	}

	if jobCtx.CompanyName == "" {
		jobCtx.CompanyName = "Our Company"
	}
	if jobCtx.PositionTitle == "" {
		jobCtx.PositionTitle = "the Position"
	}
	if jobCtx.Department == "" {
		jobCtx.Department = "Our Team"
	}
	if jobCtx.KeySkills == nil {
		jobCtx.KeySkills = []string{}
	}
	return jobCtx
}

// Compose implements NotifyService. Generation failures fall back to the
// static per-category template so a send batch never stalls on one candidate.
func (n *notifyService) Compose(ctx context.Context, candidate models.CandidateRecord, jobCtx JobContext, category models.Category) string {
	content, err := n.gemini.Complete(ctx,
		n.prompts.EmailSystemPrompt(),
		n.prompts.BuildEmailPrompt(candidate, jobCtx, category),
		600, 0.7)
	if err != nil || strings.TrimSpace(content) == "" {
		n.logger.Warn("personalized email generation failed",
			zap.String("candidate", candidate.Name),
			zap.Error(err))
		return fallbackEmail(candidate, jobCtx, category)
	}
	return content
}

// SendBatch implements NotifyService. Candidates without an email address are
// skipped; delivery failures are collected, not fatal.
func (n *notifyService) SendBatch(ctx context.Context, candidates []models.CandidateRecord, jobDescription string, category models.Category) (*SendReport, error) {
	if n.mailer == nil {
		return nil, fmt.Errorf("email delivery is not configured")
	}

	jobCtx := n.ExtractJobContext(ctx, jobDescription)
	report := &SendReport{Failed: []SendFailure{}}

	for _, candidate := range candidates {
		if strings.TrimSpace(candidate.Email) == "" {
			n.logger.Debug("skipping candidate without email", zap.String("name", candidate.Name))
			continue
		}

		content := n.Compose(ctx, candidate, jobCtx, category)
		subject, body := splitSubject(content)

		if err := n.mailer.Send(ctx, n.sender, candidate.Email, subject, body); err != nil {
			n.logger.Warn("email delivery failed",
				zap.String("email", candidate.Email),
				zap.Error(err))
			report.Failed = append(report.Failed, SendFailure{
				Name:  candidate.Name,
				Email: candidate.Email,
				Error: err.Error(),
			})
			continue
		}
		report.SentCount++
	}

	return report, nil
}

// splitSubject peels a leading "Subject:" line off generated email content.
// Without one the whole content becomes the body under a generic subject.
func splitSubject(content string) (subject, body string) {
	subject = "Application Status Update"
	body = content

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		if strings.HasPrefix(line, "Subject:") {
			subject = strings.TrimSpace(strings.TrimPrefix(line, "Subject:"))
			body = strings.TrimLeft(strings.Join(lines[i+1:], "\n"), "\n")
			break
		}
	}
	return subject, body
}

func fallbackEmail(candidate models.CandidateRecord, jobCtx JobContext, category models.Category) string {
	name := candidate.Name
	if name == "" || name == "Unknown" {
		name = "Candidate"
	}

	switch category {
	case models.CategorySelected:
		return fmt.Sprintf(`Subject: Congratulations - You've Been Selected for the Next Round

Dear %s,

I hope this message finds you well.

Thank you for your interest in the %s at %s. We are pleased to inform you that your application has been reviewed, and we are considering you for the next steps in our recruitment process.

Your qualifications and experience have impressed our team, and we believe you would be a valuable addition to our organization.

You may be contacted soon for further discussions or to schedule an interview. We appreciate your patience as we continue our evaluation process.

Thank you once again for your interest in joining our team. We look forward to the possibility of working together.

Best regards,
HR Team
%s`, name, jobCtx.PositionTitle, jobCtx.CompanyName, jobCtx.CompanyName)

	case models.CategoryRejected:
		return fmt.Sprintf(`Subject: Application Status Update

Dear %s,

I hope this message finds you well.

Thank you for your interest in the %s at %s. After careful consideration, we have decided to move forward with other candidates whose qualifications more closely match our current needs.

We appreciate your interest in our company and encourage you to apply for future opportunities that may be a better fit.

Thank you once again for your interest in joining our team.

Best regards,
HR Team
%s`, name, jobCtx.PositionTitle, jobCtx.CompanyName, jobCtx.CompanyName)

	default:
		return fmt.Sprintf(`Subject: Application Status - Under Consideration

Dear %s,

I hope this message finds you well.

Thank you for your interest in the %s at %s. We are currently reviewing all applications and your profile is under consideration.

You may be contacted soon for further discussions or to schedule an interview. We appreciate your patience as we continue our evaluation process.

Thank you once again for your interest in joining our team. We look forward to the possibility of working together.

Best regards,
HR Team
%s`, name, jobCtx.PositionTitle, jobCtx.CompanyName, jobCtx.CompanyName)
	}
}
