package services

import (
	"fmt"
	"strings"

	"resume-screener/internal/models"
)

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

func (pb *PromptBuilder) ScoringSystemPrompt() string {
	return `You are an expert HR recruiter. Analyze the resume against the job description and provide:
1. A score from 0-10 (10 being perfect match)
2. A brief explanation of why the candidate was/wasn't shortlisted
3. Key strengths and weaknesses

Return your response in this exact JSON format:
{
    "score": 7.5,
    "explanation": "Brief explanation of the decision",
    "strengths": ["strength1", "strength2"],
    "weaknesses": ["weakness1", "weakness2"]
}`
}

// BuildScoringPrompt creates the per-resume scoring prompt. The resume text
// is expected to be pre-truncated by the caller.
func (pb *PromptBuilder) BuildScoringPrompt(resumeText, jobDescription string) string {
	return fmt.Sprintf(`Job Description:
%s

Resume:
%s

Analyze this resume against the job description and provide your assessment.`,
		jobDescription, resumeText)
}

func (pb *PromptBuilder) NameExtractionSystemPrompt() string {
	return `Extract the candidate's full name from the resume text.
Look for the person's name at the beginning of the document, in header sections, or contact information.
Return only the full name (first and last name), nothing else.
If no clear name is found, return "Unknown".`
}

func (pb *PromptBuilder) BuildNameExtractionPrompt(text string) string {
	return fmt.Sprintf("Resume text: %s", text)
}

func (pb *PromptBuilder) JobContextSystemPrompt() string {
	return `Extract the following information from the job description:
1. Company name
2. Position title
3. Department or team
4. Location (if mentioned)
5. Key requirements or skills mentioned

Return in this exact JSON format:
{
    "company_name": "Company Name",
    "position_title": "Job Title",
    "department": "Department/Team",
    "location": "City, State/Country",
    "key_skills": ["skill1", "skill2", "skill3"]
}`
}

func (pb *PromptBuilder) BuildJobContextPrompt(jobDescription string) string {
	return fmt.Sprintf("Job Description:\n%s", jobDescription)
}

func (pb *PromptBuilder) EmailSystemPrompt() string {
	return "You are a professional HR assistant. Write personalized, professional emails that are warm and human. Use the candidate's name and specific details from their application."
}

// BuildEmailPrompt creates the category-toned generation prompt for one
// candidate's notification email.
func (pb *PromptBuilder) BuildEmailPrompt(candidate models.CandidateRecord, jobCtx JobContext, category models.Category) string {
	name := candidate.Name
	if name == "" || name == "Unknown" {
		name = "Candidate"
	}

	strengths := "their qualifications"
	if len(candidate.Strengths) > 0 {
		strengths = strings.Join(candidate.Strengths, ", ")
	}

	details := fmt.Sprintf(`Use this information:
- Candidate: %s
- Position: %s
- Company: %s
- Department: %s
- Location: %s
- Candidate's strengths: %s`,
		name, jobCtx.PositionTitle, jobCtx.CompanyName, jobCtx.Department, jobCtx.Location, strengths)

	switch category {
	case models.CategorySelected:
		return fmt.Sprintf(`Write a personalized email to %s informing them they've been selected for the next round of interviews for the %s position at %s.

%s
- Score: %.1f/10

Make it personal and encouraging. Include next steps.`,
			name, jobCtx.PositionTitle, jobCtx.CompanyName, details, candidate.Score)

	case models.CategoryRejected:
		return fmt.Sprintf(`Write a respectful and encouraging rejection email to %s for the %s position at %s.

%s

Be polite, respectful, and encouraging for future opportunities.`,
			name, jobCtx.PositionTitle, jobCtx.CompanyName, details)

	default:
		return fmt.Sprintf(`Write a professional email to %s informing them they are being considered for the %s position at %s.

%s

Be encouraging and professional.`,
			name, jobCtx.PositionTitle, jobCtx.CompanyName, details)
	}
}
