package models

type EmailGenerateRequest struct {
	Category       string          `json:"category"`
	JobDescription string          `json:"job_description"`
	Candidate      CandidateRecord `json:"candidate"`
}

type EmailGenerateResponse struct {
	EmailContent string `json:"email_content"`
}

type EmailSendRequest struct {
	Category       string            `json:"category"`
	JobDescription string            `json:"job_description"`
	Resumes        []CandidateRecord `json:"resumes"`
}

type TokenPurchaseRequest struct {
	Package string `json:"token_package"`
}

type CandidateStats struct {
	Total      int64 `json:"total"`
	Selected   int64 `json:"selected"`
	Considered int64 `json:"considered"`
	Rejected   int64 `json:"rejected"`
}
