package models

type CreateJobRequest struct {
	Title        string `json:"title" validate:"required"`
	Description  string `json:"description" validate:"required"`
	Requirements string `json:"requirements"`
	Location     string `json:"location"`
	Type         string `json:"type" validate:"required"`
	SalaryRange  string `json:"salary_range"`
}

type CreateApplicationRequest struct {
	JobID       string `json:"job_id" validate:"required,uuid"`
	Name        string `json:"name" validate:"required"`
	Email       string `json:"email" validate:"required"`
	Phone       string `json:"phone" validate:"required"`
	CurrentCTC  string `json:"current_ctc" validate:"required"`
	ExpectedCTC string `json:"expected_ctc" validate:"required"`
	ResumeURL   string `json:"resume_url" validate:"required"`
}

type ShortlistRequest struct {
	Shortlisted *bool `json:"shortlisted" validate:"required"`
}

type UploadResponse struct {
	Filename     string `json:"filename"`
	OriginalName string `json:"original_name"`
	ResumeURL    string `json:"resume_url"`
}

type AnalyzeRequest struct {
	ApplicationID string `json:"application_id" validate:"required,uuid"`
}

type AnalyzeResponse struct {
	ResumeText    string         `json:"resume_text"`
	MatchAnalysis *MatchAnalysis `json:"match_analysis"`
	Eligible      bool           `json:"eligible"`
}

// InterviewRequest is the raw gateway dispatch payload. Action selects which
// gateway call runs; the other fields are action-specific.
type InterviewRequest struct {
	ApplicationID   string   `json:"application_id" validate:"required,uuid"`
	Action          string   `json:"action" validate:"required"`
	QuestionNumber  int      `json:"question_number,omitempty"`
	PreviousQA      []QAPair `json:"previous_qa,omitempty"`
	AllQA           []QAPair `json:"all_qa,omitempty"`
	Answer          string   `json:"answer,omitempty"`
	CurrentQuestion string   `json:"current_question,omitempty"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type StartSessionRequest struct {
	ApplicationID string `json:"application_id" validate:"required,uuid"`
}

type AnswerRequest struct {
	Answer string `json:"answer"`
}

type TranscriptRequest struct {
	Text string `json:"text" validate:"required"`
}

type SynthesizeRequest struct {
	Text string `json:"text" validate:"required"`
}

type CandidateSearchResponse struct {
	ApplicationID string  `json:"application_id"`
	Name          string  `json:"name"`
	Score         float32 `json:"score"`
	Excerpt       string  `json:"excerpt"`
}
