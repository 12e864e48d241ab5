package models

// QAPair is one question/answer entry of an interview session. The sequence
// lives in memory for the session's duration; only the final evaluation is
// persisted.
type QAPair struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Feedback string `json:"feedback,omitempty"`
}

type Decision string

const (
	DecisionSelected Decision = "selected"
	DecisionRejected Decision = "rejected"
)

// Evaluation is the multi-axis post-interview assessment returned by the
// model. The decision field is trusted verbatim; the selection rule
// (overall >= 70 and technical >= 65) is enforced by the prompt contract.
type Evaluation struct {
	OverallScore       float64  `json:"overallScore"`
	TechnicalScore     float64  `json:"technicalScore"`
	CommunicationScore float64  `json:"communicationScore"`
	CultureFitScore    float64  `json:"cultureFitScore"`
	Decision           Decision `json:"decision"`
	Feedback           string   `json:"feedback"`
	NextSteps          string   `json:"nextSteps"`
}

// MatchAnalysis is the structured result of scoring a resume against a job.
type MatchAnalysis struct {
	MatchScore     float64  `json:"matchScore"`
	ExtractedText  string   `json:"extractedText"`
	Summary        string   `json:"summary"`
	Strengths      []string `json:"strengths"`
	Concerns       []string `json:"concerns"`
	Recommendation string   `json:"recommendation"`
}

// InterviewContext carries everything the question generator needs.
type InterviewContext struct {
	ResumeText     string   `json:"resume_text"`
	JobDescription string   `json:"job_description"`
	JobTitle       string   `json:"job_title"`
	QuestionNumber int      `json:"question_number"`
	PreviousQA     []QAPair `json:"previous_qa"`
}

// FeedbackContext carries one answered question for per-answer feedback.
type FeedbackContext struct {
	Question       string `json:"question"`
	Answer         string `json:"answer"`
	ResumeText     string `json:"resume_text"`
	JobDescription string `json:"job_description"`
	QuestionNumber int    `json:"question_number"`
}

// EvaluationContext carries the full transcript for the final assessment.
type EvaluationContext struct {
	ResumeText     string   `json:"resume_text"`
	JobDescription string   `json:"job_description"`
	JobTitle       string   `json:"job_title"`
	AllQA          []QAPair `json:"all_qa"`
}
