package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"sync"

	"github.com/google/uuid"

	"hireflow/internal/models"
)

type interviewResultCall struct {
	id          uuid.UUID
	resultJSON  string
	shortlisted bool
}

type analysisCall struct {
	id         uuid.UUID
	resumeText string
	matchScore float64
	status     models.InterviewStatus
}

type stubAppRepo struct {
	mu sync.Mutex

	app     *models.Application
	findErr error

	analyses         []analysisCall
	analysisErrors   []string
	interviewResults []interviewResultCall
	unanalyzed       []models.Application
}

func (r *stubAppRepo) Create(app *models.Application) error { return nil }

func (r *stubAppRepo) FindByID(id uuid.UUID) (*models.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	cp := *r.app
	return &cp, nil
}

func (r *stubAppRepo) FindAll(jobID *uuid.UUID) ([]models.Application, error) { return nil, nil }

func (r *stubAppRepo) UpdateShortlist(id uuid.UUID, shortlisted bool) (*models.Application, error) {
	return r.app, nil
}

func (r *stubAppRepo) UpdateAnalysis(id uuid.UUID, resumeText string, matchScore float64, status models.InterviewStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.analyses = append(r.analyses, analysisCall{id: id, resumeText: resumeText, matchScore: matchScore, status: status})
	return nil
}

func (r *stubAppRepo) UpdateAnalysisError(id uuid.UUID, errorMsg string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.analysisErrors = append(r.analysisErrors, errorMsg)
	return nil
}

func (r *stubAppRepo) UpdateInterviewResult(id uuid.UUID, resultJSON string, shortlisted bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.interviewResults = append(r.interviewResults, interviewResultCall{id: id, resultJSON: resultJSON, shortlisted: shortlisted})
	return nil
}

func (r *stubAppRepo) FindUnanalyzed(limit int) ([]models.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.unanalyzed, nil
}

func (r *stubAppRepo) interviewResultCalls() []interviewResultCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]interviewResultCall(nil), r.interviewResults...)
}

func (r *stubAppRepo) analysisCalls() []analysisCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]analysisCall(nil), r.analyses...)
}

func (r *stubAppRepo) analysisErrorCalls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.analysisErrors...)
}

type stubInterview struct {
	mu sync.Mutex

	nextFn     func(ic *models.InterviewContext) (string, error)
	feedbackFn func(fc *models.FeedbackContext) (string, error)
	evaluateFn func(ec *models.EvaluationContext) (*models.Evaluation, error)

	questionCalls []int
	feedbackCalls int
	evaluateCalls int
}

func (s *stubInterview) NextQuestion(ctx context.Context, ic *models.InterviewContext) (string, error) {
	s.mu.Lock()
	s.questionCalls = append(s.questionCalls, ic.QuestionNumber)
	fn := s.nextFn
	s.mu.Unlock()

	if fn != nil {
		return fn(ic)
	}
	return fmt.Sprintf("Question %d?", ic.QuestionNumber), nil
}

func (s *stubInterview) Feedback(ctx context.Context, fc *models.FeedbackContext) (string, error) {
	s.mu.Lock()
	s.feedbackCalls++
	fn := s.feedbackFn
	s.mu.Unlock()

	if fn != nil {
		return fn(fc)
	}
	return "Good answer.", nil
}

func (s *stubInterview) Evaluate(ctx context.Context, ec *models.EvaluationContext) (*models.Evaluation, error) {
	s.mu.Lock()
	s.evaluateCalls++
	fn := s.evaluateFn
	s.mu.Unlock()

	if fn != nil {
		return fn(ec)
	}
	return &models.Evaluation{
		OverallScore:   82,
		TechnicalScore: 78,
		Decision:       models.DecisionSelected,
		Feedback:       "Strong candidate.",
		NextSteps:      "HR will reach out within a week.",
	}, nil
}

func (s *stubInterview) feedbackCallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.feedbackCalls
}

type stubSpeech struct {
	synthesizeFn func(text string) (*Narration, error)
	transcribeFn func(audio []byte, mimeType string) (string, error)
}

func (s *stubSpeech) Synthesize(ctx context.Context, text string) (*Narration, error) {
	if s.synthesizeFn != nil {
		return s.synthesizeFn(text)
	}
	audio := make([]byte, 4800)
	return &Narration{Audio: audio, MIMEType: pcmMIMEType, Duration: pcmDuration(len(audio))}, nil
}

func (s *stubSpeech) Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error) {
	if s.transcribeFn != nil {
		return s.transcribeFn(audio, mimeType)
	}
	return "transcribed text", nil
}

type stubGemini struct {
	textFn   func(prompt string) (string, error)
	fileFn   func(prompt string, data []byte, mimeType string) (string, error)
	embedFn  func(text string) ([]float32, error)
	speechFn func(text string) ([]byte, error)
}

func (g *stubGemini) GenerateText(ctx context.Context, prompt string, temperature float32) (string, error) {
	if g.textFn != nil {
		return g.textFn(prompt)
	}
	return "generated text", nil
}

func (g *stubGemini) GenerateTextWithRetry(ctx context.Context, prompt string, temperature float32, maxRetries int) (string, error) {
	return g.GenerateText(ctx, prompt, temperature)
}

func (g *stubGemini) GenerateWithFile(ctx context.Context, prompt string, data []byte, mimeType string, temperature float32) (string, error) {
	if g.fileFn != nil {
		return g.fileFn(prompt, data, mimeType)
	}
	return "generated text", nil
}

func (g *stubGemini) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	if g.embedFn != nil {
		return g.embedFn(text)
	}
	return make([]float32, 768), nil
}

func (g *stubGemini) GenerateSpeech(ctx context.Context, text string) ([]byte, error) {
	if g.speechFn != nil {
		return g.speechFn(text)
	}
	return make([]byte, 4800), nil
}

type stubStorage struct {
	files map[string][]byte
}

func (s *stubStorage) SaveResume(file *multipart.FileHeader) (string, string, error) {
	return "", "", nil
}

func (s *stubStorage) ReadResume(filename string) ([]byte, error) {
	if data, ok := s.files[filename]; ok {
		return data, nil
	}
	return nil, fmt.Errorf("no such file: %s", filename)
}

func (s *stubStorage) ResumePath(filename string) (string, error) { return "/tmp/" + filename, nil }

func (s *stubStorage) ResumeURL(filename string) string {
	return "http://localhost:3000/api/v1/resumes/" + filename
}

func (s *stubStorage) DeleteResume(filename string) error { return nil }

func (s *stubStorage) EnsureUploadDir() error { return nil }

type stubPDFParser struct {
	validateErr error
	text        string
	textErr     error
}

func (p *stubPDFParser) Validate(filePath string) error { return p.validateErr }

func (p *stubPDFParser) ExtractText(filePath string) (string, error) {
	if p.textErr != nil {
		return "", p.textErr
	}
	return p.text, nil
}

type stubSearch struct {
	mu      sync.Mutex
	indexed []uuid.UUID
}

func (s *stubSearch) InitCollection() error { return nil }

func (s *stubSearch) IndexResume(ctx context.Context, appID uuid.UUID, candidateName, resumeText string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.indexed = append(s.indexed, appID)
	return nil
}

func (s *stubSearch) Search(ctx context.Context, query string, limit int) ([]CandidateMatch, error) {
	return nil, nil
}

func (s *stubSearch) RemoveResume(ctx context.Context, appID uuid.UUID) error { return nil }
