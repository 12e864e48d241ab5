package services

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"path"
	"strings"

	"github.com/google/uuid"

	"hireflow/internal/apperr"
	"hireflow/internal/models"
	"hireflow/internal/repositories"
)

// EligibilityThreshold is the minimum match score admitting a candidate to
// the interview stage.
const EligibilityThreshold = 60.0

// Admit reports whether a match score clears the interview gate.
func Admit(score float64) bool {
	return score >= EligibilityThreshold
}

// ResumeAnalyzerService scores a stored resume against its job posting and
// records the outcome on the application. Scoring failures are recorded
// separately from low scores: a failed analysis never rejects a candidate.
type ResumeAnalyzerService interface {
	AnalyzeApplication(ctx context.Context, appID uuid.UUID) (*models.MatchAnalysis, error)
}

type resumeAnalyzerService struct {
	appRepo       repositories.ApplicationRepository
	storage       StorageService
	pdfParser     PDFParserService
	geminiService GeminiService
	searchService CandidateSearchService
	promptBuilder *PromptBuilder
}

func NewResumeAnalyzerService(
	appRepo repositories.ApplicationRepository,
	storage StorageService,
	pdfParser PDFParserService,
	geminiService GeminiService,
	searchService CandidateSearchService,
) ResumeAnalyzerService {
	return &resumeAnalyzerService{
		appRepo:       appRepo,
		storage:       storage,
		pdfParser:     pdfParser,
		geminiService: geminiService,
		searchService: searchService,
		promptBuilder: NewPromptBuilder(),
	}
}

func (s *resumeAnalyzerService) AnalyzeApplication(ctx context.Context, appID uuid.UUID) (*models.MatchAnalysis, error) {
	app, err := s.appRepo.FindByID(appID)
	if err != nil {
		return nil, err
	}

	if app.InterviewStatus != models.InterviewStatusNone {
		return nil, apperr.Validation("application %s already analyzed", appID)
	}

	filename, err := resumeFilename(app.ResumeURL)
	if err != nil {
		return nil, err
	}

	log.Printf("🔄 Analyzing resume for application %s\n", appID)

	pdfBytes, err := s.storage.ReadResume(filename)
	if err != nil {
		return nil, err
	}

	prompt := s.promptBuilder.BuildResumeAnalysisPrompt(app.Job.Title, app.Job.Description)

	// Single-shot by design: a scoring failure is terminal for this request
	// and is surfaced as a failure, never as a score.
	response, err := s.geminiService.GenerateWithFile(ctx, prompt, pdfBytes, "application/pdf", 0.3)
	if err != nil {
		s.recordFailure(appID, err)
		return nil, fmt.Errorf("failed to analyze resume: %w", err)
	}

	var analysis models.MatchAnalysis
	if err := parseJSONResponse(response, &analysis); err != nil {
		s.recordFailure(appID, err)
		return nil, fmt.Errorf("failed to parse resume analysis: %w", err)
	}

	resumeText := strings.TrimSpace(analysis.ExtractedText)
	if resumeText == "" {
		resumeText = s.fallbackExtract(filename)
		analysis.ExtractedText = resumeText
	}

	status := models.InterviewStatusRejected
	if Admit(analysis.MatchScore) {
		status = models.InterviewStatusEligible
	}

	if err := s.appRepo.UpdateAnalysis(appID, resumeText, analysis.MatchScore, status); err != nil {
		return nil, err
	}

	// Index for admin semantic search; best effort only.
	if err := s.searchService.IndexResume(ctx, appID, app.Name, resumeText); err != nil {
		log.Printf("⚠️  Failed to index resume for application %s: %v\n", appID, err)
	}

	log.Printf("✅ Application %s scored %.0f (%s)\n", appID, analysis.MatchScore, status)
	return &analysis, nil
}

func (s *resumeAnalyzerService) recordFailure(appID uuid.UUID, cause error) {
	if err := s.appRepo.UpdateAnalysisError(appID, cause.Error()); err != nil {
		log.Printf("⚠️  Failed to record analysis error for %s: %v\n", appID, err)
	}
}

// fallbackExtract pulls resume text locally when the model response omits it.
func (s *resumeAnalyzerService) fallbackExtract(filename string) string {
	path, err := s.storage.ResumePath(filename)
	if err != nil {
		return "PDF content"
	}

	text, err := s.pdfParser.ExtractText(path)
	if err != nil {
		log.Printf("⚠️  Local text extraction failed for %s: %v\n", filename, err)
		return "PDF content"
	}
	return text
}

func resumeFilename(resumeURL string) (string, error) {
	parsed, err := url.Parse(resumeURL)
	if err != nil {
		return "", apperr.Validation("invalid resume URL")
	}

	name := path.Base(parsed.Path)
	if name == "" || name == "." || name == "/" {
		return "", apperr.Validation("resume URL has no filename")
	}
	return name, nil
}
