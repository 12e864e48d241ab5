package services

import (
	"context"
	"fmt"
	"strings"

	"hireflow/internal/apperr"
	"hireflow/internal/models"
)

// InterviewService is the generative gateway behind the interview flow:
// next question, per-answer feedback, and the final evaluation.
type InterviewService interface {
	NextQuestion(ctx context.Context, ic *models.InterviewContext) (string, error)
	Feedback(ctx context.Context, fc *models.FeedbackContext) (string, error)
	Evaluate(ctx context.Context, ec *models.EvaluationContext) (*models.Evaluation, error)
}

type interviewService struct {
	geminiService GeminiService
	promptBuilder *PromptBuilder
	maxRetries    int
}

func NewInterviewService(geminiService GeminiService, maxRetries int) InterviewService {
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &interviewService{
		geminiService: geminiService,
		promptBuilder: NewPromptBuilder(),
		maxRetries:    maxRetries,
	}
}

// NextQuestion implements InterviewService.
func (s *interviewService) NextQuestion(ctx context.Context, ic *models.InterviewContext) (string, error) {
	if ic.QuestionNumber < 1 || ic.QuestionNumber > TotalQuestions {
		return "", apperr.Validation("question number %d out of range", ic.QuestionNumber)
	}

	prompt := s.promptBuilder.BuildInterviewQuestionPrompt(ic)

	question, err := s.geminiService.GenerateTextWithRetry(ctx, prompt, 0.8, s.maxRetries)
	if err != nil {
		return "", fmt.Errorf("failed to generate question %d: %w", ic.QuestionNumber, err)
	}

	return strings.TrimSpace(question), nil
}

// Feedback implements InterviewService.
func (s *interviewService) Feedback(ctx context.Context, fc *models.FeedbackContext) (string, error) {
	prompt := s.promptBuilder.BuildFeedbackPrompt(fc)

	feedback, err := s.geminiService.GenerateTextWithRetry(ctx, prompt, 0.7, s.maxRetries)
	if err != nil {
		return "", fmt.Errorf("failed to generate feedback: %w", err)
	}

	return strings.TrimSpace(feedback), nil
}

// Evaluate implements InterviewService. Single-shot by design: an
// evaluation failure is terminal for the session, never retried here.
func (s *interviewService) Evaluate(ctx context.Context, ec *models.EvaluationContext) (*models.Evaluation, error) {
	if len(ec.AllQA) == 0 {
		return nil, apperr.Validation("evaluation requires a transcript")
	}

	prompt := s.promptBuilder.BuildEvaluationPrompt(ec)

	response, err := s.geminiService.GenerateText(ctx, prompt, 0.5)
	if err != nil {
		return nil, fmt.Errorf("failed to generate evaluation: %w", err)
	}

	var evaluation models.Evaluation
	if err := parseJSONResponse(response, &evaluation); err != nil {
		return nil, fmt.Errorf("failed to parse evaluation: %w", err)
	}

	return &evaluation, nil
}
