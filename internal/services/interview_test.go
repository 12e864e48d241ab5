package services

import (
	"context"
	"errors"
	"testing"

	"hireflow/internal/apperr"
	"hireflow/internal/models"
)

func TestNextQuestionValidatesRange(t *testing.T) {
	svc := NewInterviewService(&stubGemini{}, 3)

	for _, n := range []int{0, -1, TotalQuestions + 1} {
		_, err := svc.NextQuestion(context.Background(), &models.InterviewContext{QuestionNumber: n})
		if !errors.Is(err, apperr.ErrValidation) {
			t.Errorf("NextQuestion(%d) error = %v, want validation error", n, err)
		}
	}

	question, err := svc.NextQuestion(context.Background(), &models.InterviewContext{
		QuestionNumber: 1,
		JobTitle:       "Backend Engineer",
	})
	if err != nil {
		t.Fatalf("NextQuestion(1) failed: %v", err)
	}
	if question == "" {
		t.Fatal("expected a question")
	}
}

func TestEvaluateRequiresTranscript(t *testing.T) {
	svc := NewInterviewService(&stubGemini{}, 3)

	_, err := svc.Evaluate(context.Background(), &models.EvaluationContext{})
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("error = %v, want validation error", err)
	}
}

func TestEvaluateParsesModelResponse(t *testing.T) {
	gemini := &stubGemini{
		textFn: func(prompt string) (string, error) {
			return "```json\n" + `{
				"overallScore": 76,
				"technicalScore": 71,
				"communicationScore": 80,
				"cultureFitScore": 68,
				"decision": "selected",
				"feedback": "Clear and specific answers.",
				"nextSteps": "Expect an offer call."
			}` + "\n```", nil
		},
	}
	svc := NewInterviewService(gemini, 3)

	evaluation, err := svc.Evaluate(context.Background(), &models.EvaluationContext{
		AllQA: []models.QAPair{{Question: "Q1", Answer: "A1"}},
	})
	if err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}

	if evaluation.OverallScore != 76 {
		t.Errorf("overall score = %v, want 76", evaluation.OverallScore)
	}
	if evaluation.Decision != models.DecisionSelected {
		t.Errorf("decision = %q, want selected", evaluation.Decision)
	}
	if evaluation.NextSteps == "" {
		t.Error("next steps missing")
	}
}

func TestEvaluateSurfacesMalformedResponse(t *testing.T) {
	gemini := &stubGemini{
		textFn: func(prompt string) (string, error) {
			return "the candidate did fine", nil
		},
	}
	svc := NewInterviewService(gemini, 3)

	_, err := svc.Evaluate(context.Background(), &models.EvaluationContext{
		AllQA: []models.QAPair{{Question: "Q1", Answer: "A1"}},
	})
	if !errors.Is(err, apperr.ErrMalformedResponse) {
		t.Fatalf("error = %v, want malformed response", err)
	}
}
