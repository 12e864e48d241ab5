package services

import (
	"strings"
	"testing"

	"hireflow/internal/models"
)

func TestBuildInterviewQuestionPromptDifficultyRamp(t *testing.T) {
	pb := NewPromptBuilder()

	tests := []struct {
		number int
		phrase string
	}{
		{1, "easier, introductory"},
		{2, "easier, introductory"},
		{3, "moderate difficulty"},
		{5, "technical deep-dive"},
		{7, "advanced questions"},
		{8, "advanced questions"},
	}

	for _, tt := range tests {
		prompt := pb.BuildInterviewQuestionPrompt(&models.InterviewContext{
			JobTitle:       "Backend Engineer",
			QuestionNumber: tt.number,
		})
		if !strings.Contains(prompt, tt.phrase) {
			t.Errorf("question %d prompt missing %q", tt.number, tt.phrase)
		}
	}
}

func TestBuildInterviewQuestionPromptIncludesHistory(t *testing.T) {
	pb := NewPromptBuilder()

	prompt := pb.BuildInterviewQuestionPrompt(&models.InterviewContext{
		JobTitle:       "Backend Engineer",
		QuestionNumber: 3,
		PreviousQA: []models.QAPair{
			{Question: "Tell me about Go.", Answer: "I like goroutines.", Feedback: "Good start."},
			{Question: "And databases?", Answer: "PostgreSQL mostly."},
		},
	})

	for _, want := range []string{"Tell me about Go.", "I like goroutines.", "Good start.", "PostgreSQL mostly."} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing history element %q", want)
		}
	}
}

func TestBuildEvaluationPromptContainsSelectionRule(t *testing.T) {
	pb := NewPromptBuilder()

	prompt := pb.BuildEvaluationPrompt(&models.EvaluationContext{
		JobTitle: "Backend Engineer",
		AllQA:    []models.QAPair{{Question: "Q1", Answer: "A1"}},
	})

	if !strings.Contains(prompt, "overall score >= 70 AND technical score >= 65") {
		t.Error("evaluation prompt missing the selection rule")
	}
	if !strings.Contains(prompt, `"decision": "selected" or "rejected"`) {
		t.Error("evaluation prompt missing the decision schema")
	}
}

func TestBuildClosingMessage(t *testing.T) {
	pb := NewPromptBuilder()

	selected := pb.BuildClosingMessage(models.DecisionSelected, "HR will contact you.")
	if !strings.HasPrefix(selected, "Congratulations!") {
		t.Errorf("selected closing = %q", selected)
	}

	rejected := pb.BuildClosingMessage(models.DecisionRejected, "Keep building your portfolio.")
	if !strings.HasPrefix(rejected, "Thank you for your time.") {
		t.Errorf("rejected closing = %q", rejected)
	}
	if !strings.Contains(rejected, "Keep building your portfolio.") {
		t.Error("closing message must carry the next steps")
	}
}

func TestTruncateText(t *testing.T) {
	if got := truncateText("short", 10); got != "short" {
		t.Errorf("truncateText(short) = %q", got)
	}
	if got := truncateText("hello world", 5); got != "hello" {
		t.Errorf("truncateText = %q, want %q", got, "hello")
	}
}
