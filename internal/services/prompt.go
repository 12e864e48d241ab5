package services

import (
	"fmt"
	"strings"

	"hireflow/internal/models"
)

// TranscriptionPrompt accompanies inline audio sent for speech-to-text.
const TranscriptionPrompt = "Transcribe this audio recording accurately. Only provide the transcription text, nothing else."

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildResumeAnalysisPrompt creates the prompt sent alongside the resume PDF.
func (pb *PromptBuilder) BuildResumeAnalysisPrompt(jobTitle, jobDescription string) string {
	return fmt.Sprintf(`You are an expert AI recruiter with 15+ years of experience in talent acquisition and candidate assessment.

POSITION: %s

JOB REQUIREMENTS:
%s

TASK: Analyze the attached resume PDF and provide:
1. Extract Resume Content: parse all text from the PDF including education, experience, skills, projects, certifications
2. Educational Background Analysis: degrees, institutions, relevant coursework
3. Professional Experience Analysis: years, companies, roles, technologies, achievements
4. Technical Skills Assessment: languages, frameworks, tools, domain knowledge
5. Projects & Achievements: notable work, measurable impact
6. Overall Match Score (0-100) based on weighted criteria:
   - Education: 20%%
   - Experience: 40%%
   - Skills: 25%%
   - Projects: 15%%

Scoring guide:
- 85-100: Outstanding match
- 70-84: Strong match
- 60-69: Good match
- 45-59: Moderate match
- Below 45: Not suitable

Return JSON:
{
  "matchScore": <number 0-100>,
  "extractedText": "<full resume text>",
  "summary": "<2-3 sentence assessment>",
  "strengths": ["strength1", "strength2", "strength3"],
  "concerns": ["concern1", "concern2"],
  "recommendation": "proceed" or "reject"
}

Only return valid JSON, no additional text.`, jobTitle, jobDescription)
}

// BuildInterviewQuestionPrompt creates the prompt for the next question.
// Difficulty ramps with the question number and every question must reference
// the candidate's actual resume content.
func (pb *PromptBuilder) BuildInterviewQuestionPrompt(ic *models.InterviewContext) string {
	var previousContext string
	if len(ic.PreviousQA) > 0 {
		var parts []string
		for i, qa := range ic.PreviousQA {
			entry := fmt.Sprintf("Q%d: %s\nCandidate's Answer: %s", i+1, qa.Question, qa.Answer)
			if qa.Feedback != "" {
				entry += fmt.Sprintf("\nYour Feedback: %s", qa.Feedback)
			}
			parts = append(parts, entry)
		}
		previousContext = "\n\nPrevious Questions, Answers, and Your Feedback:\n" + strings.Join(parts, "\n\n")
	}

	var difficultyGuidance string
	switch {
	case ic.QuestionNumber <= 2:
		difficultyGuidance = "Start with easier, introductory questions to make the candidate comfortable."
	case ic.QuestionNumber <= 4:
		difficultyGuidance = "Ask moderate difficulty questions. Based on their previous answers, adjust the complexity."
	case ic.QuestionNumber <= 6:
		difficultyGuidance = "Increase difficulty. Ask technical deep-dive questions or challenging scenarios."
	default:
		difficultyGuidance = "Ask advanced questions or final clarifications. Be more challenging if they've done well, or focus on areas where they struggled."
	}

	return fmt.Sprintf(`You are a Senior Technical Interviewer with 15+ years of experience conducting professional, insightful interviews.

POSITION: %s

JOB REQUIREMENTS:
%s

CANDIDATE'S RESUME HIGHLIGHTS:
%s%s

CURRENT PROGRESS:
- Question %d of %d
- %s

CRITICAL RULES:
1. Reference ONLY specific details from THIS candidate's actual resume (universities, companies, projects, technologies)
2. If a previous answer was weak on a topic, switch to a different skill or experience from their resume
3. If a previous answer was strong, increase complexity on the same topic or move to the next relevant skill
4. Every question must feel personalized to this candidate - no generic placeholders
5. Be natural and conversational, not robotic

Generate ONE focused question appropriate for question %d.

Return ONLY the question text - no labels, no formatting, just the question.`,
		ic.JobTitle,
		truncateText(ic.JobDescription, 800),
		truncateText(ic.ResumeText, 1500),
		previousContext,
		ic.QuestionNumber, TotalQuestions,
		difficultyGuidance,
		ic.QuestionNumber)
}

// BuildFeedbackPrompt creates the prompt for per-answer interviewer feedback.
func (pb *PromptBuilder) BuildFeedbackPrompt(fc *models.FeedbackContext) string {
	return fmt.Sprintf(`You are a professional interviewer providing real-time constructive feedback to a candidate during their interview.

THE QUESTION YOU ASKED:
"%s"

THE CANDIDATE'S ANSWER:
"%s"

CONTEXT:
- Position: %s
- Candidate's Background: %s
- This is question %d of %d

FEEDBACK GUIDELINES:
1. Start positive and connect it to their background ("Given your experience at...")
2. Be specific and resume-aware: validate claimed knowledge, note gaps between resume claims and the answer
3. Be constructive and targeted; redirect gently if the answer was off-track
4. Be encouraging but honest
5. Be brief: 2-3 sentences maximum

Always reference something specific from their resume (education, company, project, technology) so the feedback feels personalized.

Provide ONLY your feedback, no additional formatting or labels.`,
		fc.Question,
		fc.Answer,
		truncateText(fc.JobDescription, 400),
		truncateText(fc.ResumeText, 800),
		fc.QuestionNumber, TotalQuestions)
}

// BuildEvaluationPrompt creates the prompt for the final multi-axis
// assessment of the full transcript. The selection rule lives here:
// selected iff overall >= 70 and technical >= 65.
func (pb *PromptBuilder) BuildEvaluationPrompt(ec *models.EvaluationContext) string {
	var parts []string
	for i, qa := range ec.AllQA {
		entry := fmt.Sprintf("Q%d: %s\nA%d: %s", i+1, qa.Question, i+1, qa.Answer)
		if qa.Feedback != "" {
			entry += fmt.Sprintf("\nFeedback Given: %s", qa.Feedback)
		}
		parts = append(parts, entry)
	}
	qaText := strings.Join(parts, "\n\n")

	return fmt.Sprintf(`You are the Head of Talent Acquisition conducting a comprehensive evaluation of a candidate's complete interview performance.

POSITION: %s

JOB REQUIREMENTS:
%s

CANDIDATE'S RESUME:
%s

COMPLETE INTERVIEW TRANSCRIPT:
%s

EVALUATION TASK:
Assess how well the candidate DEMONSTRATED their claimed background during the interview.

1. Technical Proficiency (0-100): did their answers match the depth expected from their resume and years of experience?
2. Communication Skills (0-100): clear, well-structured, professional answers at the claimed seniority level?
3. Experience Alignment & Role Fit (0-100): education match 20%%, experience relevance 40%%, skills demonstration 25%%, project alignment 15%%
4. Overall Assessment (0-100): holistic view combining resume strength and interview performance

Scoring guide:
- 85-100: Outstanding - resume and interview both exceptional
- 70-84: Strong - good resume, solid interview performance
- 60-69: Moderate - decent background but interview showed gaps
- 45-59: Weak - interview performance concerning
- Below 45: Not suitable - significant gaps between resume and demonstrated ability

FINAL DECISION:
"selected" if overall score >= 70 AND technical score >= 65 AND their interview validated their resume claims; "rejected" otherwise.

FEEDBACK (4-6 sentences): resume-aware and specific, referencing their education, companies, and concrete answers, with honest notes on gaps.

NEXT STEPS: if selected, congratulate and promise contact within 2 business days to schedule the next round. If rejected, a professional, encouraging message with specific advice.

Provide a JSON response with:
{
  "overallScore": <number 0-100>,
  "technicalScore": <number 0-100>,
  "communicationScore": <number 0-100>,
  "cultureFitScore": <number 0-100>,
  "decision": "selected" or "rejected",
  "feedback": "<4-6 sentences with concrete examples>",
  "nextSteps": "<clear, personalized next steps>"
}

Only return valid JSON, no additional text.`,
		ec.JobTitle,
		ec.JobDescription,
		truncateText(ec.ResumeText, 2000),
		qaText)
}

// BuildClosingMessage composes the narration spoken when a session completes.
func (pb *PromptBuilder) BuildClosingMessage(decision models.Decision, nextSteps string) string {
	if decision == models.DecisionSelected {
		return fmt.Sprintf("Congratulations! %s", nextSteps)
	}
	return fmt.Sprintf("Thank you for your time. %s", nextSteps)
}

func truncateText(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
