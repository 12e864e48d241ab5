package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"hireflow/internal/apperr"
	"hireflow/internal/models"
	"hireflow/internal/repositories"
)

const (
	// TotalQuestions is the fixed length of every interview.
	TotalQuestions = 8

	// NoAnswerSentinel is submitted in place of an empty buffer when the
	// countdown expires, so the session always makes forward progress.
	NoAnswerSentinel = "No answer provided."

	defaultAnswerTimeLimit = 180 * time.Second
	minHighlightInterval   = 10 * time.Millisecond
	gatewayTimeout         = 2 * time.Minute
	narrationTimeout       = time.Minute
)

type SessionState string

const (
	StateInitializing   SessionState = "initializing"
	StateAwaitingAnswer SessionState = "awaiting_answer"
	StateSubmitting     SessionState = "submitting"
	StateEvaluating     SessionState = "evaluating"
	StateComplete       SessionState = "complete"
	StateFailed         SessionState = "failed"
)

// Terminal reports whether the state accepts no further input.
func (s SessionState) Terminal() bool {
	return s == StateComplete || s == StateFailed
}

type SessionConfig struct {
	AnswerTimeLimit  time.Duration
	NarrationEnabled bool
}

// InterviewSession drives one candidate interview: question sequencing, the
// per-question countdown, the answer buffer fed by edits and transcripts,
// narration playback with word highlighting, and final evaluation.
//
// All mutable state sits behind one mutex. Every timer and ticker is a
// cancellable handle invalidated by an epoch counter that increments on each
// state transition, so callbacks from a superseded state are no-ops.
type InterviewSession struct {
	mu sync.Mutex

	applicationID  uuid.UUID
	resumeText     string
	jobDescription string
	jobTitle       string

	state          SessionState
	epoch          uint64
	question       string
	questionNumber int
	answer         string
	history        []models.QAPair
	evaluation     *models.Evaluation
	lastErr        string
	closed         bool
	inflight       bool

	// Countdown
	remaining      time.Duration
	deadline       time.Time
	countdownTimer *time.Timer
	timerRunning   bool

	// Narration playback
	narrating     bool
	narration     *Narration
	tokens        []string
	highlightIdx  int
	highlightTick *time.Ticker
	highlightDone chan struct{}

	interview InterviewService
	speech    SpeechService
	appRepo   repositories.ApplicationRepository
	prompts   *PromptBuilder
	cfg       SessionConfig
}

func newInterviewSession(
	app *models.Application,
	interview InterviewService,
	speech SpeechService,
	appRepo repositories.ApplicationRepository,
	cfg SessionConfig,
) *InterviewSession {
	if cfg.AnswerTimeLimit <= 0 {
		cfg.AnswerTimeLimit = defaultAnswerTimeLimit
	}

	resumeText := ""
	if app.ResumeText != nil {
		resumeText = *app.ResumeText
	}

	return &InterviewSession{
		applicationID:  app.ID,
		resumeText:     resumeText,
		jobDescription: app.Job.Description,
		jobTitle:       app.Job.Title,
		state:          StateInitializing,
		highlightIdx:   -1,
		remaining:      cfg.AnswerTimeLimit,
		interview:      interview,
		speech:         speech,
		appRepo:        appRepo,
		prompts:        NewPromptBuilder(),
		cfg:            cfg,
	}
}

// SessionSnapshot is a consistent read of the session for the presentation
// layer.
type SessionSnapshot struct {
	ApplicationID  uuid.UUID          `json:"application_id"`
	State          SessionState       `json:"state"`
	QuestionNumber int                `json:"question_number"`
	Question       string             `json:"question"`
	Answer         string             `json:"answer"`
	History        []models.QAPair    `json:"history"`
	Narrating      bool               `json:"narrating"`
	HighlightIndex int                `json:"highlight_index"`
	RemainingMS    int64              `json:"remaining_ms"`
	Evaluation     *models.Evaluation `json:"evaluation,omitempty"`
	Error          string             `json:"error,omitempty"`
}

func (s *InterviewSession) Snapshot() SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	remaining := s.remaining
	if s.timerRunning {
		remaining = time.Until(s.deadline)
		if remaining < 0 {
			remaining = 0
		}
	}

	history := append([]models.QAPair(nil), s.history...)

	return SessionSnapshot{
		ApplicationID:  s.applicationID,
		State:          s.state,
		QuestionNumber: s.questionNumber,
		Question:       s.question,
		Answer:         s.answer,
		History:        history,
		Narrating:      s.narrating,
		HighlightIndex: s.highlightIdx,
		RemainingMS:    remaining.Milliseconds(),
		Evaluation:     s.evaluation,
		Error:          s.lastErr,
	}
}

// CurrentNarration returns the latest synthesized audio, if any.
func (s *InterviewSession) CurrentNarration() *Narration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.narration
}

// EditAnswer replaces the answer buffer with a direct text edit.
func (s *InterviewSession) EditAnswer(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return apperr.Validation("session is closed")
	}
	if s.state != StateAwaitingAnswer {
		return apperr.Validation("no question is awaiting an answer")
	}
	if s.inflight {
		return apperr.Validation("session is busy")
	}

	s.answer = text
	return nil
}

// AppendTranscript appends one transcription result to the answer buffer,
// space-joined, never overwriting prior content. Exactly one append per call.
func (s *InterviewSession) AppendTranscript(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return apperr.Validation("session is closed")
	}
	if s.state != StateAwaitingAnswer {
		return apperr.Validation("no question is awaiting an answer")
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return apperr.Validation("transcript must not be empty")
	}

	if s.answer == "" {
		s.answer = text
	} else {
		s.answer = s.answer + " " + text
	}
	return nil
}

// Submit hands in the current answer. Manual submission requires a
// non-empty, non-whitespace buffer and never reaches a gateway otherwise.
func (s *InterviewSession) Submit(ctx context.Context) error {
	return s.submit(ctx, false, 0)
}

// Retry reattempts the last failed question fetch. Only meaningful while
// the session sits in initializing or submitting with a recorded error.
func (s *InterviewSession) Retry(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return apperr.Validation("session is closed")
	}
	if s.state != StateInitializing && s.state != StateSubmitting {
		s.mu.Unlock()
		return apperr.Validation("nothing to retry in state %q", s.state)
	}
	if len(s.history) >= TotalQuestions {
		s.mu.Unlock()
		return s.evaluate(ctx)
	}
	s.mu.Unlock()

	return s.requestQuestion(ctx)
}

// StopNarration lets the user cut playback short; the countdown starts
// immediately.
func (s *InterviewSession) StopNarration() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.narrating {
		return
	}
	// Invalidate any synthesis still in flight for this narration.
	s.epoch++
	s.stopHighlightLocked()
	s.narrating = false
	if s.state == StateAwaitingAnswer {
		s.startCountdownLocked()
	}
}

// Close abandons the session. In-memory history is dropped; nothing partial
// is persisted.
func (s *InterviewSession) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.epoch++
	s.cancelTimersLocked()
}

func (s *InterviewSession) submit(ctx context.Context, forced bool, expectEpoch uint64) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return apperr.Validation("session is closed")
	}
	if forced && expectEpoch != s.epoch {
		// Stale timer callback from a superseded state.
		s.mu.Unlock()
		return nil
	}
	if s.state != StateAwaitingAnswer {
		s.mu.Unlock()
		return apperr.Validation("no question is awaiting an answer")
	}
	if s.inflight {
		s.mu.Unlock()
		return apperr.Validation("a submission is already in progress")
	}

	answer := strings.TrimSpace(s.answer)
	if answer == "" {
		if !forced {
			s.mu.Unlock()
			return apperr.Validation("answer must not be empty")
		}
		answer = NoAnswerSentinel
	}

	question := s.question
	number := s.questionNumber
	s.transitionLocked(StateSubmitting)
	s.history = append(s.history, models.QAPair{Question: question, Answer: answer})
	s.answer = ""
	s.inflight = true

	fc := &models.FeedbackContext{
		Question:       question,
		Answer:         answer,
		ResumeText:     s.resumeText,
		JobDescription: s.jobDescription,
		QuestionNumber: number,
	}
	s.mu.Unlock()

	// Per-answer feedback is attached when available; a failure here never
	// blocks progress.
	feedback, err := s.interview.Feedback(ctx, fc)

	s.mu.Lock()
	s.inflight = false
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	if err != nil {
		log.Printf("⚠️  Feedback for question %d failed: %v\n", number, err)
	} else if len(s.history) > 0 {
		s.history[len(s.history)-1].Feedback = feedback
	}
	done := len(s.history) >= TotalQuestions
	s.mu.Unlock()

	if done {
		return s.evaluate(ctx)
	}
	return s.requestQuestion(ctx)
}

// requestQuestion fetches question len(history)+1. On failure the machine
// stays where it is and the fetch may be retried.
func (s *InterviewSession) requestQuestion(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return apperr.Validation("session is closed")
	}
	if s.inflight {
		s.mu.Unlock()
		return apperr.Validation("a request is already in progress")
	}
	s.inflight = true

	ic := &models.InterviewContext{
		ResumeText:     s.resumeText,
		JobDescription: s.jobDescription,
		JobTitle:       s.jobTitle,
		QuestionNumber: len(s.history) + 1,
		PreviousQA:     append([]models.QAPair(nil), s.history...),
	}
	s.mu.Unlock()

	question, err := s.interview.NextQuestion(ctx, ic)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inflight = false
	if s.closed {
		return nil
	}
	if err != nil {
		s.lastErr = err.Error()
		return err
	}

	s.lastErr = ""
	s.question = question
	s.questionNumber = ic.QuestionNumber
	s.answer = ""
	s.remaining = s.cfg.AnswerTimeLimit
	s.transitionLocked(StateAwaitingAnswer)
	s.beginNarrationLocked(question)
	return nil
}

// evaluate runs the terminal assessment over the full transcript. A failure
// here is terminal: the machine moves to failed and nothing is persisted.
func (s *InterviewSession) evaluate(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return apperr.Validation("session is closed")
	}
	if s.inflight {
		s.mu.Unlock()
		return apperr.Validation("a request is already in progress")
	}
	s.transitionLocked(StateEvaluating)
	s.inflight = true

	ec := &models.EvaluationContext{
		ResumeText:     s.resumeText,
		JobDescription: s.jobDescription,
		JobTitle:       s.jobTitle,
		AllQA:          append([]models.QAPair(nil), s.history...),
	}
	s.mu.Unlock()

	evaluation, err := s.interview.Evaluate(ctx, ec)

	s.mu.Lock()
	s.inflight = false
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	if err != nil {
		s.lastErr = err.Error()
		s.transitionLocked(StateFailed)
		s.mu.Unlock()
		return err
	}

	s.evaluation = evaluation
	s.transitionLocked(StateComplete)
	closing := s.prompts.BuildClosingMessage(evaluation.Decision, evaluation.NextSteps)
	appID := s.applicationID
	s.mu.Unlock()

	// Fire-and-forget single-row update; exactly one session operates per
	// application id at a time.
	resultJSON, err := json.Marshal(evaluation)
	if err == nil {
		shortlisted := evaluation.Decision == models.DecisionSelected
		if err := s.appRepo.UpdateInterviewResult(appID, string(resultJSON), shortlisted); err != nil {
			log.Printf("⚠️  Failed to persist interview result for %s: %v\n", appID, err)
		}
	}

	s.mu.Lock()
	s.beginNarrationLocked(closing)
	s.mu.Unlock()
	return nil
}

// transitionLocked changes state, invalidates outstanding timer callbacks,
// and cancels every periodic task. Callers hold the mutex.
func (s *InterviewSession) transitionLocked(next SessionState) {
	s.state = next
	s.epoch++
	s.cancelTimersLocked()
}

func (s *InterviewSession) cancelTimersLocked() {
	if s.countdownTimer != nil {
		s.countdownTimer.Stop()
		s.countdownTimer = nil
	}
	s.timerRunning = false
	s.stopHighlightLocked()
	s.narrating = false
}

func (s *InterviewSession) startCountdownLocked() {
	if s.timerRunning || s.state != StateAwaitingAnswer {
		return
	}
	if s.remaining <= 0 {
		s.remaining = s.cfg.AnswerTimeLimit
	}

	epoch := s.epoch
	s.deadline = time.Now().Add(s.remaining)
	s.timerRunning = true
	s.countdownTimer = time.AfterFunc(s.remaining, func() {
		s.onTimerExpired(epoch)
	})
}

// onTimerExpired forces submission, exactly as if the user clicked submit,
// with the empty-buffer check relaxed.
func (s *InterviewSession) onTimerExpired(epoch uint64) {
	s.mu.Lock()
	if s.closed || epoch != s.epoch || s.state != StateAwaitingAnswer {
		s.mu.Unlock()
		return
	}
	s.timerRunning = false
	s.remaining = 0
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), gatewayTimeout)
	defer cancel()

	if err := s.submit(ctx, true, epoch); err != nil {
		log.Printf("⚠️  Forced submission failed for %s: %v\n", s.applicationID, err)
	}
}

// beginNarrationLocked kicks off the playback sub-protocol for the given
// text. The countdown stays paused until narration finishes; if synthesis
// fails or narration is disabled, the text displays silently and the
// countdown starts immediately.
func (s *InterviewSession) beginNarrationLocked(text string) {
	if !s.cfg.NarrationEnabled {
		s.startCountdownLocked()
		return
	}

	s.narrating = true
	epoch := s.epoch

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), narrationTimeout)
		defer cancel()

		narration, err := s.speech.Synthesize(ctx, text)

		s.mu.Lock()
		defer s.mu.Unlock()

		if s.closed || epoch != s.epoch {
			return
		}

		tokens := strings.Fields(text)
		if err != nil || len(tokens) == 0 || narration.Duration <= 0 {
			if err != nil {
				log.Printf("⚠️  Narration synthesis failed: %v\n", err)
			}
			s.narrating = false
			s.startCountdownLocked()
			return
		}

		s.narration = narration
		s.tokens = tokens
		s.highlightIdx = 0
		s.startHighlightLocked(narrationInterval(narration.Duration, len(tokens)), epoch)
	}()
}

func (s *InterviewSession) startHighlightLocked(interval time.Duration, epoch uint64) {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})
	s.highlightTick = ticker
	s.highlightDone = done

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if s.advanceHighlight(epoch) {
					return
				}
			}
		}
	}()
}

// advanceHighlight moves the word cursor one token; returns true when the
// ticker should stop.
func (s *InterviewSession) advanceHighlight(epoch uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || epoch != s.epoch || !s.narrating {
		return true
	}

	s.highlightIdx++
	if s.highlightIdx >= len(s.tokens) {
		s.stopHighlightLocked()
		s.narrating = false
		if s.state == StateAwaitingAnswer {
			s.startCountdownLocked()
		}
		return true
	}
	return false
}

func (s *InterviewSession) stopHighlightLocked() {
	if s.highlightDone != nil {
		close(s.highlightDone)
		s.highlightDone = nil
	}
	if s.highlightTick != nil {
		s.highlightTick.Stop()
		s.highlightTick = nil
	}
	s.highlightIdx = -1
	s.tokens = nil
}

// narrationInterval is the per-token display interval: audio duration spread
// evenly across whitespace-delimited tokens.
func narrationInterval(duration time.Duration, tokenCount int) time.Duration {
	if tokenCount <= 0 {
		return minHighlightInterval
	}
	interval := duration / time.Duration(tokenCount)
	if interval < minHighlightInterval {
		interval = minHighlightInterval
	}
	return interval
}

// SessionManager owns at most one live session per application id.
type SessionManager struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*InterviewSession

	appRepo   repositories.ApplicationRepository
	interview InterviewService
	speech    SpeechService
	cfg       SessionConfig
}

func NewSessionManager(
	appRepo repositories.ApplicationRepository,
	interview InterviewService,
	speech SpeechService,
	cfg SessionConfig,
) *SessionManager {
	return &SessionManager{
		sessions:  make(map[uuid.UUID]*InterviewSession),
		appRepo:   appRepo,
		interview: interview,
		speech:    speech,
		cfg:       cfg,
	}
}

// Start creates (or returns) the session for an eligible application and
// fetches question 1. A first-question failure leaves the session in
// initializing; the fetch may be retried.
func (m *SessionManager) Start(ctx context.Context, applicationID uuid.UUID) (*InterviewSession, error) {
	app, err := m.appRepo.FindByID(applicationID)
	if err != nil {
		return nil, err
	}

	switch app.InterviewStatus {
	case models.InterviewStatusEligible:
	case models.InterviewStatusCompleted:
		return nil, apperr.Validation("interview already completed")
	default:
		return nil, apperr.Validation("application is not eligible for an interview")
	}

	m.mu.Lock()
	if existing, ok := m.sessions[applicationID]; ok {
		snapshot := existing.Snapshot()
		if !snapshot.State.Terminal() {
			m.mu.Unlock()
			return existing, nil
		}
		existing.Close()
	}

	session := newInterviewSession(app, m.interview, m.speech, m.appRepo, m.cfg)
	m.sessions[applicationID] = session
	m.mu.Unlock()

	if err := session.requestQuestion(ctx); err != nil {
		return session, fmt.Errorf("failed to fetch first question: %w", err)
	}
	return session, nil
}

func (m *SessionManager) Get(applicationID uuid.UUID) (*InterviewSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.sessions[applicationID]
	if !ok {
		return nil, apperr.NotFound("interview session for application %s", applicationID)
	}
	return session, nil
}

// Close abandons a session and drops it from the registry.
func (m *SessionManager) Close(applicationID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.sessions[applicationID]
	if !ok {
		return apperr.NotFound("interview session for application %s", applicationID)
	}
	session.Close()
	delete(m.sessions, applicationID)
	return nil
}

// Shutdown cancels every live session's timers.
func (m *SessionManager) Shutdown() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, session := range m.sessions {
		session.Close()
		delete(m.sessions, id)
	}
}
