package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"hireflow/internal/models"
)

type recordingAnalyzer struct {
	mu       sync.Mutex
	analyzed []uuid.UUID
}

func (a *recordingAnalyzer) AnalyzeApplication(ctx context.Context, appID uuid.UUID) (*models.MatchAnalysis, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.analyzed = append(a.analyzed, appID)
	return &models.MatchAnalysis{MatchScore: 75}, nil
}

func (a *recordingAnalyzer) analyzedIDs() []uuid.UUID {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]uuid.UUID(nil), a.analyzed...)
}

func TestWorkerProcessesEnqueuedApplications(t *testing.T) {
	repo := &stubAppRepo{app: eligibleApp()}
	analyzer := &recordingAnalyzer{}
	w := NewWorker(repo, analyzer, 2, time.Hour)

	w.Start(context.Background())
	defer w.Stop()

	id := uuid.New()
	w.EnqueueApplication(id)

	waitFor(t, 2*time.Second, func() bool {
		return len(analyzer.analyzedIDs()) == 1
	})

	if got := analyzer.analyzedIDs()[0]; got != id {
		t.Fatalf("analyzed %s, want %s", got, id)
	}
}

func TestWorkerPollerSweepsUnanalyzed(t *testing.T) {
	pending := *eligibleApp()
	pending.InterviewStatus = models.InterviewStatusNone
	repo := &stubAppRepo{app: &pending, unanalyzed: []models.Application{pending}}
	analyzer := &recordingAnalyzer{}
	w := NewWorker(repo, analyzer, 1, 10*time.Millisecond)

	w.Start(context.Background())
	defer w.Stop()

	waitFor(t, 2*time.Second, func() bool {
		return len(analyzer.analyzedIDs()) >= 1
	})

	if got := analyzer.analyzedIDs()[0]; got != pending.ID {
		t.Fatalf("analyzed %s, want %s", got, pending.ID)
	}
}

type gatedAnalyzer struct {
	recordingAnalyzer
	gate    chan struct{}
	started chan struct{}
}

func (a *gatedAnalyzer) AnalyzeApplication(ctx context.Context, appID uuid.UUID) (*models.MatchAnalysis, error) {
	a.started <- struct{}{}
	<-a.gate
	return a.recordingAnalyzer.AnalyzeApplication(ctx, appID)
}

func TestWorkerDoesNotDuplicateSlowAnalysis(t *testing.T) {
	pending := *eligibleApp()
	pending.InterviewStatus = models.InterviewStatusNone
	repo := &stubAppRepo{app: &pending, unanalyzed: []models.Application{pending}}

	analyzer := &gatedAnalyzer{
		gate:    make(chan struct{}),
		started: make(chan struct{}, 16),
	}
	w := NewWorker(repo, analyzer, 2, 10*time.Millisecond)

	w.Start(context.Background())
	defer w.Stop()

	// First sweep picks the application up and blocks inside the analyzer.
	<-analyzer.started

	// Several more sweeps pass while the analysis is still running; none of
	// them may start a second scoring call for the same application.
	time.Sleep(60 * time.Millisecond)

	repo.mu.Lock()
	repo.unanalyzed = nil
	repo.mu.Unlock()
	close(analyzer.gate)

	waitFor(t, 2*time.Second, func() bool {
		return len(analyzer.analyzedIDs()) >= 1
	})
	time.Sleep(50 * time.Millisecond)

	if got := len(analyzer.analyzedIDs()); got != 1 {
		t.Fatalf("analysis ran %d times, want 1", got)
	}
}

func TestWorkerStopIsIdempotentForEnqueue(t *testing.T) {
	repo := &stubAppRepo{app: eligibleApp()}
	w := NewWorker(repo, &recordingAnalyzer{}, 1, time.Hour)

	w.Start(context.Background())
	w.Stop()

	// Enqueue after stop must not block or panic.
	done := make(chan struct{})
	go func() {
		w.EnqueueApplication(uuid.New())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("enqueue after stop blocked")
	}
}
