package services

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"hireflow/internal/repositories"
)

// Worker scores applications in the background. Uploads enqueue directly;
// the poller sweeps up applications that were submitted but never scored,
// e.g. after a crash between upload and analysis.
type Worker interface {
	Start(ctx context.Context)
	Stop()
	EnqueueApplication(appID uuid.UUID)
}

type worker struct {
	appRepo      repositories.ApplicationRepository
	analyzer     ResumeAnalyzerService
	jobQueue     chan uuid.UUID
	concurrency  int
	pollInterval time.Duration
	wg           sync.WaitGroup
	stopChan     chan struct{}

	mu       sync.Mutex
	inflight map[uuid.UUID]struct{}
}

func NewWorker(
	appRepo repositories.ApplicationRepository,
	analyzer ResumeAnalyzerService,
	concurrency int,
	pollInterval time.Duration,
) Worker {
	if concurrency < 1 {
		concurrency = 1
	}
	if pollInterval <= 0 {
		pollInterval = 10 * time.Second
	}
	return &worker{
		appRepo:      appRepo,
		analyzer:     analyzer,
		jobQueue:     make(chan uuid.UUID, 100),
		concurrency:  concurrency,
		pollInterval: pollInterval,
		stopChan:     make(chan struct{}),
		inflight:     make(map[uuid.UUID]struct{}),
	}
}

// Start implements Worker.
func (w *worker) Start(ctx context.Context) {
	log.Printf("🚀 Starting worker with %d concurrent workers\n", w.concurrency)

	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.processApplications(ctx, i+1)
	}

	w.wg.Add(1)
	go w.pollUnanalyzed(ctx)

	log.Println("✅ Worker started successfully")
}

// Stop implements Worker.
func (w *worker) Stop() {
	log.Println("🛑 Stopping worker...")
	close(w.stopChan)
	w.wg.Wait()
	log.Println("✅ Worker stopped")
}

// EnqueueApplication implements Worker. An application that is already
// queued or being analyzed is not enqueued again; the poller sweeps on a
// timer and must not schedule a second scoring call for a slow analysis.
func (w *worker) EnqueueApplication(appID uuid.UUID) {
	if !w.claim(appID) {
		return
	}

	select {
	case w.jobQueue <- appID:
		log.Printf("📥 Application %s enqueued for analysis\n", appID)
	case <-w.stopChan:
		w.release(appID)
		log.Printf("⚠️  Worker stopped, cannot enqueue application %s\n", appID)
	}
}

func (w *worker) claim(appID uuid.UUID) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.inflight[appID]; ok {
		return false
	}
	w.inflight[appID] = struct{}{}
	return true
}

func (w *worker) release(appID uuid.UUID) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.inflight, appID)
}

func (w *worker) processApplications(ctx context.Context, workerID int) {
	defer w.wg.Done()
	log.Printf("🚀 Worker %d started processing applications\n", workerID)

	for {
		select {
		case <-w.stopChan:
			log.Printf("👷 Worker #%d stopped\n", workerID)
			return
		case appID := <-w.jobQueue:
			log.Printf("👷 Worker #%d analyzing application %s\n", workerID, appID)
			if _, err := w.analyzer.AnalyzeApplication(ctx, appID); err != nil {
				log.Printf("❌ Worker #%d failed to analyze application %s: %v\n", workerID, appID, err)
			} else {
				log.Printf("✅ Worker #%d finished application %s\n", workerID, appID)
			}
			w.release(appID)
		}
	}
}

func (w *worker) pollUnanalyzed(ctx context.Context) {
	defer w.wg.Done()
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	log.Println("🔄 Starting unanalyzed applications poller")

	for {
		select {
		case <-w.stopChan:
			log.Println("🔄 Unanalyzed applications poller stopped")
			return
		case <-ticker.C:
			pending, err := w.appRepo.FindUnanalyzed(10)
			if err != nil {
				log.Printf("⚠️  Failed to fetch unanalyzed applications: %v\n", err)
				continue
			}

			if len(pending) > 0 {
				log.Printf("📋 Found %d unanalyzed applications\n", len(pending))
			}

			for _, app := range pending {
				w.EnqueueApplication(app.ID)
			}
		}
	}
}
