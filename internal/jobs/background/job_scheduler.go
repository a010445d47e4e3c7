package background

import (
	"context"
	"log"
	"sync"
	"time"

	"freshtrack/internal/jobs"

	"github.com/go-co-op/gocron/v2"
)

// JobScheduler manages recurring background jobs
type JobScheduler struct {
	scheduler  gocron.Scheduler
	reconciler *jobs.ExpiryReconciler
	interval   time.Duration
	jobJobs    map[string]gocron.Job
	mu         sync.RWMutex
}

// NewJobScheduler creates a new job scheduler
func NewJobScheduler(reconciler *jobs.ExpiryReconciler, reconcileInterval time.Duration) *JobScheduler {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		log.Fatalf("Failed to create scheduler: %v", err)
	}

	js := &JobScheduler{
		scheduler:  scheduler,
		reconciler: reconciler,
		interval:   reconcileInterval,
		jobJobs:    make(map[string]gocron.Job),
	}

	js.registerJobs()

	return js
}

// Start starts the job scheduler
func (js *JobScheduler) Start() error {
	log.Printf("Starting background job scheduler")
	js.scheduler.Start()
	return nil
}

// Stop stops the job scheduler
func (js *JobScheduler) Stop() error {
	log.Printf("Stopping background job scheduler")
	return js.scheduler.Shutdown()
}

// registerJobs registers all background jobs
func (js *JobScheduler) registerJobs() {
	reconcileJob, err := js.scheduler.NewJob(
		gocron.DurationJob(js.interval),
		gocron.NewTask(js.runExpiryReconciliation, context.Background()),
		gocron.WithName("expiry-reconciliation"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create expiry reconciliation job: %v", err)
	} else {
		js.jobJobs["expiry-reconciliation"] = reconcileJob
	}
}

func (js *JobScheduler) runExpiryReconciliation(ctx context.Context) {
	if _, err := js.reconciler.Run(ctx); err != nil {
		log.Printf("Expiry reconciliation failed: %v", err)
	}
}
