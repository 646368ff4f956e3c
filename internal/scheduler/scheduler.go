package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/nievasdev/brazilgas/internal/fuel"
	"github.com/nievasdev/brazilgas/internal/logger"
)

// Refresher reloads the dataset.
type Refresher interface {
	Refresh(ctx context.Context) (fuel.LoadSummary, error)
}

// Scheduler periodically reloads the survey dataset.
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   Refresher
	interval  time.Duration
	log       *logger.Entry

	// ctx bounds every reload; Stop cancels it.
	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a new Scheduler. A non-positive interval disables reloading.
func New(interval time.Duration, service Refresher, log *logger.Log) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		service:   service,
		interval:  interval,
		log:       log.WithComponent("scheduler"),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Start schedules the reload job and starts the underlying scheduler. The
// first run happens one interval from now; the initial load is the caller's.
func (s *Scheduler) Start() error {
	if s.interval <= 0 {
		s.log.Info("periodic reload disabled")
		return nil
	}

	_, err := s.scheduler.Every(s.interval).WaitForSchedule().SingletonMode().Do(s.run)
	if err != nil {
		return err
	}

	s.log.WithFields(logger.Fields{"interval": s.interval.String()}).Info("periodic reload scheduled")
	s.scheduler.StartAsync()
	return nil
}

func (s *Scheduler) run() {
	summary, err := s.service.Refresh(s.ctx)
	if err != nil {
		// The previous dataset keeps being served.
		s.log.WithError(err).Error("dataset reload failed")
		return
	}
	s.log.WithFields(logger.Fields{"dataset_id": summary.ID, "accepted": summary.Stats.Accepted}).Info("dataset reloaded")
}

// Stop cancels an in-flight reload and stops the scheduler.
func (s *Scheduler) Stop() {
	s.cancel()
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
