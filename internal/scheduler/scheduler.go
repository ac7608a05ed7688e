package scheduler

import (
	"context"
	"log"
	"sync/atomic"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/i474232898/live-wallpaper/internal/wallpaper"
)

const jobTag = "wallpaper"

// Runner performs one wallpaper update cycle.
type Runner interface {
	Run(ctx context.Context) (wallpaper.RunRecord, error)
}

// Scheduler periodically updates the wallpaper.
type Scheduler struct {
	scheduler  *gocron.Scheduler
	runner     Runner
	schedule   Schedule
	runTimeout time.Duration
	job        *gocron.Job

	// running is set while a cycle is in flight. gocron's singleton mode does not
	// cover RunByTag, so overlapping triggers are dropped here.
	running atomic.Bool
}

// New creates a new Scheduler.
func New(schedule Schedule, runTimeout time.Duration, runner Runner) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler:  s,
		runner:     runner,
		schedule:   schedule,
		runTimeout: runTimeout,
	}
}

// Start schedules the periodic job and starts the underlying scheduler.
// The first cycle runs immediately.
func (s *Scheduler) Start() error {
	sched := s.scheduler
	if s.schedule.Cron != "" {
		sched = sched.Cron(s.schedule.Cron)
	} else {
		every := s.schedule.Every
		if every <= 0 {
			every = 15 * time.Minute
		}
		sched = sched.Every(every)
	}

	job, err := sched.SingletonMode().Tag(jobTag).Do(s.runOnce)
	if err != nil {
		return err
	}
	s.job = job

	log.Printf("scheduler: wallpaper job scheduled %s", s.schedule)
	s.scheduler.StartAsync()

	// Interval jobs start immediately on their own; cron jobs wait for the
	// first matching minute.
	if s.schedule.Cron != "" {
		return s.RunNow()
	}
	return nil
}

func (s *Scheduler) runOnce() {
	if !s.running.CompareAndSwap(false, true) {
		log.Println("scheduler: wallpaper update already running, skipping")
		return
	}
	defer s.running.Store(false)

	log.Println("scheduler: running wallpaper update job")

	ctx := context.Background()
	if s.runTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.runTimeout)
		defer cancel()
	}

	rec, err := s.runner.Run(ctx)
	if err != nil {
		log.Printf("scheduler: wallpaper update failed for %s: %v", rec.Satellite, err)
		return
	}
	log.Printf("scheduler: completed wallpaper update job (%s)", rec.ID)
}

// RunNow triggers an extra cycle outside the schedule. The trigger is dropped
// if a cycle is already in flight.
func (s *Scheduler) RunNow() error {
	return s.scheduler.RunByTag(jobTag)
}

// NextRun returns when the next scheduled cycle starts.
func (s *Scheduler) NextRun() time.Time {
	if s.job == nil {
		return time.Time{}
	}
	return s.job.NextRun()
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
