package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
)

const defaultInterval = time.Hour

// BackupRunner takes an automatic backup when one is due.
type BackupRunner interface {
	RunDue(ctx context.Context) (bool, error)
}

// Scheduler 자동 백업 점검 작업
type Scheduler struct {
	runner   BackupRunner
	interval time.Duration
	logger   *zap.Logger
}

func New(runner BackupRunner, interval time.Duration, logger *zap.Logger) *Scheduler {
	if interval <= 0 {
		interval = defaultInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{runner: runner, interval: interval, logger: logger.Named("scheduler")}
}

// Run checks the backup schedule every interval until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	cron, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("create scheduler: %w", err)
	}

	_, err = cron.NewJob(
		gocron.DurationJob(s.interval),
		gocron.NewTask(func() { s.tick(ctx) }),
		gocron.WithName("auto-backup"),
		gocron.WithStartAt(gocron.WithStartImmediately()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("register backup job: %w", err)
	}

	s.logger.Info("auto backup check started", zap.Duration("interval", s.interval))
	cron.Start()

	<-ctx.Done()
	return cron.Shutdown()
}

func (s *Scheduler) tick(ctx context.Context) {
	ran, err := s.runner.RunDue(ctx)
	if err != nil {
		s.logger.Error("auto backup failed", zap.Error(err))
		return
	}
	if ran {
		s.logger.Info("auto backup taken")
	}
}
