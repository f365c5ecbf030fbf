package schedule

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

// Job is a recurring maintenance task, such as the chat retention pass.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

type Scheduler interface {
	AddJob(job Job, spec string) error
	Start(ctx context.Context)
	Stop()
}

// CronScheduler drives jobs from standard five-field cron expressions.
// A slot is skipped when the previous run of the same job has not
// finished yet.
type CronScheduler struct {
	cron *cron.Cron
	ctx  context.Context
}

func NewCronScheduler() *CronScheduler {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	return &CronScheduler{cron: cron.New(cron.WithParser(parser))}
}

func (s *CronScheduler) AddJob(job Job, spec string) error {
	if _, err := s.cron.AddFunc(spec, s.runner(job)); err != nil {
		return fmt.Errorf("schedule %s: %w", job.Name(), err)
	}
	logutil.GetLogger(context.Background()).Info("maintenance job scheduled",
		zap.String("job", job.Name()), zap.String("cron", spec))
	return nil
}

func (s *CronScheduler) Start(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	s.ctx = ctx
	s.cron.Start()
}

func (s *CronScheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *CronScheduler) runner(job Job) func() {
	var busy atomic.Bool
	return func() {
		if !busy.CompareAndSwap(false, true) {
			logutil.GetLogger(context.Background()).Warn("maintenance job still running, slot skipped",
				zap.String("job", job.Name()))
			return
		}
		defer busy.Store(false)

		ctx := s.ctx
		if ctx == nil {
			ctx = context.Background()
		}
		logger := logutil.GetLogger(ctx).With(zap.String("job", job.Name()))
		start := time.Now()
		if err := job.Run(ctx); err != nil {
			logger.Error("maintenance job failed", zap.Error(err), zap.Duration("took", time.Since(start)))
			return
		}
		logger.Info("maintenance job done", zap.Duration("took", time.Since(start)))
	}
}
