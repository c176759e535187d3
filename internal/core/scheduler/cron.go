package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler runs background jobs on six-field cron expressions.
type Scheduler struct {
	c   *cron.Cron
	log *zap.Logger
}

func New(l *zap.Logger) *Scheduler {
	cl := cronLogger{l.Named("cron")}
	return &Scheduler{
		c: cron.New(
			cron.WithSeconds(),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		log: l,
	}
}

// Add registers job under name. An empty expression disables the job.
func (s *Scheduler) Add(name, spec string, job func(ctx context.Context)) error {
	if spec == "" {
		s.log.Info("job disabled", zap.String("job", name))
		return nil
	}
	_, err := s.c.AddFunc(spec, func() {
		start := time.Now()
		job(context.Background())
		s.log.Info("job done", zap.String("job", name), zap.Duration("took", time.Since(start)))
	})
	return err
}

func (s *Scheduler) Start() { s.c.Start() }

// Stop waits for running jobs until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.c.Stop().Done():
	case <-ctx.Done():
	}
}

type cronLogger struct{ l *zap.Logger }

func (c cronLogger) Info(msg string, kv ...any) {
	c.l.Debug(msg, zap.Any("kv", kv))
}

func (c cronLogger) Error(err error, msg string, kv ...any) {
	c.l.Error(msg, zap.Error(err), zap.Any("kv", kv))
}
