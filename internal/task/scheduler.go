// Package task runs the background maintenance jobs.
package task

import (
	"context"
	"time"

	"github.com/haierkeys/voice-notes-service/pkg/safe_close"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Task is a scheduled background job.
type Task interface {
	Name() string
	Run(ctx context.Context) error
	// LoopInterval is the ticker period; <= 0 disables the loop.
	LoopInterval() time.Duration
	// IsStartupRun runs the task once right after start.
	IsStartupRun() bool
}

// CronTask is an optional extension: a task returning a non-empty cron spec
// is driven by the cron scheduler instead of a ticker.
type CronTask interface {
	Task
	CronSpec() string
}

// Scheduler drives the registered tasks and stops them on the close signal.
type Scheduler struct {
	logger *zap.Logger
	tasks  []Task
	sc     *safe_close.SafeClose
	cron   *cron.Cron
}

func NewScheduler(logger *zap.Logger, sc *safe_close.SafeClose) *Scheduler {
	return &Scheduler{
		logger: logger,
		tasks:  make([]Task, 0),
		sc:     sc,
		cron:   cron.New(),
	}
}

func (s *Scheduler) AddTask(task Task) {
	s.tasks = append(s.tasks, task)
}

// Start launches every registered task.
func (s *Scheduler) Start() {
	if len(s.tasks) == 0 {
		s.logger.Info("no tasks to schedule")
		return
	}

	s.logger.Info("tasks starting", zap.Int("count", len(s.tasks)))

	cronUsed := false
	for _, task := range s.tasks {
		if ct, ok := task.(CronTask); ok && ct.CronSpec() != "" {
			s.startCronTask(ct)
			cronUsed = true
			continue
		}
		s.startTask(task)
	}

	if cronUsed {
		s.cron.Start()
		s.sc.Attach(func(done func(), closeSignal <-chan struct{}) {
			defer done()
			<-closeSignal
			<-s.cron.Stop().Done()
			s.logger.Info("cron tasks stopped")
		})
	}
}

func (s *Scheduler) startCronTask(task CronTask) {
	_, err := s.cron.AddFunc(task.CronSpec(), func() {
		s.runOnce(task, "cronRun")
	})
	if err != nil {
		s.logger.Error("invalid cron spec, task skipped",
			zap.String("name", task.Name()),
			zap.String("spec", task.CronSpec()),
			zap.Error(err))
		return
	}
	s.logger.Info("task scheduled",
		zap.String("name", task.Name()),
		zap.String("cron", task.CronSpec()))
}

func (s *Scheduler) startTask(task Task) {
	s.sc.Attach(func(done func(), closeSignal <-chan struct{}) {
		defer done()

		if task.IsStartupRun() {
			go s.runOnce(task, "startupRun")
		}

		if task.LoopInterval() <= 0 {
			return
		}

		ticker := time.NewTicker(task.LoopInterval())
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.runOnce(task, "loopRun")
			case <-closeSignal:
				s.logger.Info("task stopped", zap.String("name", task.Name()))
				return
			}
		}
	})
}

func (s *Scheduler) runOnce(task Task, mode string) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("task panic",
				zap.String("name", task.Name()),
				zap.String("mode", mode),
				zap.Any("panic", r),
				zap.Stack("stack"))
		}
	}()

	s.logger.Info("task running",
		zap.String("name", task.Name()),
		zap.String("mode", mode))
	if err := task.Run(context.Background()); err != nil {
		s.logger.Error("task running error",
			zap.String("name", task.Name()),
			zap.String("mode", mode),
			zap.Error(err))
	}
}
