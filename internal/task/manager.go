package task

import (
	"github.com/haierkeys/voice-notes-service/internal/app"
	"github.com/haierkeys/voice-notes-service/pkg/safe_close"

	"go.uber.org/zap"
)

// Manager creates the tasks and hands them to the scheduler.
type Manager struct {
	scheduler *Scheduler
	logger    *zap.Logger
	app       *app.App
}

func NewManager(appContainer *app.App, sc *safe_close.SafeClose) *Manager {
	return &Manager{
		scheduler: NewScheduler(appContainer.Logger(), sc),
		logger:    appContainer.Logger(),
		app:       appContainer,
	}
}

// RegisterTasks builds every configured task.
func (m *Manager) RegisterTasks() error {
	cleanupTask, err := NewNoteCleanupTask(m.app)
	if err != nil {
		m.logger.Warn("failed to create note cleanup task", zap.Error(err))
		return err
	}

	if cleanupTask != nil {
		m.scheduler.AddTask(cleanupTask)
	} else {
		m.logger.Info("note cleanup task is disabled (retention time not configured)")
	}

	return nil
}

// Start launches the registered tasks.
func (m *Manager) Start() {
	m.scheduler.Start()
}
