package task

import (
	"context"
	"time"

	"github.com/haierkeys/voice-notes-service/internal/app"
	"github.com/haierkeys/voice-notes-service/pkg/util"

	"go.uber.org/zap"
)

// NoteCleanupTask destroys soft-deleted notes once their retention expires.
type NoteCleanupTask struct {
	app       *app.App
	logger    *zap.Logger
	retention time.Duration
	interval  time.Duration
}

// NewNoteCleanupTask builds the cleanup task, or returns (nil, nil) when the
// retention time is not configured.
func NewNoteCleanupTask(appContainer *app.App) (Task, error) {
	retentionStr := appContainer.Config().App.SoftDeleteRetentionTime
	if retentionStr == "" || retentionStr == "0" {
		return nil, nil
	}
	retention, err := util.ParseDuration(retentionStr)
	if err != nil {
		return nil, err
	}
	if retention <= 0 {
		return nil, nil
	}

	interval := time.Hour
	if s := appContainer.Config().App.NoteCleanupInterval; s != "" {
		if d, err := util.ParseDuration(s); err == nil && d > 0 {
			interval = d
		}
	}

	return &NoteCleanupTask{
		app:       appContainer,
		logger:    appContainer.Logger(),
		retention: retention,
		interval:  interval,
	}, nil
}

func (t *NoteCleanupTask) Name() string {
	return "NoteCleanupTask"
}

func (t *NoteCleanupTask) LoopInterval() time.Duration {
	return t.interval
}

func (t *NoteCleanupTask) IsStartupRun() bool {
	return true
}

func (t *NoteCleanupTask) Run(ctx context.Context) error {
	before := time.Now().Add(-t.retention)
	purged, err := t.app.NoteRepo.PurgeDeleted(ctx, before)
	if err != nil {
		return err
	}
	if purged > 0 {
		t.logger.Info("purged soft-deleted notes",
			zap.Int64("count", purged),
			zap.Time("before", before))
	}
	return nil
}
