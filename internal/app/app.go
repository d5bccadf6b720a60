package app

import (
	"fmt"
	"time"

	"github.com/haierkeys/voice-notes-service/internal/dao"
	"github.com/haierkeys/voice-notes-service/internal/domain"
	"github.com/haierkeys/voice-notes-service/internal/service"
	"github.com/haierkeys/voice-notes-service/internal/speech"
	pkgapp "github.com/haierkeys/voice-notes-service/pkg/app"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App is the application container: it owns the shared infrastructure and
// wires the repositories and services together.
type App struct {
	config *AppConfig
	logger *zap.Logger
	DB     *gorm.DB
	Dao    *dao.Dao

	NoteRepo domain.NoteRepository
	UserRepo domain.UserRepository

	UserService       service.UserService
	NoteService       service.NoteService
	TranscribeService service.TranscribeService

	TokenManager pkgapp.TokenManager

	StartTime time.Time
}

// NewApp builds the container from its injected dependencies.
func NewApp(cfg *AppConfig, logger *zap.Logger, db *gorm.DB) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if db == nil {
		return nil, fmt.Errorf("database is required")
	}

	a := &App{
		config:    cfg,
		logger:    logger,
		DB:        db,
		StartTime: time.Now(),
	}

	a.Dao = dao.New(db)

	a.TokenManager = pkgapp.NewTokenManager(pkgapp.TokenConfig{
		SecretKey: cfg.Security.AuthTokenKey,
		Issuer:    pkgapp.DefaultTokenIssuer,
		Expiry:    cfg.GetTokenExpiry(),
	})

	a.NoteRepo = dao.NewNoteRepository(a.Dao)
	a.UserRepo = dao.NewUserRepository(a.Dao)

	svcConfig := &service.ServiceConfig{
		User: service.UserServiceConfig{
			RegisterIsEnable: cfg.User.RegisterIsEnable,
		},
		App: service.AppServiceConfig{
			SoftDeleteRetentionTime: cfg.App.SoftDeleteRetentionTime,
		},
	}

	provider := speech.NewOpenAIProvider(speech.Config{
		BaseURL:     cfg.Transcribe.BaseURL,
		APIKey:      cfg.Transcribe.APIKey,
		SpeechModel: cfg.Transcribe.SpeechModel,
		FormatModel: cfg.Transcribe.FormatModel,
		Timeout:     cfg.GetTranscribeTimeout(),
	})

	a.UserService = service.NewUserService(a.UserRepo, a.TokenManager, logger, svcConfig)
	a.NoteService = service.NewNoteService(a.NoteRepo, logger)
	a.TranscribeService = service.NewTranscribeService(provider, logger, cfg.GetTranscribeTimeout())

	logger.Info("app container initialized",
		zap.String("database", cfg.Database.Type),
		zap.String("speech-model", cfg.Transcribe.SpeechModel))

	return a, nil
}

// Close releases the resources the container holds.
func (a *App) Close() error {
	if a.DB != nil {
		sqlDB, err := a.DB.DB()
		if err != nil {
			return fmt.Errorf("failed to get sql.DB: %w", err)
		}
		if err := sqlDB.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
		a.logger.Info("database connection closed")
	}
	return nil
}

func (a *App) Config() *AppConfig {
	return a.config
}

func (a *App) Logger() *zap.Logger {
	return a.logger
}

// Version reports the build information.
func (a *App) Version() pkgapp.VersionInfo {
	return pkgapp.VersionInfo{
		Version:   Version,
		GitTag:    GitTag,
		BuildTime: BuildTime,
	}
}
