package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/haierkeys/voice-notes-service/internal/domain"
	"github.com/haierkeys/voice-notes-service/internal/dto"
	"github.com/haierkeys/voice-notes-service/pkg/code"
	"github.com/haierkeys/voice-notes-service/pkg/timex"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

// NoteService handles the authenticated note CRUD.
type NoteService interface {
	// Create stores a note for uid and returns it with id and timestamps.
	Create(ctx context.Context, uid int64, params *dto.NoteCreateRequest) (*dto.NoteDTO, error)

	// List returns the user's notes, newest first, with the total row count.
	// query filters by title/content substring when non-empty.
	List(ctx context.Context, uid int64, query string, offset, limit int) ([]*dto.NoteDTO, int64, error)

	// Update applies the non-nil fields and bumps updated_at.
	Update(ctx context.Context, uid int64, params *dto.NoteUpdateRequest) (*dto.NoteDTO, error)

	// Delete removes the note from every subsequent read.
	Delete(ctx context.Context, uid int64, id int64) error
}

type noteService struct {
	noteRepo domain.NoteRepository
	logger   *zap.Logger
	listSF   singleflight.Group
}

func NewNoteService(noteRepo domain.NoteRepository, logger *zap.Logger) NoteService {
	return &noteService{
		noteRepo: noteRepo,
		logger:   logger,
	}
}

func (s *noteService) domainToDTO(note *domain.Note) *dto.NoteDTO {
	if note == nil {
		return nil
	}
	return &dto.NoteDTO{
		ID:          note.ID,
		Title:       note.Title,
		Content:     note.Content,
		IsPinned:    note.IsPinned,
		IsFavorited: note.IsFavorited,
		CreatedAt:   timex.Time(note.CreatedAt),
		UpdatedAt:   timex.Time(note.UpdatedAt),
	}
}

func (s *noteService) Create(ctx context.Context, uid int64, params *dto.NoteCreateRequest) (*dto.NoteDTO, error) {
	note, err := s.noteRepo.Create(ctx, &domain.Note{
		UID:     uid,
		Title:   params.Title,
		Content: params.Content,
	})
	if err != nil {
		return nil, code.ErrorNoteCreateFailed.WithDetails(err.Error())
	}

	s.logger.Info("note created",
		zap.Int64("uid", uid),
		zap.Int64("note-id", note.ID))

	return s.domainToDTO(note), nil
}

type listResult struct {
	notes []*domain.Note
	total int64
}

func (s *noteService) List(ctx context.Context, uid int64, query string, offset, limit int) ([]*dto.NoteDTO, int64, error) {
	// collapse identical concurrent list queries into one repository call;
	// the shared call is detached from the leader's cancellation so one
	// aborted request cannot fail every piggy-backed caller
	key := fmt.Sprintf("%d|%s|%d|%d", uid, query, offset, limit)
	sfCtx := context.WithoutCancel(ctx)
	v, err, _ := s.listSF.Do(key, func() (interface{}, error) {
		notes, total, err := s.noteRepo.List(sfCtx, uid, query, offset, limit)
		if err != nil {
			return nil, err
		}
		return &listResult{notes: notes, total: total}, nil
	})
	if err != nil {
		return nil, 0, code.ErrorNoteListFailed.WithDetails(err.Error())
	}

	res := v.(*listResult)
	out := make([]*dto.NoteDTO, 0, len(res.notes))
	for _, n := range res.notes {
		out = append(out, s.domainToDTO(n))
	}
	return out, res.total, nil
}

func (s *noteService) Update(ctx context.Context, uid int64, params *dto.NoteUpdateRequest) (*dto.NoteDTO, error) {
	upd := &domain.NoteUpdate{
		Title:       params.Title,
		Content:     params.Content,
		IsPinned:    params.IsPinned,
		IsFavorited: params.IsFavorited,
	}

	err := s.noteRepo.Update(ctx, params.ID, uid, upd)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, code.ErrorNoteNotFound
		}
		return nil, code.ErrorNoteUpdateFailed.WithDetails(err.Error())
	}

	note, err := s.noteRepo.GetByID(ctx, params.ID, uid)
	if err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	if note == nil {
		return nil, code.ErrorNoteNotFound
	}
	return s.domainToDTO(note), nil
}

func (s *noteService) Delete(ctx context.Context, uid int64, id int64) error {
	err := s.noteRepo.SoftDelete(ctx, id, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return code.ErrorNoteNotFound
		}
		return code.ErrorNoteDeleteFailed.WithDetails(err.Error())
	}

	s.logger.Info("note deleted",
		zap.Int64("uid", uid),
		zap.Int64("note-id", id))
	return nil
}
