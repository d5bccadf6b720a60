package dao

import (
	"context"
	"errors"
	"time"

	"github.com/haierkeys/voice-notes-service/internal/domain"
	"github.com/haierkeys/voice-notes-service/internal/model"
	"github.com/haierkeys/voice-notes-service/pkg/timex"

	"gorm.io/gorm"
)

// noteRepository implements domain.NoteRepository.
type noteRepository struct {
	dao *Dao
}

func NewNoteRepository(dao *Dao) domain.NoteRepository {
	return &noteRepository{dao: dao}
}

func (r *noteRepository) toDomain(m *model.Note) *domain.Note {
	if m == nil {
		return nil
	}
	return &domain.Note{
		ID:          m.ID,
		UID:         m.UID,
		Title:       m.Title,
		Content:     m.Content,
		IsPinned:    m.IsPinned,
		IsFavorited: m.IsFavorited,
		IsDeleted:   m.IsDeleted,
		DeletedAt:   time.Time(m.DeletedAt),
		CreatedAt:   time.Time(m.CreatedAt),
		UpdatedAt:   time.Time(m.UpdatedAt),
	}
}

func (r *noteRepository) Create(ctx context.Context, note *domain.Note) (*domain.Note, error) {
	now := timex.Now()
	m := &model.Note{
		UID:         note.UID,
		Title:       note.Title,
		Content:     note.Content,
		IsPinned:    note.IsPinned,
		IsFavorited: note.IsFavorited,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := r.dao.db.WithContext(ctx).Create(m).Error; err != nil {
		return nil, err
	}
	return r.toDomain(m), nil
}

func (r *noteRepository) GetByID(ctx context.Context, id, uid int64) (*domain.Note, error) {
	var m model.Note
	err := r.dao.db.WithContext(ctx).
		Where("id = ? AND uid = ? AND is_deleted = ?", id, uid, false).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.toDomain(&m), nil
}

func (r *noteRepository) List(ctx context.Context, uid int64, query string, offset, limit int) ([]*domain.Note, int64, error) {
	tx := r.dao.db.WithContext(ctx).Model(&model.Note{}).
		Where("uid = ? AND is_deleted = ?", uid, false)
	if query != "" {
		like := "%" + query + "%"
		tx = tx.Where("title LIKE ? OR content LIKE ?", like, like)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []*model.Note
	q := tx.Order("created_at DESC").Order("id DESC")
	if limit > 0 {
		q = q.Offset(offset).Limit(limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	notes := make([]*domain.Note, 0, len(rows))
	for _, m := range rows {
		notes = append(notes, r.toDomain(m))
	}
	return notes, total, nil
}

func (r *noteRepository) Update(ctx context.Context, id, uid int64, upd *domain.NoteUpdate) error {
	values := map[string]any{
		"updated_at": timex.Now(),
	}
	if upd.Title != nil {
		values["title"] = *upd.Title
	}
	if upd.Content != nil {
		values["content"] = *upd.Content
	}
	if upd.IsPinned != nil {
		values["is_pinned"] = *upd.IsPinned
	}
	if upd.IsFavorited != nil {
		values["is_favorited"] = *upd.IsFavorited
	}

	tx := r.dao.db.WithContext(ctx).Model(&model.Note{}).
		Where("id = ? AND uid = ? AND is_deleted = ?", id, uid, false).
		Updates(values)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *noteRepository) SoftDelete(ctx context.Context, id, uid int64) error {
	tx := r.dao.db.WithContext(ctx).Model(&model.Note{}).
		Where("id = ? AND uid = ? AND is_deleted = ?", id, uid, false).
		Updates(map[string]any{
			"is_deleted": true,
			"deleted_at": timex.Now(),
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *noteRepository) PurgeDeleted(ctx context.Context, before time.Time) (int64, error) {
	tx := r.dao.db.WithContext(ctx).
		Where("is_deleted = ? AND deleted_at < ?", true, timex.Time(before)).
		Delete(&model.Note{})
	return tx.RowsAffected, tx.Error
}
