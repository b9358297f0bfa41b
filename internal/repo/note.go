package repo

import (
	"context"

	"gorm.io/gorm"

	"corkboard/internal/model"
)

// NoteRepository is storage access for notes. GetByID is deliberately not
// scoped by owner: the service layer needs the stored owner to distinguish
// a missing note from somebody else's note. Ownership is never re-checked
// here; mutating calls arrive only after the service has authorized them.
type NoteRepository interface {
	Create(ctx context.Context, n *model.Note) error
	GetByID(ctx context.Context, id string) (*model.Note, error)

	// ListByUser returns the owner's notes, most recently created first.
	ListByUser(ctx context.Context, userID int64) ([]model.Note, error)

	// Update applies the given column updates to one note. Returns
	// gorm.ErrRecordNotFound when the id does not exist (never a partial
	// write).
	Update(ctx context.Context, id string, updates map[string]any) error

	// Delete removes the note. Returns gorm.ErrRecordNotFound when the id
	// does not exist.
	Delete(ctx context.Context, id string) error

	CountByUser(ctx context.Context, userID int64) (int64, error)
}

type noteRepo struct {
	db *gorm.DB
}

func NewNoteRepository(db *gorm.DB) NoteRepository {
	return &noteRepo{db: db}
}

func (r *noteRepo) Create(ctx context.Context, n *model.Note) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *noteRepo) GetByID(ctx context.Context, id string) (*model.Note, error) {
	var n model.Note
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&n).Error; err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *noteRepo) ListByUser(ctx context.Context, userID int64) ([]model.Note, error) {
	var notes []model.Note
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&notes).Error
	if err != nil {
		return nil, err
	}
	return notes, nil
}

func (r *noteRepo) Update(ctx context.Context, id string, updates map[string]any) error {
	tx := r.db.WithContext(ctx).Model(&model.Note{}).Where("id = ?", id).Updates(updates)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *noteRepo) Delete(ctx context.Context, id string) error {
	tx := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Note{})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *noteRepo) CountByUser(ctx context.Context, userID int64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Note{}).Where("user_id = ?", userID).Count(&n).Error
	return n, err
}
