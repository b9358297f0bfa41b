package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"corkboard/internal/model"
	"corkboard/internal/repo"
)

const (
	titleMaxLen = 200
	bodyMaxLen  = 10000
)

// NoteService owns note CRUD and the authorization gate. Callers pass the
// user id of an already-resolved session; authentication failures are
// rejected upstream, so here the order is existence first, ownership second.
// An anonymous caller therefore never learns whether a note exists.
type NoteService struct {
	repo repo.NoteRepository

	now func() time.Time
}

func NewNoteService(r repo.NoteRepository) *NoteService {
	return &NoteService{repo: r, now: time.Now}
}

// Create stores a new note owned by userID. A fresh note has
// CreatedAt == UpdatedAt.
func (s *NoteService) Create(ctx context.Context, userID int64, title, body string) (*model.Note, error) {
	if err := validateNote(title, body); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	n := &model.Note{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     title,
		Body:      body,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, fmt.Errorf("create note: %w", err)
	}
	return n, nil
}

// Get returns the note when userID owns it.
func (s *NoteService) Get(ctx context.Context, userID int64, id string) (*model.Note, error) {
	return s.authorize(ctx, userID, id)
}

// List returns the user's notes, most recently created first.
func (s *NoteService) List(ctx context.Context, userID int64) ([]model.Note, error) {
	notes, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return notes, nil
}

// Update applies the provided fields after the gate approves. CreatedAt is
// never touched; UpdatedAt is bumped on every edit.
func (s *NoteService) Update(ctx context.Context, userID int64, id string, title, body *string) (*model.Note, error) {
	if _, err := s.authorize(ctx, userID, id); err != nil {
		return nil, err
	}

	updates := map[string]any{"updated_at": s.now().UTC()}
	if title != nil {
		if err := validateNote(*title, ""); err != nil {
			return nil, err
		}
		updates["title"] = *title
	}
	if body != nil {
		if utf8.RuneCountInString(*body) > bodyMaxLen {
			return nil, fmt.Errorf("%w: body longer than %d characters", ErrInvalidInput, bodyMaxLen)
		}
		updates["body"] = *body
	}

	if err := s.repo.Update(ctx, id, updates); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update note: %w", err)
	}

	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reload note: %w", err)
	}
	return n, nil
}

// Delete hard-deletes the note after the gate approves.
func (s *NoteService) Delete(ctx context.Context, userID int64, id string) error {
	if _, err := s.authorize(ctx, userID, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete note: %w", err)
	}
	return nil
}

// authorize fetches the note and checks ownership: ErrNotFound when the id
// does not exist, ErrForbidden when it belongs to someone else.
func (s *NoteService) authorize(ctx context.Context, userID int64, id string) (*model.Note, error) {
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load note: %w", err)
	}
	if n.UserID != userID {
		return nil, ErrForbidden
	}
	return n, nil
}

func validateNote(title, body string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("%w: title must not be empty", ErrInvalidInput)
	}
	if utf8.RuneCountInString(title) > titleMaxLen {
		return fmt.Errorf("%w: title longer than %d characters", ErrInvalidInput, titleMaxLen)
	}
	if utf8.RuneCountInString(body) > bodyMaxLen {
		return fmt.Errorf("%w: body longer than %d characters", ErrInvalidInput, bodyMaxLen)
	}
	return nil
}
