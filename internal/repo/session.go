package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"corkboard/internal/model"
)

// SessionRepository persists the server-side half of a session. The opaque
// token is the primary key; Delete is idempotent because ending an
// already-absent session is not an error.
type SessionRepository interface {
	Create(ctx context.Context, s *model.Session) error
	GetByToken(ctx context.Context, token string) (*model.Session, error)

	// Touch bumps last_seen_at for the token. Updates are single-row and
	// keyed by primary key, so concurrent touches for one token serialize
	// inside the storage engine.
	Touch(ctx context.Context, token string, at time.Time) error

	Delete(ctx context.Context, token string) error

	// DeleteExpiredBefore sweeps rows whose last activity predates the
	// cutoff. Expiry correctness never depends on the sweep: Resolve
	// rejects stale tokens even while the row still exists.
	DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type sessionRepo struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepo{db: db}
}

func (r *sessionRepo) Create(ctx context.Context, s *model.Session) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *sessionRepo) GetByToken(ctx context.Context, token string) (*model.Session, error) {
	var s model.Session
	if err := r.db.WithContext(ctx).Where("token = ?", token).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *sessionRepo) Touch(ctx context.Context, token string, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&model.Session{}).
		Where("token = ?", token).
		Update("last_seen_at", at).Error
}

func (r *sessionRepo) Delete(ctx context.Context, token string) error {
	return r.db.WithContext(ctx).Where("token = ?", token).Delete(&model.Session{}).Error
}

func (r *sessionRepo) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tx := r.db.WithContext(ctx).Where("last_seen_at < ?", cutoff).Delete(&model.Session{})
	return tx.RowsAffected, tx.Error
}
