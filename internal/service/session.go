package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"corkboard/internal/model"
	"corkboard/internal/repo"
)

const tokenBytes = 32

// SessionService issues opaque tokens and owns the session lifecycle:
// Anonymous -> Authenticated on Start, back on End or on expiry detected
// at the next Resolve.
type SessionService struct {
	repo repo.SessionRepository
	ttl  time.Duration

	// now is swappable in tests
	now func() time.Time
}

func NewSessionService(r repo.SessionRepository, ttl time.Duration) *SessionService {
	return &SessionService{repo: r, ttl: ttl, now: time.Now}
}

// Start creates a server-side session for an already-verified user and
// returns it with a fresh token and CSRF token.
func (s *SessionService) Start(ctx context.Context, userID int64) (*model.Session, error) {
	token, err := newToken()
	if err != nil {
		return nil, fmt.Errorf("generate session token: %w", err)
	}
	csrf, err := newToken()
	if err != nil {
		return nil, fmt.Errorf("generate csrf token: %w", err)
	}

	sess := &model.Session{
		Token:      token,
		UserID:     userID,
		CSRFToken:  csrf,
		LastSeenAt: s.now().UTC(),
	}
	if err := s.repo.Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}
	return sess, nil
}

// Resolve validates a token and bumps its last activity. An idle session is
// rejected with ErrSessionExpired even if the row still exists; the stale
// row is removed opportunistically.
func (s *SessionService) Resolve(ctx context.Context, token string) (*model.Session, error) {
	if token == "" {
		return nil, ErrNoSession
	}

	sess, err := s.repo.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("load session: %w", err)
	}

	now := s.now().UTC()
	if now.Sub(sess.LastSeenAt) > s.ttl {
		_ = s.repo.Delete(ctx, token)
		return nil, ErrSessionExpired
	}

	if err := s.repo.Touch(ctx, token, now); err != nil {
		return nil, fmt.Errorf("touch session: %w", err)
	}
	sess.LastSeenAt = now
	return sess, nil
}

// End deletes the session. Ending an already-absent token is not an error.
func (s *SessionService) End(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.repo.Delete(ctx, token); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// SweepExpired removes rows idle past the TTL. Correctness never depends on
// it; Resolve rejects stale tokens regardless.
func (s *SessionService) SweepExpired(ctx context.Context) (int64, error) {
	return s.repo.DeleteExpiredBefore(ctx, s.now().UTC().Add(-s.ttl))
}

func newToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
