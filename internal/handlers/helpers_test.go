package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"corkboard/internal/config"
	"corkboard/internal/handlers"
	"corkboard/internal/middleware"
	"corkboard/internal/model"
	"corkboard/internal/repo"
	"corkboard/internal/service"
)

// Minimal mocks

type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	args := m.Called(ctx, user)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) GetUserByLogin(ctx context.Context, login string) (*model.User, error) {
	args := m.Called(ctx, login)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	args := m.Called(ctx, id)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) UpdateBio(ctx context.Context, id int64, bio string) error {
	return m.Called(ctx, id, bio).Error(0)
}

var _ repo.UserRepository = (*mockUserRepo)(nil)

type mockNoteRepo struct{ mock.Mock }

func (m *mockNoteRepo) Create(ctx context.Context, n *model.Note) error {
	return m.Called(ctx, n).Error(0)
}

func (m *mockNoteRepo) GetByID(ctx context.Context, id string) (*model.Note, error) {
	args := m.Called(ctx, id)
	if n, ok := args.Get(0).(*model.Note); ok {
		return n, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockNoteRepo) ListByUser(ctx context.Context, userID int64) ([]model.Note, error) {
	args := m.Called(ctx, userID)
	if v, ok := args.Get(0).([]model.Note); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockNoteRepo) Update(ctx context.Context, id string, updates map[string]any) error {
	return m.Called(ctx, id, updates).Error(0)
}

func (m *mockNoteRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockNoteRepo) CountByUser(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

var _ repo.NoteRepository = (*mockNoteRepo)(nil)

// memSessionRepo is a map-backed fake: session flows need real token
// round-trips, which testify mocks make needlessly brittle.
type memSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]model.Session
}

func newMemSessionRepo() *memSessionRepo {
	return &memSessionRepo{sessions: make(map[string]model.Session)}
}

func (r *memSessionRepo) Create(_ context.Context, s *model.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.Token] = *s
	return nil
}

func (r *memSessionRepo) GetByToken(_ context.Context, token string) (*model.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[token]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &s, nil
}

func (r *memSessionRepo) Touch(_ context.Context, token string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[token]; ok {
		s.LastSeenAt = at
		r.sessions[token] = s
	}
	return nil
}

func (r *memSessionRepo) Delete(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, token)
	return nil
}

func (r *memSessionRepo) DeleteExpiredBefore(_ context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for token, s := range r.sessions {
		if s.LastSeenAt.Before(cutoff) {
			delete(r.sessions, token)
			n++
		}
	}
	return n, nil
}

var _ repo.SessionRepository = (*memSessionRepo)(nil)

// testEnv bundles the router and its collaborators.
type testEnv struct {
	router   http.Handler
	users    *mockUserRepo
	notes    *mockNoteRepo
	sessions *service.SessionService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	cfg := &config.Config{SessionTTL: time.Hour}
	logger := zap.NewNop().Sugar()

	ur := &mockUserRepo{}
	nr := &mockNoteRepo{}

	userSvc := service.NewUserService(ur)
	sessionSvc := service.NewSessionService(newMemSessionRepo(), cfg.SessionTTL)
	noteSvc := service.NewNoteService(nr)

	h := handlers.NewHandler(userSvc, sessionSvc, noteSvc, logger, cfg)
	return &testEnv{router: h.Router, users: ur, notes: nr, sessions: sessionSvc}
}

// addSession opens a real session for userID and attaches its cookie to the
// request; the CSRF token is returned for mutating calls.
func addSession(t *testing.T, env *testEnv, req *http.Request, userID int64) string {
	t.Helper()
	sess, err := env.sessions.Start(req.Context(), userID)
	if err != nil {
		t.Fatalf("start session: %v", err)
	}
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: sess.Token})
	return sess.CSRFToken
}

func doRequest(env *testEnv, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)
	return rr
}
