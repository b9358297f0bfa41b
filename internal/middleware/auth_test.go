package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"corkboard/internal/model"
	"corkboard/internal/service"
)

// fakeResolver recognizes exactly one token.
type fakeResolver struct {
	token string
	sess  *model.Session
}

func (f *fakeResolver) Resolve(_ context.Context, token string) (*model.Session, error) {
	if token == f.token {
		return f.sess, nil
	}
	return nil, service.ErrNoSession
}

func TestWithSession_ValidCookieSetsUserID(t *testing.T) {
	resolver := &fakeResolver{token: "good", sess: &model.Session{Token: "good", UserID: 77, CSRFToken: "c"}}

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uid, ok := GetUserIDFromContext(r.Context())
		if !ok || uid != 77 {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if _, ok := GetSessionFromContext(r.Context()); !ok {
			t.Fatalf("session must be in context alongside the user id")
		}
		w.WriteHeader(http.StatusOK)
	})

	h := WithSession(resolver)(next)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "good"})

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 with valid cookie, got %d", rr.Code)
	}
}

func TestWithSession_NoCookieLeavesAnonymous(t *testing.T) {
	resolver := &fakeResolver{token: "good", sess: &model.Session{Token: "good", UserID: 1}}

	h := WithSession(resolver)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetUserIDFromContext(r.Context()); ok {
			t.Fatalf("user id must not be set without cookie")
		}
		w.WriteHeader(http.StatusOK)
	}))

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

func TestWithSession_UnknownTokenLeavesAnonymous(t *testing.T) {
	resolver := &fakeResolver{token: "good", sess: &model.Session{Token: "good", UserID: 1}}

	h := WithSession(resolver)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetUserIDFromContext(r.Context()); ok {
			t.Fatalf("user id must not be set with an unknown token")
		}
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "forged"})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

func TestRequireAuth_RejectsAnonymous(t *testing.T) {
	h := RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for anonymous request, got %d", rr.Code)
	}
}

func TestClearSessionCookie_Expires(t *testing.T) {
	rr := httptest.NewRecorder()
	ClearSessionCookie(rr, false)

	cookies := rr.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected one cookie, got %d", len(cookies))
	}
	c := cookies[0]
	if c.Name != SessionCookieName || c.MaxAge >= 0 || !c.HttpOnly {
		t.Fatalf("cookie must be expired and HttpOnly: %+v", c)
	}
}
