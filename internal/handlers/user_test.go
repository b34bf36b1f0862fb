package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/gridbase/sheets-backend/internal/errs"
	"github.com/gridbase/sheets-backend/internal/middleware"
	"github.com/gridbase/sheets-backend/internal/models"
	"github.com/gridbase/sheets-backend/pkg/logger"
)

// stubResponseHandler records what the handler asked for instead of
// rendering JSON, so tests can assert on status and payload directly.
type stubResponseHandler struct {
	status  int
	data    any
	code    string
	message string
	err     error
}

func (s *stubResponseHandler) WriteSuccess(w http.ResponseWriter, _ *http.Request, status int, data any) {
	s.status = status
	s.data = data
	w.WriteHeader(status)
}

func (s *stubResponseHandler) WriteError(w http.ResponseWriter, _ *http.Request, status int, code, message string) {
	s.status = status
	s.code = code
	s.message = message
	w.WriteHeader(status)
}

func (s *stubResponseHandler) HandleError(w http.ResponseWriter, _ *http.Request, err error) {
	s.err = err
	w.WriteHeader(http.StatusInternalServerError)
}

func testLogger() *slog.Logger {
	return slog.New(logger.NewTestHandler(slog.LevelInfo))
}

func withUID(r *http.Request, uid string) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), middleware.UIDKey, uid))
}

func withChiParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

type stubUserService struct {
	user *models.User
}

func (s *stubUserService) GetUser(_ context.Context, uid string) (*models.User, error) {
	if s.user == nil || s.user.UID != uid {
		return nil, errs.NewNotFoundError("User not found")
	}
	return s.user, nil
}

func TestGetMe(t *testing.T) {
	rh := &stubResponseHandler{}
	h := &userHandlers{
		ResponseHandler: rh,
		UserSvc:         &stubUserService{user: &models.User{UID: "u1", Email: "a@b.c"}},
	}

	w := httptest.NewRecorder()
	r := withUID(httptest.NewRequest(http.MethodGet, "/me", nil), "u1")
	h.GetMe(w, r)

	if rh.status != http.StatusOK {
		t.Fatalf("status = %d, want 200", rh.status)
	}
	user, ok := rh.data.(*models.User)
	if !ok || user.UID != "u1" {
		t.Fatalf("data = %#v", rh.data)
	}
}

func TestGetMeUnknownUser(t *testing.T) {
	rh := &stubResponseHandler{}
	h := &userHandlers{
		ResponseHandler: rh,
		UserSvc:         &stubUserService{},
	}

	w := httptest.NewRecorder()
	r := withUID(httptest.NewRequest(http.MethodGet, "/me", nil), "ghost")
	h.GetMe(w, r)

	var nf *errs.NotFoundError
	if !errors.As(rh.err, &nf) {
		t.Fatalf("err = %v, want not-found", rh.err)
	}
}
