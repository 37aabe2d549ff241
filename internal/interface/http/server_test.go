package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coursecompass/course-discovery-hub/internal/application/command"
	"github.com/coursecompass/course-discovery-hub/internal/domain/shared"
	"github.com/coursecompass/course-discovery-hub/internal/domain/user"
)

type fakeUserRepo struct {
	byUsername map[string]*user.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byUsername: make(map[string]*user.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, u *user.User) error {
	if _, ok := f.byUsername[u.Username]; ok {
		return shared.ErrAlreadyExists
	}
	f.byUsername[u.Username] = u
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id shared.ID) (*user.User, error) {
	for _, u := range f.byUsername {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, shared.ErrUserNotFound
}

func (f *fakeUserRepo) GetByIDs(_ context.Context, ids []shared.ID) (map[shared.ID]*user.User, error) {
	found := make(map[shared.ID]*user.User)
	for _, u := range f.byUsername {
		for _, id := range ids {
			if u.ID == id {
				found[id] = u
			}
		}
	}
	return found, nil
}

func (f *fakeUserRepo) Exists(_ context.Context, id shared.ID) (bool, error) {
	_, err := f.GetByID(context.Background(), id)
	return err == nil, nil
}

func newTestServer(t *testing.T) *Server {
	t.Helper()

	deps := Dependencies{
		RegisterUser: command.NewRegisterUserHandler(newFakeUserRepo()),
	}

	cfg := DefaultConfig()
	cfg.RateLimitPerMinute = 0
	return NewServer(cfg, deps)
}

func doRequest(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestServer_Health(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestServer_RegisterUser(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodPost, "/api/v1/users",
		`{"username": "gopher", "email": "gopher@example.com"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp JSONResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
}

func TestServer_RegisterUser_DuplicateIsConflict(t *testing.T) {
	s := newTestServer(t)

	body := `{"username": "gopher", "email": "gopher@example.com"}`
	rec := doRequest(t, s, http.MethodPost, "/api/v1/users", body)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(t, s, http.MethodPost, "/api/v1/users", body)
	assert.Equal(t, http.StatusConflict, rec.Code)

	var resp JSONResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "conflict", resp.Error.Code)
}

func TestServer_RegisterUser_InvalidEmail(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodPost, "/api/v1/users",
		`{"username": "gopher", "email": "not-an-email"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_MalformedBodyIsRejected(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodPost, "/api/v1/users", `{"username": `)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
