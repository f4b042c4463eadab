package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/evgeniy-krivenko/notes-api/internal/credential"
	"github.com/evgeniy-krivenko/notes-api/internal/entity"
	"github.com/evgeniy-krivenko/notes-api/internal/repository/repotest"
	"github.com/evgeniy-krivenko/notes-api/internal/usecase/notes"
	"github.com/evgeniy-krivenko/notes-api/internal/usecase/users"
)

var now = time.Date(2024, 5, 30, 17, 30, 31, 98_000_000, time.UTC)

type testAPI struct {
	t       *testing.T
	handler http.Handler
	creds   *credential.Service
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	store := repotest.New()

	creds, err := credential.New(credential.Options{
		Secret:     []byte("secret"),
		BcryptCost: bcrypt.MinCost,
	})
	require.NoError(t, err)

	notesUC, err := notes.New(notes.Options{
		NotesRepo: store,
		UsersRepo: store,
		Tx:        store,
		Now:       func() time.Time { return now },
	})
	require.NoError(t, err)

	usersUC, err := users.New(users.Options{UsersRepo: store, Credentials: creds})
	require.NoError(t, err)

	h, err := NewHandler(Options{
		Notes:    notesUC,
		Users:    usersUC,
		Auth:     creds,
		Resolver: store,
	})
	require.NoError(t, err)

	return &testAPI{t: t, handler: h, creds: creds}
}

func (a *testAPI) do(method, path, body, token string) *httptest.ResponseRecorder {
	a.t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)

	return rec
}

// signup creates a user and returns it together with a bearer header value.
func (a *testAPI) signup(username string) (userResponse, string) {
	a.t.Helper()

	rec := a.do(http.MethodPost, "/api/users",
		`{"username":"`+username+`","name":"Matti Luukkainen","password":"salainen"}`, "")
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())

	var user userResponse
	require.NoError(a.t, json.NewDecoder(rec.Body).Decode(&user))

	rec = a.do(http.MethodPost, "/api/login", `{"username":"`+username+`","password":"salainen"}`, "")
	require.Equal(a.t, http.StatusOK, rec.Code, rec.Body.String())

	var login loginResponse
	require.NoError(a.t, json.NewDecoder(rec.Body).Decode(&login))
	assert.Equal(a.t, username, login.Username)

	return user, "bearer " + login.Token
}

func (a *testAPI) createNote(token, body string) noteResponse {
	a.t.Helper()

	rec := a.do(http.MethodPost, "/api/notes", body, token)
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())

	var note noteResponse
	require.NoError(a.t, json.NewDecoder(rec.Body).Decode(&note))

	return note
}

func (a *testAPI) notes() []noteResponse {
	a.t.Helper()

	rec := a.do(http.MethodGet, "/api/notes", "", "")
	require.Equal(a.t, http.StatusOK, rec.Code)

	var notes []noteResponse
	require.NoError(a.t, json.NewDecoder(rec.Body).Decode(&notes))

	return notes
}

func (a *testAPI) users() []userResponse {
	a.t.Helper()

	rec := a.do(http.MethodGet, "/api/users", "", "")
	require.Equal(a.t, http.StatusOK, rec.Code)

	var users []userResponse
	require.NoError(a.t, json.NewDecoder(rec.Body).Decode(&users))

	return users
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var body errorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))

	return body.Error
}

func TestNotes_EmptyList(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodGet, "/api/notes", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestCreateNote_RoundTrip(t *testing.T) {
	api := newTestAPI(t)
	user, token := api.signup("mluukkai")

	note := api.createNote(token, `{"content":"async/await simplifies making async calls","important":true}`)
	assert.Equal(t, "async/await simplifies making async calls", note.Content)
	assert.True(t, note.Important)
	assert.Equal(t, user.ID, note.Owner)
	assert.True(t, note.Date.Equal(now))

	listed := api.notes()
	require.Len(t, listed, 1)
	assert.Equal(t, note.ID, listed[0].ID)

	rec := api.do(http.MethodGet, "/api/notes/"+note.ID, "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got noteResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, note.ID, got.ID)
	assert.Equal(t, note.Content, got.Content)

	us := api.users()
	require.Len(t, us, 1)
	assert.Equal(t, []string{note.ID}, us[0].Notes)
}

func TestCreateNote_ImportantDefaultsToFalse(t *testing.T) {
	api := newTestAPI(t)
	_, token := api.signup("mluukkai")

	note := api.createNote(token, `{"content":"HTML is easy"}`)
	assert.False(t, note.Important)
}

func TestCreateNote_InvalidContent(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		message string
	}{
		{name: "missing", body: `{"important":true}`, message: "note validation failed: content: is required"},
		{name: "empty", body: `{"content":""}`, message: "note validation failed: content: is required"},
		{name: "too short", body: `{"content":"okey"}`, message: "note validation failed: content: must be at least 5 characters long"},
		{name: "empty body", body: ``, message: "note validation failed: content: is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newTestAPI(t)
			_, token := api.signup("mluukkai")

			rec := api.do(http.MethodPost, "/api/notes", tt.body, token)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.message, errorBody(t, rec))
			assert.Empty(t, api.notes())
		})
	}
}

func TestCreateNote_MalformedBody(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "truncated", body: `{"content":"HTML is easy"`},
		{name: "trailing garbage", body: `{"content":"HTML is easy"} garbage`},
		{name: "second object", body: `{"content":"HTML is easy"}{"content":"CSS is hard"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newTestAPI(t)
			_, token := api.signup("mluukkai")

			rec := api.do(http.MethodPost, "/api/notes", tt.body, token)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "malformed request body", errorBody(t, rec))
			assert.Empty(t, api.notes())
		})
	}

	api := newTestAPI(t)
	_, token := api.signup("mluukkai")
	note := api.createNote(token, "{\"content\":\"HTML is easy\"}\n")
	assert.Equal(t, "HTML is easy", note.Content)
}

func TestCreateNote_Unauthorized(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{name: "no header", header: ""},
		{name: "garbage token", header: "bearer not-a-token"},
		{name: "scheme is case sensitive", header: "Bearer whatever"},
		{name: "other scheme", header: "Basic cm9vdDpzYWxhaW5lbg=="},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newTestAPI(t)

			rec := api.do(http.MethodPost, "/api/notes", `{"content":"HTML is easy"}`, tt.header)
			require.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, "token invalid", errorBody(t, rec))
			assert.Empty(t, api.notes())
		})
	}
}

func TestAuthenticate_TokenOfUnknownUser(t *testing.T) {
	api := newTestAPI(t)

	token, err := api.creds.IssueToken(entity.User{ID: uuid.NewString(), Username: "ghost"})
	require.NoError(t, err)

	rec := api.do(http.MethodPost, "/api/notes", `{"content":"HTML is easy"}`, "bearer "+token)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "token invalid", errorBody(t, rec))
}

func TestAuthenticate_OnlyNoteCreation(t *testing.T) {
	api := newTestAPI(t)
	api.signup("mluukkai")

	stale, err := api.creds.IssueToken(entity.User{ID: uuid.NewString(), Username: "ghost"})
	require.NoError(t, err)
	header := "bearer " + stale

	rec := api.do(http.MethodGet, "/api/notes", "", header)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(http.MethodGet, "/api/users", "", header)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(http.MethodPost, "/api/login", `{"username":"mluukkai","password":"salainen"}`, header)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(http.MethodGet, "/api/nothing", "", header)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "unknown endpoint", errorBody(t, rec))

	rec = api.do(http.MethodGet, "/api/notes", "", "bearer not-a-jwt")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetNote_Errors(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodGet, "/api/notes/"+uuid.NewString(), "", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = api.do(http.MethodGet, "/api/notes/5a3d5da59070081a82a3445", "", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "malformatted id", errorBody(t, rec))
}

func TestUpdateNote(t *testing.T) {
	api := newTestAPI(t)
	_, token := api.signup("mluukkai")
	note := api.createNote(token, `{"content":"HTML is easy"}`)

	rec := api.do(http.MethodPut, "/api/notes/"+note.ID, `{"important":true}`, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var updated noteResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&updated))
	assert.Equal(t, note.ID, updated.ID)
	assert.True(t, note.Date.Equal(updated.Date))
	assert.Equal(t, note.Owner, updated.Owner)
	assert.Equal(t, "HTML is easy", updated.Content)
	assert.True(t, updated.Important)

	rec = api.do(http.MethodPut, "/api/notes/"+note.ID, `{"content":"HTML is hard"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&updated))
	assert.Equal(t, "HTML is hard", updated.Content)
	assert.True(t, updated.Important)
}

func TestUpdateNote_Errors(t *testing.T) {
	api := newTestAPI(t)
	_, token := api.signup("mluukkai")
	note := api.createNote(token, `{"content":"HTML is easy"}`)

	rec := api.do(http.MethodPut, "/api/notes/"+note.ID, `{"content":"okey"}`, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(http.MethodPut, "/api/notes/"+uuid.NewString(), `{"important":true}`, "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = api.do(http.MethodPut, "/api/notes/bad-id", `{"important":true}`, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "malformatted id", errorBody(t, rec))

	rec = api.do(http.MethodPut, "/api/notes/"+note.ID, `{"important":`, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "malformed request body", errorBody(t, rec))
}

func TestDeleteNote(t *testing.T) {
	api := newTestAPI(t)
	_, token := api.signup("mluukkai")
	note := api.createNote(token, `{"content":"HTML is easy"}`)
	api.createNote(token, `{"content":"Browser can execute only JavaScript"}`)

	rec := api.do(http.MethodDelete, "/api/notes/"+note.ID, "", "")
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	listed := api.notes()
	require.Len(t, listed, 1)
	assert.NotEqual(t, note.ID, listed[0].ID)

	rec = api.do(http.MethodDelete, "/api/notes/"+note.ID, "", "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = api.do(http.MethodDelete, "/api/notes/5a3d5da59070081a82a3445", "", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateUser_DuplicateUsername(t *testing.T) {
	api := newTestAPI(t)
	api.signup("root")

	rec := api.do(http.MethodPost, "/api/users", `{"username":"root","name":"Superuser","password":"salainen"}`, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "username must be unique", errorBody(t, rec))
	assert.Len(t, api.users(), 1)
}

func TestCreateUser_MissingPassword(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodPost, "/api/users", `{"username":"root","name":"Superuser"}`, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "user validation failed: password: is required", errorBody(t, rec))
	assert.Empty(t, api.users())
}

func TestListUsers_HidesPasswordHash(t *testing.T) {
	api := newTestAPI(t)
	api.signup("root")

	rec := api.do(http.MethodGet, "/api/users", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password")
	assert.NotContains(t, rec.Body.String(), "$2a$")
}

func TestLogin_InvalidCredentials(t *testing.T) {
	api := newTestAPI(t)
	api.signup("root")

	rec := api.do(http.MethodPost, "/api/login", `{"username":"root","password":"wrong"}`, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid username or password", errorBody(t, rec))
}

func TestUnknownEndpoint(t *testing.T) {
	api := newTestAPI(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/nothing"},
		{http.MethodPatch, "/api/notes"},
		{http.MethodGet, "/"},
	} {
		rec := api.do(tc.method, tc.path, "", "")
		require.Equal(t, http.StatusNotFound, rec.Code, tc.path)
		assert.JSONEq(t, `{"error":"unknown endpoint"}`, rec.Body.String())
	}
}

type brokenNotes struct {
	notesUsecase
}

type noUsers struct {
	usersUsecase
}

func (*brokenNotes) Notes(context.Context) ([]entity.Note, error) {
	return nil, errors.New("connection reset")
}

func TestUnclassifiedError(t *testing.T) {
	api := newTestAPI(t)
	store := repotest.New()

	h, err := NewHandler(Options{
		Notes:    &brokenNotes{},
		Users:    &noUsers{},
		Auth:     api.creds,
		Resolver: store,
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/notes", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal server error", errorBody(t, rec))
}

type cachedResolver struct{}

func (cachedResolver) GetUser(_ context.Context, id string) (entity.User, error) {
	return entity.User{ID: id, Username: "ghost"}, nil
}

func TestCreateNote_OwnerRemovedAfterAuthentication(t *testing.T) {
	api := newTestAPI(t)
	store := repotest.New()

	notesUC, err := notes.New(notes.Options{NotesRepo: store, UsersRepo: store, Tx: store})
	require.NoError(t, err)

	h, err := NewHandler(Options{
		Notes:    notesUC,
		Users:    &noUsers{},
		Auth:     api.creds,
		Resolver: cachedResolver{},
	})
	require.NoError(t, err)

	token, err := api.creds.IssueToken(entity.User{ID: uuid.NewString(), Username: "ghost"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/notes", strings.NewReader(`{"content":"HTML is easy"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "bearer "+token)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "token invalid", errorBody(t, rec))

	left, err := store.Notes(context.Background())
	require.NoError(t, err)
	assert.Empty(t, left)
}
