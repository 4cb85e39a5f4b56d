package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"artist-management/internal/core/auth"
	"artist-management/internal/core/config"
	"artist-management/internal/domain"
	"artist-management/internal/repo"
	"artist-management/internal/service"
	"artist-management/internal/testutil"
)

const publicURL = "http://api.test"

type env struct {
	t     *testing.T
	r     *gin.Engine
	jwt   *auth.JWTer
	users *service.UserService
}

type envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

func newEnv(t *testing.T) *env {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := testutil.NewDB(t)
	cfg := &config.Config{
		App:    config.App{PublicURL: publicURL},
		Export: config.Export{Dir: t.TempDir(), URLPrefix: "/static/exports"},
		CORS:   config.CORS{AllowOrigins: []string{"*"}},
		Limits: config.Limits{RequestTimeoutSec: 30},
	}
	j := &auth.JWTer{Secret: []byte("api-secret"), Issuer: "test", TTL: time.Hour}
	ur, ar, mr := repo.NewUserRepo(db), repo.NewArtistRepo(db), repo.NewMusicRepo(db)
	users := service.NewUserService(ur, j, nil, nil)
	artists := service.NewArtistService(ar, ur, nil, time.Minute, service.ExportOptions{
		Dir: cfg.Export.Dir, PublicURL: publicURL, URLPrefix: cfg.Export.URLPrefix,
	}, nil)
	music := service.NewMusicService(mr, ar, artists.Labels, nil)
	r := NewAPIEngine(Deps{Log: zap.NewNop(), Cfg: cfg, JWT: j, Users: users, Artists: artists, Music: music})
	return &env{t: t, r: r, jwt: j, users: users}
}

// token 直接建用户并签发，不走 /login
func (e *env) token(n int, role string) string {
	e.t.Helper()
	u := testutil.User(n, role)
	created, err := e.users.Signup(context.Background(), service.SignupInput{
		FirstName: u.FirstName, LastName: u.LastName, Email: u.Email,
		Password: "password1", Role: role, DOB: "1990-01-01",
	})
	require.NoError(e.t, err)
	tok, err := e.jwt.Issue(created.ID, created.Email, created.Role)
	require.NoError(e.t, err)
	return tok
}

func (e *env) do(method, path, tok string, body any) (*httptest.ResponseRecorder, envelope) {
	e.t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(e.t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return e.send(req, tok)
}

func (e *env) send(req *http.Request, tok string) (*httptest.ResponseRecorder, envelope) {
	e.t.Helper()
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	w := httptest.NewRecorder()
	e.r.ServeHTTP(w, req)
	var out envelope
	if w.Body.Len() > 0 && strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(e.t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	}
	return w, out
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v), string(raw))
	return v
}

func TestHealthAndMetrics(t *testing.T) {
	e := newEnv(t)
	w, _ := e.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = e.do(http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")
}

func TestSignupLoginMe(t *testing.T) {
	e := newEnv(t)
	body := map[string]any{
		"first_name": "Ann", "last_name": "Lee", "email": "ann@example.com",
		"password": "password1", "role": "artist_manager", "dob": "1990-02-03",
	}
	w, res := e.do(http.MethodPost, "/api/v1/signup", "", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, 0, res.Code)
	u := decode[map[string]any](t, res.Data)
	assert.Equal(t, "ann@example.com", u["email"])
	assert.NotContains(t, u, "password")
	assert.NotContains(t, u, "PasswordHash")

	w, res = e.do(http.MethodPost, "/api/v1/signup", "", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, domain.ErrDuplicateEmail.Error(), res.Msg)

	bad := map[string]any{"first_name": "X", "last_name": "Y", "email": "x@example.com", "password": "password1", "role": "root", "dob": "1990-01-01"}
	w, _ = e.do(http.MethodPost, "/api/v1/signup", "", bad)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, res = e.do(http.MethodPost, "/api/v1/login", "", map[string]string{"email": "ann@example.com", "password": "nope"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "incorrect email or password", res.Msg)

	w, res = e.do(http.MethodPost, "/api/v1/login", "", map[string]string{"email": "ann@example.com", "password": "password1"})
	require.Equal(t, http.StatusOK, w.Code)
	login := decode[struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}](t, res.Data)
	assert.Equal(t, "bearer", login.TokenType)

	w, _ = e.do(http.MethodGet, "/api/v1/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w, _ = e.do(http.MethodGet, "/api/v1/me", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, res = e.do(http.MethodGet, "/api/v1/me", login.AccessToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "artist_manager", decode[map[string]any](t, res.Data)["role"])
}

func TestRoleTable(t *testing.T) {
	e := newEnv(t)
	admin := e.token(1, domain.RoleSuperAdmin)
	manager := e.token(2, domain.RoleArtistManager)
	artist := e.token(3, domain.RoleArtist)

	cases := []struct {
		method, path, tok string
		want              int
	}{
		{http.MethodGet, "/api/v1/users", admin, http.StatusOK},
		{http.MethodGet, "/api/v1/users", manager, http.StatusForbidden},
		{http.MethodGet, "/api/v1/users", artist, http.StatusForbidden},
		{http.MethodGet, "/api/v1/artist", admin, http.StatusOK},
		{http.MethodGet, "/api/v1/artist", manager, http.StatusOK},
		{http.MethodGet, "/api/v1/artist", artist, http.StatusForbidden},
		{http.MethodGet, "/api/v1/artists/download", artist, http.StatusForbidden},
		{http.MethodGet, "/api/v1/music", artist, http.StatusOK},
		{http.MethodGet, "/api/v1/music/page-data", artist, http.StatusOK},
		{http.MethodDelete, "/api/v1/music/1", manager, http.StatusForbidden},
		{http.MethodDelete, "/api/v1/music/1", artist, http.StatusForbidden},
		{http.MethodDelete, "/api/v1/music/1", admin, http.StatusNotFound},
		{http.MethodGet, "/api/v1/music", "", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		w, _ := e.do(tc.method, tc.path, tc.tok, nil)
		assert.Equal(t, tc.want, w.Code, "%s %s", tc.method, tc.path)
	}
}

func TestPaginationParams(t *testing.T) {
	e := newEnv(t)
	admin := e.token(1, domain.RoleSuperAdmin)
	for i := 2; i <= 12; i++ {
		e.token(i, domain.RoleArtistManager)
	}

	w, res := e.do(http.MethodGet, "/api/v1/users?page=2&page_size=5", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	page := decode[service.UserPage](t, res.Data)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 5, page.PageSize)
	assert.EqualValues(t, 12, page.TotalUsers)
	assert.Equal(t, 3, page.TotalPages)
	assert.Len(t, page.Users, 5)

	w, res = e.do(http.MethodGet, "/api/v1/users", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	page = decode[service.UserPage](t, res.Data)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, domain.DefaultPageSize, page.PageSize)

	for _, q := range []string{"page=0", "page_size=0", "page_size=101", "page=abc"} {
		w, _ = e.do(http.MethodGet, "/api/v1/users?"+q, admin, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, q)
	}
}

func TestArtistLifecycle(t *testing.T) {
	e := newEnv(t)
	manager := e.token(1, domain.RoleArtistManager)
	admin := e.token(2, domain.RoleSuperAdmin)
	artistTok := e.token(3, domain.RoleArtist)

	w, res := e.do(http.MethodPost, "/api/v1/artist", manager, map[string]any{
		"first_name": "Nina", "last_name": "Simone", "email": "nina@example.com", "password": "password1",
		"dob": "1933-02-21", "gender": "f", "address": "NC", "first_release_year": 1958, "no_of_albums_released": 40,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[domain.ArtistView](t, res.Data)
	assert.Equal(t, "artist", created.Role)

	path := fmt.Sprintf("/api/v1/artist/%d", created.ID)
	w, res = e.do(http.MethodPut, path, manager, map[string]any{"no_of_albums_released": 41, "user_id": 999})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode[domain.ArtistView](t, res.Data)
	assert.Equal(t, 41, updated.NoOfAlbumsReleased)
	assert.Equal(t, created.UserID, updated.UserID, "user_id is not re-parented")
	assert.Equal(t, "Nina", updated.FirstName)

	w, _ = e.do(http.MethodPost, "/api/v1/music", artistTok, map[string]any{
		"artist_id": created.ID, "title": "Feeling Good", "album_name": "I Put a Spell on You", "genre": "jazz",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w, res = e.do(http.MethodGet, path+"/music", artistTok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	mp := decode[service.MusicPage](t, res.Data)
	assert.EqualValues(t, 1, mp.TotalMusic)

	w, res = e.do(http.MethodGet, "/api/v1/music/page-data", artistTok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	pd := decode[service.PageData](t, res.Data)
	assert.Equal(t, []domain.ArtistLabel{{ArtistID: created.ID, Name: "Nina Simone"}}, pd.Artists)

	w, _ = e.do(http.MethodGet, "/api/v1/artist/abc", manager, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = e.do(http.MethodDelete, path, manager, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Zero(t, w.Body.Len())

	w, _ = e.do(http.MethodGet, path, manager, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w, _ = e.do(http.MethodGet, fmt.Sprintf("/api/v1/users/%d", created.UserID), admin, nil)
	assert.Equal(t, http.StatusNotFound, w.Code, "the artist's user is deleted too")
	w, _ = e.do(http.MethodDelete, path, manager, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func upload(t *testing.T, filename, content string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = io.WriteString(fw, content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(http.MethodPost, "/api/v1/artist/upload-csv", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUploadAndDownloadCSV(t *testing.T) {
	e := newEnv(t)
	manager := e.token(1, domain.RoleArtistManager)
	csv := service.ImportColumnsHeader() +
		"Al,Green,al@example.com,pw-al,555,1946-04-13,m,Memphis,1967,30\n" +
		"Bo,Diddley,bo@example.com,pw-bo,555,1928-12-30,m,Chicago,1955,12\n"

	w, res := e.send(upload(t, "artists.csv", csv), manager)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	out := decode[struct {
		Count int `json:"count"`
	}](t, res.Data)
	assert.Equal(t, 2, out.Count)

	w, res = e.send(upload(t, "artists.txt", csv), manager)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, domain.ErrBadFileType.Error(), res.Msg)

	// 第二次导入同一文件：邮箱重复，整批回滚
	w, _ = e.send(upload(t, "again.csv", csv), manager)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = e.do(http.MethodPost, "/api/v1/artist/upload-csv", manager, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, res = e.do(http.MethodGet, "/api/v1/artists/download", manager, nil)
	require.Equal(t, http.StatusOK, w.Code)
	url := decode[struct {
		URL string `json:"url"`
	}](t, res.Data).URL
	require.True(t, strings.HasPrefix(url, publicURL+"/static/exports/"), url)

	w, _ = e.do(http.MethodGet, strings.TrimPrefix(url, publicURL), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	assert.Len(t, lines, 3)
	assert.Contains(t, w.Body.String(), "bo@example.com")
}
