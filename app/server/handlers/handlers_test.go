package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/alexedwards/argon2id"
	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"user-registration/app/server/events"
	"user-registration/app/server/jwt"
	"user-registration/app/server/models"
	"user-registration/app/server/repositories"
	"user-registration/app/server/storage"
	"user-registration/app/server/types"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

func init() {
	models.HashParams = &argon2id.Params{
		Memory:      1024,
		Iterations:  1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	}
}

type fakePublisher struct {
	published []events.UserRegistered
	err       error
}

func (p *fakePublisher) PublishUserRegistered(_ context.Context, event events.UserRegistered) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, event)
	return nil
}

func (p *fakePublisher) Close() error { return nil }

type testEnv struct {
	e         *echo.Echo
	app       *App
	users     repositories.UserStore
	mr        *miniredis.Miniredis
	rdb       *redis.Client
	jwt       *jwt.JWT
	uploadDir string
	events    *fakePublisher
}

func newTestEnv(t *testing.T, users repositories.UserStore) *testEnv {
	t.Helper()

	if users == nil {
		users = repositories.NewInMemoryUserStore()
	}

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	j, err := jwt.New("test-secret")
	require.NoError(t, err)

	uploadDir := t.TempDir()
	avatars, err := storage.NewLocalStore(uploadDir, "/uploads")
	require.NoError(t, err)

	pub := &fakePublisher{}
	app := NewApp(zaptest.NewLogger(t), users, rdb, j, avatars, pub)

	e := echo.New()
	RegisterHandlers(e, app, 1000)

	return &testEnv{
		e:         e,
		app:       app,
		users:     users,
		mr:        mr,
		rdb:       rdb,
		jwt:       j,
		uploadDir: uploadDir,
		events:    pub,
	}
}

func (env *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) avatarFiles(t *testing.T) []os.DirEntry {
	t.Helper()
	entries, err := os.ReadDir(filepath.Join(env.uploadDir, "avatars"))
	require.NoError(t, err)
	return entries
}

func registerRequest(t *testing.T, fields map[string]string, image []byte) *http.Request {
	t.Helper()

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for name, value := range fields {
		require.NoError(t, w.WriteField(name, value))
	}
	if image != nil {
		part, err := w.CreateFormFile("image", "avatar.png")
		require.NoError(t, err)
		_, err = part.Write(image)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", body)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	return req
}

func aliceFields() map[string]string {
	return map[string]string{
		"username": "alice",
		"email":    "a@x.com",
		"phone":    "1234567890",
		"password": "secret",
	}
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) types.ErrorMessage {
	t.Helper()
	var msg types.ErrorMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &msg))
	return msg
}

func decodeRegister(t *testing.T, rec *httptest.ResponseRecorder) types.RegisterResponse {
	t.Helper()
	var res types.RegisterResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	return res
}

// failingStore 模拟数据库写入失败
type failingStore struct {
	repositories.UserStore
	err error
}

func (s *failingStore) Create(context.Context, *models.User) error {
	return s.err
}

// idlessStore 保存成功但没有回填 ID ，用于触发签发失败
type idlessStore struct {
	repositories.UserStore
}

func (s *idlessStore) Create(context.Context, *models.User) error {
	return nil
}

var errDatabaseDown = errors.New("database down")

func decodeUserInfo(t *testing.T, rec *httptest.ResponseRecorder) types.UserInfo {
	t.Helper()
	var info types.UserInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	return info
}
