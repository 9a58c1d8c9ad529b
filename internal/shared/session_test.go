package shared

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func testManager(t *testing.T) *SessionManager {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewSessionManager(client, "test_session", "secret", time.Hour, false)
}

func TestSessionRoundTrip(t *testing.T) {
	sm := testManager(t)
	ctx := context.Background()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	sess, err := sm.Load(ctx, req)
	require.NoError(t, err)
	require.NotEmpty(t, sess.ID)

	sess.SetUser("42")
	sess.Set(SessionKeyUserName, "ramesh")
	sess.Set(SessionKeyElevated, "1")

	rec := httptest.NewRecorder()
	require.NoError(t, sm.Commit(ctx, rec, req, sess))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, "test_session", cookies[0].Name)
	require.Equal(t, sess.ID, cookies[0].Value)

	reload := httptest.NewRequest(http.MethodGet, "/", nil)
	reload.AddCookie(cookies[0])
	loaded, err := sm.Load(ctx, reload)
	require.NoError(t, err)
	require.Equal(t, "42", loaded.User())
	require.Equal(t, "ramesh", loaded.Get(SessionKeyUserName))

	op := OperatorFromSession(loaded)
	require.True(t, op.Known())
	require.True(t, op.Elevated)
	require.EqualValues(t, 42, op.UserID)
}

func TestSessionDestroy(t *testing.T) {
	sm := testManager(t)
	ctx := context.Background()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	sess, err := sm.Load(ctx, req)
	require.NoError(t, err)
	sess.SetUser("42")
	rec := httptest.NewRecorder()
	require.NoError(t, sm.Commit(ctx, rec, req, sess))

	sm.Destroy(sess)
	rec = httptest.NewRecorder()
	require.NoError(t, sm.Commit(ctx, rec, req, sess))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, -1, cookies[0].MaxAge)

	reload := httptest.NewRequest(http.MethodGet, "/", nil)
	reload.AddCookie(&http.Cookie{Name: "test_session", Value: sess.ID})
	loaded, err := sm.Load(ctx, reload)
	require.NoError(t, err)
	require.Empty(t, loaded.User())
}

func TestCSRFTokens(t *testing.T) {
	m := NewCSRFManager("csrf-secret")
	ctx := context.Background()
	sess := &Session{ID: "abc", values: map[string]string{}}

	token, err := m.EnsureToken(ctx, sess)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	again, err := m.EnsureToken(ctx, sess)
	require.NoError(t, err)
	require.Equal(t, token, again)

	require.NoError(t, m.VerifyToken(ctx, sess, token))
	require.ErrorIs(t, m.VerifyToken(ctx, sess, "forged"), ErrCSRFTokenMismatch)
	require.ErrorIs(t, m.VerifyToken(ctx, sess, ""), ErrCSRFTokenMissing)
	require.ErrorIs(t, m.VerifyToken(ctx, nil, token), ErrCSRFTokenMissing)
}

func TestPagination(t *testing.T) {
	p := NewPagination(2, 25, 51)
	require.Equal(t, 3, p.TotalPages)
	require.Equal(t, 25, p.Offset())

	p = NewPagination(0, 0, 0)
	require.Equal(t, 1, p.Page)
	require.Equal(t, 25, p.PerPage)
	require.Equal(t, 0, p.TotalPages)
}
