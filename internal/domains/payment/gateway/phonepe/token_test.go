package phonepe

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTokenServer(t *testing.T, calls *int32, expiresIn int64) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.Form.Get("grant_type"))
		assert.Equal(t, "cid", r.Form.Get("client_id"))

		n := atomic.AddInt32(calls, 1)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": "token-" + string(rune('0'+n)),
			"token_type":   "O-Bearer",
			"expires_in":   expiresIn,
		})
	}))
}

func TestTokenManager_CachesToken(t *testing.T) {
	var calls int32
	srv := newTokenServer(t, &calls, 3600)
	defer srv.Close()

	tm := newTokenManager(srv.Client(), srv.URL, "cid", "secret")

	first, err := tm.Token(context.Background())
	require.NoError(t, err)

	second, err := tm.Token(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "second call must hit the cache")
}

func TestTokenManager_RefreshesExpiredToken(t *testing.T) {
	var calls int32
	srv := newTokenServer(t, &calls, 3600)
	defer srv.Close()

	tm := newTokenManager(srv.Client(), srv.URL, "cid", "secret")

	first, err := tm.Token(context.Background())
	require.NoError(t, err)

	// Force the cached token past its refresh window.
	tm.mu.Lock()
	tm.expiresAt = time.Now().Add(-time.Minute)
	tm.mu.Unlock()

	second, err := tm.Token(context.Background())
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestTokenManager_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	tm := newTokenManager(srv.Client(), srv.URL, "cid", "secret")

	_, err := tm.Token(context.Background())
	assert.Error(t, err)
}
