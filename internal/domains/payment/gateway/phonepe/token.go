package phonepe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// refresh this long before the reported expiry to absorb clock skew
const tokenExpirySlack = 2 * time.Minute

// tokenManager caches the OAuth client-credentials token and refreshes
// it on demand. Safe for concurrent use.
type tokenManager struct {
	httpClient   *http.Client
	tokenURL     string
	clientID     string
	clientSecret string

	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

func newTokenManager(httpClient *http.Client, tokenURL, clientID, clientSecret string) *tokenManager {
	return &tokenManager{
		httpClient:   httpClient,
		tokenURL:     tokenURL,
		clientID:     clientID,
		clientSecret: clientSecret,
	}
}

// Token returns the cached token, fetching a fresh one when the cache
// is empty or about to expire.
func (tm *tokenManager) Token(ctx context.Context) (string, error) {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	if tm.token != "" && time.Now().Before(tm.expiresAt.Add(-tokenExpirySlack)) {
		return tm.token, nil
	}

	form := url.Values{}
	form.Set("client_id", tm.clientID)
	form.Set("client_secret", tm.clientSecret)
	form.Set("grant_type", "client_credentials")
	form.Set("client_version", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tm.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := tm.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch oauth token: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read token response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token endpoint returned %d", resp.StatusCode)
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}
	if tr.AccessToken == "" {
		return "", fmt.Errorf("token endpoint returned empty access_token")
	}

	tm.token = tr.AccessToken
	switch {
	case tr.ExpiresAt > 0:
		tm.expiresAt = time.Unix(tr.ExpiresAt, 0)
	case tr.ExpiresIn > 0:
		tm.expiresAt = time.Now().Add(time.Duration(tr.ExpiresIn) * time.Second)
	default:
		tm.expiresAt = time.Now().Add(10 * time.Minute)
	}

	return tm.token, nil
}
