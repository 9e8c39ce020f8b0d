// Package accountsvc resolves auth tokens into user profiles over the
// accounts HTTP API.
package accountsvc

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"github.com/elimuhq/elimu/core/session"
	"github.com/elimuhq/elimu/core/user"
)

type httpWhoami struct {
	baseURL string
	client  *http.Client
}

var _ session.Whoami = (*httpWhoami)(nil)

// NewHTTPWhoami talks to GET <baseURL>/api/users/me with a Bearer token.
func NewHTTPWhoami(baseURL string, client *http.Client) session.Whoami {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &httpWhoami{baseURL: baseURL, client: client}
}

func (w *httpWhoami) FetchProfile(ctx context.Context, token string) (user.User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.baseURL+"/api/users/me", nil)
	if err != nil {
		return user.User{}, errors.Wrap(err, "building whoami request")
	}
	req.Header.Set("Authorization", "Bearer "+token)

	res, err := w.client.Do(req)
	if err != nil {
		return user.User{}, errors.Wrap(err, "fetching profile")
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode != http.StatusOK {
		return user.User{}, errors.Errorf("fetching profile: status %d", res.StatusCode)
	}

	var usr user.User
	if err := json.NewDecoder(res.Body).Decode(&usr); err != nil {
		return user.User{}, errors.Wrap(err, "decoding profile")
	}
	return usr, nil
}
