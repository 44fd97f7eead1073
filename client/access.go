// Package client is a small Go client for the Kirim API. Its access cache
// mirrors what the dashboard keeps in memory: the identity plus the resolved
// grant, refreshed on login and on demand. The cache is advisory only; every
// API call is still authorized server-side, so a stale cache can hide a
// button but never grant access.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/kirim-app/kirim/internal/rbac"
)

// ErrUnauthenticated is returned when the server rejects the session.
var ErrUnauthenticated = errors.New("client: not authenticated")

// Identity is the session identity echoed by the server.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// Access talks to a Kirim server and caches the current grant. Safe for
// concurrent use.
type Access struct {
	base *url.URL
	http *http.Client

	mu        sync.RWMutex
	identity  Identity
	grant     rbac.Grant
	populated bool
}

// NewAccess constructs a client for the given base URL. The underlying HTTP
// client carries a cookie jar so the session cookie set at login is replayed
// on every call.
func NewAccess(baseURL string) (*Access, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("client: parse base url: %w", err)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("client: cookie jar: %w", err)
	}
	return &Access{
		base: base,
		http: &http.Client{Jar: jar},
	}, nil
}

// Login authenticates and populates the cache with the resulting grant.
func (a *Access) Login(ctx context.Context, email, password string) (Identity, error) {
	body, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return Identity{}, err
	}
	req, err := a.newRequest(ctx, http.MethodPost, "/api/auth/login", bytes.NewReader(body))
	if err != nil {
		return Identity{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	var resp struct {
		User Identity `json:"user"`
	}
	if err := a.do(req, &resp); err != nil {
		return Identity{}, err
	}

	grant, err := a.fetchGrant(ctx)
	if err != nil {
		return Identity{}, err
	}

	a.mu.Lock()
	a.identity = resp.User
	a.grant = grant
	a.populated = true
	a.mu.Unlock()
	return resp.User, nil
}

// Restore rebuilds the cache from an existing session cookie, fetching the
// identity and the grant concurrently. Used after a process restart when the
// jar was persisted elsewhere.
func (a *Access) Restore(ctx context.Context) (Identity, error) {
	var (
		identity Identity
		grant    rbac.Grant
	)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		req, err := a.newRequest(ctx, http.MethodGet, "/api/auth/verify", nil)
		if err != nil {
			return err
		}
		var claims struct {
			UserID string `json:"userId"`
			Email  string `json:"email"`
			Name   string `json:"name"`
			Role   string `json:"role"`
		}
		if err := a.do(req, &claims); err != nil {
			return err
		}
		identity = Identity{ID: claims.UserID, Email: claims.Email, Name: claims.Name, Role: claims.Role}
		return nil
	})
	g.Go(func() error {
		var err error
		grant, err = a.fetchGrant(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return Identity{}, err
	}

	a.mu.Lock()
	a.identity = identity
	a.grant = grant
	a.populated = true
	a.mu.Unlock()
	return identity, nil
}

// Refresh re-fetches the grant for the current session without touching the
// identity.
func (a *Access) Refresh(ctx context.Context) error {
	grant, err := a.fetchGrant(ctx)
	if err != nil {
		return err
	}
	a.mu.Lock()
	a.grant = grant
	a.populated = true
	a.mu.Unlock()
	return nil
}

// Logout ends the session server-side and clears the cache.
func (a *Access) Logout(ctx context.Context) error {
	req, err := a.newRequest(ctx, http.MethodPost, "/api/auth/logout", nil)
	if err != nil {
		return err
	}
	err = a.do(req, nil)

	a.mu.Lock()
	a.identity = Identity{}
	a.grant = rbac.Grant{}
	a.populated = false
	a.mu.Unlock()
	return err
}

// Identity returns the cached identity. The second return is false until a
// successful Login or Restore.
func (a *Access) Identity() (Identity, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.identity, a.populated
}

// CheckPermission reports whether the cached grant holds the exact
// (resource, action) pair. Purely local; never blocks on the network.
func (a *Access) CheckPermission(resource string, action rbac.Action) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.populated && rbac.CheckPermission(a.grant.Permissions, resource, action)
}

// HasAccess reports whether the cached grant holds any of the given actions
// on the resource, or any action at all when none are given.
func (a *Access) HasAccess(resource string, actions ...rbac.Action) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.populated && rbac.HasAccess(a.grant.Permissions, resource, actions...)
}

// Resources returns the cached resource list in grant order.
func (a *Access) Resources() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]string, len(a.grant.Resources))
	copy(out, a.grant.Resources)
	return out
}

func (a *Access) fetchGrant(ctx context.Context) (rbac.Grant, error) {
	req, err := a.newRequest(ctx, http.MethodGet, "/api/auth/rbac", nil)
	if err != nil {
		return rbac.Grant{}, err
	}
	var grant rbac.Grant
	if err := a.do(req, &grant); err != nil {
		return rbac.Grant{}, err
	}
	return grant, nil
}

func (a *Access) newRequest(ctx context.Context, method, path string, body *bytes.Reader) (*http.Request, error) {
	u := a.base.JoinPath(path)
	if body == nil {
		return http.NewRequestWithContext(ctx, method, u.String(), nil)
	}
	return http.NewRequestWithContext(ctx, method, u.String(), body)
}

func (a *Access) do(req *http.Request, out any) error {
	resp, err := a.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrUnauthenticated
	case resp.StatusCode >= 400:
		return fmt.Errorf("client: %s %s: status %d", req.Method, req.URL.Path, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
