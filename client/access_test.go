package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kirim-app/kirim/client"
	"github.com/kirim-app/kirim/internal/rbac"
	_ "github.com/kirim-app/kirim/testing"
)

// fakeServer mimics the auth and rbac endpoints with a mutable grant so tests
// can flip server-side permissions underneath a populated cache.
type fakeServer struct {
	mu    sync.Mutex
	grant rbac.Grant
}

func (f *fakeServer) setGrant(grant rbac.Grant) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.grant = grant
}

func (f *fakeServer) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Password != "password123" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "auth_token", Value: "session-token", Path: "/"})
		_ = json.NewEncoder(w).Encode(map[string]any{
			"user": map[string]string{"id": "u1", "email": body.Email, "name": "Budi", "role": "agent"},
		})
	})
	authed := func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if c, err := r.Cookie("auth_token"); err != nil || c.Value != "session-token" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			next(w, r)
		}
	}
	mux.HandleFunc("GET /api/auth/verify", authed(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"userId": "u1", "email": "budi@kirim.local", "name": "Budi", "role": "agent",
		})
	}))
	mux.HandleFunc("GET /api/auth/rbac", authed(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		grant := f.grant
		f.mu.Unlock()
		_ = json.NewEncoder(w).Encode(grant)
	}))
	mux.HandleFunc("POST /api/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "auth_token", Value: "", Path: "/", MaxAge: -1})
		_ = json.NewEncoder(w).Encode(map[string]bool{"success": true})
	})
	return mux
}

func agentGrant() rbac.Grant {
	return rbac.Grant{
		Role: "agent",
		Permissions: []rbac.Permission{
			{Resource: rbac.ResourceCRM, Action: rbac.ActionRead},
			{Resource: rbac.ResourceCRM, Action: rbac.ActionCreate},
		},
		Resources: []string{rbac.ResourceCRM},
	}
}

func newClient(t *testing.T) (*client.Access, *fakeServer) {
	t.Helper()
	fake := &fakeServer{grant: agentGrant()}
	server := httptest.NewServer(fake.handler())
	t.Cleanup(server.Close)

	access, err := client.NewAccess(server.URL)
	require.NoError(t, err)
	return access, fake
}

func TestLoginPopulatesCache(t *testing.T) {
	access, _ := newClient(t)

	_, ok := access.Identity()
	assert.False(t, ok, "cache must be empty before login")

	identity, err := access.Login(context.Background(), "budi@kirim.local", "password123")
	require.NoError(t, err)
	assert.Equal(t, "u1", identity.ID)
	assert.Equal(t, "agent", identity.Role)

	assert.True(t, access.CheckPermission(rbac.ResourceCRM, rbac.ActionRead))
	assert.True(t, access.CheckPermission(rbac.ResourceCRM, rbac.ActionCreate))
	assert.False(t, access.CheckPermission(rbac.ResourceCRM, rbac.ActionDelete))
	assert.True(t, access.HasAccess(rbac.ResourceCRM))
	assert.False(t, access.HasAccess(rbac.ResourceSettings))
	assert.Equal(t, []string{rbac.ResourceCRM}, access.Resources())
}

func TestLoginBadCredentials(t *testing.T) {
	access, _ := newClient(t)

	_, err := access.Login(context.Background(), "budi@kirim.local", "wrong")
	require.Error(t, err)
	assert.ErrorIs(t, err, client.ErrUnauthenticated)

	_, ok := access.Identity()
	assert.False(t, ok)
	assert.False(t, access.CheckPermission(rbac.ResourceCRM, rbac.ActionRead))
}

func TestCacheIsAdvisoryUntilRefreshed(t *testing.T) {
	access, fake := newClient(t)

	_, err := access.Login(context.Background(), "budi@kirim.local", "password123")
	require.NoError(t, err)
	require.True(t, access.CheckPermission(rbac.ResourceCRM, rbac.ActionCreate))

	// The server drops create; the cached answer goes stale but only on the
	// display side. After a refresh the cache converges.
	fake.setGrant(rbac.Grant{
		Role: "agent",
		Permissions: []rbac.Permission{
			{Resource: rbac.ResourceCRM, Action: rbac.ActionRead},
		},
		Resources: []string{rbac.ResourceCRM},
	})

	assert.True(t, access.CheckPermission(rbac.ResourceCRM, rbac.ActionCreate), "stale cache still answers locally")

	require.NoError(t, access.Refresh(context.Background()))
	assert.False(t, access.CheckPermission(rbac.ResourceCRM, rbac.ActionCreate))
	assert.True(t, access.CheckPermission(rbac.ResourceCRM, rbac.ActionRead))
}

func TestRestoreFetchesIdentityAndGrant(t *testing.T) {
	access, _ := newClient(t)

	_, err := access.Restore(context.Background())
	require.Error(t, err, "restore without a session must fail")

	_, err = access.Login(context.Background(), "budi@kirim.local", "password123")
	require.NoError(t, err)

	identity, err := access.Restore(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "u1", identity.ID)
	assert.Equal(t, "budi@kirim.local", identity.Email)
	assert.True(t, access.CheckPermission(rbac.ResourceCRM, rbac.ActionRead))
}

func TestLogoutClearsCache(t *testing.T) {
	access, _ := newClient(t)

	_, err := access.Login(context.Background(), "budi@kirim.local", "password123")
	require.NoError(t, err)

	require.NoError(t, access.Logout(context.Background()))

	_, ok := access.Identity()
	assert.False(t, ok)
	assert.False(t, access.CheckPermission(rbac.ResourceCRM, rbac.ActionRead))
	assert.False(t, access.HasAccess(rbac.ResourceCRM))
	assert.Empty(t, access.Resources())
}
