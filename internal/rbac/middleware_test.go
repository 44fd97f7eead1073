package rbac_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kirim-app/kirim/internal/rbac"
	"github.com/kirim-app/kirim/internal/shared"
	_ "github.com/kirim-app/kirim/testing"
)

func agentResolver(t *testing.T) *rbac.Resolver {
	t.Helper()
	return rbac.NewResolver(
		&stubUserFinder{users: map[string]rbac.UserRecord{
			"agent-1": {ID: "agent-1", Role: "agent"},
		}},
		&stubRoleFinder{roles: map[string]rbac.Role{
			"agent": {Name: "agent", Permissions: []rbac.Permission{
				{Resource: rbac.ResourceCRM, Action: rbac.ActionRead},
				{Resource: rbac.ResourceCRM, Action: rbac.ActionCreate},
			}},
		}},
	)
}

func requestAs(userID string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/crm/contacts", nil)
	if userID == "" {
		return req
	}
	identity := shared.Identity{UserID: userID, Email: userID + "@kirim.local", Role: "agent"}
	return req.WithContext(shared.ContextWithIdentity(req.Context(), identity))
}

func TestRequireAllowsGrantedAction(t *testing.T) {
	mw := rbac.Middleware{Resolver: agentResolver(t)}

	called := false
	handler := mw.Require(rbac.ResourceCRM, rbac.ActionCreate)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, requestAs("agent-1"))

	if !called {
		t.Fatal("expected handler to run")
	}
	if res.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", res.Code)
	}
}

func TestRequireDeniesMissingAction(t *testing.T) {
	mw := rbac.Middleware{Resolver: agentResolver(t)}

	handler := mw.Require(rbac.ResourceCRM, rbac.ActionUpdate)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, requestAs("agent-1"))

	if res.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", res.Code)
	}
}

func TestRequireWithoutIdentityIsUnauthorized(t *testing.T) {
	mw := rbac.Middleware{Resolver: agentResolver(t)}

	handler := mw.Require(rbac.ResourceCRM, rbac.ActionRead)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, requestAs(""))

	if res.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", res.Code)
	}
}

func TestRequireFailsClosedOnResolveError(t *testing.T) {
	resolver := rbac.NewResolver(&stubUserFinder{err: errors.New("store down")}, &stubRoleFinder{})
	mw := rbac.Middleware{Resolver: resolver}

	handler := mw.Require(rbac.ResourceCRM, rbac.ActionRead)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, requestAs("agent-1"))

	if res.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", res.Code)
	}
}

func TestRequireResourceAnyActionCounts(t *testing.T) {
	mw := rbac.Middleware{Resolver: agentResolver(t)}

	handler := mw.RequireResource(rbac.ResourceCRM)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, requestAs("agent-1"))
	if res.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", res.Code)
	}

	handler = mw.RequireResource(rbac.ResourceSettings)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))
	res = httptest.NewRecorder()
	handler.ServeHTTP(res, requestAs("agent-1"))
	if res.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", res.Code)
	}
}
