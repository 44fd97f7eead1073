package rbac_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kirim-app/kirim/internal/rbac"
	_ "github.com/kirim-app/kirim/testing"
)

func agentPerms() []rbac.Permission {
	return []rbac.Permission{
		{Resource: rbac.ResourceCRM, Action: rbac.ActionRead},
		{Resource: rbac.ResourceCRM, Action: rbac.ActionCreate},
		{Resource: rbac.ResourceCampaigns, Action: rbac.ActionRead},
	}
}

func TestCheckPermissionExactMatch(t *testing.T) {
	perms := agentPerms()

	assert.True(t, rbac.CheckPermission(perms, rbac.ResourceCRM, rbac.ActionRead))
	assert.True(t, rbac.CheckPermission(perms, rbac.ResourceCRM, rbac.ActionCreate))
	assert.False(t, rbac.CheckPermission(perms, rbac.ResourceCRM, rbac.ActionUpdate))
	assert.False(t, rbac.CheckPermission(perms, rbac.ResourceCRM, rbac.ActionDelete))
	assert.False(t, rbac.CheckPermission(perms, rbac.ResourceTeam, rbac.ActionRead))
}

func TestCheckPermissionIsCaseSensitive(t *testing.T) {
	perms := []rbac.Permission{{Resource: "CRM", Action: rbac.ActionRead}}

	assert.False(t, rbac.CheckPermission(perms, "crm", rbac.ActionRead))
	assert.True(t, rbac.CheckPermission(perms, "CRM", rbac.ActionRead))
}

func TestCheckPermissionEmptyList(t *testing.T) {
	assert.False(t, rbac.CheckPermission(nil, rbac.ResourceCRM, rbac.ActionRead))
	assert.False(t, rbac.CheckPermission([]rbac.Permission{}, rbac.ResourceCRM, rbac.ActionRead))
}

func TestHasAccessWithoutActionMeansAnyRight(t *testing.T) {
	perms := []rbac.Permission{{Resource: rbac.ResourceSettings, Action: rbac.ActionDelete}}

	assert.True(t, rbac.HasAccess(perms, rbac.ResourceSettings))
	assert.False(t, rbac.HasAccess(perms, rbac.ResourceCRM))
	assert.False(t, rbac.HasAccess(perms, rbac.ResourceSettings, rbac.ActionRead))
	assert.True(t, rbac.HasAccess(perms, rbac.ResourceSettings, rbac.ActionDelete))
}

func TestActionHelpersAgreeWithCheckPermission(t *testing.T) {
	perms := agentPerms()

	assert.Equal(t, rbac.CheckPermission(perms, rbac.ResourceCRM, rbac.ActionRead), rbac.CanRead(perms, rbac.ResourceCRM))
	assert.Equal(t, rbac.CheckPermission(perms, rbac.ResourceCRM, rbac.ActionCreate), rbac.CanCreate(perms, rbac.ResourceCRM))
	assert.Equal(t, rbac.CheckPermission(perms, rbac.ResourceCRM, rbac.ActionUpdate), rbac.CanUpdate(perms, rbac.ResourceCRM))
	assert.Equal(t, rbac.CheckPermission(perms, rbac.ResourceCRM, rbac.ActionDelete), rbac.CanDelete(perms, rbac.ResourceCRM))
}

func TestResourcesDeduplicatesInFirstSeenOrder(t *testing.T) {
	perms := []rbac.Permission{
		{Resource: rbac.ResourceCampaigns, Action: rbac.ActionRead},
		{Resource: rbac.ResourceCRM, Action: rbac.ActionRead},
		{Resource: rbac.ResourceCampaigns, Action: rbac.ActionUpdate},
		{Resource: rbac.ResourceCRM, Action: rbac.ActionDelete},
	}

	assert.Equal(t, []string{rbac.ResourceCampaigns, rbac.ResourceCRM}, rbac.Resources(perms))
	assert.Empty(t, rbac.Resources(nil))
}
