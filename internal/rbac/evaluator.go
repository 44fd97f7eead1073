package rbac

// CheckPermission reports whether at least one entry grants exactly the
// requested action on the requested resource. Matching is case-sensitive with
// no normalization.
func CheckPermission(perms []Permission, resource string, action Action) bool {
	for _, p := range perms {
		if p.Resource == resource && p.Action == action {
			return true
		}
	}
	return false
}

// HasAccess reports whether the permission list grants anything at all on the
// resource. With an action supplied it delegates to CheckPermission; without
// one, holding any right on the resource implies visibility.
func HasAccess(perms []Permission, resource string, action ...Action) bool {
	if len(action) == 0 {
		for _, p := range perms {
			if p.Resource == resource {
				return true
			}
		}
		return false
	}
	return CheckPermission(perms, resource, action[0])
}

// CanRead reports read access on the resource.
func CanRead(perms []Permission, resource string) bool {
	return CheckPermission(perms, resource, ActionRead)
}

// CanCreate reports create access on the resource.
func CanCreate(perms []Permission, resource string) bool {
	return CheckPermission(perms, resource, ActionCreate)
}

// CanUpdate reports update access on the resource.
func CanUpdate(perms []Permission, resource string) bool {
	return CheckPermission(perms, resource, ActionUpdate)
}

// CanDelete reports delete access on the resource.
func CanDelete(perms []Permission, resource string) bool {
	return CheckPermission(perms, resource, ActionDelete)
}

// Resources returns the deduplicated resources appearing in the permission
// list, in first-seen order. Drives "does this identity see this area at all"
// decisions independent of a specific action.
func Resources(perms []Permission) []string {
	seen := make(map[string]struct{}, len(perms))
	resources := make([]string, 0, len(perms))
	for _, p := range perms {
		if _, ok := seen[p.Resource]; ok {
			continue
		}
		seen[p.Resource] = struct{}{}
		resources = append(resources, p.Resource)
	}
	return resources
}
