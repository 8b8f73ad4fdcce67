package domain

// Action is a closed set of permission-gated operations.
type Action string

const (
	ActionCreateListing   Action = "listing.create"
	ActionEditListing     Action = "listing.edit"
	ActionDeleteListing   Action = "listing.delete"
	ActionModerateListing Action = "listing.moderate"
	ActionViewAnalytics   Action = "admin.analytics"
)

// Allow evaluates the permission matrix for a caller role, an action and
// whether the caller owns the target resource. Ownership-scoped actions
// grant nothing to admins on other owners' resources: edits and deletes
// go through the owner scope only.
func Allow(role Role, action Action, owns bool) bool {
	switch action {
	case ActionCreateListing:
		return role == RoleOwner || role == RoleAdmin
	case ActionEditListing, ActionDeleteListing:
		return owns
	case ActionModerateListing, ActionViewAnalytics:
		return role == RoleAdmin
	}
	return false
}
