package policy

import "centinela/internal/shared/actor"

// Survey submitters and electoral staff may register and browse stations.
func CanManageStations(caller actor.Actor) bool {
	switch caller.Role {
	case actor.RoleAdmin, actor.RoleCoordinator, actor.RoleLeader, actor.RoleCollaborator:
		return true
	default:
		return false
	}
}

func CanDeleteStation(caller actor.Actor) bool {
	return caller.Role == actor.RoleAdmin || caller.Role == actor.RoleLeader
}

// ListScope returns the municipality the listing must be restricted to,
// or "" for an unrestricted view.
func ListScope(caller actor.Actor) string {
	if caller.IsCoordinator() && caller.Municipio != "" {
		return caller.Municipio
	}
	return ""
}
