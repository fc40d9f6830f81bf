package policy

import "centinela/internal/shared/actor"

// CanCreateWitness allows unrestricted administrators and
// municipality-scoped coordinators. The municipio presence check for
// coordinators happens in the use case so it can fail with its own error.
func CanCreateWitness(caller actor.Actor) bool {
	return caller.IsAdmin() || caller.IsCoordinator()
}

// CanReleaseMesa allows administrators and coordinators; the municipio
// scoping predicate is evaluated against the station in the use case.
func CanReleaseMesa(caller actor.Actor) bool {
	return caller.IsAdmin() || caller.IsCoordinator()
}

func CanListWitnesses(caller actor.Actor) bool {
	return caller.IsAdmin() || caller.IsCoordinator()
}
