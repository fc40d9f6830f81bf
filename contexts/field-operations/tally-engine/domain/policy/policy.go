package policy

import "centinela/internal/shared/actor"

// CanSubmitTally limits submissions to witnesses; the assignment check
// against the concrete mesa happens in the use case.
func CanSubmitTally(caller actor.Actor) bool {
	return caller.IsWitness()
}

// CanViewAllTallies lets administrators and coordinators read every tally.
func CanViewAllTallies(caller actor.Actor) bool {
	return caller.IsAdmin() || caller.IsCoordinator()
}
