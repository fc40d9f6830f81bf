// Package witnessassignment implements the Witness Assignment Manager inside
// the field-operations context.
//
// The module owns witness accounts and their single active assignment
// (station + claimed table set), enforces pairwise-disjoint table claims per
// station, and is the sole writer of release audit rows. Releases are
// serialized per assignment and emit outbox events for reporting consumers.
package witnessassignment
