// Package tallyengine captures per-mesa vote tallies reported by assigned
// witnesses. A mesa's tally is submitted exactly once: after the one-shot
// transition from PENDIENTE to ENVIADA the record becomes read-only.
package tallyengine
