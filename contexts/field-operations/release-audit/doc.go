// Package releaseaudit is the read side over the append-only log of mesa
// releases. It never writes: rows are appended by witness-assignment in
// the same transaction that removes the claim.
package releaseaudit
