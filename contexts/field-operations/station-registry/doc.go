// Package stationregistry implements the PollingStation Registry inside the
// field-operations context.
//
// The module owns the canonical record of physical voting locations
// (departamento, municipio, puesto, table count, address, coordinates),
// enforces identity-tuple uniqueness, and computes per-station table
// availability against the claimed-tables view owned by witness-assignment.
package stationregistry
