package actor

import "strings"

// Role is the closed set of user roles recognized by the platform.
type Role string

const (
	RoleAdmin        Role = "ADMIN"
	RoleCoordinator  Role = "COORDINADOR_ELECTORAL"
	RoleWitness      Role = "TESTIGO_ELECTORAL"
	RoleLeader       Role = "LIDER"
	RoleCollaborator Role = "COLABORADOR"
	RoleCandidate    Role = "CANDIDATO"
)

// Actor is the authenticated caller as resolved by the transport layer.
// Municipio is set only for municipality-scoped roles (coordinators).
type Actor struct {
	UserID    string
	Name      string
	Role      Role
	Municipio string
}

func ParseRole(raw string) (Role, bool) {
	switch Role(strings.ToUpper(strings.TrimSpace(raw))) {
	case RoleAdmin:
		return RoleAdmin, true
	case RoleCoordinator:
		return RoleCoordinator, true
	case RoleWitness:
		return RoleWitness, true
	case RoleLeader:
		return RoleLeader, true
	case RoleCollaborator:
		return RoleCollaborator, true
	case RoleCandidate:
		return RoleCandidate, true
	default:
		return "", false
	}
}

func (a Actor) IsAdmin() bool       { return a.Role == RoleAdmin }
func (a Actor) IsCoordinator() bool { return a.Role == RoleCoordinator }
func (a Actor) IsWitness() bool     { return a.Role == RoleWitness }
func (a Actor) IsLeader() bool      { return a.Role == RoleLeader }

// SameMunicipio compares municipality names the way the registry stores
// them: trimmed, case-insensitive.
func SameMunicipio(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
