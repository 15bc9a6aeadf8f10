package auth

import "donorconnect/pkg/types"

type Decision int

const (
	Allow Decision = iota
	Unauthenticated
	Forbidden
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case Unauthenticated:
		return "unauthenticated"
	case Forbidden:
		return "forbidden"
	}
	return "unknown"
}

// Authorize checks a session against a required role. An empty role only
// requires that a session exists.
func Authorize(session *types.Session, required types.Role) Decision {
	if session == nil {
		return Unauthenticated
	}

	if required == "" || session.Role == required {
		return Allow
	}

	return Forbidden
}

type Capability string

const (
	CapDeleteDonor    Capability = "donor:delete"
	CapDeleteDonation Capability = "donation:delete"
	CapDeleteCampaign Capability = "campaign:delete"
	CapDeleteTask     Capability = "task:delete"
	CapViewAdmin      Capability = "admin:view"
	CapExportReports  Capability = "reports:export"
)

// capabilities maps each capability to the role it needs. An empty role means
// any signed-in user.
var capabilities = map[Capability]types.Role{
	CapDeleteDonor:    types.RoleAdmin,
	CapDeleteDonation: types.RoleAdmin,
	CapDeleteCampaign: "",
	CapDeleteTask:     "",
	CapViewAdmin:      types.RoleAdmin,
	CapExportReports:  types.RoleAdmin,
}

// RequiredRole reports the role a capability needs. Unknown capabilities
// are treated as admin only.
func RequiredRole(c Capability) types.Role {
	role, ok := capabilities[c]
	if !ok {
		return types.RoleAdmin
	}
	return role
}

func Can(session *types.Session, c Capability) Decision {
	return Authorize(session, RequiredRole(c))
}
