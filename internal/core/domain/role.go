package domain

// Role is the closed set of access levels an account can hold.
type Role string

const (
	RoleUser            Role = "USER"
	RoleOrganizer       Role = "ORGANIZER"
	RoleServiceProvider Role = "SERVICE_PROVIDER"
	RoleAdmin           Role = "ADMIN"
)

// Landing paths per role.
const (
	PathAdminHome     = "/admin/dashboard"
	PathOrganizerHome = "/dashboard"
	PathProviderHome  = "/provider/dashboard"
	PathPublicHome    = "/events"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleOrganizer, RoleServiceProvider, RoleAdmin:
		return true
	}
	return false
}

// SelfAssignable reports whether a user may pick r when registering.
// ADMIN is granted out of band only.
func (r Role) SelfAssignable() bool {
	return r == RoleUser || r == RoleOrganizer || r == RoleServiceProvider
}

// LandingPath returns where an account with role r lands after login.
// Unknown roles land on the public event listing.
func LandingPath(r Role) string {
	switch r {
	case RoleAdmin:
		return PathAdminHome
	case RoleOrganizer:
		return PathOrganizerHome
	case RoleServiceProvider:
		return PathProviderHome
	default:
		return PathPublicHome
	}
}
