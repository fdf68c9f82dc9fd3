package session

// Role is the actor role derived from the session token. It decides which
// order actions are visible and executable; it is never mutated here.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleCashier  Role = "cashier"
	RoleShipper  Role = "shipper"
	RoleAdmin    Role = "admin"
)

// Staff position attributes carried in the token alongside the role claim.
const (
	PositionCashier = 1
	PositionShipper = 4
)

// Actor is the authenticated identity behind every gateway call. It is an
// explicit parameter to the gateway and coordinators, never an ambient global.
type Actor struct {
	ID    int
	Role  Role
	Token string
}

func (a Actor) IsStaff() bool {
	return a.Role == RoleCashier || a.Role == RoleShipper || a.Role == RoleAdmin
}
