package command

// Decision is the result of evaluating a command against access policy.
type Decision int

const (
	Allowed Decision = iota
	DeniedAdmin
	DeniedMaintenance
)

func (d Decision) String() string {
	switch d {
	case Allowed:
		return "allowed"
	case DeniedAdmin:
		return "admin-only"
	case DeniedMaintenance:
		return "maintenance"
	default:
		return "invalid"
	}
}

// Gate decides whether a sender may execute cmd. Admin-only restrictions are
// evaluated before maintenance mode, so a non-administrator invoking an
// admin-only command learns that reason even during maintenance.
func Gate(cmd *Command, maintenance, admin bool) Decision {
	switch {
	case cmd.AdminOnly && !admin:
		return DeniedAdmin
	case maintenance && !cmd.AvailableInMaintenance && !admin:
		return DeniedMaintenance
	default:
		return Allowed
	}
}

// Visible reports whether cmd should be listed in help for a sender.
func Visible(cmd *Command, admin, maintenance bool) bool {
	return Gate(cmd, maintenance, admin) == Allowed
}
