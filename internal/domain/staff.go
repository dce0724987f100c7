package domain

type (
	// StaffStatus represents the employment status of a staff member.
	StaffStatus string
	// TeamStatus represents whether a team takes work.
	TeamStatus string
	// TeamRole is the role a staff member holds inside a team.
	TeamRole string
)

// List of staff statuses
const (
	StaffActive   StaffStatus = "active"
	StaffInactive StaffStatus = "inactive"
	StaffOnLeave  StaffStatus = "on_leave"
)

// List of team statuses
const (
	TeamActive   TeamStatus = "active"
	TeamInactive TeamStatus = "inactive"
)

// List of team roles
const (
	RoleLeader     TeamRole = "leader"
	RoleMember     TeamRole = "member"
	RoleSpecialist TeamRole = "specialist"
)

// StaffMember is a cleaner who can receive assignments.
type StaffMember struct {
	ID     int64
	Name   string
	Email  string
	Phone  string
	Status StaffStatus
}

// Active reports whether the staff member may receive assignments.
func (s *StaffMember) Active() bool { return s.Status == StaffActive }

// Team is a named group of staff members.
type Team struct {
	ID     int64
	Name   string
	Status TeamStatus
}

// Active reports whether the team may receive assignments.
func (t *Team) Active() bool { return t.Status == TeamActive }

// TeamMember links a staff member to a team.
type TeamMember struct {
	TeamID  int64
	StaffID int64
	Role    TeamRole
}

// Valid checks if the TeamRole is valid
func (r TeamRole) Valid() bool {
	return r == RoleLeader || r == RoleMember || r == RoleSpecialist
}
