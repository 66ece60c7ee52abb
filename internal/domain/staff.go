package domain

// StaffRole enumerates terminal permissions.
type StaffRole string

const (
	StaffRoleServer  StaffRole = "SERVER"
	StaffRoleCashier StaffRole = "CASHIER"
	StaffRoleManager StaffRole = "MANAGER"
)

// StaffMember is a terminal operator who logs in with a PIN.
type StaffMember struct {
	ID       int
	Name     string
	PINHash  string
	Role     StaffRole
	IsActive bool
}
