package domain

type Role string

const (
	RoleService  Role = "service"
	RoleCustomer Role = "customer"
)

func (r Role) Valid() bool {
	return r == RoleService || r == RoleCustomer
}

// Caller is the authenticated identity on whose behalf an operation runs.
// It is passed explicitly to every service call.
type Caller struct {
	UserID int32  `json:"user_id"`
	Email  string `json:"email,omitempty"`
	Role   Role   `json:"role"`
}

func (c Caller) IsService() bool  { return c.Role == RoleService }
func (c Caller) IsCustomer() bool { return c.Role == RoleCustomer }
