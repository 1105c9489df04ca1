package domain

import "time"

const (
	RoleEmployee = "employee"
	RoleEmployer = "employer"
	RoleAdmin    = "admin"
)

// User models an account. Employees apply for jobs; employers publish them.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Lastname     string    `json:"lastname"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CityID       string    `json:"city_id,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	Address      string    `json:"address,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Caller is the authenticated identity acting on the core.
type Caller struct {
	UserID string
	Role   string
}

func (c Caller) IsAdmin() bool    { return c.Role == RoleAdmin }
func (c Caller) IsEmployer() bool { return c.Role == RoleEmployer }

// Owns reports whether the caller is the recorded owner of a resource.
func (c Caller) Owns(ownerID string) bool {
	return c.UserID != "" && c.UserID == ownerID
}
