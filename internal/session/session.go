package session

// Role is the closed set of dashboard roles recognized by this client build.
// Stored payloads written by older or newer builds may carry values outside
// this set; those are normalized to "no role" when restored.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleManager  Role = "MANAGER"
	RoleEmployee Role = "EMPLOYEE"
)

// Valid reports whether the role is a recognized enumeration value.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleEmployee:
		return true
	}
	return false
}

// Session is the authenticated identity held by the running client. The JSON
// field names match the backend LoginResponse shape exactly; the same payload
// is persisted verbatim under the "user" storage entry.
type Session struct {
	JwtToken   string   `json:"jwtToken"`
	ID         int      `json:"id"`
	FullName   string   `json:"fullName"`
	Phone      string   `json:"phone"`
	Email      string   `json:"email"`
	UserRole   *Role    `json:"userRole"`
	Location   string   `json:"location,omitempty"`
	Avatar     string   `json:"avatar,omitempty"`
	Experience string   `json:"experience,omitempty"`
	Skills     []string `json:"skills,omitempty"`
}

// Authenticated reports whether the session carries a bearer token.
// An empty token is equivalent to "signed out".
func (s Session) Authenticated() bool {
	return s.JwtToken != ""
}
