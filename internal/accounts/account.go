package accounts

import (
	"time"

	"github.com/globaldevelopmentfuture/gdfuture-management/internal/session"
)

// Account is a dashboard user as stored by the dev API server. The JSON shape
// matches the backend's UserResponse; the password hash never serializes.
type Account struct {
	ID           int           `bson:"id" json:"id"`
	FullName     string        `bson:"fullName" json:"fullName"`
	Phone        string        `bson:"phone" json:"phone"`
	Email        string        `bson:"email" json:"email"`
	PasswordHash string        `bson:"passwordHash" json:"-"`
	UserRole     *session.Role `bson:"userRole" json:"userRole"`
	Location     string        `bson:"location,omitempty" json:"location,omitempty"`
	Avatar       string        `bson:"avatar,omitempty" json:"avatar,omitempty"`
	Experience   string        `bson:"experience,omitempty" json:"experience,omitempty"`
	TeamPosition string        `bson:"teamPosition,omitempty" json:"teamPosition,omitempty"`
	Skills       []string      `bson:"skills,omitempty" json:"skills,omitempty"`
	CreatedAt    time.Time     `bson:"createdAt" json:"-"`
	UpdatedAt    time.Time     `bson:"updatedAt" json:"-"`
}
