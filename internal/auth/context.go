package auth

import "github.com/gin-gonic/gin"

const identityKey = "identity"

// Role is the coarse permission level carried in access tokens.
type Role string

const (
	RoleUser  Role = "User"
	RoleAdmin Role = "Admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Identity is the authenticated caller decoded from the bearer token.
type Identity struct {
	UserID int64
	Role   Role
}

// IsAdmin reports whether the caller has the Admin role.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// SetIdentity stores the caller identity for later handlers.
func SetIdentity(c *gin.Context, id Identity) {
	c.Set(identityKey, id)
}

// GetIdentity returns the authenticated caller, if AuthRequired ran.
func GetIdentity(c *gin.Context) (Identity, bool) {
	if v, ok := c.Get(identityKey); ok {
		if id, ok := v.(Identity); ok {
			return id, true
		}
	}
	return Identity{}, false
}

// GetUserID returns the authenticated user's ID or 0.
func GetUserID(c *gin.Context) int64 {
	id, _ := GetIdentity(c)
	return id.UserID
}
