package auth

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Authorize is the single ownership rule of the API: admins may act on any
// resource, everyone else only on resources they own.
func Authorize(identity Identity, ownerID int64) bool {
	if identity.IsAdmin() {
		return true
	}
	return identity.UserID != 0 && identity.UserID == ownerID
}

// RequireSelfOrAdmin applies Authorize to the user id found in the named path
// parameter. It MUST be used after AuthRequired.
func RequireSelfOrAdmin(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := GetIdentity(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		ownerID, err := strconv.ParseInt(c.Param(param), 10, 64)
		if err != nil || ownerID < 1 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		if !Authorize(identity, ownerID) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden: not the owner or an admin"})
			return
		}

		c.Next()
	}
}
