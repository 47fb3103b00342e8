package security

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"armory/pkg/roles"
)

const actorContextKey = "actor"

// Actor is the authenticated caller extracted from a verified token. It is
// threaded explicitly into services instead of being read from ambient
// request state.
type Actor struct {
	ID     int
	Email  string
	Role   roles.Role
	BaseID *int
}

// ActorFromContext returns the actor stored by the JWT middleware.
func ActorFromContext(c *gin.Context) (Actor, error) {
	v, exists := c.Get(actorContextKey)
	if !exists {
		return Actor{}, fmt.Errorf("no authenticated actor in request context")
	}

	actor, ok := v.(Actor)
	if !ok {
		return Actor{}, fmt.Errorf("invalid actor type in request context")
	}

	return actor, nil
}
