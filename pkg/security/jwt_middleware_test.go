package security

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"armory/pkg/roles"
)

func performRequest(router *gin.Engine, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	router.ServeHTTP(w, req)
	return w
}

func protectedRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	chain := append([]gin.HandlerFunc{JWTMiddleware()}, handlers...)
	chain = append(chain, func(c *gin.Context) {
		actor, _ := ActorFromContext(c)
		c.JSON(http.StatusOK, gin.H{"id": actor.ID})
	})

	router.GET("/protected", chain...)
	return router
}

func TestJWTRoundTrip(t *testing.T) {
	baseID := 2
	token, err := GenerateJWT(7, "commander@fortbragg.mil", "commander", &baseID)
	assert.NoError(t, err)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protected", JWTMiddleware(), func(c *gin.Context) {
		actor, err := ActorFromContext(c)
		assert.NoError(t, err)
		assert.Equal(t, 7, actor.ID)
		assert.Equal(t, "commander@fortbragg.mil", actor.Email)
		assert.Equal(t, roles.Commander, actor.Role)
		if assert.NotNil(t, actor.BaseID) {
			assert.Equal(t, 2, *actor.BaseID)
		}
		c.Status(http.StatusOK)
	})

	w := performRequest(router, token)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestJWTMiddlewareRejectsMissingToken(t *testing.T) {
	router := protectedRouter()

	w := performRequest(router, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTMiddlewareRejectsGarbageToken(t *testing.T) {
	router := protectedRouter()

	w := performRequest(router, "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRole(t *testing.T) {
	token, err := GenerateJWT(3, "logistics@pendleton.mil", "logistics", nil)
	assert.NoError(t, err)

	adminOnly := protectedRouter(RequireRole(roles.Admin))
	w := performRequest(adminOnly, token)
	assert.Equal(t, http.StatusForbidden, w.Code)

	logisticsAllowed := protectedRouter(RequireRole(roles.Admin, roles.Logistics))
	w = performRequest(logisticsAllowed, token)
	assert.Equal(t, http.StatusOK, w.Code)
}
