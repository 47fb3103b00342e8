package security

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"

	"armory/pkg/roles"
)

const tokenTTL = 24 * time.Hour

var jwtSecret []byte

func init() {
	secret := os.Getenv("JWT_SECRET")

	if secret == "" {
		// .env may not have been loaded yet when the package initializes.
		if err := godotenv.Load(); err == nil {
			secret = os.Getenv("JWT_SECRET")
		}
	}

	if secret == "" {
		log.Println("Warning: JWT_SECRET is not set, using insecure development default")
		secret = "your-secret-key"
	}

	jwtSecret = []byte(secret)
}

// GenerateJWT issues a signed bearer token carrying the caller's identity.
func GenerateJWT(userID int, email string, role string, baseID *int) (string, error) {
	claims := jwt.MapClaims{
		"id":    userID,
		"email": email,
		"role":  role,
		"exp":   time.Now().Add(tokenTTL).Unix(),
	}
	if baseID != nil {
		claims["baseId"] = *baseID
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

// JWTMiddleware validates the bearer token and stores the Actor in the gin
// context.
func JWTMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Access token required"})
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return jwtSecret, nil
		})

		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
			return
		}

		actor, err := actorFromClaims(claims)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
			return
		}

		c.Set(actorContextKey, actor)
		c.Next()
	}
}

// RequireRole rejects callers whose role is outside the allowed set.
func RequireRole(allowed ...roles.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, err := ActorFromContext(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		if !actor.Role.OneOf(allowed...) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
			return
		}

		c.Next()
	}
}

func actorFromClaims(claims jwt.MapClaims) (Actor, error) {
	id, ok := claims["id"].(float64)
	if !ok {
		return Actor{}, fmt.Errorf("id claim missing or malformed")
	}

	email, _ := claims["email"].(string)

	roleStr, ok := claims["role"].(string)
	if !ok || !roles.Role(roleStr).IsValid() {
		return Actor{}, fmt.Errorf("role claim missing or malformed")
	}

	actor := Actor{
		ID:    int(id),
		Email: email,
		Role:  roles.Role(roleStr),
	}

	if baseID, ok := claims["baseId"].(float64); ok {
		b := int(baseID)
		actor.BaseID = &b
	}

	return actor, nil
}
