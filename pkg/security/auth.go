package security

import (
	"net/http"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"armory/internal/rate_limiter"
	"armory/internal/repository"
	"armory/pkg/auditlog"
	"armory/pkg/models"
)

const (
	loginAttemptLimit  = 10
	loginAttemptWindow = time.Minute
)

type LoginHandler struct {
	r       *repository.Repository
	audit   *auditlog.Auditlog
	limiter *rate_limiter.RateLimiter
	log     *zap.Logger
}

func NewLoginHandler(r *repository.Repository, audit *auditlog.Auditlog, log *zap.Logger) *LoginHandler {
	return &LoginHandler{
		r:       r,
		audit:   audit,
		limiter: rate_limiter.NewRateLimiter(loginAttemptLimit, loginAttemptWindow),
		log:     log,
	}
}

func (h *LoginHandler) RegisterRoutes(router *gin.Engine) {
	router.POST("/api/auth/login", h.Login)
}

func (h *LoginHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	if !h.limiter.IsAllowed(c.ClientIP()) {
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many login attempts"})
		return
	}

	user, err := AuthenticateUser(req.Email, req.Password, h.r)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := GenerateJWT(user.ID, user.Email, user.Role, user.BaseID)
	if err != nil {
		h.log.Error("Unable to generate token", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	err = repository.WithTransaction(h.r.GoquDBWrapper, func(tx *goqu.TxDatabase) error {
		return h.audit.RecordAction(tx, user.ID, models.ActionLogin, map[string]interface{}{"email": user.Email})
	})
	if err != nil {
		// The login itself succeeded; the missing trail entry is already
		// logged by the recorder.
		h.log.Warn("Login audit entry not written", zap.Int("user_id", user.ID))
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":      user.ID,
			"name":    user.Name,
			"email":   user.Email,
			"role":    user.Role,
			"base_id": user.BaseID,
		},
	})
}

// AuthenticateUser verifies the credentials against the stored bcrypt hash.
func AuthenticateUser(email, password string, repo *repository.Repository) (*models.User, error) {
	var user models.User

	q := repo.GoquDBWrapper.
		From("users").
		Select("id", "name", "email", "password_hash", "role", "base_id").
		Where(goqu.Ex{"email": email})

	found, err := q.Executor().ScanStruct(&user)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, bcrypt.ErrMismatchedHashAndPassword
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, err
	}

	return &user, nil
}
