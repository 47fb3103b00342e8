package bases

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	custom_error "armory/pkg/errors"
	"armory/pkg/models"
	"armory/pkg/roles"
	"armory/pkg/security"
)

type BaseHandler struct {
	Repository *BaseRepository
	Logger     *zap.Logger
}

func NewBaseHandler(r *BaseRepository, log *zap.Logger) *BaseHandler {
	return &BaseHandler{Repository: r, Logger: log}
}

func (h *BaseHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/api/bases", h.GetBases)
	router.POST("/api/bases", security.RequireRole(roles.Admin), h.CreateBase)
}

func (h *BaseHandler) GetBases(c *gin.Context) {
	bases, err := h.Repository.GetBases()
	if err != nil {
		h.Logger.Error("Unable to fetch bases", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch bases"})
		return
	}

	c.JSON(http.StatusOK, bases)
}

func (h *BaseHandler) CreateBase(c *gin.Context) {
	var req models.CreateBaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	base, err := h.Repository.PersistBase(req)
	if err != nil {
		if custom_error.IsUniqueViolation(err) {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Base name already exists"})
			return
		}
		h.Logger.Error("Unable to create base", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to create base"})
		return
	}

	c.JSON(http.StatusCreated, base)
}
