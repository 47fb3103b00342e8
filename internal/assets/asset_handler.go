package assets

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"armory/pkg/models"
	"armory/pkg/roles"
	"armory/pkg/security"
)

type AssetHandler struct {
	Repository *AssetRepository
	Logger     *zap.Logger
}

func NewAssetHandler(r *AssetRepository, log *zap.Logger) *AssetHandler {
	return &AssetHandler{Repository: r, Logger: log}
}

func (h *AssetHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/api/assets", h.GetAssets)
	router.POST("/api/assets", security.RequireRole(roles.Admin, roles.Logistics), h.CreateAsset)
}

func (h *AssetHandler) GetAssets(c *gin.Context) {
	assets, err := h.Repository.GetAssets()
	if err != nil {
		h.Logger.Error("Unable to fetch assets", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch assets"})
		return
	}

	c.JSON(http.StatusOK, assets)
}

func (h *AssetHandler) CreateAsset(c *gin.Context) {
	var req models.CreateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	asset, err := h.Repository.PersistAsset(req)
	if err != nil {
		h.Logger.Error("Unable to create asset", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to create asset"})
		return
	}

	c.JSON(http.StatusCreated, asset)
}
