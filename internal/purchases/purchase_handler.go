package purchases

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"armory/internal/core/query"
	custom_error "armory/pkg/errors"
	"armory/pkg/models"
	"armory/pkg/roles"
	"armory/pkg/security"
)

type PurchaseHandler struct {
	Service *PurchaseService
	Logger  *zap.Logger
}

func NewHandler(s *PurchaseService, log *zap.Logger) *PurchaseHandler {
	return &PurchaseHandler{Service: s, Logger: log}
}

func (h *PurchaseHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/api/purchases", security.RequireRole(roles.Admin, roles.Logistics, roles.Commander), h.GetPurchases)
	router.POST("/api/purchases", security.RequireRole(roles.Admin, roles.Logistics), h.CreatePurchase)
}

func (h *PurchaseHandler) GetPurchases(c *gin.Context) {
	actor, err := security.ActorFromContext(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	filter, err := parseFilter(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}
	filter.BaseID = security.ScopeBaseFilter(actor, filter.BaseID)

	purchases, err := h.Service.GetPurchases(filter)
	if err != nil {
		h.Logger.Error("Unable to fetch purchases", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch purchases"})
		return
	}

	c.JSON(http.StatusOK, purchases)
}

func (h *PurchaseHandler) CreatePurchase(c *gin.Context) {
	actor, err := security.ActorFromContext(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req models.CreatePurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	if !security.CanCreatePurchase(actor, req.BaseID) {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Can only create purchases for your assigned base"})
		return
	}

	purchase, err := h.Service.CreatePurchase(actor.ID, req)
	if err != nil {
		if custom_error.IsForeignKeyViolation(err) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Unknown base or asset"})
			return
		}
		h.Logger.Error("Unable to create purchase", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to create purchase"})
		return
	}

	c.JSON(http.StatusCreated, purchase)
}

func parseFilter(c *gin.Context) (Filter, error) {
	var filter Filter
	var err error

	if filter.BaseID, err = query.OptionalInt(c, "baseId"); err != nil {
		return filter, err
	}

	filter.AssetType = query.OptionalString(c, "assetType")

	if filter.StartDate, err = query.OptionalDate(c, "startDate"); err != nil {
		return filter, err
	}
	if filter.EndDate, err = query.OptionalDate(c, "endDate"); err != nil {
		return filter, err
	}

	return filter, nil
}
