package dashboard

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"armory/internal/core/query"
	"armory/pkg/security"
)

type DashboardHandler struct {
	Service *DashboardService
	Logger  *zap.Logger
}

func NewHandler(s *DashboardService, log *zap.Logger) *DashboardHandler {
	return &DashboardHandler{Service: s, Logger: log}
}

func (h *DashboardHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/api/dashboard/metrics", h.GetMetrics)
	router.GET("/api/dashboard/activity", h.GetRecentActivity)
}

func (h *DashboardHandler) GetMetrics(c *gin.Context) {
	actor, err := security.ActorFromContext(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	baseID, err := query.OptionalInt(c, "baseId")
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}
	baseID = security.ScopeBaseFilter(actor, baseID)

	startDate, err := query.OptionalDate(c, "startDate")
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}
	endDate, err := query.OptionalDate(c, "endDate")
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	metrics, err := h.Service.GetMetrics(baseID, startDate, endDate)
	if err != nil {
		h.Logger.Error("Unable to compute dashboard metrics", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch dashboard metrics"})
		return
	}

	c.JSON(http.StatusOK, metrics)
}

func (h *DashboardHandler) GetRecentActivity(c *gin.Context) {
	actor, err := security.ActorFromContext(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	limit, err := query.OptionalInt(c, "limit")
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	// Commanders always see their own base; other roles see everything.
	baseID := security.ScopeBaseFilter(actor, nil)

	effectiveLimit := defaultActivityLimit
	if limit != nil {
		effectiveLimit = *limit
	}

	activity, err := h.Service.GetRecentActivity(baseID, effectiveLimit)
	if err != nil {
		h.Logger.Error("Unable to fetch recent activity", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch recent activity"})
		return
	}

	c.JSON(http.StatusOK, activity)
}
