package auditlog

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"armory/internal/core/query"
	"armory/pkg/roles"
	"armory/pkg/security"
)

type AuditLogHandler struct {
	Repository *AuditLogRepository
	Logger     *zap.Logger
}

func NewHandler(r *AuditLogRepository, log *zap.Logger) *AuditLogHandler {
	return &AuditLogHandler{Repository: r, Logger: log}
}

func (h *AuditLogHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/api/logs", security.RequireRole(roles.Admin, roles.Commander), h.GetLogs)
}

func (h *AuditLogHandler) GetLogs(c *gin.Context) {
	filter, err := parseLogFilter(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	logs, err := h.Repository.GetLogs(filter)
	if err != nil {
		h.Logger.Error("Unable to fetch audit logs", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch logs"})
		return
	}

	c.JSON(http.StatusOK, logs)
}

func parseLogFilter(c *gin.Context) (LogFilter, error) {
	var filter LogFilter
	var err error

	if filter.UserID, err = query.OptionalInt(c, "userId"); err != nil {
		return filter, err
	}

	filter.ActionType = query.OptionalString(c, "actionType")

	if filter.StartDate, err = query.OptionalDate(c, "startDate"); err != nil {
		return filter, err
	}
	if filter.EndDate, err = query.OptionalDate(c, "endDate"); err != nil {
		return filter, err
	}

	return filter, nil
}
