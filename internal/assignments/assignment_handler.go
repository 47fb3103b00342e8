package assignments

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"armory/internal/core/query"
	custom_error "armory/pkg/errors"
	"armory/pkg/models"
	"armory/pkg/roles"
	"armory/pkg/security"
)

type AssignmentHandler struct {
	Service *AssignmentService
	Logger  *zap.Logger
}

func NewHandler(s *AssignmentService, log *zap.Logger) *AssignmentHandler {
	return &AssignmentHandler{Service: s, Logger: log}
}

func (h *AssignmentHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/api/assignments", h.GetAssignments)
	router.POST("/api/assignments", security.RequireRole(roles.Admin, roles.Commander), h.CreateAssignment)
	router.PATCH("/api/assignments/:id/status", security.RequireRole(roles.Admin, roles.Commander), h.UpdateAssignmentStatus)
}

func (h *AssignmentHandler) GetAssignments(c *gin.Context) {
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

	assignments, err := h.Service.GetAssignments(filter)
	if err != nil {
		h.Logger.Error("Unable to fetch assignments", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch assignments"})
		return
	}

	c.JSON(http.StatusOK, assignments)
}

func (h *AssignmentHandler) CreateAssignment(c *gin.Context) {
	actor, err := security.ActorFromContext(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req models.CreateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	if !security.CanCreateAssignment(actor, req.BaseID) {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Can only create assignments for your assigned base"})
		return
	}

	assignment, err := h.Service.CreateAssignment(req, actor.ID)
	if err != nil {
		if custom_error.IsForeignKeyViolation(err) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Unknown base or asset"})
			return
		}
		h.Logger.Error("Unable to create assignment", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to create assignment"})
		return
	}

	c.JSON(http.StatusCreated, assignment)
}

func (h *AssignmentHandler) UpdateAssignmentStatus(c *gin.Context) {
	actor, err := security.ActorFromContext(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	assignmentID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid assignment ID"})
		return
	}

	var req models.UpdateAssignmentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	assignment, err := h.Service.ExpendAssignment(assignmentID, req.Reason, actor.ID)
	if err != nil {
		switch {
		case errors.Is(err, ErrAssignmentNotFound):
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Assignment not found"})
		case errors.Is(err, ErrNotAssigned):
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Only an assigned assignment can be expended"})
		default:
			h.Logger.Error("Unable to update assignment status", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to update assignment status"})
		}
		return
	}

	c.JSON(http.StatusOK, assignment)
}

func parseFilter(c *gin.Context) (Filter, error) {
	var filter Filter
	var err error

	if filter.BaseID, err = query.OptionalInt(c, "baseId"); err != nil {
		return filter, err
	}

	filter.Status = query.OptionalString(c, "status")

	if filter.StartDate, err = query.OptionalDate(c, "startDate"); err != nil {
		return filter, err
	}
	if filter.EndDate, err = query.OptionalDate(c, "endDate"); err != nil {
		return filter, err
	}

	return filter, nil
}
