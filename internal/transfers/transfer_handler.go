package transfers

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

type TransferHandler struct {
	Service *TransferService
	Logger  *zap.Logger
}

func NewHandler(s *TransferService, log *zap.Logger) *TransferHandler {
	return &TransferHandler{Service: s, Logger: log}
}

func (h *TransferHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/api/transfers", h.GetTransfers)
	router.POST("/api/transfers", security.RequireRole(roles.Admin, roles.Logistics, roles.Commander), h.CreateTransfer)
	router.PATCH("/api/transfers/:id/status", security.RequireRole(roles.Admin, roles.Logistics, roles.Commander), h.UpdateTransferStatus)
}

func (h *TransferHandler) GetTransfers(c *gin.Context) {
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

	transfers, err := h.Service.GetTransfers(filter)
	if err != nil {
		h.Logger.Error("Unable to fetch transfers", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch transfers"})
		return
	}

	c.JSON(http.StatusOK, transfers)
}

func (h *TransferHandler) CreateTransfer(c *gin.Context) {
	actor, err := security.ActorFromContext(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req models.CreateTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	if !security.CanCreateTransfer(actor, req.FromBaseID, req.ToBaseID) {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Can only transfer from/to your assigned base"})
		return
	}

	transfer, err := h.Service.CreateTransfer(actor.ID, req)
	if err != nil {
		if errors.Is(err, ErrSameBase) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Source and destination base must differ"})
			return
		}
		if custom_error.IsForeignKeyViolation(err) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Unknown base or asset"})
			return
		}
		h.Logger.Error("Unable to create transfer", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to create transfer"})
		return
	}

	c.JSON(http.StatusCreated, transfer)
}

func (h *TransferHandler) UpdateTransferStatus(c *gin.Context) {
	actor, err := security.ActorFromContext(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	transferID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid transfer ID"})
		return
	}

	var req models.UpdateTransferStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	transfer, err := h.Service.UpdateStatus(actor.ID, transferID, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, ErrTransferNotFound):
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Transfer not found"})
		case errors.Is(err, ErrNotPending):
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Only a pending transfer can change status"})
		default:
			h.Logger.Error("Unable to update transfer status", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to update transfer status"})
		}
		return
	}

	c.JSON(http.StatusOK, transfer)
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
