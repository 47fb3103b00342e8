package stocks

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"armory/internal/core/query"
	"armory/pkg/models"
	"armory/pkg/security"
)

type StockHandler struct {
	Repository *StockRepository
	Logger     *zap.Logger
}

func NewStockHandler(r *StockRepository, log *zap.Logger) *StockHandler {
	return &StockHandler{Repository: r, Logger: log}
}

func (h *StockHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/api/stocks", h.GetStocks)
	router.GET("/api/stocks/export", h.ExportStocks)
}

func (h *StockHandler) GetStocks(c *gin.Context) {
	actor, err := security.ActorFromContext(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	baseID, err := query.OptionalInt(c, "baseId")
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid baseId"})
		return
	}

	stocks, err := h.Repository.GetStocks(security.ScopeBaseFilter(actor, baseID))
	if err != nil {
		h.Logger.Error("Unable to fetch stocks", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch stocks"})
		return
	}

	c.JSON(http.StatusOK, stocks)
}

// ExportStocks streams the ledger as an XLSX workbook.
func (h *StockHandler) ExportStocks(c *gin.Context) {
	actor, err := security.ActorFromContext(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	baseID, err := query.OptionalInt(c, "baseId")
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid baseId"})
		return
	}

	stocks, err := h.Repository.GetStocks(security.ScopeBaseFilter(actor, baseID))
	if err != nil {
		h.Logger.Error("Unable to fetch stocks for export", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch stocks"})
		return
	}

	f := buildStockWorkbook(stocks)

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", `attachment; filename="stock_ledger.xlsx"`)

	if err := f.Write(c.Writer); err != nil {
		h.Logger.Error("Unable to write stock export", zap.Error(err))
		c.AbortWithStatus(http.StatusInternalServerError)
	}
}

func buildStockWorkbook(stocks []models.StockRow) *excelize.File {
	f := excelize.NewFile()
	sheet := "Sheet1"

	f.SetCellValue(sheet, "A1", "Base")
	f.SetCellValue(sheet, "B1", "Asset Type")
	f.SetCellValue(sheet, "C1", "Asset")
	f.SetCellValue(sheet, "D1", "Opening Balance")
	f.SetCellValue(sheet, "E1", "Closing Balance")
	f.SetCellValue(sheet, "F1", "Assigned")
	f.SetCellValue(sheet, "G1", "Expended")

	for i, s := range stocks {
		row := i + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), s.BaseName)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), s.AssetType)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), s.AssetDescription)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), s.OpeningBalance)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), s.ClosingBalance)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), s.Assigned)
		f.SetCellValue(sheet, fmt.Sprintf("G%d", row), s.Expended)
	}

	return f
}
