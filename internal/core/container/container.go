package container

import (
	"database/sql"

	"go.uber.org/zap"

	"armory/internal/assets"
	"armory/internal/assignments"
	auditLogRepo "armory/internal/auditlog"
	"armory/internal/bases"
	"armory/internal/dashboard"
	"armory/internal/purchases"
	"armory/internal/repository"
	"armory/internal/stocks"
	"armory/internal/transfers"
	"armory/internal/users"
	"armory/pkg/auditlog"
	"armory/pkg/security"
)

type Container struct {
	Repository        *repository.Repository
	AuditLog          *auditlog.Auditlog
	LoginHandler      *security.LoginHandler
	BaseHandler       *bases.BaseHandler
	AssetHandler      *assets.AssetHandler
	StockHandler      *stocks.StockHandler
	UserHandler       *users.UsersHandler
	PurchaseHandler   *purchases.PurchaseHandler
	TransferHandler   *transfers.TransferHandler
	AssignmentHandler *assignments.AssignmentHandler
	DashboardHandler  *dashboard.DashboardHandler
	AuditLogHandler   *auditLogRepo.AuditLogHandler
}

func NewAppContainer(db *sql.DB, log *zap.Logger) *Container {
	repo := repository.NewRepository(db)

	logRepo := auditLogRepo.NewRepository(repo)
	auditLog := auditlog.NewAuditLog(logRepo, log)

	stockRepo := stocks.NewRepository(repo)
	baseRepo := bases.NewRepository(repo)
	assetRepo := assets.NewRepository(repo)
	userRepo := users.NewRepository(repo)
	purchaseRepo := purchases.NewRepository(repo)
	transferRepo := transfers.NewRepository(repo)
	assignmentRepo := assignments.NewRepository(repo)
	dashboardRepo := dashboard.NewRepository(repo)

	purchaseService := purchases.NewService(repo, purchaseRepo, stockRepo, auditLog)
	transferService := transfers.NewService(repo, transferRepo, stockRepo, auditLog)
	assignmentService := assignments.NewAssignmentService(repo, assignmentRepo, stockRepo, auditLog, log)
	dashboardService := dashboard.NewDashboardService(dashboardRepo)

	return &Container{
		Repository:        repo,
		AuditLog:          auditLog,
		LoginHandler:      security.NewLoginHandler(repo, auditLog, log),
		BaseHandler:       bases.NewBaseHandler(baseRepo, log),
		AssetHandler:      assets.NewAssetHandler(assetRepo, log),
		StockHandler:      stocks.NewStockHandler(stockRepo, log),
		UserHandler:       users.NewHandler(userRepo, log),
		PurchaseHandler:   purchases.NewHandler(purchaseService, log),
		TransferHandler:   transfers.NewHandler(transferService, log),
		AssignmentHandler: assignments.NewHandler(assignmentService, log),
		DashboardHandler:  dashboard.NewHandler(dashboardService, log),
		AuditLogHandler:   auditLogRepo.NewHandler(logRepo, log),
	}
}
