package purchases

import (
	"fmt"

	"github.com/doug-martin/goqu/v9"

	"armory/internal/repository"
	"armory/pkg/auditlog"
	"armory/pkg/models"
)

// StockLedger is the slice of the stock repository a purchase needs.
type StockLedger interface {
	ApplyPurchase(tx *goqu.TxDatabase, baseID, assetID, quantity int) error
}

// AuditRecorder writes trail entries inside the caller's transaction.
type AuditRecorder interface {
	RecordChange(tx *goqu.TxDatabase, userID int, item auditlog.Auditable, oldData, newData interface{}) error
}

type PurchaseService struct {
	r      *repository.Repository
	pr     PurchaseRepository
	ledger StockLedger
	audit  AuditRecorder
}

func NewService(r *repository.Repository, pr PurchaseRepository, ledger StockLedger, audit AuditRecorder) *PurchaseService {
	return &PurchaseService{r: r, pr: pr, ledger: ledger, audit: audit}
}

// CreatePurchase records the purchase, credits the stock ledger, and writes
// the audit entry in one transaction.
func (s *PurchaseService) CreatePurchase(createdBy int, req models.CreatePurchaseRequest) (*models.Purchase, error) {
	var purchase *models.Purchase

	err := repository.WithTransaction(s.r.GoquDBWrapper, func(tx *goqu.TxDatabase) error {
		var err error
		if purchase, err = s.pr.InsertPurchase(tx, req, createdBy); err != nil {
			return fmt.Errorf("failed to insert purchase record: %w", err)
		}

		if err = s.ledger.ApplyPurchase(tx, req.BaseID, req.AssetID, req.Quantity); err != nil {
			return err
		}

		return s.audit.RecordChange(tx, createdBy, purchase, nil, req)
	})

	if err != nil {
		return nil, err
	}

	return purchase, nil
}

func (s *PurchaseService) GetPurchases(filter Filter) ([]models.PurchaseRow, error) {
	return s.pr.GetPurchases(filter)
}
