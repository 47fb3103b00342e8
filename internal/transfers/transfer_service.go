package transfers

import (
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"

	"armory/internal/repository"
	"armory/pkg/auditlog"
	"armory/pkg/models"
)

var (
	ErrTransferNotFound = errors.New("transfer not found")
	ErrSameBase         = errors.New("source and destination base must differ")
	ErrNotPending       = errors.New("only a pending transfer can change status")
)

// StockLedger is the slice of the stock repository a transfer completion
// needs.
type StockLedger interface {
	ApplyTransferCompletion(tx *goqu.TxDatabase, fromBaseID, toBaseID, assetID, quantity int) error
}

type AuditRecorder interface {
	RecordChange(tx *goqu.TxDatabase, userID int, item auditlog.Auditable, oldData, newData interface{}) error
}

type TransferService struct {
	r      *repository.Repository
	tr     TransferRepository
	ledger StockLedger
	audit  AuditRecorder
}

func NewService(r *repository.Repository, tr TransferRepository, ledger StockLedger, audit AuditRecorder) *TransferService {
	return &TransferService{r: r, tr: tr, ledger: ledger, audit: audit}
}

// CreateTransfer records a pending transfer. No stock moves until the
// transfer is completed.
func (s *TransferService) CreateTransfer(initiatedBy int, req models.CreateTransferRequest) (*models.Transfer, error) {
	if req.FromBaseID == req.ToBaseID {
		return nil, ErrSameBase
	}

	var transfer *models.Transfer

	err := repository.WithTransaction(s.r.GoquDBWrapper, func(tx *goqu.TxDatabase) error {
		var err error
		if transfer, err = s.tr.InsertTransfer(tx, req, initiatedBy); err != nil {
			return err
		}

		return s.audit.RecordChange(tx, initiatedBy, transfer, nil, req)
	})

	if err != nil {
		return nil, err
	}

	return transfer, nil
}

// UpdateStatus transitions a pending transfer to completed or cancelled.
// Completion moves stock between the two base ledgers; cancellation has no
// ledger effect. The row lock taken by GetTransferForUpdate keeps a
// concurrent completion from applying the movement twice.
func (s *TransferService) UpdateStatus(actorID, transferID int, status string) (*models.Transfer, error) {
	var transfer *models.Transfer

	err := repository.WithTransaction(s.r.GoquDBWrapper, func(tx *goqu.TxDatabase) error {
		current, err := s.tr.GetTransferForUpdate(tx, transferID)
		if err != nil {
			return err
		}
		if current == nil {
			return ErrTransferNotFound
		}
		if current.Status != models.TransferStatusPending {
			return ErrNotPending
		}

		if err := s.tr.UpdateTransferStatus(tx, transferID, status); err != nil {
			return err
		}

		if status == models.TransferStatusCompleted {
			err = s.ledger.ApplyTransferCompletion(tx, current.FromBaseID, current.ToBaseID, current.AssetID, current.Quantity)
			if err != nil {
				return fmt.Errorf("failed to move stock for transfer %d: %w", transferID, err)
			}
		}

		updated := *current
		updated.Status = status
		transfer = &updated

		return s.audit.RecordChange(tx, actorID, transfer,
			map[string]interface{}{"status": current.Status},
			map[string]interface{}{"status": status},
		)
	})

	if err != nil {
		return nil, err
	}

	return transfer, nil
}

func (s *TransferService) GetTransfers(filter Filter) ([]models.TransferRow, error) {
	return s.tr.GetTransfers(filter)
}
