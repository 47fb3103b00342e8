package assignments

import (
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"go.uber.org/zap"

	"armory/internal/repository"
	"armory/pkg/auditlog"
	"armory/pkg/models"
)

var (
	ErrAssignmentNotFound = errors.New("assignment not found")
	ErrNotAssigned        = errors.New("only an assigned assignment can be expended")
)

type StockLedger interface {
	ApplyAssignmentCreation(tx *goqu.TxDatabase, baseID, assetID, quantity int) error
	ApplyAssignmentExpenditure(tx *goqu.TxDatabase, baseID, assetID, quantity int) error
}

type AuditRecorder interface {
	RecordChange(tx *goqu.TxDatabase, userID int, item auditlog.Auditable, oldData, newData interface{}) error
}

type AssignmentService struct {
	repository           *repository.Repository
	assignmentRepository AssignmentRepository
	stocks               StockLedger
	audit                AuditRecorder
	log                  *zap.Logger
}

func NewAssignmentService(
	r *repository.Repository,
	assignmentRepository AssignmentRepository,
	stocks StockLedger,
	audit AuditRecorder,
	log *zap.Logger,
) *AssignmentService {
	return &AssignmentService{
		repository:           r,
		assignmentRepository: assignmentRepository,
		stocks:               stocks,
		audit:                audit,
		log:                  log,
	}
}

// CreateAssignment inserts the assignment, moves the quantity from available
// to assigned on the base's stock row and writes the audit entry, all in one
// transaction.
func (s *AssignmentService) CreateAssignment(req models.CreateAssignmentRequest, createdBy int) (*models.Assignment, error) {
	var assignment *models.Assignment

	err := repository.WithTransaction(s.repository.GoquDBWrapper, func(tx *goqu.TxDatabase) error {
		var err error
		assignment, err = s.assignmentRepository.InsertAssignment(tx, req, createdBy)
		if err != nil {
			return err
		}

		if err = s.stocks.ApplyAssignmentCreation(tx, req.BaseID, req.AssetID, req.Quantity); err != nil {
			return fmt.Errorf("failed to apply assignment to stock: %w", err)
		}

		return s.audit.RecordChange(tx, createdBy, assignment, nil, assignment)
	})
	if err != nil {
		return nil, err
	}

	return assignment, nil
}

// ExpendAssignment transitions an assigned assignment to expended and applies
// the expenditure to the stock row. The row is locked first so the ledger
// effect cannot be applied twice.
func (s *AssignmentService) ExpendAssignment(assignmentID int, reason *string, updatedBy int) (*models.Assignment, error) {
	var assignment *models.Assignment

	err := repository.WithTransaction(s.repository.GoquDBWrapper, func(tx *goqu.TxDatabase) error {
		current, err := s.assignmentRepository.GetAssignmentForUpdate(tx, assignmentID)
		if err != nil {
			return err
		}
		if current == nil {
			return ErrAssignmentNotFound
		}
		if current.Status != models.AssignmentStatusAssigned {
			return ErrNotAssigned
		}

		if err = s.assignmentRepository.UpdateAssignmentStatus(tx, assignmentID, models.AssignmentStatusExpended, reason); err != nil {
			return err
		}

		if err = s.stocks.ApplyAssignmentExpenditure(tx, current.BaseID, current.AssetID, current.Quantity); err != nil {
			return fmt.Errorf("failed to apply expenditure to stock: %w", err)
		}

		updated := *current
		updated.Status = models.AssignmentStatusExpended
		if reason != nil {
			updated.Reason = reason
		}
		assignment = &updated

		return s.audit.RecordChange(tx, updatedBy, &updated,
			map[string]string{"status": current.Status},
			map[string]string{"status": models.AssignmentStatusExpended},
		)
	})
	if err != nil {
		return nil, err
	}

	return assignment, nil
}

func (s *AssignmentService) GetAssignments(filter Filter) ([]models.AssignmentRow, error) {
	return s.assignmentRepository.GetAssignments(filter)
}
