package assignments

import (
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"

	"armory/internal/repository"
	"armory/pkg/models"
)

type AssignmentRepository interface {
	InsertAssignment(tx *goqu.TxDatabase, req models.CreateAssignmentRequest, createdBy int) (*models.Assignment, error)
	GetAssignmentForUpdate(tx *goqu.TxDatabase, assignmentID int) (*models.Assignment, error)
	UpdateAssignmentStatus(tx *goqu.TxDatabase, assignmentID int, status string, reason *string) error
	GetAssignments(filter Filter) ([]models.AssignmentRow, error)
}

// Filter narrows the assignment listing. Nil fields are ignored. The date
// window applies to assigned_date.
type Filter struct {
	BaseID    *int
	Status    *string
	StartDate *time.Time
	EndDate   *time.Time
}

type assignmentRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) AssignmentRepository {
	return &assignmentRepository{repository: r}
}

func (r *assignmentRepository) InsertAssignment(tx *goqu.TxDatabase, req models.CreateAssignmentRequest, createdBy int) (*models.Assignment, error) {
	assignment := models.Assignment{
		AssetID:      req.AssetID,
		BaseID:       req.BaseID,
		AssignedTo:   req.AssignedTo,
		PersonnelID:  req.PersonnelID,
		Quantity:     req.Quantity,
		AssignedDate: req.AssignedDate,
		Status:       models.AssignmentStatusAssigned,
		Reason:       req.Reason,
		CreatedBy:    createdBy,
	}

	query := tx.Insert("assignments").
		Rows(goqu.Record{
			"asset_id":      req.AssetID,
			"base_id":       req.BaseID,
			"assigned_to":   req.AssignedTo,
			"personnel_id":  req.PersonnelID,
			"quantity":      req.Quantity,
			"assigned_date": req.AssignedDate,
			"status":        models.AssignmentStatusAssigned,
			"reason":        req.Reason,
			"created_by":    createdBy,
		}).
		Returning("id", "created_at")

	if _, err := query.Executor().ScanStruct(&assignment); err != nil {
		return nil, fmt.Errorf("failed to insert assignment record: %w", err)
	}

	return &assignment, nil
}

// GetAssignmentForUpdate locks the row for the rest of the transaction so a
// concurrent expenditure cannot apply the ledger effect twice.
func (r *assignmentRepository) GetAssignmentForUpdate(tx *goqu.TxDatabase, assignmentID int) (*models.Assignment, error) {
	var assignment models.Assignment

	query := tx.
		From("assignments").
		Select("id", "asset_id", "base_id", "assigned_to", "personnel_id", "quantity", "assigned_date", "status", "reason", "created_by", "created_at").
		Where(goqu.Ex{"id": assignmentID}).
		ForUpdate(exp.Wait)

	found, err := query.Executor().ScanStruct(&assignment)
	if err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}
	if !found {
		return nil, nil
	}

	return &assignment, nil
}

func (r *assignmentRepository) UpdateAssignmentStatus(tx *goqu.TxDatabase, assignmentID int, status string, reason *string) error {
	record := goqu.Record{"status": status}
	if reason != nil {
		record["reason"] = *reason
	}

	query := tx.Update("assignments").
		Set(record).
		Where(goqu.Ex{"id": assignmentID})

	if _, err := query.Executor().Exec(); err != nil {
		return fmt.Errorf("failed to update assignment status: %w", err)
	}

	return nil
}

func (r *assignmentRepository) GetAssignments(filter Filter) ([]models.AssignmentRow, error) {
	query := r.repository.GoquDBWrapper.
		From(goqu.T("assignments").As("g")).
		Select(
			goqu.I("g.id").As("id"),
			goqu.I("g.asset_id").As("asset_id"),
			goqu.I("g.base_id").As("base_id"),
			goqu.I("g.assigned_to").As("assigned_to"),
			goqu.I("g.personnel_id").As("personnel_id"),
			goqu.I("g.quantity").As("quantity"),
			goqu.I("g.assigned_date").As("assigned_date"),
			goqu.I("g.status").As("status"),
			goqu.I("g.reason").As("reason"),
			goqu.I("g.created_by").As("created_by"),
			goqu.I("g.created_at").As("created_at"),
			goqu.I("a.type").As("asset_type"),
			goqu.I("a.description").As("asset_description"),
			goqu.I("b.name").As("base_name"),
			goqu.I("u.name").As("created_by_name"),
		).
		LeftJoin(
			goqu.T("assets").As("a"),
			goqu.On(goqu.Ex{"g.asset_id": goqu.I("a.id")}),
		).
		LeftJoin(
			goqu.T("bases").As("b"),
			goqu.On(goqu.Ex{"g.base_id": goqu.I("b.id")}),
		).
		LeftJoin(
			goqu.T("users").As("u"),
			goqu.On(goqu.Ex{"g.created_by": goqu.I("u.id")}),
		).
		Order(goqu.I("g.assigned_date").Desc())

	if filter.BaseID != nil {
		query = query.Where(goqu.Ex{"g.base_id": *filter.BaseID})
	}
	if filter.Status != nil {
		query = query.Where(goqu.Ex{"g.status": *filter.Status})
	}
	if filter.StartDate != nil {
		query = query.Where(goqu.I("g.assigned_date").Gte(*filter.StartDate))
	}
	if filter.EndDate != nil {
		query = query.Where(goqu.I("g.assigned_date").Lte(*filter.EndDate))
	}

	var assignments []models.AssignmentRow
	if err := query.Executor().ScanStructs(&assignments); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	return assignments, nil
}
