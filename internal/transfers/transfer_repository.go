package transfers

import (
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"

	"armory/internal/repository"
	"armory/pkg/models"
)

type TransferRepository interface {
	InsertTransfer(tx *goqu.TxDatabase, req models.CreateTransferRequest, initiatedBy int) (*models.Transfer, error)
	GetTransferForUpdate(tx *goqu.TxDatabase, transferID int) (*models.Transfer, error)
	UpdateTransferStatus(tx *goqu.TxDatabase, transferID int, status string) error
	GetTransfers(filter Filter) ([]models.TransferRow, error)
}

// Filter narrows the transfer listing. A base filter matches either end of
// the transfer. The date window applies to transfer_date.
type Filter struct {
	BaseID    *int
	AssetType *string
	StartDate *time.Time
	EndDate   *time.Time
}

type transferRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) TransferRepository {
	return &transferRepository{repository: r}
}

func (r *transferRepository) InsertTransfer(tx *goqu.TxDatabase, req models.CreateTransferRequest, initiatedBy int) (*models.Transfer, error) {
	transfer := models.Transfer{
		AssetID:      req.AssetID,
		FromBaseID:   req.FromBaseID,
		ToBaseID:     req.ToBaseID,
		Quantity:     req.Quantity,
		TransferDate: req.TransferDate,
		InitiatedBy:  initiatedBy,
		Status:       models.TransferStatusPending,
	}

	query := tx.Insert("transfers").
		Rows(goqu.Record{
			"asset_id":      req.AssetID,
			"from_base_id":  req.FromBaseID,
			"to_base_id":    req.ToBaseID,
			"quantity":      req.Quantity,
			"transfer_date": req.TransferDate,
			"initiated_by":  initiatedBy,
			"status":        models.TransferStatusPending,
		}).
		Returning("id", "created_at")

	if _, err := query.Executor().ScanStruct(&transfer); err != nil {
		return nil, fmt.Errorf("failed to insert transfer record: %w", err)
	}

	return &transfer, nil
}

// GetTransferForUpdate locks the row for the rest of the transaction so a
// concurrent status change cannot apply the ledger effect twice.
func (r *transferRepository) GetTransferForUpdate(tx *goqu.TxDatabase, transferID int) (*models.Transfer, error) {
	var transfer models.Transfer

	query := tx.
		From("transfers").
		Select("id", "asset_id", "from_base_id", "to_base_id", "quantity", "transfer_date", "initiated_by", "status", "created_at").
		Where(goqu.Ex{"id": transferID}).
		ForUpdate(exp.Wait)

	found, err := query.Executor().ScanStruct(&transfer)
	if err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}
	if !found {
		return nil, nil
	}

	return &transfer, nil
}

func (r *transferRepository) UpdateTransferStatus(tx *goqu.TxDatabase, transferID int, status string) error {
	query := tx.Update("transfers").
		Set(goqu.Record{"status": status}).
		Where(goqu.Ex{"id": transferID})

	if _, err := query.Executor().Exec(); err != nil {
		return fmt.Errorf("failed to update transfer status: %w", err)
	}

	return nil
}

func (r *transferRepository) GetTransfers(filter Filter) ([]models.TransferRow, error) {
	query := r.repository.GoquDBWrapper.
		From(goqu.T("transfers").As("t")).
		Select(
			goqu.I("t.id").As("id"),
			goqu.I("t.asset_id").As("asset_id"),
			goqu.I("t.from_base_id").As("from_base_id"),
			goqu.I("t.to_base_id").As("to_base_id"),
			goqu.I("t.quantity").As("quantity"),
			goqu.I("t.transfer_date").As("transfer_date"),
			goqu.I("t.initiated_by").As("initiated_by"),
			goqu.I("t.status").As("status"),
			goqu.I("t.created_at").As("created_at"),
			goqu.I("a.type").As("asset_type"),
			goqu.I("a.description").As("asset_description"),
			goqu.I("b1.name").As("from_base_name"),
			goqu.I("b2.name").As("to_base_name"),
			goqu.I("u.name").As("initiated_by_name"),
		).
		LeftJoin(
			goqu.T("assets").As("a"),
			goqu.On(goqu.Ex{"t.asset_id": goqu.I("a.id")}),
		).
		LeftJoin(
			goqu.T("bases").As("b1"),
			goqu.On(goqu.Ex{"t.from_base_id": goqu.I("b1.id")}),
		).
		LeftJoin(
			goqu.T("bases").As("b2"),
			goqu.On(goqu.Ex{"t.to_base_id": goqu.I("b2.id")}),
		).
		LeftJoin(
			goqu.T("users").As("u"),
			goqu.On(goqu.Ex{"t.initiated_by": goqu.I("u.id")}),
		).
		Order(goqu.I("t.transfer_date").Desc())

	if filter.BaseID != nil {
		query = query.Where(goqu.Or(
			goqu.Ex{"t.from_base_id": *filter.BaseID},
			goqu.Ex{"t.to_base_id": *filter.BaseID},
		))
	}
	if filter.AssetType != nil {
		query = query.Where(goqu.Ex{"a.type": *filter.AssetType})
	}
	if filter.StartDate != nil {
		query = query.Where(goqu.I("t.transfer_date").Gte(*filter.StartDate))
	}
	if filter.EndDate != nil {
		query = query.Where(goqu.I("t.transfer_date").Lte(*filter.EndDate))
	}

	var transfers []models.TransferRow
	if err := query.Executor().ScanStructs(&transfers); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	return transfers, nil
}
