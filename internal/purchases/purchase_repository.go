package purchases

import (
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"

	"armory/internal/repository"
	"armory/pkg/models"
)

type PurchaseRepository interface {
	InsertPurchase(tx *goqu.TxDatabase, req models.CreatePurchaseRequest, createdBy int) (*models.Purchase, error)
	GetPurchases(filter Filter) ([]models.PurchaseRow, error)
}

// Filter narrows the purchase listing. Nil fields are ignored. The date
// window applies to purchase_date.
type Filter struct {
	BaseID    *int
	AssetType *string
	StartDate *time.Time
	EndDate   *time.Time
}

type purchaseRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) PurchaseRepository {
	return &purchaseRepository{repository: r}
}

func (r *purchaseRepository) InsertPurchase(tx *goqu.TxDatabase, req models.CreatePurchaseRequest, createdBy int) (*models.Purchase, error) {
	purchase := models.Purchase{
		AssetID:      req.AssetID,
		BaseID:       req.BaseID,
		Quantity:     req.Quantity,
		PurchaseDate: req.PurchaseDate,
		CreatedBy:    createdBy,
	}

	query := tx.Insert("purchases").
		Rows(goqu.Record{
			"asset_id":      req.AssetID,
			"base_id":       req.BaseID,
			"quantity":      req.Quantity,
			"purchase_date": req.PurchaseDate,
			"created_by":    createdBy,
		}).
		Returning("id", "created_at")

	if _, err := query.Executor().ScanStruct(&purchase); err != nil {
		return nil, fmt.Errorf("failed to insert purchase record: %w", err)
	}

	return &purchase, nil
}

func (r *purchaseRepository) GetPurchases(filter Filter) ([]models.PurchaseRow, error) {
	query := r.repository.GoquDBWrapper.
		From(goqu.T("purchases").As("p")).
		Select(
			goqu.I("p.id").As("id"),
			goqu.I("p.asset_id").As("asset_id"),
			goqu.I("p.base_id").As("base_id"),
			goqu.I("p.quantity").As("quantity"),
			goqu.I("p.purchase_date").As("purchase_date"),
			goqu.I("p.created_by").As("created_by"),
			goqu.I("p.created_at").As("created_at"),
			goqu.I("a.type").As("asset_type"),
			goqu.I("a.description").As("asset_description"),
			goqu.I("b.name").As("base_name"),
			goqu.I("u.name").As("created_by_name"),
		).
		LeftJoin(
			goqu.T("assets").As("a"),
			goqu.On(goqu.Ex{"p.asset_id": goqu.I("a.id")}),
		).
		LeftJoin(
			goqu.T("bases").As("b"),
			goqu.On(goqu.Ex{"p.base_id": goqu.I("b.id")}),
		).
		LeftJoin(
			goqu.T("users").As("u"),
			goqu.On(goqu.Ex{"p.created_by": goqu.I("u.id")}),
		).
		Order(goqu.I("p.purchase_date").Desc())

	if filter.BaseID != nil {
		query = query.Where(goqu.Ex{"p.base_id": *filter.BaseID})
	}
	if filter.AssetType != nil {
		query = query.Where(goqu.Ex{"a.type": *filter.AssetType})
	}
	if filter.StartDate != nil {
		query = query.Where(goqu.I("p.purchase_date").Gte(*filter.StartDate))
	}
	if filter.EndDate != nil {
		query = query.Where(goqu.I("p.purchase_date").Lte(*filter.EndDate))
	}

	var purchases []models.PurchaseRow
	if err := query.Executor().ScanStructs(&purchases); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	return purchases, nil
}
