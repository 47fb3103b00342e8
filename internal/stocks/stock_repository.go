package stocks

import (
	"fmt"

	"github.com/doug-martin/goqu/v9"

	"armory/internal/repository"
	"armory/pkg/models"
)

// StockRepository owns the per (base, asset) running ledger. All four apply
// operations take the caller's open transaction so a ledger change commits
// together with the transaction row and audit entry that caused it.
//
// Increments (purchase, transfer-in) upsert the ledger row, creating it with
// an opening balance of zero when the pair has never been stocked.
// Decrements clamp at zero and silently skip pairs with no ledger row.
type StockRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *StockRepository {
	return &StockRepository{repository: r}
}

func (r *StockRepository) GetStocks(baseID *int) ([]models.StockRow, error) {
	query := r.repository.GoquDBWrapper.
		From(goqu.T("stocks").As("s")).
		Select(
			goqu.I("s.id").As("id"),
			goqu.I("s.base_id").As("base_id"),
			goqu.I("s.asset_id").As("asset_id"),
			goqu.I("s.opening_balance").As("opening_balance"),
			goqu.I("s.closing_balance").As("closing_balance"),
			goqu.I("s.assigned").As("assigned"),
			goqu.I("s.expended").As("expended"),
			goqu.I("s.updated_at").As("updated_at"),
			goqu.I("b.name").As("base_name"),
			goqu.I("a.type").As("asset_type"),
			goqu.I("a.description").As("asset_description"),
		).
		LeftJoin(
			goqu.T("bases").As("b"),
			goqu.On(goqu.Ex{"s.base_id": goqu.I("b.id")}),
		).
		LeftJoin(
			goqu.T("assets").As("a"),
			goqu.On(goqu.Ex{"s.asset_id": goqu.I("a.id")}),
		).
		Order(goqu.I("s.base_id").Asc(), goqu.I("s.asset_id").Asc())

	if baseID != nil {
		query = query.Where(goqu.Ex{"s.base_id": *baseID})
	}

	var stocks []models.StockRow
	if err := query.Executor().ScanStructs(&stocks); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	return stocks, nil
}

func (r *StockRepository) GetStockByBaseAndAsset(baseID, assetID int) (*models.Stock, error) {
	var stock models.Stock

	query := r.repository.GoquDBWrapper.
		From("stocks").
		Select("id", "base_id", "asset_id", "opening_balance", "closing_balance", "assigned", "expended", "updated_at").
		Where(goqu.Ex{"base_id": baseID, "asset_id": assetID})

	found, err := query.Executor().ScanStruct(&stock)
	if err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}
	if !found {
		return nil, nil
	}

	return &stock, nil
}

// ApplyPurchase credits the ledger with purchased quantity.
func (r *StockRepository) ApplyPurchase(tx *goqu.TxDatabase, baseID, assetID, quantity int) error {
	if err := r.upsertIncrement(tx, baseID, assetID, quantity); err != nil {
		return fmt.Errorf("failed to apply purchase to stock ledger: %w", err)
	}
	return nil
}

// ApplyTransferCompletion moves quantity from the source base ledger to the
// destination base ledger. The source decrement clamps at zero.
func (r *StockRepository) ApplyTransferCompletion(tx *goqu.TxDatabase, fromBaseID, toBaseID, assetID, quantity int) error {
	decrement := tx.Update("stocks").
		Set(goqu.Record{
			"closing_balance": goqu.L("GREATEST(closing_balance - ?, 0)", quantity),
			"updated_at":      goqu.L("NOW()"),
		}).
		Where(goqu.Ex{"base_id": fromBaseID, "asset_id": assetID})

	if _, err := decrement.Executor().Exec(); err != nil {
		return fmt.Errorf("failed to decrement source stock: %w", err)
	}

	if err := r.upsertIncrement(tx, toBaseID, assetID, quantity); err != nil {
		return fmt.Errorf("failed to increment destination stock: %w", err)
	}

	return nil
}

// ApplyAssignmentCreation moves quantity from the closing balance into the
// assigned counter.
func (r *StockRepository) ApplyAssignmentCreation(tx *goqu.TxDatabase, baseID, assetID, quantity int) error {
	update := tx.Update("stocks").
		Set(goqu.Record{
			"assigned":        goqu.L("assigned + ?", quantity),
			"closing_balance": goqu.L("GREATEST(closing_balance - ?, 0)", quantity),
			"updated_at":      goqu.L("NOW()"),
		}).
		Where(goqu.Ex{"base_id": baseID, "asset_id": assetID})

	if _, err := update.Executor().Exec(); err != nil {
		return fmt.Errorf("failed to apply assignment to stock ledger: %w", err)
	}

	return nil
}

// ApplyAssignmentExpenditure moves quantity from the assigned counter into
// the expended counter.
func (r *StockRepository) ApplyAssignmentExpenditure(tx *goqu.TxDatabase, baseID, assetID, quantity int) error {
	update := tx.Update("stocks").
		Set(goqu.Record{
			"assigned":   goqu.L("GREATEST(assigned - ?, 0)", quantity),
			"expended":   goqu.L("expended + ?", quantity),
			"updated_at": goqu.L("NOW()"),
		}).
		Where(goqu.Ex{"base_id": baseID, "asset_id": assetID})

	if _, err := update.Executor().Exec(); err != nil {
		return fmt.Errorf("failed to apply expenditure to stock ledger: %w", err)
	}

	return nil
}

func (r *StockRepository) upsertIncrement(tx *goqu.TxDatabase, baseID, assetID, quantity int) error {
	query := tx.Insert("stocks").
		Rows(goqu.Record{
			"base_id":         baseID,
			"asset_id":        assetID,
			"opening_balance": 0,
			"closing_balance": quantity,
		}).
		OnConflict(
			goqu.DoUpdate(
				"base_id, asset_id",
				goqu.Record{
					"closing_balance": goqu.L("stocks.closing_balance + EXCLUDED.closing_balance"),
					"updated_at":      goqu.L("NOW()"),
				},
			),
		)

	_, err := query.Executor().Exec()
	return err
}
