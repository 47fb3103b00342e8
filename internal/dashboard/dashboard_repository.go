package dashboard

import (
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"

	"armory/internal/repository"
	"armory/pkg/models"
)

type DashboardRepository interface {
	SumStocks(baseID *int) (*StockTotals, error)
	SumPurchases(baseID *int, startDate, endDate *time.Time) (int, error)
	SumCompletedTransfers(direction TransferDirection, baseID *int, startDate, endDate *time.Time) (int, error)
	GetRecentPurchases(baseID *int, limit int) ([]models.ActivityEntry, error)
	GetRecentTransfers(baseID *int, limit int) ([]models.ActivityEntry, error)
	GetRecentAssignments(baseID *int, limit int) ([]models.ActivityEntry, error)
}

// TransferDirection selects which end of a transfer the base filter applies
// to when summing completed movements.
type TransferDirection string

const (
	TransferIn  TransferDirection = "in"
	TransferOut TransferDirection = "out"
)

type StockTotals struct {
	OpeningBalance int `db:"opening_balance"`
	ClosingBalance int `db:"closing_balance"`
	Assigned       int `db:"assigned"`
}

type dashboardRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) DashboardRepository {
	return &dashboardRepository{repository: r}
}

// SumStocks totals the current stock rows. Balances are point-in-time, so
// no date window applies here.
func (r *dashboardRepository) SumStocks(baseID *int) (*StockTotals, error) {
	query := r.repository.GoquDBWrapper.
		From("stocks").
		Select(
			goqu.COALESCE(goqu.SUM("opening_balance"), 0).As("opening_balance"),
			goqu.COALESCE(goqu.SUM("closing_balance"), 0).As("closing_balance"),
			goqu.COALESCE(goqu.SUM("assigned"), 0).As("assigned"),
		)

	if baseID != nil {
		query = query.Where(goqu.Ex{"base_id": *baseID})
	}

	var totals StockTotals
	if _, err := query.Executor().ScanStruct(&totals); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	return &totals, nil
}

func (r *dashboardRepository) SumPurchases(baseID *int, startDate, endDate *time.Time) (int, error) {
	query := r.repository.GoquDBWrapper.
		From("purchases").
		Select(goqu.COALESCE(goqu.SUM("quantity"), 0))

	if baseID != nil {
		query = query.Where(goqu.Ex{"base_id": *baseID})
	}
	if startDate != nil {
		query = query.Where(goqu.I("purchase_date").Gte(*startDate))
	}
	if endDate != nil {
		query = query.Where(goqu.I("purchase_date").Lte(*endDate))
	}

	var total int
	if _, err := query.Executor().ScanVal(&total); err != nil {
		return 0, fmt.Errorf("error executing SQL statement: %w", err)
	}

	return total, nil
}

func (r *dashboardRepository) SumCompletedTransfers(direction TransferDirection, baseID *int, startDate, endDate *time.Time) (int, error) {
	query := r.repository.GoquDBWrapper.
		From("transfers").
		Select(goqu.COALESCE(goqu.SUM("quantity"), 0)).
		Where(goqu.Ex{"status": models.TransferStatusCompleted})

	if baseID != nil {
		column := "to_base_id"
		if direction == TransferOut {
			column = "from_base_id"
		}
		query = query.Where(goqu.Ex{column: *baseID})
	}
	if startDate != nil {
		query = query.Where(goqu.I("transfer_date").Gte(*startDate))
	}
	if endDate != nil {
		query = query.Where(goqu.I("transfer_date").Lte(*endDate))
	}

	var total int
	if _, err := query.Executor().ScanVal(&total); err != nil {
		return 0, fmt.Errorf("error executing SQL statement: %w", err)
	}

	return total, nil
}

func (r *dashboardRepository) GetRecentPurchases(baseID *int, limit int) ([]models.ActivityEntry, error) {
	query := r.repository.GoquDBWrapper.
		From(goqu.T("purchases").As("p")).
		Select(
			goqu.I("p.id").As("id"),
			goqu.L("'purchase'").As("type"),
			goqu.L("'Purchase of ' || p.quantity || ' ' || a.description").As("description"),
			goqu.I("b.name").As("base"),
			goqu.I("u.name").As("user"),
			goqu.I("p.created_at").As("timestamp"),
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
		Order(goqu.I("p.created_at").Desc()).
		Limit(uint(limit))

	if baseID != nil {
		query = query.Where(goqu.Ex{"p.base_id": *baseID})
	}

	var entries []models.ActivityEntry
	if err := query.Executor().ScanStructs(&entries); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	return entries, nil
}

// GetRecentTransfers resolves only the source base for the feed's base
// column, matching the historical API output.
func (r *dashboardRepository) GetRecentTransfers(baseID *int, limit int) ([]models.ActivityEntry, error) {
	query := r.repository.GoquDBWrapper.
		From(goqu.T("transfers").As("t")).
		Select(
			goqu.I("t.id").As("id"),
			goqu.L("'transfer'").As("type"),
			goqu.L("'Transfer of ' || t.quantity || ' ' || a.description").As("description"),
			goqu.I("b.name").As("base"),
			goqu.I("u.name").As("user"),
			goqu.I("t.created_at").As("timestamp"),
		).
		LeftJoin(
			goqu.T("assets").As("a"),
			goqu.On(goqu.Ex{"t.asset_id": goqu.I("a.id")}),
		).
		LeftJoin(
			goqu.T("bases").As("b"),
			goqu.On(goqu.Ex{"t.from_base_id": goqu.I("b.id")}),
		).
		LeftJoin(
			goqu.T("users").As("u"),
			goqu.On(goqu.Ex{"t.initiated_by": goqu.I("u.id")}),
		).
		Order(goqu.I("t.created_at").Desc()).
		Limit(uint(limit))

	if baseID != nil {
		query = query.Where(
			goqu.Or(
				goqu.Ex{"t.from_base_id": *baseID},
				goqu.Ex{"t.to_base_id": *baseID},
			),
		)
	}

	var entries []models.ActivityEntry
	if err := query.Executor().ScanStructs(&entries); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	return entries, nil
}

func (r *dashboardRepository) GetRecentAssignments(baseID *int, limit int) ([]models.ActivityEntry, error) {
	query := r.repository.GoquDBWrapper.
		From(goqu.T("assignments").As("g")).
		Select(
			goqu.I("g.id").As("id"),
			goqu.L("'assignment'").As("type"),
			goqu.L("'Assignment of ' || g.quantity || ' ' || a.description").As("description"),
			goqu.I("b.name").As("base"),
			goqu.I("u.name").As("user"),
			goqu.I("g.created_at").As("timestamp"),
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
		Order(goqu.I("g.created_at").Desc()).
		Limit(uint(limit))

	if baseID != nil {
		query = query.Where(goqu.Ex{"g.base_id": *baseID})
	}

	var entries []models.ActivityEntry
	if err := query.Executor().ScanStructs(&entries); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	return entries, nil
}
