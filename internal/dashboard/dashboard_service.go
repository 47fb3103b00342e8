package dashboard

import (
	"sort"
	"time"

	"armory/pkg/models"
)

const defaultActivityLimit = 10

type DashboardService struct {
	dashboardRepository DashboardRepository
}

func NewDashboardService(r DashboardRepository) *DashboardService {
	return &DashboardService{dashboardRepository: r}
}

// GetMetrics builds the dashboard summary. Stock balances ignore the date
// window; the movement breakdown respects it. When no base filter is set,
// every completed transfer counts in both directions.
func (s *DashboardService) GetMetrics(baseID *int, startDate, endDate *time.Time) (*models.DashboardMetrics, error) {
	totals, err := s.dashboardRepository.SumStocks(baseID)
	if err != nil {
		return nil, err
	}

	purchases, err := s.dashboardRepository.SumPurchases(baseID, startDate, endDate)
	if err != nil {
		return nil, err
	}

	transfersIn, err := s.dashboardRepository.SumCompletedTransfers(TransferIn, baseID, startDate, endDate)
	if err != nil {
		return nil, err
	}

	transfersOut, err := s.dashboardRepository.SumCompletedTransfers(TransferOut, baseID, startDate, endDate)
	if err != nil {
		return nil, err
	}

	return &models.DashboardMetrics{
		OpeningBalance: totals.OpeningBalance,
		ClosingBalance: totals.ClosingBalance,
		NetMovement:    purchases + transfersIn - transfersOut,
		AssignedAssets: totals.Assigned,
		Breakdown: models.MovementBreakdown{
			Purchases:    purchases,
			TransfersIn:  transfersIn,
			TransfersOut: transfersOut,
		},
	}, nil
}

// GetRecentActivity fetches the latest purchases, transfers and assignments
// concurrently, each capped at limit, then merges and truncates. The
// per-type cap means a burst of one type can crowd out older entries of
// another.
func (s *DashboardService) GetRecentActivity(baseID *int, limit int) ([]models.ActivityEntry, error) {
	if limit <= 0 {
		limit = defaultActivityLimit
	}

	purchaseChannel := make(chan []models.ActivityEntry, 1)
	transferChannel := make(chan []models.ActivityEntry, 1)
	assignmentChannel := make(chan []models.ActivityEntry, 1)
	errChannel := make(chan error, 3)

	go func() {
		entries, err := s.dashboardRepository.GetRecentPurchases(baseID, limit)
		if err != nil {
			errChannel <- err
			return
		}
		purchaseChannel <- entries
	}()

	go func() {
		entries, err := s.dashboardRepository.GetRecentTransfers(baseID, limit)
		if err != nil {
			errChannel <- err
			return
		}
		transferChannel <- entries
	}()

	go func() {
		entries, err := s.dashboardRepository.GetRecentAssignments(baseID, limit)
		if err != nil {
			errChannel <- err
			return
		}
		assignmentChannel <- entries
	}()

	var combined []models.ActivityEntry

	for i := 0; i < 3; i++ {
		select {
		case entries := <-purchaseChannel:
			combined = append(combined, entries...)
		case entries := <-transferChannel:
			combined = append(combined, entries...)
		case entries := <-assignmentChannel:
			combined = append(combined, entries...)
		case err := <-errChannel:
			return nil, err
		}
	}

	sort.SliceStable(combined, func(i, j int) bool {
		return combined[i].Timestamp.After(combined[j].Timestamp)
	})

	if len(combined) > limit {
		combined = combined[:limit]
	}

	return combined, nil
}
