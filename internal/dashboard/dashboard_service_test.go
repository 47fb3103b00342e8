package dashboard

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"armory/pkg/models"
)

type MockDashboardRepository struct {
	mock.Mock
}

func (m *MockDashboardRepository) SumStocks(baseID *int) (*StockTotals, error) {
	args := m.Called(baseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*StockTotals), args.Error(1)
}

func (m *MockDashboardRepository) SumPurchases(baseID *int, startDate, endDate *time.Time) (int, error) {
	args := m.Called(baseID, startDate, endDate)
	return args.Int(0), args.Error(1)
}

func (m *MockDashboardRepository) SumCompletedTransfers(direction TransferDirection, baseID *int, startDate, endDate *time.Time) (int, error) {
	args := m.Called(direction, baseID, startDate, endDate)
	return args.Int(0), args.Error(1)
}

func (m *MockDashboardRepository) GetRecentPurchases(baseID *int, limit int) ([]models.ActivityEntry, error) {
	args := m.Called(baseID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ActivityEntry), args.Error(1)
}

func (m *MockDashboardRepository) GetRecentTransfers(baseID *int, limit int) ([]models.ActivityEntry, error) {
	args := m.Called(baseID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ActivityEntry), args.Error(1)
}

func (m *MockDashboardRepository) GetRecentAssignments(baseID *int, limit int) ([]models.ActivityEntry, error) {
	args := m.Called(baseID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ActivityEntry), args.Error(1)
}

func TestGetMetrics(t *testing.T) {
	mockRepo := new(MockDashboardRepository)
	service := NewDashboardService(mockRepo)

	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)

	mockRepo.On("SumStocks", (*int)(nil)).Return(&StockTotals{
		OpeningBalance: 100,
		ClosingBalance: 120,
		Assigned:       30,
	}, nil)
	mockRepo.On("SumPurchases", (*int)(nil), &start, &end).Return(35, nil)
	mockRepo.On("SumCompletedTransfers", TransferIn, (*int)(nil), &start, &end).Return(7, nil)
	mockRepo.On("SumCompletedTransfers", TransferOut, (*int)(nil), &start, &end).Return(3, nil)

	metrics, err := service.GetMetrics(nil, &start, &end)

	assert.NoError(t, err)
	assert.Equal(t, 100, metrics.OpeningBalance)
	assert.Equal(t, 120, metrics.ClosingBalance)
	assert.Equal(t, 30, metrics.AssignedAssets)
	assert.Equal(t, 39, metrics.NetMovement)
	assert.Equal(t, 35, metrics.Breakdown.Purchases)
	assert.Equal(t, 7, metrics.Breakdown.TransfersIn)
	assert.Equal(t, 3, metrics.Breakdown.TransfersOut)
	mockRepo.AssertExpectations(t)
}

func TestGetMetricsRepositoryError(t *testing.T) {
	mockRepo := new(MockDashboardRepository)
	service := NewDashboardService(mockRepo)

	mockRepo.On("SumStocks", (*int)(nil)).Return(nil, errors.New("db error"))

	metrics, err := service.GetMetrics(nil, nil, nil)

	assert.Error(t, err)
	assert.Nil(t, metrics)
}

func entryAt(id int, entryType string, ts time.Time) models.ActivityEntry {
	return models.ActivityEntry{
		ID:          id,
		Type:        entryType,
		Description: entryType,
		Timestamp:   ts,
	}
}

func TestGetRecentActivityMergesAndTruncates(t *testing.T) {
	mockRepo := new(MockDashboardRepository)
	service := NewDashboardService(mockRepo)

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	mockRepo.On("GetRecentPurchases", (*int)(nil), 5).Return([]models.ActivityEntry{
		entryAt(1, "purchase", base.Add(9*time.Minute)),
		entryAt(2, "purchase", base.Add(2*time.Minute)),
		entryAt(3, "purchase", base.Add(1*time.Minute)),
	}, nil)
	mockRepo.On("GetRecentTransfers", (*int)(nil), 5).Return([]models.ActivityEntry{
		entryAt(4, "transfer", base.Add(8*time.Minute)),
		entryAt(5, "transfer", base.Add(7*time.Minute)),
		entryAt(6, "transfer", base.Add(3*time.Minute)),
	}, nil)
	mockRepo.On("GetRecentAssignments", (*int)(nil), 5).Return([]models.ActivityEntry{
		entryAt(7, "assignment", base.Add(6*time.Minute)),
		entryAt(8, "assignment", base.Add(5*time.Minute)),
		entryAt(9, "assignment", base.Add(4*time.Minute)),
	}, nil)

	activity, err := service.GetRecentActivity(nil, 5)

	assert.NoError(t, err)
	assert.Len(t, activity, 5)

	ids := make([]int, 0, len(activity))
	for i, entry := range activity {
		ids = append(ids, entry.ID)
		if i > 0 {
			assert.False(t, activity[i-1].Timestamp.Before(entry.Timestamp))
		}
	}
	assert.Equal(t, []int{1, 4, 5, 7, 8}, ids)
	mockRepo.AssertExpectations(t)
}

func TestGetRecentActivityDefaultLimit(t *testing.T) {
	mockRepo := new(MockDashboardRepository)
	service := NewDashboardService(mockRepo)

	mockRepo.On("GetRecentPurchases", (*int)(nil), 10).Return([]models.ActivityEntry{}, nil)
	mockRepo.On("GetRecentTransfers", (*int)(nil), 10).Return([]models.ActivityEntry{}, nil)
	mockRepo.On("GetRecentAssignments", (*int)(nil), 10).Return([]models.ActivityEntry{}, nil)

	_, err := service.GetRecentActivity(nil, 0)

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestGetRecentActivityQueryError(t *testing.T) {
	mockRepo := new(MockDashboardRepository)
	service := NewDashboardService(mockRepo)

	mockRepo.On("GetRecentPurchases", (*int)(nil), 10).Return([]models.ActivityEntry{}, nil).Maybe()
	mockRepo.On("GetRecentTransfers", (*int)(nil), 10).Return(nil, errors.New("db error"))
	mockRepo.On("GetRecentAssignments", (*int)(nil), 10).Return([]models.ActivityEntry{}, nil).Maybe()

	activity, err := service.GetRecentActivity(nil, 10)

	assert.Error(t, err)
	assert.Nil(t, activity)
}
