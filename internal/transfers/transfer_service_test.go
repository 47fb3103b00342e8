package transfers

import (
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/doug-martin/goqu/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"armory/internal/repository"
	"armory/pkg/auditlog"
	"armory/pkg/models"
)

type MockTransferRepository struct {
	mock.Mock
}

func (m *MockTransferRepository) InsertTransfer(tx *goqu.TxDatabase, req models.CreateTransferRequest, initiatedBy int) (*models.Transfer, error) {
	args := m.Called(tx, req, initiatedBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Transfer), args.Error(1)
}

func (m *MockTransferRepository) GetTransferForUpdate(tx *goqu.TxDatabase, transferID int) (*models.Transfer, error) {
	args := m.Called(tx, transferID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Transfer), args.Error(1)
}

func (m *MockTransferRepository) UpdateTransferStatus(tx *goqu.TxDatabase, transferID int, status string) error {
	args := m.Called(tx, transferID, status)
	return args.Error(0)
}

func (m *MockTransferRepository) GetTransfers(filter Filter) ([]models.TransferRow, error) {
	args := m.Called(filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.TransferRow), args.Error(1)
}

type MockStockLedger struct {
	mock.Mock
}

func (m *MockStockLedger) ApplyTransferCompletion(tx *goqu.TxDatabase, fromBaseID, toBaseID, assetID, quantity int) error {
	args := m.Called(tx, fromBaseID, toBaseID, assetID, quantity)
	return args.Error(0)
}

type MockAuditRecorder struct {
	mock.Mock
}

func (m *MockAuditRecorder) RecordChange(tx *goqu.TxDatabase, userID int, item auditlog.Auditable, oldData, newData interface{}) error {
	args := m.Called(tx, userID, item, oldData, newData)
	return args.Error(0)
}

func newTestService(t *testing.T) (*TransferService, *MockTransferRepository, *MockStockLedger, *MockAuditRecorder, sqlmock.Sqlmock) {
	db, dbMock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := repository.NewRepository(db)
	transferRepo := new(MockTransferRepository)
	ledger := new(MockStockLedger)
	audit := new(MockAuditRecorder)

	return NewService(repo, transferRepo, ledger, audit), transferRepo, ledger, audit, dbMock
}

func pendingTransfer() *models.Transfer {
	return &models.Transfer{
		ID:           42,
		AssetID:      7,
		FromBaseID:   1,
		ToBaseID:     2,
		Quantity:     10,
		TransferDate: time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC),
		InitiatedBy:  3,
		Status:       models.TransferStatusPending,
	}
}

func TestCreateTransferRejectsSameBase(t *testing.T) {
	service, _, _, _, _ := newTestService(t)

	_, err := service.CreateTransfer(1, models.CreateTransferRequest{
		AssetID:      7,
		FromBaseID:   1,
		ToBaseID:     1,
		Quantity:     5,
		TransferDate: time.Now(),
	})

	assert.ErrorIs(t, err, ErrSameBase)
}

func TestCreateTransfer(t *testing.T) {
	service, transferRepo, _, audit, dbMock := newTestService(t)

	req := models.CreateTransferRequest{
		AssetID:      7,
		FromBaseID:   1,
		ToBaseID:     2,
		Quantity:     10,
		TransferDate: time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC),
	}

	dbMock.ExpectBegin()
	dbMock.ExpectCommit()

	transferRepo.On("InsertTransfer", mock.Anything, req, 3).Return(pendingTransfer(), nil)
	audit.On("RecordChange", mock.Anything, 3, mock.Anything, nil, req).Return(nil)

	transfer, err := service.CreateTransfer(3, req)

	assert.NoError(t, err)
	assert.Equal(t, models.TransferStatusPending, transfer.Status)
	assert.NoError(t, dbMock.ExpectationsWereMet())
	transferRepo.AssertExpectations(t)
	audit.AssertExpectations(t)
}

func TestUpdateStatusCompletesAndMovesStock(t *testing.T) {
	service, transferRepo, ledger, audit, dbMock := newTestService(t)

	dbMock.ExpectBegin()
	dbMock.ExpectCommit()

	transferRepo.On("GetTransferForUpdate", mock.Anything, 42).Return(pendingTransfer(), nil)
	transferRepo.On("UpdateTransferStatus", mock.Anything, 42, models.TransferStatusCompleted).Return(nil)
	ledger.On("ApplyTransferCompletion", mock.Anything, 1, 2, 7, 10).Return(nil)
	audit.On("RecordChange", mock.Anything, 3, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	transfer, err := service.UpdateStatus(3, 42, models.TransferStatusCompleted)

	assert.NoError(t, err)
	assert.Equal(t, models.TransferStatusCompleted, transfer.Status)
	assert.NoError(t, dbMock.ExpectationsWereMet())
	ledger.AssertExpectations(t)
}

func TestUpdateStatusCancelSkipsLedger(t *testing.T) {
	service, transferRepo, ledger, audit, dbMock := newTestService(t)

	dbMock.ExpectBegin()
	dbMock.ExpectCommit()

	transferRepo.On("GetTransferForUpdate", mock.Anything, 42).Return(pendingTransfer(), nil)
	transferRepo.On("UpdateTransferStatus", mock.Anything, 42, models.TransferStatusCancelled).Return(nil)
	audit.On("RecordChange", mock.Anything, 3, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	transfer, err := service.UpdateStatus(3, 42, models.TransferStatusCancelled)

	assert.NoError(t, err)
	assert.Equal(t, models.TransferStatusCancelled, transfer.Status)
	ledger.AssertNotCalled(t, "ApplyTransferCompletion", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestUpdateStatusNotFound(t *testing.T) {
	service, transferRepo, _, _, dbMock := newTestService(t)

	dbMock.ExpectBegin()
	dbMock.ExpectRollback()

	transferRepo.On("GetTransferForUpdate", mock.Anything, 42).Return(nil, nil)

	_, err := service.UpdateStatus(3, 42, models.TransferStatusCompleted)

	assert.ErrorIs(t, err, ErrTransferNotFound)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestUpdateStatusRejectsNonPending(t *testing.T) {
	service, transferRepo, ledger, _, dbMock := newTestService(t)

	completed := pendingTransfer()
	completed.Status = models.TransferStatusCompleted

	dbMock.ExpectBegin()
	dbMock.ExpectRollback()

	transferRepo.On("GetTransferForUpdate", mock.Anything, 42).Return(completed, nil)

	_, err := service.UpdateStatus(3, 42, models.TransferStatusCancelled)

	assert.ErrorIs(t, err, ErrNotPending)
	ledger.AssertNotCalled(t, "ApplyTransferCompletion", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestUpdateStatusRollsBackOnLedgerError(t *testing.T) {
	service, transferRepo, ledger, _, dbMock := newTestService(t)

	dbMock.ExpectBegin()
	dbMock.ExpectRollback()

	transferRepo.On("GetTransferForUpdate", mock.Anything, 42).Return(pendingTransfer(), nil)
	transferRepo.On("UpdateTransferStatus", mock.Anything, 42, models.TransferStatusCompleted).Return(nil)
	ledger.On("ApplyTransferCompletion", mock.Anything, 1, 2, 7, 10).Return(errors.New("db error"))

	_, err := service.UpdateStatus(3, 42, models.TransferStatusCompleted)

	assert.Error(t, err)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}
