package purchases

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"armory/pkg/models"
	"armory/pkg/roles"
	"armory/pkg/security"
)

func setupHandlerTest(t *testing.T) (*PurchaseHandler, *MockPurchaseRepository, *MockStockLedger, *MockAuditRecorder, sqlmock.Sqlmock) {
	gin.SetMode(gin.TestMode)

	service, purchaseRepo, ledger, audit, dbMock := newTestService(t)
	return NewHandler(service, zap.NewNop()), purchaseRepo, ledger, audit, dbMock
}

func testContext(actor security.Actor) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("actor", actor)
	return c, w
}

func TestCreatePurchaseUnknownBaseOrAsset(t *testing.T) {
	handler, purchaseRepo, _, _, dbMock := setupHandlerTest(t)

	dbMock.ExpectBegin()
	dbMock.ExpectRollback()
	purchaseRepo.On("InsertPurchase", mock.Anything, mock.Anything, 1).
		Return(nil, &pq.Error{Code: "23503"})

	c, w := testContext(security.Actor{ID: 1, Role: roles.Admin})

	payload := models.CreatePurchaseRequest{
		AssetID:      999,
		BaseID:       1,
		Quantity:     5,
		PurchaseDate: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	body, _ := json.Marshal(payload)
	c.Request = httptest.NewRequest("POST", "/api/purchases", bytes.NewBuffer(body))

	handler.CreatePurchase(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	purchaseRepo.AssertExpectations(t)
}

func TestCreatePurchaseForbiddenForCommander(t *testing.T) {
	handler, _, _, _, _ := setupHandlerTest(t)

	baseID := 1
	c, w := testContext(security.Actor{ID: 4, Role: roles.Commander, BaseID: &baseID})

	payload := models.CreatePurchaseRequest{
		AssetID:      7,
		BaseID:       1,
		Quantity:     5,
		PurchaseDate: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	body, _ := json.Marshal(payload)
	c.Request = httptest.NewRequest("POST", "/api/purchases", bytes.NewBuffer(body))

	handler.CreatePurchase(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
}
