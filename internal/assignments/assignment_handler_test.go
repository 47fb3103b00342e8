package assignments

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

	"armory/internal/repository"
	"armory/pkg/models"
	"armory/pkg/roles"
	"armory/pkg/security"
)

func setupHandlerTest(t *testing.T) (*AssignmentHandler, *MockAssignmentRepository, *MockStockLedger, *MockAuditRecorder, sqlmock.Sqlmock) {
	gin.SetMode(gin.TestMode)

	db, dbMock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := repository.NewRepository(db)
	assignmentRepo := new(MockAssignmentRepository)
	ledger := new(MockStockLedger)
	audit := new(MockAuditRecorder)

	service := NewAssignmentService(repo, assignmentRepo, ledger, audit, zap.NewNop())
	return NewHandler(service, zap.NewNop()), assignmentRepo, ledger, audit, dbMock
}

func testContext(actor security.Actor) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("actor", actor)
	return c, w
}

func TestCreateAssignmentForbiddenOutsideOwnBase(t *testing.T) {
	handler, _, _, _, _ := setupHandlerTest(t)

	baseID := 1
	c, w := testContext(security.Actor{ID: 5, Role: roles.Commander, BaseID: &baseID})

	payload := models.CreateAssignmentRequest{
		AssetID:      4,
		BaseID:       2,
		AssignedTo:   "Alpha Company",
		Quantity:     6,
		AssignedDate: time.Now(),
	}
	body, _ := json.Marshal(payload)
	c.Request = httptest.NewRequest("POST", "/api/assignments", bytes.NewBuffer(body))

	handler.CreateAssignment(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCreateAssignmentRejectsNonPositiveQuantity(t *testing.T) {
	handler, _, _, _, _ := setupHandlerTest(t)

	c, w := testContext(security.Actor{ID: 1, Role: roles.Admin})

	body := []byte(`{"asset_id": 4, "base_id": 2, "assigned_to": "Alpha Company", "quantity": 0, "assigned_date": "2025-02-05T00:00:00Z"}`)
	c.Request = httptest.NewRequest("POST", "/api/assignments", bytes.NewBuffer(body))

	handler.CreateAssignment(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateAssignmentStatusNotFound(t *testing.T) {
	handler, assignmentRepo, _, _, dbMock := setupHandlerTest(t)

	dbMock.ExpectBegin()
	dbMock.ExpectRollback()
	assignmentRepo.On("GetAssignmentForUpdate", mock.Anything, 17).Return(nil, nil)

	c, w := testContext(security.Actor{ID: 1, Role: roles.Admin})
	c.Params = gin.Params{{Key: "id", Value: "17"}}

	body := []byte(`{"status": "expended"}`)
	c.Request = httptest.NewRequest("PATCH", "/api/assignments/17/status", bytes.NewBuffer(body))

	handler.UpdateAssignmentStatus(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateAssignmentStatusConflictOnDoubleExpend(t *testing.T) {
	handler, assignmentRepo, _, _, dbMock := setupHandlerTest(t)

	expended := assignedAssignment()
	expended.Status = models.AssignmentStatusExpended

	dbMock.ExpectBegin()
	dbMock.ExpectRollback()
	assignmentRepo.On("GetAssignmentForUpdate", mock.Anything, 17).Return(expended, nil)

	c, w := testContext(security.Actor{ID: 1, Role: roles.Admin})
	c.Params = gin.Params{{Key: "id", Value: "17"}}

	body := []byte(`{"status": "expended"}`)
	c.Request = httptest.NewRequest("PATCH", "/api/assignments/17/status", bytes.NewBuffer(body))

	handler.UpdateAssignmentStatus(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestUpdateAssignmentStatusRejectsUnknownStatus(t *testing.T) {
	handler, _, _, _, _ := setupHandlerTest(t)

	c, w := testContext(security.Actor{ID: 1, Role: roles.Admin})
	c.Params = gin.Params{{Key: "id", Value: "17"}}

	body := []byte(`{"status": "assigned"}`)
	c.Request = httptest.NewRequest("PATCH", "/api/assignments/17/status", bytes.NewBuffer(body))

	handler.UpdateAssignmentStatus(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetAssignmentsScopesCommanderToOwnBase(t *testing.T) {
	handler, assignmentRepo, _, _, _ := setupHandlerTest(t)

	baseID := 1

	expectedFilter := Filter{BaseID: &baseID}
	assignmentRepo.On("GetAssignments", expectedFilter).Return([]models.AssignmentRow{}, nil)

	c, w := testContext(security.Actor{ID: 5, Role: roles.Commander, BaseID: &baseID})
	c.Request = httptest.NewRequest("GET", "/api/assignments?baseId=2", nil)

	handler.GetAssignments(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assignmentRepo.AssertExpectations(t)
}

func TestCreateAssignmentUnknownBaseOrAsset(t *testing.T) {
	handler, assignmentRepo, _, _, dbMock := setupHandlerTest(t)

	dbMock.ExpectBegin()
	dbMock.ExpectRollback()
	assignmentRepo.On("InsertAssignment", mock.Anything, mock.Anything, 1).
		Return(nil, &pq.Error{Code: "23503"})

	c, w := testContext(security.Actor{ID: 1, Role: roles.Admin})

	payload := models.CreateAssignmentRequest{
		AssetID:      999,
		BaseID:       2,
		AssignedTo:   "Alpha Company",
		Quantity:     6,
		AssignedDate: time.Date(2025, 2, 5, 0, 0, 0, 0, time.UTC),
	}
	body, _ := json.Marshal(payload)
	c.Request = httptest.NewRequest("POST", "/api/assignments", bytes.NewBuffer(body))

	handler.CreateAssignment(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assignmentRepo.AssertExpectations(t)
}
