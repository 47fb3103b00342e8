package users

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"armory/pkg/models"
	"armory/pkg/roles"
	"armory/pkg/security"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) PersistUser(req models.CreateUserRequest, hashedPassword []byte) (*models.User, error) {
	args := m.Called(req, hashedPassword)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetUser(id int) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetUserByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetUsers() ([]models.User, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func setupTestContext(actor security.Actor) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("actor", actor)
	return c, w
}

func TestRegisterUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockRepo := new(MockUserRepository)
	handler := NewHandler(mockRepo, zap.NewNop())

	payload := models.CreateUserRequest{
		Name:     "Major Sarah Wilson",
		Email:    "logistics@pendleton.mil",
		Password: "logistics123",
		Role:     "logistics",
	}

	tests := []struct {
		name           string
		setupMock      func()
		expectedStatus int
	}{
		{
			name: "successful registration",
			setupMock: func() {
				mockRepo.On("PersistUser", mock.Anything, mock.Anything).
					Return(&models.User{ID: 3, Name: payload.Name, Email: payload.Email, Role: "logistics"}, nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "duplicate email",
			setupMock: func() {
				mockRepo.On("PersistUser", mock.Anything, mock.Anything).
					Return(nil, &pq.Error{Code: "23505"})
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name: "referenced base missing",
			setupMock: func() {
				mockRepo.On("PersistUser", mock.Anything, mock.Anything).
					Return(nil, &pq.Error{Code: "23503"})
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "repository error",
			setupMock: func() {
				mockRepo.On("PersistUser", mock.Anything, mock.Anything).
					Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo.ExpectedCalls = nil
			tt.setupMock()
			c, w := setupTestContext(security.Actor{ID: 1, Role: roles.Admin})

			body, _ := json.Marshal(payload)
			c.Request = httptest.NewRequest("POST", "/api/auth/register", bytes.NewBuffer(body))

			handler.RegisterUser(c)

			assert.Equal(t, tt.expectedStatus, w.Code)
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestRegisterUserRejectsInvalidRole(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewHandler(new(MockUserRepository), zap.NewNop())

	c, w := setupTestContext(security.Actor{ID: 1, Role: roles.Admin})

	body := []byte(`{"name": "X", "email": "x@military.gov", "password": "secret1", "role": "superuser"}`)
	c.Request = httptest.NewRequest("POST", "/api/auth/register", bytes.NewBuffer(body))

	handler.RegisterUser(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMe(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockRepo := new(MockUserRepository)
	handler := NewHandler(mockRepo, zap.NewNop())

	mockRepo.On("GetUser", 7).Return(&models.User{ID: 7, Email: "admin@military.gov"}, nil)

	c, w := setupTestContext(security.Actor{ID: 7, Role: roles.Admin})
	c.Request = httptest.NewRequest("GET", "/api/auth/me", nil)

	handler.Me(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockRepo.AssertExpectations(t)
}

func TestMeUserDeleted(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockRepo := new(MockUserRepository)
	handler := NewHandler(mockRepo, zap.NewNop())

	mockRepo.On("GetUser", 7).Return(nil, nil)

	c, w := setupTestContext(security.Actor{ID: 7, Role: roles.Admin})
	c.Request = httptest.NewRequest("GET", "/api/auth/me", nil)

	handler.Me(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
