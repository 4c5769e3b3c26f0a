package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Giggibubbu/airpermit/internal/domain"
	"github.com/Giggibubbu/airpermit/internal/service/zones"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockZoneUseCase is a mock implementation of zones.ZoneUseCase
type MockZoneUseCase struct {
	mock.Mock
}

func (m *MockZoneUseCase) Create(ctx context.Context, input zones.CreateZoneInput) (*domain.NoFlyZone, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.NoFlyZone), args.Error(1)
}

func (m *MockZoneUseCase) UpdateValidity(ctx context.Context, id int64, start, end *time.Time) (*domain.NoFlyZone, error) {
	args := m.Called(ctx, id, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.NoFlyZone), args.Error(1)
}

func (m *MockZoneUseCase) Delete(ctx context.Context, id int64, operator string) error {
	args := m.Called(ctx, id, operator)
	return args.Error(0)
}

func (m *MockZoneUseCase) List(ctx context.Context) ([]domain.NoFlyZone, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.NoFlyZone), args.Error(1)
}

func (m *MockZoneUseCase) ActiveZones(ctx context.Context, at time.Time) ([]domain.NoFlyZone, error) {
	args := m.Called(ctx, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.NoFlyZone), args.Error(1)
}

func (m *MockZoneUseCase) PurgeExpired(ctx context.Context, retention time.Duration) (int64, error) {
	args := m.Called(ctx, retention)
	return args.Get(0).(int64), args.Error(1)
}

func TestZoneHandler_create(t *testing.T) {
	mockService := &MockZoneUseCase{}
	handler := NewZoneHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body, _ := json.Marshal(map[string]interface{}{
		"corners": [][]float64{{13.0, 44.0}, {12.0, 43.0}},
	})
	c.Request = httptest.NewRequest("POST", "/zones", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Request.Header.Set(headerAccountEmail, "operator@example.com")
	c.Request.Header.Set(headerAccountRole, roleOperator)

	created := &domain.NoFlyZone{
		ID:            1,
		OperatorEmail: "operator@example.com",
		Region:        domain.Rect{MinLon: 12.0, MinLat: 43.0, MaxLon: 13.0, MaxLat: 44.0},
	}
	mockService.On("Create", c.Request.Context(), zones.CreateZoneInput{
		Operator: "operator@example.com",
		CornerA:  domain.Point{Lon: 13.0, Lat: 44.0},
		CornerB:  domain.Point{Lon: 12.0, Lat: 43.0},
	}).Return(created, nil)

	handler.create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	mockService.AssertExpectations(t)
}

func TestZoneHandler_create_BadCorners(t *testing.T) {
	testCases := []struct {
		name    string
		corners [][]float64
	}{
		{"one corner", [][]float64{{13.0, 44.0}}},
		{"three corners", [][]float64{{13.0, 44.0}, {12.0, 43.0}, {12.5, 43.5}}},
		{"out of range", [][]float64{{200.0, 44.0}, {12.0, 43.0}}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mockService := &MockZoneUseCase{}
			handler := NewZoneHandler(mockService)

			gin.SetMode(gin.TestMode)
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			body, _ := json.Marshal(map[string]interface{}{"corners": tc.corners})
			c.Request = httptest.NewRequest("POST", "/zones", bytes.NewReader(body))
			c.Request.Header.Set("Content-Type", "application/json")
			c.Request.Header.Set(headerAccountEmail, "operator@example.com")

			handler.create(c)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			mockService.AssertNotCalled(t, "Create")
		})
	}
}

func TestZoneHandler_create_Conflict(t *testing.T) {
	mockService := &MockZoneUseCase{}
	handler := NewZoneHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body, _ := json.Marshal(map[string]interface{}{
		"corners": [][]float64{{13.0, 44.0}, {12.0, 43.0}},
	})
	c.Request = httptest.NewRequest("POST", "/zones", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Request.Header.Set(headerAccountEmail, "operator@example.com")

	mockService.On("Create", c.Request.Context(), mock.AnythingOfType("zones.CreateZoneInput")).Return(nil, domain.ErrZoneConflict)

	handler.create(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestZoneHandler_list(t *testing.T) {
	mockService := &MockZoneUseCase{}
	handler := NewZoneHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Request = httptest.NewRequest("GET", "/zones", nil)

	mockService.On("List", c.Request.Context()).Return([]domain.NoFlyZone{{ID: 1}, {ID: 2}}, nil)

	handler.list(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
	mockService.AssertNotCalled(t, "ActiveZones")
}

func TestZoneHandler_list_ValidAt(t *testing.T) {
	mockService := &MockZoneUseCase{}
	handler := NewZoneHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	at := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	c.Request = httptest.NewRequest("GET", "/zones?validAt="+at.Format(time.RFC3339), nil)

	mockService.On("ActiveZones", c.Request.Context(), at).Return([]domain.NoFlyZone{{ID: 1}}, nil)

	handler.list(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
	mockService.AssertNotCalled(t, "List")
}

func TestZoneHandler_list_BadValidAt(t *testing.T) {
	mockService := &MockZoneUseCase{}
	handler := NewZoneHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Request = httptest.NewRequest("GET", "/zones?validAt=yesterday", nil)

	handler.list(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestZoneHandler_updateValidity(t *testing.T) {
	mockService := &MockZoneUseCase{}
	handler := NewZoneHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	start := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)
	body, _ := json.Marshal(updateZoneRequest{ValidityStart: &start, ValidityEnd: &end})

	c.Params = gin.Params{{Key: "id", Value: "4"}}
	c.Request = httptest.NewRequest("PUT", "/zones/4", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Request.Header.Set(headerAccountEmail, "operator@example.com")

	updated := &domain.NoFlyZone{ID: 4, ValidityStart: &start, ValidityEnd: &end}
	mockService.On("UpdateValidity", c.Request.Context(), int64(4), &start, &end).Return(updated, nil)

	handler.updateValidity(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestZoneHandler_updateValidity_InvalidPairing(t *testing.T) {
	mockService := &MockZoneUseCase{}
	handler := NewZoneHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	start := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	body, _ := json.Marshal(updateZoneRequest{ValidityStart: &start})

	c.Params = gin.Params{{Key: "id", Value: "4"}}
	c.Request = httptest.NewRequest("PUT", "/zones/4", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	mockService.On("UpdateValidity", c.Request.Context(), int64(4), &start, (*time.Time)(nil)).Return(nil, domain.ErrInvalidValidity)

	handler.updateValidity(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestZoneHandler_delete(t *testing.T) {
	mockService := &MockZoneUseCase{}
	handler := NewZoneHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Params = gin.Params{{Key: "id", Value: "4"}}
	c.Request = httptest.NewRequest("DELETE", "/zones/4", nil)
	c.Request.Header.Set(headerAccountEmail, "operator@example.com")

	mockService.On("Delete", c.Request.Context(), int64(4), "operator@example.com").Return(nil)

	handler.delete(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestZoneHandler_delete_NotFound(t *testing.T) {
	mockService := &MockZoneUseCase{}
	handler := NewZoneHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Params = gin.Params{{Key: "id", Value: "4"}}
	c.Request = httptest.NewRequest("DELETE", "/zones/4", nil)
	c.Request.Header.Set(headerAccountEmail, "intruder@example.com")

	mockService.On("Delete", c.Request.Context(), int64(4), "intruder@example.com").Return(domain.ErrZoneNotFound)

	handler.delete(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
