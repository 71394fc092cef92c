package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Domenick1991/flyhigh/internal/inventory"
	"github.com/Domenick1991/flyhigh/internal/service/seats"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockSeatUseCase is a mock implementation of seats.SeatUseCase
type MockSeatUseCase struct {
	mock.Mock
}

func (m *MockSeatUseCase) Reserve(ctx context.Context, req inventory.ReserveSeatRequest) (bool, error) {
	args := m.Called(ctx, req)
	return args.Bool(0), args.Error(1)
}

func (m *MockSeatUseCase) Release(ctx context.Context, req inventory.ReleaseSeatRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockSeatUseCase) GetFlight(ctx context.Context, flight string) (*inventory.FlightDetail, error) {
	args := m.Called(ctx, flight)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.FlightDetail), args.Error(1)
}

func (m *MockSeatUseCase) UpsertFlight(ctx context.Context, detail *inventory.FlightDetail) error {
	args := m.Called(ctx, detail)
	return args.Error(0)
}

func TestInventoryHandler_reserve(t *testing.T) {
	mockService := &MockSeatUseCase{}
	handler := NewInventoryHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	req := inventory.ReserveSeatRequest{Flight: "MU2151", ClassType: "FIRST", Number: 1}
	body, _ := json.Marshal(req)
	c.Request = httptest.NewRequest("POST", "/seats/reserve", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	mockService.On("Reserve", c.Request.Context(), req).Return(true, nil)

	handler.reserve(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestInventoryHandler_reserve_refused(t *testing.T) {
	mockService := &MockSeatUseCase{}
	handler := NewInventoryHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	req := inventory.ReserveSeatRequest{Flight: "MU2151", ClassType: "FIRST", Number: 5}
	body, _ := json.Marshal(req)
	c.Request = httptest.NewRequest("POST", "/seats/reserve", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	mockService.On("Reserve", c.Request.Context(), req).Return(false, nil)

	handler.reserve(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestInventoryHandler_release(t *testing.T) {
	mockService := &MockSeatUseCase{}
	handler := NewInventoryHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	req := inventory.ReleaseSeatRequest{Flight: "MU2151", ClassType: "FIRST", Number: 1}
	body, _ := json.Marshal(req)
	c.Request = httptest.NewRequest("POST", "/seats/release", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	mockService.On("Release", c.Request.Context(), req).Return(nil)

	handler.release(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestInventoryHandler_release_unknownFlight(t *testing.T) {
	mockService := &MockSeatUseCase{}
	handler := NewInventoryHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	req := inventory.ReleaseSeatRequest{Flight: "XX0000", ClassType: "FIRST", Number: 1}
	body, _ := json.Marshal(req)
	c.Request = httptest.NewRequest("POST", "/seats/release", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	mockService.On("Release", c.Request.Context(), req).Return(seats.ErrFlightNotFound)

	handler.release(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestInventoryHandler_getFlight(t *testing.T) {
	mockService := &MockSeatUseCase{}
	handler := NewInventoryHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Params = gin.Params{{Key: "flight", Value: "MU2151"}}
	c.Request = httptest.NewRequest("GET", "/flights/MU2151", nil)

	detail := &inventory.FlightDetail{
		Flight:      "MU2151",
		Origin:      "SHA",
		Destination: "PEK",
		Cabins:      []inventory.CabinDetail{{ClassType: "FIRST", AvailableSeats: 3, PriceCents: 200000}},
	}
	mockService.On("GetFlight", c.Request.Context(), "MU2151").Return(detail, nil)

	handler.getFlight(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response inventory.FlightDetail
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "MU2151", response.Flight)
	assert.Len(t, response.Cabins, 1)
}
