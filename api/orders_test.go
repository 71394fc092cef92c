package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Domenick1991/flyhigh/internal/domain"
	"github.com/Domenick1991/flyhigh/internal/inventory"
	"github.com/Domenick1991/flyhigh/internal/service/order"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockOrderUseCase is a mock implementation of order.OrderUseCase
type MockOrderUseCase struct {
	mock.Mock
}

func (m *MockOrderUseCase) CreateOrder(ctx context.Context, input order.CreateOrderInput) (*domain.Order, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderUseCase) CancelOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderUseCase) GetOrders(ctx context.Context, userID int64) ([]domain.Order, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Order), args.Error(1)
}

func (m *MockOrderUseCase) GetFlightDetail(ctx context.Context, flight string) (*inventory.FlightDetail, error) {
	args := m.Called(ctx, flight)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.FlightDetail), args.Error(1)
}

func testOrder() *domain.Order {
	return &domain.Order{
		ID:            "order-1",
		UserID:        12,
		Flight:        "MU2151",
		ClassType:     "FIRST",
		ContactName:   "张三",
		ContactMobile: "13888888888",
		Status:        domain.OrderStatusCreated,
		Passengers: []domain.Passenger{
			{Name: "李四", AgeType: "老人", Mobile: "13866668888", IdentificationNumber: "610502200001015432", InsuranceID: "666", InsuranceName: "一路顺风", InsurancePrice: 20, Price: 200},
		},
		Events: []domain.OrderEvent{{Status: domain.OrderStatusCreated}},
	}
}

func createRequestBody() []byte {
	body, _ := json.Marshal(order.CreateOrderInput{
		UserID:        12,
		Flight:        "MU2151",
		ClassType:     "FIRST",
		ContactName:   "张三",
		ContactMobile: "13888888888",
		Passengers: []order.PassengerInput{
			{Name: "李四", AgeType: "老人", Mobile: "13866668888", IdentificationNumber: "610502200001015432", InsuranceID: "666", InsuranceName: "一路顺风", InsurancePrice: 20, Price: 200},
		},
	})
	return body
}

func TestOrderHandler_create(t *testing.T) {
	mockService := &MockOrderUseCase{}
	handler := NewOrderHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Request = httptest.NewRequest("POST", "/orders", bytes.NewReader(createRequestBody()))
	c.Request.Header.Set("Content-Type", "application/json")

	mockService.On("CreateOrder", c.Request.Context(), mock.AnythingOfType("order.CreateOrderInput")).
		Return(testOrder(), nil)

	handler.create(c)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response orderResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "MU2151", response.Flight)
	assert.Equal(t, "FIRST", response.ClassType)
	assert.Equal(t, "张三", response.ContactName)
	assert.Equal(t, "13888888888", response.ContactMobile)
	assert.Equal(t, int64(12), response.UserID)
	assert.Len(t, response.PassengerList, 1)
	assert.Equal(t, "李四", response.PassengerList[0].Name)
	assert.Equal(t, "一路顺风", response.PassengerList[0].InsuranceName)
	assert.Len(t, response.OrderEventList, 1)
	assert.Equal(t, "CREATED", response.OrderEventList[0].Status)

	mockService.AssertExpectations(t)
}

func TestOrderHandler_create_noMoreSeats(t *testing.T) {
	mockService := &MockOrderUseCase{}
	handler := NewOrderHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Request = httptest.NewRequest("POST", "/orders", bytes.NewReader(createRequestBody()))
	c.Request.Header.Set("Content-Type", "application/json")

	mockService.On("CreateOrder", c.Request.Context(), mock.Anything).
		Return(nil, domain.ErrNoSeatsAvailable)

	handler.create(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "机票已售罄", w.Body.String())
}

func TestOrderHandler_create_invalidIdentification(t *testing.T) {
	mockService := &MockOrderUseCase{}
	handler := NewOrderHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Request = httptest.NewRequest("POST", "/orders", bytes.NewReader(createRequestBody()))
	c.Request.Header.Set("Content-Type", "application/json")

	mockService.On("CreateOrder", c.Request.Context(), mock.Anything).
		Return(nil, domain.ErrInvalidIdentification)

	handler.create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body errorBody
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "10001", body.Code)
	assert.Equal(t, "身份证号码格式有误", body.Message)
}

func TestOrderHandler_create_serviceError(t *testing.T) {
	mockService := &MockOrderUseCase{}
	handler := NewOrderHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Request = httptest.NewRequest("POST", "/orders", bytes.NewReader(createRequestBody()))
	c.Request.Header.Set("Content-Type", "application/json")

	mockService.On("CreateOrder", c.Request.Context(), mock.Anything).
		Return(nil, &inventory.RemoteError{Op: "reserve", StatusCode: 502})

	handler.create(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "服务异常，请稍后再试", w.Body.String())
}

func TestOrderHandler_list(t *testing.T) {
	mockService := &MockOrderUseCase{}
	handler := NewOrderHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/orders?userId=12", nil)

	mockService.On("GetOrders", c.Request.Context(), int64(12)).Return([]domain.Order{*testOrder()}, nil)

	handler.list(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response []orderResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Len(t, response, 1)
	assert.Equal(t, "order-1", response[0].ID)

	mockService.AssertExpectations(t)
}

func TestOrderHandler_cancel(t *testing.T) {
	mockService := &MockOrderUseCase{}
	handler := NewOrderHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Params = gin.Params{{Key: "orderId", Value: "order-1"}}
	c.Request = httptest.NewRequest("POST", "/orders/order-1/cancellation", nil)

	cancelled := testOrder()
	cancelled.Status = domain.OrderStatusCanceled
	cancelled.Events = append(cancelled.Events, domain.OrderEvent{Status: domain.OrderStatusCanceled})

	mockService.On("CancelOrder", c.Request.Context(), "order-1").Return(cancelled, nil)

	handler.cancel(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response orderResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "CANCELED", response.Status)
	assert.Len(t, response.OrderEventList, 2)
	assert.Equal(t, "CREATED", response.OrderEventList[0].Status)
	assert.Equal(t, "CANCELED", response.OrderEventList[1].Status)

	mockService.AssertExpectations(t)
}

func TestOrderHandler_cancel_notFound(t *testing.T) {
	mockService := &MockOrderUseCase{}
	handler := NewOrderHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Params = gin.Params{{Key: "orderId", Value: "missing"}}
	c.Request = httptest.NewRequest("POST", "/orders/missing/cancellation", nil)

	mockService.On("CancelOrder", c.Request.Context(), "missing").Return(nil, domain.ErrOrderNotFound)

	handler.cancel(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "订单未找到", w.Body.String())
}

func TestOrderHandler_cancel_alreadyCancelled(t *testing.T) {
	mockService := &MockOrderUseCase{}
	handler := NewOrderHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Params = gin.Params{{Key: "orderId", Value: "order-1"}}
	c.Request = httptest.NewRequest("POST", "/orders/order-1/cancellation", nil)

	mockService.On("CancelOrder", c.Request.Context(), "order-1").Return(nil, domain.ErrOrderAlreadyCancelled)

	handler.cancel(c)

	assert.Equal(t, http.StatusConflict, w.Code)

	var body errorBody
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "10008", body.Code)
	assert.Equal(t, "订单已取消", body.Message)
}

func TestOrderHandler_cancel_serverError(t *testing.T) {
	mockService := &MockOrderUseCase{}
	handler := NewOrderHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Params = gin.Params{{Key: "orderId", Value: "order-1"}}
	c.Request = httptest.NewRequest("POST", "/orders/order-1/cancellation", nil)

	mockService.On("CancelOrder", c.Request.Context(), "order-1").
		Return(nil, &inventory.RemoteError{Op: "release", StatusCode: 500})

	handler.cancel(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "服务器错误", w.Body.String())
}

func TestOrderHandler_flightDetail(t *testing.T) {
	mockService := &MockOrderUseCase{}
	handler := NewOrderHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Params = gin.Params{{Key: "flight", Value: "MU2151"}}
	c.Request = httptest.NewRequest("GET", "/flights/MU2151", nil)

	detail := &inventory.FlightDetail{Flight: "MU2151", Origin: "SHA", Destination: "PEK"}
	mockService.On("GetFlightDetail", c.Request.Context(), "MU2151").Return(detail, nil)

	handler.flightDetail(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response inventory.FlightDetail
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "MU2151", response.Flight)
}
