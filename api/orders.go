package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/Domenick1991/flyhigh/internal/domain"
	"github.com/Domenick1991/flyhigh/internal/inventory"
	"github.com/Domenick1991/flyhigh/internal/service/order"
	"github.com/gin-gonic/gin"
)

// Error codes of the order API. Validation and business-rule errors carry a
// structured {code, message} body; not-found and server errors answer with a
// plain-text message. The mix is kept for compatibility with existing
// clients of the original service.
const (
	codeInvalidParameter      = "10001"
	codeOrderAlreadyCancelled = "10008"
	codeTransitionNotAllowed  = "10009"
)

const (
	msgNoMoreSeats       = "机票已售罄"
	msgInvalidIdentityID = "身份证号码格式有误"
	msgEmptyPassengers   = "乘机人列表不能为空"
	msgOrderNotFound     = "订单未找到"
	msgFlightNotFound    = "航班未找到"
	msgOrderCancelled    = "订单已取消"
	msgCancelNotAllowed  = "订单状态不允许取消"
	msgServiceError      = "服务异常，请稍后再试"
	msgServerError       = "服务器错误"
)

type OrderHandler struct {
	service order.OrderUseCase
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type orderResponse struct {
	ID             string              `json:"id"`
	UserID         int64               `json:"userId"`
	Flight         string              `json:"flight"`
	ClassType      string              `json:"classType"`
	ContactName    string              `json:"contactName"`
	ContactMobile  string              `json:"contactMobile"`
	Status         string              `json:"status"`
	PassengerList  []passengerResponse `json:"passengerList"`
	OrderEventList []eventResponse     `json:"orderEventList"`
}

type passengerResponse struct {
	Name                 string `json:"name"`
	AgeType              string `json:"ageType"`
	Mobile               string `json:"mobile"`
	IdentificationNumber string `json:"identificationNumber"`
	InsuranceID          string `json:"insuranceId"`
	InsuranceName        string `json:"insuranceName"`
	InsurancePrice       int64  `json:"insurancePrice"`
	Price                int64  `json:"price"`
}

type eventResponse struct {
	Status    string `json:"status"`
	CreatedAt string `json:"createdAt"`
}

func NewOrderHandler(service order.OrderUseCase) *OrderHandler {
	return &OrderHandler{service: service}
}

func (h *OrderHandler) Register(router *gin.RouterGroup) {
	router.POST("/orders", h.create)
	router.GET("/orders", h.list)
	router.POST("/orders/:orderId/cancellation", h.cancel)
	router.GET("/flights/:flight", h.flightDetail)
}

func (h *OrderHandler) create(c *gin.Context) {
	var req order.CreateOrderInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody{Code: codeInvalidParameter, Message: err.Error()})
		return
	}

	created, err := h.service.CreateOrder(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidIdentification):
			c.JSON(http.StatusBadRequest, errorBody{Code: codeInvalidParameter, Message: msgInvalidIdentityID})
		case errors.Is(err, domain.ErrNoPassengers):
			c.JSON(http.StatusBadRequest, errorBody{Code: codeInvalidParameter, Message: msgEmptyPassengers})
		case errors.Is(err, domain.ErrNoSeatsAvailable):
			c.String(http.StatusNotFound, msgNoMoreSeats)
		default:
			c.String(http.StatusInternalServerError, msgServiceError)
		}
		return
	}

	c.JSON(http.StatusCreated, toOrderResponse(created))
}

func (h *OrderHandler) list(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Query("userId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorBody{Code: codeInvalidParameter, Message: "invalid userId"})
		return
	}

	orders, err := h.service.GetOrders(c.Request.Context(), userID)
	if err != nil {
		c.String(http.StatusInternalServerError, msgServiceError)
		return
	}

	response := make([]orderResponse, 0, len(orders))
	for i := range orders {
		response = append(response, toOrderResponse(&orders[i]))
	}
	c.JSON(http.StatusOK, response)
}

func (h *OrderHandler) cancel(c *gin.Context) {
	orderID := c.Param("orderId")

	cancelled, err := h.service.CancelOrder(c.Request.Context(), orderID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrOrderNotFound):
			c.String(http.StatusNotFound, msgOrderNotFound)
		case errors.Is(err, domain.ErrOrderAlreadyCancelled):
			c.JSON(http.StatusConflict, errorBody{Code: codeOrderAlreadyCancelled, Message: msgOrderCancelled})
		case errors.Is(err, domain.ErrTransitionNotAllowed):
			c.JSON(http.StatusConflict, errorBody{Code: codeTransitionNotAllowed, Message: msgCancelNotAllowed})
		default:
			c.String(http.StatusInternalServerError, msgServerError)
		}
		return
	}

	c.JSON(http.StatusOK, toOrderResponse(cancelled))
}

func (h *OrderHandler) flightDetail(c *gin.Context) {
	detail, err := h.service.GetFlightDetail(c.Request.Context(), c.Param("flight"))
	if err != nil {
		var remote *inventory.RemoteError
		if errors.As(err, &remote) && remote.StatusCode == http.StatusNotFound {
			c.String(http.StatusNotFound, msgFlightNotFound)
			return
		}
		c.String(http.StatusInternalServerError, msgServiceError)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func toOrderResponse(o *domain.Order) orderResponse {
	resp := orderResponse{
		ID:             o.ID,
		UserID:         o.UserID,
		Flight:         o.Flight,
		ClassType:      o.ClassType,
		ContactName:    o.ContactName,
		ContactMobile:  o.ContactMobile,
		Status:         string(o.Status),
		PassengerList:  make([]passengerResponse, 0, len(o.Passengers)),
		OrderEventList: make([]eventResponse, 0, len(o.Events)),
	}
	for _, p := range o.Passengers {
		resp.PassengerList = append(resp.PassengerList, passengerResponse{
			Name:                 p.Name,
			AgeType:              p.AgeType,
			Mobile:               p.Mobile,
			IdentificationNumber: p.IdentificationNumber,
			InsuranceID:          p.InsuranceID,
			InsuranceName:        p.InsuranceName,
			InsurancePrice:       p.InsurancePrice,
			Price:                p.Price,
		})
	}
	for _, e := range o.Events {
		resp.OrderEventList = append(resp.OrderEventList, eventResponse{
			Status:    string(e.Status),
			CreatedAt: e.CreatedAt.Format(time.RFC3339),
		})
	}
	return resp
}
