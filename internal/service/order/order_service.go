package order

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/Domenick1991/flyhigh/internal/domain"
	"github.com/Domenick1991/flyhigh/internal/inventory"
	"github.com/Domenick1991/flyhigh/internal/kafka"
	"github.com/Domenick1991/flyhigh/internal/repository"
)

type OrderUseCase interface {
	CreateOrder(ctx context.Context, input CreateOrderInput) (*domain.Order, error)
	CancelOrder(ctx context.Context, orderID string) (*domain.Order, error)
	GetOrders(ctx context.Context, userID int64) ([]domain.Order, error)
	GetFlightDetail(ctx context.Context, flight string) (*inventory.FlightDetail, error)
}

type Cache interface {
	GetFlightDetail(ctx context.Context, flight string) (*inventory.FlightDetail, error)
	SetFlightDetail(ctx context.Context, detail *inventory.FlightDetail) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type OrderService struct {
	orders             repository.OrderRepository
	seats              inventory.SeatManagerClient
	cache              Cache
	producer           Producer
	orderEventsTopic   string
	notificationsTopic string
}

type CreateOrderInput struct {
	UserID        int64            `json:"userId"`
	Flight        string           `json:"flight"`
	ClassType     string           `json:"classType"`
	ContactName   string           `json:"contactName"`
	ContactMobile string           `json:"contactMobile"`
	Passengers    []PassengerInput `json:"passengerList"`
}

type PassengerInput struct {
	Name                 string `json:"name"`
	AgeType              string `json:"ageType"`
	Mobile               string `json:"mobile"`
	IdentificationNumber string `json:"identificationNumber"`
	InsuranceID          string `json:"insuranceId"`
	InsuranceName        string `json:"insuranceName"`
	InsurancePrice       int64  `json:"insurancePrice"`
	Price                int64  `json:"price"`
}

type OrderServiceOption func(*OrderService)

func WithNotificationsTopic(topic string) OrderServiceOption {
	return func(s *OrderService) {
		s.notificationsTopic = topic
	}
}

func NewOrderService(
	orders repository.OrderRepository,
	seats inventory.SeatManagerClient,
	cache Cache,
	producer Producer,
	orderEventsTopic string,
	opts ...OrderServiceOption,
) *OrderService {
	service := &OrderService{
		orders:           orders,
		seats:            seats,
		cache:            cache,
		producer:         producer,
		orderEventsTopic: orderEventsTopic,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// CreateOrder reserves seats at the seat manager and then persists the order.
// The two steps are not atomic: if the insert fails after a successful
// reservation, the seats stay reserved with no order behind them.
func (s *OrderService) CreateOrder(ctx context.Context, input CreateOrderInput) (*domain.Order, error) {
	if err := validateCreateOrder(input); err != nil {
		return nil, err
	}

	reserved, err := s.seats.ReserveSeat(ctx, inventory.ReserveSeatRequest{
		Flight:    input.Flight,
		ClassType: input.ClassType,
		Number:    len(input.Passengers),
	})
	if err != nil {
		return nil, err
	}
	if !reserved {
		return nil, domain.ErrNoSeatsAvailable
	}

	order := &domain.Order{
		UserID:        input.UserID,
		Flight:        input.Flight,
		ClassType:     input.ClassType,
		ContactName:   input.ContactName,
		ContactMobile: input.ContactMobile,
		Status:        domain.OrderStatusCreated,
		Events:        []domain.OrderEvent{{Status: domain.OrderStatusCreated}},
	}
	for _, p := range input.Passengers {
		order.Passengers = append(order.Passengers, domain.Passenger{
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

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}

	if err := s.publish(ctx, order); err != nil {
		log.Printf("WARNING: failed to publish order_created event for order %s: %v", order.ID, err)
	}
	return order, nil
}

// CancelOrder releases the reserved seats first and only then persists the
// status change, so a failed release leaves the order untouched.
func (s *OrderService) CancelOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	current, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if current.Status == domain.OrderStatusCanceled {
		return nil, domain.ErrOrderAlreadyCancelled
	}
	if !domain.CanTransition(current.Status, domain.OrderStatusCanceled) {
		return nil, domain.ErrTransitionNotAllowed
	}

	if err := s.seats.ReleaseSeat(ctx, inventory.ReleaseSeatRequest{
		Flight:    current.Flight,
		ClassType: current.ClassType,
		Number:    len(current.Passengers),
	}); err != nil {
		return nil, err
	}

	updated, err := s.orders.UpdateStatus(ctx, orderID, current.Status, domain.OrderStatusCanceled)
	if err != nil {
		return nil, err
	}

	if err := s.publish(ctx, updated); err != nil {
		log.Printf("WARNING: failed to publish order_cancelled event for order %s: %v", updated.ID, err)
	}
	return updated, nil
}

func (s *OrderService) GetOrders(ctx context.Context, userID int64) ([]domain.Order, error) {
	return s.orders.ListByUser(ctx, userID)
}

func (s *OrderService) GetFlightDetail(ctx context.Context, flight string) (*inventory.FlightDetail, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetFlightDetail(ctx, flight); err == nil && cached != nil {
			return cached, nil
		}
	}

	detail, err := s.seats.GetFlightDetail(ctx, flight)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.SetFlightDetail(ctx, detail)
	}
	return detail, nil
}

func validateCreateOrder(input CreateOrderInput) error {
	if len(input.Passengers) == 0 {
		return domain.ErrNoPassengers
	}
	for _, p := range input.Passengers {
		if !domain.ValidIdentificationNumber(p.IdentificationNumber) {
			return domain.ErrInvalidIdentification
		}
	}
	return nil
}

func (s *OrderService) publish(ctx context.Context, order *domain.Order) error {
	if s.producer == nil || s.orderEventsTopic == "" {
		return nil
	}
	message := kafka.OrderMessage{
		OrderID:       order.ID,
		UserID:        order.UserID,
		Flight:        order.Flight,
		ClassType:     order.ClassType,
		Status:        string(order.Status),
		ContactName:   order.ContactName,
		ContactMobile: order.ContactMobile,
		OccurredAt:    time.Now(),
	}
	for _, p := range order.Passengers {
		message.Passengers = append(message.Passengers, kafka.PassengerMessage{
			Name:                 p.Name,
			AgeType:              p.AgeType,
			Mobile:               p.Mobile,
			IdentificationNumber: p.IdentificationNumber,
			Price:                p.Price,
		})
	}
	eventsErr := s.producer.Publish(ctx, s.orderEventsTopic, order.ID, message)
	var notifyErr error
	if s.notificationsTopic != "" {
		notifyErr = s.producer.Publish(ctx, s.notificationsTopic, order.ID, message)
	}
	return errors.Join(eventsErr, notifyErr)
}

var _ OrderUseCase = (*OrderService)(nil)
