package domain

import "time"

type OrderStatus string

const (
	OrderStatusCreated         OrderStatus = "CREATED"
	OrderStatusCanceled        OrderStatus = "CANCELED"
	OrderStatusPaid            OrderStatus = "PAID"
	OrderStatusSeatConfirmed   OrderStatus = "SEAT_CONFIRMED"
	OrderStatusSecurityChecked OrderStatus = "SECURITY_CHECKED"
	OrderStatusBoarded         OrderStatus = "BOARDED"
	OrderStatusUserRefunded    OrderStatus = "USER_REFUNDED"
	OrderStatusSystemRefunded  OrderStatus = "SYSTEM_REFUNDED"
	OrderStatusChanged         OrderStatus = "CHANGED"
	OrderStatusFinished        OrderStatus = "FINISHED"
	OrderStatusInvoiced        OrderStatus = "INVOICED"
)

// allowedTransitions is the full transition table. Only the cancellation path
// is live today; a transition absent from this map is rejected.
var allowedTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusCreated: {OrderStatusCanceled},
}

func CanTransition(from, to OrderStatus) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type Order struct {
	ID            string
	UserID        int64
	Flight        string
	ClassType     string
	ContactName   string
	ContactMobile string
	Status        OrderStatus
	Passengers    []Passenger
	Events        []OrderEvent
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type Passenger struct {
	ID                   int64
	Name                 string
	AgeType              string
	Mobile               string
	IdentificationNumber string
	InsuranceID          string
	InsuranceName        string
	InsurancePrice       int64
	Price                int64
}

// OrderEvent is one entry of the append-only status history.
type OrderEvent struct {
	ID        int64
	Status    OrderStatus
	CreatedAt time.Time
}
