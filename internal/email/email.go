package email

import (
	"context"
	"fmt"

	"github.com/Domenick1991/flyhigh/internal/kafka"
)

type Sender struct{}

func NewSender() *Sender {
	return &Sender{}
}

func (s *Sender) Send(ctx context.Context, event kafka.OrderMessage) error {
	fmt.Printf("notify %s (%s) that order %s for flight %s is %s\n",
		event.ContactName, event.ContactMobile, event.OrderID, event.Flight, event.Status)
	return nil
}
