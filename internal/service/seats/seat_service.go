package seats

import (
	"context"
	"errors"

	"github.com/Domenick1991/flyhigh/internal/cache"
	"github.com/Domenick1991/flyhigh/internal/inventory"
)

var (
	ErrFlightNotFound = errors.New("flight not found")
	ErrInvalidNumber  = errors.New("seat number must be positive")
)

type SeatUseCase interface {
	Reserve(ctx context.Context, req inventory.ReserveSeatRequest) (bool, error)
	Release(ctx context.Context, req inventory.ReleaseSeatRequest) error
	GetFlight(ctx context.Context, flight string) (*inventory.FlightDetail, error)
	UpsertFlight(ctx context.Context, detail *inventory.FlightDetail) error
}

type SeatStore interface {
	Reserve(ctx context.Context, flight, classType string, number int) (cache.ReserveResult, error)
	Release(ctx context.Context, flight, classType string, number int) (bool, error)
	Available(ctx context.Context, flight, classType string) (int, error)
	SetAvailable(ctx context.Context, flight, classType string, number int) error
	GetDetail(ctx context.Context, flight string) (*inventory.FlightDetail, error)
	SetDetail(ctx context.Context, detail *inventory.FlightDetail) error
}

type SeatService struct {
	store SeatStore
}

func NewSeatService(store SeatStore) *SeatService {
	return &SeatService{store: store}
}

// Reserve returns false on a capacity refusal. An unknown flight/class is
// also a refusal rather than an error: the caller cannot tell them apart and
// should not book either way.
func (s *SeatService) Reserve(ctx context.Context, req inventory.ReserveSeatRequest) (bool, error) {
	if req.Number <= 0 {
		return false, ErrInvalidNumber
	}

	result, err := s.store.Reserve(ctx, req.Flight, req.ClassType, req.Number)
	if err != nil {
		return false, err
	}
	return result == cache.ReserveOK, nil
}

func (s *SeatService) Release(ctx context.Context, req inventory.ReleaseSeatRequest) error {
	if req.Number <= 0 {
		return ErrInvalidNumber
	}

	ok, err := s.store.Release(ctx, req.Flight, req.ClassType, req.Number)
	if err != nil {
		return err
	}
	if !ok {
		return ErrFlightNotFound
	}
	return nil
}

// GetFlight returns the stored detail with live per-cabin availability.
func (s *SeatService) GetFlight(ctx context.Context, flight string) (*inventory.FlightDetail, error) {
	detail, err := s.store.GetDetail(ctx, flight)
	if err != nil {
		return nil, err
	}
	if detail == nil {
		return nil, ErrFlightNotFound
	}

	for i := range detail.Cabins {
		available, err := s.store.Available(ctx, flight, detail.Cabins[i].ClassType)
		if err != nil {
			return nil, err
		}
		detail.Cabins[i].AvailableSeats = available
	}
	return detail, nil
}

func (s *SeatService) UpsertFlight(ctx context.Context, detail *inventory.FlightDetail) error {
	if err := s.store.SetDetail(ctx, detail); err != nil {
		return err
	}
	for _, cabin := range detail.Cabins {
		if err := s.store.SetAvailable(ctx, detail.Flight, cabin.ClassType, cabin.AvailableSeats); err != nil {
			return err
		}
	}
	return nil
}

var _ SeatUseCase = (*SeatService)(nil)
