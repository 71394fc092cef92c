package domain

import "errors"

var (
	ErrInvalidIdentification = errors.New("invalid identification number")
	ErrNoPassengers          = errors.New("passenger list is empty")
	ErrNoSeatsAvailable      = errors.New("no seats available")
	ErrOrderNotFound         = errors.New("order not found")
	ErrOrderAlreadyCancelled = errors.New("order already cancelled")
	ErrTransitionNotAllowed  = errors.New("status transition not allowed")
)
