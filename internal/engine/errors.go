package engine

import (
	"errors"
	"fmt"
)

var (
	ErrTaskNotFound      = errors.New("task not found")
	ErrTaskNotPending    = errors.New("task is not pending")
	ErrCharacterNotFound = errors.New("character not found")
	ErrCharacterOwned    = errors.New("character already owned")
	ErrCharacterNotOwned = errors.New("character not owned")
	ErrSchedulerStarted  = errors.New("scheduler already started")
	ErrSchedulerStopped  = errors.New("scheduler stopped")

	// ErrInvalidInput wraps every validation failure on user-supplied fields.
	ErrInvalidInput = errors.New("invalid input")
)

// InsufficientCoinsError is returned when a purchase costs more than the balance.
type InsufficientCoinsError struct {
	Price   int
	Balance int
}

func (e InsufficientCoinsError) Error() string {
	return fmt.Sprintf("not enough coins: costs %d, have %d", e.Price, e.Balance)
}
