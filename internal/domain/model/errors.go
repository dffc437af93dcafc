package model

import "errors"

// Sentinel errors shared by the domain, application and persistence layers.
var (
	ErrPlayerNotFound    = errors.New("player not found")
	ErrDebtNotFound      = errors.New("debt not found")
	ErrDebtPaidOff       = errors.New("debt is already paid off")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrOptimisticLock    = errors.New("optimistic locking conflict")
)
