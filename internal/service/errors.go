package service

import (
	"errors"
	"fmt"
)

var (
	ErrContractNotFound   = errors.New("no active contracts found")
	ErrUnpaidJobsNotFound = errors.New("no active contracts or unpaid jobs found")
	ErrJobNotFound        = errors.New("job not found for this client")
	ErrReceiptNotFound    = errors.New("no paid job found for this profile")
	ErrReportEmpty        = errors.New("no results for the given time range")
	ErrSelfDepositOnly    = errors.New("deposits are allowed to own account only")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrInvalidInput       = errors.New("invalid input")
	ErrTransactionFailed  = errors.New("transaction failed")
)

// InsufficientBalanceError reports a payment attempt the client cannot cover.
type InsufficientBalanceError struct {
	CurrentBalance float64
	MinimumBalance float64
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("not enough balance: have %.2f, need %.2f", e.CurrentBalance, e.MinimumBalance)
}

// DepositCapError reports a deposit above 25% of the client's outstanding work.
type DepositCapError struct {
	TotalOutstanding float64
	MaxDeposit       float64
	Amount           float64
}

func (e *DepositCapError) Error() string {
	return fmt.Sprintf("deposit %.2f exceeds cap %.2f (outstanding %.2f)", e.Amount, e.MaxDeposit, e.TotalOutstanding)
}
