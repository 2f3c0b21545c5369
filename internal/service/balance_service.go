package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/nurpe/gigpay/internal/model"
)

// depositMaxShare bounds a single deposit to 25% of the client's outstanding
// unpaid work. The ratio is contractual; fixtures assert exact thresholds.
const depositMaxShare = 0.25

type BalanceStore interface {
	OutstandingForClient(ctx context.Context, clientID int64) (float64, error)
	CreditBalance(ctx context.Context, profileID int64, amount float64) error
}

type BalanceService struct {
	store BalanceStore
}

func NewBalanceService(store BalanceStore) *BalanceService {
	return &BalanceService{store: store}
}

// Deposit credits the caller's own balance, capped at depositMaxShare of the
// sum of unpaid job prices across the caller's in_progress contracts.
// Non-positive amounts fail closed.
func (s *BalanceService) Deposit(ctx context.Context, caller model.Principal, targetID int64, amount float64) error {
	if !caller.IsClient() {
		return ErrPermissionDenied
	}
	if caller.ID != targetID {
		return ErrSelfDepositOnly
	}
	if amount <= 0 {
		return fmt.Errorf("%w: deposit amount must be positive", ErrInvalidInput)
	}

	outstanding, err := s.store.OutstandingForClient(ctx, targetID)
	if err != nil {
		return err
	}
	if outstanding <= 0 {
		return ErrContractNotFound
	}

	maxDeposit := outstanding * depositMaxShare
	if amount > maxDeposit {
		return &DepositCapError{
			TotalOutstanding: outstanding,
			MaxDeposit:       maxDeposit,
			Amount:           amount,
		}
	}

	if err := s.store.CreditBalance(ctx, targetID, amount); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrContractNotFound
		}
		return fmt.Errorf("%w: %v", ErrTransactionFailed, err)
	}
	return nil
}
