package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/gigpay/internal/model"
)

type creditCall struct {
	profileID int64
	amount    float64
}

type mockBalanceStore struct {
	outstanding    float64
	outstandingErr error
	creditErr      error
	credits        []creditCall
}

func (m *mockBalanceStore) OutstandingForClient(ctx context.Context, clientID int64) (float64, error) {
	return m.outstanding, m.outstandingErr
}

func (m *mockBalanceStore) CreditBalance(ctx context.Context, profileID int64, amount float64) error {
	m.credits = append(m.credits, creditCall{profileID, amount})
	return m.creditErr
}

func TestBalanceServiceDeposit(t *testing.T) {
	client := model.Principal{ID: 2, Type: model.ProfileTypeClient}

	t.Run("deposit at the cap succeeds", func(t *testing.T) {
		store := &mockBalanceStore{outstanding: 400}
		svc := NewBalanceService(store)

		require.NoError(t, svc.Deposit(context.Background(), client, 2, 100))
		require.Len(t, store.credits, 1)
		assert.Equal(t, creditCall{profileID: 2, amount: 100}, store.credits[0])
	})

	t.Run("one over the cap fails with the cap figures", func(t *testing.T) {
		store := &mockBalanceStore{outstanding: 400}
		svc := NewBalanceService(store)

		err := svc.Deposit(context.Background(), client, 2, 101)

		var capErr *DepositCapError
		require.ErrorAs(t, err, &capErr)
		assert.Equal(t, 400.0, capErr.TotalOutstanding)
		assert.Equal(t, 100.0, capErr.MaxDeposit)
		assert.Equal(t, 101.0, capErr.Amount)
		assert.Empty(t, store.credits)
	})

	t.Run("deposits to other accounts are forbidden", func(t *testing.T) {
		store := &mockBalanceStore{outstanding: 400}
		svc := NewBalanceService(store)

		err := svc.Deposit(context.Background(), client, 3, 50)
		assert.ErrorIs(t, err, ErrSelfDepositOnly)
		assert.Empty(t, store.credits)
	})

	t.Run("contractor callers are forbidden", func(t *testing.T) {
		svc := NewBalanceService(&mockBalanceStore{outstanding: 400})

		err := svc.Deposit(context.Background(), model.Principal{ID: 6, Type: model.ProfileTypeContractor}, 6, 50)
		assert.ErrorIs(t, err, ErrPermissionDenied)
	})

	t.Run("non-positive amounts fail closed", func(t *testing.T) {
		store := &mockBalanceStore{outstanding: 400}
		svc := NewBalanceService(store)

		assert.ErrorIs(t, svc.Deposit(context.Background(), client, 2, 0), ErrInvalidInput)
		assert.ErrorIs(t, svc.Deposit(context.Background(), client, 2, -10), ErrInvalidInput)
		assert.Empty(t, store.credits)
	})

	t.Run("no outstanding work means no active contracts", func(t *testing.T) {
		store := &mockBalanceStore{outstanding: 0}
		svc := NewBalanceService(store)

		err := svc.Deposit(context.Background(), client, 2, 10)
		assert.ErrorIs(t, err, ErrContractNotFound)
		assert.Empty(t, store.credits)
	})
}
