package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/nurpe/gigpay/internal/model"
	"github.com/nurpe/gigpay/internal/repository"
)

type settleCall struct {
	jobID        int64
	clientID     int64
	contractorID int64
	price        float64
	paidAt       time.Time
}

type mockJobStore struct {
	unpaid     []model.Job
	unpaidErr  error
	payable    *model.PayableJob
	payableErr error
	settleErr  error
	settles    []settleCall
	receipt    *model.PaymentReceipt
	receiptErr error
}

func (m *mockJobStore) ListUnpaid(ctx context.Context, profileID int64) ([]model.Job, error) {
	return m.unpaid, m.unpaidErr
}

func (m *mockJobStore) FindPayable(ctx context.Context, jobID, clientID int64) (*model.PayableJob, error) {
	if m.payableErr != nil {
		return nil, m.payableErr
	}
	return m.payable, nil
}

func (m *mockJobStore) SettlePayment(ctx context.Context, jobID, clientID, contractorID int64, price float64, paidAt time.Time) error {
	m.settles = append(m.settles, settleCall{jobID, clientID, contractorID, price, paidAt})
	return m.settleErr
}

func (m *mockJobStore) FindReceipt(ctx context.Context, jobID, profileID int64) (*model.PaymentReceipt, error) {
	if m.receiptErr != nil {
		return nil, m.receiptErr
	}
	return m.receipt, nil
}

type mockReceiptGenerator struct {
	content []byte
	err     error
}

func (m *mockReceiptGenerator) Generate(receipt model.PaymentReceipt) ([]byte, error) {
	return m.content, m.err
}

func TestJobServiceListUnpaid(t *testing.T) {
	caller := model.Principal{ID: 2, Type: model.ProfileTypeClient}

	t.Run("returns unpaid jobs", func(t *testing.T) {
		store := &mockJobStore{unpaid: []model.Job{{ID: 3}, {ID: 4}}}
		svc := NewJobService(store, &mockReceiptGenerator{})

		jobs, err := svc.ListUnpaid(context.Background(), caller)
		require.NoError(t, err)
		assert.Len(t, jobs, 2)
	})

	t.Run("empty set is not found", func(t *testing.T) {
		svc := NewJobService(&mockJobStore{}, &mockReceiptGenerator{})

		_, err := svc.ListUnpaid(context.Background(), caller)
		assert.ErrorIs(t, err, ErrUnpaidJobsNotFound)
	})
}

func TestJobServicePay(t *testing.T) {
	client := model.Principal{ID: 2, Type: model.ProfileTypeClient}
	payable := func() *model.PayableJob {
		return &model.PayableJob{
			JobID:         3,
			Price:         200,
			Paid:          false,
			ClientID:      2,
			ContractorID:  6,
			ClientBalance: 231.11,
		}
	}

	t.Run("settles the job through the store", func(t *testing.T) {
		store := &mockJobStore{payable: payable()}
		svc := NewJobService(store, &mockReceiptGenerator{})
		paidAt := time.Date(2023, 7, 30, 8, 0, 0, 0, time.UTC)
		svc.now = func() time.Time { return paidAt }

		require.NoError(t, svc.Pay(context.Background(), 3, client))
		require.Len(t, store.settles, 1)
		call := store.settles[0]
		assert.Equal(t, int64(3), call.jobID)
		assert.Equal(t, int64(2), call.clientID)
		assert.Equal(t, int64(6), call.contractorID)
		assert.Equal(t, 200.0, call.price)
		assert.Equal(t, paidAt, call.paidAt)
	})

	t.Run("contractor callers are rejected before any lookup", func(t *testing.T) {
		store := &mockJobStore{payable: payable()}
		svc := NewJobService(store, &mockReceiptGenerator{})

		err := svc.Pay(context.Background(), 3, model.Principal{ID: 6, Type: model.ProfileTypeContractor})
		assert.ErrorIs(t, err, ErrPermissionDenied)
		assert.Empty(t, store.settles)
	})

	t.Run("no active contract containing the job", func(t *testing.T) {
		store := &mockJobStore{payableErr: gorm.ErrRecordNotFound}
		svc := NewJobService(store, &mockReceiptGenerator{})

		err := svc.Pay(context.Background(), 3, client)
		assert.ErrorIs(t, err, ErrContractNotFound)
		assert.Empty(t, store.settles)
	})

	t.Run("paid job never re-enters the effect path", func(t *testing.T) {
		row := payable()
		row.Paid = true
		store := &mockJobStore{payable: row}
		svc := NewJobService(store, &mockReceiptGenerator{})

		err := svc.Pay(context.Background(), 3, client)
		assert.ErrorIs(t, err, ErrJobNotFound)
		assert.Empty(t, store.settles)
	})

	t.Run("balance below price", func(t *testing.T) {
		row := payable()
		row.ClientBalance = 199.99
		store := &mockJobStore{payable: row}
		svc := NewJobService(store, &mockReceiptGenerator{})

		err := svc.Pay(context.Background(), 3, client)

		var insufficient *InsufficientBalanceError
		require.ErrorAs(t, err, &insufficient)
		assert.Equal(t, 199.99, insufficient.CurrentBalance)
		assert.Equal(t, 200.0, insufficient.MinimumBalance)
		assert.Empty(t, store.settles)
	})

	t.Run("losing the settle race maps to job not found", func(t *testing.T) {
		store := &mockJobStore{payable: payable(), settleErr: repository.ErrJobAlreadyPaid}
		svc := NewJobService(store, &mockReceiptGenerator{})

		err := svc.Pay(context.Background(), 3, client)
		assert.ErrorIs(t, err, ErrJobNotFound)
	})

	t.Run("concurrent spend maps to insufficient balance", func(t *testing.T) {
		store := &mockJobStore{payable: payable(), settleErr: repository.ErrInsufficientFunds}
		svc := NewJobService(store, &mockReceiptGenerator{})

		var insufficient *InsufficientBalanceError
		assert.ErrorAs(t, svc.Pay(context.Background(), 3, client), &insufficient)
	})

	t.Run("store failure surfaces as transaction failed", func(t *testing.T) {
		store := &mockJobStore{payable: payable(), settleErr: errors.New("deadlock detected")}
		svc := NewJobService(store, &mockReceiptGenerator{})

		err := svc.Pay(context.Background(), 3, client)
		assert.ErrorIs(t, err, ErrTransactionFailed)
	})
}

func TestJobServiceReceipt(t *testing.T) {
	caller := model.Principal{ID: 2, Type: model.ProfileTypeClient}

	t.Run("renders pdf for a settled job", func(t *testing.T) {
		store := &mockJobStore{receipt: &model.PaymentReceipt{JobID: 3, Price: 200}}
		svc := NewJobService(store, &mockReceiptGenerator{content: []byte("%PDF")})

		result, err := svc.Receipt(context.Background(), 3, caller)
		require.NoError(t, err)
		assert.Equal(t, "receipt-job-3.pdf", result.FileName)
		assert.Equal(t, []byte("%PDF"), result.Content)
	})

	t.Run("unpaid or invisible job is not found", func(t *testing.T) {
		store := &mockJobStore{receiptErr: gorm.ErrRecordNotFound}
		svc := NewJobService(store, &mockReceiptGenerator{})

		_, err := svc.Receipt(context.Background(), 3, caller)
		assert.ErrorIs(t, err, ErrReceiptNotFound)
	})
}
