package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/nurpe/gigpay/internal/model"
	"github.com/nurpe/gigpay/internal/repository"
)

type JobStore interface {
	ListUnpaid(ctx context.Context, profileID int64) ([]model.Job, error)
	FindPayable(ctx context.Context, jobID, clientID int64) (*model.PayableJob, error)
	SettlePayment(ctx context.Context, jobID, clientID, contractorID int64, price float64, paidAt time.Time) error
	FindReceipt(ctx context.Context, jobID, profileID int64) (*model.PaymentReceipt, error)
}

type ReceiptGenerator interface {
	Generate(receipt model.PaymentReceipt) ([]byte, error)
}

type ReceiptResult struct {
	FileName string
	Content  []byte
}

// JobService is the settlement engine: it owns the unpaid-jobs view and the
// atomic transfer of a job's price from client to contractor.
type JobService struct {
	store JobStore
	pdf   ReceiptGenerator
	now   func() time.Time
}

func NewJobService(store JobStore, pdf ReceiptGenerator) *JobService {
	return &JobService{store: store, pdf: pdf, now: time.Now}
}

func (s *JobService) ListUnpaid(ctx context.Context, caller model.Principal) ([]model.Job, error) {
	jobs, err := s.store.ListUnpaid(ctx, caller.ID)
	if err != nil {
		return nil, err
	}
	if len(jobs) == 0 {
		return nil, ErrUnpaidJobsNotFound
	}
	return jobs, nil
}

// Pay settles a job. Preconditions in order: the caller is a client with an
// in_progress contract containing the job, the job is unpaid, the balance
// covers the price. The transfer itself is one store transaction; the same
// guards re-run inside it, so a concurrent payer or spender loses cleanly
// instead of producing a partial payment.
func (s *JobService) Pay(ctx context.Context, jobID int64, caller model.Principal) error {
	if !caller.IsClient() {
		return ErrPermissionDenied
	}

	payable, err := s.store.FindPayable(ctx, jobID, caller.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrContractNotFound
		}
		return err
	}
	if payable.Paid {
		return ErrJobNotFound
	}
	if payable.ClientBalance < payable.Price {
		return &InsufficientBalanceError{
			CurrentBalance: payable.ClientBalance,
			MinimumBalance: payable.Price,
		}
	}

	err = s.store.SettlePayment(ctx, jobID, caller.ID, payable.ContractorID, payable.Price, s.now().UTC())
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrJobAlreadyPaid):
		// lost the race: the job left the unpaid set between lookup and settle
		return ErrJobNotFound
	case errors.Is(err, repository.ErrInsufficientFunds):
		return &InsufficientBalanceError{
			CurrentBalance: payable.ClientBalance,
			MinimumBalance: payable.Price,
		}
	default:
		return fmt.Errorf("%w: %v", ErrTransactionFailed, err)
	}
}

// Receipt renders a pdf for a settled job, visible to either contract party.
func (s *JobService) Receipt(ctx context.Context, jobID int64, caller model.Principal) (*ReceiptResult, error) {
	receipt, err := s.store.FindReceipt(ctx, jobID, caller.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReceiptNotFound
		}
		return nil, err
	}

	content, err := s.pdf.Generate(*receipt)
	if err != nil {
		return nil, err
	}

	return &ReceiptResult{
		FileName: fmt.Sprintf("receipt-job-%d.pdf", receipt.JobID),
		Content:  content,
	}, nil
}
