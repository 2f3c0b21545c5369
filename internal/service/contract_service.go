package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/nurpe/gigpay/internal/model"
)

type ContractStore interface {
	GetVisible(ctx context.Context, contractID, profileID int64) (*model.Contract, error)
	ListActive(ctx context.Context, profileID int64) ([]model.Contract, error)
}

// ContractService decides which contracts a caller may see. Missing rows and
// rows the caller is not a party to collapse into the same not-found result.
type ContractService struct {
	store ContractStore
}

func NewContractService(store ContractStore) *ContractService {
	return &ContractService{store: store}
}

func (s *ContractService) GetByID(ctx context.Context, contractID int64, caller model.Principal) (*model.Contract, error) {
	contract, err := s.store.GetVisible(ctx, contractID, caller.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContractNotFound
		}
		return nil, err
	}
	return contract, nil
}

func (s *ContractService) ListForCaller(ctx context.Context, caller model.Principal) ([]model.Contract, error) {
	contracts, err := s.store.ListActive(ctx, caller.ID)
	if err != nil {
		return nil, err
	}
	if len(contracts) == 0 {
		return nil, ErrContractNotFound
	}
	return contracts, nil
}
