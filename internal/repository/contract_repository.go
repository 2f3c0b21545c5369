package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/nurpe/gigpay/internal/model"
)

type ContractRepository struct {
	db *gorm.DB
}

func NewContractRepository(db *gorm.DB) *ContractRepository {
	return &ContractRepository{db: db}
}

// GetVisible returns the contract only when the profile is a party to it.
// A foreign contract and a missing one are indistinguishable to the caller.
func (r *ContractRepository) GetVisible(ctx context.Context, contractID, profileID int64) (*model.Contract, error) {
	var contract model.Contract
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, client_id, contractor_id, status, created_at
		FROM contracts
		WHERE id = ?
			AND (client_id = ? OR contractor_id = ?)
		LIMIT 1
	`, contractID, profileID, profileID).Scan(&contract).Error
	if err != nil {
		return nil, err
	}
	if contract.ID == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &contract, nil
}

func (r *ContractRepository) ListActive(ctx context.Context, profileID int64) ([]model.Contract, error) {
	var contracts []model.Contract
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, client_id, contractor_id, status, created_at
		FROM contracts
		WHERE status <> ?
			AND (client_id = ? OR contractor_id = ?)
		ORDER BY id ASC
	`, model.ContractStatusTerminated, profileID, profileID).Scan(&contracts).Error
	if err != nil {
		return nil, err
	}
	return contracts, nil
}
