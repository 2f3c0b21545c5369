package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/nurpe/gigpay/internal/model"
)

type ProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) GetByID(ctx context.Context, id int64) (*model.Profile, error) {
	var profile model.Profile
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, type, first_name, last_name, COALESCE(profession, '') AS profession, balance
		FROM profiles
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&profile).Error
	if err != nil {
		return nil, err
	}
	if profile.ID == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &profile, nil
}

// OutstandingForClient sums the prices of unpaid jobs under the client's
// in_progress contracts. Zero means no active contracts with work to pay.
func (r *ProfileRepository) OutstandingForClient(ctx context.Context, clientID int64) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(j.price), 0)
		FROM jobs j
		JOIN contracts c ON c.id = j.contract_id
		WHERE c.status = ?
			AND c.client_id = ?
			AND (j.paid IS NULL OR j.paid = FALSE)
	`, model.ContractStatusInProgress, clientID).Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}

// CreditBalance applies the increment in SQL so concurrent deposits and
// payments never lose updates.
func (r *ProfileRepository) CreditBalance(ctx context.Context, profileID int64, amount float64) error {
	res := r.db.WithContext(ctx).Exec(`
		UPDATE profiles
		SET balance = balance + ?
		WHERE id = ?
	`, amount, profileID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
