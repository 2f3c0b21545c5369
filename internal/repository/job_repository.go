package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/nurpe/gigpay/internal/model"
)

// Guard failures inside the settlement transaction. The service layer maps
// them onto its own taxonomy.
var (
	ErrJobAlreadyPaid    = errors.New("job already paid")
	ErrInsufficientFunds = errors.New("insufficient funds")
)

type JobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) *JobRepository {
	return &JobRepository{db: db}
}

func (r *JobRepository) ListUnpaid(ctx context.Context, profileID int64) ([]model.Job, error) {
	var jobs []model.Job
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			j.id,
			j.contract_id,
			j.description,
			j.price,
			COALESCE(j.paid, FALSE) AS paid,
			j.payment_date
		FROM jobs j
		JOIN contracts c ON c.id = j.contract_id
		WHERE c.status = ?
			AND (c.client_id = ? OR c.contractor_id = ?)
			AND (j.paid IS NULL OR j.paid = FALSE)
		ORDER BY j.id ASC
	`, model.ContractStatusInProgress, profileID, profileID).Scan(&jobs).Error
	if err != nil {
		return nil, err
	}
	return jobs, nil
}

// FindPayable looks the job up through an in_progress contract owned by the
// client. Zero rows means the client has no active contract containing the
// job; the paid flag is returned unfiltered so the service can tell a paid
// job apart from a missing one.
func (r *JobRepository) FindPayable(ctx context.Context, jobID, clientID int64) (*model.PayableJob, error) {
	var row model.PayableJob
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			j.id AS job_id,
			j.price,
			COALESCE(j.paid, FALSE) AS paid,
			c.client_id,
			c.contractor_id,
			p.balance AS client_balance
		FROM jobs j
		JOIN contracts c ON c.id = j.contract_id
		JOIN profiles p ON p.id = c.client_id
		WHERE j.id = ?
			AND c.client_id = ?
			AND c.status = ?
		LIMIT 1
	`, jobID, clientID, model.ContractStatusInProgress).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.JobID == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &row, nil
}

// SettlePayment moves the price from client to contractor and marks the job
// paid, all inside one transaction. Every mutation is a guarded UPDATE so
// concurrent payers of the same job serialize on the row and exactly one
// succeeds; a failed guard rolls the whole transfer back.
func (r *JobRepository) SettlePayment(ctx context.Context, jobID, clientID, contractorID int64, price float64, paidAt time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Exec(`
			UPDATE jobs
			SET paid = TRUE, payment_date = ?
			WHERE id = ?
				AND (paid IS NULL OR paid = FALSE)
		`, paidAt, jobID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrJobAlreadyPaid
		}

		res = tx.Exec(`
			UPDATE profiles
			SET balance = balance - ?
			WHERE id = ? AND balance >= ?
		`, price, clientID, price)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInsufficientFunds
		}

		res = tx.Exec(`
			UPDATE profiles
			SET balance = balance + ?
			WHERE id = ?
		`, price, contractorID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// FindReceipt returns the settled job for either party of its contract.
func (r *JobRepository) FindReceipt(ctx context.Context, jobID, profileID int64) (*model.PaymentReceipt, error) {
	var row struct {
		JobID               int64
		Description         string
		Price               float64
		PaymentDate         *time.Time
		ContractID          int64
		ClientFirstName     string
		ClientLastName      string
		ContractorFirstName string
		ContractorLastName  string
		Profession          string
	}
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			j.id AS job_id,
			j.description,
			j.price,
			j.payment_date,
			c.id AS contract_id,
			client.first_name AS client_first_name,
			client.last_name AS client_last_name,
			contractor.first_name AS contractor_first_name,
			contractor.last_name AS contractor_last_name,
			COALESCE(contractor.profession, '') AS profession
		FROM jobs j
		JOIN contracts c ON c.id = j.contract_id
		JOIN profiles client ON client.id = c.client_id
		JOIN profiles contractor ON contractor.id = c.contractor_id
		WHERE j.id = ?
			AND j.paid = TRUE
			AND (c.client_id = ? OR c.contractor_id = ?)
		LIMIT 1
	`, jobID, profileID, profileID).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.JobID == 0 || row.PaymentDate == nil {
		return nil, gorm.ErrRecordNotFound
	}

	return &model.PaymentReceipt{
		JobID:          row.JobID,
		Description:    row.Description,
		Price:          row.Price,
		PaymentDate:    *row.PaymentDate,
		ContractID:     row.ContractID,
		ClientName:     row.ClientFirstName + " " + row.ClientLastName,
		ContractorName: row.ContractorFirstName + " " + row.ContractorLastName,
		Profession:     row.Profession,
	}, nil
}
