package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/nurpe/gigpay/internal/model"
)

type ReportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// BestProfession groups paid jobs in the window by contractor profession.
// Ties resolve to the lexicographically smallest profession.
func (r *ReportRepository) BestProfession(ctx context.Context, start, end time.Time) (*model.ProfessionEarnings, error) {
	var rows []model.ProfessionEarnings
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			p.profession,
			SUM(j.price) AS total_earnings
		FROM jobs j
		JOIN contracts c ON c.id = j.contract_id
		JOIN profiles p ON p.id = c.contractor_id
		WHERE j.paid = TRUE
			AND j.payment_date BETWEEN ? AND ?
		GROUP BY p.profession
		ORDER BY total_earnings DESC, p.profession ASC
		LIMIT 1
	`, start, end).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &rows[0], nil
}

// BestClients ranks clients by total paid in the window, descending, with
// id as the deterministic secondary order. Zero totals never appear because
// only paid jobs enter the join.
func (r *ReportRepository) BestClients(ctx context.Context, start, end time.Time, limit int) ([]model.ClientTotal, error) {
	var rows []model.ClientTotal
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			p.id,
			p.first_name,
			p.last_name,
			SUM(j.price) AS total_paid
		FROM jobs j
		JOIN contracts c ON c.id = j.contract_id
		JOIN profiles p ON p.id = c.client_id
		WHERE j.paid = TRUE
			AND j.payment_date BETWEEN ? AND ?
		GROUP BY p.id, p.first_name, p.last_name
		HAVING SUM(j.price) > 0
		ORDER BY total_paid DESC, p.id ASC
		LIMIT ?
	`, start, end, limit).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
