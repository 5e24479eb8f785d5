package repository

import (
	"database/sql"

	"github.com/fogonims/stock-service/internal/domain"
	_ "github.com/lib/pq"
)

type ReportRepository struct {
	db *sql.DB
}

func NewReportRepository(db *sql.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// SpendSummary aggregates approved requests per product. Read-only
// projection; deleted products drop out via the join.
func (r *ReportRepository) SpendSummary() ([]*domain.ProductSpend, error) {
	query := `
		SELECT p.id, p.name, COUNT(sr.id), COALESCE(SUM(sr.quantity), 0),
			   COALESCE(SUM(sr.quantity * p.price), 0)
		FROM products p
		LEFT JOIN stock_requests sr ON sr.product_id = p.id AND sr.status = $1
		GROUP BY p.id, p.name
		ORDER BY p.name
	`

	rows, err := r.db.Query(query, domain.RequestStatusApproved)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summary []*domain.ProductSpend
	for rows.Next() {
		entry := &domain.ProductSpend{}
		err := rows.Scan(
			&entry.ProductID,
			&entry.ProductName,
			&entry.ApprovedRequests,
			&entry.ApprovedQuantity,
			&entry.TotalCost,
		)
		if err != nil {
			return nil, err
		}
		summary = append(summary, entry)
	}

	return summary, rows.Err()
}

func (r *ReportRepository) RequestVolume() (*domain.RequestVolume, error) {
	query := `
		SELECT status, COUNT(*)
		FROM stock_requests
		GROUP BY status
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	volume := &domain.RequestVolume{}
	for rows.Next() {
		var status domain.RequestStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}

		switch status {
		case domain.RequestStatusPending:
			volume.Pending = count
		case domain.RequestStatusApproved:
			volume.Approved = count
		case domain.RequestStatusDenied:
			volume.Denied = count
		}
	}

	return volume, rows.Err()
}
