package repository

import (
	"database/sql"
	"time"

	"github.com/fogonims/stock-service/internal/domain"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
)

type RequestRepository struct {
	db *sql.DB
}

func NewRequestRepository(db *sql.DB) *RequestRepository {
	return &RequestRepository{db: db}
}

func (r *RequestRepository) CreateRequest(request *domain.StockRequest) error {
	query := `
		INSERT INTO stock_requests (
			id, product_id, requested_by, quantity, status,
			deny_reason, created_at, decided_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(
		query,
		request.ID,
		request.ProductID,
		request.RequestedBy,
		request.Quantity,
		request.Status,
		request.DenyReason,
		request.CreatedAt,
		request.DecidedAt,
	)

	return err
}

func (r *RequestRepository) GetRequestByID(requestID uuid.UUID) (*domain.StockRequest, error) {
	query := `
		SELECT id, product_id, requested_by, quantity, status,
			   deny_reason, created_at, decided_at
		FROM stock_requests
		WHERE id = $1
	`

	return scanRequest(r.db.QueryRow(query, requestID))
}

// UpdatePendingRequest rewrites the editable fields with a status guard in
// the WHERE clause, so an edit racing a decision loses cleanly.
func (r *RequestRepository) UpdatePendingRequest(request *domain.StockRequest) error {
	query := `
		UPDATE stock_requests
		SET product_id = $2, quantity = $3
		WHERE id = $1 AND status = $4
	`

	result, err := r.db.Exec(query, request.ID, request.ProductID, request.Quantity, domain.RequestStatusPending)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return domain.InvalidState("Request is no longer pending")
	}

	return nil
}

func (r *RequestRepository) DeletePendingRequest(requestID uuid.UUID) error {
	query := `DELETE FROM stock_requests WHERE id = $1 AND status = $2`

	result, err := r.db.Exec(query, requestID, domain.RequestStatusPending)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return domain.InvalidState("Request is no longer pending")
	}

	return nil
}

// ApproveRequest performs the whole approval effect in one transaction:
// lock the request row, assert Pending, credit the product stock, flip the
// status. Either everything commits or nothing does.
func (r *RequestRepository) ApproveRequest(requestID uuid.UUID, decidedAt time.Time) (*domain.StockRequest, *domain.Product, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback()

	lockQuery := `
		SELECT id, product_id, requested_by, quantity, status,
			   deny_reason, created_at, decided_at
		FROM stock_requests
		WHERE id = $1
		FOR UPDATE
	`

	request, err := scanRequest(tx.QueryRow(lockQuery, requestID))
	if err != nil {
		return nil, nil, err
	}

	if !request.IsPending() {
		return nil, nil, domain.InvalidState("Request already %s", request.Status)
	}

	creditQuery := `
		UPDATE products
		SET quantity = quantity + $2, updated_at = $3
		WHERE id = $1
		RETURNING ` + productColumns

	product := &domain.Product{}
	err = tx.QueryRow(creditQuery, request.ProductID, request.Quantity, decidedAt).Scan(
		&product.ID,
		&product.Name,
		&product.Quantity,
		&product.Price,
		&product.ReorderThreshold,
		&product.Description,
		&product.Category,
		&product.Vendor,
		&product.ImageURL,
		&product.LowStockFlag,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		// product deleted since the request was created; request stays Pending
		return nil, nil, domain.NotFound("Product not found")
	}
	if err != nil {
		return nil, nil, err
	}

	transitionQuery := `
		UPDATE stock_requests
		SET status = $2, decided_at = $3
		WHERE id = $1 AND status = $4
	`

	result, err := tx.Exec(transitionQuery, requestID, domain.RequestStatusApproved, decidedAt, domain.RequestStatusPending)
	if err != nil {
		return nil, nil, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, nil, err
	}
	if rowsAffected == 0 {
		return nil, nil, domain.Conflict("Request was decided concurrently")
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, err
	}

	request.Status = domain.RequestStatusApproved
	request.DecidedAt = &decidedAt
	return request, product, nil
}

// DenyRequest flips the status with the same locking discipline as
// ApproveRequest; no stock mutation.
func (r *RequestRepository) DenyRequest(requestID uuid.UUID, reason string, decidedAt time.Time) (*domain.StockRequest, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	lockQuery := `
		SELECT id, product_id, requested_by, quantity, status,
			   deny_reason, created_at, decided_at
		FROM stock_requests
		WHERE id = $1
		FOR UPDATE
	`

	request, err := scanRequest(tx.QueryRow(lockQuery, requestID))
	if err != nil {
		return nil, err
	}

	if !request.IsPending() {
		return nil, domain.InvalidState("Request already %s", request.Status)
	}

	transitionQuery := `
		UPDATE stock_requests
		SET status = $2, deny_reason = $3, decided_at = $4
		WHERE id = $1 AND status = $5
	`

	result, err := tx.Exec(transitionQuery, requestID, domain.RequestStatusDenied, reason, decidedAt, domain.RequestStatusPending)
	if err != nil {
		return nil, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if rowsAffected == 0 {
		return nil, domain.Conflict("Request was decided concurrently")
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	request.Status = domain.RequestStatusDenied
	request.DenyReason = reason
	request.DecidedAt = &decidedAt
	return request, nil
}

func (r *RequestRepository) ListRequestsByRequester(requesterID uuid.UUID) ([]*domain.StockRequest, error) {
	query := `
		SELECT id, product_id, requested_by, quantity, status,
			   deny_reason, created_at, decided_at
		FROM stock_requests
		WHERE requested_by = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(query, requesterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []*domain.StockRequest
	for rows.Next() {
		request, err := scanRequestRow(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, request)
	}

	return requests, rows.Err()
}

// ListAllRequests serves the manager view: every request, annotated with
// the requester's display name.
func (r *RequestRepository) ListAllRequests() ([]*domain.RequestWithRequester, error) {
	query := `
		SELECT sr.id, sr.product_id, sr.requested_by, sr.quantity, sr.status,
			   sr.deny_reason, sr.created_at, sr.decided_at, u.username
		FROM stock_requests sr
		JOIN users u ON u.id = sr.requested_by
		ORDER BY sr.created_at DESC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []*domain.RequestWithRequester
	for rows.Next() {
		request := &domain.RequestWithRequester{}
		var denyReason sql.NullString
		var decidedAt sql.NullTime

		err := rows.Scan(
			&request.ID,
			&request.ProductID,
			&request.RequestedBy,
			&request.Quantity,
			&request.Status,
			&denyReason,
			&request.CreatedAt,
			&decidedAt,
			&request.RequesterName,
		)
		if err != nil {
			return nil, err
		}

		if denyReason.Valid {
			request.DenyReason = denyReason.String
		}
		if decidedAt.Valid {
			request.DecidedAt = &decidedAt.Time
		}

		requests = append(requests, request)
	}

	return requests, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRequest(row *sql.Row) (*domain.StockRequest, error) {
	request, err := scanRequestRow(row)
	if err == sql.ErrNoRows {
		return nil, domain.NotFound("Request not found")
	}
	return request, err
}

func scanRequestRow(row rowScanner) (*domain.StockRequest, error) {
	request := &domain.StockRequest{}
	var denyReason sql.NullString
	var decidedAt sql.NullTime

	err := row.Scan(
		&request.ID,
		&request.ProductID,
		&request.RequestedBy,
		&request.Quantity,
		&request.Status,
		&denyReason,
		&request.CreatedAt,
		&decidedAt,
	)
	if err != nil {
		return nil, err
	}

	if denyReason.Valid {
		request.DenyReason = denyReason.String
	}
	if decidedAt.Valid {
		request.DecidedAt = &decidedAt.Time
	}

	return request, nil
}
