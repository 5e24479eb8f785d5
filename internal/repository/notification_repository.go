package repository

import (
	"database/sql"

	"github.com/fogonims/stock-service/internal/domain"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
)

type NotificationRepository struct {
	db *sql.DB
}

func NewNotificationRepository(db *sql.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) CreateNotification(notification *domain.Notification) error {
	query := `
		INSERT INTO notifications (
			id, recipient_id, type, message, is_read, product_id, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(
		query,
		notification.ID,
		notification.RecipientID,
		notification.Type,
		notification.Message,
		notification.IsRead,
		notification.ProductID,
		notification.CreatedAt,
	)

	return err
}

func (r *NotificationRepository) GetNotificationByID(notificationID uuid.UUID) (*domain.Notification, error) {
	query := `
		SELECT id, recipient_id, type, message, is_read, product_id, created_at
		FROM notifications
		WHERE id = $1
	`

	notification := &domain.Notification{}
	var productID uuid.NullUUID

	err := r.db.QueryRow(query, notificationID).Scan(
		&notification.ID,
		&notification.RecipientID,
		&notification.Type,
		&notification.Message,
		&notification.IsRead,
		&productID,
		&notification.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, domain.NotFound("Notification not found")
	}
	if err != nil {
		return nil, err
	}

	if productID.Valid {
		notification.ProductID = &productID.UUID
	}

	return notification, nil
}

func (r *NotificationRepository) MarkNotificationRead(notificationID uuid.UUID) error {
	query := `
		UPDATE notifications
		SET is_read = TRUE
		WHERE id = $1
	`

	_, err := r.db.Exec(query, notificationID)
	return err
}

// HasUnreadLowStock backs the dedup rule: at most one unread LOW_STOCK
// notification per (recipient, product).
func (r *NotificationRepository) HasUnreadLowStock(recipientID, productID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM notifications
			WHERE recipient_id = $1 AND product_id = $2
			  AND type = $3 AND is_read = FALSE
		)
	`

	var exists bool
	err := r.db.QueryRow(query, recipientID, productID, domain.NotificationTypeLowStock).Scan(&exists)
	return exists, err
}

func (r *NotificationRepository) ListNotificationsByRecipient(recipientID uuid.UUID) ([]*domain.Notification, error) {
	query := `
		SELECT id, recipient_id, type, message, is_read, product_id, created_at
		FROM notifications
		WHERE recipient_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(query, recipientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []*domain.Notification
	for rows.Next() {
		notification := &domain.Notification{}
		var productID uuid.NullUUID

		err := rows.Scan(
			&notification.ID,
			&notification.RecipientID,
			&notification.Type,
			&notification.Message,
			&notification.IsRead,
			&productID,
			&notification.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		if productID.Valid {
			notification.ProductID = &productID.UUID
		}

		notifications = append(notifications, notification)
	}

	return notifications, rows.Err()
}
