package repository

import (
	"database/sql"

	"github.com/fogonims/stock-service/internal/domain"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
)

type TokenRepository struct {
	db *sql.DB
}

func NewTokenRepository(db *sql.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

func (r *TokenRepository) CreateToken(token *domain.AuthToken) error {
	query := `
		INSERT INTO auth_tokens (token, user_id, created_at)
		VALUES ($1, $2, $3)
	`

	_, err := r.db.Exec(query, token.Token, token.UserID, token.CreatedAt)
	return err
}

// ResolveToken joins the token against its user so the middleware gets a
// full Caller in one round trip.
func (r *TokenRepository) ResolveToken(token uuid.UUID) (*domain.User, error) {
	query := `
		SELECT u.id, u.username, u.email, u.password_hash, u.role, u.created_at
		FROM auth_tokens t
		JOIN users u ON u.id = t.user_id
		WHERE t.token = $1
	`

	user := &domain.User{}
	err := r.db.QueryRow(query, token).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, domain.NotFound("Token not recognized")
	}
	if err != nil {
		return nil, err
	}

	return user, nil
}

func (r *TokenRepository) DeleteToken(token uuid.UUID) error {
	query := `DELETE FROM auth_tokens WHERE token = $1`

	_, err := r.db.Exec(query, token)
	return err
}
