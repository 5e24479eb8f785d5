package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleCook    Role = "cook"
	RoleManager Role = "manager"
)

// ParseRole rejects anything outside the closed enum instead of defaulting.
func ParseRole(value string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(value))) {
	case RoleCook:
		return RoleCook, nil
	case RoleManager:
		return RoleManager, nil
	default:
		return "", InvalidInput("unknown role: %s", value)
	}
}

type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

func NewUser(username, email, passwordHash string, role Role) *User {
	return &User{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    time.Now(),
	}
}

// Caller is the authenticated identity threaded explicitly through every
// service call. There is no ambient current-user state anywhere.
type Caller struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Role     Role      `json:"role"`
}

func (c Caller) IsManager() bool {
	return c.Role == RoleManager
}

type AuthToken struct {
	Token     uuid.UUID `json:"token"`
	UserID    uuid.UUID `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

func NewAuthToken(userID uuid.UUID) *AuthToken {
	return &AuthToken{
		Token:     uuid.New(),
		UserID:    userID,
		CreatedAt: time.Now(),
	}
}
