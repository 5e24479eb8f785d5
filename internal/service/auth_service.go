package service

import (
	"fmt"
	"log"
	"strings"

	"github.com/fogonims/stock-service/internal/domain"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type UserRepository interface {
	CreateUser(user *domain.User) error
	GetUserByID(userID uuid.UUID) (*domain.User, error)
	GetUserByUsername(username string) (*domain.User, error)
	ListManagers() ([]*domain.User, error)
}

type TokenRepository interface {
	CreateToken(token *domain.AuthToken) error
	ResolveToken(token uuid.UUID) (*domain.User, error)
	DeleteToken(token uuid.UUID) error
}

type AuthService struct {
	userRepo  UserRepository
	tokenRepo TokenRepository
}

func NewAuthService(userRepo UserRepository, tokenRepo TokenRepository) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
	}
}

// Login verifies credentials and issues an opaque bearer token. The same
// error comes back for a missing user and a bad password.
func (s *AuthService) Login(username, password string) (*domain.AuthToken, *domain.User, error) {
	user, err := s.userRepo.GetUserByUsername(strings.TrimSpace(username))
	if err != nil {
		return nil, nil, domain.Forbidden("Invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, domain.Forbidden("Invalid credentials")
	}

	token := domain.NewAuthToken(user.ID)
	if err := s.tokenRepo.CreateToken(token); err != nil {
		return nil, nil, fmt.Errorf("token creation error: %v", err)
	}

	log.Printf("User logged in: Username=%s, Role=%s", user.Username, user.Role)
	return token, user, nil
}

type CreateUserInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (s *AuthService) CreateUser(caller domain.Caller, input CreateUserInput) (*domain.User, error) {
	if !caller.IsManager() {
		return nil, domain.Forbidden("Manager role required")
	}

	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, domain.InvalidInput("Username is required")
	}
	if len(input.Password) < 6 {
		return nil, domain.InvalidInput("Password must be at least 6 characters")
	}

	role, err := domain.ParseRole(input.Role)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("password hash error: %v", err)
	}

	user := domain.NewUser(username, strings.TrimSpace(input.Email), string(hash), role)
	if err := s.userRepo.CreateUser(user); err != nil {
		return nil, fmt.Errorf("user creation error: %v", err)
	}

	log.Printf("User created: Username=%s, Role=%s", user.Username, user.Role)
	return user, nil
}

// Resolve turns a bearer token into the Caller threaded through every
// service call.
func (s *AuthService) Resolve(tokenValue string) (domain.Caller, error) {
	token, err := uuid.Parse(strings.TrimSpace(tokenValue))
	if err != nil {
		return domain.Caller{}, domain.Forbidden("Invalid token")
	}

	user, err := s.tokenRepo.ResolveToken(token)
	if err != nil {
		return domain.Caller{}, domain.Forbidden("Invalid token")
	}

	return domain.Caller{
		ID:       user.ID,
		Username: user.Username,
		Role:     user.Role,
	}, nil
}

func (s *AuthService) Logout(tokenValue string) error {
	token, err := uuid.Parse(strings.TrimSpace(tokenValue))
	if err != nil {
		return domain.Forbidden("Invalid token")
	}
	return s.tokenRepo.DeleteToken(token)
}
