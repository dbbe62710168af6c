package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	userDomain "github.com/ryderx/service-rental/internal/domain/user"
	"github.com/ryderx/service-rental/internal/uow"
	"github.com/ryderx/service-rental/pkg/auth"
	"github.com/ryderx/service-rental/pkg/domain"
)

const minPasswordLength = 8

var errInvalidCredentials = domain.NewUnauthorizedError("invalid email or password")

// RegisterRequest is the request DTO for self-registration.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required"`
	FullName string `json:"full_name" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// CreateUserRequest is the request DTO for admin-created accounts.
type CreateUserRequest struct {
	Email    string `json:"email" binding:"required"`
	FullName string `json:"full_name" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required"`
}

// LoginRequest is the request DTO for login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest is the request DTO for exchanging a refresh token.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// UserDTO is the API response representation of a user account.
type UserDTO struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// AuthResponse pairs a user with freshly issued tokens.
type AuthResponse struct {
	User   UserDTO         `json:"user"`
	Tokens *auth.TokenPair `json:"tokens"`
}

// AuthService registers users and issues JWTs.
type AuthService struct {
	store      uow.Store
	jwt        *auth.JWTManager
	bcryptCost int
	logger     *zap.Logger
}

// NewAuthService creates a new AuthService. A non-positive cost uses bcrypt.DefaultCost.
func NewAuthService(store uow.Store, jwt *auth.JWTManager, bcryptCost int, logger *zap.Logger) *AuthService {
	if bcryptCost <= 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{store: store, jwt: jwt, bcryptCost: bcryptCost, logger: logger}
}

// Register creates a renter account and logs it in.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	u, err := s.createUser(ctx, req.Email, req.FullName, req.Password, auth.RoleUser)
	if err != nil {
		return nil, err
	}
	return s.issue(u)
}

// CreateUser creates an account with any role. Only admins may call it.
func (s *AuthService) CreateUser(ctx context.Context, actor Actor, req CreateUserRequest) (*UserDTO, error) {
	if !actor.IsAdmin() {
		return nil, domain.NewForbiddenError("only admins can create accounts")
	}
	u, err := s.createUser(ctx, req.Email, req.FullName, req.Password, auth.Role(req.Role))
	if err != nil {
		return nil, err
	}
	dto := toUserDTO(u)
	return &dto, nil
}

// Login verifies credentials and issues tokens.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	u, err := s.store.Repositories().Users().FindByEmail(ctx, req.Email)
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, errInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash()), []byte(req.Password)); err != nil {
		return nil, errInvalidCredentials
	}

	s.logger.Info("user logged in", zap.String("user_id", u.ID().String()))
	return s.issue(u)
}

// Refresh exchanges a valid refresh token for a new token pair.
func (s *AuthService) Refresh(ctx context.Context, req RefreshRequest) (*AuthResponse, error) {
	claims, err := s.jwt.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, domain.NewUnauthorizedError(err.Error())
	}
	u, err := s.store.Repositories().Users().FindByID(ctx, claims.UserID)
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, domain.NewUnauthorizedError("account no longer exists")
		}
		return nil, err
	}
	return s.issue(u)
}

// GetProfile returns the caller's account.
func (s *AuthService) GetProfile(ctx context.Context, userID uuid.UUID) (*UserDTO, error) {
	u, err := s.store.Repositories().Users().FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	dto := toUserDTO(u)
	return &dto, nil
}

func (s *AuthService) createUser(ctx context.Context, email, fullName, password string, role auth.Role) (*userDomain.User, error) {
	if len(password) < minPasswordLength {
		return nil, domain.NewValidationError("password must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, domain.NewValidationError("password cannot be hashed")
	}

	u, err := userDomain.NewUser(email, fullName, string(hash), role)
	if err != nil {
		return nil, err
	}
	if err := s.store.Repositories().Users().Save(ctx, u); err != nil {
		return nil, err
	}

	s.logger.Info("user created",
		zap.String("user_id", u.ID().String()),
		zap.String("role", string(u.Role())),
	)
	return u, nil
}

func (s *AuthService) issue(u *userDomain.User) (*AuthResponse, error) {
	tokens, err := s.jwt.GenerateTokenPair(u.ID(), u.Email(), u.Role())
	if err != nil {
		return nil, err
	}
	return &AuthResponse{User: toUserDTO(u), Tokens: tokens}, nil
}

func toUserDTO(u *userDomain.User) UserDTO {
	return UserDTO{
		ID:        u.ID(),
		Email:     u.Email(),
		FullName:  u.FullName(),
		Role:      string(u.Role()),
		CreatedAt: u.CreatedAt(),
	}
}
