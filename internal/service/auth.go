package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/msomdec/library-catalog/internal/domain"
)

// ErrMalformedToken is returned for bearer values that are not a JWT at all,
// as opposed to well-formed tokens that fail verification.
var ErrMalformedToken = errors.New("malformed token")

// AuthService handles user registration, login, and access token operations.
type AuthService struct {
	users      domain.UserRepository
	jwtSecret  []byte
	tokenTTL   time.Duration
	bcryptCost int
}

// NewAuthService creates a new AuthService.
func NewAuthService(users domain.UserRepository, jwtSecret string, tokenTTL time.Duration, bcryptCost int) *AuthService {
	return &AuthService{
		users:      users,
		jwtSecret:  []byte(jwtSecret),
		tokenTTL:   tokenTTL,
		bcryptCost: bcryptCost,
	}
}

// RegisterInput is the data accepted by Register. Role may be empty.
type RegisterInput struct {
	Email    string
	Password string
	FullName string
	Role     string
}

// accessClaims is the payload of an access token.
type accessClaims struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Register creates a new user account and returns it with a fresh access token.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.User, string, error) {
	email := strings.TrimSpace(in.Email)
	fullName := strings.TrimSpace(in.FullName)
	if email == "" || in.Password == "" || fullName == "" {
		return nil, "", fmt.Errorf("%w: missing required fields", domain.ErrInvalidInput)
	}

	role := in.Role
	if role == "" {
		role = string(domain.RoleStudent)
	}
	if !domain.ValidRole(role) {
		return nil, "", fmt.Errorf("%w: invalid role", domain.ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Email:        email,
		FullName:     fullName,
		PasswordHash: string(hash),
		Role:         domain.Role(role),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	token, err := s.generateJWT(user)
	if err != nil {
		return nil, "", fmt.Errorf("generate jwt: %w", err)
	}
	return user, token, nil
}

// Login verifies credentials and returns the user with a signed access token
// carrying the role stored at this moment.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, "", fmt.Errorf("%w: missing email or password", domain.ErrInvalidInput)
	}

	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", domain.ErrUnauthorized
		}
		return nil, "", fmt.Errorf("get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", domain.ErrUnauthorized
	}

	token, err := s.generateJWT(user)
	if err != nil {
		return nil, "", fmt.Errorf("generate jwt: %w", err)
	}
	return user, token, nil
}

// ParseToken validates an access token and returns the principal it names.
// Structurally broken tokens yield ErrMalformedToken; every other failure
// (bad signature, expiry, wrong algorithm) yields domain.ErrUnauthorized.
func (s *AuthService) ParseToken(tokenString string) (domain.Principal, error) {
	claims := &accessClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenMalformed) {
			return domain.Principal{}, ErrMalformedToken
		}
		return domain.Principal{}, domain.ErrUnauthorized
	}
	if !token.Valid {
		return domain.Principal{}, domain.ErrUnauthorized
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return domain.Principal{}, domain.ErrUnauthorized
	}
	userID, err := strconv.ParseInt(sub, 10, 64)
	if err != nil || userID != claims.UserID {
		return domain.Principal{}, domain.ErrUnauthorized
	}

	return domain.Principal{
		UserID: userID,
		Email:  claims.Email,
		Role:   domain.Role(claims.Role),
	}, nil
}

// CurrentUser loads the stored record of the principal.
func (s *AuthService) CurrentUser(ctx context.Context, p domain.Principal) (*domain.User, error) {
	return s.users.GetByID(ctx, p.UserID)
}

// EnsureAdmin creates the bootstrap admin account unless a user with that
// email already exists.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password string) error {
	_, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("look up admin: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	admin := &domain.User{
		Email:        email,
		FullName:     "Administrator",
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
	}
	if err := s.users.Create(ctx, admin); err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	slog.Info("default admin user created", "email", email)
	return nil
}

func (s *AuthService) generateJWT(user *domain.User) (string, error) {
	now := time.Now()
	claims := accessClaims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}
