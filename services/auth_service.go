package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/matchday/prediction-pool/models"
	"github.com/matchday/prediction-pool/repositories"
	"github.com/matchday/prediction-pool/utils"
)

const tokenTTL = 24 * time.Hour

type SignUpInput struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type AuthService interface {
	SignUp(ctx context.Context, input SignUpInput) (*models.Friend, error)
	// SignIn verifies the credentials and returns a signed token.
	SignIn(ctx context.Context, credentials models.Credentials) (string, *models.Friend, error)
}

type authService struct {
	friendRepo repositories.FriendRepository
	jwtSecret  []byte
	logger     *slog.Logger
}

func NewAuthService(friendRepo repositories.FriendRepository, jwtSecret []byte, logger *slog.Logger) AuthService {
	return &authService{friendRepo: friendRepo, jwtSecret: jwtSecret, logger: logger}
}

func (s *authService) SignUp(ctx context.Context, input SignUpInput) (*models.Friend, error) {
	if len(input.Password) < 8 {
		return nil, ErrPasswordTooShort
	}
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || strings.TrimSpace(input.FirstName) == "" {
		return nil, ErrValidationFailed
	}

	hash, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}
	friend := &models.Friend{
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleFriend,
	}
	if err := s.friendRepo.Create(ctx, friend); err != nil {
		if errors.Is(err, repositories.ErrFriendEmailConflict) {
			return nil, ErrEmailConflict
		}
		return nil, err
	}
	s.logger.Info("friend signed up", slog.Int("friend_id", friend.ID))
	return friend, nil
}

func (s *authService) SignIn(ctx context.Context, credentials models.Credentials) (string, *models.Friend, error) {
	email := strings.ToLower(strings.TrimSpace(credentials.Email))
	friend, err := s.friendRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrFriendNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}
	if !utils.CheckPasswordHash(credentials.Password, friend.PasswordHash) {
		return "", nil, ErrInvalidCredentials
	}

	claims := jwt.MapClaims{
		"friend_id": friend.ID,
		"role":      string(friend.Role),
		"exp":       time.Now().Add(tokenTTL).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", nil, err
	}
	return token, friend, nil
}
