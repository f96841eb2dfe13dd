package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"locallink/internal/config"
	"locallink/internal/domain"
	"locallink/internal/pkg/errors"
	"locallink/internal/repository"
	"locallink/internal/service/email"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailExists        = errors.New("business already exists")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrBusinessNotFound   = errors.New("business not found")
)

const passwordResetTTL = time.Hour

type Service interface {
	Register(ctx context.Context, input domain.RegisterInput) (*domain.Business, *domain.TokenPair, error)
	Login(ctx context.Context, input domain.LoginInput) (*domain.Business, *domain.TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*domain.TokenPair, error)
	ValidateAccessToken(token string) (*Claims, error)
	GetBusinessByID(ctx context.Context, id uuid.UUID) (*domain.Business, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
}

// Claims identifies the business a token was issued to.
type Claims struct {
	UserID uuid.UUID `json:"userId"`
	Email  string    `json:"email"`
	jwt.RegisteredClaims
}

type service struct {
	businessRepo repository.BusinessRepository
	sessionRepo  repository.SessionRepository
	emailService email.Service
	cfg          *config.Config
	logger       *slog.Logger
	now          func() time.Time
}

func NewService(businessRepo repository.BusinessRepository, sessionRepo repository.SessionRepository, emailService email.Service, cfg *config.Config, logger *slog.Logger) Service {
	return &service{
		businessRepo: businessRepo,
		sessionRepo:  sessionRepo,
		emailService: emailService,
		cfg:          cfg,
		logger:       logger,
		now:          time.Now,
	}
}

func (s *service) Register(ctx context.Context, input domain.RegisterInput) (*domain.Business, *domain.TokenPair, error) {
	emailAddr := normalizeEmail(input.Email)

	exists, err := s.businessRepo.ExistsByEmail(ctx, emailAddr)
	if err != nil {
		return nil, nil, err
	}
	if exists {
		return nil, nil, ErrEmailExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, errors.Wrap(err, "hash password")
	}

	business := &domain.Business{
		ID:           uuid.New(),
		Email:        emailAddr,
		PasswordHash: string(hashedPassword),
		BusinessName: strings.TrimSpace(input.BusinessName),
		BusinessType: input.BusinessType,
		Images:       domain.Assets{},
	}
	if input.Location != nil {
		business.Location = *input.Location
	}

	if err := s.businessRepo.Create(ctx, business); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, nil, ErrEmailExists
		}
		return nil, nil, err
	}

	tokens, err := s.generateTokenPair(ctx, business)
	if err != nil {
		return nil, nil, err
	}

	go func() {
		if err := s.emailService.SendWelcomeEmail(context.Background(), business.Email, business.BusinessName); err != nil {
			s.logger.Error("failed to send welcome email", slog.String("business_id", business.ID.String()), slog.Any("error", err))
		}
	}()

	return business, tokens, nil
}

func (s *service) Login(ctx context.Context, input domain.LoginInput) (*domain.Business, *domain.TokenPair, error) {
	business, err := s.businessRepo.GetByEmail(ctx, normalizeEmail(input.Email))
	if err != nil {
		return nil, nil, err
	}
	if business == nil {
		return nil, nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(business.PasswordHash), []byte(input.Password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	tokens, err := s.generateTokenPair(ctx, business)
	if err != nil {
		return nil, nil, err
	}

	return business, tokens, nil
}

func (s *service) RefreshToken(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	session, err := s.sessionRepo.GetByTokenHash(ctx, hashToken(refreshToken))
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrInvalidToken
	}

	business, err := s.businessRepo.GetByID(ctx, session.BusinessID)
	if err != nil {
		return nil, err
	}
	if business == nil {
		return nil, ErrBusinessNotFound
	}

	if err := s.sessionRepo.Revoke(ctx, session.ID); err != nil {
		return nil, err
	}

	return s.generateTokenPair(ctx, business)
}

func (s *service) ValidateAccessToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == uuid.Nil {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

func (s *service) GetBusinessByID(ctx context.Context, id uuid.UUID) (*domain.Business, error) {
	return s.businessRepo.GetByID(ctx, id)
}

func (s *service) generateTokenPair(ctx context.Context, business *domain.Business) (*domain.TokenPair, error) {
	now := s.now()
	accessClaims := &Claims{
		UserID: business.ID,
		Email:  business.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.JWTAccessExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   business.ID.String(),
		},
	}

	accessToken := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims)
	accessTokenString, err := accessToken.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return nil, errors.Wrap(err, "sign access token")
	}

	refreshTokenRaw := uuid.New().String()

	session := &repository.Session{
		ID:         uuid.New(),
		BusinessID: business.ID,
		TokenHash:  hashToken(refreshTokenRaw),
		ExpiresAt:  now.Add(s.cfg.JWTRefreshExpiry),
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}

	return &domain.TokenPair{
		AccessToken:  accessTokenString,
		RefreshToken: refreshTokenRaw,
		ExpiresIn:    int64(s.cfg.JWTAccessExpiry.Seconds()),
	}, nil
}

// RequestPasswordReset never reveals whether the email is registered.
func (s *service) RequestPasswordReset(ctx context.Context, emailAddr string) error {
	business, err := s.businessRepo.GetByEmail(ctx, normalizeEmail(emailAddr))
	if err != nil {
		return err
	}
	if business == nil {
		return nil
	}

	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return errors.Wrap(err, "generate reset token")
	}
	resetToken := hex.EncodeToString(tokenBytes)

	if err := s.businessRepo.SetPasswordResetToken(ctx, business.ID, hashToken(resetToken), s.now().Add(passwordResetTTL)); err != nil {
		return err
	}

	go func() {
		if err := s.emailService.SendPasswordResetEmail(context.Background(), business.Email, business.BusinessName, resetToken); err != nil {
			s.logger.Error("failed to send password reset email", slog.String("business_id", business.ID.String()), slog.Any("error", err))
		}
	}()

	return nil
}

func (s *service) ResetPassword(ctx context.Context, token, newPassword string) error {
	business, err := s.businessRepo.GetByPasswordResetToken(ctx, hashToken(token))
	if err != nil {
		return err
	}
	if business == nil {
		return ErrInvalidToken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return errors.Wrap(err, "hash password")
	}

	if err := s.businessRepo.UpdatePassword(ctx, business.ID, string(hashedPassword)); err != nil {
		return err
	}
	if err := s.businessRepo.ClearPasswordResetToken(ctx, business.ID); err != nil {
		return err
	}

	return s.sessionRepo.RevokeAllForBusiness(ctx, business.ID)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func hashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}
