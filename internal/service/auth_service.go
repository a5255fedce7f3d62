package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
	"time"

	"splitpay-storefront/internal/core/domain"
	"splitpay-storefront/internal/core/ports"
	"splitpay-storefront/pkg/apperror"

	"github.com/google/uuid"
)

// AuthServiceImpl implements ports.AuthService.
type AuthServiceImpl struct {
	merchantRepo ports.MerchantRepository
	hashSvc      ports.HashService
	encSvc       ports.EncryptionService
	tokenSvc     ports.TokenService
}

// NewAuthService creates a new AuthServiceImpl.
func NewAuthService(
	merchantRepo ports.MerchantRepository,
	hashSvc ports.HashService,
	encSvc ports.EncryptionService,
	tokenSvc ports.TokenService,
) *AuthServiceImpl {
	return &AuthServiceImpl{
		merchantRepo: merchantRepo,
		hashSvc:      hashSvc,
		encSvc:       encSvc,
		tokenSvc:     tokenSvc,
	}
}

// Register creates a new merchant account with a unique storefront slug and
// a freshly generated webhook signing secret.
func (s *AuthServiceImpl) Register(ctx context.Context, req ports.RegisterRequest) (*ports.RegisterResponse, error) {
	existing, err := s.merchantRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("check username: %w", err))
	}
	if existing != nil {
		return nil, apperror.ErrUsernameExists()
	}

	existing, err = s.merchantRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("check email: %w", err))
	}
	if existing != nil {
		return nil, apperror.ErrEmailExists()
	}

	slug, err := s.uniqueSlug(ctx, req.StoreName)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("derive slug: %w", err))
	}

	passwordHash, err := s.hashSvc.Hash(req.Password)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("hash password: %w", err))
	}

	// The webhook secret is shown to nobody; deliveries are signed with it
	// and merchants fetch it via their profile if they want to verify.
	webhookSecret, err := generateRandomHex(32)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("generate webhook secret: %w", err))
	}
	webhookSecretEnc, err := s.encSvc.Encrypt(webhookSecret)
	if err != nil {
		return nil, apperror.ErrEncryptionFailure(fmt.Errorf("encrypt webhook secret: %w", err))
	}

	now := time.Now().UTC()
	merchant := &domain.Merchant{
		ID:               uuid.New(),
		Username:         req.Username,
		Email:            req.Email,
		PasswordHash:     passwordHash,
		StoreName:        req.StoreName,
		Slug:             slug,
		WalletAddress:    req.WalletAddress,
		WebhookURL:       req.WebhookURL,
		WebhookSecretEnc: webhookSecretEnc,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.merchantRepo.Create(ctx, merchant); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create merchant: %w", err))
	}

	return &ports.RegisterResponse{
		MerchantID: merchant.ID,
		Slug:       merchant.Slug,
	}, nil
}

// Login validates credentials and returns a JWT token.
func (s *AuthServiceImpl) Login(ctx context.Context, username, password string) (string, time.Time, error) {
	merchant, err := s.merchantRepo.GetByUsername(ctx, username)
	if err != nil {
		return "", time.Time{}, apperror.InternalError(fmt.Errorf("find merchant: %w", err))
	}
	if merchant == nil {
		return "", time.Time{}, apperror.ErrInvalidCredentials()
	}

	valid, err := s.hashSvc.Verify(password, merchant.PasswordHash)
	if err != nil {
		return "", time.Time{}, apperror.InternalError(fmt.Errorf("verify password: %w", err))
	}
	if !valid {
		return "", time.Time{}, apperror.ErrInvalidCredentials()
	}

	token, expiry, err := s.tokenSvc.Generate(merchant.ID)
	if err != nil {
		return "", time.Time{}, apperror.InternalError(fmt.Errorf("generate token: %w", err))
	}

	return token, expiry, nil
}

var slugStripRe = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify turns a store name into a URL-safe handle.
func Slugify(name string) string {
	slug := strings.ToLower(name)
	slug = slugStripRe.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = "store"
	}
	return slug
}

// uniqueSlug derives a slug from the store name, suffixing a counter until
// no other merchant holds it.
func (s *AuthServiceImpl) uniqueSlug(ctx context.Context, storeName string) (string, error) {
	base := Slugify(storeName)
	slug := base
	for i := 2; ; i++ {
		taken, err := s.merchantRepo.GetBySlug(ctx, slug)
		if err != nil {
			return "", err
		}
		if taken == nil {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}

// generateRandomHex generates a random hex string of n bytes.
func generateRandomHex(n int) (string, error) {
	bytes := make([]byte, n)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
