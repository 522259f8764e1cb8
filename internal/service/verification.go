package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/studyway/coursegate/internal/domain"
	"github.com/studyway/coursegate/internal/event"
	"github.com/studyway/coursegate/internal/otp"
	"github.com/studyway/coursegate/internal/repository"
	apperrors "github.com/studyway/coursegate/pkg/errors"
)

// CodeDispatcher delivers verification codes across the configured channels.
type CodeDispatcher interface {
	Dispatch(ctx context.Context, destination, code string) error
}

// ChallengeLimiter bounds how often a phone may ask for a fresh code.
type ChallengeLimiter interface {
	Allow(ctx context.Context, phone string) (bool, error)
}

// TokenIssuer signs access tokens for verified accounts.
type TokenIssuer interface {
	GenerateAccessToken(account *domain.Account) (string, error)
}

// VerificationService owns the account identity lifecycle: registration,
// challenge issuance, code verification, and login.
type VerificationService struct {
	accounts   repository.AccountRepository
	dispatcher CodeDispatcher
	limiter    ChallengeLimiter
	tokens     TokenIssuer
	events     *event.Producer
	otpExpiry  time.Duration
	logger     *slog.Logger
}

// NewVerificationService creates a verification service.
func NewVerificationService(
	accounts repository.AccountRepository,
	dispatcher CodeDispatcher,
	limiter ChallengeLimiter,
	tokens TokenIssuer,
	events *event.Producer,
	otpExpiry time.Duration,
	logger *slog.Logger,
) *VerificationService {
	return &VerificationService{
		accounts:   accounts,
		dispatcher: dispatcher,
		limiter:    limiter,
		tokens:     tokens,
		events:     events,
		otpExpiry:  otpExpiry,
		logger:     logger,
	}
}

// RegisterInput carries the fields needed to create an account.
type RegisterInput struct {
	Phone    string
	Email    string
	Password string
	Role     string
}

// Register creates an unverified account and issues its first verification
// challenge. The phone number is normalized before storage so lookups and
// uniqueness work on one canonical form.
func (s *VerificationService) Register(ctx context.Context, input RegisterInput) (*domain.Account, error) {
	phone, err := domain.NormalizePhone(input.Phone)
	if err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}

	role := input.Role
	if role == "" {
		role = domain.RoleStudent
	}
	if !domain.IsValidRole(role) {
		return nil, apperrors.InvalidInput("unknown role: " + role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to hash password")
	}

	account := &domain.Account{
		ID:           uuid.New().String(),
		Phone:        phone,
		Email:        input.Email,
		PasswordHash: string(hash),
		Role:         role,
		Verified:     false,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, err
	}

	s.logger.Info("account registered",
		slog.String("account_id", account.ID),
		slog.String("role", account.Role),
	)

	if err := s.issueChallenge(ctx, account); err != nil {
		// The account exists; the caller recovers by asking for a reissue.
		return account, err
	}
	return account, nil
}

// Reissue generates and delivers a fresh code for an unverified account,
// replacing any outstanding challenge. Reissues are rate limited per phone.
func (s *VerificationService) Reissue(ctx context.Context, rawPhone string) error {
	phone, err := domain.NormalizePhone(rawPhone)
	if err != nil {
		return apperrors.InvalidInput(err.Error())
	}

	account, err := s.accounts.GetByPhone(ctx, phone)
	if err != nil {
		return err
	}
	if account.Verified {
		return domain.ErrAlreadyVerified
	}

	allowed, err := s.limiter.Allow(ctx, phone)
	if err != nil {
		return apperrors.Wrap(err, "failed to check reissue limit")
	}
	if !allowed {
		return domain.ErrTooManyRequests
	}

	return s.issueChallenge(ctx, account)
}

// Verify checks the submitted code against the outstanding challenge and, on
// a match, marks the account verified and clears the challenge.
func (s *VerificationService) Verify(ctx context.Context, rawPhone, code string) (*domain.Account, error) {
	phone, err := domain.NormalizePhone(rawPhone)
	if err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}

	account, err := s.accounts.GetByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}
	if account.Verified {
		return nil, domain.ErrAlreadyVerified
	}
	if account.Challenge == nil {
		return nil, domain.ErrNoChallenge
	}
	if account.Challenge.ExpiredAt(time.Now()) {
		return nil, domain.ErrChallengeExpired
	}
	if subtle.ConstantTimeCompare([]byte(account.Challenge.Code), []byte(code)) != 1 {
		return nil, domain.ErrCodeMismatch
	}

	if err := s.accounts.MarkVerified(ctx, account.ID); err != nil {
		return nil, err
	}
	account.Verified = true
	account.Challenge = nil

	s.logger.Info("account verified", slog.String("account_id", account.ID))
	s.events.PublishAccountVerified(ctx, account)
	return account, nil
}

// Login checks credentials and issues an access token. Only verified
// accounts may log in.
func (s *VerificationService) Login(ctx context.Context, rawPhone, password string) (string, *domain.Account, error) {
	phone, err := domain.NormalizePhone(rawPhone)
	if err != nil {
		return "", nil, apperrors.InvalidInput(err.Error())
	}

	account, err := s.accounts.GetByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", nil, apperrors.Unauthorized("INVALID_CREDENTIALS", "invalid phone or password")
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		return "", nil, apperrors.Unauthorized("INVALID_CREDENTIALS", "invalid phone or password")
	}
	if !account.Verified {
		return "", nil, domain.ErrNotVerified
	}

	token, err := s.tokens.GenerateAccessToken(account)
	if err != nil {
		return "", nil, apperrors.Wrap(err, "failed to issue access token")
	}
	return token, account, nil
}

func (s *VerificationService) issueChallenge(ctx context.Context, account *domain.Account) error {
	code, err := otp.GenerateCode()
	if err != nil {
		return apperrors.Wrap(err, "failed to generate verification code")
	}

	expiresAt := time.Now().UTC().Add(s.otpExpiry)
	if err := s.accounts.SetChallenge(ctx, account.ID, code, expiresAt); err != nil {
		return err
	}

	if err := s.dispatcher.Dispatch(ctx, account.Phone, code); err != nil {
		return err
	}

	s.logger.Info("verification challenge issued",
		slog.String("account_id", account.ID),
		slog.Time("expires_at", expiresAt),
	)
	return nil
}
