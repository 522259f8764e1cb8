package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/studyway/coursegate/internal/domain"
	"github.com/studyway/coursegate/pkg/database"
	apperrors "github.com/studyway/coursegate/pkg/errors"
)

// AccountRepository implements repository.AccountRepository backed by
// PostgreSQL.
type AccountRepository struct {
	db database.DBTX
}

// NewAccountRepository creates a new PostgreSQL account repository.
func NewAccountRepository(db database.DBTX) *AccountRepository {
	return &AccountRepository{db: db}
}

// Create inserts a new account.
func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	query := `
		INSERT INTO accounts (id, phone, email, password_hash, role, verified, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	now := time.Now().UTC()
	account.CreatedAt = now
	account.UpdatedAt = now

	_, err := r.db.Exec(ctx, query,
		account.ID, account.Phone, account.Email, account.PasswordHash,
		account.Role, account.Verified, account.CreatedAt, account.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			if strings.Contains(err.Error(), "idx_accounts_email") {
				return apperrors.Conflict("EMAIL_EXISTS", "an account with this email already exists")
			}
			return apperrors.Conflict("ACCOUNT_EXISTS", "an account with this phone number already exists")
		}
		return apperrors.Wrap(err, "failed to create account")
	}
	return nil
}

// GetByID retrieves an account by its identifier.
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	query := `
		SELECT id, phone, email, password_hash, role, verified, otp_code, otp_expires_at, created_at, updated_at
		FROM accounts
		WHERE id = $1`

	return r.scanAccount(r.db.QueryRow(ctx, query, id))
}

// GetByPhone retrieves an account by its normalized phone number.
func (r *AccountRepository) GetByPhone(ctx context.Context, phone string) (*domain.Account, error) {
	query := `
		SELECT id, phone, email, password_hash, role, verified, otp_code, otp_expires_at, created_at, updated_at
		FROM accounts
		WHERE phone = $1`

	return r.scanAccount(r.db.QueryRow(ctx, query, phone))
}

// SetChallenge overwrites the outstanding verification challenge. A reissued
// code fully replaces the previous one.
func (r *AccountRepository) SetChallenge(ctx context.Context, id, code string, expiresAt time.Time) error {
	query := `
		UPDATE accounts
		SET otp_code = $2, otp_expires_at = $3, updated_at = $4
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id, code, expiresAt, time.Now().UTC())
	if err != nil {
		return apperrors.Wrap(err, "failed to set verification challenge")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("account", id)
	}
	return nil
}

// MarkVerified flips the account to verified and clears the challenge in the
// same statement. The verified=false guard makes the flip level-triggered:
// a second verification attempt affects zero rows.
func (r *AccountRepository) MarkVerified(ctx context.Context, id string) error {
	query := `
		UPDATE accounts
		SET verified = TRUE, otp_code = NULL, otp_expires_at = NULL, updated_at = $2
		WHERE id = $1 AND verified = FALSE`

	tag, err := r.db.Exec(ctx, query, id, time.Now().UTC())
	if err != nil {
		return apperrors.Wrap(err, "failed to mark account verified")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAlreadyVerified
	}
	return nil
}

func (r *AccountRepository) scanAccount(row pgx.Row) (*domain.Account, error) {
	var (
		account      domain.Account
		otpCode      *string
		otpExpiresAt *time.Time
	)

	err := row.Scan(
		&account.ID, &account.Phone, &account.Email, &account.PasswordHash,
		&account.Role, &account.Verified, &otpCode, &otpExpiresAt,
		&account.CreatedAt, &account.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFoundCode("ACCOUNT_NOT_FOUND", "account not found")
		}
		return nil, apperrors.Wrap(err, "failed to get account")
	}

	if otpCode != nil && otpExpiresAt != nil {
		account.Challenge = &domain.OTPChallenge{Code: *otpCode, ExpiresAt: *otpExpiresAt}
	}
	return &account, nil
}

// isUniqueViolation reports whether the error is a PostgreSQL unique
// constraint violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "23505")
}
