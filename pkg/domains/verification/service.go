package verification

import (
	"context"
	"errors"
	"time"

	"github.com/backoffice/pkg/constant"
	"github.com/backoffice/pkg/entities"
	"github.com/backoffice/pkg/mailer"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Codes stay valid for a fixed window from issuance.
const CodeTTL = 5 * time.Minute

const mailSubject = "Email Verification Code"

var (
	ErrNotFound         = errors.New("user not found")
	ErrInvalidCode      = errors.New("invalid verification code")
	ErrCodeExpired      = errors.New("verification code has expired")
	ErrResetNotVerified = errors.New("reset code not verified")
	ErrAlreadyVerified  = errors.New("account is already verified")

	// ErrDelivery means the code was persisted but the notification could
	// not be sent. The stored code remains valid; callers should treat this
	// as a degraded success and point the user at the resend path.
	ErrDelivery = errors.New("verification email could not be delivered")
)

// Store is the slice of the account store the verification engine needs.
// The state-transition methods report whether a row was actually updated so
// concurrent confirms cannot both consume the same code.
type Store interface {
	FindUserByEmail(ctx context.Context, email string) (entities.User, error)
	SetVerificationCode(ctx context.Context, email string, code string, expires time.Time) error
	ConsumeVerificationCode(ctx context.Context, email string, code string) (bool, error)
	SetResetCode(ctx context.Context, email string, code string, expires time.Time) error
	MarkResetCodeVerified(ctx context.Context, email string, code string) (bool, error)
	CompletePasswordReset(ctx context.Context, email string, passwordHash string) (bool, error)
}

type Service interface {
	IssueVerificationCode(ctx context.Context, email string) error
	ResendVerificationCode(ctx context.Context, email string) error
	ConfirmVerification(ctx context.Context, email string, code string) error
	IssueResetCode(ctx context.Context, email string) error
	ConfirmResetCode(ctx context.Context, email string, code string) error
	CompletePasswordReset(ctx context.Context, email string, newPassword string) error
}

type service struct {
	store    Store
	sender   mailer.Sender
	generate func() string
}

// NewService builds the verification engine. The code generator is injected
// so a wider keyspace can be substituted without touching callers.
func NewService(store Store, sender mailer.Sender, generate func() string) Service {
	return &service{
		store:    store,
		sender:   sender,
		generate: generate,
	}
}

// IssueVerificationCode stores a fresh code with a new expiration window,
// overwriting any pending one, then requests delivery. Persist-then-notify:
// a failed send never rolls back the stored code.
func (s *service) IssueVerificationCode(ctx context.Context, email string) error {
	code := s.generate()
	expires := time.Now().Add(CodeTTL)

	if err := s.store.SetVerificationCode(ctx, email, code, expires); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return errors.New(constant.SOMETHING_WENT_WRONG)
	}

	if err := s.sender.Send(email, mailSubject, "Your verification code is: "+code); err != nil {
		return ErrDelivery
	}
	return nil
}

// ResendVerificationCode re-issues a code for an account that never
// completed verification.
func (s *service) ResendVerificationCode(ctx context.Context, email string) error {
	user, err := s.store.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return errors.New(constant.SOMETHING_WENT_WRONG)
	}
	if user.Verified {
		return ErrAlreadyVerified
	}
	return s.IssueVerificationCode(ctx, email)
}

// ConfirmVerification checks the pending code and, when valid and unexpired,
// marks the account verified and clears the code. An already-verified
// account holds no pending code, so a repeat call reports ErrInvalidCode.
func (s *service) ConfirmVerification(ctx context.Context, email string, code string) error {
	user, err := s.store.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return errors.New(constant.SOMETHING_WENT_WRONG)
	}

	if user.VerificationCode == nil || *user.VerificationCode != code {
		return ErrInvalidCode
	}

	// Boundary is exclusive: a code expiring exactly now is already expired.
	if user.VerificationCodeExpiration == nil || !user.VerificationCodeExpiration.After(time.Now()) {
		return ErrCodeExpired
	}

	consumed, err := s.store.ConsumeVerificationCode(ctx, email, code)
	if err != nil {
		return errors.New(constant.SOMETHING_WENT_WRONG)
	}
	if !consumed {
		// A concurrent confirm got there first and cleared the code.
		return ErrInvalidCode
	}
	return nil
}

// IssueResetCode starts the password-recovery flow: a fresh code with a new
// window, reset_code_verified forced back to false, then delivery.
func (s *service) IssueResetCode(ctx context.Context, email string) error {
	if _, err := s.store.FindUserByEmail(ctx, email); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return errors.New(constant.SOMETHING_WENT_WRONG)
	}

	code := s.generate()
	expires := time.Now().Add(CodeTTL)

	if err := s.store.SetResetCode(ctx, email, code, expires); err != nil {
		return errors.New(constant.SOMETHING_WENT_WRONG)
	}

	if err := s.sender.Send(email, mailSubject, "Your Password Reset code is : "+code); err != nil {
		return ErrDelivery
	}
	return nil
}

// ConfirmResetCode validates the reset code and flips reset_code_verified.
// The code itself is deliberately not cleared here; it stays until a
// password reset consumes it.
func (s *service) ConfirmResetCode(ctx context.Context, email string, code string) error {
	user, err := s.store.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return errors.New(constant.SOMETHING_WENT_WRONG)
	}

	if user.ResetCode == nil || *user.ResetCode != code {
		return ErrInvalidCode
	}
	if user.ResetCodeExpiration == nil || !user.ResetCodeExpiration.After(time.Now()) {
		return ErrCodeExpired
	}

	marked, err := s.store.MarkResetCodeVerified(ctx, email, code)
	if err != nil {
		return errors.New(constant.SOMETHING_WENT_WRONG)
	}
	if !marked {
		return ErrInvalidCode
	}
	return nil
}

// CompletePasswordReset stores the new password hash and clears the whole
// reset state, provided the reset code was verified first.
func (s *service) CompletePasswordReset(ctx context.Context, email string, newPassword string) error {
	user, err := s.store.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return errors.New(constant.SOMETHING_WENT_WRONG)
	}

	if !user.ResetCodeVerified {
		return ErrResetNotVerified
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return errors.New(constant.SOMETHING_WENT_WRONG)
	}

	done, err := s.store.CompletePasswordReset(ctx, email, string(passwordHash))
	if err != nil {
		return errors.New(constant.SOMETHING_WENT_WRONG)
	}
	if !done {
		// A concurrent reset already consumed the verified flag.
		return ErrResetNotVerified
	}
	return nil
}
