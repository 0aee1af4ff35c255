package account

import (
	"context"
	"errors"

	"github.com/backoffice/pkg/constant"
	"github.com/backoffice/pkg/domains/verification"
	"github.com/backoffice/pkg/dtos"
	"github.com/backoffice/pkg/entities"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrNotFound            = errors.New("user not found")
	ErrDuplicateEmail      = errors.New("email already exists")
	ErrDuplicateNationalID = errors.New("national id already exists")

	// Sign-in reports the same error for an unknown email and a wrong
	// password so the response does not leak which emails are registered.
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotVerified        = errors.New("account not verified")
)

type Service interface {
	Register(ctx context.Context, req dtos.DTOForUserRegister) (entities.User, error)
	SignIn(ctx context.Context, email string, password string) (entities.User, error)
	GetAllUsers(ctx context.Context) ([]entities.User, error)
	GetAllUsersPaginated(ctx context.Context, pageNumber int) ([]entities.User, int, error)
	GetUserByID(ctx context.Context, id uint) (entities.User, error)
	GetUserByEmail(ctx context.Context, email string) (entities.User, error)
	GetUserByPhoneNumber(ctx context.Context, phoneNumber string) (entities.User, error)
	GetUsersByName(ctx context.Context, name string) ([]entities.User, error)
	GetSalesmen(ctx context.Context) ([]entities.User, error)
	GetAccountants(ctx context.Context) ([]entities.User, error)
}

type service struct {
	repository Repository
	verifier   verification.Service
}

func NewService(r Repository, v verification.Service) Service {
	return &service{
		repository: r,
		verifier:   v,
	}
}

// Register creates an unverified account and issues its first verification
// code. When the account was created but the notification could not be
// delivered, the user is still returned together with
// verification.ErrDelivery so callers can report a degraded success.
func (s *service) Register(ctx context.Context, req dtos.DTOForUserRegister) (entities.User, error) {
	exists, err := s.repository.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return entities.User{}, errors.New(constant.SOMETHING_WENT_WRONG)
	}
	if exists {
		return entities.User{}, ErrDuplicateEmail
	}

	exists, err = s.repository.ExistsByNationalID(ctx, req.NationalID)
	if err != nil {
		return entities.User{}, errors.New(constant.SOMETHING_WENT_WRONG)
	}
	if exists {
		return entities.User{}, ErrDuplicateNationalID
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return entities.User{}, errors.New(constant.SOMETHING_WENT_WRONG)
	}

	role := entities.Role(req.Role)
	if role == "" {
		role = entities.RoleSalesman
	}

	user := entities.User{
		Email:       req.Email,
		NationalID:  req.NationalID,
		Password:    string(passwordHash),
		Name:        req.Name,
		Address:     req.Address,
		PhoneNumber: req.PhoneNumber,
		Role:        role,
		Verified:    false,
	}

	if err := s.repository.CreateUser(ctx, &user); err != nil {
		return entities.User{}, errors.New(constant.SOMETHING_WENT_WRONG)
	}

	if err := s.verifier.IssueVerificationCode(ctx, user.Email); err != nil {
		if errors.Is(err, verification.ErrDelivery) {
			return user, err
		}
		return entities.User{}, err
	}

	return user, nil
}

func (s *service) SignIn(ctx context.Context, email string, password string) (entities.User, error) {
	user, err := s.repository.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.User{}, ErrInvalidCredentials
		}
		return entities.User{}, errors.New(constant.SOMETHING_WENT_WRONG)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return entities.User{}, ErrInvalidCredentials
	}

	if !user.Verified {
		return entities.User{}, ErrNotVerified
	}

	return user, nil
}

func (s *service) GetAllUsers(ctx context.Context) ([]entities.User, error) {
	return s.repository.FindAllUsers(ctx)
}

func (s *service) GetAllUsersPaginated(ctx context.Context, pageNumber int) ([]entities.User, int, error) {
	return s.repository.FindAllUsersPaginated(ctx, pageNumber)
}

func (s *service) GetUserByID(ctx context.Context, id uint) (entities.User, error) {
	user, err := s.repository.FindUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.User{}, ErrNotFound
		}
		return entities.User{}, err
	}
	return user, nil
}

func (s *service) GetUserByEmail(ctx context.Context, email string) (entities.User, error) {
	user, err := s.repository.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.User{}, ErrNotFound
		}
		return entities.User{}, err
	}
	return user, nil
}

func (s *service) GetUserByPhoneNumber(ctx context.Context, phoneNumber string) (entities.User, error) {
	user, err := s.repository.FindUserByPhoneNumber(ctx, phoneNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.User{}, ErrNotFound
		}
		return entities.User{}, err
	}
	return user, nil
}

func (s *service) GetUsersByName(ctx context.Context, name string) ([]entities.User, error) {
	return s.repository.FindUsersByName(ctx, name)
}

func (s *service) GetSalesmen(ctx context.Context) ([]entities.User, error) {
	return s.repository.FindUsersByRole(ctx, entities.RoleSalesman)
}

func (s *service) GetAccountants(ctx context.Context) ([]entities.User, error) {
	return s.repository.FindUsersByRole(ctx, entities.RoleAccountant)
}
