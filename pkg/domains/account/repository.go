package account

import (
	"context"
	"time"

	"github.com/backoffice/pkg/entities"
	"github.com/backoffice/pkg/utils"
	"gorm.io/gorm"
)

type Repository interface {
	CreateUser(ctx context.Context, user *entities.User) error
	FindUserByID(ctx context.Context, id uint) (entities.User, error)
	FindUserByEmail(ctx context.Context, email string) (entities.User, error)
	FindUserByPhoneNumber(ctx context.Context, phoneNumber string) (entities.User, error)
	FindUsersByName(ctx context.Context, name string) ([]entities.User, error)
	FindUsersByRole(ctx context.Context, role entities.Role) ([]entities.User, error)
	FindAllUsers(ctx context.Context) ([]entities.User, error)
	FindAllUsersPaginated(ctx context.Context, pageNumber int) ([]entities.User, int, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByNationalID(ctx context.Context, nationalID string) (bool, error)

	SetVerificationCode(ctx context.Context, email string, code string, expires time.Time) error
	ConsumeVerificationCode(ctx context.Context, email string, code string) (bool, error)
	SetResetCode(ctx context.Context, email string, code string, expires time.Time) error
	MarkResetCodeVerified(ctx context.Context, email string, code string) (bool, error)
	CompletePasswordReset(ctx context.Context, email string, passwordHash string) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) Repository {
	return &repository{
		db: db,
	}
}

func (r *repository) CreateUser(ctx context.Context, user *entities.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *repository) FindUserByID(ctx context.Context, id uint) (entities.User, error) {
	var user entities.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	return user, err
}

func (r *repository) FindUserByEmail(ctx context.Context, email string) (entities.User, error) {
	var user entities.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	return user, err
}

func (r *repository) FindUserByPhoneNumber(ctx context.Context, phoneNumber string) (entities.User, error) {
	var user entities.User
	err := r.db.WithContext(ctx).Where("phone_number = ?", phoneNumber).First(&user).Error
	return user, err
}

func (r *repository) FindUsersByName(ctx context.Context, name string) ([]entities.User, error) {
	var users []entities.User
	err := r.db.WithContext(ctx).Where("name = ?", name).Find(&users).Error
	return users, err
}

func (r *repository) FindUsersByRole(ctx context.Context, role entities.Role) ([]entities.User, error) {
	var users []entities.User
	err := r.db.WithContext(ctx).Where("role = ?", role).Find(&users).Error
	return users, err
}

func (r *repository) FindAllUsers(ctx context.Context) ([]entities.User, error) {
	var users []entities.User
	err := r.db.WithContext(ctx).Find(&users).Error
	return users, err
}

func (r *repository) FindAllUsersPaginated(ctx context.Context, pageNumber int) ([]entities.User, int, error) {
	var users []entities.User
	totalPages, err := utils.Pagination(&users, pageNumber, r.db, ctx, "1 = 1")
	return users, totalPages, err
}

func (r *repository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

func (r *repository) ExistsByNationalID(ctx context.Context, nationalID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.User{}).Where("national_id = ?", nationalID).Count(&count).Error
	return count > 0, err
}

// SetVerificationCode overwrites any pending verification code and its
// expiration window.
func (r *repository) SetVerificationCode(ctx context.Context, email string, code string, expires time.Time) error {
	tx := r.db.WithContext(ctx).Model(&entities.User{}).
		Where("email = ?", email).
		Updates(map[string]interface{}{
			"verification_code":            code,
			"verification_code_expiration": expires,
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ConsumeVerificationCode marks the account verified and clears the pending
// code in a single conditional update. The rows-affected result tells the
// caller whether this request actually consumed the code; under two
// concurrent confirms exactly one sees true.
func (r *repository) ConsumeVerificationCode(ctx context.Context, email string, code string) (bool, error) {
	tx := r.db.WithContext(ctx).Model(&entities.User{}).
		Where("email = ? AND verification_code = ?", email, code).
		Updates(map[string]interface{}{
			"verified":                     true,
			"verification_code":            nil,
			"verification_code_expiration": nil,
		})
	return tx.RowsAffected > 0, tx.Error
}

// SetResetCode starts a fresh reset window; any previous code is overwritten
// and the verified flag is forced back to false.
func (r *repository) SetResetCode(ctx context.Context, email string, code string, expires time.Time) error {
	tx := r.db.WithContext(ctx).Model(&entities.User{}).
		Where("email = ?", email).
		Updates(map[string]interface{}{
			"reset_code":            code,
			"reset_code_expiration": expires,
			"reset_code_verified":   false,
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// MarkResetCodeVerified flips the gate for the actual password change. The
// reset code itself is kept until the reset completes.
func (r *repository) MarkResetCodeVerified(ctx context.Context, email string, code string) (bool, error) {
	tx := r.db.WithContext(ctx).Model(&entities.User{}).
		Where("email = ? AND reset_code = ?", email, code).
		Update("reset_code_verified", true)
	return tx.RowsAffected > 0, tx.Error
}

// CompletePasswordReset stores the new hash and clears the whole reset state,
// conditional on the code having been verified.
func (r *repository) CompletePasswordReset(ctx context.Context, email string, passwordHash string) (bool, error) {
	tx := r.db.WithContext(ctx).Model(&entities.User{}).
		Where("email = ? AND reset_code_verified = ?", email, true).
		Updates(map[string]interface{}{
			"password":              passwordHash,
			"reset_code":            nil,
			"reset_code_expiration": nil,
			"reset_code_verified":   false,
		})
	return tx.RowsAffected > 0, tx.Error
}
