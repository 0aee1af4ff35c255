package entities

import (
	"time"

	"gorm.io/gorm"
)

type Role string

const (
	RoleSalesman   Role = "SALESMAN"
	RoleAccountant Role = "ACCOUNTANT"
)

type User struct {
	gorm.Model
	Email       string `json:"email" gorm:"unique;not null"`
	NationalID  string `json:"national_id" gorm:"type:varchar(32);unique;not null"`
	Password    string `json:"-" gorm:"not null"`
	Name        string `json:"name" gorm:"type:varchar(255);not null"`
	Address     string `json:"address" gorm:"type:varchar(255)"`
	PhoneNumber string `json:"phone_number" gorm:"type:varchar(10);index"`
	Role        Role   `json:"role" gorm:"type:varchar(20);not null;default:SALESMAN"`

	// Email verification state. The code and its expiration are non-null
	// only while a verification is pending.
	Verified                   bool       `json:"verified" gorm:"default:false"`
	VerificationCode           *string    `json:"-" gorm:"type:varchar(6)"`
	VerificationCodeExpiration *time.Time `json:"-"`

	// Password reset state. ResetCodeVerified gates the actual password
	// change and is cleared as soon as the password is updated.
	ResetCode           *string    `json:"-" gorm:"type:varchar(6)"`
	ResetCodeExpiration *time.Time `json:"-"`
	ResetCodeVerified   bool       `json:"-" gorm:"default:false"`
}
