package utils

import (
	"log"
	"net/mail"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

type CustomValidator struct {
	Validator *validator.Validate
}

func NewCustomValidator() *CustomValidator {
	Validator := &CustomValidator{validator.New()}
	Validator.ValidatorRegistery()
	return Validator
}

func (c *CustomValidator) ValidatorRegistery() {
	c.Validator.RegisterValidation("isemail", c.IsValidEmail)
	c.Validator.RegisterValidation("isphone", c.IsValidPhone)
	c.Validator.RegisterValidation("ispassword", c.IsValidPassword)
}

// RegisterGinValidators hooks the custom rules into gin's binding engine so
// `binding:"isemail"` etc. work on request DTOs.
func RegisterGinValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		log.Println("[error] gin binding engine is not validator/v10, custom rules not registered")
		return
	}
	c := &CustomValidator{v}
	c.ValidatorRegistery()
}

func (c *CustomValidator) IsValidEmail(fl validator.FieldLevel) bool {
	email := strings.TrimSpace(fl.Field().String())
	_, err := mail.ParseAddress(email)
	return err == nil
}

// IsValidPhone accepts exactly 10 decimal digits.
func (c *CustomValidator) IsValidPhone(fl validator.FieldLevel) bool {
	phoneNumber := strings.TrimSpace(fl.Field().String())
	if len(phoneNumber) != 10 {
		return false
	}
	for _, char := range phoneNumber {
		if !unicode.IsDigit(char) {
			return false
		}
	}
	return true
}

// IsValidPassword requires at least 10 characters with at least one
// uppercase letter, one lowercase letter and one of @!#%.
func (c *CustomValidator) IsValidPassword(fl validator.FieldLevel) bool {
	password := fl.Field().String()
	if len(password) < 10 {
		return false
	}

	var hasUpper, hasLower, hasSpecial bool
	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case strings.ContainsRune("@!#%", char):
			hasSpecial = true
		}
	}
	return hasUpper && hasLower && hasSpecial
}
