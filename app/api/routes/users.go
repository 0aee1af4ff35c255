package routes

import (
	"errors"
	"strconv"

	"github.com/backoffice/pkg/constant"
	"github.com/backoffice/pkg/domains/account"
	"github.com/backoffice/pkg/domains/verification"
	"github.com/backoffice/pkg/dtos"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

func UserRoutes(r *gin.RouterGroup, s account.Service, v verification.Service) {
	r.POST("/register", register(s))
	r.POST("/verify", verify(v))
	r.POST("/signin", signIn(s))
	r.POST("/forgot-password", forgotPassword(v))
	r.POST("/verify-reset-code", verifyResetCode(v))
	r.POST("/reset-password", resetPassword(v))
	r.POST("/resend-verification", resendVerification(v))

	r.GET("/", getAllUsers(s))
	r.GET("/SalesMan", getSalesmen(s))
	r.GET("/Accountent", getAccountants(s))
	r.GET("/search", getUsersByName(s))
	r.GET("/byPhoneNumber", getUserByPhoneNumber(s))
	r.GET("/byEmail", getUserByEmail(s))
	r.GET("/byId", getUserByID(s))
}

// bindingErrorMessage maps validator tags back to the field-format messages
// the API promises.
func bindingErrorMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return constant.INVALID_REQUEST
	}
	for _, fe := range verrs {
		switch fe.Tag() {
		case "isemail", "email":
			return constant.INVALID_EMAIL
		case "ispassword":
			return constant.INVALID_PASSWORD
		case "isphone":
			return constant.INVALID_PHONE_NUMBER
		}
	}
	return constant.INVALID_REQUEST
}

func register(s account.Service) func(c *gin.Context) {
	return func(c *gin.Context) {
		var req dtos.DTOForUserRegister
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(400, gin.H{"error": bindingErrorMessage(err)})
			return
		}

		user, err := s.Register(c, req)
		if err != nil {
			switch {
			case errors.Is(err, account.ErrDuplicateEmail):
				c.JSON(400, gin.H{"error": constant.EMAIL_EXISTS})
			case errors.Is(err, account.ErrDuplicateNationalID):
				c.JSON(400, gin.H{"error": constant.NATIONAL_ID_EXISTS})
			case errors.Is(err, verification.ErrDelivery):
				// Account is committed; only the notification failed.
				c.JSON(200, gin.H{
					"message": constant.REGISTERED,
					"warning": constant.DELIVERY_FAILED,
					"user":    user,
				})
			default:
				c.JSON(400, gin.H{"error": err.Error()})
			}
			return
		}

		c.JSON(200, gin.H{
			"message": constant.REGISTERED,
			"user":    user,
		})
	}
}

func verify(v verification.Service) func(c *gin.Context) {
	return func(c *gin.Context) {
		email := c.Query("email")
		code := c.Query("code")
		if email == "" || code == "" {
			c.JSON(400, gin.H{"error": constant.INVALID_REQUEST})
			return
		}

		if err := v.ConfirmVerification(c, email, code); err != nil {
			switch {
			case errors.Is(err, verification.ErrNotFound):
				c.JSON(404, gin.H{"error": constant.USER_NOT_FOUND})
			case errors.Is(err, verification.ErrCodeExpired):
				c.JSON(400, gin.H{"error": constant.CODE_EXPIRED})
			case errors.Is(err, verification.ErrInvalidCode):
				c.JSON(400, gin.H{"error": constant.INVALID_CODE})
			default:
				c.JSON(400, gin.H{"error": err.Error()})
			}
			return
		}

		c.JSON(200, gin.H{"message": constant.EMAIL_VERIFIED})
	}
}

func signIn(s account.Service) func(c *gin.Context) {
	return func(c *gin.Context) {
		var req dtos.DTOForUserSignIn
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(400, gin.H{"error": bindingErrorMessage(err)})
			return
		}

		if _, err := s.SignIn(c, req.Email, req.Password); err != nil {
			switch {
			case errors.Is(err, account.ErrInvalidCredentials):
				c.JSON(401, gin.H{"error": constant.INVALID_CREDENTIALS})
			case errors.Is(err, account.ErrNotVerified):
				c.JSON(401, gin.H{"error": constant.NOT_VERIFIED})
			default:
				c.JSON(400, gin.H{"error": err.Error()})
			}
			return
		}

		c.JSON(200, gin.H{"message": constant.SIGNED_IN})
	}
}

func forgotPassword(v verification.Service) func(c *gin.Context) {
	return func(c *gin.Context) {
		email := c.Query("email")
		if email == "" {
			c.JSON(400, gin.H{"error": constant.INVALID_REQUEST})
			return
		}

		if err := v.IssueResetCode(c, email); err != nil {
			switch {
			case errors.Is(err, verification.ErrNotFound):
				c.JSON(401, gin.H{"error": constant.USER_NOT_FOUND})
			case errors.Is(err, verification.ErrDelivery):
				c.JSON(200, gin.H{
					"message": constant.RESET_CODE_SENT,
					"warning": constant.DELIVERY_FAILED,
				})
			default:
				c.JSON(400, gin.H{"error": err.Error()})
			}
			return
		}

		c.JSON(200, gin.H{"message": constant.RESET_CODE_SENT})
	}
}

func verifyResetCode(v verification.Service) func(c *gin.Context) {
	return func(c *gin.Context) {
		email := c.Query("email")
		code := c.Query("code")
		if email == "" || code == "" {
			c.JSON(400, gin.H{"error": constant.INVALID_REQUEST})
			return
		}

		if err := v.ConfirmResetCode(c, email, code); err != nil {
			switch {
			case errors.Is(err, verification.ErrNotFound):
				c.JSON(401, gin.H{"error": constant.USER_NOT_FOUND})
			case errors.Is(err, verification.ErrCodeExpired):
				c.JSON(400, gin.H{"error": constant.RESET_CODE_EXPIRED})
			case errors.Is(err, verification.ErrInvalidCode):
				c.JSON(400, gin.H{"error": constant.INVALID_RESET_CODE})
			default:
				c.JSON(400, gin.H{"error": err.Error()})
			}
			return
		}

		c.JSON(200, gin.H{"message": constant.RESET_VERIFIED})
	}
}

func resetPassword(v verification.Service) func(c *gin.Context) {
	return func(c *gin.Context) {
		email := c.Query("email")
		newPassword := c.Query("newPassword")
		if email == "" || newPassword == "" {
			c.JSON(400, gin.H{"error": constant.INVALID_REQUEST})
			return
		}

		if err := v.CompletePasswordReset(c, email, newPassword); err != nil {
			switch {
			case errors.Is(err, verification.ErrNotFound):
				c.JSON(401, gin.H{"error": constant.USER_NOT_FOUND})
			case errors.Is(err, verification.ErrResetNotVerified):
				c.JSON(400, gin.H{"error": constant.RESET_NOT_VERIFIED})
			default:
				c.JSON(400, gin.H{"error": err.Error()})
			}
			return
		}

		c.JSON(200, gin.H{"message": constant.PASSWORD_RESET})
	}
}

func resendVerification(v verification.Service) func(c *gin.Context) {
	return func(c *gin.Context) {
		email := c.Query("email")
		if email == "" {
			c.JSON(400, gin.H{"error": constant.INVALID_REQUEST})
			return
		}

		if err := v.ResendVerificationCode(c, email); err != nil {
			switch {
			case errors.Is(err, verification.ErrNotFound):
				c.JSON(404, gin.H{"error": constant.USER_NOT_FOUND})
			case errors.Is(err, verification.ErrAlreadyVerified):
				c.JSON(400, gin.H{"error": constant.ALREADY_VERIFIED})
			case errors.Is(err, verification.ErrDelivery):
				c.JSON(200, gin.H{
					"message": constant.VERIFICATION_SENT,
					"warning": constant.DELIVERY_FAILED,
				})
			default:
				c.JSON(400, gin.H{"error": err.Error()})
			}
			return
		}

		c.JSON(200, gin.H{"message": constant.VERIFICATION_SENT})
	}
}

func getAllUsers(s account.Service) func(c *gin.Context) {
	return func(c *gin.Context) {
		if page := c.Query("page"); page != "" {
			pageNumber, err := strconv.Atoi(page)
			if err != nil {
				c.JSON(400, gin.H{"error": constant.INVALID_REQUEST})
				return
			}
			users, totalPages, err := s.GetAllUsersPaginated(c, pageNumber)
			if err != nil {
				c.JSON(400, gin.H{"error": err.Error()})
				return
			}
			c.JSON(200, gin.H{"users": users, "total_pages": totalPages})
			return
		}

		users, err := s.GetAllUsers(c)
		if err != nil {
			c.JSON(400, gin.H{"error": constant.SOMETHING_WENT_WRONG})
			return
		}
		c.JSON(200, users)
	}
}

func getSalesmen(s account.Service) func(c *gin.Context) {
	return func(c *gin.Context) {
		users, err := s.GetSalesmen(c)
		if err != nil {
			c.JSON(400, gin.H{"error": constant.SOMETHING_WENT_WRONG})
			return
		}
		c.JSON(200, users)
	}
}

func getAccountants(s account.Service) func(c *gin.Context) {
	return func(c *gin.Context) {
		users, err := s.GetAccountants(c)
		if err != nil {
			c.JSON(400, gin.H{"error": constant.SOMETHING_WENT_WRONG})
			return
		}
		c.JSON(200, users)
	}
}

func getUsersByName(s account.Service) func(c *gin.Context) {
	return func(c *gin.Context) {
		name := c.Query("name")
		if name == "" {
			c.JSON(400, gin.H{"error": constant.INVALID_REQUEST})
			return
		}
		users, err := s.GetUsersByName(c, name)
		if err != nil {
			c.JSON(400, gin.H{"error": constant.SOMETHING_WENT_WRONG})
			return
		}
		c.JSON(200, users)
	}
}

func getUserByPhoneNumber(s account.Service) func(c *gin.Context) {
	return func(c *gin.Context) {
		phoneNumber := c.Query("phoneNumber")
		if phoneNumber == "" {
			c.JSON(400, gin.H{"error": constant.INVALID_REQUEST})
			return
		}
		user, err := s.GetUserByPhoneNumber(c, phoneNumber)
		if err != nil {
			if errors.Is(err, account.ErrNotFound) {
				c.JSON(404, gin.H{"error": constant.USER_NOT_FOUND})
				return
			}
			c.JSON(400, gin.H{"error": constant.SOMETHING_WENT_WRONG})
			return
		}
		c.JSON(200, user)
	}
}

func getUserByEmail(s account.Service) func(c *gin.Context) {
	return func(c *gin.Context) {
		email := c.Query("email")
		if email == "" {
			c.JSON(400, gin.H{"error": constant.INVALID_REQUEST})
			return
		}
		user, err := s.GetUserByEmail(c, email)
		if err != nil {
			if errors.Is(err, account.ErrNotFound) {
				c.JSON(404, gin.H{"error": constant.USER_NOT_FOUND})
				return
			}
			c.JSON(400, gin.H{"error": constant.SOMETHING_WENT_WRONG})
			return
		}
		c.JSON(200, user)
	}
}

func getUserByID(s account.Service) func(c *gin.Context) {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Query("id"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": constant.INVALID_REQUEST})
			return
		}
		user, err := s.GetUserByID(c, uint(id))
		if err != nil {
			if errors.Is(err, account.ErrNotFound) {
				c.JSON(404, gin.H{"error": constant.USER_NOT_FOUND})
				return
			}
			c.JSON(400, gin.H{"error": constant.SOMETHING_WENT_WRONG})
			return
		}
		c.JSON(200, user)
	}
}
