package constant

const (
	REGISTERED        = "User registered successfully. Please verify your email."
	EMAIL_VERIFIED    = "Email verified successfully. You can now log in."
	SIGNED_IN         = "User signed in successfully."
	RESET_CODE_SENT   = "Password reset code sent. Please check your email."
	RESET_VERIFIED    = "Reset code verified successfully. You can now reset your password."
	PASSWORD_RESET    = "Password reset successfully."
	VERIFICATION_SENT = "Verification code sent. Please check your email."

	USER_NOT_FOUND       = "User not found."
	INVALID_CODE         = "Invalid verification code."
	CODE_EXPIRED         = "Verification code has expired."
	INVALID_RESET_CODE   = "Invalid reset code."
	RESET_CODE_EXPIRED   = "Reset code expired."
	RESET_NOT_VERIFIED   = "Reset code not verified."
	INVALID_CREDENTIALS  = "Invalid email or password."
	NOT_VERIFIED         = "Account not verified. Please check your email."
	ALREADY_VERIFIED     = "Account is already verified."
	EMAIL_EXISTS         = "Email already exists"
	NATIONAL_ID_EXISTS   = "National id already exists"
	DELIVERY_FAILED      = "Verification email could not be delivered. Request a new code."
	SOMETHING_WENT_WRONG = "something went wrong"

	INVALID_REQUEST      = "Invalid request payload"
	INVALID_EMAIL        = "Invalid email format."
	INVALID_PASSWORD     = "Password must contain at least 10 characters, including 1 uppercase letter, 1 lowercase letter, and 1 special character."
	INVALID_PHONE_NUMBER = "Phone number must be exactly 10 digits."

	PAGE_NUMBER_OUT_OF_RANGE = "page number out of range"
)
