package dtos

// DTO for user registration
type DTOForUserRegister struct {
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email" binding:"required,isemail"`
	NationalID  string `json:"nationalId" binding:"required"`
	Address     string `json:"address"`
	PhoneNumber string `json:"phoneNumber" binding:"required,isphone"`
	Password    string `json:"password" binding:"required,ispassword"`
	Role        string `json:"role" binding:"omitempty,oneof=SALESMAN ACCOUNTANT"`
}

// DTO for user sign-in
type DTOForUserSignIn struct {
	Email    string `json:"email" binding:"required,isemail"`
	Password string `json:"password" binding:"required"`
}
