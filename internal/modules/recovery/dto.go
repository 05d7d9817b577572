package recovery

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required"`
}

type ForgotEmailRequest struct {
	PhoneNumber string `json:"phone_number" binding:"required"`
	BirthDate   string `json:"birth_date" binding:"required"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	Code        string `json:"code" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}
