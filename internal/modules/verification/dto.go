package verification

type ConfirmEmailRequest struct {
	Token string `json:"token" binding:"required"`
}

type ConfirmSMSRequest struct {
	Handle string `json:"handle" binding:"required"`
	Code   string `json:"code" binding:"required"`
}
