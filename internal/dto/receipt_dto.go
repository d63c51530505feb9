package dto

type EmailReceiptRequest struct {
	To string `json:"to" validate:"required,email"`
}
