package entity

import (
	"github.com/google/uuid"
)

// db model
type User struct {
	Id          uuid.UUID `json:"id" db:"id"`
	Email       string    `json:"email" db:"email"`
	DisplayName string    `json:"displayName" db:"display_name"`
	UserType    string    `json:"userType" db:"user_type"`
	KycStatus   string    `json:"kycStatus" db:"kyc_status"`
	CreatedAt   string    `json:"createdAt" db:"created_at"`
}

// service + repo input model
type CreateUserInput struct {
	Id          string // given, assigned by the identity provider
	Email       string // given
	DisplayName string // given
	UserType    string // given: "contractor" or "provider"
	KycStatus   string // should be set: "pending"
	// CreatedAt sets automatically
}

// controller model
type UserOutputModel struct {
	Id          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	UserType    string `json:"userType"`
	KycStatus   string `json:"kycStatus"`
	CreatedAt   string `json:"createdAt"`
}
