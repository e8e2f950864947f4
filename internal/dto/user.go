package dto

import (
	"time"

	"sigmsg/internal/domain"
)

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UpdateUserRequest struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`
}

type UserResponse struct {
	ID                 string              `json:"id"`
	Name               string              `json:"name"`
	Email              string              `json:"email"`
	TOTPActivated      bool                `json:"totpActivated"`
	U2FActivated       bool                `json:"u2fActivated"`
	MultiFactorMethods []domain.FactorKind `json:"multiFactorMethods"`
	PublicKey          string              `json:"publicKey"`
	CreatedAt          time.Time           `json:"createdAt"`
}

func NewUserResponse(u *domain.User) UserResponse {
	methods := u.MultiFactorMethods()
	if methods == nil {
		methods = []domain.FactorKind{}
	}
	return UserResponse{
		ID:                 u.ID.String(),
		Name:               u.Name,
		Email:              u.Email,
		TOTPActivated:      u.TOTPActivated,
		U2FActivated:       u.U2FActivated,
		MultiFactorMethods: methods,
		PublicKey:          u.PublicKey,
		CreatedAt:          u.CreatedAt,
	}
}
