package dto

import (
	"time"

	"sigmsg/internal/domain"
)

type CreateMessageRequest struct {
	Content string `json:"content"`
}

// PatchMessageRequest mirrors the client contract for authenticating a
// message: {"message":{"authenticated":true,"authentication_token":"..."}}.
type PatchMessageRequest struct {
	Message struct {
		Authenticated       bool   `json:"authenticated"`
		AuthenticationToken string `json:"authentication_token"`
	} `json:"message"`
}

type MessageResponse struct {
	ID            string    `json:"id"`
	UserID        string    `json:"userId"`
	Content       string    `json:"content"`
	Signature     *string   `json:"signature"`
	Authenticated bool      `json:"authenticated"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func NewMessageResponse(m *domain.Message) MessageResponse {
	return MessageResponse{
		ID:            m.ID.String(),
		UserID:        m.UserID.String(),
		Content:       m.Content,
		Signature:     m.Signature,
		Authenticated: m.Authenticated,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}
