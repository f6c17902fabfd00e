// File: internal/dtos/requests.go
package dtos

import "github.com/go-playground/validator/v10"

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate runs struct tag validation on any request DTO.
func Validate(req any) error {
	return validate.Struct(req)
}

// RegisterRequest is the payload for creating a new account.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=32"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// LoginRequest is the credential payload for obtaining a token.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// CreateChatRequest is the payload for opening a new chat room.
type CreateChatRequest struct {
	Name string `json:"name" validate:"required,min=1,max=128"`
}

// EditChatRequest carries the mutable chat attributes. Pointer fields
// distinguish "absent" from "set to empty".
type EditChatRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=128"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=1024"`
	AvatarURL   *string `json:"avatarUrl,omitempty" validate:"omitempty,max=2048"`
}

// Fields converts the request into the column patch understood by the
// chat service. Only fields present in the JSON body are included.
func (r EditChatRequest) Fields() map[string]any {
	patch := make(map[string]any, 3)
	if r.Name != nil {
		patch["name"] = *r.Name
	}
	if r.Description != nil {
		patch["description"] = *r.Description
	}
	if r.AvatarURL != nil {
		patch["avatarUrl"] = *r.AvatarURL
	}
	return patch
}

// AddParticipantRequest is the payload for inviting a user into a chat.
type AddParticipantRequest struct {
	UserID string `json:"userId" validate:"required"`
}

// SendMessageRequest is the payload for posting a message to a chat.
// Clients send "content"; responses alias it to "text".
type SendMessageRequest struct {
	Content string `json:"content" validate:"required,max=4096"`
}

// EditMessageRequest is the payload for replacing a message body.
type EditMessageRequest struct {
	Content string `json:"content" validate:"required,max=4096"`
}
