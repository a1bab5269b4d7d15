package entity

import "time"

// Chat message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Artifact kinds carried in the chat transcript.
const (
	KindText         = "text"
	KindProgress     = "order_progress"
	KindRetryError   = "order_retry_error"
	KindLoginError   = "order_login_error"
	KindError        = "order_error"
	KindConfirmation = "order_confirmation"
)

// ChatMessage is one unit of conversation content: plain text, a flow
// progress artifact, an interactive form, an error, or a confirmation.
type ChatMessage struct {
	Id             string    `json:"id" bson:"id"`
	ConversationId string    `json:"conversation_id" bson:"conversation_id"`
	UserUUID       string    `json:"user_uuid" bson:"user_uuid"`
	Role           string    `json:"role" bson:"role"`
	Kind           string    `json:"kind" bson:"kind"`
	Text           string    `json:"text,omitempty" bson:"text,omitempty"`
	Content        any       `json:"content,omitempty" bson:"content,omitempty"`
	CreatedAt      time.Time `json:"created_at" bson:"created_at"`
}
