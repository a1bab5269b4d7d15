package entity

import "time"

// User is a registered marketplace customer.
type User struct {
	UUID      string    `json:"uuid" bson:"uuid"`
	Name      string    `json:"name" bson:"name"`
	Email     string    `json:"email" bson:"email"`
	Wallet    string    `json:"wallet" bson:"wallet"`
	Blocked   bool      `json:"blocked" bson:"blocked"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// Session is the verified login/wallet state for a user.
type Session struct {
	UserUUID string `json:"user_uuid"`
	LoggedIn bool   `json:"logged_in"`
	Wallet   string `json:"wallet"`
}

// HttpUserMsg is an inbound chat message from the web client.
type HttpUserMsg struct {
	UserUUID       string `json:"user_uuid"`
	ConversationId string `json:"conversation_id"`
	Message        string `json:"message"`
}
