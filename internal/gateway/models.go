package gateway

import "strings"

// Identity is the pair a user logs in with. ID travels as rollNumber on
// the wire.
type Identity struct {
	ID   string
	Name string
}

// Normalize trims surrounding whitespace from both parts.
func (i Identity) Normalize() Identity {
	return Identity{ID: strings.TrimSpace(i.ID), Name: strings.TrimSpace(i.Name)}
}

// Ack is the gateway's answer to a successful registration.
type Ack struct {
	Message string `json:"message"`
}

// createUserRequest is the body of POST /create-user.
type createUserRequest struct {
	RollNumber string `json:"rollNumber"`
	Name       string `json:"name"`
}

// messageBody is the shape of every error body the gateway returns.
type messageBody struct {
	Message string `json:"message"`
}
