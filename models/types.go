package models

import "time"

// Request types

type CheckUserRequest struct {
	Phone string `json:"phone" validate:"required"`
}

type RegisterEmailRequest struct {
	Phone string `json:"phone" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

// Response types

type CheckUserResponse struct {
	Found   bool   `json:"found"`
	Name    string `json:"name,omitempty"`
	Message string `json:"message"`
}

type RegisterEmailResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// DeliveryResult reports whether the giver's email went out.
// The receiver is deliberately absent.
type DeliveryResult struct {
	Giver   string `json:"giver"`
	Success bool   `json:"success"`
}

type DrawResponse struct {
	Success bool             `json:"success"`
	Message string           `json:"message"`
	DrawID  string           `json:"draw_id,omitempty"`
	Results []DeliveryResult `json:"results,omitempty"`
}

type StatusResponse struct {
	Total      int      `json:"total"`
	Registered int      `json:"registered"`
	Pending    []string `json:"pending"`
	LastDraw   *DrawRun `json:"last_draw,omitempty"`
}

// Domain types

// Participant is one entrant in the exchange. Phone is the identity key
// used by the registration flow; Email is filled in by the participant.
type Participant struct {
	Phone             string `json:"phone"`
	Name              string `json:"name"`
	ExcludedRecipient string `json:"excluded_recipient,omitempty"`
	Email             string `json:"email,omitempty"`
}

// Registered reports whether the participant has left an email address.
func (p Participant) Registered() bool {
	return p.Email != ""
}

// DrawRun is the audit record of a completed draw.
type DrawRun struct {
	ID           string    `json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	Participants int       `json:"participants"`
	EmailsSent   int       `json:"emails_sent"`
	EmailsFailed int       `json:"emails_failed"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
