// Package models holds the account profile of the signed-in user.
package models

import (
	"net/mail"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	dErrors "companion/pkg/domain-errors"
)

// Profile is a user account with the authentication sources linked to it.
type Profile struct {
	ID          uuid.UUID `json:"id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Email       string    `json:"email"`
	AuthSources []string  `json:"auth_sources"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// HasAuthSource reports whether source is linked, ignoring case.
func (p *Profile) HasAuthSource(source string) bool {
	return slices.ContainsFunc(p.AuthSources, func(s string) bool {
		return strings.EqualFold(s, source)
	})
}

// HistoryEntry records one field change made through UpdateProfile.
type HistoryEntry struct {
	ProfileID uuid.UUID `json:"profile_id"`
	Field     string    `json:"field"`
	OldValue  string    `json:"old_value"`
	NewValue  string    `json:"new_value"`
	ChangedAt time.Time `json:"changed_at"`
}

// History is the change log of a profile, oldest first.
type History struct {
	ProfileID uuid.UUID      `json:"profile_id"`
	Entries   []HistoryEntry `json:"entries"`
}

// UpdateProfileRequest carries the personal info a user may edit.
type UpdateProfileRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// Normalize trims whitespace and lowercases the email.
func (r *UpdateProfileRequest) Normalize() {
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

// Validate requires both names and a parseable email address.
func (r *UpdateProfileRequest) Validate() error {
	if r.FirstName == "" {
		return dErrors.New(dErrors.CodeValidation, "first_name is required")
	}
	if r.LastName == "" {
		return dErrors.New(dErrors.CodeValidation, "last_name is required")
	}
	return ValidateEmail(r.Email)
}

// SignInRequest identifies the user and the provider they signed in with.
type SignInRequest struct {
	Email      string `json:"email"`
	AuthSource string `json:"auth_source"`
}

func (r *SignInRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.AuthSource = strings.ToLower(strings.TrimSpace(r.AuthSource))
}

func (r *SignInRequest) Validate() error {
	if err := ValidateEmail(r.Email); err != nil {
		return err
	}
	if r.AuthSource == "" {
		return dErrors.New(dErrors.CodeValidation, "auth_source is required")
	}
	return nil
}

// LinkAuthSourceRequest names a social provider to link.
type LinkAuthSourceRequest struct {
	Source string `json:"source"`
}

func ValidateEmail(email string) error {
	if email == "" {
		return dErrors.New(dErrors.CodeValidation, "email is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || !strings.Contains(email, "@") {
		return dErrors.New(dErrors.CodeValidation, "email is invalid")
	}
	return nil
}
