package models

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// User is a user of the example application
type User struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name" validate:"required,max=100"`
	Email     *string   `json:"email,omitempty" db:"email" validate:"omitempty,email"`
	CreatedAt time.Time `json:"-" db:"created_at"`
	UpdatedAt time.Time `json:"-" db:"updated_at"`
}

// CreateUserRequest is the body accepted when creating a user
type CreateUserRequest struct {
	Name  string  `json:"name" validate:"required,max=100"`
	Email *string `json:"email,omitempty" validate:"omitempty,email"`
}

// Normalize trims surrounding whitespace and drops an empty email
func (r *CreateUserRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	if r.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*r.Email))
		if email == "" {
			r.Email = nil
		} else {
			r.Email = &email
		}
	}
}

// Validate checks the request; failures are validator.ValidationErrors
func (r *CreateUserRequest) Validate() error {
	return validate.Struct(r)
}

// ToUser converts the request into a new, unsaved user
func (r *CreateUserRequest) ToUser() *User {
	now := time.Now().UTC()
	return &User{
		Name:      r.Name,
		Email:     r.Email,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate validates the user data
func (u *User) Validate() error {
	return validate.Struct(u)
}
