package model

import "time"

// User is an account of the catalog backend.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name,omitempty"`
	Email        string    `json:"email,omitempty"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	Phone        string    `json:"phone,omitempty"`
	Stores       []any     `json:"stores"`
	CreatedAt    time.Time `json:"-"`
}

// Roles.
const (
	RoleAdmin    = "ADMIN"
	RoleCustomer = "CUSTOMER"
)

// AuthResponse is returned by login and bootstrap.
type AuthResponse struct {
	AccessToken string `json:"access_token"`
	User        User   `json:"user"`
}
