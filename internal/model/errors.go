package model

import "errors"

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrEmailTaken is returned by UserStore.Create on a duplicate email.
	ErrEmailTaken = errors.New("email is already taken")
	// ErrInvalidUser is returned when a User is constructed without required fields.
	ErrInvalidUser = errors.New("invalid user")
	// ErrInvalidProfile is returned when a Profile is constructed without required fields.
	ErrInvalidProfile = errors.New("invalid profile")
	// ErrInvalidToken is returned when a token is malformed, tampered with, expired or of the wrong type.
	ErrInvalidToken = errors.New("invalid token")
)
