package service

import "errors"

// Sentinel errors mapped to HTTP responses at the handler layer.
var (
	// ErrNotFound covers unknown IDs and unknown short codes.
	ErrNotFound = errors.New("qr code not found")

	// ErrEmailTaken is returned on duplicate registration.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials covers unknown email and wrong password alike.
	ErrInvalidCredentials = errors.New("invalid email or password")
)
