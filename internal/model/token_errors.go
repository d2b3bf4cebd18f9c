package model

import "errors"

var (
	// ErrTokenRevoked signals the presented refresh token was revoked.
	ErrTokenRevoked = errors.New("refresh token revoked")
	// ErrTokenExpired signals the presented refresh token expired.
	ErrTokenExpired = errors.New("refresh token expired")
	// ErrTokenMismatch signals the presented refresh token does not match
	// the stored hash.
	ErrTokenMismatch = errors.New("refresh token mismatch")
)
