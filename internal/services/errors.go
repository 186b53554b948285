package services

import "errors"

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrDuplicateAccount    = errors.New("username already exists")
	ErrPasswordMismatch    = errors.New("passwords do not match")
	ErrInvalidRegistration = errors.New("username and email are required")
	ErrInvalidCredentials  = errors.New("invalid username or password")
	ErrInvalidTitle        = errors.New("task title cannot be empty")
	ErrInvalidStatus       = errors.New("task status cannot be empty")
	ErrTaskHasIdentity     = errors.New("task already has an identity")
	ErrInvalidToken        = errors.New("invalid or expired token")
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
)
