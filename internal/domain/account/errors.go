package account

import "errors"

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrUsernameMissing = errors.New("username is required")
)
