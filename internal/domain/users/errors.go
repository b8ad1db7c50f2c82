package users

import "errors"

var (
	ErrNotFound            = errors.New("user not found")
	ErrDuplicateEmail      = errors.New("email already registered")
	ErrDuplicateEmployeeID = errors.New("employee id already taken")
)
