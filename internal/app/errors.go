package service

import "errors"

// Sentinel kinds for pipeline failures.
var (
	ErrInvalidInputs = errors.New("invalid pipeline inputs")
)
