package domain

import "errors"

var (
	ErrNotFound      = errors.New("booking: not found")
	ErrUnauthorized  = errors.New("booking: unauthorized")
	ErrForbidden     = errors.New("booking: forbidden")
	ErrRateLimited   = errors.New("booking: rate limited")
	ErrLoginRequired = errors.New("booking: login required")
)
