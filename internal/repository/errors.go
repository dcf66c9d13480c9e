package repository

import "errors"

var (
	ErrNotFound      = errors.New("record not found")
	ErrSeedImmutable = errors.New("built-in records cannot be modified")
	ErrQuotaMismatch = errors.New("quota does not add up to total questions")
	ErrInvalidRecord = errors.New("invalid record")
)
