package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound         = errors.New("entity not found")
	ErrAlreadyExists    = errors.New("entity already exists")
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrQuotaExceeded    = errors.New("free tier subscription limit reached")
	ErrOperationFailed  = errors.New("operation failed")
	ErrReadDatabaseRow  = errors.New("failed to read database row")
	ErrUnsupportedStore = errors.New("unsupported storage driver")
)
