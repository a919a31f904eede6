package session

import "errors"

var (
	ErrUnknownDriver         = errors.New("unknown session driver")
	ErrEmptyConnectionString = errors.New("empty connection string")
	ErrFailedToParseConfig   = errors.New("failed to parse connection config")
	ErrFailedToConnect       = errors.New("failed to connect")
	ErrHealthcheckFailed     = errors.New("healthcheck failed, connection is not available")
)
