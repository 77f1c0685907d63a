package domain

import "errors"

var (
	ErrNotFound       = errors.New("not found")
	ErrInvalidStage   = errors.New("invalid applicant stage")
	ErrInvalidChannel = errors.New("invalid message channel")
	ErrGatewayFailure = errors.New("gateway failure")
)
