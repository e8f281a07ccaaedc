package tools

import "errors"

var (
	ErrToolNotFound          = errors.New("tool not found")
	ErrToolAlreadyRegistered = errors.New("tool already registered")
	ErrToolNameEmpty         = errors.New("tool name is empty")
	ErrInvalidArguments      = errors.New("invalid tool arguments")
)
