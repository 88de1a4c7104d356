package catalog

import "errors"

var (
	ErrMalformedTemplate = errors.New("malformed template")
	ErrDuplicateOpcode   = errors.New("opcode already declared")
	ErrUnknownOpcode     = errors.New("unknown opcode")
)
