package graph

import "errors"

var (
	ErrUnknownKind      = errors.New("unknown node kind")
	ErrDuplicateName    = errors.New("duplicate node name")
	ErrUnknownNode      = errors.New("unknown node")
	ErrAttribute        = errors.New("invalid attribute")
	ErrInputIndex       = errors.New("input index out of range")
	ErrOutputIndex      = errors.New("output index out of range")
	ErrUnsupportedValue = errors.New("unsupported socket value")
)
