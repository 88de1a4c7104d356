package translate

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedOpcode: the opcode has no instantiable section. The
	// caller decides whether to skip or abort.
	ErrUnsupportedOpcode = errors.New("unsupported opcode")
	// ErrOperandIndexOutOfRange: a template references §p<n> past the
	// instruction's operand list.
	ErrOperandIndexOutOfRange = errors.New("operand index out of range")
	// ErrUnboundRegister: a register is read before any instruction wrote it.
	ErrUnboundRegister = errors.New("unbound register")
	// ErrInstantiationFailed: the port rejected a call, or the instruction
	// could not be bound to the template.
	ErrInstantiationFailed = errors.New("instantiation failed")
	// ErrInstanceReused: the same (opcode, instance) pair was instantiated twice.
	ErrInstanceReused = errors.New("instance id reused")
)

// InstantiationError is returned when an instantiation aborts. It matches
// ErrInstantiationFailed and unwraps to the cause.
type InstantiationError struct {
	Opcode   string
	Instance uint64
	Err      error
}

func (e *InstantiationError) Error() string {
	return fmt.Sprintf("phase=instantiate path=%s#%d: %v: %v", e.Opcode, e.Instance, ErrInstantiationFailed, e.Err)
}

func (e *InstantiationError) Unwrap() error { return e.Err }

func (e *InstantiationError) Is(target error) bool { return target == ErrInstantiationFailed }
