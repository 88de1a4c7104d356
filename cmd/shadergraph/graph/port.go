package graph

import (
	"fmt"
	"strconv"
)

// Port is the graph-construction capability driven by the translator.
// Implementations allocate nodes inside a host node editor; calls are
// synchronous and never block on I/O.
//
// Name passed to CreateNode is unique per graph: the caller namespaces it.
type Port interface {
	CreateNode(name string, kind NodeKind) (NodeHandle, error)
	SetAttribute(node NodeHandle, field string, value EnumValue) error
	SetInput(node NodeHandle, index int, value Value) error
	OutputRef(node NodeHandle, index int) (OutputRef, error)
}

// NodeHandle identifies a node created by a Port.
type NodeHandle int

// EnumValue is an enumerated attribute value, e.g. a math operation.
type EnumValue string

// Value is what a register or an input socket can hold.
// Only Literal, OutputRef and Resource implement it.
type Value interface {
	isValue()
	String() string
}

// Literal is a constant float socket value.
type Literal float64

// OutputRef references output socket Index of Node.
type OutputRef struct {
	Node  NodeHandle
	Index int
}

// Resource is an opaque texture/buffer handle. It only travels through
// pass-through templates; ports reject it as a socket value.
type Resource string

func (Literal) isValue()   {}
func (OutputRef) isValue() {}
func (Resource) isValue()  {}

func (l Literal) String() string {
	return strconv.FormatFloat(float64(l), 'g', -1, 64)
}

func (r OutputRef) String() string {
	return fmt.Sprintf("node(%d).outputs[%d]", r.Node, r.Index)
}

func (r Resource) String() string {
	return "resource(" + string(r) + ")"
}
