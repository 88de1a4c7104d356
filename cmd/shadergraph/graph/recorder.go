package graph

import (
	"fmt"
	"sort"
	"strings"
)

// Node is a node held by a Recorder.
type Node struct {
	Handle     NodeHandle
	Name       string
	Kind       NodeKind
	Attributes map[string]EnumValue
	// Inputs maps input socket index to its value (Literal or OutputRef).
	Inputs map[int]Value
	// Outputs is the number of output sockets referenced so far (group inputs grow).
	Outputs int
}

// Call is one Port call as seen by a Recorder, rendered with node names.
type Call struct {
	Method string
	Args   string
}

func (c Call) String() string {
	return c.Method + " " + c.Args
}

// Recorder is an in-memory Port. It validates every call against the
// kind specs, keeps the resulting graph and a log of accepted calls.
// Rejected calls are not logged.
type Recorder struct {
	nodes []*Node
	names map[string]NodeHandle
	calls []Call
}

var _ Port = (*Recorder)(nil)

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{names: make(map[string]NodeHandle)}
}

func (r *Recorder) CreateNode(name string, kind NodeKind) (NodeHandle, error) {
	spec, ok := Spec(kind)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
	if name == "" {
		return 0, fmt.Errorf("%w: empty name", ErrDuplicateName)
	}
	if _, exists := r.names[name]; exists {
		return 0, fmt.Errorf("%w: %s", ErrDuplicateName, name)
	}
	h := NodeHandle(len(r.nodes))
	outputs := spec.Outputs
	if outputs == Unbounded {
		outputs = 0
	}
	r.nodes = append(r.nodes, &Node{
		Handle:     h,
		Name:       name,
		Kind:       kind,
		Attributes: map[string]EnumValue{},
		Inputs:     map[int]Value{},
		Outputs:    outputs,
	})
	r.names[name] = h
	r.log("create_node", "%s %s", name, kind)
	return h, nil
}

func (r *Recorder) SetAttribute(node NodeHandle, field string, value EnumValue) error {
	n, err := r.node(node)
	if err != nil {
		return err
	}
	spec, _ := Spec(n.Kind)
	if !spec.Accepts(field, value) {
		return fmt.Errorf("%w: %s.%s = %s", ErrAttribute, n.Name, field, value)
	}
	n.Attributes[field] = value
	r.log("set_attribute", "%s.%s = %s", n.Name, field, value)
	return nil
}

func (r *Recorder) SetInput(node NodeHandle, index int, value Value) error {
	n, err := r.node(node)
	if err != nil {
		return err
	}
	spec, _ := Spec(n.Kind)
	if index < 0 || index >= spec.Inputs {
		return fmt.Errorf("%w: %s.inputs[%d]", ErrInputIndex, n.Name, index)
	}
	switch v := value.(type) {
	case Literal:
	case OutputRef:
		src, err := r.node(v.Node)
		if err != nil {
			return err
		}
		if v.Index < 0 || v.Index >= src.Outputs {
			return fmt.Errorf("%w: %s.outputs[%d]", ErrOutputIndex, src.Name, v.Index)
		}
	default:
		return fmt.Errorf("%w: %s.inputs[%d] = %v", ErrUnsupportedValue, n.Name, index, value)
	}
	n.Inputs[index] = value
	r.log("set_input", "%s.inputs[%d] = %s", n.Name, index, r.Describe(value))
	return nil
}

func (r *Recorder) OutputRef(node NodeHandle, index int) (OutputRef, error) {
	n, err := r.node(node)
	if err != nil {
		return OutputRef{}, err
	}
	spec, _ := Spec(n.Kind)
	if !spec.HasOutput(index) {
		return OutputRef{}, fmt.Errorf("%w: %s.outputs[%d]", ErrOutputIndex, n.Name, index)
	}
	if spec.Outputs == Unbounded && index >= n.Outputs {
		n.Outputs = index + 1
	}
	r.log("output_ref", "%s.outputs[%d]", n.Name, index)
	return OutputRef{Node: node, Index: index}, nil
}

// Describe renders v using node names instead of handles.
func (r *Recorder) Describe(v Value) string {
	ref, ok := v.(OutputRef)
	if !ok {
		if v == nil {
			return "<nil>"
		}
		return v.String()
	}
	n, err := r.node(ref.Node)
	if err != nil {
		return ref.String()
	}
	return fmt.Sprintf("%s.outputs[%d]", n.Name, ref.Index)
}

// Calls returns a copy of the accepted call log.
func (r *Recorder) Calls() []Call {
	return append([]Call(nil), r.calls...)
}

// Nodes returns the nodes in creation order.
func (r *Recorder) Nodes() []Node {
	out := make([]Node, len(r.nodes))
	for i, n := range r.nodes {
		out[i] = *n
	}
	return out
}

// Lookup returns the node registered under name.
func (r *Recorder) Lookup(name string) (Node, bool) {
	h, ok := r.names[name]
	if !ok {
		return Node{}, false
	}
	return *r.nodes[h], true
}

// Len returns the number of nodes.
func (r *Recorder) Len() int { return len(r.nodes) }

// NodeNames returns all node names, sorted.
func (r *Recorder) NodeNames() []string {
	names := make([]string, 0, len(r.names))
	for name := range r.names {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Recorder) node(h NodeHandle) (*Node, error) {
	if h < 0 || int(h) >= len(r.nodes) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownNode, h)
	}
	return r.nodes[h], nil
}

func (r *Recorder) log(method, format string, args ...any) {
	r.calls = append(r.calls, Call{Method: method, Args: strings.TrimSpace(fmt.Sprintf(format, args...))})
}
