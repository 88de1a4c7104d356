package graph

// NodeKind names a node type of the host editor.
type NodeKind string

const (
	KindMath       NodeKind = "ShaderNodeMath"
	KindMix        NodeKind = "ShaderNodeMixRGB"
	KindGroupInput NodeKind = "NodeGroupInput"
)

// Attribute fields.
const (
	FieldOperation = "operation"
	FieldBlendType = "blend_type"
)

// Math operations understood by KindMath.
const (
	OpAdd         EnumValue = "ADD"
	OpSubtract    EnumValue = "SUBTRACT"
	OpMultiply    EnumValue = "MULTIPLY"
	OpDivide      EnumValue = "DIVIDE"
	OpMultiplyAdd EnumValue = "MULTIPLY_ADD"
	OpMinimum     EnumValue = "MINIMUM"
	OpMaximum     EnumValue = "MAXIMUM"
	OpCompare     EnumValue = "COMPARE"
	OpGreaterThan EnumValue = "GREATER_THAN"
	OpLessThan    EnumValue = "LESS_THAN"
	OpFloor       EnumValue = "FLOOR"
	OpCeil        EnumValue = "CEIL"
	OpRound       EnumValue = "ROUND"
	OpTrunc       EnumValue = "TRUNC"
	OpModulo      EnumValue = "MODULO"
	OpSqrt        EnumValue = "SQRT"
	OpInverseSqrt EnumValue = "INVERSE_SQRT"
	OpExponent    EnumValue = "EXPONENT"
	OpLogarithm   EnumValue = "LOGARITHM"
	OpSine        EnumValue = "SINE"
	OpCosine      EnumValue = "COSINE"
)

// Blend modes understood by KindMix.
const (
	BlendMix   EnumValue = "MIX"
	BlendValue EnumValue = "VALUE"
)

// Unbounded marks a socket count that grows on demand (group inputs).
const Unbounded = -1

// KindSpec describes the sockets and the enumerated attribute of a kind.
type KindSpec struct {
	Inputs    int
	Outputs   int
	Attribute string
	Values    []EnumValue
	// Template is false for kinds that only the translator itself creates.
	Template bool
}

var kindSpecs = map[NodeKind]KindSpec{
	KindMath: {
		Inputs:    3,
		Outputs:   1,
		Attribute: FieldOperation,
		Values: []EnumValue{
			OpAdd, OpSubtract, OpMultiply, OpDivide, OpMultiplyAdd,
			OpMinimum, OpMaximum, OpCompare, OpGreaterThan, OpLessThan,
			OpFloor, OpCeil, OpRound, OpTrunc, OpModulo,
			OpSqrt, OpInverseSqrt, OpExponent, OpLogarithm, OpSine, OpCosine,
		},
		Template: true,
	},
	KindMix: {
		Inputs:    3,
		Outputs:   1,
		Attribute: FieldBlendType,
		Values:    []EnumValue{BlendMix, BlendValue},
		Template:  true,
	},
	KindGroupInput: {
		Inputs:  0,
		Outputs: Unbounded,
	},
}

// Spec returns the socket layout of kind.
func Spec(kind NodeKind) (KindSpec, bool) {
	s, ok := kindSpecs[kind]
	return s, ok
}

// Accepts reports whether value is a legal setting of field on this kind.
func (s KindSpec) Accepts(field string, value EnumValue) bool {
	if field == "" || field != s.Attribute {
		return false
	}
	for _, v := range s.Values {
		if v == value {
			return true
		}
	}
	return false
}

// HasOutput reports whether index addresses an output socket.
func (s KindSpec) HasOutput(index int) bool {
	if index < 0 {
		return false
	}
	return s.Outputs == Unbounded || index < s.Outputs
}
