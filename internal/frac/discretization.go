package frac

// MeshType selects the meshing regime of a discretization.
type MeshType int

const (
	// Static uses a fixed uniform 1-D grid including both endpoints.
	Static MeshType = iota
	// Dynamic builds a quadrature mesh around arbitrary interior points.
	Dynamic
)

func (t MeshType) String() string {
	switch t {
	case Static:
		return "static"
	case Dynamic:
		return "dynamic"
	default:
		return "unknown"
	}
}

// Discretization describes the space discretization scheme. It is a pure
// value object, validated once at construction and immutable after.
type Discretization struct {
	Dim        int
	Mesh       MeshType
	Resolution []int
	NumAnchors int
}

// NewDiscretization validates and builds a Discretization.
func NewDiscretization(dim int, mesh MeshType, resolution []int, numAnchors int) (Discretization, error) {
	d := Discretization{Dim: dim, Mesh: mesh, Resolution: resolution, NumAnchors: numAnchors}
	if mesh != Static && mesh != Dynamic {
		return Discretization{}, ErrMeshType
	}
	if dim >= 2 && mesh == Static {
		return Discretization{}, ErrStaticDim
	}
	if len(resolution) != dim {
		return Discretization{}, ErrResolution
	}
	return d, nil
}
