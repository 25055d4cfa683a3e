package frac

import "errors"

// Configuration errors are raised at construction time and signal an
// invalid discretization; precondition errors signal caller misuse. Neither
// is ever recovered from.
var (
	// ErrMeshType indicates an unknown mesh type.
	ErrMeshType = errors.New("frac: unknown mesh type")
	// ErrStaticDim indicates a static mesh in more than one dimension.
	ErrStaticDim = errors.New("frac: static mesh is supported in one dimension only")
	// ErrResolution indicates a resolution list whose length does not match the dimension.
	ErrResolution = errors.New("frac: resolution does not match dimension")
	// ErrSeeds indicates interior seed points passed to a static mesh, or missing for a dynamic one.
	ErrSeeds = errors.New("frac: interior seeds are required for dynamic meshes and forbidden for static ones")
	// ErrBoundarySeed indicates an interior seed lying exactly on the domain boundary.
	ErrBoundarySeed = errors.New("frac: seed point lies on the domain boundary")
	// ErrNoSamplePoints indicates a matrix was requested before the sample points were generated.
	ErrNoSamplePoints = errors.New("frac: sample points not generated yet")
	// ErrCorrectionOrder indicates an unsupported boundary-correction order.
	ErrCorrectionOrder = errors.New("frac: boundary-correction order must be 1, 2 or 3")
	// ErrTrainableDynamic indicates a trainable order on a dynamic mesh, whose
	// weights depend on the order through the quadrature layout itself.
	ErrTrainableDynamic = errors.New("frac: trainable order requires a static mesh")
	// ErrDimension indicates a spatial dimension without a quadrature-direction rule.
	ErrDimension = errors.New("frac: no quadrature rule for dimension")
)
