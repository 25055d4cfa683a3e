package frac

import (
	"errors"
	"testing"
)

func TestNewDiscretization(t *testing.T) {
	tests := []struct {
		name    string
		dim     int
		mesh    MeshType
		res     []int
		anchors int
		wantErr error
	}{
		{"static 1d", 1, Static, []int{101}, 2, nil},
		{"dynamic 1d", 1, Dynamic, []int{100}, 2, nil},
		{"dynamic 2d", 2, Dynamic, []int{8, 100}, 10, nil},
		{"dynamic 3d", 3, Dynamic, []int{6, 6, 60}, 20, nil},
		{"static 2d", 2, Static, []int{8, 100}, 0, ErrStaticDim},
		{"resolution mismatch", 2, Dynamic, []int{100}, 0, ErrResolution},
		{"empty resolution", 1, Dynamic, nil, 0, ErrResolution},
		{"bad mesh", 1, MeshType(7), []int{10}, 0, ErrMeshType},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d, err := NewDiscretization(tc.dim, tc.mesh, tc.res, tc.anchors)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("error = %v, want %v", err, tc.wantErr)
			}
			if err == nil && d.Dim != tc.dim {
				t.Errorf("dim = %d, want %d", d.Dim, tc.dim)
			}
		})
	}
}

func TestMeshTypeString(t *testing.T) {
	if Static.String() != "static" || Dynamic.String() != "dynamic" {
		t.Errorf("unexpected names: %s, %s", Static, Dynamic)
	}
	if MeshType(7).String() != "unknown" {
		t.Errorf("expected unknown, got %s", MeshType(7))
	}
}
