package frac

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/fracnet/fracnet/internal/autodiff"
)

// Matrix is a discrete fractional-derivative operator: row i contracted
// with u(x) approximates D^α u at sample point i. Implemented by
// *mat.Dense, *COO and *GradMatrix.
type Matrix interface {
	Dims() (r, c int)
	At(i, j int) float64
}

// COO is a coordinate-list sparse matrix. Entries are stored in assembly
// order; duplicate coordinates are not produced by the builders here.
type COO struct {
	RowIdx []int
	ColIdx []int
	Values []float64
	NumR   int
	NumC   int
}

func (m *COO) Dims() (int, int) { return m.NumR, m.NumC }

func (m *COO) At(i, j int) float64 {
	for k, r := range m.RowIdx {
		if r == i && m.ColIdx[k] == j {
			return m.Values[k]
		}
	}
	return 0
}

// Dense expands the sparse form. The result is numerically identical to
// the dense assembly of the same operator.
func (m *COO) Dense() *mat.Dense {
	d := mat.NewDense(m.NumR, m.NumC, nil)
	for k := range m.Values {
		d.Set(m.RowIdx[k], m.ColIdx[k], m.Values[k])
	}
	return d
}

// GradMatrix is a dense weight matrix whose entries are autodiff
// expressions of the fractional order. It is the differentiable twin of
// the numeric static assembly.
type GradMatrix struct {
	rows [][]*autodiff.Value
}

func (m *GradMatrix) Dims() (int, int) {
	if len(m.rows) == 0 {
		return 0, 0
	}
	return len(m.rows), len(m.rows[0])
}

func (m *GradMatrix) At(i, j int) float64 { return m.rows[i][j].Float() }

// Value returns the expression node at (i, j).
func (m *GradMatrix) Value(i, j int) *autodiff.Value { return m.rows[i][j] }

// Row returns the expression nodes of row i. The slice is shared.
func (m *GradMatrix) Row(i int) []*autodiff.Value { return m.rows[i] }

// RollColumns rotates columns left by k, sharing the underlying nodes.
func (m *GradMatrix) RollColumns(k int) *GradMatrix {
	_, c := m.Dims()
	out := make([][]*autodiff.Value, len(m.rows))
	for i, row := range m.rows {
		nr := make([]*autodiff.Value, c)
		for j := 0; j < c; j++ {
			nr[j] = row[(j+k)%c]
		}
		out[i] = nr
	}
	return &GradMatrix{rows: out}
}

// TrimRows keeps rows [lo, hi).
func (m *GradMatrix) TrimRows(lo, hi int) *GradMatrix {
	return &GradMatrix{rows: m.rows[lo:hi]}
}

// GetMatrix assembles the weight matrix for the operator's mesh type.
// Static meshes return a dense matrix (a *GradMatrix when the order is
// trainable); dynamic meshes return a *COO when sparse is true. Dynamic
// assembly requires SamplePoints to have been called first and rejects a
// trainable order outright.
func (f *Fractional) GetMatrix(sparse bool) (Matrix, error) {
	switch f.disc.Mesh {
	case Static:
		if _, ok := f.order.(*autodiff.Value); ok {
			return f.staticMatrixGrad(), nil
		}
		return f.staticMatrix(), nil
	case Dynamic:
		if _, ok := f.order.(*autodiff.Value); ok {
			return nil, ErrTrainableDynamic
		}
		if f.x == nil {
			return nil, ErrNoSamplePoints
		}
		if sparse {
			return f.dynamicSparse(), nil
		}
		return f.dynamicDense(), nil
	default:
		return nil, ErrMeshType
	}
}

// staticMatrix builds the n×n shifted Grünwald–Letnikov band matrix scaled
// by h^(-α). Rows 0 and n-1 stay zero; boundary conditions replace them
// upstream.
func (f *Fractional) staticMatrix() *mat.Dense {
	n := f.disc.Resolution[0]
	m := mat.NewDense(n, n, nil)
	for i := 1; i <= n-2; i++ {
		left := f.Weights(i)
		for t := 0; t <= i; t++ {
			m.Set(i, 1+t, left[i-t])
		}
		right := f.Weights(n - 1 - i)
		for k := 0; k < len(right); k++ {
			j := i - 1 + k
			m.Set(i, j, m.At(i, j)+right[k])
		}
	}
	h := f.dom.Diameter() / float64(n-1)
	m.Scale(math.Pow(h, -f.order.Float()), m)
	return m
}

// staticMatrixGrad mirrors staticMatrix with rows assembled by
// concatenation over autodiff nodes, so the matrix stays differentiable in
// the order.
func (f *Fractional) staticMatrixGrad() *GradMatrix {
	n := f.disc.Resolution[0]
	av := f.order.(*autodiff.Value)
	h := f.dom.Diameter() / float64(n-1)
	hPow := autodiff.PowConstBase(h, autodiff.Neg(av))

	zero := autodiff.Const(0)
	rows := make([][]*autodiff.Value, n)
	rows[0] = constRow(n, zero)
	rows[n-1] = constRow(n, zero)
	for i := 1; i <= n-2; i++ {
		row := make([]*autodiff.Value, 0, n)
		row = append(row, zero)
		for t := i; t >= 0; t-- {
			row = append(row, f.wInitV[t])
		}
		for len(row) < n {
			row = append(row, zero)
		}
		for k := 0; k < n-i; k++ {
			j := i - 1 + k
			row[j] = autodiff.Add(row[j], f.wInitV[k])
		}
		for j := range row {
			row[j] = autodiff.Mul(hPow, row[j])
		}
		rows[i] = row
	}
	return &GradMatrix{rows: rows}
}

func constRow(n int, v *autodiff.Value) []*autodiff.Value {
	row := make([]*autodiff.Value, n)
	for i := range row {
		row[i] = v
	}
	return row
}

func (f *Fractional) dynamicDense() *mat.Dense {
	m := mat.NewDense(len(f.seeds), len(f.x), nil)
	beg := len(f.seeds)
	for i, wi := range f.w {
		for k, v := range wi {
			m.Set(i, beg+k, v)
		}
		beg += len(wi)
	}
	return m
}

func (f *Fractional) dynamicSparse() *COO {
	total := 0
	for _, wi := range f.w {
		total += len(wi)
	}
	c := &COO{
		RowIdx: make([]int, 0, total),
		ColIdx: make([]int, 0, total),
		Values: make([]float64, 0, total),
		NumR:   len(f.seeds),
		NumC:   len(f.x),
	}
	beg := len(f.seeds)
	for i, wi := range f.w {
		for k, v := range wi {
			c.RowIdx = append(c.RowIdx, i)
			c.ColIdx = append(c.ColIdx, beg+k)
			c.Values = append(c.Values, v)
		}
		beg += len(wi)
	}
	return c
}

// MulVecT contracts the transpose of a weight matrix with a residual
// vector, using the sparse structure when available.
func MulVecT(m Matrix, f []float64) []float64 {
	r, c := m.Dims()
	out := make([]float64, c)
	if coo, ok := m.(*COO); ok {
		for k := range coo.Values {
			out[coo.ColIdx[k]] += coo.Values[k] * f[coo.RowIdx[k]]
		}
		return out
	}
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			out[j] += m.At(i, j) * f[i]
		}
	}
	return out
}

// MulVec contracts a weight matrix with a sample vector, using the sparse
// structure when available.
func MulVec(m Matrix, u []float64) []float64 {
	r, _ := m.Dims()
	out := make([]float64, r)
	if c, ok := m.(*COO); ok {
		for k := range c.Values {
			out[c.RowIdx[k]] += c.Values[k] * u[c.ColIdx[k]]
		}
		return out
	}
	_, cols := m.Dims()
	for i := 0; i < r; i++ {
		s := 0.0
		for j := 0; j < cols; j++ {
			s += m.At(i, j) * u[j]
		}
		out[i] = s
	}
	return out
}
