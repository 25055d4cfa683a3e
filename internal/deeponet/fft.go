package deeponet

import (
	"errors"

	"gonum.org/v1/gonum/dsp/fourier"
)

// ErrFFTLength indicates an FFT length that is not a power of two.
var ErrFFTLength = errors.New("deeponet: fft length must be a power of two")

func fft(data []complex128) []complex128 {
	t := fourier.NewCmplxFFT(len(data))
	return t.Coefficients(nil, data)
}

func ifft(data []complex128) []complex128 {
	n := len(data)
	t := fourier.NewCmplxFFT(n)
	out := t.Sequence(nil, data)
	for i := range out {
		out[i] /= complex(float64(n), 0)
	}
	return out
}

// irfft inverts a real-signal half spectrum onto n output points. The half
// spectrum may be shorter than n/2+1; missing modes are zero.
func irfft(half []complex128, n int) ([]float64, error) {
	if n&(n-1) != 0 || n == 0 {
		return nil, ErrFFTLength
	}
	padded := make([]complex128, n/2+1)
	for k, v := range half {
		if k > n/2 {
			break
		}
		padded[k] = v
	}
	t := fourier.NewFFT(n)
	out := t.Sequence(nil, padded)
	for i := range out {
		out[i] /= float64(n)
	}
	return out, nil
}

// irfft2 inverts a 2-D half spectrum of shape (m1 x m2) onto an (r x c)
// grid: inverse FFT over columns of the zero-padded full spectrum, then
// irfft over rows.
func irfft2(spec [][]complex128, r, c int) ([][]float64, error) {
	if r&(r-1) != 0 || r == 0 {
		return nil, ErrFFTLength
	}
	m2 := len(spec[0])
	// zero-pad rows to r and transform each column
	cols := make([][]complex128, m2)
	for j := 0; j < m2; j++ {
		col := make([]complex128, r)
		for i := range spec {
			if i < r {
				col[i] = spec[i][j]
			}
		}
		cols[j] = ifft(col)
	}
	out := make([][]float64, r)
	for i := 0; i < r; i++ {
		row := make([]complex128, m2)
		for j := 0; j < m2; j++ {
			row[j] = cols[j][i]
		}
		y, err := irfft(row, c)
		if err != nil {
			return nil, err
		}
		out[i] = y
	}
	return out, nil
}
