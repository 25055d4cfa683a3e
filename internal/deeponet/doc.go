// Package deeponet implements deep operator networks: branch/trunk
// architectures that learn operators between function spaces.
//
// [DeepONet] pairs a branch net encoding the input function with a trunk
// net encoding the evaluation location and combines them with a dot
// product. [DeepONetCartesianProd] evaluates every function sample at every
// location in one product. [FourierDeepONetCartesianProd] adds a second
// branch whose output is interpreted as a Fourier half-spectrum and pushed
// through an inverse real FFT onto the output grid.
package deeponet
