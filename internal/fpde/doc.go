// Package fpde orchestrates batch generation and loss composition for
// physics-informed training of fractional PDEs.
//
// A [Data] owns one fractional operator per split (train, test), draws the
// boundary anchors and interior points of each batch, evaluates the target
// function over them, and composes the two-part loss: a supervised residual
// on the anchor segment and a fractional-PDE residual on the interior
// segment, contracted against the split's integral matrix.
package fpde
