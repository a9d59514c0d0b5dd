// Package analysis extracts periodicities from stored runs. It works
// on the float64 snapshot series like every other post-run consumer;
// the decimal engine is only involved in producing the trajectories.
package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// Spectrum returns the magnitude spectrum of a series over its
// positive frequencies. The series is zero-padded to a power of two
// and the mean removed first, so the DC bin does not swamp the
// orbital peaks.
func Spectrum(series []float64) []float64 {
	if len(series) == 0 {
		return nil
	}

	n := 1
	for n < len(series) {
		n *= 2
	}
	padded := make([]float64, n)
	copy(padded, series)

	mean := 0.0
	for _, v := range series {
		mean += v
	}
	mean /= float64(len(series))
	for i := range series {
		padded[i] -= mean
	}

	spectrum := fft.FFTReal(padded)
	ps := make([]float64, n/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}
	return ps
}
