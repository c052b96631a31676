package analysis

import (
	"math"
	"math/cmplx"
)

// FFT is a radix-2 transform. Input whose length is not a power of two is
// zero-padded up to the next one.
func FFT(data []float64) []complex128 {
	n := 1
	for n < len(data) {
		n <<= 1
	}
	padded := make([]float64, n)
	copy(padded, data)
	if len(data) == 0 {
		return nil
	}
	return fft(padded)
}

func fft(data []float64) []complex128 {
	n := len(data)
	if n == 1 {
		return []complex128{complex(data[0], 0)}
	}

	even := make([]float64, n/2)
	odd := make([]float64, n/2)
	for i := 0; i < n/2; i++ {
		even[i] = data[2*i]
		odd[i] = data[2*i+1]
	}

	feven := fft(even)
	fodd := fft(odd)

	result := make([]complex128, n)
	for k := 0; k < n/2; k++ {
		w := cmplx.Exp(complex(0, -2*math.Pi*float64(k)/float64(n)))
		result[k] = feven[k] + w*fodd[k]
		result[k+n/2] = feven[k] - w*fodd[k]
	}
	return result
}

// PowerSpectrum returns the magnitude of the first half of the transform.
// Bin k is k/(N*dt) Hz where N is the padded length.
func PowerSpectrum(data []float64) []float64 {
	f := FFT(data)
	ps := make([]float64, len(f)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(f[i])
	}
	return ps
}

// DominantFrequency returns the strongest non-DC frequency in Hz of a signal
// sampled every dt seconds. The mean is removed first. It returns 0 for
// signals too short to resolve or with no variation.
func DominantFrequency(data []float64, dt float64) float64 {
	if len(data) < 4 || dt <= 0 {
		return 0
	}

	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(len(data))
	centred := make([]float64, len(data))
	for i, v := range data {
		centred[i] = v - mean
	}

	ps := PowerSpectrum(centred)
	best, bestMag := 0, 1e-9
	for k := 1; k < len(ps); k++ {
		if ps[k] > bestMag {
			best, bestMag = k, ps[k]
		}
	}
	n := 2 * len(ps)
	return float64(best) / (float64(n) * dt)
}
