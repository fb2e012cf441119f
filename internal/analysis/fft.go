package analysis

import (
	"math"
	"math/cmplx"
)

func FFT(data []float64) []complex128 {
	n := len(data)
	if n <= 1 {
		result := make([]complex128, n)
		for i := range data {
			result[i] = complex(data[i], 0)
		}
		return result
	}

	if n%2 != 0 {
		panic("fft requires power of 2 length")
	}

	even := make([]float64, n/2)
	odd := make([]float64, n/2)

	for i := 0; i < n/2; i++ {
		even[i] = data[2*i]
		odd[i] = data[2*i+1]
	}

	feven := FFT(even)
	fodd := FFT(odd)

	result := make([]complex128, n)
	for k := 0; k < n/2; k++ {
		w := cmplx.Exp(complex(0, -2*math.Pi*float64(k)/float64(n)))
		result[k] = feven[k] + w*fodd[k]
		result[k+n/2] = feven[k] - w*fodd[k]
	}

	return result
}

func PowerSpectrum(data []float64) []float64 {
	fft := FFT(data)
	ps := make([]float64, len(fft)/2)

	for i := range ps {
		ps[i] = cmplx.Abs(fft[i])
	}

	return ps
}

// nextPow2 returns the smallest power of two >= n.
func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// DominantFrequency returns the angular frequency (rad/s) of the strongest
// non-DC bin of xs sampled every dt. The mean is removed and the signal
// zero-padded to a power of two, so resolution is 2π/(N·dt).
func DominantFrequency(xs []float64, dt float64) float64 {
	if len(xs) < 2 || dt <= 0 {
		return 0
	}

	n := nextPow2(len(xs))
	padded := make([]float64, n)
	m := mean(xs)
	for i, x := range xs {
		padded[i] = x - m
	}

	ps := PowerSpectrum(padded)
	if len(ps) < 2 {
		return 0
	}
	best := 1
	for k := 2; k < len(ps); k++ {
		if ps[k] > ps[best] {
			best = k
		}
	}

	return 2 * math.Pi * float64(best) / (float64(n) * dt)
}

// EstimatePeriod averages the spacing of upward zero crossings of the
// mean-removed signal, interpolating each crossing linearly. It returns 0
// when fewer than two crossings are found.
func EstimatePeriod(times, xs []float64) float64 {
	if len(times) != len(xs) || len(xs) < 3 {
		return 0
	}

	m := mean(xs)
	var crossings []float64
	for i := 1; i < len(xs); i++ {
		prev, curr := xs[i-1]-m, xs[i]-m
		if prev < 0 && curr >= 0 {
			frac := -prev / (curr - prev)
			crossings = append(crossings, times[i-1]+frac*(times[i]-times[i-1]))
		}
	}

	if len(crossings) < 2 {
		return 0
	}
	return (crossings[len(crossings)-1] - crossings[0]) / float64(len(crossings)-1)
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}
