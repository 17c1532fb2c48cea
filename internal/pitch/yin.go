package pitch

import (
	"math"

	"github.com/0xlemi/rtuner/internal/audio"
	"github.com/mjibson/go-dsp/fft"
)

// Default YIN parameters
const (
	DefaultThreshold       = 0.3 // Maximum normalized difference for a candidate period
	DefaultConfidenceFloor = 0.9 // Minimum clarity for a reported pitch
)

// Differences this far below the window energy are rounding residue from the
// FFT and are treated as exact zeros.
const residueFloor = 1e-9

// YINDetector implements pitch detection using the YIN cumulative mean
// normalized difference function.
type YINDetector struct {
	threshold       float64
	confidenceFloor float64
}

// NewYINDetector creates a detector. Zero values select the defaults.
func NewYINDetector(threshold, confidenceFloor float64) *YINDetector {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	if confidenceFloor <= 0 {
		confidenceFloor = DefaultConfidenceFloor
	}
	return &YINDetector{
		threshold:       threshold,
		confidenceFloor: confidenceFloor,
	}
}

// Estimate analyzes one window and returns its fundamental frequency
func (d *YINDetector) Estimate(buffer *audio.AudioBuffer) (Estimate, bool) {
	if buffer == nil || len(buffer.Samples) < 4 || buffer.SampleRate <= 0 {
		return Estimate{}, false
	}

	// Step 1: squared difference of the signal with lagged copies of itself
	diff := differenceFunction(buffer.Samples)

	// Step 2: cumulative mean normalization
	cmnd := cumulativeMeanNormalized(diff)

	// Step 3: first dip under the threshold
	tau := absoluteThreshold(cmnd, d.threshold)
	if tau < 0 {
		return Estimate{}, false
	}

	// Step 4: sub-sample refinement
	betterTau, minimum := parabolicInterpolation(cmnd, tau)

	clarity := math.Max(0, math.Min(1, 1-minimum))
	if clarity < d.confidenceFloor {
		return Estimate{}, false
	}

	return Estimate{
		Frequency: float64(buffer.SampleRate) / betterTau,
		Clarity:   clarity,
	}, true
}

// differenceFunction returns d(tau) for tau in [0, N/2]:
//
//	d(tau) = sum_{i=0}^{N-tau-1} (x[i] - x[i+tau])^2
//	       = e(0, N-tau) + e(tau, N) - 2 r(tau)
//
// where e are window energies taken from prefix sums and r is the linear
// autocorrelation, computed through a zero-padded FFT.
func differenceFunction(samples []float32) []float64 {
	n := len(samples)
	maxTau := n / 2

	size := nextPowerOfTwo(2 * n)
	padded := make([]float64, size)
	prefix := make([]float64, n+1)
	for i, s := range samples {
		v := float64(s)
		padded[i] = v
		prefix[i+1] = prefix[i] + v*v
	}

	spectrum := fft.FFTReal(padded)
	for i, c := range spectrum {
		spectrum[i] = complex(real(c)*real(c)+imag(c)*imag(c), 0)
	}
	acf := fft.IFFT(spectrum)

	diff := make([]float64, maxTau+1)
	for tau := 1; tau <= maxTau; tau++ {
		energy := prefix[n-tau] + (prefix[n] - prefix[tau])
		d := energy - 2*real(acf[tau])
		if d < residueFloor*energy {
			d = 0
		}
		diff[tau] = d
	}
	return diff
}

// cumulativeMeanNormalized returns d'(tau) = d(tau) * tau / sum_{j=1}^{tau} d(j),
// with d'(0) = 1. Lags with no accumulated difference (silence) are 1.
func cumulativeMeanNormalized(diff []float64) []float64 {
	cmnd := make([]float64, len(diff))
	if len(cmnd) == 0 {
		return cmnd
	}
	cmnd[0] = 1

	runningSum := 0.0
	for tau := 1; tau < len(diff); tau++ {
		runningSum += diff[tau]
		if runningSum == 0 {
			cmnd[tau] = 1
			continue
		}
		cmnd[tau] = diff[tau] * float64(tau) / runningSum
	}
	return cmnd
}

// absoluteThreshold returns the first lag that is under threshold and not
// above its successor, or -1.
func absoluteThreshold(cmnd []float64, threshold float64) int {
	for tau := 1; tau+1 < len(cmnd); tau++ {
		if cmnd[tau] < threshold && cmnd[tau] <= cmnd[tau+1] {
			return tau
		}
	}
	return -1
}

// parabolicInterpolation fits a parabola through tau-1, tau and tau+1 and
// returns its vertex and the value there. It falls back to tau when the
// three points do not form a minimum.
func parabolicInterpolation(cmnd []float64, tau int) (float64, float64) {
	if tau < 1 || tau+1 >= len(cmnd) {
		return float64(tau), cmnd[tau]
	}

	s0, s1, s2 := cmnd[tau-1], cmnd[tau], cmnd[tau+1]
	curvature := s0 + s2 - 2*s1
	if curvature <= 0 {
		return float64(tau), s1
	}

	shift := (s0 - s2) / (2 * curvature)
	if math.Abs(shift) > 1 {
		return float64(tau), s1
	}

	minimum := s1 - (s2-s0)*(s2-s0)/(8*curvature)
	return float64(tau) + shift, minimum
}

func nextPowerOfTwo(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
