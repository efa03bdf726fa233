package features

const (
	// Plausible human-voice fundamental frequency band in Hz.
	minPitchHz = 40.0
	maxPitchHz = 800.0
)

// estimatePitch returns the fundamental frequency of one analysis window
// via autocorrelation restricted to the human-voice period range, or 0
// when the window carries no detectable periodicity.
func estimatePitch(win []float64, sampleRate float64) float64 {
	if len(win) == 0 || sampleRate <= 0 {
		return 0
	}

	minLag := int(sampleRate / maxPitchHz)
	maxLag := int(sampleRate / minPitchHz)

	if minLag < 1 {
		minLag = 1
	}
	if maxLag >= len(win) {
		maxLag = len(win) - 1
	}
	if maxLag < minLag {
		return 0
	}

	var energy float64
	for _, x := range win {
		energy += x * x
	}
	if energy == 0 {
		return 0
	}

	bestLag := 0
	bestCorr := 0.0

	for lag := minLag; lag <= maxLag; lag++ {
		var corr float64
		for i := 0; i < len(win)-lag; i++ {
			corr += win[i] * win[i+lag]
		}

		corr /= energy
		if corr > bestCorr {
			bestCorr = corr
			bestLag = lag
		}
	}

	if bestLag == 0 {
		return 0
	}

	return sampleRate / float64(bestLag)
}
