package tts

import "math"

type Options struct {
	Voice  string  // espeak voice name, e.g. "en-us"; empty keeps the default
	Rate   int     // words per minute
	Volume float64 // 0.0 - 1.0
}

// espeakVolume maps 0.0-1.0 onto espeak's 0-100 normal range.
func espeakVolume(v float64) int {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return int(math.Round(v * 100))
}
