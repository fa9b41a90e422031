package audio

import (
	"math"
	"time"

	"voxbot/internal/listen"
)

const (
	SampleRate = 16000
	frameSize  = 320 // 20ms

	minThreshold    = 0.01
	thresholdFactor = 1.5
)

type Recorder struct {
	threshold float64
	pause     time.Duration
}

// NewRecorder returns a recorder ending a phrase after pause of silence.
func NewRecorder(pause time.Duration) *Recorder {
	if pause <= 0 {
		pause = time.Second
	}
	return &Recorder{
		threshold: 0.015,
		pause:     pause,
	}
}

func (r *Recorder) Threshold() float64 { return r.threshold }

func frameDuration() time.Duration {
	return time.Duration(frameSize) * time.Second / SampleRate
}

// segmenter decides, frame by frame, where a phrase starts and ends.
type segmenter struct {
	threshold   float64
	frame       time.Duration
	timeout     time.Duration
	phraseLimit time.Duration
	pause       time.Duration

	speaking bool
	waited   time.Duration
	spoken   time.Duration
	silence  time.Duration
}

func (s *segmenter) feed(rms float64) (keep, done bool, err error) {
	loud := rms > s.threshold

	if !s.speaking {
		if !loud {
			s.waited += s.frame
			if s.timeout > 0 && s.waited >= s.timeout {
				return false, true, listen.ErrNoSpeech
			}
			return false, false, nil
		}
		s.speaking = true
	}

	s.spoken += s.frame
	if loud {
		s.silence = 0
	} else {
		s.silence += s.frame
		if s.silence >= s.pause {
			return false, true, nil
		}
	}

	if s.phraseLimit > 0 && s.spoken >= s.phraseLimit {
		return true, true, nil
	}
	return true, false, nil
}

func calibrationThreshold(levels []float64) float64 {
	if len(levels) == 0 {
		return minThreshold
	}
	var sum float64
	for _, l := range levels {
		sum += l
	}
	t := sum / float64(len(levels)) * thresholdFactor
	if t < minThreshold {
		t = minThreshold
	}
	return t
}

func frameRMS(f []float32) float64 {
	if len(f) == 0 {
		return 0
	}
	var s float64
	for _, x := range f {
		s += float64(x * x)
	}
	return math.Sqrt(s / float64(len(f)))
}
