package audio

import (
	"fmt"
	"math"
	"os"
	"sync"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"
)

// StreamSource pulls microphone frames from a beep.Streamer, one frame per
// read. Once the streamer is drained every read returns silence.
type StreamSource struct {
	streamer beep.Streamer
	closer   func() error
	frame    [][2]float64
	drained  bool
}

func NewStreamSource(s beep.Streamer) *StreamSource {
	return &StreamSource{
		streamer: s,
		frame:    make([][2]float64, 1),
	}
}

func (s *StreamSource) ReadPair() (int16, int16) {
	if s.drained {
		return 0, 0
	}
	n, ok := s.streamer.Stream(s.frame)
	if n == 0 {
		if !ok {
			s.drained = true
		}
		return 0, 0
	}
	return toSample(s.frame[0][0]), toSample(s.frame[0][1])
}

func (s *StreamSource) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer()
}

// OpenWAV replays a recorded WAV file as microphone input, looping forever.
// Any extra streamers are mixed on top of the recording.
func OpenWAV(path string, extra ...beep.Streamer) (*StreamSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening recording: %w", err)
	}
	streamer, format, err := wav.Decode(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("decoding recording: %w", err)
	}
	if format.NumChannels == 0 {
		streamer.Close()
		return nil, fmt.Errorf("recording %s has no channels", path)
	}
	mixed := append([]beep.Streamer{beep.Loop(-1, streamer)}, extra...)
	src := NewStreamSource(beep.Mix(mixed...))
	src.closer = streamer.Close
	return src, nil
}

func toSample(v float64) int16 {
	scaled := math.Round(v * math.MaxInt16)
	switch {
	case scaled > math.MaxInt16:
		return math.MaxInt16
	case scaled < math.MinInt16:
		return math.MinInt16
	}
	return int16(scaled)
}

// ClapFrames is how many frames a single Clap stays loud.
const ClapFrames = 4

// Clapper is a beep.Streamer that is silent until Clap is called, then
// emits a full-scale square burst. Hosts use it to turn a key press or a
// browser message into microphone input.
type Clapper struct {
	mu        sync.Mutex
	burst     int
	remaining int
	phase     bool
}

func NewClapper(burst int) *Clapper {
	if burst <= 0 {
		burst = ClapFrames
	}
	return &Clapper{burst: burst}
}

func (c *Clapper) Clap() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.remaining = c.burst
}

func (c *Clapper) Stream(samples [][2]float64) (n int, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range samples {
		var v float64
		if c.remaining > 0 {
			v = 0.9
			if c.phase {
				v = -0.9
			}
			c.phase = !c.phase
			c.remaining--
		}
		samples[i][0] = v
		samples[i][1] = v
	}
	return len(samples), true
}

func (c *Clapper) Err() error { return nil }
