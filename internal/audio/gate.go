// Package audio turns the stereo microphone into the game's trigger.
package audio

// DefaultThreshold is the volume a frame has to exceed to count as a shot.
const DefaultThreshold = 2000

// Source delivers one left/right sample pair per call. ReadPair blocks until
// a pair is ready and has no timeout: a source that never produces data
// stalls the caller forever.
type Source interface {
	ReadPair() (left, right int16)
}

// Gate decides, once per frame, whether the player made enough noise.
type Gate struct {
	Source    Source
	Threshold uint16
}

func NewGate(src Source, threshold uint16) *Gate {
	return &Gate{Source: src, Threshold: threshold}
}

// Triggered reads one sample pair and compares its volume to the threshold.
func (g *Gate) Triggered() bool {
	left, right := g.Source.ReadPair()
	return Volume(left, right) > g.Threshold
}

// Volume is the larger magnitude of the two channels.
func Volume(left, right int16) uint16 {
	return max(magnitude(left), magnitude(right))
}

func magnitude(s int16) uint16 {
	if s < 0 {
		return uint16(-int32(s))
	}
	return uint16(s)
}
