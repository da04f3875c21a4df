// Package random provides the seeded generator that drives target lifetimes,
// spawn positions and bonus timing.
package random

const (
	mtN         = 624
	mtM         = 397
	matrixA     = 0x9908b0df
	upperMask   = 0x80000000
	lowerMask   = 0x7fffffff
	defaultSeed = 5489
)

const (
	// MinLifetime is the floor applied to every jittered lifetime.
	MinLifetime     = 5000
	lifetimeMask    = 0x3FFF
	bonusJitterSpan = 3000
)

type Source interface {
	Uint32() uint32
}

// MT is a 32-bit Mersenne Twister. It is not safe for concurrent use.
type MT struct {
	state [mtN]uint32
	index int
}

func NewMT(seed uint32) *MT {
	m := &MT{}
	m.Seed(seed)
	return m
}

func (m *MT) Seed(seed uint32) {
	m.state[0] = seed
	for i := 1; i < mtN; i++ {
		prev := m.state[i-1]
		m.state[i] = 1812433253*(prev^(prev>>30)) + uint32(i)
	}
	m.index = mtN
}

func (m *MT) Uint32() uint32 {
	if m.index >= mtN {
		m.twist()
	}
	y := m.state[m.index]
	m.index++

	y ^= y >> 11
	y ^= (y << 7) & 0x9d2c5680
	y ^= (y << 15) & 0xefc60000
	y ^= y >> 18
	return y
}

func (m *MT) twist() {
	for i := 0; i < mtN; i++ {
		y := (m.state[i] & upperMask) | (m.state[(i+1)%mtN] & lowerMask)
		next := y >> 1
		if y&1 != 0 {
			next ^= matrixA
		}
		m.state[i] = m.state[(i+mtM)%mtN] ^ next
	}
	m.index = 0
}

// Lifetime draws a target lifetime in ticks. The low 14 bits of a draw are
// raised to MinLifetime when smaller, so the result lies in [5000, 16383].
func Lifetime(src Source) uint64 {
	n := uint64(src.Uint32()) & lifetimeMask
	return max(n, MinLifetime)
}

// BonusJitter draws the extra delay added to the bonus spawn interval, 0..2999.
func BonusJitter(src Source) uint64 {
	return uint64(src.Uint32()) % bonusJitterSpan
}
