// Package scoring tracks the score and the countdown readouts.
package scoring

import "clapshot/internal/devices"

// CountdownPeriod is the number of ticks between countdown decrements.
const CountdownPeriod = 1000

type Tracker struct {
	score     uint16
	countdown uint16

	lastCountdownRender uint64

	ScoreDisplay     devices.DigitDisplay
	CountdownDisplay devices.DigitDisplay
}

func NewTracker(scoreDisplay, countdownDisplay devices.DigitDisplay, countdown uint16) *Tracker {
	return &Tracker{
		countdown:        countdown,
		ScoreDisplay:     scoreDisplay,
		CountdownDisplay: countdownDisplay,
	}
}

// Init draws the starting score.
func (t *Tracker) Init() {
	t.ScoreDisplay.Render(t.score, devices.Neutral)
}

func (t *Tracker) Score() uint16 {
	return t.score
}

func (t *Tracker) Countdown() uint16 {
	return t.countdown
}

// Reward adds bounty to the score. The sum wraps at 16 bits.
func (t *Tracker) Reward(bounty uint16) uint16 {
	t.score += bounty
	t.ScoreDisplay.Render(t.score, devices.Green)
	return t.score
}

// Penalize subtracts bounty from the score, stopping at zero.
func (t *Tracker) Penalize(bounty uint16) uint16 {
	if t.score < bounty {
		t.score = 0
	} else {
		t.score -= bounty
	}
	t.ScoreDisplay.Render(t.score, devices.Red)
	return t.score
}

// Advance decrements the countdown once a full period has passed since the
// last countdown render. It reports whether the readout was redrawn. At zero
// the countdown stays at zero.
func (t *Tracker) Advance(tick uint64) bool {
	if tick < t.lastCountdownRender || tick-t.lastCountdownRender < CountdownPeriod {
		return false
	}
	if t.countdown > 0 {
		t.countdown--
	}
	t.CountdownDisplay.Render(t.countdown, devices.Neutral)
	t.lastCountdownRender = tick
	return true
}
